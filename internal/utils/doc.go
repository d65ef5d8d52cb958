// Package utils exposes the configuration loader, logger factory and report
// writer shared by the commit-tracker command.
//
// ConfigurationLoader layers embedded defaults, a YAML file with ${VAR}
// references expanded, and COMMITTRACKER_ environment overrides through Viper.
// LoggerFactory builds zap loggers in console or structured encodings.
package utils
