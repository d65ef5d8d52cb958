package cli

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/tracker"
	"github.com/dunchi/github-commit-tracker/internal/utils"
	"github.com/dunchi/github-commit-tracker/internal/utils/flags"
)

const (
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Path to the YAML configuration file (default ./config.yaml)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagDescriptionConstant          = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagDescriptionConstant         = "Override the configured log format."
	environmentPrefixConstant                = "COMMITTRACKER"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	configurationTransportFieldConstant      = "transport"
	configurationDiagnosticsMessageConstant  = "configuration diagnostics"
	diagnosticsOrganizationsFieldConstant    = "organizations"
	diagnosticsUsernamesFieldConstant        = "usernames"
	diagnosticsBranchModeFieldConstant       = "branch_mode"
	diagnosticsOverrideCountFieldConstant    = "override_count"
	diagnosticsDateFromFieldConstant         = "date_from"
	diagnosticsDateToFieldConstant           = "date_to"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	trackerCommandBuildErrorTemplateConstant = "unable to build command: %w"
	defaultConfigurationSearchPathConstant   = "."
)

// Application wires the Cobra command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	rootCommandError      error
	trackerBuilder        *tracker.CommandBuilder
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         configuration.Configuration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	// environment overrides the process environment for token fallback; nil reads the process.
	environment map[string]string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.RequireConfigurationFile(true)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	application.trackerBuilder = &tracker.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConfigurationProvider: func() configuration.Configuration {
			return application.configuration
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
	}

	cobraCommand, buildError := application.trackerBuilder.Build()
	if buildError != nil {
		application.rootCommandError = fmt.Errorf(trackerCommandBuildErrorTemplateConstant, buildError)
		return application
	}

	cobraCommand.SilenceUsage = true
	cobraCommand.SilenceErrors = true
	cobraCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}
	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(
		&application.logLevelFlagValue,
		logLevelFlagNameConstant,
		"",
		flags.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagDescriptionConstant),
	)
	cobraCommand.PersistentFlags().StringVar(
		&application.logFormatFlagValue,
		logFormatFlagNameConstant,
		"",
		flags.FormatChoiceUsage(string(utils.LogFormatConsole), utils.SupportedLogFormats(), logFormatFlagDescriptionConstant),
	)

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the command and ensures logger flushing.
func (application *Application) Execute() error {
	if application.rootCommandError != nil {
		return application.rootCommandError
	}
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	settings, loadedConfiguration, loadError := configuration.Load(application.configurationLoader, application.configurationFilePath)
	if loadError != nil {
		return loadError
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		settings.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		settings.Common.LogFormat = application.logFormatFlagValue
	}

	validatedConfiguration, validationError := configuration.Validate(settings, application.environment)
	if validationError != nil {
		return validationError
	}
	application.configuration = validatedConfiguration

	logger, loggerCreationError := application.loggerFactory.CreateLogger(validatedConfiguration.LogLevel, validatedConfiguration.LogFormat)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, string(validatedConfiguration.LogLevel)),
		zap.String(configurationLogFormatFieldConstant, string(validatedConfiguration.LogFormat)),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationTransportFieldConstant, string(validatedConfiguration.Transport)),
	)
	application.logger.Debug(
		configurationDiagnosticsMessageConstant,
		zap.Strings(diagnosticsOrganizationsFieldConstant, validatedConfiguration.Organizations),
		zap.Strings(diagnosticsUsernamesFieldConstant, validatedConfiguration.Usernames),
		zap.String(diagnosticsBranchModeFieldConstant, string(validatedConfiguration.Branches.Default.Mode)),
		zap.Int(diagnosticsOverrideCountFieldConstant, len(validatedConfiguration.Branches.Overrides)),
		zap.String(diagnosticsDateFromFieldConstant, validatedConfiguration.DateFrom),
		zap.String(diagnosticsDateToFieldConstant, validatedConfiguration.DateTo),
	)

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	return application.configuration.LogFormat == utils.LogFormatConsole
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
