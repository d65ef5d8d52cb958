package configuration

import (
	"time"
)

// Settings mirrors the configuration document as decoded by Viper, before validation.
type Settings struct {
	Common         CommonSettings         `mapstructure:"common"`
	GitHub         GitHubSettings         `mapstructure:"github"`
	BranchStrategy BranchStrategySettings `mapstructure:"branch_strategy"`
	DateRange      DateRangeSettings      `mapstructure:"date_range"`
	Output         OutputSettings         `mapstructure:"output"`
}

// CommonSettings configures logging.
type CommonSettings struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// GitHubSettings identifies the account, the scanned organizations and the authors of interest.
type GitHubSettings struct {
	Token          string        `mapstructure:"token"`
	Organizations  []string      `mapstructure:"organizations"`
	Usernames      []string      `mapstructure:"usernames"`
	Transport      string        `mapstructure:"transport"`
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// BranchStrategySettings holds the default strategy and per-repository overrides.
// Overrides are decoded from the raw document because Viper folds key case and splits on dots.
type BranchStrategySettings struct {
	Mode      string                      `mapstructure:"mode"`
	Branches  []string                    `mapstructure:"branches"`
	Overrides map[string]OverrideSettings `mapstructure:"-"`
}

// OverrideSettings replaces the default strategy for one repository.
type OverrideSettings struct {
	Mode     string   `mapstructure:"mode"`
	Branches []string `mapstructure:"branches"`
}

// DateRangeSettings holds explicit window bounds; empty strings mean "use the default".
type DateRangeSettings struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// OutputSettings configures the report.
type OutputSettings struct {
	Format         string `mapstructure:"format"`
	SortOrder      string `mapstructure:"sort_order"`
	CleanupPattern string `mapstructure:"cleanup_pattern"`
}
