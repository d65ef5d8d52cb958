package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/daterange"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/output"
	"github.com/dunchi/github-commit-tracker/internal/utils/flags"
)

const (
	commandUseConstant                    = "commit-tracker"
	commandShortDescriptionConstant       = "List GitHub commits authored by the configured users"
	commandLongDescriptionConstant        = "commit-tracker scans every repository of the configured organizations, selects branches by strategy, and reports commits authored by the configured users within a date range, grouped by repository."
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagDescriptionConstant         = "Validate the configuration and print the resolved settings without contacting GitHub."
	nonInteractiveFlagNameConstant        = "non-interactive"
	nonInteractiveFlagDescriptionConstant = "Never prompt; a weekend yesterday starts the range on the preceding Friday."
	formatFlagNameConstant                = "format"
	formatFlagDescriptionConstant         = "Override the configured report format."
	formatFlagFieldNameConstant           = "--format"
	formatChoiceMessageTemplateConstant   = "must be one of: %s (got %q)"
	formatChoiceSeparatorConstant         = ", "
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the commit-tracker command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() configuration.Configuration
	HumanReadableLoggingProvider func() bool
	Client                       forge.Client
	Confirmer                    daterange.Confirmer
	Clock                        daterange.Clock
	Location                     *time.Location
}

// Build constructs the commit-tracker command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)
	command.Flags().Bool(nonInteractiveFlagNameConstant, false, nonInteractiveFlagDescriptionConstant)
	command.Flags().String(formatFlagNameConstant, "", flags.FormatChoiceUsage(string(output.FormatText), output.SupportedFormats(), formatFlagDescriptionConstant))

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	service, serviceError := NewService(Dependencies{
		ClientProvider: func() (forge.Client, error) {
			return ResolveForgeClient(builder.Client, options.Configuration, logger, humanReadableLogging)
		},
		Confirmer: ResolveConfirmer(builder.Confirmer, command.InOrStdin(), command.ErrOrStderr()),
		Clock:     builder.Clock,
		Location:  builder.Location,
		Logger:    logger,
		Output:    command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	dryRun, dryRunError := command.Flags().GetBool(dryRunFlagNameConstant)
	if dryRunError != nil {
		return Options{}, dryRunError
	}
	nonInteractive, nonInteractiveError := command.Flags().GetBool(nonInteractiveFlagNameConstant)
	if nonInteractiveError != nil {
		return Options{}, nonInteractiveError
	}

	trackerConfiguration := builder.resolveConfiguration()
	if command.Flags().Changed(formatFlagNameConstant) {
		formatValue, formatFlagError := command.Flags().GetString(formatFlagNameConstant)
		if formatFlagError != nil {
			return Options{}, formatFlagError
		}
		format, knownFormat := output.ParseFormat(formatValue)
		if !knownFormat {
			return Options{}, configuration.ConfigurationError{
				FieldName: formatFlagFieldNameConstant,
				Message:   fmt.Sprintf(formatChoiceMessageTemplateConstant, strings.Join(output.SupportedFormats(), formatChoiceSeparatorConstant), formatValue),
			}
		}
		trackerConfiguration.Format = format
	}

	return Options{
		Configuration:  trackerConfiguration,
		DryRun:         dryRun,
		NonInteractive: nonInteractive,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() configuration.Configuration {
	if builder.ConfigurationProvider == nil {
		return configuration.Configuration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
