package tracker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dunchi/github-commit-tracker/internal/branches"
	"github.com/dunchi/github-commit-tracker/internal/commits"
	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/daterange"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/output"
	"github.com/dunchi/github-commit-tracker/internal/utils"
)

const (
	dateRangeResolvedMessageConstant      = "resolved date range"
	dryRunCompletedMessageConstant        = "dry run complete, configuration is valid"
	collectionStartedMessageConstant      = "collecting commits"
	collectionCompletedMessageConstant    = "collected commits"
	noCommitsFoundMessageConstant         = "no commits found matching the criteria"
	logFieldFromConstant                  = "from"
	logFieldToConstant                    = "to"
	logFieldOrganizationsConstant         = "organizations"
	logFieldUsernamesConstant             = "usernames"
	logFieldTransportConstant             = "transport"
	logFieldCommitCountConstant           = "commit_count"
	dateFieldPrefixConstant               = "date_range."
	untilNowLabelConstant                 = "now"
	redactedTokenConstant                 = "<redacted>"
	summaryIndentConstant                 = 2
	summaryEncodingErrorTemplateConstant  = "unable to encode dry-run summary: %w"
	rendererCreationErrorTemplateConstant = "unable to prepare report: %w"
	reportWriteErrorTemplateConstant      = "unable to write report: %w"
	reportLineTerminatorConstant          = "\n"
)

var (
	// ErrClientProviderNotConfigured indicates the service cannot reach a forge.
	ErrClientProviderNotConfigured = errors.New("forge client provider not configured")
	// ErrOutputNotConfigured indicates the service has nowhere to write the report.
	ErrOutputNotConfigured = errors.New("report output not configured")
)

// ClientProvider constructs the forge client lazily so dry runs never build one.
type ClientProvider func() (forge.Client, error)

// Dependencies supplies the collaborators of Service.
type Dependencies struct {
	ClientProvider ClientProvider
	Confirmer      daterange.Confirmer
	Clock          daterange.Clock
	Location       *time.Location
	Logger         *zap.Logger
	Output         io.Writer
}

// Options controls one run.
type Options struct {
	Configuration  configuration.Configuration
	DryRun         bool
	NonInteractive bool
}

// DryRunSummary is the resolved view of the configuration printed by a dry run.
type DryRunSummary struct {
	GitHub         GitHubSummary          `yaml:"github"`
	BranchStrategy branches.Configuration `yaml:"branch_strategy"`
	DateRange      DateRangeSummary       `yaml:"date_range"`
	Output         OutputSummary          `yaml:"output"`
}

// GitHubSummary lists the scanned scope with the token redacted.
type GitHubSummary struct {
	Token         string   `yaml:"token"`
	Organizations []string `yaml:"organizations"`
	Usernames     []string `yaml:"usernames"`
	Transport     string   `yaml:"transport"`
	BaseURL       string   `yaml:"base_url,omitempty"`
}

// DateRangeSummary renders the resolved window.
type DateRangeSummary struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// OutputSummary renders report settings.
type OutputSummary struct {
	Format         string `yaml:"format"`
	SortOrder      string `yaml:"sort_order"`
	CleanupPattern string `yaml:"cleanup_pattern"`
}

// Service runs the commit-tracker workflow.
type Service struct {
	clientProvider ClientProvider
	confirmer      daterange.Confirmer
	clock          daterange.Clock
	location       *time.Location
	logger         *zap.Logger
	output         io.Writer
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.ClientProvider == nil {
		return nil, ErrClientProviderNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = daterange.SystemClock{}
	}
	location := dependencies.Location
	if location == nil {
		location = time.Local
	}

	return &Service{
		clientProvider: dependencies.ClientProvider,
		confirmer:      dependencies.Confirmer,
		clock:          clock,
		location:       location,
		logger:         logger,
		output:         utils.NewFlushingWriter(dependencies.Output),
	}, nil
}

// Run resolves the date range and either prints the dry-run summary or collects and renders commits.
// Dry runs resolve dates without prompting.
func (service *Service) Run(executionContext context.Context, options Options) error {
	trackerConfiguration := options.Configuration
	interactive := !options.DryRun && !options.NonInteractive

	resolver := daterange.NewResolver(service.clock, service.confirmer, service.location)
	dateRange, resolveError := resolver.Resolve(trackerConfiguration.DateFrom, trackerConfiguration.DateTo, interactive)
	if resolveError != nil {
		var formatError daterange.FormatError
		if errors.As(resolveError, &formatError) {
			return configuration.ConfigurationError{FieldName: dateFieldPrefixConstant + formatError.FieldName, Cause: formatError}
		}
		return resolveError
	}

	dateSummary := summarizeDateRange(dateRange)
	service.logger.Info(
		dateRangeResolvedMessageConstant,
		zap.String(logFieldFromConstant, dateSummary.From),
		zap.String(logFieldToConstant, dateSummary.To),
	)

	if options.DryRun {
		if summaryError := service.writeSummary(trackerConfiguration, dateSummary); summaryError != nil {
			return summaryError
		}
		service.logger.Info(dryRunCompletedMessageConstant)
		return nil
	}

	client, clientError := service.clientProvider()
	if clientError != nil {
		return clientError
	}
	collector, collectorError := commits.NewCollector(client, service.logger)
	if collectorError != nil {
		return collectorError
	}

	service.logger.Info(
		collectionStartedMessageConstant,
		zap.Strings(logFieldOrganizationsConstant, trackerConfiguration.Organizations),
		zap.Strings(logFieldUsernamesConstant, trackerConfiguration.Usernames),
		zap.String(logFieldTransportConstant, string(trackerConfiguration.Transport)),
	)
	records := collector.Collect(executionContext, commits.Request{
		Organizations: trackerConfiguration.Organizations,
		Usernames:     trackerConfiguration.Usernames,
		Strategies:    trackerConfiguration.Branches,
		Window:        commits.WindowFromRange(dateRange),
	})
	service.logger.Info(collectionCompletedMessageConstant, zap.Int(logFieldCommitCountConstant, len(records)))
	if len(records) == 0 {
		service.logger.Info(noCommitsFoundMessageConstant)
	}

	renderer, rendererError := output.NewRenderer(trackerConfiguration.CleanupPattern)
	if rendererError != nil {
		return fmt.Errorf(rendererCreationErrorTemplateConstant, rendererError)
	}
	report, renderError := renderer.Render(trackerConfiguration.Format, commits.Sort(records, trackerConfiguration.SortOrder))
	if renderError != nil {
		return renderError
	}
	return service.writeReport(report)
}

// BuildSummary projects a validated configuration and resolved window into a DryRunSummary.
func BuildSummary(trackerConfiguration configuration.Configuration, dateSummary DateRangeSummary) DryRunSummary {
	return DryRunSummary{
		GitHub: GitHubSummary{
			Token:         redactToken(trackerConfiguration.Token),
			Organizations: trackerConfiguration.Organizations,
			Usernames:     trackerConfiguration.Usernames,
			Transport:     string(trackerConfiguration.Transport),
			BaseURL:       trackerConfiguration.BaseURL,
		},
		BranchStrategy: trackerConfiguration.Branches,
		DateRange:      dateSummary,
		Output: OutputSummary{
			Format:         string(trackerConfiguration.Format),
			SortOrder:      string(trackerConfiguration.SortOrder),
			CleanupPattern: trackerConfiguration.CleanupPattern,
		},
	}
}

func (service *Service) writeSummary(trackerConfiguration configuration.Configuration, dateSummary DateRangeSummary) error {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(summaryIndentConstant)
	if encodingError := encoder.Encode(BuildSummary(trackerConfiguration, dateSummary)); encodingError != nil {
		return fmt.Errorf(summaryEncodingErrorTemplateConstant, encodingError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(summaryEncodingErrorTemplateConstant, closeError)
	}
	return service.writeReport(buffer.String())
}

func (service *Service) writeReport(report string) error {
	if len(report) == 0 {
		return nil
	}
	if !strings.HasSuffix(report, reportLineTerminatorConstant) {
		report += reportLineTerminatorConstant
	}
	if _, writeError := io.WriteString(service.output, report); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func summarizeDateRange(dateRange daterange.Range) DateRangeSummary {
	summary := DateRangeSummary{To: untilNowLabelConstant}
	if dateRange.From != nil {
		summary.From = dateRange.From.String()
	}
	if dateRange.To != nil {
		summary.To = dateRange.To.String()
	}
	return summary
}

func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	return redactedTokenConstant
}
