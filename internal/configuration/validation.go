package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dunchi/github-commit-tracker/internal/branches"
	"github.com/dunchi/github-commit-tracker/internal/commits"
	"github.com/dunchi/github-commit-tracker/internal/daterange"
	"github.com/dunchi/github-commit-tracker/internal/githubauth"
	"github.com/dunchi/github-commit-tracker/internal/output"
	"github.com/dunchi/github-commit-tracker/internal/utils"
)

const (
	logLevelFieldNameConstant            = "common.log_level"
	logFormatFieldNameConstant           = "common.log_format"
	tokenFieldNameConstant               = "github.token"
	organizationsFieldNameConstant       = "github.organizations"
	usernamesFieldNameConstant           = "github.usernames"
	transportFieldNameConstant           = "github.transport"
	baseURLFieldNameConstant             = "github.base_url"
	requestTimeoutFieldNameConstant      = "github.request_timeout"
	dateFromFieldNameConstant            = "date_range.from"
	dateToFieldNameConstant              = "date_range.to"
	formatFieldNameConstant              = "output.format"
	sortOrderFieldNameConstant           = "output.sort_order"
	cleanupPatternFieldNameConstant      = "output.cleanup_pattern"
	tokenRequiredMessageConstant         = "GitHub token is required (set github.token or GH_TOKEN/GITHUB_TOKEN/GITHUB_API_TOKEN)"
	organizationsRequiredMessageConstant = "at least one organization must be specified"
	usernamesRequiredMessageConstant     = "at least one username must be specified"
	choiceMessageTemplateConstant        = "must be one of: %s (got %q)"
	choiceSeparatorConstant              = ", "
	negativeTimeoutMessageConstant       = "must not be negative"
	invalidBaseURLMessageConstant        = "must be an absolute http(s) URL"
	invalidCleanupPatternMessageConstant = "invalid regular expression"
	httpSchemeConstant                   = "http"
	httpsSchemeConstant                  = "https"
)

// Transport selects how the forge is reached.
type Transport string

// Supported transports.
const (
	TransportAPI Transport = Transport("api")
	TransportCLI Transport = Transport("cli")
)

// SupportedTransports lists the accepted transport names.
func SupportedTransports() []string {
	return []string{string(TransportAPI), string(TransportCLI)}
}

// Configuration is the validated, typed form of Settings.
type Configuration struct {
	LogLevel       utils.LogLevel
	LogFormat      utils.LogFormat
	Token          string
	Organizations  []string
	Usernames      []string
	Transport      Transport
	BaseURL        string
	RequestTimeout time.Duration
	Branches       branches.Configuration
	DateFrom       string
	DateTo         string
	Format         output.Format
	SortOrder      commits.SortOrder
	CleanupPattern string
}

// Validate checks every field and returns the first violation as ConfigurationError.
// Dates are only checked for format here; defaults are resolved at run time.
func Validate(settings Settings, environment map[string]string) (Configuration, error) {
	logLevel, levelError := utils.ParseLogLevel(settings.Common.LogLevel)
	if levelError != nil {
		return Configuration{}, choiceError(logLevelFieldNameConstant, utils.SupportedLogLevels(), settings.Common.LogLevel)
	}
	logFormat, formatError := utils.ParseLogFormat(settings.Common.LogFormat)
	if formatError != nil {
		return Configuration{}, choiceError(logFormatFieldNameConstant, utils.SupportedLogFormats(), settings.Common.LogFormat)
	}

	token, tokenFound := githubauth.ResolveToken(settings.GitHub.Token, environment)
	if !tokenFound {
		return Configuration{}, ConfigurationError{FieldName: tokenFieldNameConstant, Message: tokenRequiredMessageConstant}
	}

	organizations := sanitizeList(settings.GitHub.Organizations)
	if len(organizations) == 0 {
		return Configuration{}, ConfigurationError{FieldName: organizationsFieldNameConstant, Message: organizationsRequiredMessageConstant}
	}
	usernames := sanitizeList(settings.GitHub.Usernames)
	if len(usernames) == 0 {
		return Configuration{}, ConfigurationError{FieldName: usernamesFieldNameConstant, Message: usernamesRequiredMessageConstant}
	}

	transport := Transport(strings.ToLower(strings.TrimSpace(settings.GitHub.Transport)))
	if transport != TransportAPI && transport != TransportCLI {
		return Configuration{}, choiceError(transportFieldNameConstant, SupportedTransports(), settings.GitHub.Transport)
	}

	baseURL := strings.TrimSpace(settings.GitHub.BaseURL)
	if len(baseURL) > 0 {
		parsedURL, parseError := url.Parse(baseURL)
		if parseError != nil || (parsedURL.Scheme != httpSchemeConstant && parsedURL.Scheme != httpsSchemeConstant) || len(parsedURL.Host) == 0 {
			return Configuration{}, ConfigurationError{FieldName: baseURLFieldNameConstant, Message: invalidBaseURLMessageConstant, Cause: parseError}
		}
	}

	if settings.GitHub.RequestTimeout < 0 {
		return Configuration{}, ConfigurationError{FieldName: requestTimeoutFieldNameConstant, Message: negativeTimeoutMessageConstant}
	}

	branchConfiguration, branchError := validateBranchStrategy(settings.BranchStrategy)
	if branchError != nil {
		return Configuration{}, branchError
	}

	dateFrom, dateTo, dateError := validateDateRange(settings.DateRange)
	if dateError != nil {
		return Configuration{}, dateError
	}

	outputFormat, knownFormat := output.ParseFormat(settings.Output.Format)
	if !knownFormat {
		return Configuration{}, choiceError(formatFieldNameConstant, output.SupportedFormats(), settings.Output.Format)
	}
	sortOrder, knownOrder := commits.ParseSortOrder(settings.Output.SortOrder)
	if !knownOrder {
		return Configuration{}, choiceError(sortOrderFieldNameConstant, []string{string(commits.SortOrderAscending), string(commits.SortOrderDescending)}, settings.Output.SortOrder)
	}

	cleanupPattern := settings.Output.CleanupPattern
	if len(strings.TrimSpace(cleanupPattern)) == 0 {
		cleanupPattern = output.DefaultCleanupPattern
	}
	if _, compileError := regexp.Compile(cleanupPattern); compileError != nil {
		return Configuration{}, ConfigurationError{FieldName: cleanupPatternFieldNameConstant, Message: invalidCleanupPatternMessageConstant, Cause: compileError}
	}

	return Configuration{
		LogLevel:       logLevel,
		LogFormat:      logFormat,
		Token:          token,
		Organizations:  organizations,
		Usernames:      usernames,
		Transport:      transport,
		BaseURL:        baseURL,
		RequestTimeout: settings.GitHub.RequestTimeout,
		Branches:       branchConfiguration,
		DateFrom:       dateFrom,
		DateTo:         dateTo,
		Format:         outputFormat,
		SortOrder:      sortOrder,
		CleanupPattern: cleanupPattern,
	}, nil
}

func validateBranchStrategy(strategySettings BranchStrategySettings) (branches.Configuration, error) {
	candidate := branches.Configuration{
		Default:   branches.Strategy{Mode: branches.Mode(strategySettings.Mode), Branches: strategySettings.Branches},
		Overrides: make(map[string]branches.Strategy, len(strategySettings.Overrides)),
	}
	for repositoryName, overrideSettings := range strategySettings.Overrides {
		candidate.Overrides[repositoryName] = branches.Strategy{Mode: branches.Mode(overrideSettings.Mode), Branches: overrideSettings.Branches}
	}

	validated, validationError := candidate.Validate()
	if validationError != nil {
		var strategyError branches.InvalidStrategyError
		fieldName := overridesFieldNameConstant
		if errors.As(validationError, &strategyError) {
			fieldName = strategyError.FieldPath()
		}
		return branches.Configuration{}, ConfigurationError{FieldName: fieldName, Cause: validationError}
	}
	return validated, nil
}

func validateDateRange(dateRangeSettings DateRangeSettings) (string, string, error) {
	fromValue := strings.TrimSpace(dateRangeSettings.From)
	toValue := strings.TrimSpace(dateRangeSettings.To)

	for _, field := range []struct{ name, value string }{{dateFromFieldNameConstant, fromValue}, {dateToFieldNameConstant, toValue}} {
		if len(field.value) == 0 {
			continue
		}
		if _, parseError := daterange.ParseBound(field.name, field.value, time.Local); parseError != nil {
			return "", "", ConfigurationError{FieldName: field.name, Cause: parseError}
		}
	}
	return fromValue, toValue, nil
}

func choiceError(fieldName string, choices []string, value string) ConfigurationError {
	return ConfigurationError{FieldName: fieldName, Message: fmt.Sprintf(choiceMessageTemplateConstant, strings.Join(choices, choiceSeparatorConstant), value)}
}

func sanitizeList(values []string) []string {
	sanitized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if len(trimmed) > 0 {
			sanitized = append(sanitized, trimmed)
		}
	}
	return sanitized
}
