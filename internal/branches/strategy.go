package branches

import (
	"fmt"
	"strings"
)

const (
	modeAllStringConstant                   = "all"
	modeSpecificStringConstant              = "specific"
	modePriorityStringConstant              = "priority"
	modeFieldNameConstant                   = "mode"
	branchesFieldNameConstant               = "branches"
	defaultStrategyLabelConstant            = "branch_strategy"
	overrideStrategyLabelTemplateConstant   = "branch_strategy.overrides['%s']"
	fieldPathTemplateConstant               = "%s.%s"
	invalidStrategyErrorTemplateConstant    = "%s: %s"
	unsupportedModeMessageTemplateConstant  = "must be one of: 'all', 'specific', 'priority' (got %q)"
	branchesRequiredMessageTemplateConstant = "is required for mode '%s' and must be a non-empty list"
)

// Mode enumerates the supported branch selection policies.
type Mode string

// Supported branch selection modes.
const (
	ModeAll      Mode = Mode(modeAllStringConstant)
	ModeSpecific Mode = Mode(modeSpecificStringConstant)
	ModePriority Mode = Mode(modePriorityStringConstant)
)

var supportedModes = map[Mode]struct{}{
	ModeAll:      {},
	ModeSpecific: {},
	ModePriority: {},
}

// ParseMode normalizes a configured mode value and reports whether it is supported.
func ParseMode(rawMode string) (Mode, bool) {
	normalizedMode := Mode(strings.ToLower(strings.TrimSpace(rawMode)))
	_, supported := supportedModes[normalizedMode]
	return normalizedMode, supported
}

// RequiresBranches reports whether the mode selects from an explicit branch list.
func (mode Mode) RequiresBranches() bool {
	return mode == ModeSpecific || mode == ModePriority
}

// Strategy describes how branches are selected for a repository.
type Strategy struct {
	Mode     Mode     `mapstructure:"mode" yaml:"mode"`
	Branches []string `mapstructure:"branches" yaml:"branches,omitempty"`
}

// InvalidStrategyError reports a strategy that violates its invariants.
type InvalidStrategyError struct {
	Repository string
	FieldName  string
	Message    string
}

// Error describes the invalid strategy.
func (strategyError InvalidStrategyError) Error() string {
	return fmt.Sprintf(invalidStrategyErrorTemplateConstant, strategyError.FieldPath(), strategyError.Message)
}

// FieldPath locates the offending field inside the configuration document,
// e.g. "branch_strategy.overrides['acme/widgets'].branches".
func (strategyError InvalidStrategyError) FieldPath() string {
	label := defaultStrategyLabelConstant
	if len(strategyError.Repository) > 0 {
		label = fmt.Sprintf(overrideStrategyLabelTemplateConstant, strategyError.Repository)
	}
	return fmt.Sprintf(fieldPathTemplateConstant, label, strategyError.FieldName)
}

// Validate normalizes the strategy and checks that branch-list modes carry branches.
// The repository argument only labels errors and is empty for the default strategy.
func (strategy Strategy) Validate(repository string) (Strategy, error) {
	normalizedMode, supported := ParseMode(string(strategy.Mode))
	if !supported {
		return Strategy{}, InvalidStrategyError{
			Repository: repository,
			FieldName:  modeFieldNameConstant,
			Message:    fmt.Sprintf(unsupportedModeMessageTemplateConstant, string(strategy.Mode)),
		}
	}

	sanitizedBranches := sanitizeBranchNames(strategy.Branches)
	if normalizedMode.RequiresBranches() && len(sanitizedBranches) == 0 {
		return Strategy{}, InvalidStrategyError{
			Repository: repository,
			FieldName:  branchesFieldNameConstant,
			Message:    fmt.Sprintf(branchesRequiredMessageTemplateConstant, normalizedMode),
		}
	}

	return Strategy{Mode: normalizedMode, Branches: sanitizedBranches}, nil
}

func sanitizeBranchNames(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
