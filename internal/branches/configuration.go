package branches

import (
	"fmt"
	"strings"
)

const (
	repositoryKeySeparatorConstant            = "/"
	overrideKeyFieldNameConstant              = "overrides"
	invalidOverrideKeyMessageTemplateConstant = "invalid repository name %q, must be in 'organization/repository' format"
)

// Configuration captures the default strategy and per-repository replacements.
type Configuration struct {
	Default   Strategy            `yaml:"default"`
	Overrides map[string]Strategy `yaml:"overrides,omitempty"`
}

// Validate normalizes every strategy and verifies override keys.
func (configuration Configuration) Validate() (Configuration, error) {
	validatedDefault, defaultError := configuration.Default.Validate("")
	if defaultError != nil {
		return Configuration{}, defaultError
	}

	validatedOverrides := make(map[string]Strategy, len(configuration.Overrides))
	for repositoryName, overrideStrategy := range configuration.Overrides {
		if !IsRepositoryFullName(repositoryName) {
			return Configuration{}, InvalidStrategyError{
				FieldName: overrideKeyFieldNameConstant,
				Message:   fmt.Sprintf(invalidOverrideKeyMessageTemplateConstant, repositoryName),
			}
		}

		validatedOverride, overrideError := overrideStrategy.Validate(repositoryName)
		if overrideError != nil {
			return Configuration{}, overrideError
		}
		validatedOverrides[repositoryName] = validatedOverride
	}

	return Configuration{Default: validatedDefault, Overrides: validatedOverrides}, nil
}

// IsRepositoryFullName reports whether the value has the non-empty "organization/repository" shape.
func IsRepositoryFullName(value string) bool {
	organization, repository, found := strings.Cut(value, repositoryKeySeparatorConstant)
	if !found {
		return false
	}
	return len(strings.TrimSpace(organization)) > 0 && len(strings.TrimSpace(repository)) > 0
}

// EffectiveStrategy returns the override registered for the repository, or the default strategy.
// Overrides replace mode and branches together and are never merged with the default.
func EffectiveStrategy(repositoryFullName string, configuration Configuration) Strategy {
	if overrideStrategy, exists := configuration.Overrides[repositoryFullName]; exists {
		return overrideStrategy
	}
	return Strategy{Mode: configuration.Default.Mode, Branches: configuration.Default.Branches}
}
