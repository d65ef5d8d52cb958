package configuration

import (
	"bytes"
	"errors"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/dunchi/github-commit-tracker/internal/utils"
)

const (
	configurationFileFieldNameConstant = "config"
	overridesFieldNameConstant         = "branch_strategy.overrides"
	fileNotFoundMessageConstant        = "configuration file not found"
	emptyFileMessageConstant           = "configuration file is empty"
	invalidDocumentMessageConstant     = "invalid YAML document"
	invalidOverridesMessageConstant    = "each override must be a mapping with mode and branches"
)

type overridesDocument struct {
	BranchStrategy struct {
		Overrides map[string]any `yaml:"overrides"`
	} `yaml:"branch_strategy"`
}

// Load reads settings through the loader and decodes branch overrides from the expanded document.
// Every failure is returned as ConfigurationError.
func Load(loader *utils.ConfigurationLoader, configurationFilePath string) (Settings, utils.LoadedConfiguration, error) {
	var settings Settings
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationFilePath, nil, &settings)
	if loadError != nil {
		if errors.Is(loadError, utils.ErrConfigurationFileNotFound) {
			return Settings{}, utils.LoadedConfiguration{}, ConfigurationError{FieldName: configurationFileFieldNameConstant, Message: fileNotFoundMessageConstant, Cause: loadError}
		}
		return Settings{}, utils.LoadedConfiguration{}, ConfigurationError{FieldName: configurationFileFieldNameConstant, Message: invalidDocumentMessageConstant, Cause: loadError}
	}

	if len(loadedConfiguration.ConfigFileUsed) > 0 && len(bytes.TrimSpace(loadedConfiguration.Content)) == 0 {
		return Settings{}, utils.LoadedConfiguration{}, ConfigurationError{FieldName: configurationFileFieldNameConstant, Message: emptyFileMessageConstant}
	}

	overrides, overridesError := DecodeOverrides(loadedConfiguration.Content)
	if overridesError != nil {
		return Settings{}, utils.LoadedConfiguration{}, overridesError
	}
	settings.BranchStrategy.Overrides = overrides

	return settings, loadedConfiguration, nil
}

// DecodeOverrides extracts branch_strategy.overrides keeping "organization/repository" keys verbatim.
// Unknown fields inside an override are rejected.
func DecodeOverrides(content []byte) (map[string]OverrideSettings, error) {
	var document overridesDocument
	if unmarshalError := yaml.Unmarshal(content, &document); unmarshalError != nil {
		return nil, ConfigurationError{FieldName: configurationFileFieldNameConstant, Message: invalidDocumentMessageConstant, Cause: unmarshalError}
	}

	overrides := make(map[string]OverrideSettings, len(document.BranchStrategy.Overrides))
	if len(document.BranchStrategy.Overrides) == 0 {
		return overrides, nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToSliceHookFunc(","),
		ErrorUnused: true,
		Result:      &overrides,
	})
	if decoderError != nil {
		return nil, decoderError
	}

	if decodeError := decoder.Decode(document.BranchStrategy.Overrides); decodeError != nil {
		return nil, ConfigurationError{FieldName: overridesFieldNameConstant, Message: invalidOverridesMessageConstant, Cause: decodeError}
	}
	return overrides, nil
}
