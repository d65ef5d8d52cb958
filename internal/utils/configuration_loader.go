package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant                 = "."
	environmentKeySeparatorNewConstant                 = "_"
	configurationReadErrorTemplateConstant             = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant        = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant    = "failed to merge embedded configuration: %w"
	configurationNotFoundTemplateConstant              = "configuration file %s not found"
	configurationNotFoundInSearchPathsTemplateConstant = "configuration file %s not found in %s"
	searchPathSeparatorConstant                        = ", "
	sliceSeparatorConstant                             = ","
)

var (
	// ErrConfigurationFileNotFound indicates that no configuration file could be located.
	ErrConfigurationFileNotFound = errors.New("configuration file not found")

	configurationFileExtensions = []string{".yaml", ".yml"}

	environmentReferencePattern = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// ConfigurationFileNotFoundError describes an explicit or searched configuration file that does not exist.
type ConfigurationFileNotFoundError struct {
	Path          string
	FileName      string
	SearchedPaths []string
}

// Error describes the missing file.
func (notFoundError ConfigurationFileNotFoundError) Error() string {
	if len(notFoundError.Path) > 0 {
		return fmt.Sprintf(configurationNotFoundTemplateConstant, notFoundError.Path)
	}
	return fmt.Sprintf(configurationNotFoundInSearchPathsTemplateConstant, notFoundError.FileName, strings.Join(notFoundError.SearchedPaths, searchPathSeparatorConstant))
}

// Is matches ErrConfigurationFileNotFound.
func (notFoundError ConfigurationFileNotFoundError) Is(target error) bool {
	return target == ErrConfigurationFileNotFound
}

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
	fileRequired              bool
	environmentLookup         func(string) (string, bool)
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
	// Content holds the configuration file after environment references were expanded.
	Content []byte
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
		environmentLookup:      os.LookupEnv,
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// RequireConfigurationFile makes LoadConfiguration fail when no configuration file can be located.
func (loader *ConfigurationLoader) RequireConfigurationFile(required bool) {
	if loader == nil {
		return
	}
	loader.fileRequired = required
}

// LoadConfiguration populates targetConfiguration using configuration files, defaults, and environment variables.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		configurationType := loader.configurationType
		if len(loader.embeddedConfigurationType) > 0 {
			configurationType = loader.embeddedConfigurationType
		}

		viperInstance.SetConfigType(configurationType)
		mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration))
		if mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}

		viperInstance.SetConfigType(loader.configurationType)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	resolvedFilePath, resolveError := loader.resolveConfigurationFile(configurationFilePath)
	if resolveError != nil {
		return LoadedConfiguration{}, resolveError
	}

	loadedConfiguration := LoadedConfiguration{ConfigFileUsed: resolvedFilePath}

	if len(resolvedFilePath) > 0 {
		rawContent, readError := os.ReadFile(resolvedFilePath)
		if readError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}

		expandedContent := loader.ExpandEnvironmentReferences(rawContent)
		mergeError := viperInstance.MergeConfig(bytes.NewReader(expandedContent))
		if mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, mergeError)
		}
		loadedConfiguration.Content = expandedContent
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(sliceSeparatorConstant),
	))

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook)
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return loadedConfiguration, nil
}

// ExpandEnvironmentReferences replaces ${NAME} references with environment values.
// References to unset variables are kept verbatim.
func (loader *ConfigurationLoader) ExpandEnvironmentReferences(content []byte) []byte {
	lookup := os.LookupEnv
	if loader != nil && loader.environmentLookup != nil {
		lookup = loader.environmentLookup
	}

	return environmentReferencePattern.ReplaceAllFunc(content, func(reference []byte) []byte {
		variableName := string(environmentReferencePattern.FindSubmatch(reference)[1])
		value, found := lookup(variableName)
		if !found {
			return reference
		}
		return []byte(value)
	})
}

func (loader *ConfigurationLoader) resolveConfigurationFile(configurationFilePath string) (string, error) {
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) > 0 {
		if !fileExists(trimmedPath) {
			return "", ConfigurationFileNotFoundError{Path: trimmedPath}
		}
		return trimmedPath, nil
	}

	for _, searchPath := range loader.searchPaths {
		for _, extension := range configurationFileExtensions {
			candidatePath := filepath.Join(searchPath, loader.configurationName+extension)
			if fileExists(candidatePath) {
				return candidatePath, nil
			}
		}
	}

	if loader.fileRequired {
		return "", ConfigurationFileNotFoundError{FileName: loader.configurationName + configurationFileExtensions[0], SearchedPaths: loader.searchPaths}
	}
	return "", nil
}

func fileExists(path string) bool {
	fileInfo, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return !fileInfo.IsDir()
}
