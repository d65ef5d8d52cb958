package configuration

import "fmt"

const (
	configurationErrorTemplateConstant          = "configuration error: %s: %s"
	configurationErrorWithCauseTemplateConstant = "configuration error: %s: %s: %v"
	configurationCauseOnlyTemplateConstant      = "configuration error: %s: %v"
)

// ConfigurationError reports a configuration that cannot be used. It is always fatal.
type ConfigurationError struct {
	FieldName string
	Message   string
	Cause     error
}

// Error describes the offending field.
func (configurationError ConfigurationError) Error() string {
	switch {
	case configurationError.Cause == nil:
		return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.FieldName, configurationError.Message)
	case len(configurationError.Message) == 0:
		return fmt.Sprintf(configurationCauseOnlyTemplateConstant, configurationError.FieldName, configurationError.Cause)
	default:
		return fmt.Sprintf(configurationErrorWithCauseTemplateConstant, configurationError.FieldName, configurationError.Message, configurationError.Cause)
	}
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}
