// Package configuration loads and validates the commit-tracker configuration document.
//
// Load layers the document through utils.ConfigurationLoader and decodes
// branch overrides separately so repository keys keep their case. Validate
// turns Settings into a typed Configuration or a ConfigurationError naming the
// offending field.
package configuration
