// Package output renders collected commit records as grouped text, JSON, CSV or YAML.
package output
