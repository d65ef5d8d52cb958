// Package cli constructs the commit-tracker command-line interface. It loads
// and validates the configuration before the command runs, creates the zap
// logger from the validated settings, and hands both to the tracker command.
package cli
