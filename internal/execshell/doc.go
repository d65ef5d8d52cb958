// Package execshell runs the GitHub CLI on behalf of the gh transport.
//
// ShellExecutor wraps a CommandRunner (OSCommandRunner in production) with
// zap logging, typed failures and CommandEventObserver notifications so that
// callers can be tested against a recording runner instead of a real process.
package execshell
