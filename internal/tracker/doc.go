// Package tracker wires the commit-tracker command: it resolves the date
// window, selects the forge transport, collects and sorts matching commits
// and renders the report. A dry run stops after printing the resolved
// settings and never contacts GitHub.
package tracker
