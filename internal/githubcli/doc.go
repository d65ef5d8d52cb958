// Package githubcli lists repositories, branches and commits through the GitHub CLI.
//
// Every call is a paginated "gh api" request executed by execshell, so the
// client can be tested against a stub executor that returns canned JSON.
package githubcli
