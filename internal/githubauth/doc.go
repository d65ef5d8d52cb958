// Package githubauth resolves the GitHub token used by both remote transports.
package githubauth
