// Package githubapi lists repositories, branches and commits through the GitHub REST API.
package githubapi
