package forge

import (
	"context"
	"time"
)

// Repository identifies a repository by its "organization/repository" name.
type Repository struct {
	FullName string
}

// Commit is a commit as reported by the forge.
type Commit struct {
	SHA         string
	AuthorLogin string
	AuthorName  string
	AuthorEmail string
	Message     string
	Timestamp   time.Time
	URL         string
}

// Window bounds a commit listing; zero values leave that side open.
type Window struct {
	Since time.Time
	Until time.Time
}

// HasSince reports whether the window has a lower bound.
func (window Window) HasSince() bool {
	return !window.Since.IsZero()
}

// HasUntil reports whether the window has an upper bound.
func (window Window) HasUntil() bool {
	return !window.Until.IsZero()
}

// Client lists repositories, branches and commits from a hosted forge.
type Client interface {
	ListRepositories(executionContext context.Context, organization string) ([]Repository, error)
	ListBranches(executionContext context.Context, repositoryFullName string) ([]string, error)
	ListCommits(executionContext context.Context, repositoryFullName string, branch string, window Window) ([]Commit, error)
}
