package commits

import (
	"time"

	"github.com/dunchi/github-commit-tracker/internal/daterange"
	"github.com/dunchi/github-commit-tracker/internal/forge"
)

const unknownAuthorValueConstant = "Unknown"

// Record is a collected commit. Records are values and are never modified after collection.
type Record struct {
	SHA         string
	Repository  string
	Branch      string
	Message     string
	AuthorName  string
	AuthorEmail string
	Timestamp   time.Time
	URL         string
}

func newRecord(repositoryFullName string, branch string, commit forge.Commit) Record {
	authorName := commit.AuthorName
	if len(authorName) == 0 {
		authorName = unknownAuthorValueConstant
	}
	authorEmail := commit.AuthorEmail
	if len(authorEmail) == 0 {
		authorEmail = unknownAuthorValueConstant
	}
	return Record{
		SHA:         commit.SHA,
		Repository:  repositoryFullName,
		Branch:      branch,
		Message:     commit.Message,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Timestamp:   commit.Timestamp,
		URL:         commit.URL,
	}
}

// WindowFromRange converts a resolved date range into a forge listing window.
func WindowFromRange(dateRange daterange.Range) forge.Window {
	window := forge.Window{}
	if since, hasSince := dateRange.Since(); hasSince {
		window.Since = since
	}
	if until, hasUntil := dateRange.Until(); hasUntil {
		window.Until = until
	}
	return window
}
