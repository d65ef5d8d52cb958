package tracker_test

import (
	"context"
	"time"

	"github.com/dunchi/github-commit-tracker/internal/branches"
	"github.com/dunchi/github-commit-tracker/internal/commits"
	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/output"
	"github.com/dunchi/github-commit-tracker/internal/utils"
)

const (
	testTokenConstant             = "ghp_secret_token"
	testOrganizationConstant      = "acme"
	testWidgetsRepositoryConstant = "acme/widgets"
	testMainBranchConstant        = "main"
	testAliceConstant             = "alice"
	testBobConstant               = "bob"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

type recordingConfirmer struct {
	answer    bool
	failure   error
	questions []string
}

func (confirmer *recordingConfirmer) Confirm(question string) (bool, error) {
	confirmer.questions = append(confirmer.questions, question)
	return confirmer.answer, confirmer.failure
}

type recordingForgeClient struct {
	commits        []forge.Commit
	recordedWindow []forge.Window
	listedOrgs     []string
}

func (client *recordingForgeClient) ListRepositories(_ context.Context, organization string) ([]forge.Repository, error) {
	client.listedOrgs = append(client.listedOrgs, organization)
	return []forge.Repository{{FullName: testWidgetsRepositoryConstant}}, nil
}

func (client *recordingForgeClient) ListBranches(context.Context, string) ([]string, error) {
	return []string{testMainBranchConstant}, nil
}

func (client *recordingForgeClient) ListCommits(_ context.Context, _ string, _ string, window forge.Window) ([]forge.Commit, error) {
	client.recordedWindow = append(client.recordedWindow, window)
	return client.commits, nil
}

// mondayMorning is a Monday, so yesterday falls on a weekend.
var mondayMorning = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

// wednesdayMorning is a Wednesday, so yesterday is a weekday.
var wednesdayMorning = time.Date(2024, time.June, 12, 9, 30, 0, 0, time.UTC)

func baseConfiguration() configuration.Configuration {
	return configuration.Configuration{
		LogLevel:       utils.LogLevelInfo,
		LogFormat:      utils.LogFormatConsole,
		Token:          testTokenConstant,
		Organizations:  []string{testOrganizationConstant},
		Usernames:      []string{testAliceConstant},
		Transport:      configuration.TransportAPI,
		Branches:       branches.Configuration{Default: branches.Strategy{Mode: branches.ModeAll}},
		Format:         output.FormatText,
		SortOrder:      commits.SortOrderAscending,
		CleanupPattern: output.DefaultCleanupPattern,
	}
}

func authoredCommit(sha string, login string, message string, timestamp time.Time) forge.Commit {
	return forge.Commit{
		SHA:         sha,
		AuthorLogin: login,
		AuthorName:  login,
		AuthorEmail: login + "@example.com",
		Message:     message,
		Timestamp:   timestamp,
		URL:         "https://github.com/" + testWidgetsRepositoryConstant + "/commit/" + sha,
	}
}
