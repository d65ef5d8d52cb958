package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/tracker"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testTokenConstant                 = "ghp_application_token"
	testValidConfigurationConstant    = `github:
  token: ghp_application_token
  organizations: [acme]
  usernames: [alice]
branch_strategy:
  mode: priority
  branches: [main, master]
  overrides:
    acme/Widgets.v2:
      mode: specific
      branches: [develop]
date_range:
  from: "2024-06-01"
`
)

type applicationClock struct{}

func (applicationClock) Now() time.Time {
	return time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)
}

type applicationForgeClient struct {
	listedOrganizations []string
}

func (client *applicationForgeClient) ListRepositories(_ context.Context, organization string) ([]forge.Repository, error) {
	client.listedOrganizations = append(client.listedOrganizations, organization)
	return []forge.Repository{{FullName: "acme/widgets"}}, nil
}

func (client *applicationForgeClient) ListBranches(context.Context, string) ([]string, error) {
	return []string{"master"}, nil
}

func (client *applicationForgeClient) ListCommits(context.Context, string, string, forge.Window) ([]forge.Commit, error) {
	return []forge.Commit{{
		SHA:         "abc123",
		AuthorLogin: "alice",
		AuthorName:  "Alice",
		AuthorEmail: "alice@example.com",
		Message:     "Add login",
		Timestamp:   time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC),
		URL:         "https://github.com/acme/widgets/commit/abc123",
	}}, nil
}

func writeConfigurationFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o600))
	return configurationPath
}

func newTestApplication(client forge.Client, arguments []string) (*Application, *bytes.Buffer) {
	application := NewApplication()
	application.environment = map[string]string{}
	application.trackerBuilder.Client = client
	application.trackerBuilder.Clock = applicationClock{}
	application.trackerBuilder.Location = time.UTC

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetIn(&bytes.Buffer{})
	application.rootCommand.SetArgs(arguments)
	return application, outputBuffer
}

func TestApplicationDryRunPrintsResolvedSettings(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance, testInstance.TempDir(), testValidConfigurationConstant)
	client := &applicationForgeClient{}
	application, outputBuffer := newTestApplication(client, []string{"--config", configurationPath, "--dry-run", "--log-level", "error"})

	require.NoError(testInstance, application.Execute())
	require.Empty(testInstance, client.listedOrganizations)
	require.NotContains(testInstance, outputBuffer.String(), testTokenConstant)

	var summary tracker.DryRunSummary
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &summary))
	require.Equal(testInstance, []string{"acme"}, summary.GitHub.Organizations)
	require.Equal(testInstance, []string{"alice"}, summary.GitHub.Usernames)
	require.Equal(testInstance, "api", summary.GitHub.Transport)
	require.Equal(testInstance, "2024-06-01", summary.DateRange.From)
	require.Equal(testInstance, "now", summary.DateRange.To)
	require.Contains(testInstance, summary.BranchStrategy.Overrides, "acme/Widgets.v2")
	require.Equal(testInstance, []string{"develop"}, summary.BranchStrategy.Overrides["acme/Widgets.v2"].Branches)
	require.Equal(testInstance, configurationPath, application.configurationMetadata.ConfigFileUsed)
}

func TestApplicationRunRendersRequestedFormat(testInstance *testing.T) {
	configurationPath := writeConfigurationFile(testInstance, testInstance.TempDir(), testValidConfigurationConstant)
	client := &applicationForgeClient{}
	application, outputBuffer := newTestApplication(client, []string{"--config", configurationPath, "--format", "json", "--log-format", "structured", "--log-level", "error"})

	require.NoError(testInstance, application.Execute())
	require.Equal(testInstance, []string{"acme"}, client.listedOrganizations)
	require.False(testInstance, application.humanReadableLoggingEnabled())

	var documents []map[string]string
	require.NoError(testInstance, json.Unmarshal(outputBuffer.Bytes(), &documents))
	require.Len(testInstance, documents, 1)
	require.Equal(testInstance, "abc123", documents[0]["sha"])
	require.Equal(testInstance, "master", documents[0]["branch"])
}

func TestApplicationSearchesWorkingDirectory(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, workingDirectory, testValidConfigurationConstant)
	originalWorkingDirectory, getwdError := os.Getwd()
	require.NoError(testInstance, getwdError)
	require.NoError(testInstance, os.Chdir(workingDirectory))
	testInstance.Cleanup(func() { _ = os.Chdir(originalWorkingDirectory) })

	application, outputBuffer := newTestApplication(&applicationForgeClient{}, []string{"--dry-run", "--log-level", "error"})
	require.NoError(testInstance, application.Execute())
	require.NotEmpty(testInstance, outputBuffer.String())
	require.Equal(testInstance, testConfigurationFileNameConstant, filepath.Base(application.configurationMetadata.ConfigFileUsed))
}

func TestApplicationEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv("COMMITTRACKER_GITHUB_USERNAMES", "alice,bob")
	testInstance.Setenv("TRACKER_TEST_ORGANIZATION", "globex")
	configurationContent := `github:
  token: ghp_application_token
  organizations: ["${TRACKER_TEST_ORGANIZATION}"]
  usernames: [carol]
branch_strategy:
  mode: all
`
	configurationPath := writeConfigurationFile(testInstance, testInstance.TempDir(), configurationContent)
	application, outputBuffer := newTestApplication(&applicationForgeClient{}, []string{"--config", configurationPath, "--dry-run", "--log-level", "error"})

	require.NoError(testInstance, application.Execute())

	var summary tracker.DryRunSummary
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &summary))
	require.Equal(testInstance, []string{"globex"}, summary.GitHub.Organizations)
	require.Equal(testInstance, []string{"alice", "bob"}, summary.GitHub.Usernames)
	require.Equal(testInstance, "2024-06-11", summary.DateRange.From)
}

func TestApplicationConfigurationErrors(testInstance *testing.T) {
	testCases := []struct {
		name              string
		configuration     string
		extraArguments    []string
		missingFile       bool
		expectedFieldName string
	}{
		{
			name:              "MissingFile",
			missingFile:       true,
			expectedFieldName: "config",
		},
		{
			name:              "InvalidYAML",
			configuration:     "github: [unterminated\n",
			expectedFieldName: "config",
		},
		{
			name:              "MissingToken",
			configuration:     "github:\n  organizations: [acme]\n  usernames: [alice]\nbranch_strategy:\n  mode: all\n",
			expectedFieldName: "github.token",
		},
		{
			name:              "MissingBranchesForPriority",
			configuration:     "github:\n  token: t\n  organizations: [acme]\n  usernames: [alice]\nbranch_strategy:\n  mode: priority\n",
			expectedFieldName: "branch_strategy.branches",
		},
		{
			name:              "InvalidDate",
			configuration:     testValidConfigurationConstant + "  to: 2024/06/15\n",
			expectedFieldName: "date_range.to",
		},
		{
			name:              "InvalidLogLevelFlag",
			configuration:     testValidConfigurationConstant,
			extraArguments:    []string{"--log-level", "verbose"},
			expectedFieldName: "common.log_level",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTestInstance *testing.T) {
			directory := subTestInstance.TempDir()
			configurationPath := filepath.Join(directory, "absent.yaml")
			if !testCase.missingFile {
				configurationPath = writeConfigurationFile(subTestInstance, directory, testCase.configuration)
			}

			client := &applicationForgeClient{}
			arguments := append([]string{"--config", configurationPath}, testCase.extraArguments...)
			application, outputBuffer := newTestApplication(client, arguments)

			executionError := application.Execute()
			var configurationError configuration.ConfigurationError
			require.ErrorAs(subTestInstance, executionError, &configurationError)
			require.Equal(subTestInstance, testCase.expectedFieldName, configurationError.FieldName)
			require.Empty(subTestInstance, client.listedOrganizations)
			require.Empty(subTestInstance, outputBuffer.String())
		})
	}
}
