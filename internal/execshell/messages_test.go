package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesListings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		command         ShellCommand
		expectedStarted string
		expectedSuccess string
		expectedFailure string
		expectedCrash   string
		failureResult   ExecutionResult
	}{
		{
			name:            "organization_repositories",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "--paginate", "orgs/acme/repos?per_page=100"}}},
			expectedStarted: "Listing repositories of acme",
			expectedSuccess: "Listed repositories of acme",
			failureResult:   ExecutionResult{ExitCode: 1, StandardError: "HTTP 404\n"},
			expectedFailure: "Failed to list repositories of acme (exit code 1: HTTP 404)",
			expectedCrash:   "Unable to list repositories of acme: gh missing",
		},
		{
			name:            "repository_branches",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "--paginate", "repos/acme/widgets/branches?per_page=100"}}},
			expectedStarted: "Listing branches of acme/widgets",
			expectedSuccess: "Listed branches of acme/widgets",
			failureResult:   ExecutionResult{ExitCode: 2},
			expectedFailure: "Failed to list branches of acme/widgets (exit code 2)",
			expectedCrash:   "Unable to list branches of acme/widgets: gh missing",
		},
		{
			name:            "branch_commits",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "--paginate", "repos/acme/widgets/commits?per_page=100&sha=main"}}},
			expectedStarted: "Listing commits of acme/widgets on main",
			expectedSuccess: "Listed commits of acme/widgets on main",
			failureResult:   ExecutionResult{ExitCode: 1},
			expectedFailure: "Failed to list commits of acme/widgets on main (exit code 1)",
			expectedCrash:   "Unable to list commits of acme/widgets on main: gh missing",
		},
		{
			name:            "generic_command",
			command:         ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"auth", "status"}}},
			expectedStarted: "Running gh auth status",
			expectedSuccess: "Completed gh auth status",
			failureResult:   ExecutionResult{ExitCode: 1, StandardError: "not logged in"},
			expectedFailure: "gh auth status failed with exit code 1: not logged in",
			expectedCrash:   "gh auth status failed: gh missing",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStarted, formatter.BuildStartedMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedSuccess, formatter.BuildSuccessMessage(testCase.command))
			require.Equal(testInstance, testCase.expectedFailure, formatter.BuildFailureMessage(testCase.command, testCase.failureResult))
			require.Equal(testInstance, testCase.expectedCrash, formatter.BuildExecutionFailureMessage(testCase.command, errors.New("gh missing")))
		})
	}
}
