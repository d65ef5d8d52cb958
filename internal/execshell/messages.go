package execshell

import (
	"fmt"
	"net/url"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	listingStartTemplateConstant            = "Listing %s"
	listingSuccessTemplateConstant          = "Listed %s"
	listingFailureTemplateConstant          = "Failed to list %s (exit code %d%s)"
	listingExecutionFailureTemplateConstant = "Unable to list %s: %s"
	organizationRepositoriesSubjectConstant = "repositories of %s"
	repositoryBranchesSubjectConstant       = "branches of %s"
	repositoryCommitsSubjectConstant        = "commits of %s"
	repositoryBranchCommitsSubjectConstant  = "commits of %s on %s"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	githubAPISubcommandConstant             = "api"
	flagPrefixConstant                      = "-"
	headerFlagConstant                      = "-H"
	endpointPathSeparatorConstant           = "/"
	organizationsPathSegmentConstant        = "orgs"
	repositoriesPathSegmentConstant         = "repos"
	branchesPathSegmentConstant             = "branches"
	commitsPathSegmentConstant              = "commits"
	shaQueryParameterConstant               = "sha"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
// GitHub API listings are described by what they list; other commands by their command line.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGitHub {
		if subject, described := formatter.describeGitHubAPIListing(command.Details.Arguments); described {
			switch stage {
			case messageStageStart:
				return fmt.Sprintf(listingStartTemplateConstant, subject)
			case messageStageSuccess:
				return fmt.Sprintf(listingSuccessTemplateConstant, subject)
			case messageStageFailure:
				return fmt.Sprintf(listingFailureTemplateConstant, subject, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
			case messageStageExecutionFailure:
				return fmt.Sprintf(listingExecutionFailureTemplateConstant, subject, formatter.describeFailure(failure))
			}
		}
	}

	commandLabel := command.Label()
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

// describeGitHubAPIListing recognizes orgs/{org}/repos, repos/{owner}/{repo}/branches and repos/{owner}/{repo}/commits.
func (formatter CommandMessageFormatter) describeGitHubAPIListing(arguments []string) (string, bool) {
	if len(arguments) == 0 || arguments[0] != githubAPISubcommandConstant {
		return "", false
	}

	endpoint := ""
	for argumentIndex := 1; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if argument == headerFlagConstant {
			argumentIndex++
			continue
		}
		if !strings.HasPrefix(argument, flagPrefixConstant) {
			endpoint = argument
			break
		}
	}

	parsedEndpoint, parseError := url.Parse(endpoint)
	if parseError != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(parsedEndpoint.Path, endpointPathSeparatorConstant), endpointPathSeparatorConstant)
	switch {
	case len(segments) == 3 && segments[0] == organizationsPathSegmentConstant && segments[2] == repositoriesPathSegmentConstant:
		return fmt.Sprintf(organizationRepositoriesSubjectConstant, segments[1]), true
	case len(segments) == 4 && segments[0] == repositoriesPathSegmentConstant && segments[3] == branchesPathSegmentConstant:
		return fmt.Sprintf(repositoryBranchesSubjectConstant, segments[1]+endpointPathSeparatorConstant+segments[2]), true
	case len(segments) == 4 && segments[0] == repositoriesPathSegmentConstant && segments[3] == commitsPathSegmentConstant:
		repository := segments[1] + endpointPathSeparatorConstant + segments[2]
		branch := parsedEndpoint.Query().Get(shaQueryParameterConstant)
		if len(branch) == 0 {
			return fmt.Sprintf(repositoryCommitsSubjectConstant, repository), true
		}
		return fmt.Sprintf(repositoryBranchCommitsSubjectConstant, repository, branch), true
	default:
		return "", false
	}
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
