package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dunchi/github-commit-tracker/internal/execshell"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/githubauth"
)

const (
	apiSubcommandConstant                        = "api"
	paginateFlagConstant                         = "--paginate"
	acceptHeaderFlagConstant                     = "-H"
	acceptHeaderValueConstant                    = "Accept: application/vnd.github+json"
	organizationFieldNameConstant                = "organization"
	repositoryFieldNameConstant                  = "repository"
	branchFieldNameConstant                      = "branch"
	requiredValueMessageConstant                 = "value required"
	repositoryFormatMessageConstant              = "expected organization/repository"
	executorNotConfiguredMessageConstant         = "github cli executor not configured"
	operationErrorMessageTemplateConstant        = "%s operation failed"
	operationErrorWithCauseTemplateConstant      = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant        = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant            = "%s: %s"
	organizationRepositoriesPathTemplateConstant = "orgs/%s/repos"
	repositoryBranchesPathTemplateConstant       = "repos/%s/branches"
	repositoryCommitsPathTemplateConstant        = "repos/%s/commits"
	endpointWithQueryTemplateConstant            = "%s?%s"
	perPageQueryParameterConstant                = "per_page"
	shaQueryParameterConstant                    = "sha"
	sinceQueryParameterConstant                  = "since"
	untilQueryParameterConstant                  = "until"
	pageSizeConstant                             = 100
	repositoryNameSeparatorConstant              = "/"
	listRepositoriesOperationNameConstant        = OperationName("ListRepositories")
	listBranchesOperationNameConstant            = OperationName("ListBranches")
	listCommitsOperationNameConstant             = OperationName("ListCommits")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client implements forge.Client on top of "gh api".
type Client struct {
	executor    GitHubCommandExecutor
	environment map[string]string
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

var _ forge.Client = (*Client)(nil)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

type repositoryResponse struct {
	FullName string `json:"full_name"`
}

type branchResponse struct {
	Name string `json:"name"`
}

type commitResponse struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Author  *struct {
		Login string `json:"login"`
	} `json:"author"`
	Commit struct {
		Message string `json:"message"`
		Author  *struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// NewClient constructs a GitHub CLI client. A non-empty token is passed to gh as GH_TOKEN.
func NewClient(executor GitHubCommandExecutor, token string) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor, environment: githubauth.CommandEnvironment(token)}, nil
}

// ListRepositories returns every repository of the organization.
func (client *Client) ListRepositories(executionContext context.Context, organization string) ([]forge.Repository, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	endpoint := buildEndpoint(fmt.Sprintf(organizationRepositoriesPathTemplateConstant, url.PathEscape(organizationName)), url.Values{})
	pages, decodeError := executePaginated[repositoryResponse](executionContext, client, listRepositoriesOperationNameConstant, endpoint)
	if decodeError != nil {
		return nil, decodeError
	}

	repositories := make([]forge.Repository, 0, len(pages))
	for _, repository := range pages {
		repositories = append(repositories, forge.Repository{FullName: repository.FullName})
	}
	return repositories, nil
}

// ListBranches returns the branch names of the repository.
func (client *Client) ListBranches(executionContext context.Context, repositoryFullName string) ([]string, error) {
	repositoryName, validationError := validateRepositoryName(repositoryFullName)
	if validationError != nil {
		return nil, validationError
	}

	endpoint := buildEndpoint(fmt.Sprintf(repositoryBranchesPathTemplateConstant, repositoryName), url.Values{})
	pages, decodeError := executePaginated[branchResponse](executionContext, client, listBranchesOperationNameConstant, endpoint)
	if decodeError != nil {
		return nil, decodeError
	}

	branchNames := make([]string, 0, len(pages))
	for _, branch := range pages {
		branchNames = append(branchNames, branch.Name)
	}
	return branchNames, nil
}

// ListCommits returns the commits reachable from branch inside the window.
func (client *Client) ListCommits(executionContext context.Context, repositoryFullName string, branch string, window forge.Window) ([]forge.Commit, error) {
	repositoryName, validationError := validateRepositoryName(repositoryFullName)
	if validationError != nil {
		return nil, validationError
	}
	branchName := strings.TrimSpace(branch)
	if len(branchName) == 0 {
		return nil, InvalidInputError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	query := url.Values{}
	query.Set(shaQueryParameterConstant, branchName)
	if window.HasSince() {
		query.Set(sinceQueryParameterConstant, window.Since.UTC().Format(time.RFC3339))
	}
	if window.HasUntil() {
		query.Set(untilQueryParameterConstant, window.Until.UTC().Format(time.RFC3339))
	}

	endpoint := buildEndpoint(fmt.Sprintf(repositoryCommitsPathTemplateConstant, repositoryName), query)
	pages, decodeError := executePaginated[commitResponse](executionContext, client, listCommitsOperationNameConstant, endpoint)
	if decodeError != nil {
		return nil, decodeError
	}

	commits := make([]forge.Commit, 0, len(pages))
	for _, response := range pages {
		commit := forge.Commit{
			SHA:     response.SHA,
			Message: response.Commit.Message,
			URL:     response.HTMLURL,
		}
		if response.Author != nil {
			commit.AuthorLogin = response.Author.Login
		}
		if response.Commit.Author != nil {
			commit.AuthorName = response.Commit.Author.Name
			commit.AuthorEmail = response.Commit.Author.Email
			commit.Timestamp = response.Commit.Author.Date
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// executePaginated runs "gh api --paginate" and decodes the concatenated JSON arrays it prints, one per page.
func executePaginated[T any](executionContext context.Context, client *Client, operation OperationName, endpoint string) ([]T, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			apiSubcommandConstant,
			endpoint,
			paginateFlagConstant,
			acceptHeaderFlagConstant,
			acceptHeaderValueConstant,
		},
		EnvironmentVariables: client.environment,
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: operation, Cause: executionError}
	}

	decoder := json.NewDecoder(strings.NewReader(executionResult.StandardOutput))
	items := make([]T, 0)
	for {
		var page []T
		decodeError := decoder.Decode(&page)
		if errors.Is(decodeError, io.EOF) {
			break
		}
		if decodeError != nil {
			return nil, ResponseDecodingError{Operation: operation, Cause: decodeError}
		}
		items = append(items, page...)
	}
	return items, nil
}

func buildEndpoint(path string, query url.Values) string {
	query.Set(perPageQueryParameterConstant, strconv.Itoa(pageSizeConstant))
	return fmt.Sprintf(endpointWithQueryTemplateConstant, path, query.Encode())
}

func validateRepositoryName(repositoryFullName string) (string, error) {
	trimmedName := strings.TrimSpace(repositoryFullName)
	if len(trimmedName) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	owner, name, found := strings.Cut(trimmedName, repositoryNameSeparatorConstant)
	if !found || len(owner) == 0 || len(name) == 0 || strings.Contains(name, repositoryNameSeparatorConstant) {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: repositoryFormatMessageConstant}
	}
	return url.PathEscape(owner) + repositoryNameSeparatorConstant + url.PathEscape(name), nil
}
