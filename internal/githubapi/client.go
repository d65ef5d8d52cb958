package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/dunchi/github-commit-tracker/internal/forge"
)

const (
	pageSizeConstant                      = 100
	repositoryNameSeparatorConstant       = "/"
	baseURLPathSuffixConstant             = "/"
	operationErrorTemplateConstant        = "%s %s failed: %v"
	invalidRepositoryNameTemplateConstant = "invalid repository name %q: expected organization/repository"
	invalidBaseURLTemplateConstant        = "invalid GitHub API base URL %q: %w"
	listRepositoriesOperationNameConstant = OperationName("ListRepositories")
	listBranchesOperationNameConstant     = OperationName("ListBranches")
	listCommitsOperationNameConstant      = OperationName("ListCommits")
	organizationRequiredMessageConstant   = "organization required"
	branchRequiredMessageConstant         = "branch required"
)

// OperationName identifies a GitHub REST call made by the client.
type OperationName string

// ErrMissingToken indicates that the client was configured without credentials.
var ErrMissingToken = errors.New("github token not configured")

// OperationError wraps a failed REST call together with its target.
type OperationError struct {
	Operation OperationName
	Target    string
	Cause     error
}

// Error describes the failed call.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Target, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// Options configures a REST client.
type Options struct {
	Token string
	// BaseURL points at a GitHub Enterprise or test API root; empty means api.github.com.
	BaseURL    string
	HTTPClient *http.Client
	// Timeout bounds every individual request; zero disables the bound.
	Timeout time.Duration
}

// Client implements forge.Client with go-github.
type Client struct {
	restClient *github.Client
	timeout    time.Duration
}

var _ forge.Client = (*Client)(nil)

// NewClient builds an authenticated REST client.
func NewClient(options Options) (*Client, error) {
	token := strings.TrimSpace(options.Token)
	if len(token) == 0 {
		return nil, ErrMissingToken
	}

	restClient := github.NewClient(options.HTTPClient).WithAuthToken(token)

	if baseURL := strings.TrimSpace(options.BaseURL); len(baseURL) > 0 {
		if !strings.HasSuffix(baseURL, baseURLPathSuffixConstant) {
			baseURL += baseURLPathSuffixConstant
		}
		parsedURL, parseError := url.Parse(baseURL)
		if parseError != nil {
			return nil, fmt.Errorf(invalidBaseURLTemplateConstant, options.BaseURL, parseError)
		}
		restClient.BaseURL = parsedURL
	}

	return &Client{restClient: restClient, timeout: options.Timeout}, nil
}

// ListRepositories returns every repository of the organization.
func (client *Client) ListRepositories(executionContext context.Context, organization string) ([]forge.Repository, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: errors.New(organizationRequiredMessageConstant)}
	}

	listOptions := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: pageSizeConstant}}
	repositories := make([]forge.Repository, 0)
	for {
		requestContext, cancel := client.requestContext(executionContext)
		page, response, listError := client.restClient.Repositories.ListByOrg(requestContext, organizationName, listOptions)
		cancel()
		if listError != nil {
			return nil, OperationError{Operation: listRepositoriesOperationNameConstant, Target: organizationName, Cause: listError}
		}

		for _, repository := range page {
			repositories = append(repositories, forge.Repository{FullName: repository.GetFullName()})
		}

		if response.NextPage == 0 {
			return repositories, nil
		}
		listOptions.Page = response.NextPage
	}
}

// ListBranches returns the branch names of the repository.
func (client *Client) ListBranches(executionContext context.Context, repositoryFullName string) ([]string, error) {
	owner, name, splitError := splitRepositoryName(repositoryFullName)
	if splitError != nil {
		return nil, OperationError{Operation: listBranchesOperationNameConstant, Target: repositoryFullName, Cause: splitError}
	}

	listOptions := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: pageSizeConstant}}
	branchNames := make([]string, 0)
	for {
		requestContext, cancel := client.requestContext(executionContext)
		page, response, listError := client.restClient.Repositories.ListBranches(requestContext, owner, name, listOptions)
		cancel()
		if listError != nil {
			return nil, OperationError{Operation: listBranchesOperationNameConstant, Target: repositoryFullName, Cause: listError}
		}

		for _, branch := range page {
			branchNames = append(branchNames, branch.GetName())
		}

		if response.NextPage == 0 {
			return branchNames, nil
		}
		listOptions.Page = response.NextPage
	}
}

// ListCommits returns the commits reachable from branch inside the window.
func (client *Client) ListCommits(executionContext context.Context, repositoryFullName string, branch string, window forge.Window) ([]forge.Commit, error) {
	owner, name, splitError := splitRepositoryName(repositoryFullName)
	if splitError != nil {
		return nil, OperationError{Operation: listCommitsOperationNameConstant, Target: repositoryFullName, Cause: splitError}
	}
	branchName := strings.TrimSpace(branch)
	if len(branchName) == 0 {
		return nil, OperationError{Operation: listCommitsOperationNameConstant, Target: repositoryFullName, Cause: errors.New(branchRequiredMessageConstant)}
	}

	listOptions := &github.CommitsListOptions{
		SHA:         branchName,
		Since:       window.Since,
		Until:       window.Until,
		ListOptions: github.ListOptions{PerPage: pageSizeConstant},
	}
	target := repositoryFullName + ":" + branchName

	commits := make([]forge.Commit, 0)
	for {
		requestContext, cancel := client.requestContext(executionContext)
		page, response, listError := client.restClient.Repositories.ListCommits(requestContext, owner, name, listOptions)
		cancel()
		if listError != nil {
			return nil, OperationError{Operation: listCommitsOperationNameConstant, Target: target, Cause: listError}
		}

		for _, repositoryCommit := range page {
			commits = append(commits, convertCommit(repositoryCommit))
		}

		if response.NextPage == 0 {
			return commits, nil
		}
		listOptions.Page = response.NextPage
	}
}

func (client *Client) requestContext(executionContext context.Context) (context.Context, context.CancelFunc) {
	if client.timeout <= 0 {
		return context.WithCancel(executionContext)
	}
	return context.WithTimeout(executionContext, client.timeout)
}

func convertCommit(repositoryCommit *github.RepositoryCommit) forge.Commit {
	commitDetails := repositoryCommit.GetCommit()
	commitAuthor := commitDetails.GetAuthor()
	return forge.Commit{
		SHA:         repositoryCommit.GetSHA(),
		AuthorLogin: repositoryCommit.GetAuthor().GetLogin(),
		AuthorName:  commitAuthor.GetName(),
		AuthorEmail: commitAuthor.GetEmail(),
		Message:     commitDetails.GetMessage(),
		Timestamp:   commitAuthor.GetDate().Time,
		URL:         repositoryCommit.GetHTMLURL(),
	}
}

func splitRepositoryName(repositoryFullName string) (string, string, error) {
	owner, name, found := strings.Cut(strings.TrimSpace(repositoryFullName), repositoryNameSeparatorConstant)
	if !found || len(owner) == 0 || len(name) == 0 || strings.Contains(name, repositoryNameSeparatorConstant) {
		return "", "", fmt.Errorf(invalidRepositoryNameTemplateConstant, repositoryFullName)
	}
	return owner, name, nil
}
