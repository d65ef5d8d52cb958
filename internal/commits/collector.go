package commits

import (
	"context"

	"go.uber.org/zap"

	"github.com/dunchi/github-commit-tracker/internal/branches"
	"github.com/dunchi/github-commit-tracker/internal/forge"
)

const (
	organizationProcessingMessageConstant = "processing organization"
	repositoryProcessingMessageConstant   = "processing repository"
	branchProcessingMessageConstant       = "processing branch"
	targetBranchesMessageConstant         = "resolved target branches"
	remoteAccessSkippedMessageConstant    = "remote access failed, skipping"
	branchCommitsCollectedMessageConstant = "collected branch commits"
	logFieldOrganizationConstant          = "organization"
	logFieldRepositoryConstant            = "repository"
	logFieldBranchConstant                = "branch"
	logFieldBranchesConstant              = "branches"
	logFieldModeConstant                  = "mode"
	logFieldScopeConstant                 = "scope"
	logFieldTargetConstant                = "target"
	logFieldMatchedCountConstant          = "matched_commits"
	logFieldListedCountConstant           = "listed_commits"
)

// Request describes one collection run.
type Request struct {
	Organizations []string
	Usernames     []string
	Strategies    branches.Configuration
	Window        forge.Window
}

// Collector gathers commit records from a forge client.
type Collector struct {
	client forge.Client
	logger *zap.Logger
}

// NewCollector constructs a Collector. A nil logger discards diagnostics.
func NewCollector(client forge.Client, logger *zap.Logger) (*Collector, error) {
	if client == nil {
		return nil, ErrClientNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{client: client, logger: logger}, nil
}

// Collect returns matching commits in organization, repository, branch and remote order.
// Remote failures are logged and the affected unit is skipped.
func (collector *Collector) Collect(executionContext context.Context, request Request) []Record {
	authorFilter := make(map[string]struct{}, len(request.Usernames))
	for _, username := range request.Usernames {
		authorFilter[username] = struct{}{}
	}

	records := make([]Record, 0)
	for _, organization := range request.Organizations {
		records = append(records, collector.collectOrganization(executionContext, organization, request, authorFilter)...)
	}
	return records
}

func (collector *Collector) collectOrganization(executionContext context.Context, organization string, request Request, authorFilter map[string]struct{}) []Record {
	collector.logger.Info(organizationProcessingMessageConstant, zap.String(logFieldOrganizationConstant, organization))

	repositories, listError := collector.client.ListRepositories(executionContext, organization)
	if listError != nil {
		collector.reportSkipped(RemoteAccessError{Scope: ScopeOrganization, Target: organization, Cause: listError})
		return nil
	}

	var records []Record
	for _, repository := range repositories {
		records = append(records, collector.collectRepository(executionContext, repository.FullName, request, authorFilter)...)
	}
	return records
}

func (collector *Collector) collectRepository(executionContext context.Context, repositoryFullName string, request Request, authorFilter map[string]struct{}) []Record {
	collector.logger.Info(repositoryProcessingMessageConstant, zap.String(logFieldRepositoryConstant, repositoryFullName))

	strategy := branches.EffectiveStrategy(repositoryFullName, request.Strategies)

	allBranches, listError := collector.client.ListBranches(executionContext, repositoryFullName)
	if listError != nil {
		collector.reportSkipped(RemoteAccessError{Scope: ScopeRepository, Target: repositoryFullName, Cause: listError})
		return nil
	}

	targetBranches := branches.TargetBranches(strategy, allBranches)
	collector.logger.Info(
		targetBranchesMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldModeConstant, string(strategy.Mode)),
		zap.Strings(logFieldBranchesConstant, targetBranches),
	)

	var records []Record
	for _, branch := range targetBranches {
		records = append(records, collector.collectBranch(executionContext, repositoryFullName, branch, request.Window, authorFilter)...)
	}
	return records
}

func (collector *Collector) collectBranch(executionContext context.Context, repositoryFullName string, branch string, window forge.Window, authorFilter map[string]struct{}) []Record {
	collector.logger.Debug(
		branchProcessingMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldBranchConstant, branch),
	)

	branchCommits, listError := collector.client.ListCommits(executionContext, repositoryFullName, branch, window)
	if listError != nil {
		collector.reportSkipped(RemoteAccessError{Scope: ScopeBranch, Target: repositoryFullName + ":" + branch, Cause: listError})
		return nil
	}

	var records []Record
	for _, commit := range branchCommits {
		if len(commit.AuthorLogin) == 0 {
			continue
		}
		if _, tracked := authorFilter[commit.AuthorLogin]; !tracked {
			continue
		}
		records = append(records, newRecord(repositoryFullName, branch, commit))
	}

	collector.logger.Debug(
		branchCommitsCollectedMessageConstant,
		zap.String(logFieldRepositoryConstant, repositoryFullName),
		zap.String(logFieldBranchConstant, branch),
		zap.Int(logFieldListedCountConstant, len(branchCommits)),
		zap.Int(logFieldMatchedCountConstant, len(records)),
	)

	return records
}

func (collector *Collector) reportSkipped(accessError RemoteAccessError) {
	collector.logger.Warn(
		remoteAccessSkippedMessageConstant,
		zap.String(logFieldScopeConstant, string(accessError.Scope)),
		zap.String(logFieldTargetConstant, accessError.Target),
		zap.Error(accessError),
	)
}
