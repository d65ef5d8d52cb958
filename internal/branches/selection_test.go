package branches_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dunchi/github-commit-tracker/internal/branches"
)

const (
	testMainBranchConstant          = "main"
	testDevelopBranchConstant       = "develop"
	testDevBranchConstant           = "dev"
	testFeatureBranchConstant       = "feature-x"
	testReleaseBranchConstant       = "release"
	testRepositoryFullNameConstant  = "acme/widgets"
	testOtherRepositoryNameConstant = "acme/gadgets"
	testSelectionSubtestTemplate    = "%d_%s"
)

func TestTargetBranches(testInstance *testing.T) {
	testCases := []struct {
		name             string
		strategy         branches.Strategy
		allBranches      []string
		expectedBranches []string
	}{
		{
			name:             "all_returns_remote_order",
			strategy:         branches.Strategy{Mode: branches.ModeAll},
			allBranches:      []string{testFeatureBranchConstant, testMainBranchConstant, testDevBranchConstant},
			expectedBranches: []string{testFeatureBranchConstant, testMainBranchConstant, testDevBranchConstant},
		},
		{
			name:             "all_with_no_branches",
			strategy:         branches.Strategy{Mode: branches.ModeAll},
			allBranches:      []string{},
			expectedBranches: []string{},
		},
		{
			name:             "specific_keeps_configured_order",
			strategy:         branches.Strategy{Mode: branches.ModeSpecific, Branches: []string{testDevBranchConstant, testMainBranchConstant}},
			allBranches:      []string{testMainBranchConstant, testFeatureBranchConstant, testDevBranchConstant},
			expectedBranches: []string{testDevBranchConstant, testMainBranchConstant},
		},
		{
			name:             "specific_drops_missing_branches",
			strategy:         branches.Strategy{Mode: branches.ModeSpecific, Branches: []string{testMainBranchConstant, testDevBranchConstant}},
			allBranches:      []string{testMainBranchConstant, testFeatureBranchConstant},
			expectedBranches: []string{testMainBranchConstant},
		},
		{
			name:             "specific_without_matches",
			strategy:         branches.Strategy{Mode: branches.ModeSpecific, Branches: []string{testReleaseBranchConstant}},
			allBranches:      []string{testMainBranchConstant},
			expectedBranches: []string{},
		},
		{
			name:             "priority_first_configured_match",
			strategy:         branches.Strategy{Mode: branches.ModePriority, Branches: []string{testDevelopBranchConstant, testMainBranchConstant, testDevBranchConstant}},
			allBranches:      []string{testDevBranchConstant, testMainBranchConstant, testDevelopBranchConstant},
			expectedBranches: []string{testDevelopBranchConstant},
		},
		{
			name:             "priority_ignores_remote_order",
			strategy:         branches.Strategy{Mode: branches.ModePriority, Branches: []string{testReleaseBranchConstant, testMainBranchConstant, testDevBranchConstant}},
			allBranches:      []string{testDevBranchConstant, testMainBranchConstant},
			expectedBranches: []string{testMainBranchConstant},
		},
		{
			name:             "priority_without_matches",
			strategy:         branches.Strategy{Mode: branches.ModePriority, Branches: []string{testReleaseBranchConstant, testDevelopBranchConstant}},
			allBranches:      []string{testMainBranchConstant},
			expectedBranches: []string{},
		},
		{
			name:             "unknown_mode_selects_nothing",
			strategy:         branches.Strategy{Mode: branches.Mode("newest"), Branches: []string{testMainBranchConstant}},
			allBranches:      []string{testMainBranchConstant},
			expectedBranches: []string{},
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testSelectionSubtestTemplate, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			selectedBranches := branches.TargetBranches(testCase.strategy, testCase.allBranches)
			require.Equal(testInstance, testCase.expectedBranches, selectedBranches)
		})
	}
}

func TestTargetBranchesPriorityReturnsSingleBranch(testInstance *testing.T) {
	priorityList := []string{testReleaseBranchConstant, testDevelopBranchConstant, testMainBranchConstant, testDevBranchConstant}
	remoteOrderings := [][]string{
		{testMainBranchConstant, testDevBranchConstant, testDevelopBranchConstant},
		{testDevelopBranchConstant, testDevBranchConstant, testMainBranchConstant},
		{testDevBranchConstant, testMainBranchConstant, testDevelopBranchConstant},
	}

	for _, remoteBranches := range remoteOrderings {
		selectedBranches := branches.TargetBranches(branches.Strategy{Mode: branches.ModePriority, Branches: priorityList}, remoteBranches)
		require.Equal(testInstance, []string{testDevelopBranchConstant}, selectedBranches)
	}
}

func TestEffectiveStrategy(testInstance *testing.T) {
	defaultStrategy := branches.Strategy{Mode: branches.ModeSpecific, Branches: []string{testMainBranchConstant, testDevBranchConstant}}
	overrideStrategy := branches.Strategy{Mode: branches.ModeAll}
	configuration := branches.Configuration{
		Default: defaultStrategy,
		Overrides: map[string]branches.Strategy{
			testRepositoryFullNameConstant: overrideStrategy,
			"other-org/unused":             {Mode: branches.ModePriority, Branches: []string{testReleaseBranchConstant}},
		},
	}

	testInstance.Run("override_replaces_default", func(testInstance *testing.T) {
		effectiveStrategy := branches.EffectiveStrategy(testRepositoryFullNameConstant, configuration)
		require.Equal(testInstance, overrideStrategy, effectiveStrategy)
		require.Empty(testInstance, effectiveStrategy.Branches)
	})

	testInstance.Run("default_without_override", func(testInstance *testing.T) {
		effectiveStrategy := branches.EffectiveStrategy(testOtherRepositoryNameConstant, configuration)
		require.Equal(testInstance, defaultStrategy, effectiveStrategy)
	})

	testInstance.Run("lookup_is_exact", func(testInstance *testing.T) {
		effectiveStrategy := branches.EffectiveStrategy("Acme/Widgets", configuration)
		require.Equal(testInstance, defaultStrategy, effectiveStrategy)
	})
}
