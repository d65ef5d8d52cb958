package branches

// TargetBranches applies the strategy to the branches reported for a repository.
func TargetBranches(strategy Strategy, allBranches []string) []string {
	switch strategy.Mode {
	case ModeAll:
		return allBranches
	case ModeSpecific:
		availableBranches := branchSet(allBranches)
		selectedBranches := make([]string, 0, len(strategy.Branches))
		for _, configuredBranch := range strategy.Branches {
			if _, available := availableBranches[configuredBranch]; available {
				selectedBranches = append(selectedBranches, configuredBranch)
			}
		}
		return selectedBranches
	case ModePriority:
		availableBranches := branchSet(allBranches)
		for _, configuredBranch := range strategy.Branches {
			if _, available := availableBranches[configuredBranch]; available {
				return []string{configuredBranch}
			}
		}
		return []string{}
	default:
		// unreachable after Validate
		return []string{}
	}
}

func branchSet(branchNames []string) map[string]struct{} {
	set := make(map[string]struct{}, len(branchNames))
	for _, branchName := range branchNames {
		set[branchName] = struct{}{}
	}
	return set
}
