// Package branches decides which branches of a repository are scanned for commits.
//
// A Configuration pairs a default Strategy with per-repository overrides keyed by
// "organization/repository". EffectiveStrategy picks the strategy for one
// repository and TargetBranches applies it to the branch list reported by the
// remote forge.
package branches
