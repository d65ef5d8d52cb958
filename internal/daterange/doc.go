// Package daterange resolves the commit date window from configured bounds.
//
// When no start is configured the window starts yesterday; a weekend
// yesterday looks back to the preceding Friday, either silently or after
// asking the operator through a Confirmer.
package daterange
