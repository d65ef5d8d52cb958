// Package commits collects commit records authored by configured users.
//
// Collector walks organizations, repositories and their selected branches
// sequentially through a forge.Client, skipping any unit whose remote call
// fails, and Sort orders the collected records by timestamp.
package commits
