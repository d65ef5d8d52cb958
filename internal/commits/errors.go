package commits

import (
	"errors"
	"fmt"
)

const (
	clientNotConfiguredMessageConstant            = "forge client not configured"
	remoteAccessErrorTemplateConstant             = "unable to access %s %s: %v"
	remoteAccessErrorWithoutCauseTemplateConstant = "unable to access %s %s"
)

// Scope names the unit of work a remote failure affected.
type Scope string

// Scopes reported by the collector.
const (
	ScopeOrganization Scope = Scope("organization")
	ScopeRepository   Scope = Scope("repository")
	ScopeBranch       Scope = Scope("branch")
)

var (
	// ErrClientNotConfigured indicates the collector was constructed without a forge client.
	ErrClientNotConfigured = errors.New(clientNotConfiguredMessageConstant)
)

// RemoteAccessError reports a failed forge call for one organization, repository or branch.
type RemoteAccessError struct {
	Scope  Scope
	Target string
	Cause  error
}

// Error describes the remote failure.
func (accessError RemoteAccessError) Error() string {
	if accessError.Cause == nil {
		return fmt.Sprintf(remoteAccessErrorWithoutCauseTemplateConstant, accessError.Scope, accessError.Target)
	}
	return fmt.Sprintf(remoteAccessErrorTemplateConstant, accessError.Scope, accessError.Target, accessError.Cause)
}

// Unwrap exposes the underlying transport error.
func (accessError RemoteAccessError) Unwrap() error {
	return accessError.Cause
}
