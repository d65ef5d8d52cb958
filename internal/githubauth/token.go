package githubauth

import (
	"os"
	"regexp"
	"strings"
)

// Environment variable names consulted when the configuration carries no token.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

var unresolvedReferencePattern = regexp.MustCompile(`^\$\{[^}]+\}$`)

// ResolveToken returns the configured token when usable, otherwise the first
// non-empty token found in the provided environment map or the process environment.
// A configured value that is still an unexpanded ${NAME} reference counts as absent.
func ResolveToken(configuredToken string, environment map[string]string) (string, bool) {
	trimmedToken := strings.TrimSpace(configuredToken)
	if len(trimmedToken) > 0 && !unresolvedReferencePattern.MatchString(trimmedToken) {
		return trimmedToken, true
	}

	for _, key := range tokenPreference {
		if value, found := lookup(environment, key); found {
			return value, true
		}
	}
	for _, key := range tokenPreference {
		if value, found := lookup(nil, key); found {
			return value, true
		}
	}
	return "", false
}

// CommandEnvironment returns the variables that authenticate a gh invocation.
func CommandEnvironment(token string) map[string]string {
	if len(strings.TrimSpace(token)) == 0 {
		return nil
	}
	return map[string]string{EnvGitHubCLIToken: token}
}

func lookup(environment map[string]string, key string) (string, bool) {
	var value string
	if environment == nil {
		value = os.Getenv(key)
	} else {
		value = environment[key]
	}
	value = strings.TrimSpace(value)
	return value, len(value) > 0
}
