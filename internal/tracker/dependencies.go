package tracker

import (
	"io"

	"go.uber.org/zap"

	"github.com/dunchi/github-commit-tracker/internal/configuration"
	"github.com/dunchi/github-commit-tracker/internal/daterange"
	"github.com/dunchi/github-commit-tracker/internal/execshell"
	"github.com/dunchi/github-commit-tracker/internal/forge"
	"github.com/dunchi/github-commit-tracker/internal/githubapi"
	"github.com/dunchi/github-commit-tracker/internal/githubcli"
	"github.com/dunchi/github-commit-tracker/internal/prompt"
	"github.com/dunchi/github-commit-tracker/internal/ui"
)

// ResolveForgeClient returns the provided client or constructs the transport selected by the configuration.
// Console logging attaches a command event logger to the gh executor.
func ResolveForgeClient(existing forge.Client, trackerConfiguration configuration.Configuration, logger *zap.Logger, humanReadableLogging bool) (forge.Client, error) {
	if existing != nil {
		return existing, nil
	}

	if trackerConfiguration.Transport == configuration.TransportCLI {
		observers := make([]execshell.CommandEventObserver, 0, 1)
		if humanReadableLogging {
			observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
		}
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
		if executorError != nil {
			return nil, executorError
		}
		cliClient, clientError := githubcli.NewClient(shellExecutor, trackerConfiguration.Token)
		if clientError != nil {
			return nil, clientError
		}
		return cliClient, nil
	}

	apiClient, clientError := githubapi.NewClient(githubapi.Options{
		Token:   trackerConfiguration.Token,
		BaseURL: trackerConfiguration.BaseURL,
		Timeout: trackerConfiguration.RequestTimeout,
	})
	if clientError != nil {
		return nil, clientError
	}
	return apiClient, nil
}

// ResolveConfirmer returns the provided confirmer or a prompter reading answers from input.
func ResolveConfirmer(existing daterange.Confirmer, input io.Reader, output io.Writer) daterange.Confirmer {
	if existing != nil {
		return existing
	}
	return prompt.NewIOConfirmationPrompter(input, output)
}
