package commands

import (
	"context"
	"log/slog"
)

// PostCommitAction is one best-effort step that runs after the booking
// write has succeeded. Failures never roll back the booking; they are
// logged for manual reconciliation.
type PostCommitAction struct {
	Name string
	Run  func(ctx context.Context) error
}

// RunPostCommit executes each action independently and returns the
// names of the ones that failed.
func RunPostCommit(ctx context.Context, logger *slog.Logger, actions []PostCommitAction) []string {
	var failed []string
	for _, action := range actions {
		if err := action.Run(ctx); err != nil {
			logger.Warn("post-commit action failed",
				"action", action.Name,
				"error", err,
			)
			failed = append(failed, action.Name)
		}
	}
	return failed
}
