package driven

import (
	"context"

	"github.com/alorle/livetv-collector/internal/run"
)

// RunRepository defines the interface for keeping the most recent pipeline run.
// This is a driven port implemented by concrete adapters (e.g., BoltDB, memory).
type RunRepository interface {
	// Save replaces the stored snapshot with r. No history is kept.
	Save(ctx context.Context, r run.Run) error

	// Latest returns the stored snapshot. Returns run.ErrNoRun if nothing
	// has been saved yet.
	Latest(ctx context.Context) (run.Run, error)

	// Ping checks if the repository is accessible and operational.
	Ping(ctx context.Context) error
}
