package driven

import (
	"context"

	"github.com/alorle/livetv-collector/internal/run"
)

// RunExporter writes the outputs of a finished run (e.g., playlist files).
type RunExporter interface {
	Export(ctx context.Context, r run.Run) error
}
