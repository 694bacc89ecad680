package memory

import (
	"context"
	"sync"

	"github.com/alorle/livetv-collector/internal/run"
)

// RunRepository keeps the latest run in process memory. It is used when no
// database path is configured.
type RunRepository struct {
	mu     sync.RWMutex
	latest *run.Run
}

func NewRunRepository() *RunRepository {
	return &RunRepository{}
}

func (r *RunRepository) Save(ctx context.Context, rn run.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = &rn
	return nil
}

func (r *RunRepository) Latest(ctx context.Context) (run.Run, error) {
	if err := ctx.Err(); err != nil {
		return run.Run{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.latest == nil {
		return run.Run{}, run.ErrNoRun
	}
	return *r.latest, nil
}

func (r *RunRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
