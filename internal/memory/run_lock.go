package memory

import (
	"context"
	"sync"

	"github.com/alorle/livetv-collector/internal/run"
)

// RunLock prevents overlapping runs inside a single process.
type RunLock struct {
	mu sync.Mutex
}

func NewRunLock() *RunLock {
	return &RunLock{}
}

// Acquire never waits: a held lock yields run.ErrRunInProgress.
func (l *RunLock) Acquire(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !l.mu.TryLock() {
		return nil, run.ErrRunInProgress
	}
	var once sync.Once
	return func() { once.Do(l.mu.Unlock) }, nil
}
