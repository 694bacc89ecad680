package driven

import "context"

// RunLock guards against two pipeline runs overlapping, possibly across processes.
type RunLock interface {
	// Acquire takes the lock or returns run.ErrRunInProgress when another
	// holder has it. The returned release function is safe to call once.
	Acquire(ctx context.Context) (release func(), err error)
}
