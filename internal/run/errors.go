package run

import "errors"

var (
	// ErrNoRun is returned by repositories before the first run is saved.
	ErrNoRun = errors.New("no run recorded yet")

	// ErrRunInProgress is returned when another run holds the run lock.
	ErrRunInProgress = errors.New("a run is already in progress")
)
