package probe

import (
	"strings"
	"time"

	"github.com/alorle/livetv-collector/internal/channel"
)

// Result represents the outcome of one liveness probe of a channel's URL.
// It is an immutable value object.
type Result struct {
	record        channel.Record
	active        bool
	checkedAt     time.Time
	failureReason string
	statusCode    int
	latency       time.Duration
}

// NewResult creates a new probe result with validation.
// A failure reason is required when the probe is inactive and forbidden
// when it is active.
func NewResult(
	record channel.Record,
	active bool,
	checkedAt time.Time,
	failureReason string,
	statusCode int,
	latency time.Duration,
) (Result, error) {
	if checkedAt.IsZero() {
		return Result{}, ErrInvalidTimestamp
	}

	failureReason = strings.TrimSpace(failureReason)
	if !active && failureReason == "" {
		return Result{}, ErrMissingFailureReason
	}
	if active && failureReason != "" {
		return Result{}, ErrUnexpectedFailureReason
	}

	return Result{
		record:        record,
		active:        active,
		checkedAt:     checkedAt,
		failureReason: failureReason,
		statusCode:    statusCode,
		latency:       latency,
	}, nil
}

// ReconstructResult rebuilds a Result without validation.
func ReconstructResult(
	record channel.Record,
	active bool,
	checkedAt time.Time,
	failureReason string,
	statusCode int,
	latency time.Duration,
) Result {
	return Result{
		record:        record,
		active:        active,
		checkedAt:     checkedAt,
		failureReason: failureReason,
		statusCode:    statusCode,
		latency:       latency,
	}
}

func (r Result) Record() channel.Record { return r.record }
func (r Result) Active() bool           { return r.active }
func (r Result) CheckedAt() time.Time   { return r.checkedAt }
func (r Result) FailureReason() string  { return r.failureReason }
func (r Result) StatusCode() int        { return r.statusCode }
func (r Result) Latency() time.Duration { return r.latency }
