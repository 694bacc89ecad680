package driven

import (
	"context"
	"time"
)

// StreamProber defines the interface for checking whether a stream endpoint answers.
// This is a driven port that will be implemented by concrete adapters (e.g., HTTP client).
type StreamProber interface {
	// Probe performs a single lightweight request against url. A nil error means
	// a response arrived; the caller decides from StatusCode whether it counts as live.
	// The deadline carried by ctx bounds the whole probe.
	Probe(ctx context.Context, url string) (ProbeOutcome, error)
}

// ProbeOutcome describes the response observed by a probe.
type ProbeOutcome struct {
	StatusCode int
	Latency    time.Duration
}
