package application

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alorle/livetv-collector/internal/channel"
	"github.com/alorle/livetv-collector/internal/metrics"
	"github.com/alorle/livetv-collector/internal/port/driven"
	"github.com/alorle/livetv-collector/internal/probe"
)

// LivenessVerifier probes records concurrently with a fixed number of workers.
type LivenessVerifier struct {
	prober        driven.StreamProber
	logger        *slog.Logger
	timeout       time.Duration
	workers       int
	progressEvery int
	now           func() time.Time
}

// NewLivenessVerifier creates a new LivenessVerifier. Each probe gets its own
// timeout. A progress line is logged every progressEvery completions; zero
// disables progress logging.
func NewLivenessVerifier(prober driven.StreamProber, logger *slog.Logger, timeout time.Duration, workers, progressEvery int) *LivenessVerifier {
	if workers <= 0 {
		workers = 1
	}
	return &LivenessVerifier{
		prober:        prober,
		logger:        logger,
		timeout:       timeout,
		workers:       workers,
		progressEvery: progressEvery,
		now:           time.Now,
	}
}

// Verify probes every record and returns one result per record, in input
// order: results[i] belongs to records[i] however the probes interleave.
func (v *LivenessVerifier) Verify(ctx context.Context, records []channel.Record) []probe.Result {
	results := make([]probe.Result, len(records))
	if len(records) == 0 {
		return results
	}

	workers := min(v.workers, len(records))
	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup

	v.logger.Info("verifying channels", "count", len(records), "workers", workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// Each worker writes only the slot it was handed.
				results[i] = v.check(ctx, records[i])

				n := done.Add(1)
				if v.progressEvery > 0 && n%int64(v.progressEvery) == 0 {
					v.logger.Info("verification progress", "done", n, "total", len(records))
				}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// check runs a single probe under its own deadline.
func (v *LivenessVerifier) check(ctx context.Context, rec channel.Record) probe.Result {
	probeCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := v.now()
	outcome, err := v.prober.Probe(probeCtx, rec.URL())
	elapsed := v.now().Sub(start)

	latency := outcome.Latency
	if latency <= 0 {
		latency = elapsed
	}

	var reason string
	var status int
	if err != nil {
		reason = probe.ClassifyFailure(err)
	} else {
		status = outcome.StatusCode
		if !isLiveStatus(status) {
			reason = (&probe.StatusError{Code: status}).Error()
		}
	}

	active := reason == ""
	if active {
		metrics.ObserveProbe(elapsed, "")
	} else {
		latency = 0
		metrics.ObserveProbe(elapsed, probe.ReasonKind(reason))
	}

	result, rerr := probe.NewResult(rec, active, v.now(), reason, status, latency)
	if rerr != nil {
		v.logger.Error("failed to build probe result", "url", rec.URL(), "error", rerr)
		return probe.ReconstructResult(rec, false, v.now(), rerr.Error(), status, 0)
	}

	v.logger.Debug("probe completed",
		"url", rec.URL(),
		"active", active,
		"status", status,
		"reason", reason,
		"latency", latency,
	)

	return result
}

// isLiveStatus reports whether a final response status counts as live:
// any success or redirect code.
func isLiveStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusBadRequest
}
