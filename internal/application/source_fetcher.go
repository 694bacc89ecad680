package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alorle/livetv-collector/internal/circuitbreaker"
	"github.com/alorle/livetv-collector/internal/config"
	"github.com/alorle/livetv-collector/internal/port/driven"
)

// FetchResult is the outcome of downloading one configured source.
// Exactly one of Body and Err is meaningful.
type FetchResult struct {
	Index  int
	Source config.Source
	Body   []byte
	Err    error
}

// SourceFetcher downloads every configured playlist source.
type SourceFetcher struct {
	source      driven.PlaylistSource
	logger      *slog.Logger
	timeout     time.Duration
	concurrency int
	breakers    *circuitbreaker.Registry
}

// NewSourceFetcher creates a new SourceFetcher. Each download is bounded by
// timeout; at most concurrency downloads run at once.
func NewSourceFetcher(source driven.PlaylistSource, logger *slog.Logger, timeout time.Duration, concurrency int) *SourceFetcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &SourceFetcher{
		source:      source,
		logger:      logger,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// WithCircuitBreakers makes the fetcher skip sources whose breaker is open.
// Breakers are keyed by source URL.
func (f *SourceFetcher) WithCircuitBreakers(r *circuitbreaker.Registry) *SourceFetcher {
	f.breakers = r
	return f
}

// FetchAll downloads sources concurrently. results[i] belongs to sources[i];
// a failed source never stops the others.
func (f *SourceFetcher) FetchAll(ctx context.Context, sources []config.Source) []FetchResult {
	results := make([]FetchResult, len(sources))

	var g errgroup.Group
	g.SetLimit(f.concurrency)

	for i, src := range sources {
		g.Go(func() error {
			results[i] = f.fetch(ctx, i, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *SourceFetcher) fetch(ctx context.Context, index int, src config.Source) FetchResult {
	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	var body []byte
	download := func() error {
		var err error
		body, err = f.source.Fetch(fetchCtx, src.URL)
		return err
	}

	var err error
	if f.breakers != nil {
		err = f.breakers.Get(src.URL).Execute(download)
	} else {
		err = download()
	}
	if errors.Is(err, circuitbreaker.ErrOpen) {
		f.logger.Info("source skipped", "source", src.Name, "url", src.URL)
		return FetchResult{Index: index, Source: src, Err: err}
	}
	if err != nil {
		f.logger.Warn("source fetch failed",
			"source", src.Name,
			"url", src.URL,
			"error", err,
		)
		return FetchResult{Index: index, Source: src, Err: err}
	}

	f.logger.Debug("source fetched",
		"source", src.Name,
		"bytes", len(body),
		"duration", time.Since(start),
	)
	return FetchResult{Index: index, Source: src, Body: body}
}
