package application

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alorle/livetv-collector/internal/circuitbreaker"
	"github.com/alorle/livetv-collector/internal/config"
)

func testSources(urls ...string) []config.Source {
	sources := make([]config.Source, len(urls))
	for i, u := range urls {
		sources[i] = config.Source{Name: u, URL: u}
	}
	return sources
}

func TestSourceFetcher_FetchAll(t *testing.T) {
	t.Run("keeps one result per source in order", func(t *testing.T) {
		src := &mockPlaylistSource{
			fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				// Later sources answer first.
				if url == "http://a" {
					time.Sleep(30 * time.Millisecond)
				}
				return []byte(url), nil
			},
		}

		f := NewSourceFetcher(src, newTestLogger(), time.Second, 4)
		results := f.FetchAll(context.Background(), testSources("http://a", "http://b", "http://c"))

		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, want := range []string{"http://a", "http://b", "http://c"} {
			if results[i].Index != i {
				t.Errorf("results[%d].Index = %d", i, results[i].Index)
			}
			if !bytes.Equal(results[i].Body, []byte(want)) {
				t.Errorf("results[%d].Body = %q, want %q", i, results[i].Body, want)
			}
		}
	})

	t.Run("a failing source does not affect the others", func(t *testing.T) {
		errDown := errors.New("connection refused")
		src := &mockPlaylistSource{
			fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				if url == "http://b" {
					return nil, errDown
				}
				return []byte("#EXTM3U\n"), nil
			},
		}

		f := NewSourceFetcher(src, newTestLogger(), time.Second, 2)
		results := f.FetchAll(context.Background(), testSources("http://a", "http://b", "http://c"))

		if results[0].Err != nil || results[2].Err != nil {
			t.Errorf("expected sources a and c to succeed, got %v / %v", results[0].Err, results[2].Err)
		}
		if !errors.Is(results[1].Err, errDown) {
			t.Errorf("expected source b to fail with %v, got %v", errDown, results[1].Err)
		}
	})

	t.Run("each fetch is bounded by the timeout", func(t *testing.T) {
		src := &mockPlaylistSource{
			fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				if url == "http://slow" {
					<-ctx.Done()
					return nil, ctx.Err()
				}
				return []byte("ok"), nil
			},
		}

		f := NewSourceFetcher(src, newTestLogger(), 50*time.Millisecond, 2)
		start := time.Now()
		results := f.FetchAll(context.Background(), testSources("http://slow", "http://fast"))

		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("FetchAll took %v, expected the timeout to cut the slow source", elapsed)
		}
		if !errors.Is(results[0].Err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", results[0].Err)
		}
		if results[1].Err != nil {
			t.Errorf("expected fast source to succeed, got %v", results[1].Err)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		var inFlight, peak atomic.Int32
		src := &mockPlaylistSource{
			fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				inFlight.Add(-1)
				return nil, nil
			},
		}

		f := NewSourceFetcher(src, newTestLogger(), time.Second, 2)
		f.FetchAll(context.Background(), testSources("1", "2", "3", "4", "5", "6"))

		if p := peak.Load(); p > 2 {
			t.Errorf("peak concurrency = %d, want <= 2", p)
		}
	})

	t.Run("no sources", func(t *testing.T) {
		f := NewSourceFetcher(&mockPlaylistSource{}, newTestLogger(), time.Second, 2)
		if results := f.FetchAll(context.Background(), nil); len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

func TestSourceFetcher_CircuitBreakers(t *testing.T) {
	var calls atomic.Int32
	src := &mockPlaylistSource{
		fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			if url == "http://down" {
				calls.Add(1)
				return nil, errors.New("status 500")
			}
			return []byte("#EXTM3U\n"), nil
		},
	}

	breakers := circuitbreaker.NewRegistry(circuitbreaker.Config{FailureThreshold: 2, Cooldown: time.Hour}, newTestLogger())
	f := NewSourceFetcher(src, newTestLogger(), time.Second, 2).WithCircuitBreakers(breakers)
	sources := testSources("http://down", "http://up")

	for range 2 {
		f.FetchAll(context.Background(), sources)
	}
	results := f.FetchAll(context.Background(), sources)

	if !errors.Is(results[0].Err, circuitbreaker.ErrOpen) {
		t.Errorf("expected failing source to be skipped, got %v", results[0].Err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("expected 2 downloads of the failing source, got %d", n)
	}
	if results[1].Err != nil {
		t.Errorf("expected healthy source to keep working, got %v", results[1].Err)
	}
}
