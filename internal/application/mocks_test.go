package application

import (
	"context"
	"log/slog"
	"os"

	"github.com/alorle/livetv-collector/internal/port/driven"
	"github.com/alorle/livetv-collector/internal/run"
)

// mockPlaylistSource implements driven.PlaylistSource for testing.
type mockPlaylistSource struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockPlaylistSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return []byte("#EXTM3U\n"), nil
}

// mockStreamProber implements driven.StreamProber for testing.
type mockStreamProber struct {
	probeFunc func(ctx context.Context, url string) (driven.ProbeOutcome, error)
}

func (m *mockStreamProber) Probe(ctx context.Context, url string) (driven.ProbeOutcome, error) {
	if m.probeFunc != nil {
		return m.probeFunc(ctx, url)
	}
	return driven.ProbeOutcome{StatusCode: 200}, nil
}

// mockRunRepository implements driven.RunRepository for testing.
type mockRunRepository struct {
	saveFunc   func(ctx context.Context, r run.Run) error
	latestFunc func(ctx context.Context) (run.Run, error)
	pingFunc   func(ctx context.Context) error
}

func (m *mockRunRepository) Save(ctx context.Context, r run.Run) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, r)
	}
	return nil
}

func (m *mockRunRepository) Latest(ctx context.Context) (run.Run, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx)
	}
	return run.Run{}, run.ErrNoRun
}

func (m *mockRunRepository) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// mockRunLock implements driven.RunLock for testing.
type mockRunLock struct {
	acquireFunc func(ctx context.Context) (func(), error)
	pingFunc    func(ctx context.Context) error
}

func (m *mockRunLock) Acquire(ctx context.Context) (func(), error) {
	if m.acquireFunc != nil {
		return m.acquireFunc(ctx)
	}
	return func() {}, nil
}

func (m *mockRunLock) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

// mockRunExporter implements driven.RunExporter for testing.
type mockRunExporter struct {
	exportFunc func(ctx context.Context, r run.Run) error
}

func (m *mockRunExporter) Export(ctx context.Context, r run.Run) error {
	if m.exportFunc != nil {
		return m.exportFunc(ctx, r)
	}
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
