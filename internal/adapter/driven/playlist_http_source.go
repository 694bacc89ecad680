package driven

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultMaxBytes  = 32 * 1024 * 1024
)

// ErrPlaylistTooLarge is returned when a listing exceeds the configured size cap.
var ErrPlaylistTooLarge = errors.New("playlist exceeds size limit")

// PlaylistHTTPSource downloads playlist listings over HTTP.
// It implements the driven.PlaylistSource port.
type PlaylistHTTPSource struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// NewPlaylistHTTPSource creates a playlist source.
// If client is nil, it creates a default HTTP client with a 30-second timeout.
// Empty userAgent and non-positive maxBytes fall back to defaults.
func NewPlaylistHTTPSource(client *http.Client, userAgent string, maxBytes int64) *PlaylistHTTPSource {
	if client == nil {
		client = &http.Client{
			Timeout: defaultTimeout,
		}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &PlaylistHTTPSource{
		client:    client,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch GETs the listing at url and returns its body.
func (s *PlaylistHTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read one byte past the cap so an oversized body is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrPlaylistTooLarge, s.maxBytes)
	}

	return body, nil
}
