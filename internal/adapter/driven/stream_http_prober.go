package driven

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	port "github.com/alorle/livetv-collector/internal/port/driven"
	"github.com/alorle/livetv-collector/internal/probe"
)

// maxRedirects matches net/http's default redirect limit.
const maxRedirects = 10

// StreamHTTPProber checks stream endpoints with a HEAD request.
// It implements the driven.StreamProber port.
type StreamHTTPProber struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// NewStreamHTTPProber creates a prober. If client is nil, a client without its
// own timeout is used: the deadline comes from the context of each probe.
func NewStreamHTTPProber(client *http.Client, userAgent string) *StreamHTTPProber {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &StreamHTTPProber{
		client:    client,
		userAgent: userAgent,
		now:       time.Now,
	}
}

// Probe sends HEAD to rawURL, following redirects. Servers that reject HEAD,
// either with 405/501 or by dropping the connection, get one GET within the
// same deadline; its body is never read.
func (p *StreamHTTPProber) Probe(ctx context.Context, rawURL string) (port.ProbeOutcome, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return port.ProbeOutcome{}, fmt.Errorf("parsing stream URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return port.ProbeOutcome{}, probe.ErrUnsupportedScheme
	}

	start := p.now()

	status, err := p.do(ctx, http.MethodHead, rawURL)
	if needsGetFallback(ctx, status, err) {
		status, err = p.do(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		return port.ProbeOutcome{}, err
	}

	return port.ProbeOutcome{
		StatusCode: status,
		Latency:    p.now().Sub(start),
	}, nil
}

func (p *StreamHTTPProber) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	// Live streams never end; close without draining.
	resp.Body.Close()

	return resp.StatusCode, nil
}

func needsGetFallback(ctx context.Context, status int, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err == nil {
		return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return false
	}
	return true
}
