package driven

import "context"

// PlaylistSource defines the interface for downloading remote playlist listings.
// This is a driven port that will be implemented by concrete adapters (e.g., HTTP client).
type PlaylistSource interface {
	// Fetch retrieves the raw playlist document published at url.
	// Returns an error for transport failures and non-success responses.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
