package driver

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/alorle/livetv-collector/internal/application"
	"github.com/alorle/livetv-collector/internal/export"
)

// PlaylistHTTPHandler serves the playlist of the latest run.
type PlaylistHTTPHandler struct {
	service *application.PublishService
	logger  *slog.Logger
}

// NewPlaylistHTTPHandler creates a new HTTP handler for playlists.
func NewPlaylistHTTPHandler(service *application.PublishService, logger *slog.Logger) *PlaylistHTTPHandler {
	return &PlaylistHTTPHandler{service: service, logger: logger}
}

// ServeHTTP handles GET /playlist.m3u
func (h *PlaylistHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only GET method is allowed
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rn, ok := latestRun(w, r, h.service, h.logger)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePlaylist(&buf, rn); err != nil {
		h.logger.Error("failed to render playlist", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Write M3U response with proper content type
	w.Header().Set("Content-Type", "audio/mpegurl")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
