package driver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alorle/livetv-collector/internal/application"
	"github.com/alorle/livetv-collector/internal/export"
)

// ChannelsHTTPHandler serves the structured document of the latest run.
type ChannelsHTTPHandler struct {
	service *application.PublishService
	loc     *time.Location
	logger  *slog.Logger
}

// NewChannelsHTTPHandler creates a new HTTP handler for the channel document.
func NewChannelsHTTPHandler(service *application.PublishService, loc *time.Location, logger *slog.Logger) *ChannelsHTTPHandler {
	return &ChannelsHTTPHandler{service: service, loc: loc, logger: logger}
}

// ServeHTTP handles GET /channels.json
func (h *ChannelsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rn, ok := latestRun(w, r, h.service, h.logger)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, export.NewDocument(rn, h.loc))
}
