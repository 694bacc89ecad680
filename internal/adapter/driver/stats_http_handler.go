package driver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alorle/livetv-collector/internal/application"
	"github.com/alorle/livetv-collector/internal/run"
)

// StatsHTTPHandler serves the counters of the latest run.
type StatsHTTPHandler struct {
	service *application.PublishService
	logger  *slog.Logger
}

// NewStatsHTTPHandler creates a new HTTP handler for run statistics.
func NewStatsHTTPHandler(service *application.PublishService, logger *slog.Logger) *StatsHTTPHandler {
	return &StatsHTTPHandler{service: service, logger: logger}
}

// statsResponse represents the JSON response for the stats endpoint.
type statsResponse struct {
	RunID           string    `json:"run_id"`
	StartedAt       string    `json:"started_at"`
	FinishedAt      string    `json:"finished_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Channels        int       `json:"channels"`
	Groups          []string  `json:"groups"`
	Stats           run.Stats `json:"stats"`
}

// ServeHTTP handles GET /api/stats
func (h *StatsHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rn, ok := latestRun(w, r, h.service, h.logger)
	if !ok {
		return
	}

	groups := rn.Groups()
	if groups == nil {
		groups = []string{}
	}

	writeJSON(w, http.StatusOK, statsResponse{
		RunID:           rn.ID.String(),
		StartedAt:       rn.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:      rn.FinishedAt.UTC().Format(time.RFC3339),
		DurationSeconds: rn.Duration().Seconds(),
		Channels:        len(rn.Channels),
		Groups:          groups,
		Stats:           rn.Stats,
	})
}
