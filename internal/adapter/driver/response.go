package driver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alorle/livetv-collector/internal/application"
	"github.com/alorle/livetv-collector/internal/run"
)

// errorResponse represents a JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// latestRun loads the published run, writing the error response itself
// when there is none. It reports whether the caller should continue.
func latestRun(w http.ResponseWriter, r *http.Request, service *application.PublishService, logger *slog.Logger) (run.Run, bool) {
	rn, err := service.Latest(r.Context())
	if errors.Is(err, run.ErrNoRun) {
		writeError(w, http.StatusServiceUnavailable, "no run has completed yet")
		return run.Run{}, false
	}
	if err != nil {
		logger.Error("failed to load latest run", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return run.Run{}, false
	}
	return rn, true
}
