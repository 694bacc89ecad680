package driver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alorle/livetv-collector/internal/application"
)

// NewRouter registers every HTTP endpoint on a new ServeMux.
func NewRouter(publish *application.PublishService, health *application.HealthService, loc *time.Location, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/playlist.m3u", NewPlaylistHTTPHandler(publish, logger))
	mux.Handle("/channels.json", NewChannelsHTTPHandler(publish, loc, logger))
	mux.Handle("/api/stats", NewStatsHTTPHandler(publish, logger))
	mux.Handle("/health", NewHealthHTTPHandler(health))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
