package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourcesFetched counts sources downloaded and parsed, by source name
	SourcesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetv_sources_fetched_total",
		Help: "Total number of playlist sources fetched successfully",
	}, []string{"source"})

	// SourcesFailed counts sources that could not be fetched, by source name
	SourcesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetv_sources_failed_total",
		Help: "Total number of playlist source fetch failures",
	}, []string{"source"})

	// RecordsParsed counts records produced by the parser
	RecordsParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livetv_records_parsed_total",
		Help: "Total number of channel records parsed from sources",
	})

	// DuplicatesRemoved counts records dropped by deduplication
	DuplicatesRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livetv_duplicates_removed_total",
		Help: "Total number of duplicate channel records removed",
	})

	// ProbeFailures counts inactive probes by reason kind
	ProbeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetv_probe_failures_total",
		Help: "Total number of failed liveness probes",
	}, []string{"reason"})

	// ProbeDuration tracks how long each liveness probe took
	ProbeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "livetv_probe_duration_seconds",
		Help:    "Duration of liveness probes",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// ChannelsActive is the active channel count of the last run
	ChannelsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetv_channels_active",
		Help: "Number of active channels found by the last run",
	})

	// ChannelsInactive is the inactive channel count of the last run
	ChannelsInactive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetv_channels_inactive",
		Help: "Number of inactive channels found by the last run",
	})

	// RunDuration is the wall time of the last run
	RunDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetv_run_duration_seconds",
		Help: "Duration of the last pipeline run",
	})

	// LastRunTimestamp is when the last run finished
	LastRunTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livetv_last_run_timestamp_seconds",
		Help: "Unix time at which the last pipeline run finished",
	})

	// PublishFailures counts runs whose output could not be written or saved
	PublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livetv_publish_failures_total",
		Help: "Total number of publish failures",
	}, []string{"stage"})
)

// RecordSourceFetched increments the fetched counter for a source
func RecordSourceFetched(source string) {
	SourcesFetched.WithLabelValues(source).Inc()
}

// RecordSourceFailed increments the failure counter for a source
func RecordSourceFailed(source string) {
	SourcesFailed.WithLabelValues(source).Inc()
}

// AddRecordsParsed adds n parsed records
func AddRecordsParsed(n int) {
	RecordsParsed.Add(float64(n))
}

// AddDuplicatesRemoved adds n removed duplicates
func AddDuplicatesRemoved(n int) {
	DuplicatesRemoved.Add(float64(n))
}

// ObserveProbe records one probe's duration and, if it failed, its reason kind
func ObserveProbe(d time.Duration, failureKind string) {
	ProbeDuration.Observe(d.Seconds())
	if failureKind != "" {
		ProbeFailures.WithLabelValues(failureKind).Inc()
	}
}

// SetRunResult publishes the gauges describing a finished run
func SetRunResult(active, inactive int, duration time.Duration, finishedAt time.Time) {
	ChannelsActive.Set(float64(active))
	ChannelsInactive.Set(float64(inactive))
	RunDuration.Set(duration.Seconds())
	LastRunTimestamp.Set(float64(finishedAt.Unix()))
}

// RecordPublishFailure increments the publish failure counter for a stage
func RecordPublishFailure(stage string) {
	PublishFailures.WithLabelValues(stage).Inc()
}
