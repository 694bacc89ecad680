package run

import (
	"time"

	"github.com/google/uuid"

	"github.com/alorle/livetv-collector/internal/channel"
)

// Run is the aggregate output of one pipeline execution. It is the only
// value handed to output writers.
type Run struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time

	// Channels holds the active records in first-seen order across sources.
	Channels []channel.Record

	// GuideURLs are the EPG URLs announced by the sources, deduplicated.
	GuideURLs []string

	Stats Stats
}

// New starts an empty run stamped with a fresh ID.
func New(startedAt time.Time, sourcesTotal int) Run {
	return Run{
		ID:        uuid.New(),
		StartedAt: startedAt,
		Channels:  []channel.Record{},
		GuideURLs: []string{},
		Stats: Stats{
			SourcesTotal: sourcesTotal,
			Sources:      make([]SourceStat, 0, sourcesTotal),
		},
	}
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Groups returns the distinct channel groups in first-seen order.
func (r Run) Groups() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, ch := range r.Channels {
		if _, ok := seen[ch.Group()]; ok {
			continue
		}
		seen[ch.Group()] = struct{}{}
		groups = append(groups, ch.Group())
	}
	return groups
}
