package application

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/alorle/livetv-collector/internal/channel"
	"github.com/alorle/livetv-collector/internal/config"
	"github.com/alorle/livetv-collector/internal/m3u"
	"github.com/alorle/livetv-collector/internal/metrics"
	"github.com/alorle/livetv-collector/internal/probe"
	"github.com/alorle/livetv-collector/internal/run"
)

// PipelineService runs fetch, parse, merge, dedup and verify over the
// configured sources and assembles a run.Run.
type PipelineService struct {
	sources  []config.Source
	fetcher  *SourceFetcher
	verifier *LivenessVerifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipelineService creates a new PipelineService over a fixed list of sources.
func NewPipelineService(
	sources []config.Source,
	fetcher *SourceFetcher,
	verifier *LivenessVerifier,
	logger *slog.Logger,
) *PipelineService {
	return &PipelineService{
		sources:  append([]config.Source(nil), sources...),
		fetcher:  fetcher,
		verifier: verifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one full pipeline pass. It never fails: unreachable sources,
// unparseable lines and dead streams are counted in the run's stats and
// the run carries whatever survived.
func (s *PipelineService) Run(ctx context.Context) run.Run {
	rn := run.New(s.now(), len(s.sources))

	s.logger.Info("pipeline run started", "run_id", rn.ID, "sources", len(s.sources))

	if len(s.sources) == 0 {
		return s.finish(rn)
	}

	records, guides := s.collect(ctx, &rn)

	unique, removed := channel.Deduplicate(records)
	rn.Stats.DuplicatesRemoved = removed
	metrics.AddDuplicatesRemoved(removed)

	s.logger.Info("channels merged",
		"run_id", rn.ID,
		"records", len(records),
		"unique", len(unique),
		"duplicates_removed", removed,
	)

	results := s.verifier.Verify(ctx, unique)
	summary := probe.NewSummary(results)

	for _, r := range results {
		if r.Active() {
			rn.Channels = append(rn.Channels, r.Record())
		}
	}
	rn.GuideURLs = guides
	rn.Stats.Verified = summary.Total()
	rn.Stats.ActiveCount = summary.Active()
	rn.Stats.InactiveCount = summary.Inactive()
	if reasons := summary.Reasons(); len(reasons) > 0 {
		rn.Stats.FailureKinds = reasons
	}

	s.logger.Info("channels verified",
		"run_id", rn.ID,
		"active", summary.Active(),
		"inactive", summary.Inactive(),
		"avg_latency", summary.AvgLatency(),
	)

	return s.finish(rn)
}

// collect fetches and parses every source, merging records in source order.
func (s *PipelineService) collect(ctx context.Context, rn *run.Run) ([]channel.Record, []string) {
	var records []channel.Record
	var guides []string
	seenGuide := make(map[string]struct{})

	for _, res := range s.fetcher.FetchAll(ctx, s.sources) {
		stat := run.SourceStat{
			Index: res.Index,
			Name:  res.Source.Name,
			URL:   res.Source.URL,
		}

		if res.Err != nil {
			stat.Error = res.Err.Error()
			rn.Stats.RecordSource(stat)
			metrics.RecordSourceFailed(res.Source.Name)
			continue
		}

		pl, err := m3u.Parse(bytes.NewReader(res.Body), res.Index)
		if err != nil {
			// Records read before the error are kept.
			s.logger.Warn("source parsed partially",
				"source", res.Source.Name,
				"records", len(pl.Records),
				"error", err,
			)
			stat.Error = err.Error()
		}

		stat.Fetched = true
		stat.Records = len(pl.Records)
		rn.Stats.RecordSource(stat)
		metrics.RecordSourceFetched(res.Source.Name)
		metrics.AddRecordsParsed(len(pl.Records))

		records = append(records, pl.Records...)
		for _, g := range pl.GuideURLs {
			if _, ok := seenGuide[g]; ok {
				continue
			}
			seenGuide[g] = struct{}{}
			guides = append(guides, g)
		}

		s.logger.Info("source parsed", "source", res.Source.Name, "records", len(pl.Records))
	}

	if guides == nil {
		guides = []string{}
	}
	return records, guides
}

func (s *PipelineService) finish(rn run.Run) run.Run {
	rn.FinishedAt = s.now()
	metrics.SetRunResult(rn.Stats.ActiveCount, rn.Stats.InactiveCount, rn.Duration(), rn.FinishedAt)

	s.logger.Info("pipeline run finished",
		"run_id", rn.ID,
		"sources_fetched", rn.Stats.SourcesFetched,
		"sources_failed", rn.Stats.SourcesFailed,
		"records_parsed", rn.Stats.RecordsParsed,
		"active", rn.Stats.ActiveCount,
		"duration", rn.Duration(),
	)
	return rn
}
