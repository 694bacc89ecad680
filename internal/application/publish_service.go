package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alorle/livetv-collector/internal/metrics"
	"github.com/alorle/livetv-collector/internal/port/driven"
	"github.com/alorle/livetv-collector/internal/run"
)

// PublishService runs the pipeline under the run lock and publishes the
// result to the output files and the run repository.
type PublishService struct {
	pipeline *PipelineService
	lock     driven.RunLock
	exporter driven.RunExporter
	repo     driven.RunRepository
	logger   *slog.Logger
}

// NewPublishService creates a new PublishService.
func NewPublishService(
	pipeline *PipelineService,
	lock driven.RunLock,
	exporter driven.RunExporter,
	repo driven.RunRepository,
	logger *slog.Logger,
) *PublishService {
	return &PublishService{
		pipeline: pipeline,
		lock:     lock,
		exporter: exporter,
		repo:     repo,
		logger:   logger,
	}
}

// RunOnce executes one pipeline run and publishes it. It returns
// run.ErrRunInProgress when another run holds the lock. Export and save
// are both attempted; their errors are joined.
func (s *PublishService) RunOnce(ctx context.Context) (run.Run, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		return run.Run{}, fmt.Errorf("acquiring run lock: %w", err)
	}
	defer release()

	rn := s.pipeline.Run(ctx)

	var errs []error
	if err := s.exporter.Export(ctx, rn); err != nil {
		metrics.RecordPublishFailure("export")
		s.logger.Error("failed to export run", "run_id", rn.ID, "error", err)
		errs = append(errs, fmt.Errorf("exporting run: %w", err))
	}
	// Saving uses a fresh context so a shutdown signal still leaves the snapshot behind.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.repo.Save(saveCtx, rn); err != nil {
		metrics.RecordPublishFailure("save")
		s.logger.Error("failed to save run", "run_id", rn.ID, "error", err)
		errs = append(errs, fmt.Errorf("saving run: %w", err))
	}

	if len(errs) == 0 {
		s.logger.Info("run published", "run_id", rn.ID, "channels", len(rn.Channels))
	}
	return rn, errors.Join(errs...)
}

// Schedule runs the pipeline immediately and then every interval until ctx
// is done. Failed runs are logged and do not stop the schedule.
func (s *PublishService) Schedule(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if errors.Is(err, run.ErrRunInProgress) {
				s.logger.Warn("skipping run, another run is in progress")
			} else {
				s.logger.Error("scheduled run failed", "error", err)
			}
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

// Latest returns the most recently published run.
func (s *PublishService) Latest(ctx context.Context) (run.Run, error) {
	return s.repo.Latest(ctx)
}
