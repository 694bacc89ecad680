package application

import (
	"context"

	"github.com/alorle/livetv-collector/internal/port/driven"
)

// Pinger is implemented by optional dependencies that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService orchestrates health checks for the application and its dependencies.
type HealthService struct {
	repo driven.RunRepository
	lock Pinger
}

// NewHealthService creates a new health check service.
// lock may be nil when no distributed lock is configured.
func NewHealthService(repo driven.RunRepository, lock Pinger) *HealthService {
	return &HealthService{
		repo: repo,
		lock: lock,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok", "error" or "disabled"
	Error  string // empty unless status is "error"
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status     string          // "ok" if all components are healthy, "degraded" otherwise
	Repository ComponentHealth // run repository health
	Lock       ComponentHealth // distributed run lock health
}

// Check performs health checks on all dependencies.
// Returns the overall health status and individual component statuses.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
	}

	status.Repository = check(ctx, s.repo)
	if s.lock != nil {
		status.Lock = check(ctx, s.lock)
	} else {
		status.Lock = ComponentHealth{Status: "disabled"}
	}

	if status.Repository.Status == "error" || status.Lock.Status == "error" {
		status.Status = "degraded"
	}

	return status
}

func check(ctx context.Context, p Pinger) ComponentHealth {
	if err := p.Ping(ctx); err != nil {
		return ComponentHealth{
			Status: "error",
			Error:  err.Error(),
		}
	}
	return ComponentHealth{Status: "ok"}
}
