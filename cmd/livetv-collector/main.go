package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.etcd.io/bbolt"

	"github.com/alorle/livetv-collector/internal/adapter/driven"
	"github.com/alorle/livetv-collector/internal/adapter/driver"
	"github.com/alorle/livetv-collector/internal/application"
	"github.com/alorle/livetv-collector/internal/circuitbreaker"
	"github.com/alorle/livetv-collector/internal/config"
	"github.com/alorle/livetv-collector/internal/export"
	"github.com/alorle/livetv-collector/internal/memory"
	port "github.com/alorle/livetv-collector/internal/port/driven"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Create structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("starting livetv-collector",
		"sources", len(cfg.Sources),
		"output_dir", cfg.Output.Dir,
		"db_path", cfg.DB.Path,
		"redis", cfg.Redis.URL != "",
		"verify_workers", cfg.Verify.Workers,
		"verify_timeout", cfg.Verify.Timeout,
		"interval", cfg.Schedule.Interval,
		"log_level", cfg.SlogLevel().String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run repository: BoltDB when a path is configured, memory otherwise
	var repo port.RunRepository = memory.NewRunRepository()
	if cfg.DB.Path != "" {
		db, err := bbolt.Open(cfg.DB.Path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Printf("error closing database: %v", err)
			}
		}()

		repo, err = driven.NewRunBoltDBRepository(db)
		if err != nil {
			log.Fatalf("failed to create run repository: %v", err)
		}
	}

	// Run lock: Redis when configured, in-process otherwise
	var lock port.RunLock = memory.NewRunLock()
	var lockHealth application.Pinger
	if cfg.Redis.URL != "" {
		redisLock, err := driven.NewRunRedisLock(cfg.Redis.URL, cfg.Redis.LockKey, cfg.Redis.LockTTL)
		if err != nil {
			log.Fatalf("failed to create redis lock: %v", err)
		}
		defer redisLock.Close()
		if err := redisLock.Ping(ctx); err != nil {
			logger.Warn("redis is not reachable yet", "error", err)
		}
		lock = redisLock
		lockHealth = redisLock
	}

	// Create driven adapters
	source := driven.NewPlaylistHTTPSource(nil, cfg.Fetch.UserAgent, cfg.Fetch.MaxBytes)
	prober := driven.NewStreamHTTPProber(nil, cfg.Verify.UserAgent)
	exporter := export.NewFileExporter(cfg.Output.Dir, cfg.Output.BaseName, cfg.Location(), logger)

	// Create application services
	fetcher := application.NewSourceFetcher(source, logger, cfg.Fetch.Timeout, cfg.Fetch.Concurrency)
	if cfg.Schedule.Interval > 0 && cfg.Fetch.BreakerThreshold > 0 {
		fetcher.WithCircuitBreakers(circuitbreaker.NewRegistry(circuitbreaker.Config{
			FailureThreshold: cfg.Fetch.BreakerThreshold,
			Cooldown:         cfg.Fetch.BreakerCooldown,
		}, logger))
	}
	verifier := application.NewLivenessVerifier(prober, logger, cfg.Verify.Timeout, cfg.Verify.Workers, cfg.Verify.ProgressEvery)
	pipeline := application.NewPipelineService(cfg.Sources, fetcher, verifier, logger)
	publishService := application.NewPublishService(pipeline, lock, exporter, repo, logger)
	healthService := application.NewHealthService(repo, lockHealth)

	if cfg.Schedule.Interval <= 0 {
		if _, err := publishService.RunOnce(ctx); err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      driver.NewRouter(publishService, healthService, cfg.Location(), logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	publishService.Schedule(ctx, cfg.Schedule.Interval)

	logger.Info("shutdown signal received, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
