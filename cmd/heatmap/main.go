package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/drone-weather-heatmap/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/drone-weather-heatmap/internal/adapter/kafka"
	"github.com/couchcryptid/drone-weather-heatmap/internal/adapter/source"
	"github.com/couchcryptid/drone-weather-heatmap/internal/config"
	"github.com/couchcryptid/drone-weather-heatmap/internal/observability"
	"github.com/couchcryptid/drone-weather-heatmap/internal/pipeline"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	profiles, err := config.LoadProfiles(cfg.ProfilesFile)
	if err != nil {
		logger.Error("failed to load profiles", "error", err)
		os.Exit(1)
	}

	// CACHE_URL takes precedence over the local file.
	var src pipeline.CacheSource
	if cfg.CacheURL != "" {
		src = source.NewHTTPSource(cfg.CacheURL, cfg.CacheTimeout, metrics, logger)
	} else {
		src = source.NewFileSource(cfg.CacheFile, metrics)
	}
	logger.Info("weather cache source", "source", src.Name())

	// Overlay publishing is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.OverlayPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka overlay publishing enabled", "topic", cfg.KafkaOverlayTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka overlay publishing disabled")
	}

	ctrl, err := pipeline.New(src, publisher, profiles, cfg.Profile, cfg.Thresholds, logger, metrics)
	if err != nil {
		logger.Error("failed to create controller", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, ctrl, cfg.CacheTimeout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Start HTTP server.
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// A failed initial load leaves the service up but not ready; POST
	// /api/reload tries again.
	g.Go(func() error {
		if err := ctrl.Load(gctx); err != nil {
			logger.Warn("initial weather cache load failed", "error", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
