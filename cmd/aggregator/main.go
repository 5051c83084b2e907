package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/adapter/bmkg"
	httpadapter "github.com/couchcryptid/cisadane-basin-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/cisadane-basin-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/adapter/telemetry"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/config"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/observability"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog, err := domain.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load station catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}
	logger.Info("station catalog loaded",
		"version", catalog.Version,
		"stations", len(catalog.Stations),
		"aliases", catalog.Index().Len(),
		"zone_stations", len(catalog.ZoneStations),
	)

	source := telemetry.NewClient(cfg.TelemetryURL, cfg.TelemetryTimeout, logger)
	forecasts := bmkg.NewClient(cfg.BMKGBaseURL, cfg.BMKGTimeout, logger)

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.SnapshotPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka snapshot publishing enabled",
			"brokers", cfg.KafkaBrokers,
			"stations_topic", cfg.KafkaStationsTopic,
			"zones_topic", cfg.KafkaZonesTopic,
		)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	p := pipeline.New(catalog, source, forecasts, publisher, logger, metrics, pipeline.Options{
		ForecastFetchTimeout: cfg.ForecastFetchTimeout,
		PublishTimeout:       cfg.PublishTimeout,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.CORSAllowedOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
