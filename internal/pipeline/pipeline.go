package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
	"github.com/couchcryptid/cisadane-basin-dashboard/internal/observability"
)

// ObservationSource fetches the raw station list from the telemetry dashboard.
type ObservationSource interface {
	FetchObservations(ctx context.Context) ([]domain.RawObservation, error)
}

// SnapshotPublisher forwards completed snapshots downstream.
type SnapshotPublisher interface {
	PublishStations(ctx context.Context, obs []domain.ResolvedObservation, at time.Time) error
	PublishZones(ctx context.Context, view domain.ZoneView, at time.Time) error
}

// Options tunes a Pipeline.
type Options struct {
	// ForecastFetchTimeout bounds each station fetch in the zone view.
	ForecastFetchTimeout time.Duration

	// PublishTimeout bounds snapshot publishing after a pass.
	PublishTimeout time.Duration
}

// Pipeline runs request-scoped aggregation passes over a read-only catalog.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	catalog   *domain.Catalog
	source    ObservationSource
	forecasts domain.ForecastFetcher
	publisher SnapshotPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options

	lastTelemetryFailed atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable snapshot publishing.
func New(catalog *domain.Catalog, source ObservationSource, forecasts domain.ForecastFetcher, publisher SnapshotPublisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.PublishTimeout <= 0 {
		opts.PublishTimeout = 5 * time.Second
	}
	metrics.CatalogStations.WithLabelValues("telemetry").Set(float64(len(catalog.Stations)))
	metrics.CatalogStations.WithLabelValues("zone").Set(float64(len(catalog.ZoneStations)))

	return &Pipeline{
		catalog:   catalog,
		source:    source,
		forecasts: forecasts,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil unless the most recent telemetry pass failed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.lastTelemetryFailed.Load() {
		return errors.New("last telemetry fetch failed")
	}
	return nil
}

// CatalogVersion reports the version of the loaded catalog.
func (p *Pipeline) CatalogVersion() string {
	return p.catalog.Version
}

// ZoneCatalog returns the static zone station list.
func (p *Pipeline) ZoneCatalog() []domain.ZoneStation {
	return p.catalog.ZoneCatalog()
}

// Stations fetches the telemetry dashboard and returns the resolved stations
// in upstream-to-downstream order. Unmatched and duplicate labels are logged
// and counted, never returned.
func (p *Pipeline) Stations(ctx context.Context) ([]domain.ResolvedObservation, error) {
	start := time.Now()

	raw, err := p.source.FetchObservations(ctx)
	if err != nil {
		p.metrics.TelemetryFetches.WithLabelValues("error").Inc()
		p.lastTelemetryFailed.Store(true)
		return nil, fmt.Errorf("fetch telemetry: %w", err)
	}
	p.metrics.TelemetryFetches.WithLabelValues("success").Inc()
	p.lastTelemetryFailed.Store(false)

	res := domain.Aggregate(raw, p.catalog.Index())

	for _, obs := range res.Unmatched {
		p.logger.Info("telemetry station not in catalog, dropping",
			"raw_name", obs.RawName,
			"reading", obs.Reading,
		)
	}
	for _, obs := range res.Duplicates {
		p.logger.Info("duplicate telemetry station, dropping", "raw_name", obs.RawName)
	}
	p.metrics.ObservationsResolved.Add(float64(len(res.Resolved)))
	p.metrics.ObservationsUnmatched.Add(float64(len(res.Unmatched)))
	p.metrics.ObservationsDuplicate.Add(float64(len(res.Duplicates)))
	p.metrics.PassDuration.WithLabelValues("stations").Observe(time.Since(start).Seconds())

	p.logger.Debug("stations pass complete",
		"raw", len(raw),
		"resolved", len(res.Resolved),
		"unmatched", len(res.Unmatched),
		"duplicates", len(res.Duplicates),
	)

	if p.publisher != nil {
		p.publish(ctx, "stations", func(ctx context.Context, at time.Time) error {
			return p.publisher.PublishStations(ctx, res.Resolved, at)
		})
	}
	return res.Resolved, nil
}

// Zones builds the zone view with a live forecast per station. It never
// fails: stations whose forecast cannot be fetched get placeholder rows.
func (p *Pipeline) Zones(ctx context.Context) domain.ZoneView {
	start := time.Now()

	view := domain.BuildZoneView(ctx, p.catalog.ZoneStations, p.forecasts, domain.ZoneViewOptions{
		FetchTimeout: p.opts.ForecastFetchTimeout,
		Logger:       p.logger,
		Observe:      p.observeForecast,
	})
	p.metrics.PassDuration.WithLabelValues("zones").Observe(time.Since(start).Seconds())

	if p.publisher != nil {
		p.publish(ctx, "zones", func(ctx context.Context, at time.Time) error {
			return p.publisher.PublishZones(ctx, view, at)
		})
	}
	return view
}

// Forecast fetches the current forecast for a single BMKG code.
// Codes outside the zone catalog are still forwarded to BMKG.
func (p *Pipeline) Forecast(ctx context.Context, code string) (domain.ForecastSnapshot, error) {
	if st, ok := p.catalog.ZoneStation(code); ok {
		p.logger.Debug("forecast lookup", "code", code, "station", st.Name, "zone", st.Zone.String())
	} else {
		p.logger.Info("forecast lookup for code outside zone catalog", "code", code)
	}

	snap, err := p.forecasts.FetchForecast(ctx, code)
	if err != nil {
		p.metrics.ForecastFetches.WithLabelValues("error").Inc()
		return domain.ForecastSnapshot{}, fmt.Errorf("fetch forecast %s: %w", code, err)
	}
	p.metrics.ForecastFetches.WithLabelValues("success").Inc()
	return snap, nil
}

func (p *Pipeline) observeForecast(_ domain.ZoneStation, err error, elapsed time.Duration) {
	p.metrics.ForecastFetchDuration.Observe(elapsed.Seconds())
	if err != nil {
		p.metrics.ForecastFetches.WithLabelValues("error").Inc()
		return
	}
	p.metrics.ForecastFetches.WithLabelValues("success").Inc()
}

// publish runs fn detached from the request's cancellation, bounded by
// PublishTimeout. Failures are logged and counted only.
func (p *Pipeline) publish(ctx context.Context, view string, fn func(ctx context.Context, at time.Time) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.opts.PublishTimeout)
	defer cancel()

	if err := fn(ctx, domain.Now()); err != nil {
		p.logger.Warn("publish snapshot failed", "view", view, "error", err)
		p.metrics.SnapshotsPublished.WithLabelValues(view, "error").Inc()
		return
	}
	p.metrics.SnapshotsPublished.WithLabelValues(view, "success").Inc()
}
