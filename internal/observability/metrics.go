package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the aggregator.
type Metrics struct {
	// Telemetry (water level) passes.
	TelemetryFetches      *prometheus.CounterVec // labels: outcome={success,error}
	ObservationsResolved  prometheus.Counter
	ObservationsUnmatched prometheus.Counter
	ObservationsDuplicate prometheus.Counter

	// BMKG forecast fetches.
	ForecastFetches       *prometheus.CounterVec // labels: outcome={success,error}
	ForecastFetchDuration prometheus.Histogram

	// Request-scoped passes and publishing.
	PassDuration       *prometheus.HistogramVec // labels: view={stations,zones}
	SnapshotsPublished *prometheus.CounterVec   // labels: view={stations,zones}, outcome={success,error}

	CatalogStations *prometheus.GaugeVec // labels: catalog={telemetry,zone}
}

// NewMetrics creates and registers all aggregator metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.TelemetryFetches,
		m.ObservationsResolved,
		m.ObservationsUnmatched,
		m.ObservationsDuplicate,
		m.ForecastFetches,
		m.ForecastFetchDuration,
		m.PassDuration,
		m.SnapshotsPublished,
		m.CatalogStations,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		TelemetryFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "telemetry_fetches_total",
			Help:      "Telemetry dashboard fetches by outcome.",
		}, []string{"outcome"}),
		ObservationsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "observations_resolved_total",
			Help:      "Telemetry observations resolved to a canonical station.",
		}),
		ObservationsUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "observations_unmatched_total",
			Help:      "Telemetry observations dropped because no alias matched.",
		}),
		ObservationsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "observations_duplicate_total",
			Help:      "Telemetry observations dropped because their station was already seen in the pass.",
		}),
		ForecastFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "forecast_fetches_total",
			Help:      "BMKG forecast fetches by outcome.",
		}, []string{"outcome"}),
		ForecastFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "basin",
			Name:      "forecast_fetch_duration_seconds",
			Help:      "BMKG forecast page fetch duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
		PassDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "basin",
			Name:      "pass_duration_seconds",
			Help:      "Duration of a complete aggregation pass.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"view"}),
		SnapshotsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "basin",
			Name:      "snapshots_published_total",
			Help:      "Snapshots published to Kafka by view and outcome.",
		}, []string{"view", "outcome"}),
		CatalogStations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "basin",
			Name:      "catalog_stations",
			Help:      "Stations loaded from the catalog.",
		}, []string{"catalog"}),
	}
}
