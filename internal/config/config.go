package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// CatalogPath points at a catalog YAML file. Empty uses the embedded catalog.
	CatalogPath        string
	CORSAllowedOrigins []string

	// Upstream sources.
	TelemetryURL         string
	TelemetryTimeout     time.Duration
	BMKGBaseURL          string
	BMKGTimeout          time.Duration
	ForecastFetchTimeout time.Duration

	// Snapshot publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaStationsTopic string
	KafkaZonesTopic    string
	PublishTimeout     time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}
	telemetryTimeout, err := parseDuration("TELEMETRY_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	bmkgTimeout, err := parseDuration("BMKG_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	forecastTimeout, err := parseDuration("FORECAST_FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	publishTimeout, err := parseDuration("PUBLISH_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        httpAddr(),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CatalogPath: os.Getenv("CATALOG_PATH"),
		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS",
			"https://scelactrine.github.io,https://scelactrine.github.io/sg2-dashboard")),

		TelemetryURL:         os.Getenv("TELEMETRY_URL"),
		TelemetryTimeout:     telemetryTimeout,
		BMKGBaseURL:          sharedcfg.EnvOrDefault("BMKG_BASE_URL", "https://www.bmkg.go.id/cuaca/prakiraan-cuaca"),
		BMKGTimeout:          bmkgTimeout,
		ForecastFetchTimeout: forecastTimeout,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       brokers,
		KafkaStationsTopic: sharedcfg.EnvOrDefault("KAFKA_STATIONS_TOPIC", "basin-station-snapshots"),
		KafkaZonesTopic:    sharedcfg.EnvOrDefault("KAFKA_ZONES_TOPIC", "basin-zone-snapshots"),
		PublishTimeout:     publishTimeout,
	}

	if cfg.TelemetryURL == "" {
		return nil, errors.New("TELEMETRY_URL is required")
	}
	if err := validateURL("TELEMETRY_URL", cfg.TelemetryURL); err != nil {
		return nil, err
	}
	if err := validateURL("BMKG_BASE_URL", cfg.BMKGBaseURL); err != nil {
		return nil, err
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && (cfg.KafkaStationsTopic == "" || cfg.KafkaZonesTopic == "") {
		return nil, errors.New("KAFKA_STATIONS_TOPIC and KAFKA_ZONES_TOPIC are required when Kafka is enabled")
	}

	return cfg, nil
}

// httpAddr honours HTTP_ADDR, then PORT (as set by most PaaS hosts).
func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	if p := os.Getenv("PORT"); p != "" {
		return ":" + p
	}
	return ":3000"
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
