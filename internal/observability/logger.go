package observability

import (
	"log/slog"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// ServiceName tags every log record emitted by the aggregator.
const ServiceName = "basin-aggregator"

// NewLogger builds the process logger from cfg and installs it as the slog
// default, so packages that fall back to slog.Default share its settings.
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", ServiceName)
	slog.SetDefault(logger)
	return logger
}
