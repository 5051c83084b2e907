package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/cisadane-basin-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Aggregator is the read side served over HTTP.
type Aggregator interface {
	sharedobs.ReadinessChecker

	Stations(ctx context.Context) ([]domain.ResolvedObservation, error)
	Zones(ctx context.Context) domain.ZoneView
	Forecast(ctx context.Context, code string) (domain.ForecastSnapshot, error)
	ZoneCatalog() []domain.ZoneStation
	CatalogVersion() string
}

// Server exposes the dashboard JSON endpoints plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	agg        Aggregator
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Browser requests are limited to allowedOrigins.
func NewServer(addr string, agg Aggregator, allowedOrigins []string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr: addr,
			Handler: handlers.CORS(
				handlers.AllowedOrigins(allowedOrigins),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
			)(mux),
			ReadTimeout: 10 * time.Second,
			// The zone view fans out to every BMKG page before responding.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		agg:    agg,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /stations", s.handleStations)
	mux.HandleFunc("GET /zones", s.handleZones)
	mux.HandleFunc("GET /bmkg/stations", s.handleZoneCatalog)
	mux.HandleFunc("GET /bmkg", s.handleForecast)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(agg))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Server is running!")
}

func (s *Server) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.agg.Stations(r.Context())
	if err != nil {
		s.logger.Error("stations request failed", "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "error fetching telemetry data"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, stations)
}

type zonesResponse struct {
	Version string             `json:"version"`
	Zones   []domain.ZoneGroup `json:"zones"`
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	view := s.agg.Zones(r.Context())
	sharedobs.WriteJSON(w, http.StatusOK, zonesResponse{Version: s.agg.CatalogVersion(), Zones: view.Zones})
}

func (s *Server) handleZoneCatalog(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.agg.ZoneCatalog())
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeText(w, http.StatusBadRequest, "Missing ?code= parameter")
		return
	}

	snap, err := s.agg.Forecast(r.Context(), code)
	if err != nil {
		s.logger.Error("bmkg request failed", "code", code, "error", err)
		writeText(w, http.StatusInternalServerError, "Error fetching BMKG data")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, snap)
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
