// Package core provides the HTTP chassis for FlareSentinel: the chi router,
// the global middleware chain, JSON response helpers, request validation,
// health probes and the static frontend. Domain handlers mount onto it through
// RouteRegistrars.
package core

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"

	"flaresentinel/internal/config"
)

// MetricsCollector records API request telemetry.
type MetricsCollector interface {
	// RecordRequest records latency and count for one request, using
	// MetricAPILatency and MetricAPIRequestCount from the types package.
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// RouteRegistrar mounts a group of handlers onto the root router.
type RouteRegistrar func(r chi.Router)

// Server holds the dependencies shared by every request.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// HealthProbes are evaluated by GET /health.
	HealthProbes []HealthProbe

	// RouteRegistrars are applied by MountRoutes after the middleware chain.
	// Registering through callbacks keeps core free of handler imports.
	RouteRegistrars []RouteRegistrar

	router *chi.Mux
}

// NewServer creates a Server with an empty router. Callers add registrars,
// probes and metrics, then call MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the router wrapped in gzip response compression. Clients
// that do not send Accept-Encoding: gzip get the uncompressed body.
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Router returns the underlying chi.Mux for route registration and tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
