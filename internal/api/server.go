// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quantlab/quiver/internal/api/job"
	"github.com/quantlab/quiver/internal/api/middleware"
	"github.com/quantlab/quiver/internal/api/response"
	"github.com/quantlab/quiver/internal/backtest"
	"github.com/quantlab/quiver/internal/metrics"
	"github.com/quantlab/quiver/internal/provider"
	"github.com/quantlab/quiver/internal/store"
)

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string
	JobTTL      time.Duration
	MaxJobs     int
}

// Dependencies carries the collaborators the handlers need.
type Dependencies struct {
	Runner   *backtest.Runner
	Provider provider.Provider
	Archive  store.Store // optional result archive
	Metrics  *metrics.Registry

	// Defaults applied when a request omits them
	HoldingPeriods []int
	PriceColumn    string
}

// Server is the quiver HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
	jobs       *job.Store
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Runner == nil || deps.Provider == nil {
		return nil, fmt.Errorf("runner and provider are required")
	}

	maxJobs := cfg.MaxJobs
	if maxJobs <= 0 {
		maxJobs = 100
	}
	ttl := cfg.JobTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
		deps:   deps,
		jobs:   job.NewStore(maxJobs, ttl),
	}

	s.setupRoutes(cfg)
	return s, nil
}

func (s *Server) setupRoutes(cfg Config) {
	auth := middleware.APIKeyAuth(cfg.APIKey)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/backtest", s.handleBacktest)
	api.HandleFunc("POST /api/v1/sweep", s.handleSweep)
	api.HandleFunc("GET /api/v1/jobs/{id}", s.handleJobStatus)

	var protected http.Handler = auth(api)
	if s.deps.Metrics != nil {
		protected = metrics.HTTPMiddleware(s.deps.Metrics)(protected)
	}
	s.mux.Handle("/api/", protected)

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		s.mux.Handle("GET "+path, promhttp.HandlerFor(s.deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
