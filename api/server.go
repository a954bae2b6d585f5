// Package api provides the HTTP REST API for the SocialProof AI subsystem.
//
// Endpoints:
//
//	POST /api/scenarios/generate  →  generate a training scenario
//	POST /api/guardian/query      →  ask the Digital Guardian
//	POST /api/corpus/reload       →  rebuild the knowledge index
//	GET  /api/ai/provider         →  provider status snapshot
//	GET  /api/ai/validate         →  configuration validation report
//	GET  /health                  →  liveness probe
//	GET  /ready                   →  readiness probe
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - health.go: health check endpoints (/health, /ready)
//   - scenario.go: scenario generation endpoint
//   - guardian.go: Digital Guardian endpoint
//   - status.go: provider status, validation and corpus reload
//   - response.go: JSON response helpers
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/socialproof/socialproof/internal/engine"
	"github.com/socialproof/socialproof/internal/guardian"
	"github.com/socialproof/socialproof/internal/scenario"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:8420"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	// This prevents Slowloris attacks (CWE-400).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generation requests can take a while against slow providers.
	WriteTimeout = 120 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Engine is the AI subsystem surface the API serves.
// *engine.Engine satisfies this interface.
type Engine interface {
	GenerateScenario(ctx context.Context, playerID string, skill float64, scenarioType string) (scenario.Result, string)
	AskGuardian(ctx context.Context, question string) (guardian.Answer, error)
	ProviderStatus() engine.Status
	Validate() engine.Report
	ReloadCorpus(ctx context.Context) error
}

// Server is the HTTP server for the REST API.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger

	// Handlers
	health   *HealthHandler
	scenario *ScenarioHandler
	guardian *GuardianHandler
	status   *StatusHandler
}

// NewServer creates a new HTTP server with all routes registered.
// pool may be nil when persistence is disabled.
func NewServer(e Engine, pool *pgxpool.Pool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	s := &Server{
		mux:      mux,
		logger:   logger,
		health:   NewHealthHandler(pool, logger),
		scenario: NewScenarioHandler(e, logger),
		guardian: NewGuardianHandler(e, logger),
		status:   NewStatusHandler(e, logger),
	}

	s.health.RegisterRoutes(mux)
	s.scenario.RegisterRoutes(mux)
	s.guardian.RegisterRoutes(mux)
	s.status.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
