// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware and routes,
// and owns the lifecycle of the listening socket.
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//   Runner (docker/local/none) → ExecutionService ┐
//   Canned responder           → AdvisoryService  ├→ server.New → handlers → routes
//   prometheus.Registry        → PrometheusObserver┘
//
// The server never constructs a backend itself, so tests can hand it services
// built on fakes and drive it through Handler().
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/code-editor/internal/handler"
	"github.com/sakif/code-editor/internal/middleware"
)

// Config holds server configuration.
type Config struct {
	Port int
	// Backend names the execution backend for /healthz.
	Backend string
	// WriteTimeout must outlast the executor timeout plus sandbox overhead.
	WriteTimeout time.Duration
}

// Services are the business-layer dependencies the routes call into.
type Services struct {
	Executor handler.Executor
	Advisor  handler.Advisor
	// Metrics is served on /metrics when non-nil.
	Metrics prometheus.Gatherer
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New creates a new Server and registers every route.
func New(cfg Config, svc Services, logger *slog.Logger) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	if cfg.Backend == "" {
		cfg.Backend = "none"
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}
	s.setupRoutes(svc)
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// POST   /api/execute             → Run code, return captured events (JSON)
// POST   /api/advise              → Advisory response for an AI action (JSON)
// GET    /api/languages           → Language selector catalogue (JSON)
// GET    /api/languages/{value}   → One catalogue entry (JSON)
// GET    /healthz                 → Liveness and configured backend
// GET    /metrics                 → Prometheus exposition
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (for tracing)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Recoverer: catches panics and returns 500 instead of crashing
// 4. Logger: logs each request with timing info
func (s *Server) setupRoutes(svc Services) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Get("/healthz", handler.HandleHealth(s.config.Backend))

	if svc.Metrics != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(svc.Metrics, promhttp.HandlerOpts{}))
	}

	executeHandler := handler.NewExecuteHandler(svc.Executor, s.logger)
	adviseHandler := handler.NewAdviseHandler(svc.Advisor, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/execute", executeHandler.HandleExecute)
		r.Post("/advise", adviseHandler.HandleAdvise)
		r.Get("/languages", handler.HandleLanguages)
		r.Get("/languages/{value}", handler.HandleLanguage)
	})
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight executions to finish (30s timeout)
// The caller closes the execution backend once Start returns.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("backend", s.config.Backend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
