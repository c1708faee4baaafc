package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"postcraft/internal/config"
	"postcraft/internal/core"
	"postcraft/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Generator runs the post generation pipeline.
type Generator interface {
	Generate(ctx context.Context, product core.Product, opts core.GenerateOptions) (*core.GenerateResult, error)
}

// Researcher runs a market research pass.
type Researcher interface {
	SearchWeb(ctx context.Context, query string, maxResults int) (*core.WebResearchData, error)
}

// Server represents the HTTP server
type Server struct {
	router          *chi.Mux
	httpServer      *http.Server
	generator       Generator
	researcher      Researcher
	defaultTimezone string
	generateTimeout time.Duration
	log             *slog.Logger
}

// New creates a new HTTP server instance
func New(generator Generator, researcher Researcher, cfg *config.Config) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		generator:       generator,
		researcher:      researcher,
		defaultTimezone: cfg.Scheduling.DefaultTimezone,
		generateTimeout: parseDurationOr(cfg.Generation.Timeout, 30*time.Second),
		log:             logger.Get(),
	}

	s.setupMiddleware(cfg.Server)
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  parseDurationOr(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: parseDurationOr(cfg.Server.WriteTimeout, 45*time.Second),
	}

	return s
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware(cfg config.Server) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// The generation pipeline owns its own 30s deadline; this is the outer cap
	s.router.Use(middleware.Timeout(60 * time.Second))

	if cfg.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/calendar", s.handleCalendar)
		r.Get("/optimal-times/{platform}", s.handleOptimalTimes)
		r.Post("/research", s.handleResearch)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("Starting HTTP server",
		"addr", s.httpServer.Addr,
		"read_timeout", s.httpServer.ReadTimeout,
		"write_timeout", s.httpServer.WriteTimeout,
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}

// parseDurationOr parses a duration string, falling back on empty or invalid
// input. Config validation catches bad values earlier; this keeps zero-value
// configs usable in tests.
func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
