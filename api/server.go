package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/registry"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	registry   *registry.Registry
	logger     themeprefs.Logger
	router     *chi.Mux
	httpServer *http.Server
}

// Config holds configuration for the API server.
type Config struct {
	ListenAddress string
	Registry      *registry.Registry
	Logger        themeprefs.Logger
}

// NewServer creates and configures a new API server instance.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("%w: registry is required", themeprefs.ErrInvalidInput)
	}
	if cfg.Logger == nil {
		cfg.Logger = themeprefs.NewDefaultLogger()
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}

	s := &Server{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		router:   chi.NewRouter(),
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: s.router,
		// Configure timeouts to prevent resource exhaustion
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until it is shut down.
// It returns nil after a graceful Stop.
func (s *Server) Start() error {
	s.logger.Info("API server starting", "address", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("API server stopping")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped gracefully")
	return nil
}
