package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plughost/credhub/internal/auth"
	"github.com/plughost/credhub/internal/config"
	"github.com/plughost/credhub/internal/registry"
	"github.com/plughost/credhub/internal/server/handlers"
	"github.com/plughost/credhub/internal/server/middleware"
)

// HandlerSet contains all HTTP handlers
type HandlerSet struct {
	Health          http.HandlerFunc
	Metrics         http.HandlerFunc
	Whoami          http.HandlerFunc
	ListProviders   http.HandlerFunc
	ProviderOptions http.HandlerFunc

	// Credential handlers
	SaveCredential   http.HandlerFunc
	ReadCredential   http.HandlerFunc
	DeleteCredential http.HandlerFunc
}

// Server represents the HTTP server
type Server struct {
	config        *config.Config
	logger        *slog.Logger
	registry      *registry.Registry
	authenticator auth.Authenticator
	metrics       *handlers.MetricsHandler
	httpServer    *http.Server
	handlers      HandlerSet
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *slog.Logger, reg *registry.Registry, authenticator auth.Authenticator, metrics *handlers.MetricsHandler) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		registry:      reg,
		authenticator: authenticator,
		metrics:       metrics,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server",
		"host", s.config.Server.Host,
		"port", s.config.Server.Port,
		"provider", s.config.Provider.Name,
		"provider_uri", s.config.Provider.URI,
		"auth_type", s.config.Auth.Type)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("Shutdown signal received", "signal", sig.String())
		return s.Shutdown()
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.logger.Info("Initiating graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server shutdown failed", "error", err)
		return err
	}

	if err := s.registry.Close(); err != nil {
		s.logger.Error("Provider close failed", "error", err)
		return err
	}

	s.logger.Info("Server stopped gracefully")
	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware (applied to all routes)
	router.Use(middleware.Logging(s.logger, s.metrics))
	router.Use(middleware.NewRateLimiter(100, s.config.Server.TrustProxyHeaders, s.metrics)) // 100 req/min per IP
	router.Use(middleware.CORS())

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		// Health and metrics endpoints (no auth required)
		if s.handlers.Health != nil {
			r.Get("/health", s.handlers.Health)
		}
		if s.handlers.Metrics != nil {
			r.Get("/metrics", s.handlers.Metrics)
		}

		// Whoami endpoint (auth required)
		if s.handlers.Whoami != nil {
			r.Get("/whoami", s.handlers.Whoami)
		}

		// Provider listing (no auth required, names only)
		if s.handlers.ListProviders != nil {
			r.Get("/provider", s.handlers.ListProviders)
		}
		if s.handlers.ProviderOptions != nil {
			r.Options("/provider", s.handlers.ProviderOptions)
		}

		// Credential endpoints. Reads carry secrets, so every method
		// requires auth.
		r.Route("/namespace/{namespace}/credential/{id}", func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.authenticator, s.metrics))

			if s.handlers.SaveCredential != nil {
				r.Put("/", s.handlers.SaveCredential)
			}
			if s.handlers.ReadCredential != nil {
				r.Get("/", s.handlers.ReadCredential)
			}
			if s.handlers.DeleteCredential != nil {
				r.Delete("/", s.handlers.DeleteCredential)
			}
		})
	})

	return router
}

// SetHandlers sets all handlers (called from main to avoid import cycle)
func (s *Server) SetHandlers(handlers HandlerSet) {
	s.handlers = handlers
}
