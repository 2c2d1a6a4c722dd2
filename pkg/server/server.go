package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"helios-labs/prism/pkg/adapters"
	"helios-labs/prism/pkg/config"
	"helios-labs/prism/pkg/telemetry/metrics"
	"helios-labs/prism/pkg/usage"
)

// AdapterSource is the slice of the registry the server reads from.
type AdapterSource interface {
	GetAllAdapters() []adapters.Adapter
	GetAvailableAdapters() []adapters.Adapter
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes the Prometheus registry on /metrics.
func WithMetrics(m *metrics.AdapterMetrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithUsageTracker exposes usage totals on /usage.
func WithUsageTracker(u *usage.Tracker) Option {
	return func(s *Server) { s.usage = u }
}

// WithVersion sets the build information served on /version.
func WithVersion(v VersionInfo) Option {
	return func(s *Server) { s.version = v }
}

// Server is the telemetry HTTP server run by "prism serve". It exposes
// health, adapter status, usage, and metrics endpoints; it does not proxy
// generation traffic.
type Server struct {
	cfg     config.ServerConfig
	source  AdapterSource
	logger  *slog.Logger
	metrics *metrics.AdapterMetrics
	usage   *usage.Tracker
	version VersionInfo

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a telemetry server reading adapter state from source.
func New(cfg config.ServerConfig, source AdapterSource, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:          cfg,
		source:       source,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the HTTP server and blocks until ctx is cancelled, Shutdown
// is called, or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	// Built under the lock so Shutdown never observes isRunning without a
	// server to stop.
	s.httpServer = &http.Server{
		Addr:         s.cfg.Listen,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("telemetry server starting",
			"address", s.cfg.Listen,
			"metrics", s.metrics != nil,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, waiting up to the configured
// shutdown timeout for in-flight requests. It also wakes a blocked Start;
// only the first call does work.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		close(s.shutdownChan)

		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.cfg.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("telemetry server stopped")
	})

	return shutdownErr
}

// setupRoutes configures the HTTP routes.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/adapters", s.handleAdapters)
	mux.HandleFunc("/version", s.handleVersion)

	if s.usage != nil {
		mux.HandleFunc("/usage", s.handleUsage)
	}
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}

	return mux
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
