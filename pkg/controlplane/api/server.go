// Package api provides the HTTP surface of the repository: the handshake
// endpoints, the envelope-wrapped session endpoints, and the public blob
// download.
package api

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/docrep/docrep/internal/logger"
	"github.com/docrep/docrep/pkg/metrics"
	"github.com/docrep/docrep/pkg/repository/service"
	"github.com/docrep/docrep/pkg/session"
)

// Server provides the repository HTTP server.
//
// The server supports graceful shutdown with configurable timeout.
type Server struct {
	server       *http.Server
	svc          *service.Service
	registry     *session.Registry
	config       APIConfig
	shutdownOnce sync.Once
}

// NewServer creates a new API HTTP server.
//
// The server is created in a stopped state. Call Start() to begin serving
// requests.
//
// Parameters:
//   - config: Server configuration (listen address, timeouts, body cap)
//   - svc: Repository service layer
//   - registry: Live session registry shared with the expiry sweeper
//   - serverKey: The server's long-term signing key
//   - m: API metrics, may be nil
func NewServer(config APIConfig, svc *service.Service, registry *session.Registry, serverKey *ecdsa.PrivateKey, m metrics.APIMetrics) *Server {
	config.ApplyDefaults()

	router := NewRouter(svc, registry, serverKey, m)

	server := &http.Server{
		Addr:         config.Addr(),
		Handler:      http.MaxBytesHandler(router, int64(config.MaxBodySize)),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		server:   server,
		svc:      svc,
		registry: registry,
		config:   config,
	}
}

// Start starts the API HTTP server and blocks until the context is cancelled
// or an error occurs.
//
// When the context is cancelled, Start initiates graceful shutdown and returns.
//
// Returns:
//   - nil on graceful shutdown
//   - error if the server fails to start or shutdown encounters an error
func (s *Server) Start(ctx context.Context) error {
	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("API server listening", "addr", s.config.Addr())

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
				// Context was cancelled, error is not needed
			}
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		logger.Info("API server shutdown signal received")
		// Create new context with timeout for graceful shutdown
		// Don't use the cancelled ctx as it would cause immediate shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("API server failed: %w", err)
	}
}

// Stop initiates graceful shutdown of the API server.
//
// Stop is safe to call multiple times and safe to call concurrently with Start().
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		logger.Debug("API server shutdown initiated")

		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
			logger.Error("API server shutdown error", "error", err)
		} else {
			logger.Info("API server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is configured to listen on.
func (s *Server) Port() int {
	return s.config.Port
}
