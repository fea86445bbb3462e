package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/dragonboard/pkg/config"
	"github.com/wonny/dragonboard/pkg/logger"
)

// Server represents the HTTP API server
// ⭐ SSOT: API 服务器设置只在这个文件
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

// New creates a new API server. The write timeout covers a full leaderboard
// lookback on cold cache.
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	writeTimeout := 15 * time.Second
	if lookback := time.Duration(cfg.Ranking.LookbackDays) * cfg.Eastmoney.Timeout; lookback+5*time.Second > writeTimeout {
		writeTimeout = lookback + 5*time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.WithFields(map[string]interface{}{
		"port": s.config.Port,
		"env":  s.config.Env,
	}).Info("Starting API server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
