// Package http provides the keep-alive HTTP surface. The reconciliation
// modes run to completion on their own; this server only keeps the process
// alive and answerable on hosting platforms that expect a listener.
package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/infrastructure/config"
	"github.com/dropsync/backend/internal/infrastructure/logger"
)

// NewEngine builds the gin engine with the standard middleware stack and the
// liveness endpoints.
func NewEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s is running", cfg.App.Name)
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return engine
}

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	srv *http.Server
	log *zap.Logger
}

// NewServer creates the keep-alive server from configuration.
func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         ":" + cfg.App.Port,
			Handler:      NewEngine(cfg, log),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		log: log,
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	s.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}

	s.log.Info("Server exited gracefully")
	return nil
}
