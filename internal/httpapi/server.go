// Package httpapi serves the chat API, the MCP endpoint and health checks.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Yoseph10/AgentAI-JobSearch/pkg/logging"
)

type Config struct {
	Host string
	Port string
}

// NewEngine builds the gin engine with routes registered.
// mcpHandler is mounted at /mcp/stream when not nil.
func NewEngine(h *Handler, mcpHandler http.Handler, logger *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(RequestID(), Logging(logger), Recovery(logger))

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	if mcpHandler != nil {
		engine.Any("/mcp/stream", gin.WrapH(mcpHandler))
	}

	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

// Server wraps the engine with an HTTP listener
type Server struct {
	logger *logging.Logger

	srv     *http.Server
	started atomic.Bool
}

func NewServer(cfg Config, handler http.Handler, logger *logging.Logger) *Server {
	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
