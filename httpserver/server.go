// Package httpserver exposes the chat agent over HTTP: one POST /chat
// endpoint plus a health route and optional static frontend hosting.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kitchenagent"
)

// Server holds the gin engine and its dependencies.
type Server struct {
	gin       *gin.Engine
	handler   kitchenagent.TurnHandler
	addr      string
	staticDir string
}

// Config is the dependency bag passed to New().
type Config struct {
	Addr      string
	Mode      string
	StaticDir string
	Handler   kitchenagent.TurnHandler
}

// New creates a new Server instance and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Handler == nil {
		return nil, errors.New("turn handler is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	srv := &Server{
		gin:       gin.New(),
		handler:   cfg.Handler,
		addr:      cfg.Addr,
		staticDir: cfg.StaticDir,
	}
	srv.registerMiddlewares()
	srv.registerRoutes()
	return srv, nil
}

func (s *Server) registerMiddlewares() {
	s.gin.Use(gin.Recovery())
	s.gin.Use(requestID())
}

func (s *Server) registerRoutes() {
	s.gin.GET("/health", s.handleHealth)
	s.gin.POST("/chat", s.handleChat)

	// The frontend is served from the same origin when present; its contents
	// are not part of the core contract.
	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			s.gin.StaticFile("/", s.staticDir+"/index.html")
			s.gin.Static("/static", s.staticDir)
			slog.Info("SERVER: Static frontend registered", "dir", s.staticDir)
		} else {
			slog.Info("SERVER: Static dir not found, skipping frontend", "dir", s.staticDir)
		}
	}
}

// Handler exposes the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:    s.addr,
		Handler: s.gin,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("SERVER: Listening", "addr", s.addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// requestID tags every request with an id for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}
