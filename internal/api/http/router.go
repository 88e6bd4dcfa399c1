// Package http serves Reversi games over a REST API with a websocket event stream and
// Prometheus metrics.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown.
const shutdownTimeout = 10 * time.Second

// Server holds the API dependencies.
type Server struct {
	games       *store.MemoryStore
	opts        registry.Options
	defaultMode string
	logger      *log.Logger
}

// NewServer creates the API. defaultMode is used when a create request names no mode.
func NewServer(games *store.MemoryStore, opts registry.Options, defaultMode string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Server{
		games:       games,
		opts:        opts,
		defaultMode: defaultMode,
		logger:      logger,
	}
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "games": s.games.Count()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/modes", s.ModesHandler)

	// --- GAME ENDPOINTS ---
	games := r.Group("/games")
	games.POST("", s.CreateGameHandler)
	games.GET("/:id", s.GetGameHandler)
	games.DELETE("/:id", s.DeleteGameHandler)
	games.GET("/:id/moves", s.PossibleMovesHandler)
	games.POST("/:id/moves", s.MoveHandler)
	games.POST("/:id/undo", s.UndoHandler)

	// WebSocket for live state updates
	games.GET("/:id/ws", s.EventsHandler)

	return r
}

// requestLogger logs every request at debug level, and server errors at error level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	}
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts down
// gracefully and removes all games.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP API", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, failed := <-errCh:
		if failed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Close event streams first; hijacked websocket connections are not tracked by Shutdown.
	s.games.Close()
	return srv.Shutdown(shutdownCtx)
}
