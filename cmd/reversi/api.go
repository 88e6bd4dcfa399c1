package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	apihttp "github.com/vovakirdan/tui-reversi/internal/api/http"
	"github.com/vovakirdan/tui-reversi/internal/store"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API",
	Long: `Serve games over HTTP. Games live in memory until the server stops.

Endpoints:
  POST   /games               {"mode":"single"|"hotseat"}
  GET    /games/:id
  DELETE /games/:id
  GET    /games/:id/moves     ?player=black|white
  POST   /games/:id/moves     {"cell":"D3"}
  POST   /games/:id/undo
  GET    /games/:id/ws        websocket stream of state changes
  GET    /modes
  GET    /metrics             Prometheus metrics

Examples:
  reversi api
  reversi api --http :9090`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (default from config)")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagHTTPAddr != "" {
		cfg.Server.HTTPAddr = flagHTTPAddr
	}
	logger := newLogger(cfg, "reversi-api")
	if cfg.LogLevel() != log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := apihttp.NewServer(store.NewMemoryStore(), gameOptions(cfg, logger), cfg.Game.Mode, logger)
	return server.ListenAndServe(ctx, cfg.Server.HTTPAddr)
}
