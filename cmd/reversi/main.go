// reversi plays 8x8 Reversi in the terminal, over SSH, or through an HTTP API.
//
// Usage:
//
//	reversi list              - List game modes
//	reversi play [mode]       - Play a local game (single or hotseat)
//	reversi menu              - Start the menu to pick a mode interactively
//	reversi shell             - Line-oriented text shell
//	reversi serve             - Start SSH server for remote and online play
//	reversi api               - Start the HTTP API
//	reversi history           - Show recently finished games
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.reversi/config.yaml, ./configs/reversi.yaml)
//	--db <path>         - Game history database (overrides storage.db_path)
//	--log-level <lvl>   - debug, info, warn or error (overrides log.level)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reversi/internal/config"
	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/storage"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-reversi/internal/games/modes"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reversi",
	Short: "Reversi - play Othello-style Reversi in your terminal",
	Long: `Reversi is the classic 8x8 disk-flipping game for the terminal.

Play against a minimax computer opponent or a friend on the same keyboard,
host games for others over SSH, or drive games through an HTTP API.

Available commands:
  list     - Show all game modes
  play     - Play a local game directly
  menu     - Interactive mode picker menu
  shell    - Text shell (NEW, MOVE, UNDO, PRINT, MOVES, HELP, QUIT)
  serve    - Start SSH server for remote and online play
  api      - Start the HTTP API
  history  - View finished games

Examples:
  reversi list
  reversi play single
  reversi shell
  reversi serve
  reversi api --http :8080
  reversi history --limit 20`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to game history database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger creates the process logger on stderr.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}

// openStore opens the history database. Failure is not fatal: play continues
// without recording games.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("could not open game database", "path", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// gameOptions derives the mode options from the config.
func gameOptions(cfg config.Config, logger *log.Logger) registry.Options {
	return registry.Options{
		LookAhead: cfg.AI.LookAhead,
		Logger:    logger,
	}
}
