package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-reversi/internal/config"
	"github.com/vovakirdan/tui-reversi/internal/platform/tui"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

// logFileName is written next to the game database while a TUI owns the terminal.
const logFileName = "reversi.log"

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a local game",
	Long: `Start a local game in the given mode, or in game.mode from the config.

Modes:
  single   - You play Black against the computer
  hotseat  - Two players share the keyboard

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Place a disk
  U            - Undo
  N            - New game
  ?            - Full help
  Esc/B        - Back to menu
  Q/Ctrl+C     - Quit

Examples:
  reversi play
  reversi play hotseat
  reversi play single --config ./reversi.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a game you return to the menu to play again.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runTUI(cfg, "")
	},
}

func runPlay(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode := cfg.Game.Mode
	if len(args) == 1 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'reversi list' to see available modes", mode)
	}
	return runTUI(cfg, mode)
}

// runTUI runs the local app, opening a board in mode or the menu if mode is empty.
func runTUI(cfg config.Config, mode string) error {
	logger, closeLog := tuiLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return tui.Run(tui.AppConfig{
		Username:  os.Getenv("USER"),
		Options:   gameOptions(cfg, logger),
		Store:     store,
		Logger:    logger,
		StartMode: mode,
	}, width, height)
}

// tuiLogger logs to a file, since the program owns the terminal while it runs.
// It discards output if the file cannot be opened.
func tuiLogger(cfg config.Config) (*log.Logger, func()) {
	dbPath, err := config.ExpandHome(cfg.Storage.DBPath)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "reversi",
		Level:           cfg.LogLevel(),
	})
	return logger, func() { _ = f.Close() }
}
