package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reversi/internal/platform/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Play in a line-oriented text shell",
	Long: `Start the text shell. Commands are case-insensitive:

  NEW HOTSEAT|SINGLE   start a game
  MOVE D3              place a disk for the current player
  UNDO                 take back the last turn
  PRINT                show the board
  MOVES                list legal moves
  HELP                 list the commands
  QUIT                 leave the shell

Example:
  echo "NEW HOTSEAT
  MOVE D4
  PRINT" | reversi shell`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, "reversi-shell")

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := shell.New(gameOptions(cfg, logger), store, logger)
	if err := sh.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
