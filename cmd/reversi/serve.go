package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-reversi/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Reversi SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a menu. Players on different
connections can meet online: one hosts a game and shares the lobby code,
the other joins with it. Finished games are recorded in the shared database.

Host key handling:
  - Uses server.host_key from the config, or --host-key
  - The key is generated on first start

Examples:
  reversi serve                           # Listen on server.ssh_addr (:2222)
  reversi serve --ssh :23234              # Listen on port 23234
  reversi serve --host-key ./my_host_key  # Use specific host key
  reversi serve --db ./games.db           # Use specific database

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (default from config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.Server.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = flagIdleTimeout
	}

	logger := newLogger(cfg, "reversi-ssh")
	store := openStore(cfg, logger)

	server, err := tui.NewSSHServer(tui.SSHServerConfigFrom(cfg), store, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting Reversi SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
