package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/reversi.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
// It mirrors defaults/reversi.yaml and is used if the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Game: GameConfig{
			Mode: ModeSingle,
		},
		AI: AIConfig{
			LookAhead: 3,
		},
		Server: ServerConfig{
			SSHAddr:     ":2222",
			HostKey:     ".ssh/reversi_ed25519",
			IdleTimeout: 10 * time.Minute,
			HTTPAddr:    ":8080",
		},
		Storage: StorageConfig{
			DBPath: "~/.reversi/games.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
