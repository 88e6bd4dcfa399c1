// Package config provides YAML-based configuration loading for the Reversi platform.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	AI      AIConfig      `yaml:"ai"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig selects the default game mode.
type GameConfig struct {
	Mode string `yaml:"mode"` // "single" or "hotseat"
}

// AIConfig tunes the computer player.
type AIConfig struct {
	LookAhead int `yaml:"lookahead"`
}

// ServerConfig holds the SSH and HTTP listener settings.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	HTTPAddr    string        `yaml:"http_addr"`
}

// StorageConfig locates the game history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig sets the log verbosity.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Known game modes.
const (
	ModeSingle  = "single"
	ModeHotseat = "hotseat"
)

// maxLookAhead bounds the search depth; deeper searches stall interactive play.
const maxLookAhead = 6

// Validate checks every field and reports the first problem.
func (c Config) Validate() error {
	switch c.Game.Mode {
	case ModeSingle, ModeHotseat:
	default:
		return fmt.Errorf("%w: game.mode %q (want %s or %s)", ErrInvalid, c.Game.Mode, ModeSingle, ModeHotseat)
	}
	if c.AI.LookAhead < 1 || c.AI.LookAhead > maxLookAhead {
		return fmt.Errorf("%w: ai.lookahead %d (want 1-%d)", ErrInvalid, c.AI.LookAhead, maxLookAhead)
	}
	if c.Server.SSHAddr == "" {
		return fmt.Errorf("%w: server.ssh_addr is empty", ErrInvalid)
	}
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("%w: server.http_addr is empty", ErrInvalid)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("%w: server.idle_timeout %s is negative", ErrInvalid, c.Server.IdleTimeout)
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("%w: storage.db_path is empty", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
