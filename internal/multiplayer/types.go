// Package multiplayer provides lobbies and matches for online Reversi between two sessions.
// It is transport-neutral: sessions are reached through SessionHandle, and the coordinator
// is driven by messages.
package multiplayer

import (
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// MatchID uniquely identifies a game match.
type MatchID string

// NewMatchID returns a fresh random match identifier.
func NewMatchID() MatchID {
	return MatchID(uuid.NewString())
}

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Sides in an online match. The host opens.
const (
	HostSide   = reversi.Black
	JoinerSide = reversi.White
)
