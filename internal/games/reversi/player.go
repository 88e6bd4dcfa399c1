package reversi

import (
	"fmt"
	"strings"
)

// Player identifies one of the two sides.
type Player int

const (
	Black Player = iota
	White
)

// DiskCountStart is the number of disks each player may place in a game.
const DiskCountStart = 32

// Players lists both sides in a fixed order.
var Players = [2]Player{Black, White}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		panic(fmt.Sprintf("reversi: unhandled player %d", int(p)))
	}
}

// String returns the display name ("Black" or "White").
func (p Player) String() string {
	switch p {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return fmt.Sprintf("Player(%d)", int(p))
	}
}

// MarshalText encodes the player as "BLACK" or "WHITE".
func (p Player) MarshalText() ([]byte, error) {
	switch p {
	case Black, White:
		return []byte(strings.ToUpper(p.String())), nil
	default:
		return nil, fmt.Errorf("reversi: cannot encode player %d", int(p))
	}
}

// UnmarshalText decodes a player name, case-insensitively.
func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePlayer parses "black" or "white" in any case.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	default:
		return Black, fmt.Errorf("reversi: unknown player %q", s)
	}
}

// index returns the slot of the player in per-player arrays.
func (p Player) index() int {
	switch p {
	case Black:
		return 0
	case White:
		return 1
	default:
		panic(fmt.Sprintf("reversi: unhandled player %d", int(p)))
	}
}

// Phase is the lifecycle stage of a game.
type Phase int

const (
	// PhaseWaiting means the game exists but has not started (networked play only).
	PhaseWaiting Phase = iota
	// PhaseRunning means moves are accepted.
	PhaseRunning
	// PhaseFinished means the outcome is fixed.
	PhaseFinished
	// PhaseDisconnected means the game was aborted from outside.
	PhaseDisconnected
)

var phaseNames = map[Phase]string{
	PhaseWaiting:      "WAITING",
	PhaseRunning:      "RUNNING",
	PhaseFinished:     "FINISHED",
	PhaseDisconnected: "DISCONNECTED",
}

// String returns the upper-case phase name.
func (ph Phase) String() string {
	if name, ok := phaseNames[ph]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", int(ph))
}

// MarshalText encodes the phase name.
func (ph Phase) MarshalText() ([]byte, error) {
	name, ok := phaseNames[ph]
	if !ok {
		return nil, fmt.Errorf("reversi: cannot encode phase %d", int(ph))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a phase name, case-insensitively.
func (ph *Phase) UnmarshalText(text []byte) error {
	want := strings.ToUpper(strings.TrimSpace(string(text)))
	for p, name := range phaseNames {
		if name == want {
			*ph = p
			return nil
		}
	}
	return fmt.Errorf("reversi: unknown phase %q", string(text))
}
