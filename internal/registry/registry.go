// Package registry provides a global registry for game modes.
// Modes register themselves in init() functions, allowing the platform
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

// Game is what the platform drives: a Reversi engine, optionally with a computer
// opponent answering inside Move.
type Game interface {
	// NewGame resets to the starting position and clears the undo history.
	NewGame()

	// Move applies a move for the current player. Returns false if it was rejected.
	Move(to reversi.Cell) bool

	// UndoMove takes back the last turn. Panics if CanUndo is false.
	UndoMove()

	// CanUndo reports whether UndoMove has anything to take back.
	CanUndo() bool

	// State returns a snapshot of the current game state.
	State() *reversi.GameState

	// PossibleMovesForPlayer returns the legal cells for the player.
	PossibleMovesForPlayer(p reversi.Player) []reversi.Cell

	// Events returns the change-notification channel, or nil if disabled.
	Events() <-chan reversi.Event
}

// Options tune a mode instance.
type Options struct {
	// LookAhead is the search depth of the computer player. Zero means the default.
	LookAhead int

	// EventBuffer enables engine events with the given buffer size. Zero disables them.
	EventBuffer int

	// Logger receives debug output from the computer player. Nil discards it.
	Logger *log.Logger
}

// EngineOptions converts the options relevant to the bare engine.
func (o Options) EngineOptions() []reversi.Option {
	if o.EventBuffer > 0 {
		return []reversi.Option{reversi.WithEvents(o.EventBuffer)}
	}
	return nil
}

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a mode.
type Factory func(Options) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from an init() function.
// Panics if a mode with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns information about all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ModeInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new game in the given mode.
// Returns an error if the mode ID is not registered.
func Create(id string, opts Options) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(opts), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Title returns the display title of a mode, or the ID itself if unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	if t, ok := titles[id]; ok {
		return t
	}
	return id
}
