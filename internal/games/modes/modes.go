// Package modes registers the playable Reversi modes with the registry.
// Import it for its side effects.
package modes

import (
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi/ai"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

const (
	// Hotseat is two humans sharing one terminal.
	Hotseat = "hotseat"
	// Single is a human playing Black against the computer.
	Single = "single"
)

func init() {
	registry.Register(Hotseat, "Hotseat (two players)", func(o registry.Options) registry.Game {
		return reversi.New(o.EngineOptions()...)
	})
	registry.Register(Single, "Single player vs CPU", func(o registry.Options) registry.Game {
		search := ai.NewMinimax(ai.WithLookAhead(o.LookAhead), ai.WithLogger(o.Logger))
		return reversi.NewAIGame(search, o.Logger, o.EngineOptions()...)
	})
}
