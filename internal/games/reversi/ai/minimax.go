package ai

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

// DefaultLookAhead is the search depth in plies.
const DefaultLookAhead = 3

// Minimax chooses moves by a depth-limited minimax search. The player to move when the
// search starts is maximized; its opponent is minimized.
//
// A Minimax value holds no per-search state and may be shared between games.
type Minimax struct {
	lookAhead int
	logger    *log.Logger
}

// MinimaxOption configures a Minimax.
type MinimaxOption func(*Minimax)

// WithLookAhead sets the search depth. Values below 1 are ignored.
func WithLookAhead(depth int) MinimaxOption {
	return func(m *Minimax) {
		if depth >= 1 {
			m.lookAhead = depth
		}
	}
}

// WithLogger enables debug output of the chosen move and its score breakdown.
func WithLogger(logger *log.Logger) MinimaxOption {
	return func(m *Minimax) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMinimax creates a search with DefaultLookAhead unless overridden.
func NewMinimax(opts ...MinimaxOption) *Minimax {
	m := &Minimax{
		lookAhead: DefaultLookAhead,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LookAhead returns the configured depth.
func (m *Minimax) LookAhead() int {
	return m.lookAhead
}

// DetermineCell returns the best cell for the player to move, or false when the game is
// not running or the player has no legal move. The given state is not modified.
func (m *Minimax) DetermineCell(s *reversi.GameState) (reversi.Cell, bool) {
	if s.Phase() != reversi.PhaseRunning {
		return reversi.Cell{}, false
	}

	player := s.CurrentPlayer()
	sc := &search{
		engine:    reversi.FromState(s.Clone()),
		human:     player.Opponent(),
		lookAhead: m.lookAhead,
		evaluate:  Evaluate,
	}
	value := sc.max(player, 0)
	if !sc.found {
		return reversi.Cell{}, false
	}

	if m.logger.GetLevel() <= log.DebugLevel {
		m.logger.Debug("search finished",
			"player", player,
			"cell", sc.best.Notation(),
			"value", value,
			"breakdown", Breakdown(s, sc.human, 1))
	}
	return sc.best, true
}

// search is the scratch state of one DetermineCell call.
type search struct {
	engine    *reversi.Reversi
	human     reversi.Player
	lookAhead int
	evaluate  func(s *reversi.GameState, human reversi.Player, depth int) float64

	best  reversi.Cell
	found bool
}

func (sc *search) score(depth int) (float64, *reversi.GameState) {
	s := sc.engine.State()
	return sc.evaluate(s, sc.human, depth), s
}

func (sc *search) max(p reversi.Player, depth int) float64 {
	current, s := sc.score(depth)
	if s.Phase() == reversi.PhaseFinished || depth >= sc.lookAhead {
		return current
	}
	if s.CurrentPlayer() != p {
		// p has to skip. The opponent moves on in the same role.
		return sc.max(p.Opponent(), depth+1) + current
	}

	best := -math.MaxFloat64
	for _, c := range reversi.PossibleMoves(s, p) {
		if !sc.engine.Move(c) {
			continue
		}
		value := sc.min(p.Opponent(), depth+1) + current
		sc.engine.UndoMove()

		if value > best {
			best = value
			if depth == 0 {
				sc.best, sc.found = c, true
			}
		}
	}
	return best
}

func (sc *search) min(p reversi.Player, depth int) float64 {
	current, s := sc.score(depth)
	if s.Phase() == reversi.PhaseFinished || depth >= sc.lookAhead {
		return current
	}
	if s.CurrentPlayer() != p {
		return sc.min(p.Opponent(), depth+1) + current
	}

	best := math.MaxFloat64
	for _, c := range reversi.PossibleMoves(s, p) {
		if !sc.engine.Move(c) {
			continue
		}
		value := sc.max(p.Opponent(), depth+1) + current
		sc.engine.UndoMove()

		if value < best {
			best = value
		}
	}
	return best
}
