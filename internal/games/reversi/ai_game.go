package reversi

import (
	"io"

	"github.com/charmbracelet/log"
)

// CellChooser picks a move for the player to move in the given state.
// The state is a private copy the chooser may mutate.
type CellChooser interface {
	DetermineCell(s *GameState) (Cell, bool)
}

// AIPlayer is the side played by the computer. The human always opens as Black.
const AIPlayer = White

// AIGame is an engine in which the computer answers every human move in the same call.
type AIGame struct {
	*Reversi

	chooser CellChooser
	logger  *log.Logger
}

// NewAIGame wraps a fresh engine. A nil logger discards output.
func NewAIGame(chooser CellChooser, logger *log.Logger, opts ...Option) *AIGame {
	if chooser == nil {
		panic("reversi: nil cell chooser")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &AIGame{
		Reversi: New(opts...),
		chooser: chooser,
		logger:  logger,
	}
}

// Move applies the human move and then lets the computer reply, repeatedly if the human
// has to skip. It returns false only if the human move itself was rejected.
func (g *AIGame) Move(to Cell) bool {
	if !g.Reversi.Move(to) {
		return false
	}
	g.playAITurns()
	return true
}

func (g *AIGame) playAITurns() {
	for {
		s := g.Reversi.State()
		if s.Phase() != PhaseRunning || s.CurrentPlayer() != AIPlayer {
			return
		}

		cell, ok := g.chooser.DetermineCell(s)
		if !ok {
			g.logger.Debug("computer has no move", "moveCounter", s.MoveCounter())
			return
		}
		if !g.Reversi.Move(cell) {
			g.logger.Warn("computer move rejected", "cell", cell.Notation())
			return
		}
		g.logger.Debug("computer moved", "cell", cell.Notation(), "moveCounter", s.MoveCounter()+1)
	}
}

// UndoMove takes back moves until it is the human's turn again, so the human move and the
// computer reply are undone together. If the history runs out on the computer's turn, as
// after SetState, the computer moves again. Panics if there is no move to undo.
func (g *AIGame) UndoMove() {
	g.Reversi.UndoMove()
	for g.Reversi.CanUndo() && g.Reversi.State().CurrentPlayer() == AIPlayer {
		g.Reversi.UndoMove()
	}
	g.playAITurns()
}
