// Package ai implements the computer player: a fixed set of board heuristics and a
// depth-limited minimax search over them.
package ai

import (
	"fmt"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

const (
	cornerScore  = 50
	mobilityMax  = 100
	winningScore = 5000.0
	// lossModifier weighs a human win heavier than an AI win of the same speed.
	lossModifier = 1.5
)

// weights is the static positional value of every cell, indexed [column][row].
var weights = [reversi.Size][reversi.Size]int{
	{20, -3, 11, 8, 8, 11, -3, 20},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{8, 1, 2, -3, -3, 2, 1, 8},
	{11, -4, 2, 2, 2, 2, -4, 11},
	{-3, -7, -4, 1, 1, -4, -7, -3},
	{20, -3, 11, 8, 8, 11, -3, 20},
}

// Assessor scores a state from the AI's point of view: positive favors the AI,
// negative the human. human is the minimizing player; depth is the search depth at
// which the state is scored.
type Assessor func(s *reversi.GameState, human reversi.Player, depth int) float64

// Assessor kinds, in the order Evaluate sums them.
const (
	DiskCount = iota
	Corners
	Mobility
	Weights
	WinVelocity
	numAssessors
)

var assessorNames = [numAssessors]string{
	DiskCount:   "disk-count",
	Corners:     "corners",
	Mobility:    "mobility",
	Weights:     "weights",
	WinVelocity: "win-velocity",
}

var assessors = [numAssessors]Assessor{
	DiskCount:   assessDiskCount,
	Corners:     assessCorners,
	Mobility:    assessMobility,
	Weights:     assessWeights,
	WinVelocity: assessWinVelocity,
}

// Evaluate sums every assessor.
func Evaluate(s *reversi.GameState, human reversi.Player, depth int) float64 {
	var total float64
	for _, a := range assessors {
		total += a(s, human, depth)
	}
	return total
}

// Breakdown returns the score of every assessor by name. Used by debug logging.
func Breakdown(s *reversi.GameState, human reversi.Player, depth int) map[string]float64 {
	out := make(map[string]float64, numAssessors)
	for i, a := range assessors {
		out[assessorNames[i]] = a(s, human, depth)
	}
	return out
}

func assessDiskCount(s *reversi.GameState, human reversi.Player, _ int) float64 {
	f := s.Field()
	return float64(f.Count(human.Opponent()) - f.Count(human))
}

func assessCorners(s *reversi.GameState, human reversi.Player, _ int) float64 {
	f := s.Field()
	score := 0
	for _, c := range reversi.Corners {
		d, ok := f.Get(c)
		if !ok {
			continue
		}
		if d.Player() == human {
			score -= cornerScore
		} else {
			score += cornerScore
		}
	}
	return float64(score)
}

func assessMobility(s *reversi.GameState, human reversi.Player, _ int) float64 {
	ai := len(reversi.PossibleMoves(s, human.Opponent()))
	hu := len(reversi.PossibleMoves(s, human))
	if ai+hu == 0 {
		return 0
	}
	return mobilityMax * float64(ai-hu) / float64(ai+hu)
}

func assessWeights(s *reversi.GameState, human reversi.Player, _ int) float64 {
	score := 0
	for c, owner := range s.Field().Occupied() {
		w := weights[c.Column][c.Row]
		if owner == human {
			score -= w
		} else {
			score += w
		}
	}
	return float64(score)
}

// assessWinVelocity rewards quick wins and punishes quick losses. Panics when a decided
// game is scored at depth < 1.
func assessWinVelocity(s *reversi.GameState, human reversi.Player, depth int) float64 {
	if s.Phase() != reversi.PhaseFinished {
		return 0
	}
	winner, ok := s.Winner()
	if !ok {
		return 0
	}
	if depth < 1 {
		panic(fmt.Sprintf("ai: finished game scored at depth %d", depth))
	}
	if winner == human {
		return -lossModifier * winningScore / float64(depth)
	}
	return winningScore / float64(depth)
}
