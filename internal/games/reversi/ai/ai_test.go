package ai

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

func cell(col, row int) reversi.Cell {
	return reversi.NewCell(col, row)
}

func board(current reversi.Player, black, white []reversi.Cell) *reversi.GameState {
	s := reversi.NewGameState()
	s.SetCurrentPlayer(current)
	s.SetDiskCount(reversi.Black, 20)
	s.SetDiskCount(reversi.White, 20)
	for _, c := range black {
		s.Field().Set(c, reversi.NewDisk(reversi.Black))
	}
	for _, c := range white {
		s.Field().Set(c, reversi.NewDisk(reversi.White))
	}
	return s
}

func TestDiskCountAssessor(t *testing.T) {
	s := board(reversi.White,
		[]reversi.Cell{cell(0, 1)},
		[]reversi.Cell{cell(3, 3), cell(4, 4), cell(5, 5)})

	assert.Equal(t, 2.0, assessDiskCount(s, reversi.Black, 1))
	assert.Equal(t, -2.0, assessDiskCount(s, reversi.White, 1))
}

func TestCornerAssessor(t *testing.T) {
	s := board(reversi.White,
		[]reversi.Cell{cell(7, 7), cell(0, 7)},
		[]reversi.Cell{cell(0, 0), cell(3, 3)})

	assert.Equal(t, -50.0, assessCorners(s, reversi.Black, 1))
}

func TestWeightAssessor(t *testing.T) {
	s := board(reversi.White,
		[]reversi.Cell{cell(1, 1)},
		[]reversi.Cell{cell(0, 0)})

	// 20 for the white corner, and the black disk on a -7 cell counts for White.
	assert.Equal(t, 27.0, assessWeights(s, reversi.Black, 1))
}

func TestWeightTableIsSymmetric(t *testing.T) {
	for col := range reversi.Size {
		for row := range reversi.Size {
			w := weights[col][row]
			require.Equal(t, w, weights[row][col], "transpose at %d,%d", col, row)
			require.Equal(t, w, weights[reversi.Size-1-col][row], "mirror at %d,%d", col, row)
		}
	}
}

func TestMobilityAssessor(t *testing.T) {
	t.Run("no moves on either side", func(t *testing.T) {
		s := board(reversi.White, nil, nil)
		s.SetDiskCount(reversi.Black, 0)
		s.SetDiskCount(reversi.White, 0)
		assert.Zero(t, assessMobility(s, reversi.Black, 1))
	})

	t.Run("only the AI can move", func(t *testing.T) {
		s := board(reversi.White,
			[]reversi.Cell{cell(3, 3)},
			[]reversi.Cell{cell(3, 4)})
		s.SetDiskCount(reversi.Black, 0)
		assert.Equal(t, 100.0, assessMobility(s, reversi.Black, 1))
	})

	t.Run("opening", func(t *testing.T) {
		assert.Zero(t, assessMobility(reversi.NewGameState(), reversi.Black, 1))
	})
}

func TestWinVelocityAssessor(t *testing.T) {
	finished := func(winner reversi.Player) *reversi.GameState {
		s := reversi.NewGameState()
		s.SetWinner(winner)
		s.SetPhase(reversi.PhaseFinished)
		return s
	}

	assert.Zero(t, assessWinVelocity(reversi.NewGameState(), reversi.Black, 0))
	assert.Equal(t, 2500.0, assessWinVelocity(finished(reversi.White), reversi.Black, 2))
	assert.Equal(t, -3750.0, assessWinVelocity(finished(reversi.Black), reversi.Black, 2))

	draw := reversi.NewGameState()
	draw.SetDraw()
	draw.SetPhase(reversi.PhaseFinished)
	assert.Zero(t, assessWinVelocity(draw, reversi.Black, 0))

	assert.Panics(t, func() {
		assessWinVelocity(finished(reversi.White), reversi.Black, 0)
	})
}

func TestEvaluateSumsBreakdown(t *testing.T) {
	s := board(reversi.White,
		[]reversi.Cell{cell(3, 3), cell(4, 4), cell(7, 7)},
		[]reversi.Cell{cell(3, 4), cell(4, 3), cell(0, 0)})

	parts := Breakdown(s, reversi.Black, 1)
	require.Len(t, parts, numAssessors)

	var sum float64
	for _, v := range parts {
		sum += v
	}
	assert.InDelta(t, sum, Evaluate(s, reversi.Black, 1), 1e-9)
}

func TestDetermineCellFinishedGame(t *testing.T) {
	s := reversi.NewGameState()
	s.SetDraw()
	s.SetPhase(reversi.PhaseFinished)

	_, ok := NewMinimax().DetermineCell(s)
	assert.False(t, ok)
}

func TestDetermineCellPrefersCorner(t *testing.T) {
	// White can capture at (2,0) or at the corner (7,7); one ply is enough to see it.
	s := board(reversi.White,
		[]reversi.Cell{cell(6, 6), cell(2, 1)},
		[]reversi.Cell{cell(5, 5), cell(2, 2)})
	require.Equal(t, []reversi.Cell{cell(2, 0), cell(7, 7)}, reversi.PossibleMoves(s, reversi.White))

	got, ok := NewMinimax(WithLookAhead(1)).DetermineCell(s)
	require.True(t, ok)
	assert.Equal(t, cell(7, 7), got)
}

// TestSearchSkipKeepsRole checks that a player who must skip hands the turn to the
// opponent without changing the role of the search level. Black has no disks left, so after
// each White capture Black skips and White moves again. At depth 1 Black's minimizing level
// passes to White, who still minimizes at depth 2.
func TestSearchSkipKeepsRole(t *testing.T) {
	x, y, z := cell(2, 0), cell(2, 7), cell(5, 3)
	s := board(reversi.White,
		[]reversi.Cell{cell(1, 0), cell(1, 7), cell(6, 3)},
		[]reversi.Cell{cell(0, 0), cell(0, 7), cell(7, 3)})
	s.SetDiskCount(reversi.Black, 0)
	require.Equal(t, []reversi.Cell{x, y, z}, reversi.PossibleMoves(s, reversi.White))

	// Only positions after two White captures are scored.
	pairs := func(s *reversi.GameState, _ reversi.Player, _ int) float64 {
		f := s.Field()
		hasX, hasY, hasZ := f.IsCellOf(reversi.White, x), f.IsCellOf(reversi.White, y), f.IsCellOf(reversi.White, z)
		switch {
		case hasX && hasY && !hasZ:
			return 10
		case hasX && hasZ && !hasY:
			return -10
		default:
			return 0
		}
	}

	sc := &search{
		engine:    reversi.FromState(s.Clone()),
		human:     reversi.Black,
		lookAhead: 3,
		evaluate:  pairs,
	}
	value := sc.max(reversi.White, 0)

	require.True(t, sc.found)
	assert.Equal(t, y, sc.best)
	assert.Zero(t, value)
}

func TestDetermineCellLeavesInputUntouched(t *testing.T) {
	r := reversi.New()
	r.Move(cell(3, 3))
	before := r.State()
	s := before.Clone()

	_, ok := NewMinimax().DetermineCell(s)
	require.True(t, ok)
	assert.Equal(t, *before, *s)
}

func TestDetermineCellIsDeterministic(t *testing.T) {
	s := reversi.NewGameState()
	m := NewMinimax()

	first, ok := m.DetermineCell(s)
	require.True(t, ok)
	for range 3 {
		again, _ := m.DetermineCell(s)
		assert.Equal(t, first, again)
	}
}

func TestWithLookAheadIgnoresInvalid(t *testing.T) {
	assert.Equal(t, DefaultLookAhead, NewMinimax(WithLookAhead(0)).LookAhead())
	assert.Equal(t, 5, NewMinimax(WithLookAhead(5)).LookAhead())
}

// TestDetermineCellReturnsLegalMove plays seeded games where Black moves at random and
// checks every computer reply against the legal move set.
func TestDetermineCellReturnsLegalMove(t *testing.T) {
	m := NewMinimax()

	for seed := range uint64(4) {
		rng := rand.New(rand.NewPCG(seed, 99))
		r := reversi.New()

		for r.State().Phase() == reversi.PhaseRunning {
			s := r.State()
			legal := reversi.PossibleMoves(s, s.CurrentPlayer())
			require.NotEmpty(t, legal)

			var next reversi.Cell
			if s.CurrentPlayer() == reversi.White {
				c, ok := m.DetermineCell(s)
				require.True(t, ok, "seed %d: no move at move %d", seed, s.MoveCounter())
				require.True(t, slices.Contains(legal, c), "seed %d: %v not in %v", seed, c, legal)
				next = c
			} else {
				next = legal[rng.IntN(len(legal))]
			}
			require.True(t, r.Move(next))
		}

		_, ok := m.DetermineCell(r.State())
		assert.False(t, ok)
	}
}
