package reversi

import "fmt"

// GameState is a full snapshot of a game. The engine owns the live instance; every other
// holder works on a Clone.
type GameState struct {
	phase       Phase
	current     Player
	field       GameField
	winner      Player
	hasWinner   bool
	diskCount   [2]int
	moveCounter int
}

// NewGameState returns the standard starting position: empty board, Black to move,
// running, 32 disks per player.
func NewGameState() *GameState {
	return &GameState{
		phase:     PhaseRunning,
		current:   Black,
		diskCount: [2]int{DiskCountStart, DiskCountStart},
	}
}

// Clone returns an independent deep copy.
func (s *GameState) Clone() *GameState {
	c := *s
	return &c
}

// Phase returns the lifecycle phase.
func (s *GameState) Phase() Phase {
	return s.phase
}

// SetPhase changes the lifecycle phase.
func (s *GameState) SetPhase(ph Phase) {
	if _, ok := phaseNames[ph]; !ok {
		panic(fmt.Sprintf("reversi: unhandled phase %d", int(ph)))
	}
	s.phase = ph
}

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() Player {
	return s.current
}

// SetCurrentPlayer hands the turn to p.
func (s *GameState) SetCurrentPlayer(p Player) {
	p.index()
	s.current = p
}

// Field returns the board. Mutations through the pointer change this state.
func (s *GameState) Field() *GameField {
	return &s.field
}

// Winner returns the winner of a finished game; ok is false for a draw.
// Panics unless the phase is PhaseFinished.
func (s *GameState) Winner() (winner Player, ok bool) {
	if s.phase != PhaseFinished {
		panic(fmt.Sprintf("reversi: expected phase %v to read the winner, but phase is %v",
			PhaseFinished, s.phase))
	}
	return s.winner, s.hasWinner
}

// SetWinner records p as the winner.
func (s *GameState) SetWinner(p Player) {
	p.index()
	s.winner = p
	s.hasWinner = true
}

// SetDraw records that nobody won.
func (s *GameState) SetDraw() {
	s.winner = Black
	s.hasWinner = false
}

// DiskCount returns how many disks the player can still place.
func (s *GameState) DiskCount(p Player) int {
	return s.diskCount[p.index()]
}

// SetDiskCount sets the remaining disks of a player. Panics on negative values.
func (s *GameState) SetDiskCount(p Player, n int) {
	if n < 0 {
		panic(fmt.Sprintf("reversi: negative disk count %d for %v", n, p))
	}
	s.diskCount[p.index()] = n
}

// MoveCounter returns the number of moves applied so far.
func (s *GameState) MoveCounter() int {
	return s.moveCounter
}

// IncreaseMoveCounter bumps the move counter by one.
func (s *GameState) IncreaseMoveCounter() {
	s.moveCounter++
}

// CellsOf returns the cells owned by the player.
func (s *GameState) CellsOf(p Player) []Cell {
	return s.field.CellsOf(p)
}

// Score returns the number of disks each player has on the board.
func (s *GameState) Score() (black, white int) {
	return s.field.Count(Black), s.field.Count(White)
}
