package reversi

import "slices"

// directions are the eight ray offsets: horizontal, vertical, and diagonal.
var directions = [8][2]int{
	{1, 0}, {-1, 0},
	{0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// openingThreshold is the disk count above which a player is still in the opening:
// the first two placements of each side go to the central cells.
const openingThreshold = DiskCountStart - 2

// PossibleMoves returns the legal target cells for the player in (column, row) order.
func PossibleMoves(s *GameState, p Player) []Cell {
	if s.DiskCount(p) <= 0 {
		return nil
	}

	field := s.Field()
	if s.DiskCount(p) > openingThreshold {
		return field.MiddleFourEmptyCells()
	}

	var moves []Cell
	for _, c := range field.EmptyCells() {
		if hasAdjacentOpponent(field, c, p) && capturesAny(field, c, p) {
			moves = append(moves, c)
		}
	}
	return moves
}

// CanMove reports whether the player has at least one legal move.
func CanMove(s *GameState, p Player) bool {
	return len(PossibleMoves(s, p)) > 0
}

// IsLegalMove reports whether placing at c is legal for the player.
func IsLegalMove(s *GameState, p Player, c Cell) bool {
	if !InBounds(c) {
		return false
	}
	return slices.Contains(PossibleMoves(s, p), c)
}

func hasAdjacentOpponent(f *GameField, c Cell, p Player) bool {
	opp := p.Opponent()
	for _, d := range directions {
		n := c.Offset(d[0], d[1])
		if InBounds(n) && f.IsCellOf(opp, n) {
			return true
		}
	}
	return false
}

func capturesAny(f *GameField, c Cell, p Player) bool {
	for _, d := range directions {
		if len(captured(f, c, p, d)) > 0 {
			return true
		}
	}
	return false
}

// captured walks the ray from c in direction d. It returns the opponent disks that
// would be flipped, or nil when the ray is not closed by a disk of p.
func captured(f *GameField, c Cell, p Player, d [2]int) []Cell {
	opp := p.Opponent()
	var run []Cell
	for cur := c.Offset(d[0], d[1]); InBounds(cur); cur = cur.Offset(d[0], d[1]) {
		disk, ok := f.Get(cur)
		if !ok {
			return nil
		}
		if disk.Player() == p {
			return run
		}
		if disk.Player() != opp {
			return nil
		}
		run = append(run, cur)
	}
	return nil
}

// Flips returns every disk captured by placing a disk of p at c, across all eight rays.
func Flips(f *GameField, c Cell, p Player) []Cell {
	var flips []Cell
	for _, d := range directions {
		flips = append(flips, captured(f, c, p, d)...)
	}
	return flips
}

// flipDisks turns every captured disk over to p.
func flipDisks(f *GameField, c Cell, p Player) {
	for _, cell := range Flips(f, c, p) {
		f.Set(cell, NewDisk(p))
	}
}
