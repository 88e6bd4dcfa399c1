package reversi

import "fmt"

// Disk is a placed piece. Disks are never mutated; a flip replaces the disk.
type Disk struct {
	owner Player
}

// NewDisk creates a disk owned by the given player.
func NewDisk(p Player) Disk {
	return Disk{owner: p}
}

// Player returns the owner of the disk.
func (d Disk) Player() Player {
	return d.owner
}

// slot is one board position.
type slot struct {
	disk     Disk
	occupied bool
}

// GameField is the 8x8 grid. It is a value type: assigning or copying a GameField
// copies every cell.
type GameField struct {
	cells [Size][Size]slot
}

// middleCells are the four central cells used by the opening rule.
var middleCells = [4]Cell{{3, 3}, {3, 4}, {4, 3}, {4, 4}}

// Corners are the four extreme cells of the board.
var Corners = [4]Cell{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}}

func mustBeInBounds(c Cell) {
	if !InBounds(c) {
		panic(fmt.Sprintf("reversi: cell %v is out of bounds", c))
	}
}

// Get returns the disk at the cell, if any. Panics if the cell is out of bounds.
func (f *GameField) Get(c Cell) (Disk, bool) {
	mustBeInBounds(c)
	s := f.cells[c.Column][c.Row]
	return s.disk, s.occupied
}

// Set places a disk, replacing whatever was there. Panics if the cell is out of bounds.
func (f *GameField) Set(c Cell, d Disk) {
	mustBeInBounds(c)
	f.cells[c.Column][c.Row] = slot{disk: d, occupied: true}
}

// Remove takes the disk off the cell and returns it.
// Panics if the cell is out of bounds or empty.
func (f *GameField) Remove(c Cell) Disk {
	mustBeInBounds(c)
	s := f.cells[c.Column][c.Row]
	if !s.occupied {
		panic(fmt.Sprintf("reversi: no disk to remove at %v", c))
	}
	f.cells[c.Column][c.Row] = slot{}
	return s.disk
}

// IsCellOf reports whether the cell holds a disk of the given player.
func (f *GameField) IsCellOf(p Player, c Cell) bool {
	d, ok := f.Get(c)
	return ok && d.Player() == p
}

// Occupied maps every occupied cell to its owner.
func (f *GameField) Occupied() map[Cell]Player {
	m := make(map[Cell]Player)
	for col := range Size {
		for row := range Size {
			if s := f.cells[col][row]; s.occupied {
				m[Cell{col, row}] = s.disk.Player()
			}
		}
	}
	return m
}

// EmptyCells returns all empty cells in (column, row) order.
func (f *GameField) EmptyCells() []Cell {
	var cells []Cell
	for col := range Size {
		for row := range Size {
			if !f.cells[col][row].occupied {
				cells = append(cells, Cell{col, row})
			}
		}
	}
	return cells
}

// MiddleFourEmptyCells returns the empty cells among the four central cells.
func (f *GameField) MiddleFourEmptyCells() []Cell {
	var cells []Cell
	for _, c := range middleCells {
		if !f.cells[c.Column][c.Row].occupied {
			cells = append(cells, c)
		}
	}
	return cells
}

// CellsOf returns the cells owned by the player in (column, row) order.
func (f *GameField) CellsOf(p Player) []Cell {
	var cells []Cell
	for col := range Size {
		for row := range Size {
			if s := f.cells[col][row]; s.occupied && s.disk.Player() == p {
				cells = append(cells, Cell{col, row})
			}
		}
	}
	return cells
}

// Count returns the number of disks the player has on the board.
func (f *GameField) Count(p Player) int {
	n := 0
	for col := range Size {
		for row := range Size {
			if s := f.cells[col][row]; s.occupied && s.disk.Player() == p {
				n++
			}
		}
	}
	return n
}
