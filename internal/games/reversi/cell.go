// Package reversi implements the 8x8 Reversi rules: board storage, game state snapshots,
// the move engine with undo history, and the delegate that lets a computer player answer
// human moves. It has no UI or transport dependencies.
package reversi

import (
	"fmt"
	"strings"
)

// Size is the board dimension on both axes.
const Size = 8

// Cell is a board coordinate. Columns and rows are 0-indexed.
type Cell struct {
	Column int
	Row    int
}

// NewCell creates a cell at the given column and row.
func NewCell(column, row int) Cell {
	return Cell{Column: column, Row: row}
}

// InBounds reports whether both coordinates are in [0, Size).
func InBounds(c Cell) bool {
	return c.Column >= 0 && c.Column < Size && c.Row >= 0 && c.Row < Size
}

// Compare orders cells by column, then row.
func (c Cell) Compare(other Cell) int {
	if c.Column != other.Column {
		return c.Column - other.Column
	}
	return c.Row - other.Row
}

// Less reports whether c sorts before other.
func (c Cell) Less(other Cell) bool {
	return c.Compare(other) < 0
}

// Offset returns the cell shifted by the given deltas. The result may be out of bounds.
func (c Cell) Offset(dc, dr int) Cell {
	return Cell{Column: c.Column + dc, Row: c.Row + dr}
}

// String returns the "column,row" form used in logs.
func (c Cell) String() string {
	return fmt.Sprintf("%d,%d", c.Column, c.Row)
}

// Notation returns the board notation of the cell, e.g. "D3" for (3,2).
func (c Cell) Notation() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.Column), c.Row+1)
}

// ParseCell parses a board notation token such as "d3" or "D3".
func ParseCell(token string) (Cell, error) {
	token = strings.TrimSpace(token)
	if len(token) != 2 {
		return Cell{}, fmt.Errorf("reversi: invalid cell %q: want a letter and a digit", token)
	}

	letter := token[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	digit := token[1]

	if letter < 'A' || letter >= 'A'+Size {
		return Cell{}, fmt.Errorf("reversi: invalid cell %q: column must be A-H", token)
	}
	if digit < '1' || digit >= '1'+Size {
		return Cell{}, fmt.Errorf("reversi: invalid cell %q: row must be 1-8", token)
	}

	return Cell{Column: int(letter - 'A'), Row: int(digit - '1')}, nil
}

// MustParseCell is like ParseCell but panics on malformed input.
// Intended for fixtures and constants.
func MustParseCell(token string) Cell {
	c, err := ParseCell(token)
	if err != nil {
		panic(err)
	}
	return c
}
