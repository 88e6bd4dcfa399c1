package reversi

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	markEmpty = '.'
	markBlack = 'b'
	markWhite = 'w'
)

// wireState is the JSON form of a GameState exchanged with network peers.
// Field rows are listed from row 8 down to row 1, columns A..H left to right.
type wireState struct {
	Phase         Phase          `json:"phase"`
	CurrentPlayer Player         `json:"currentPlayer"`
	Winner        *Player        `json:"winner"`
	DiskCount     map[string]int `json:"diskCount"`
	MoveCounter   int            `json:"moveCounter"`
	Field         []string       `json:"field"`
}

// MarshalJSON encodes the state in its wire form.
func (s *GameState) MarshalJSON() ([]byte, error) {
	w := wireState{
		Phase:         s.phase,
		CurrentPlayer: s.current,
		DiskCount: map[string]int{
			"BLACK": s.DiskCount(Black),
			"WHITE": s.DiskCount(White),
		},
		MoveCounter: s.moveCounter,
		Field:       boardRows(&s.field),
	}
	if s.phase == PhaseFinished && s.hasWinner {
		winner := s.winner
		w.Winner = &winner
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a wire-form state, validating board dimensions and markers.
func (s *GameState) UnmarshalJSON(data []byte) error {
	var w wireState
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("reversi: decode state: %w", err)
	}
	if _, ok := phaseNames[w.Phase]; !ok {
		return fmt.Errorf("reversi: decode state: unknown phase %d", int(w.Phase))
	}
	if len(w.Field) != Size {
		return fmt.Errorf("reversi: decode state: want %d rows, got %d", Size, len(w.Field))
	}

	decoded := GameState{
		phase:       w.Phase,
		current:     w.CurrentPlayer,
		moveCounter: w.MoveCounter,
	}
	for key, n := range w.DiskCount {
		p, err := ParsePlayer(key)
		if err != nil {
			return fmt.Errorf("reversi: decode state: %w", err)
		}
		if n < 0 || n > DiskCountStart {
			return fmt.Errorf("reversi: decode state: disk count %d out of range", n)
		}
		decoded.diskCount[p.index()] = n
	}
	if w.Winner != nil {
		decoded.winner = *w.Winner
		decoded.hasWinner = true
	}

	for i, line := range w.Field {
		if len(line) != Size {
			return fmt.Errorf("reversi: decode state: row %d has %d cells", Size-i, len(line))
		}
		row := Size - 1 - i
		for col := range Size {
			c := Cell{col, row}
			switch line[col] {
			case markEmpty:
			case markBlack:
				decoded.field.Set(c, NewDisk(Black))
			case markWhite:
				decoded.field.Set(c, NewDisk(White))
			default:
				return fmt.Errorf("reversi: decode state: bad marker %q at %s", line[col], c.Notation())
			}
		}
	}

	*s = decoded
	return nil
}

// boardRows renders the board as Size strings, top row first.
func boardRows(f *GameField) []string {
	rows := make([]string, 0, Size)
	for row := Size - 1; row >= 0; row-- {
		var sb strings.Builder
		for col := range Size {
			sb.WriteByte(mark(f, Cell{col, row}))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func mark(f *GameField, c Cell) byte {
	d, ok := f.Get(c)
	switch {
	case !ok:
		return markEmpty
	case d.Player() == Black:
		return markBlack
	default:
		return markWhite
	}
}

// FormatBoard renders the board for text shells: row 8 on top, each line prefixed with
// its row number, followed by a line of column letters.
func FormatBoard(f *GameField) string {
	var sb strings.Builder
	for i, line := range boardRows(f) {
		fmt.Fprintf(&sb, "%d %s\n", Size-i, line)
	}
	sb.WriteString("  ")
	for col := range Size {
		sb.WriteByte(byte('A' + col))
	}
	return sb.String()
}
