package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-reversi/internal/core"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorGrid:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorBlack:      lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
	core.ColorWhite:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true),
	core.ColorHint:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorCursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	core.ColorCursorHint: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorStatus:     lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
	core.ColorError:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

// Board geometry on the screen buffer: a label column, eight cells two characters apart,
// and a label column on the right.
const (
	boardOriginX = 4
	cellStride   = 2
	boardWidth   = boardOriginX + reversi.Size*cellStride + 2
	boardHeight  = reversi.Size + 2
)

// Disk and marker runes.
const (
	runeBlack = '●'
	runeWhite = '○'
	runeEmpty = '.'
	runeHint  = '·'
)

// boardView is everything drawBoard needs besides the state.
type boardView struct {
	cursor     reversi.Cell
	showCursor bool
	hints      []reversi.Cell
}

// cellPos returns the screen position of a board cell. Row 8 is drawn at the top.
func cellPos(c reversi.Cell) (x, y int) {
	return boardOriginX + c.Column*cellStride, reversi.Size - c.Row
}

// drawBoard renders the field with coordinates, legal-move hints and the cursor.
func drawBoard(s *core.Screen, f *reversi.GameField, v boardView) {
	s.Clear()

	for col := range reversi.Size {
		letter := string(rune('A' + col))
		x := boardOriginX + col*cellStride
		s.DrawText(x, 0, letter, core.ColorGrid)
		s.DrawText(x, boardHeight-1, letter, core.ColorGrid)
	}

	hinted := make(map[reversi.Cell]bool, len(v.hints))
	for _, c := range v.hints {
		hinted[c] = true
	}

	for row := range reversi.Size {
		_, y := cellPos(reversi.NewCell(0, row))
		label := string(rune('1' + row))
		s.DrawText(2, y, label, core.ColorGrid)
		s.DrawText(boardWidth-1, y, label, core.ColorGrid)

		for col := range reversi.Size {
			c := reversi.NewCell(col, row)
			x, _ := cellPos(c)
			r, color := rune(runeEmpty), core.ColorGrid
			if d, ok := f.Get(c); ok {
				r, color = runeBlack, core.ColorBlack
				if d.Player() == reversi.White {
					r, color = runeWhite, core.ColorWhite
				}
			} else if hinted[c] {
				r, color = runeHint, core.ColorHint
			}
			s.Set(x, y, r, color)
		}
	}

	if v.showCursor {
		x, y := cellPos(v.cursor)
		bracket := core.ColorCursor
		if hinted[v.cursor] {
			bracket = core.ColorCursorHint
		}
		s.Set(x-1, y, '[', bracket)
		s.Set(x+1, y, ']', bracket)
	}
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// scoreLine summarizes disks on the board and disks left to place.
func scoreLine(st *reversi.GameState) string {
	black, white := st.Score()
	return fmt.Sprintf("%s %d (%d left)   %s %d (%d left)",
		colorStyles[core.ColorBlack].Render(string(runeBlack)+" Black"), black, st.DiskCount(reversi.Black),
		colorStyles[core.ColorWhite].Render(string(runeWhite)+" White"), white, st.DiskCount(reversi.White),
	)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// centerBlock centers every line of a multi-line block by the widest line.
func centerBlock(block string, width int) string {
	w := lipgloss.Width(block)
	if w >= width {
		return block
	}
	return lipgloss.NewStyle().MarginLeft((width - w) / 2).Render(block)
}
