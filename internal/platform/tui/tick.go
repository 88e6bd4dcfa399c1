// Package tui provides the Bubble Tea front end for Reversi: menu, board, online lobby,
// game history, and the Wish SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// flashDuration is how long a rejected-input message stays on screen.
const flashDuration = 2 * time.Second

// clearFlashMsg asks a model to drop its flash message if it is still the one with seq.
type clearFlashMsg struct {
	seq int
}

// clearFlashCmd returns a command that fires once after flashDuration.
func clearFlashCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// flash is a transient error line shown under the board.
type flash struct {
	text string
	seq  int
}

// set replaces the message and returns the command that will clear it.
func (f *flash) set(text string) tea.Cmd {
	f.seq++
	f.text = text
	return clearFlashCmd(f.seq)
}

// clear drops the message if msg belongs to the latest set call.
func (f *flash) clear(msg clearFlashMsg) {
	if msg.seq == f.seq {
		f.text = ""
	}
}
