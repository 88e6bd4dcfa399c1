package reversi

import "fmt"

// PlacedCell finds the cell that is empty in before and occupied in after.
// ok is false unless exactly one such cell exists.
func PlacedCell(before, after *GameField) (c Cell, ok bool) {
	found := 0
	for col := range Size {
		for row := range Size {
			cell := NewCell(col, row)
			_, was := before.Get(cell)
			_, is := after.Get(cell)
			if !was && is {
				c = cell
				found++
			}
		}
	}
	return c, found == 1
}

// DescribeMove reports a single applied move between two consecutive states, in the
// wording of the text shell:
//
//	Black moved disk to D3
//	White must miss a turn
//	Game over. Black has won
//
// It returns nil when after is not exactly one move ahead of before (undo, reset, sync).
func DescribeMove(before, after *GameState) []string {
	if after.MoveCounter() != before.MoveCounter()+1 {
		return nil
	}
	cell, ok := PlacedCell(before.Field(), after.Field())
	if !ok {
		return nil
	}
	disk, _ := after.Field().Get(cell)
	mover := disk.Player()

	lines := []string{fmt.Sprintf("%v moved disk to %s", mover, cell.Notation())}
	switch after.Phase() {
	case PhaseRunning:
		if after.CurrentPlayer() == mover {
			lines = append(lines, fmt.Sprintf("%v must miss a turn", mover.Opponent()))
		}
	case PhaseFinished:
		lines = append(lines, GameOverLine(after))
	}
	return lines
}

// GameOverLine announces the result of a finished game.
func GameOverLine(s *GameState) string {
	if winner, ok := s.Winner(); ok {
		return fmt.Sprintf("Game over. %v has won", winner)
	}
	return "Game over. Draw!"
}

// DrainReport reads every pending event without blocking and describes the moves among
// them in order, starting from prev. It returns the lines and the last state seen
// (prev if there were no events).
func DrainReport(prev *GameState, events <-chan Event) ([]string, *GameState) {
	var lines []string
	for {
		select {
		case evt := <-events:
			lines = append(lines, DescribeMove(prev, evt.State)...)
			prev = evt.State
		default:
			return lines, prev
		}
	}
}
