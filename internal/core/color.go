package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to a terminal style.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorGrid          // board frame and coordinates
	ColorBlack         // Black disks
	ColorWhite         // White disks
	ColorHint          // legal move markers
	ColorCursor        // cell under the cursor
	ColorCursorHint    // cursor resting on a legal cell
	ColorStatus        // status line
	ColorError         // rejected input
)
