package core

// Action represents a semantic board action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // Up arrow, k - cursor one row up
	ActionDown           // Down arrow, j - cursor one row down
	ActionLeft           // Left arrow, h - cursor one column left
	ActionRight          // Right arrow, l - cursor one column right
	ActionPlace          // Enter, Space - place a disk under the cursor
	ActionUndo           // U - take back the last turn
	ActionNewGame        // N - start over
	ActionHelp           // ? - toggle the full key help
	ActionBack           // B, Escape - go back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionPlace:
		return "Place"
	case ActionUndo:
		return "Undo"
	case ActionNewGame:
		return "NewGame"
	case ActionHelp:
		return "Help"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Delta returns the cursor movement of a direction action as (columns, rows), with rows
// growing upwards. Non-movement actions return (0, 0).
func (a Action) Delta() (dc, dr int) {
	switch a {
	case ActionUp:
		return 0, 1
	case ActionDown:
		return 0, -1
	case ActionLeft:
		return -1, 0
	case ActionRight:
		return 1, 0
	default:
		return 0, 0
	}
}
