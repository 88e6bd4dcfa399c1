package multiplayer

import "github.com/vovakirdan/tui-reversi/internal/games/reversi"

// SessionEvent represents an event sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent is sent when a lobby is successfully created.
type LobbyCreatedEvent struct {
	Code string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent is sent when a lobby operation fails.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// MatchStartedEvent is sent to both players when the match begins.
type MatchStartedEvent struct {
	MatchID  MatchID
	Code     string
	Side     reversi.Player // Black for the host, White for the joiner
	Opponent string
}

func (MatchStartedEvent) sessionEvent() {}

// StateEvent carries the authoritative game state after every change.
// State is the JSON wire form; MoveCounter lets receivers drop stale updates.
type StateEvent struct {
	MatchID     MatchID
	MoveCounter int
	State       []byte
}

func (StateEvent) sessionEvent() {}

// Decode parses the carried state.
func (e StateEvent) Decode() (*reversi.GameState, error) {
	var s reversi.GameState
	if err := s.UnmarshalJSON(e.State); err != nil {
		return nil, err
	}
	return &s, nil
}

// MoveRejectedEvent is sent to a session whose move was not applied.
type MoveRejectedEvent struct {
	MatchID MatchID
	Cell    reversi.Cell
	Reason  string
}

func (MoveRejectedEvent) sessionEvent() {}

// MatchEndedEvent is sent when the match ends.
type MatchEndedEvent struct {
	MatchID   MatchID
	Reason    MatchEndReason
	Winner    reversi.Player
	HasWinner bool // false for draws and disconnects
	Black     int  // disks on the board
	White     int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted  MatchEndReason = iota // Neither player can move
	MatchEndReasonDisconnect                       // A player disconnected or left
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "completed"
	case MatchEndReasonDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg requests creation of a new lobby.
type CreateLobbyMsg struct {
	SessionID SessionID
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg requests joining an existing lobby.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg requests cancellation of a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg requests leaving an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// MoveMsg submits a move to a match.
type MoveMsg struct {
	SessionID SessionID
	MatchID   MatchID
	Cell      reversi.Cell
}

func (MoveMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
