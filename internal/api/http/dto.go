package http

import "github.com/vovakirdan/tui-reversi/internal/games/reversi"

// CreateGameRequest is the payload of POST /games.
type CreateGameRequest struct {
	Mode string `json:"mode"`
}

// MoveRequest is the payload of POST /games/:id/moves.
type MoveRequest struct {
	Cell string `json:"cell"`
}

// GameResponse describes a game and its current state.
type GameResponse struct {
	ID    string             `json:"id"`
	Mode  string             `json:"mode"`
	State *reversi.GameState `json:"state"`
}

// MovesResponse lists the legal cells of a player in board notation.
type MovesResponse struct {
	Player reversi.Player `json:"player"`
	Moves  []string       `json:"moves"`
}

// EventMessage is one websocket frame: a state change of the game.
type EventMessage struct {
	OwnMove bool               `json:"ownMove"`
	State   *reversi.GameState `json:"state"`
}

// ErrorResponse carries a client-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
