package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/registry"
	"github.com/vovakirdan/tui-reversi/internal/store"
)

// gameEventBuffer sizes the engine event channel of API games.
const gameEventBuffer = 64

// lookupGame resolves :id or writes a 404.
func (s *Server) lookupGame(c *gin.Context) (*store.Game, bool) {
	g, err := s.games.Get(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "game not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return nil, false
	}
	return g, true
}

func gameResponse(g *store.Game) GameResponse {
	return GameResponse{ID: g.ID, Mode: g.Mode, State: g.Engine().State()}
}

// CreateGameHandler starts a game. An empty mode uses the configured default.
func (s *Server) CreateGameHandler(c *gin.Context) {
	var req CreateGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = s.defaultMode
	}
	if !registry.Exists(mode) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown mode " + req.Mode})
		return
	}

	opts := s.opts
	opts.EventBuffer = gameEventBuffer
	engine, err := registry.Create(mode, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	g := s.games.Add(mode, engine)
	gamesCreated.WithLabelValues(mode).Inc()
	s.logger.Info("game created", "id", g.ID, "mode", mode)

	c.JSON(http.StatusCreated, gameResponse(g))
}

// GetGameHandler returns the current state of a game.
func (s *Server) GetGameHandler(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gameResponse(g))
}

// DeleteGameHandler removes a game and closes its event streams.
func (s *Server) DeleteGameHandler(c *gin.Context) {
	if err := s.games.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "game not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PossibleMovesHandler lists the legal cells of ?player=, or of the player to move.
func (s *Server) PossibleMovesHandler(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}

	player := g.Engine().State().CurrentPlayer()
	if q := c.Query("player"); q != "" {
		p, err := reversi.ParsePlayer(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown player " + q})
			return
		}
		player = p
	}

	cells := g.Engine().PossibleMovesForPlayer(player)
	moves := make([]string, len(cells))
	for i, cell := range cells {
		moves[i] = cell.Notation()
	}
	c.JSON(http.StatusOK, MovesResponse{Player: player, Moves: moves})
}

// MoveHandler places a disk for the player to move. In single mode the response already
// includes the computer's reply.
func (s *Server) MoveHandler(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	cell, err := reversi.ParseCell(req.Cell)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	g.Lock()
	applied := g.Engine().Move(cell)
	g.Unlock()
	moveDuration.WithLabelValues(g.Mode).Observe(time.Since(start).Seconds())

	if !applied {
		movesTotal.WithLabelValues(g.Mode, resultRejected).Inc()
		c.JSON(http.StatusConflict, ErrorResponse{Error: "illegal move"})
		return
	}
	movesTotal.WithLabelValues(g.Mode, resultApplied).Inc()

	resp := gameResponse(g)
	if resp.State.Phase() == reversi.PhaseFinished {
		black, white := resp.State.Score()
		s.logger.Info("game finished", "id", g.ID, "mode", g.Mode, "black", black, "white", white)
	}
	c.JSON(http.StatusOK, resp)
}

// UndoHandler takes back the last turn.
func (s *Server) UndoHandler(c *gin.Context) {
	g, ok := s.lookupGame(c)
	if !ok {
		return
	}

	g.Lock()
	undone := g.Engine().CanUndo()
	if undone {
		g.Engine().UndoMove()
	}
	g.Unlock()

	if !undone {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "nothing to undo"})
		return
	}
	c.JSON(http.StatusOK, gameResponse(g))
}

// ModesHandler lists the registered game modes.
func (s *Server) ModesHandler(c *gin.Context) {
	modes := registry.List()
	out := make([]gin.H, len(modes))
	for i, m := range modes {
		out[i] = gin.H{"id": m.ID, "title": m.Title}
	}
	c.JSON(http.StatusOK, gin.H{"modes": out})
}
