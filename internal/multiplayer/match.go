package multiplayer

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

// matchEventBuffer sizes the engine event channel of a match.
const matchEventBuffer = 16

// MatchResult contains the outcome of a match.
type MatchResult struct {
	MatchID  MatchID
	Reason   MatchEndReason
	Final    *reversi.GameState
	Duration time.Duration
}

// Winner returns the winner of a completed match; ok is false for draws and aborted matches.
func (r MatchResult) Winner() (winner reversi.Player, ok bool) {
	if r.Final == nil || r.Final.Phase() != reversi.PhaseFinished {
		return reversi.Black, false
	}
	return r.Final.Winner()
}

type moveRequest struct {
	session SessionID
	cell    reversi.Cell
}

// OnlineMatch is an authoritative game between two sessions. It owns the engine; players
// submit moves and receive every resulting state.
type OnlineMatch struct {
	id     MatchID
	code   string
	engine *reversi.Reversi
	logger *log.Logger

	black SessionHandle // host
	white SessionHandle // joiner

	moves          chan moveRequest
	disconnectChan chan SessionID

	startedAt time.Time
	done      chan struct{}
	doneOnce  sync.Once
}

// NewOnlineMatch creates a match waiting for Run. The host plays Black.
func NewOnlineMatch(id MatchID, code string, host, joiner SessionHandle, logger *log.Logger) *OnlineMatch {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	engine := reversi.New(reversi.WithEvents(matchEventBuffer))
	engine.Await()
	// The waiting snapshot is not interesting to the players.
	for len(engine.Events()) > 0 {
		<-engine.Events()
	}

	return &OnlineMatch{
		id:             id,
		code:           code,
		engine:         engine,
		logger:         logger.With("match", id),
		black:          host,
		white:          joiner,
		moves:          make(chan moveRequest, 64),
		disconnectChan: make(chan SessionID, 2),
		done:           make(chan struct{}),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code used to create this match.
func (m *OnlineMatch) Code() string {
	return m.code
}

// Players returns the Black and White sessions.
func (m *OnlineMatch) Players() (black, white SessionHandle) {
	return m.black, m.white
}

// State returns a snapshot of the match state.
func (m *OnlineMatch) State() *reversi.GameState {
	return m.engine.State()
}

// SubmitMove queues a move from a session. Non-blocking; dropped when the queue is full.
func (m *OnlineMatch) SubmitMove(session SessionID, cell reversi.Cell) {
	select {
	case m.moves <- moveRequest{session: session, cell: cell}:
	default:
		m.logger.Warn("move queue full, dropping move", "session", session)
	}
}

// PlayerDisconnected signals that a player has disconnected or left.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run starts the game and serves it until it finishes or a player leaves.
// The callback is called once with the result.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer m.Stop()

	m.startedAt = time.Now()
	go m.monitorSessions()
	m.engine.Start()

	for {
		select {
		case evt := <-m.engine.Events():
			m.broadcast(evt.State)
			if evt.State.Phase() == reversi.PhaseFinished {
				m.complete(onComplete, MatchEndReasonCompleted, evt.State)
				return
			}

		case req := <-m.moves:
			m.applyMove(req)

		case sessionID := <-m.disconnectChan:
			m.logger.Info("player left", "session", sessionID)
			m.engine.Disconnect()
			final := m.engine.State()
			m.broadcast(final)
			m.complete(onComplete, MatchEndReasonDisconnect, final)
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) complete(onComplete func(MatchResult), reason MatchEndReason, final *reversi.GameState) {
	if onComplete == nil {
		return
	}
	onComplete(MatchResult{
		MatchID:  m.id,
		Reason:   reason,
		Final:    final,
		Duration: time.Since(m.startedAt),
	})
}

// applyMove accepts a move only from the session assigned to the current player.
func (m *OnlineMatch) applyMove(req moveRequest) {
	session, side, ok := m.sideOf(req.session)
	if !ok {
		return
	}

	if m.engine.State().CurrentPlayer() != side {
		session.Send(MoveRejectedEvent{MatchID: m.id, Cell: req.cell, Reason: "not your turn"})
		return
	}
	if !m.engine.Move(req.cell) {
		session.Send(MoveRejectedEvent{MatchID: m.id, Cell: req.cell, Reason: "illegal move"})
		return
	}
	m.logger.Debug("move applied", "side", side, "cell", req.cell.Notation())
}

func (m *OnlineMatch) sideOf(id SessionID) (SessionHandle, reversi.Player, bool) {
	switch id {
	case m.black.ID():
		return m.black, reversi.Black, true
	case m.white.ID():
		return m.white, reversi.White, true
	default:
		return nil, reversi.Black, false
	}
}

func (m *OnlineMatch) broadcast(s *reversi.GameState) {
	data, err := json.Marshal(s)
	if err != nil {
		m.logger.Error("cannot encode state", "err", err)
		return
	}
	evt := StateEvent{
		MatchID:     m.id,
		MoveCounter: s.MoveCounter(),
		State:       data,
	}
	m.black.Send(evt)
	m.white.Send(evt)
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.black.Done():
		m.PlayerDisconnected(m.black.ID())
	case <-m.white.Done():
		m.PlayerDisconnected(m.white.ID())
	case <-m.done:
	}
}

// Stop ends the match loop without reporting a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
