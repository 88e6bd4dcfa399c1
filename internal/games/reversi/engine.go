package reversi

import "sync"

// expectedHistoryLength is the typical number of moves in a full game.
const expectedHistoryLength = 60

// Event is emitted after every state change.
type Event struct {
	// State is a snapshot taken right after the change.
	State *GameState

	// OwnMove is true when the change came from a move on this engine, and false when the
	// state was replaced or forced from outside (network sync, stop, disconnect).
	OwnMove bool
}

// Option configures a Reversi engine.
type Option func(*Reversi)

// WithEvents enables the change-notification channel with the given buffer size.
func WithEvents(buffer int) Option {
	return func(r *Reversi) {
		if buffer < 1 {
			buffer = 64
		}
		r.events = make(chan Event, buffer)
	}
}

// Reversi is the move engine. It owns the live GameState and the undo history.
// All methods are safe for concurrent use.
type Reversi struct {
	mu      sync.Mutex
	state   *GameState
	history []*GameState
	events  chan Event
}

// New creates an engine with a fresh game.
func New(opts ...Option) *Reversi {
	r := &Reversi{
		state:   NewGameState(),
		history: make([]*GameState, 0, expectedHistoryLength),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromState creates an engine that takes ownership of the given state.
func FromState(s *GameState, opts ...Option) *Reversi {
	if s == nil {
		panic("reversi: nil game state")
	}
	r := New(opts...)
	r.state = s
	return r
}

// Events returns the notification channel, or nil when events are disabled.
func (r *Reversi) Events() <-chan Event {
	return r.events
}

// notify sends a snapshot without blocking. When the buffer is full the oldest
// pending event is dropped. Must be called with r.mu held.
func (r *Reversi) notify(ownMove bool) {
	if r.events == nil {
		return
	}
	evt := Event{State: r.state.Clone(), OwnMove: ownMove}
	select {
	case r.events <- evt:
		return
	default:
	}
	select {
	case <-r.events:
	default:
	}
	select {
	case r.events <- evt:
	default:
	}
}

// State returns a snapshot of the live state.
func (r *Reversi) State() *GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// NewGame resets to the starting position and clears the history.
func (r *Reversi) NewGame() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = NewGameState()
	r.history = r.history[:0]
	r.notify(true)
}

// PossibleMovesForPlayer returns the legal cells for the player in (column, row) order.
func (r *Reversi) PossibleMovesForPlayer(p Player) []Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	return PossibleMoves(r.state, p)
}

// Move places a disk of the current player at the cell. It returns false and leaves the
// state untouched when the game is not running or the move is not legal.
//
// If the opponent has no legal move afterwards, the current player stays the same; callers
// detect a skipped turn by comparing the current player before and after the call.
func (r *Reversi) Move(to Cell) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.state
	if s.Phase() != PhaseRunning || !InBounds(to) {
		return false
	}

	player := s.CurrentPlayer()
	if !IsLegalMove(s, player, to) {
		return false
	}

	r.history = append(r.history, s.Clone())

	field := s.Field()
	field.Set(to, NewDisk(player))
	flipDisks(field, to, player)
	s.SetDiskCount(player, s.DiskCount(player)-1)
	s.IncreaseMoveCounter()

	if !r.checkForWinningCondition() {
		if CanMove(s, player.Opponent()) {
			s.SetCurrentPlayer(player.Opponent())
		}
	}

	r.notify(true)
	return true
}

// checkForWinningCondition finishes the game when neither player can move.
// Must be called with r.mu held.
func (r *Reversi) checkForWinningCondition() bool {
	s := r.state
	if s.Phase() != PhaseRunning {
		return true
	}
	if CanMove(s, Black) || CanMove(s, White) {
		return false
	}
	finish(s)
	return true
}

// finish moves the state to PhaseFinished with the winner decided by occupied cells.
func finish(s *GameState) {
	black, white := s.Score()
	switch {
	case black > white:
		s.SetWinner(Black)
	case white > black:
		s.SetWinner(White)
	default:
		s.SetDraw()
	}
	s.SetPhase(PhaseFinished)
}

// CanUndo reports whether there is a move to take back.
func (r *Reversi) CanUndo() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.history) > 0
}

// UndoMove restores the state from before the most recent move.
// Panics if there is no move to undo.
func (r *Reversi) UndoMove() {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.history)
	if n == 0 {
		panic("reversi: undo with empty move history")
	}
	r.state = r.history[n-1]
	r.history[n-1] = nil
	r.history = r.history[:n-1]
	r.notify(true)
}

// SetState replaces the live state with the given one, e.g. a state received from a
// remote peer. The history is kept.
func (r *Reversi) SetState(s *GameState) {
	if s == nil {
		panic("reversi: nil game state")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
	r.notify(false)
}

// SyncState replaces the live state only if the given state is newer, judged by its move
// counter. It returns false for stale or duplicate updates.
func (r *Reversi) SyncState(s *GameState) bool {
	if s == nil {
		panic("reversi: nil game state")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.MoveCounter() <= r.state.MoveCounter() {
		return false
	}
	r.state = s
	r.notify(false)
	return true
}

// Await resets to a fresh game that waits for an opponent before accepting moves.
func (r *Reversi) Await() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = NewGameState()
	r.state.SetPhase(PhaseWaiting)
	r.history = r.history[:0]
	r.notify(false)
}

// Start moves a waiting game to the running phase. It returns false in any other phase.
func (r *Reversi) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase() != PhaseWaiting {
		return false
	}
	r.state.SetPhase(PhaseRunning)
	r.notify(false)
	return true
}

// Stop ends a waiting or running game early. The winner is decided by the disks on
// the board at that moment.
func (r *Reversi) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state.Phase() {
	case PhaseWaiting, PhaseRunning:
		finish(r.state)
		r.notify(false)
	}
}

// Disconnect aborts the game regardless of its phase.
func (r *Reversi) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.SetPhase(PhaseDisconnected)
	r.notify(false)
}
