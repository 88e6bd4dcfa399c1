// Package store keeps the games served by the HTTP API in memory.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

// ErrNotFound is returned for unknown game IDs.
var ErrNotFound = errors.New("store: game not found")

// subscriberBuffer sizes each subscriber channel. Slow subscribers lose the oldest events.
const subscriberBuffer = 16

// Game is a stored game. Moves through Lock/Unlock are serialized per game, so a human
// move and the computer reply are never interleaved with another request.
type Game struct {
	ID        string
	Mode      string
	CreatedAt time.Time

	mu     sync.Mutex
	engine registry.Game

	subMu  sync.Mutex
	subs   map[chan reversi.Event]struct{}
	closed bool
	done   chan struct{}
}

// Engine returns the game's engine. Callers that mutate it must hold the game lock.
func (g *Game) Engine() registry.Game {
	return g.engine
}

// Lock serializes mutations of the game.
func (g *Game) Lock() { g.mu.Lock() }

// Unlock releases the lock taken by Lock.
func (g *Game) Unlock() { g.mu.Unlock() }

// Subscribe returns a channel of engine events and a function that cancels the
// subscription. The channel is closed on cancel or when the game is removed.
func (g *Game) Subscribe() (<-chan reversi.Event, func()) {
	ch := make(chan reversi.Event, subscriberBuffer)

	g.subMu.Lock()
	defer g.subMu.Unlock()
	if g.closed {
		close(ch)
		return ch, func() {}
	}
	g.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.subMu.Lock()
			defer g.subMu.Unlock()
			if _, ok := g.subs[ch]; ok {
				delete(g.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (g *Game) Subscribers() int {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	return len(g.subs)
}

// pump fans engine events out to the subscribers until the game is closed.
func (g *Game) pump() {
	events := g.engine.Events()
	if events == nil {
		return
	}
	for {
		select {
		case evt := <-events:
			g.broadcast(evt)
		case <-g.done:
			return
		}
	}
}

func (g *Game) broadcast(evt reversi.Event) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for ch := range g.subs {
		select {
		case ch <- evt:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- evt:
		default:
		}
	}
}

func (g *Game) close() {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	close(g.done)
	for ch := range g.subs {
		close(ch)
	}
	g.subs = nil
}

// MemoryStore holds games by ID.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: map[string]*Game{},
	}
}

// Add stores an engine under a fresh ID and starts forwarding its events.
func (m *MemoryStore) Add(mode string, engine registry.Game) *Game {
	g := &Game{
		ID:        uuid.NewString(),
		Mode:      mode,
		CreatedAt: time.Now(),
		engine:    engine,
		subs:      map[chan reversi.Event]struct{}{},
		done:      make(chan struct{}),
	}
	go g.pump()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return g
}

// Get looks up a game by ID.
func (m *MemoryStore) Get(id string) (*Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

// Remove deletes a game and closes its subscriptions.
func (m *MemoryStore) Remove(id string) error {
	m.mu.Lock()
	g, ok := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	g.close()
	return nil
}

// Count returns the number of stored games.
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close removes every game.
func (m *MemoryStore) Close() {
	m.mu.Lock()
	games := m.games
	m.games = map[string]*Game{}
	m.mu.Unlock()

	for _, g := range games {
		g.close()
	}
}
