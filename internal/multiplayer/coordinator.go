package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Lobby represents a waiting room for a match.
type Lobby struct {
	Code      string
	Host      SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // How long before an unjoined lobby expires
	CleanupPeriod time.Duration // How often to clean up expired lobbies
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  5 * time.Minute,
		CleanupPeriod: 30 * time.Second,
	}
}

// MatchResultSaver is an interface for saving match results.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	BlackPlayer  string
	WhitePlayer  string
	BlackDisks   int
	WhiteDisks   int
	Winner       string // "BLACK", "WHITE", or empty for draws and aborted matches
	EndReason    string
	Moves        int
	DurationSecs int
	FinalState   []byte // JSON wire form
}

// Coordinator manages lobbies and active matches.
type Coordinator struct {
	config      CoordinatorConfig
	sessions    *SessionRegistry
	resultSaver MatchResultSaver // Optional, can be nil
	logger      *log.Logger

	mu      sync.RWMutex
	lobbies map[string]*Lobby        // code -> lobby
	matches map[MatchID]*OnlineMatch // matchID -> match

	// Track which session is in which lobby/match
	sessionLobby map[SessionID]string  // sessionID -> lobby code
	sessionMatch map[SessionID]MatchID // sessionID -> matchID

	// Message channel for async processing
	msgChan  chan CoordinatorMessage
	done     chan struct{}
	stopOnce sync.Once
	saves    sync.WaitGroup
}

// NewCoordinator creates a new coordinator. A nil logger discards output.
func NewCoordinator(cfg CoordinatorConfig, sessions *SessionRegistry, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Coordinator{
		config:       cfg,
		sessions:     sessions,
		logger:       logger,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts down the coordinator, stops running matches and waits for pending saves.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		for _, m := range c.matches {
			m.Stop()
		}
		c.mu.Unlock()

		c.saves.Wait()
	})
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// processMessages handles incoming messages.
func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case MoveMsg:
		c.handleMove(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.busy(msg.SessionID) {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := c.generateUniqueCode()
	c.lobbies[code] = &Lobby{
		Code:      code,
		Host:      session,
		CreatedAt: time.Now(),
	}
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	c.logger.Info("lobby created", "code", code, "host", session.Name())
	session.Send(LobbyCreatedEvent{Code: code})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy(msg.SessionID) {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby or match"})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}
	c.startMatch(lobby, session)
}

// busy reports whether the session is already in a lobby or a match.
// Must be called with c.mu held.
func (c *Coordinator) busy(id SessionID) bool {
	_, inLobby := c.sessionLobby[id]
	_, inMatch := c.sessionMatch[id]
	return inLobby || inMatch
}

// startMatch turns a lobby into a running match. Must be called with c.mu held.
func (c *Coordinator) startMatch(lobby *Lobby, joiner SessionHandle) {
	matchID := NewMatchID()
	match := NewOnlineMatch(matchID, lobby.Code, lobby.Host, joiner, c.logger)

	hostID := lobby.Host.ID()
	joinerID := joiner.ID()

	c.matches[matchID] = match
	delete(c.sessionLobby, hostID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID
	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{
		MatchID:  matchID,
		Code:     lobby.Code,
		Side:     HostSide,
		Opponent: joiner.Name(),
	})
	joiner.Send(MatchStartedEvent{
		MatchID:  matchID,
		Code:     lobby.Code,
		Side:     JoinerSide,
		Opponent: lobby.Host.Name(),
	})

	c.logger.Info("match started", "match", matchID, "black", lobby.Host.Name(), "white", joiner.Name())

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}
	black, white := match.Players()

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
	}
	if result.Final != nil {
		endEvent.Black, endEvent.White = result.Final.Score()
	}
	endEvent.Winner, endEvent.HasWinner = result.Winner()

	c.logger.Info("match ended",
		"match", matchID,
		"reason", result.Reason,
		"black", endEvent.Black,
		"white", endEvent.White)

	if c.resultSaver != nil {
		c.saveResult(black, white, endEvent, result)
	}

	for _, id := range []SessionID{black.ID(), white.ID()} {
		delete(c.sessionMatch, id)
	}
	delete(c.matches, matchID)

	black.Send(endEvent)
	white.Send(endEvent)
}

// saveResult persists the result in the background. Must be called with c.mu held.
func (c *Coordinator) saveResult(black, white SessionHandle, evt MatchEndedEvent, result MatchResult) {
	data := MatchResultData{
		MatchID:      string(result.MatchID),
		BlackPlayer:  black.Name(),
		WhitePlayer:  white.Name(),
		BlackDisks:   evt.Black,
		WhiteDisks:   evt.White,
		EndReason:    result.Reason.String(),
		DurationSecs: int(result.Duration.Seconds()),
	}
	if evt.HasWinner {
		data.Winner = strings.ToUpper(evt.Winner.String())
	}
	if result.Final != nil {
		data.Moves = result.Final.MoveCounter()
		if encoded, err := json.Marshal(result.Final); err == nil {
			data.FinalState = encoded
		}
	}

	save := func() {
		if err := c.resultSaver.SaveMatchResult(data); err != nil {
			c.logger.Error("cannot save match result", "match", data.MatchID, "err", err)
		}
	}

	select {
	case <-c.done:
		// Shutting down; Stop may already be waiting.
		save()
	default:
		c.saves.Add(1)
		go func() {
			defer c.saves.Done()
			save()
		}()
	}
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists || lobby.Host.ID() != msg.SessionID {
		return
	}

	delete(c.lobbies, code)
	delete(c.sessionLobby, msg.SessionID)
	c.logger.Info("lobby cancelled", "code", code)
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}
	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handleMove(msg MoveMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		if session, ok := c.sessions.Get(msg.SessionID); ok {
			session.Send(MoveRejectedEvent{MatchID: msg.MatchID, Cell: msg.Cell, Reason: "match not found"})
		}
		return
	}
	match.SubmitMove(msg.SessionID, msg.Cell)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		delete(c.lobbies, code)
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		if now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// Lobby returns a lobby by code.
func (c *Coordinator) Lobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// Match returns an active match by ID.
func (c *Coordinator) Match(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of active matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}

// SessionRegistry returns the registry of connected sessions.
func (c *Coordinator) SessionRegistry() *SessionRegistry {
	return c.sessions
}
