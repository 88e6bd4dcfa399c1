package multiplayer

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
)

const waitTimeout = 5 * time.Second

// waitFor reads events from the session until one of type T arrives.
func waitFor[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case evt := <-s.Events():
			if want, ok := evt.(T); ok {
				return want
			}
		case <-deadline:
			var zero T
			t.Fatalf("session %s: timed out waiting for %T", s.ID(), zero)
			return zero
		}
	}
}

type recordingSaver struct {
	mu      sync.Mutex
	results []MatchResultData
	saved   chan struct{}
}

func newRecordingSaver() *recordingSaver {
	return &recordingSaver{saved: make(chan struct{}, 4)}
}

func (r *recordingSaver) SaveMatchResult(data MatchResultData) error {
	r.mu.Lock()
	r.results = append(r.results, data)
	r.mu.Unlock()
	r.saved <- struct{}{}
	return nil
}

func newTestCoordinator(t *testing.T) (*Coordinator, *ChannelSession, *ChannelSession) {
	t.Helper()
	sessions := NewSessionRegistry()
	host := NewChannelSession("host", "alice", 64)
	joiner := NewChannelSession("joiner", "bob", 64)
	sessions.Register(host)
	sessions.Register(joiner)

	c := NewCoordinator(DefaultCoordinatorConfig(), sessions, nil)
	c.Start()
	t.Cleanup(c.Stop)
	return c, host, joiner
}

func TestCoordinatorLobbyErrors(t *testing.T) {
	c, host, joiner := newTestCoordinator(t)

	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: "NOPE42"})
	if evt := waitFor[LobbyErrorEvent](t, joiner); evt.Message != "Lobby not found" {
		t.Errorf("error = %q", evt.Message)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	created := waitFor[LobbyCreatedEvent](t, host)
	if len(created.Code) != 6 {
		t.Errorf("lobby code %q is not 6 characters", created.Code)
	}

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	waitFor[LobbyErrorEvent](t, host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})
	waitFor[LobbyErrorEvent](t, host)

	c.Send(CancelLobbyMsg{SessionID: host.ID(), Code: created.Code})
	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})
	if evt := waitFor[LobbyErrorEvent](t, joiner); evt.Message != "Lobby not found" {
		t.Errorf("join after cancel: %q", evt.Message)
	}
	if c.LobbyCount() != 0 {
		t.Errorf("lobby count = %d, want 0", c.LobbyCount())
	}
}

func TestCoordinatorMatchFlow(t *testing.T) {
	c, host, joiner := newTestCoordinator(t)
	saver := newRecordingSaver()
	c.SetResultSaver(saver)

	c.Send(CreateLobbyMsg{SessionID: host.ID()})
	code := waitFor[LobbyCreatedEvent](t, host).Code

	// Codes are matched case-insensitively.
	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: " " + strings.ToLower(code) + " "})

	hostStart := waitFor[MatchStartedEvent](t, host)
	joinerStart := waitFor[MatchStartedEvent](t, joiner)
	if hostStart.Side != reversi.Black || joinerStart.Side != reversi.White {
		t.Fatalf("sides = %v/%v, want Black/White", hostStart.Side, joinerStart.Side)
	}
	if hostStart.Opponent != "bob" || joinerStart.Opponent != "alice" {
		t.Errorf("opponents = %q/%q", hostStart.Opponent, joinerStart.Opponent)
	}
	matchID := hostStart.MatchID

	initial := waitFor[StateEvent](t, joiner)
	s, err := initial.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Phase() != reversi.PhaseRunning || initial.MoveCounter != 0 {
		t.Errorf("initial state phase=%v counter=%d", s.Phase(), initial.MoveCounter)
	}

	c.Send(MoveMsg{SessionID: joiner.ID(), MatchID: matchID, Cell: reversi.NewCell(3, 3)})
	if evt := waitFor[MoveRejectedEvent](t, joiner); evt.Reason != "not your turn" {
		t.Errorf("reject reason = %q", evt.Reason)
	}

	c.Send(MoveMsg{SessionID: host.ID(), MatchID: matchID, Cell: reversi.NewCell(0, 0)})
	if evt := waitFor[MoveRejectedEvent](t, host); evt.Reason != "illegal move" {
		t.Errorf("reject reason = %q", evt.Reason)
	}

	c.Send(MoveMsg{SessionID: host.ID(), MatchID: matchID, Cell: reversi.NewCell(3, 3)})
	moved := waitFor[StateEvent](t, joiner)
	if moved.MoveCounter != 1 {
		t.Errorf("move counter = %d, want 1", moved.MoveCounter)
	}

	c.Send(LeaveMatchMsg{SessionID: joiner.ID(), MatchID: matchID})
	ended := waitFor[MatchEndedEvent](t, host)
	if ended.Reason != MatchEndReasonDisconnect {
		t.Errorf("end reason = %v", ended.Reason)
	}
	if ended.HasWinner {
		t.Error("disconnect reported a winner")
	}
	if ended.Black != 1 || ended.White != 0 {
		t.Errorf("final disks = %d/%d, want 1/0", ended.Black, ended.White)
	}

	select {
	case <-saver.saved:
	case <-time.After(waitTimeout):
		t.Fatal("match result not saved")
	}
	saver.mu.Lock()
	got := saver.results[0]
	saver.mu.Unlock()
	if got.MatchID != string(matchID) || got.EndReason != "disconnect" {
		t.Errorf("saved result = %+v", got)
	}
	if got.BlackPlayer != "alice" || got.WhitePlayer != "bob" || got.Moves != 1 {
		t.Errorf("saved result = %+v", got)
	}

	if c.MatchCount() != 0 {
		t.Errorf("match count = %d, want 0", c.MatchCount())
	}
}

func TestOnlineMatchPlaysToCompletion(t *testing.T) {
	black := NewChannelSession("b", "black", 128)
	white := NewChannelSession("w", "white", 128)
	m := NewOnlineMatch(NewMatchID(), "ABCDEF", black, white, nil)

	results := make(chan MatchResult, 1)
	go m.Run(func(r MatchResult) { results <- r })
	t.Cleanup(m.Stop)

	for {
		select {
		case r := <-results:
			if r.Reason != MatchEndReasonCompleted {
				t.Fatalf("end reason = %v", r.Reason)
			}
			if r.Final.Phase() != reversi.PhaseFinished {
				t.Fatalf("final phase = %v", r.Final.Phase())
			}
			if reversi.CanMove(r.Final, reversi.Black) || reversi.CanMove(r.Final, reversi.White) {
				t.Error("match completed while a move was still possible")
			}
			return

		case evt := <-black.Events():
			se, ok := evt.(StateEvent)
			if !ok {
				continue
			}
			s, err := se.Decode()
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if s.Phase() != reversi.PhaseRunning {
				continue
			}
			mover := black.ID()
			if s.CurrentPlayer() == reversi.White {
				mover = white.ID()
			}
			moves := reversi.PossibleMoves(s, s.CurrentPlayer())
			m.SubmitMove(mover, moves[0])

		case <-time.After(waitTimeout):
			t.Fatal("match did not complete")
		}
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("s", "", 2)
	s.Send(LobbyErrorEvent{Message: "1"})
	s.Send(LobbyErrorEvent{Message: "2"})
	s.Send(LobbyErrorEvent{Message: "3"})

	first := (<-s.Events()).(LobbyErrorEvent)
	if first.Message != "2" {
		t.Errorf("first buffered event = %q, want 2", first.Message)
	}
	if s.Name() != "s" {
		t.Errorf("Name() = %q, want the ID as fallback", s.Name())
	}

	s.Close()
	s.Close()
	s.Send(LobbyErrorEvent{Message: "4"})
	if len(s.Events()) != 1 {
		t.Errorf("send after close was queued")
	}
}
