package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-reversi/internal/core"
	"github.com/vovakirdan/tui-reversi/internal/games/modes"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/multiplayer"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var enterKey = tea.KeyMsg{Type: tea.KeyEnter}

func TestBoardKeyMap(t *testing.T) {
	keys := DefaultBoardKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runeKey('j'), core.ActionDown},
		{runeKey('h'), core.ActionLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{enterKey, core.ActionPlace},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionPlace},
		{runeKey('u'), core.ActionUndo},
		{runeKey('n'), core.ActionNewGame},
		{runeKey('?'), core.ActionHelp},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{runeKey('q'), core.ActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{runeKey('x'), core.ActionNone},
	}

	for _, tt := range tests {
		if got := keys.MapKey(tt.msg); got != tt.want {
			t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}

func newHotseatBoard(t *testing.T) BoardModel {
	t.Helper()
	m, err := NewLocalGame(modes.Hotseat, registry.Options{}, Players{Black: "ann", White: "bob"}, nil, 80, 24)
	if err != nil {
		t.Fatalf("NewLocalGame() error = %v", err)
	}
	return m
}

func press(m BoardModel, msgs ...tea.Msg) BoardModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(BoardModel)
	}
	return m
}

func TestBoardPlaceAndUndo(t *testing.T) {
	m := newHotseatBoard(t)

	m = press(m, enterKey)
	if got := m.State().MoveCounter(); got != 1 {
		t.Fatalf("move counter = %d, want 1", got)
	}
	if len(m.status) == 0 || m.status[len(m.status)-1] != "Black moved disk to D4" {
		t.Errorf("status = %v", m.status)
	}

	m = press(m, enterKey)
	if got := m.State().MoveCounter(); got != 1 {
		t.Errorf("occupied cell accepted, move counter = %d", got)
	}
	if !strings.Contains(m.flash.text, "Illegal move at D4") {
		t.Errorf("flash = %q", m.flash.text)
	}

	m = press(m, runeKey('u'))
	if got := m.State().MoveCounter(); got != 0 {
		t.Errorf("after undo move counter = %d, want 0", got)
	}

	m = press(m, runeKey('u'))
	if m.flash.text != "Nothing to undo" {
		t.Errorf("flash = %q, want Nothing to undo", m.flash.text)
	}
}

func TestBoardCursorStaysOnBoard(t *testing.T) {
	m := newHotseatBoard(t)
	for range 10 {
		m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if want := reversi.NewCell(0, reversi.Size-1); m.cursor != want {
		t.Errorf("cursor = %v, want %v", m.cursor, want)
	}
}

func TestBoardSingleAnswersMove(t *testing.T) {
	m, err := NewLocalGame(modes.Single, registry.Options{LookAhead: 1}, Players{Black: "ann"}, nil, 80, 24)
	if err != nil {
		t.Fatalf("NewLocalGame() error = %v", err)
	}
	if m.players.White != "CPU" {
		t.Errorf("white player = %q, want CPU", m.players.White)
	}

	m = press(m, enterKey)
	st := m.State()
	if st.MoveCounter() != 2 || st.CurrentPlayer() != reversi.Black {
		t.Errorf("after one move: counter %d, current %v", st.MoveCounter(), st.CurrentPlayer())
	}
}

func TestBoardBackAndQuit(t *testing.T) {
	m := press(newHotseatBoard(t), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || m.IsQuitting() {
		t.Errorf("esc: back=%v quit=%v", m.BackToMenu(), m.IsQuitting())
	}

	m = press(newHotseatBoard(t), runeKey('q'))
	if !m.IsQuitting() {
		t.Error("q did not quit")
	}
}

func TestBoardView(t *testing.T) {
	view := newHotseatBoard(t).View()
	for _, want := range []string{"HOTSEAT", "Black (ann) to move"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTurnLine(t *testing.T) {
	st := reversi.NewGameState()
	if got := turnLine(st, Players{}); got != "Black to move" {
		t.Errorf("turnLine() = %q", got)
	}
	st.SetPhase(reversi.PhaseWaiting)
	if got := turnLine(st, Players{}); got != "Waiting for an opponent" {
		t.Errorf("turnLine(waiting) = %q", got)
	}
}

func TestEndLine(t *testing.T) {
	tests := []struct {
		name string
		evt  multiplayer.MatchEndedEvent
		side reversi.Player
		want string
	}{
		{
			name: "disconnect",
			evt:  multiplayer.MatchEndedEvent{Reason: multiplayer.MatchEndReasonDisconnect},
			side: reversi.Black,
			want: "Match aborted: a player left",
		},
		{
			name: "draw",
			evt:  multiplayer.MatchEndedEvent{Black: 32, White: 32},
			side: reversi.White,
			want: "Game over. Draw!",
		},
		{
			name: "won",
			evt:  multiplayer.MatchEndedEvent{Winner: reversi.White, HasWinner: true, Black: 20, White: 44},
			side: reversi.White,
			want: "Game over. You won 44 to 20",
		},
		{
			name: "lost",
			evt:  multiplayer.MatchEndedEvent{Winner: reversi.White, HasWinner: true, Black: 20, White: 44},
			side: reversi.Black,
			want: "Game over. You lost 20 to 44",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := endLine(tt.evt, tt.side); got != tt.want {
				t.Errorf("endLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMenuItems(t *testing.T) {
	items := menuItems(false, false)
	if len(items) != 3 {
		t.Fatalf("offline menu has %d items, want 3", len(items))
	}
	if items[0].Mode != modes.Single || items[1].Mode != modes.Hotseat || items[2].Choice != ChoiceQuit {
		t.Errorf("offline menu = %+v", items)
	}

	items = menuItems(true, true)
	var choices []MenuChoice
	for _, it := range items {
		choices = append(choices, it.Choice)
	}
	want := []MenuChoice{ChoiceLocal, ChoiceLocal, ChoiceHostOnline, ChoiceJoinOnline, ChoiceHistory, ChoiceQuit}
	if len(choices) != len(want) {
		t.Fatalf("online menu choices = %v, want %v", choices, want)
	}
	for i := range want {
		if choices[i] != want[i] {
			t.Errorf("item %d = %v, want %v", i, choices[i], want[i])
		}
	}
}

func TestMenuCursorWraps(t *testing.T) {
	m := NewMenuModel(false, false, 80, 24)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(MenuModel)
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want last item", m.cursor)
	}
}

func TestAppModelRouting(t *testing.T) {
	app := NewAppModel(AppConfig{Username: "ann", StartMode: modes.Hotseat}, 80, 24)
	if app.screen != screenBoard {
		t.Fatalf("start screen = %v, want board", app.screen)
	}

	next, _ := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = next.(AppModel)
	if app.screen != screenMenu {
		t.Fatalf("after esc screen = %v, want menu", app.screen)
	}

	next, _ = app.Update(enterKey)
	app = next.(AppModel)
	if app.screen != screenBoard || app.board.mode != modes.Single {
		t.Errorf("after select screen = %v mode = %q", app.screen, app.board.mode)
	}
	if app.board.players.Black != "ann" {
		t.Errorf("black player = %q, want ann", app.board.players.Black)
	}
}

func TestAppModelDropsSessionEventsOutsideOnline(t *testing.T) {
	session := multiplayer.NewChannelSession(multiplayer.NewSessionID(), "ann", 4)
	defer session.Close()
	coordinator := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), multiplayer.NewSessionRegistry(), nil)

	app := NewAppModel(AppConfig{Session: session, Coordinator: coordinator}, 80, 24)
	next, cmd := app.Update(sessionEventMsg{evt: multiplayer.LobbyCreatedEvent{Code: "ABC123"}})
	app = next.(AppModel)
	if app.screen != screenMenu {
		t.Errorf("screen = %v, want menu", app.screen)
	}
	if cmd == nil {
		t.Error("session pump not re-armed")
	}
}
