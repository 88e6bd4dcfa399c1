package modes

import (
	"testing"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/registry"
)

func TestModesRegistered(t *testing.T) {
	modes := registry.List()
	if len(modes) != 2 {
		t.Fatalf("registered modes = %v, want 2", modes)
	}
	if modes[0].ID != Hotseat || modes[1].ID != Single {
		t.Errorf("mode order = %v, want [%s %s]", modes, Hotseat, Single)
	}
	if registry.Exists("tournament") {
		t.Error("unknown mode reported as existing")
	}
	if _, err := registry.Create("tournament", registry.Options{}); err == nil {
		t.Error("creating an unknown mode succeeded")
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate mode did not panic")
		}
	}()
	registry.Register(Hotseat, "again", nil)
}

func TestHotseatAlternatesHumans(t *testing.T) {
	g, err := registry.Create(Hotseat, registry.Options{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !g.Move(reversi.Cell{Column: 3, Row: 3}) {
		t.Fatal("move rejected")
	}
	if got := g.State().CurrentPlayer(); got != reversi.White {
		t.Errorf("current player = %v, want White", got)
	}
	if g.Events() != nil {
		t.Error("events enabled without a buffer")
	}
}

func TestSingleAnswersWithComputerMove(t *testing.T) {
	g, err := registry.Create(Single, registry.Options{LookAhead: 2, EventBuffer: 8})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !g.Move(reversi.Cell{Column: 3, Row: 3}) {
		t.Fatal("move rejected")
	}

	s := g.State()
	if s.CurrentPlayer() != reversi.Black {
		t.Errorf("current player = %v, want Black", s.CurrentPlayer())
	}
	if s.MoveCounter() != 2 {
		t.Errorf("move counter = %d, want 2", s.MoveCounter())
	}

	events := 0
	for len(g.Events()) > 0 {
		<-g.Events()
		events++
	}
	if events != 2 {
		t.Errorf("events = %d, want one per applied move", events)
	}

	g.UndoMove()
	if g.CanUndo() {
		t.Error("undo left moves in the history")
	}
}
