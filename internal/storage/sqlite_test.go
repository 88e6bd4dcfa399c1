package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	// Reopening runs the migrations again on an existing schema.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	store.Close()
}

func TestStoreSaveAndLookup(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveGame(GameRecord{
		MatchID:    "m-1",
		Mode:       "single",
		BlackName:  "alice",
		WhiteName:  "CPU",
		BlackDisks: 40,
		WhiteDisks: 24,
		Winner:     "BLACK",
		EndReason:  EndReasonCompleted,
		Moves:      60,
		FinalState: []byte(`{"phase":"FINISHED"}`),
	})
	if err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	rec, err := store.GameByMatchID("m-1")
	if err != nil {
		t.Fatalf("GameByMatchID() failed: %v", err)
	}
	if rec.ID != id || rec.Mode != "single" || rec.Winner != "BLACK" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.BlackDisks != 40 || rec.WhiteDisks != 24 || rec.Moves != 60 {
		t.Errorf("unexpected counts: %+v", rec)
	}
	if string(rec.FinalState) != `{"phase":"FINISHED"}` {
		t.Errorf("FinalState = %s", rec.FinalState)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	if _, err := store.GameByMatchID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GameByMatchID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStoreSaveGameValidation(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveGame(GameRecord{EndReason: "completed"}); err == nil {
		t.Error("Expected error for empty mode")
	}

	// Match IDs are generated when missing and must be unique.
	if _, err := store.SaveGame(GameRecord{Mode: "hotseat", EndReason: "completed"}); err != nil {
		t.Fatalf("SaveGame() without match ID failed: %v", err)
	}
	if _, err := store.SaveGame(GameRecord{MatchID: "dup", Mode: "hotseat", EndReason: "completed"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveGame(GameRecord{MatchID: "dup", Mode: "hotseat", EndReason: "completed"}); err == nil {
		t.Error("Expected error for duplicate match ID")
	}
}

func TestStoreRecentGames(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		_, err := store.SaveGame(GameRecord{Mode: "hotseat", EndReason: "completed", Moves: i})
		if err != nil {
			t.Fatal(err)
		}
	}

	games, err := store.RecentGames(3)
	if err != nil {
		t.Fatalf("RecentGames() failed: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(games))
	}
	// Same-second timestamps fall back to insertion order.
	if games[0].Moves != 4 || games[2].Moves != 2 {
		t.Errorf("games not newest first: %d, %d", games[0].Moves, games[2].Moves)
	}

	all, err := store.RecentGames(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("RecentGames(0) returned %d games, want 5", len(all))
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	records := []GameRecord{
		{Mode: "single", Winner: "BLACK", EndReason: "completed"},
		{Mode: "single", Winner: "WHITE", EndReason: "completed"},
		{Mode: "single", Winner: "WHITE", EndReason: "completed"},
		{Mode: "hotseat", Winner: "", EndReason: "completed"},
		{Mode: "hotseat", Winner: "", EndReason: "quit"},
	}
	for _, rec := range records {
		if _, err := store.SaveGame(rec); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}

	single := stats["single"]
	if single == nil || single.Games != 3 || single.BlackWins != 1 || single.WhiteWins != 2 {
		t.Errorf("single stats = %+v", single)
	}
	hotseat := stats["hotseat"]
	if hotseat == nil || hotseat.Games != 2 || hotseat.Draws != 1 || hotseat.Aborted != 1 {
		t.Errorf("hotseat stats = %+v", hotseat)
	}
	if _, ok := stats["online"]; ok {
		t.Error("Expected no stats for unplayed mode")
	}
}

func TestRecordFromState(t *testing.T) {
	r := reversi.New()
	r.Start()
	r.Move(reversi.NewCell(3, 3))

	rec, err := RecordFromState("hotseat", "a", "b", r.State(), "quit")
	if err != nil {
		t.Fatalf("RecordFromState() failed: %v", err)
	}
	if rec.EndReason != "quit" || rec.Winner != "" || rec.Moves != 1 {
		t.Errorf("running game record = %+v", rec)
	}
	if rec.BlackDisks != 1 || rec.WhiteDisks != 0 {
		t.Errorf("disks = %d/%d, want 1/0", rec.BlackDisks, rec.WhiteDisks)
	}

	var decoded reversi.GameState
	if err := json.Unmarshal(rec.FinalState, &decoded); err != nil {
		t.Fatalf("final state is not decodable: %v", err)
	}
	if decoded.MoveCounter() != 1 {
		t.Errorf("decoded move counter = %d", decoded.MoveCounter())
	}

	r.Stop()
	rec, err = RecordFromState("hotseat", "a", "b", r.State(), "quit")
	if err != nil {
		t.Fatal(err)
	}
	if rec.EndReason != EndReasonCompleted || rec.Winner != "BLACK" {
		t.Errorf("finished game record = %+v", rec)
	}
}

func TestSaveMatchResult(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:     "online-1",
		BlackPlayer: "alice",
		WhitePlayer: "bob",
		BlackDisks:  3,
		WhiteDisks:  1,
		EndReason:   "disconnect",
		Moves:       4,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	rec, err := store.GameByMatchID("online-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Mode != ModeOnline || rec.BlackName != "alice" || rec.WhiteName != "bob" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.FinalState != nil {
		t.Errorf("FinalState = %s, want nil", rec.FinalState)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
