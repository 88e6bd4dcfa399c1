// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-reversi/internal/config"
	"github.com/vovakirdan/tui-reversi/internal/games/reversi"
	"github.com/vovakirdan/tui-reversi/internal/multiplayer"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

// ModeOnline is the mode recorded for network matches.
const ModeOnline = "online"

// sqliteTime is the layout SQLite uses for CURRENT_TIMESTAMP.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for game history.
type Store struct {
	db *sql.DB
}

// GameRecord is one finished (or aborted) game.
type GameRecord struct {
	ID         int64
	MatchID    string
	Mode       string
	BlackName  string
	WhiteName  string
	BlackDisks int
	WhiteDisks int
	Winner     string // "BLACK", "WHITE", or empty for a draw or an aborted game
	EndReason  string
	Moves      int
	FinalState []byte // JSON wire form of the last state
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := config.ExpandHome(dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			mode TEXT NOT NULL,
			black_name TEXT NOT NULL DEFAULT '',
			white_name TEXT NOT NULL DEFAULT '',
			black_disks INTEGER NOT NULL DEFAULT 0,
			white_disks INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			end_reason TEXT NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			final_state TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_games_mode ON games(mode);
		CREATE INDEX IF NOT EXISTS idx_games_created ON games(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame records a game. A missing MatchID is generated.
// Returns the ID of the inserted record.
func (s *Store) SaveGame(rec GameRecord) (int64, error) {
	if rec.MatchID == "" {
		rec.MatchID = uuid.NewString()
	}
	if rec.Mode == "" {
		return 0, errors.New("storage: cannot save game: mode is empty")
	}

	var finalState sql.NullString
	if len(rec.FinalState) > 0 {
		finalState = sql.NullString{String: string(rec.FinalState), Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO games
		 (match_id, mode, black_name, white_name, black_disks, white_disks, winner, end_reason, moves, final_state)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.MatchID,
		rec.Mode,
		rec.BlackName,
		rec.WhiteName,
		rec.BlackDisks,
		rec.WhiteDisks,
		rec.Winner,
		rec.EndReason,
		rec.Moves,
		finalState,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save game: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const selectGame = `SELECT id, match_id, mode, black_name, white_name, black_disks, white_disks,
	        winner, end_reason, moves, final_state, created_at
	 FROM games`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (GameRecord, error) {
	var rec GameRecord
	var finalState sql.NullString
	var createdAt any

	err := row.Scan(
		&rec.ID,
		&rec.MatchID,
		&rec.Mode,
		&rec.BlackName,
		&rec.WhiteName,
		&rec.BlackDisks,
		&rec.WhiteDisks,
		&rec.Winner,
		&rec.EndReason,
		&rec.Moves,
		&finalState,
		&createdAt,
	)
	if err != nil {
		return rec, err
	}

	if finalState.Valid {
		rec.FinalState = []byte(finalState.String)
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// RecentGames returns the most recent games, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(selectGame+` ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// GameByMatchID retrieves a game by its match ID. Returns ErrNotFound if absent.
func (s *Store) GameByMatchID(matchID string) (*GameRecord, error) {
	rec, err := scanGame(s.db.QueryRow(selectGame+` WHERE match_id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	return &rec, nil
}

// ModeStats contains aggregated results for one mode.
type ModeStats struct {
	Mode       string
	Games      int
	BlackWins  int
	WhiteWins  int
	Draws      int
	Aborted    int
	LastPlayed time.Time
}

// Stats returns aggregated results per mode, keyed by mode.
func (s *Store) Stats() (map[string]*ModeStats, error) {
	rows, err := s.db.Query(
		`SELECT mode,
		        COUNT(*),
		        SUM(CASE WHEN winner = 'BLACK' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner = 'WHITE' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN winner = '' AND end_reason = 'completed' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN end_reason <> 'completed' THEN 1 ELSE 0 END),
		        MAX(created_at)
		 FROM games
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var m ModeStats
		var lastPlayed any
		if err := rows.Scan(&m.Mode, &m.Games, &m.BlackWins, &m.WhiteWins, &m.Draws, &m.Aborted, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		m.LastPlayed = parseTime(lastPlayed)
		stats[m.Mode] = &m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// EndReasonCompleted marks a game that ended because neither player could move.
const EndReasonCompleted = "completed"

// RecordFromState builds a record for a game that reached the given state.
// Games that are not finished are recorded with the given reason and no winner.
func RecordFromState(mode, blackName, whiteName string, st *reversi.GameState, reason string) (GameRecord, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return GameRecord{}, fmt.Errorf("storage: cannot encode state: %w", err)
	}

	black, white := st.Score()
	rec := GameRecord{
		MatchID:    uuid.NewString(),
		Mode:       mode,
		BlackName:  blackName,
		WhiteName:  whiteName,
		BlackDisks: black,
		WhiteDisks: white,
		EndReason:  reason,
		Moves:      st.MoveCounter(),
		FinalState: data,
	}
	if st.Phase() == reversi.PhaseFinished {
		rec.EndReason = EndReasonCompleted
		if winner, ok := st.Winner(); ok {
			rec.Winner = strings.ToUpper(winner.String())
		}
	}
	return rec, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveGame(GameRecord{
		MatchID:    data.MatchID,
		Mode:       ModeOnline,
		BlackName:  data.BlackPlayer,
		WhiteName:  data.WhitePlayer,
		BlackDisks: data.BlackDisks,
		WhiteDisks: data.WhiteDisks,
		Winner:     data.Winner,
		EndReason:  data.EndReason,
		Moves:      data.Moves,
		FinalState: data.FinalState,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)
