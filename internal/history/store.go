// Package history persists an audit log of auto-research attempts in
// SQLite. The log is advisory: the trigger records into it best-effort
// and keeps working when the store is unavailable. The rate-limit
// budget itself is deliberately in-memory only — this store exists for
// inspection (the research_history tool), not enforcement.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/planscout/planscout/internal/research"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Attempt is one recorded auto-research invocation.
type Attempt struct {
	ID               string   `json:"id"`
	SessionID        string   `json:"session_id"`
	Query            string   `json:"query"`
	Triggered        bool     `json:"triggered"`
	ConfidenceBefore int      `json:"confidence_before"`
	ConfidenceAfter  int      `json:"confidence_after"`
	References       []string `json:"references"`
	Note             string   `json:"note,omitempty"`
	CreatedAt        string   `json:"created_at"`
}

// Stats holds aggregate counts over the whole log.
type Stats struct {
	TotalAttempts int `json:"total_attempts"`
	Triggered     int `json:"triggered"`
	Degraded      int `json:"degraded"`
	TotalSessions int `json:"total_sessions"`
}

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig places the database under ~/.planscout.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".planscout")}
}

// Store is the SQLite-backed attempt log.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the history database.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS research_attempts (
			id                TEXT PRIMARY KEY,
			session_id        TEXT    NOT NULL,
			query             TEXT    NOT NULL,
			triggered         INTEGER NOT NULL,
			confidence_before INTEGER NOT NULL,
			confidence_after  INTEGER NOT NULL,
			refs              TEXT    NOT NULL DEFAULT '[]',
			note              TEXT    NOT NULL DEFAULT '',
			created_at        TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_attempts_session ON research_attempts(session_id);
		CREATE INDEX IF NOT EXISTS idx_attempts_created ON research_attempts(created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// RecordAttempt implements research.Recorder.
func (s *Store) RecordAttempt(ctx context.Context, rec research.AttemptRecord) error {
	refs, err := json.Marshal(rec.References)
	if err != nil {
		return fmt.Errorf("history: marshal references: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO research_attempts
			(id, session_id, query, triggered, confidence_before, confidence_after, refs, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		rec.SessionID,
		rec.Query,
		boolToInt(rec.Triggered),
		rec.ConfidenceBefore,
		rec.ConfidenceAfter,
		string(refs),
		rec.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("history: insert attempt: %w", err)
	}
	return nil
}

// BySession returns the most recent attempts for one session, newest
// first. limit <= 0 means a default of 20.
func (s *Store) BySession(ctx context.Context, sessionID string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, query, triggered, confidence_before, confidence_after, refs, note, created_at
		FROM research_attempts
		WHERE session_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		var triggered int
		var refs string
		if err := rows.Scan(
			&a.ID, &a.SessionID, &a.Query, &triggered,
			&a.ConfidenceBefore, &a.ConfidenceAfter, &refs, &a.Note, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("history: scan attempt: %w", err)
		}
		a.Triggered = triggered != 0
		if err := json.Unmarshal([]byte(refs), &a.References); err != nil {
			return nil, fmt.Errorf("history: parse references: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate attempts: %w", err)
	}
	return attempts, nil
}

// GetStats returns aggregate counts over the whole log.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(triggered), 0),
			COUNT(*) - COALESCE(SUM(triggered), 0),
			COUNT(DISTINCT session_id)
		FROM research_attempts`,
	).Scan(&st.TotalAttempts, &st.Triggered, &st.Degraded, &st.TotalSessions)
	if err != nil {
		return nil, fmt.Errorf("history: stats: %w", err)
	}
	return &st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
