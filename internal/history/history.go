// Package history records bmad tool invocations in SQLite.
//
// The *stats built-in and doctor --full read it back. Recording is best
// effort: the server logs and moves on when the store misbehaves, a
// request never fails over history.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Invocation is one recorded bmad command.
type Invocation struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"session_id"`
	Command    string `json:"command"`
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	Success    bool   `json:"success"`
	ExitCode   int    `json:"exit_code"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// RecordParams holds the input for logging one invocation.
type RecordParams struct {
	SessionID string
	Command   string
	Kind      string
	Name      string
	Success   bool
	ExitCode  int
	Error     string
	Duration  time.Duration
}

// NameCount pairs a name with how often it occurred.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats aggregates the invocation log.
type Stats struct {
	TotalInvocations int          `json:"total_invocations"`
	ByKind           []NameCount  `json:"by_kind"`
	TopAgents        []NameCount  `json:"top_agents"`
	TopWorkflows     []NameCount  `json:"top_workflows"`
	RecentErrors     []Invocation `json:"recent_errors,omitempty"`
	FirstRecordedAt  string       `json:"first_recorded_at,omitempty"`
}

// Store is the invocation log backed by SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the invocation log at path.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
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

// DefaultPath is the invocation log location when none is configured.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bmad-mcp", "history.db")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS invocations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT    NOT NULL,
			command     TEXT    NOT NULL,
			kind        TEXT    NOT NULL,
			name        TEXT    NOT NULL DEFAULT '',
			success     INTEGER NOT NULL,
			exit_code   INTEGER NOT NULL DEFAULT 0,
			error       TEXT    NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_inv_kind    ON invocations(kind);
		CREATE INDEX IF NOT EXISTS idx_inv_name    ON invocations(kind, name);
		CREATE INDEX IF NOT EXISTS idx_inv_created ON invocations(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one invocation and returns its row id.
func (s *Store) Record(p RecordParams) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO invocations (session_id, command, kind, name, success, exit_code, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SessionID, p.Command, p.Kind, p.Name, p.Success, p.ExitCode, p.Error, p.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("history: record invocation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: record invocation: %w", err)
	}
	return id, nil
}

// Recent returns the latest invocations, newest first.
func (s *Store) Recent(limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryInvocations(
		`SELECT id, session_id, command, kind, name, success, exit_code, error, duration_ms, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
}

// RecentErrors returns the latest failed invocations, newest first.
func (s *Store) RecentErrors(limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.queryInvocations(
		`SELECT id, session_id, command, kind, name, success, exit_code, error, duration_ms, created_at
		 FROM invocations WHERE success = 0 ORDER BY id DESC LIMIT ?`, limit)
}

// Stats aggregates the whole log. Partial failures degrade to zero
// values rather than erroring.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	_ = s.db.QueryRow("SELECT COUNT(*) FROM invocations").Scan(&stats.TotalInvocations)
	var first sql.NullString
	_ = s.db.QueryRow("SELECT MIN(created_at) FROM invocations").Scan(&first)
	stats.FirstRecordedAt = first.String

	var err error
	if stats.ByKind, err = s.nameCounts(
		`SELECT kind, COUNT(*) FROM invocations GROUP BY kind ORDER BY COUNT(*) DESC, kind`); err != nil {
		return stats, err
	}
	if stats.TopAgents, err = s.nameCounts(
		`SELECT name, COUNT(*) FROM invocations WHERE kind = 'agent' AND name != ''
		 GROUP BY name ORDER BY COUNT(*) DESC, name LIMIT 5`); err != nil {
		return stats, err
	}
	if stats.TopWorkflows, err = s.nameCounts(
		`SELECT name, COUNT(*) FROM invocations WHERE kind = 'workflow' AND name != ''
		 GROUP BY name ORDER BY COUNT(*) DESC, name LIMIT 5`); err != nil {
		return stats, err
	}

	stats.RecentErrors, err = s.RecentErrors(5)
	return stats, err
}

func (s *Store) nameCounts(query string) ([]NameCount, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("history: stats query: %w", err)
	}
	defer rows.Close()

	var out []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("history: stats scan: %w", err)
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}

func (s *Store) queryInvocations(query string, args ...any) ([]Invocation, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: query invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation
	for rows.Next() {
		var inv Invocation
		if err := rows.Scan(&inv.ID, &inv.SessionID, &inv.Command, &inv.Kind, &inv.Name,
			&inv.Success, &inv.ExitCode, &inv.Error, &inv.DurationMS, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan invocation: %w", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
