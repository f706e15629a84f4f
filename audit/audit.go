// Package audit persists an advisory trail of pipeline runs in sqlite.
// Recording is best-effort: a failed write is logged by the caller and never
// fails the request that produced it.
package audit

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Filename   string    `json:"filename"`
	Format     string    `json:"format"`
	Operation  string    `json:"operation"` // "ingest", "extract", "export"
	Chunks     int       `json:"chunks"`
	Questions  int       `json:"questions"`
	Valid      bool      `json:"valid"`
	Status     string    `json:"status"` // "success" or "error"
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}

// Store persists pipeline runs.
type Store struct {
	db *sql.DB
}

// Open opens (creating directories as needed) the audit database at path and
// prepares its schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	s := NewStore(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing database handle. Call Init before recording.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Init creates the audit schema. Idempotent.
func (s *Store) Init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS pipeline_runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			filename    TEXT NOT NULL DEFAULT '',
			format      TEXT NOT NULL DEFAULT '',
			operation   TEXT NOT NULL,
			chunks      INTEGER NOT NULL DEFAULT 0,
			questions   INTEGER NOT NULL DEFAULT 0,
			valid       INTEGER NOT NULL DEFAULT 0,
			status      TEXT NOT NULL,
			error       TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_pipeline_runs_timestamp
			ON pipeline_runs(timestamp DESC);
	`)
	if err != nil {
		return fmt.Errorf("audit schema: %w", err)
	}
	return nil
}

// Record inserts a run. Fills ID and Timestamp when unset.
func (s *Store) Record(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = newRunID()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	valid := 0
	if r.Valid {
		valid = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pipeline_runs
			(id, timestamp, filename, format, operation, chunks, questions, valid, status, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Timestamp.UnixMilli(), r.Filename, r.Format, r.Operation,
		r.Chunks, r.Questions, valid, r.Status, r.Error, r.DurationMs)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, filename, format, operation, chunks, questions, valid, status, error, duration_ms
		FROM pipeline_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var ts int64
		var valid int
		if err := rows.Scan(&r.ID, &ts, &r.Filename, &r.Format, &r.Operation,
			&r.Chunks, &r.Questions, &valid, &r.Status, &r.Error, &r.DurationMs); err != nil {
			return nil, err
		}
		r.Timestamp = time.UnixMilli(ts)
		r.Valid = valid != 0
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// Count returns the total number of recorded runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pipeline_runs`).Scan(&n)
	return n, err
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func newRunID() string {
	var b [8]byte
	rand.Read(b[:])
	return "run_" + hex.EncodeToString(b[:])
}
