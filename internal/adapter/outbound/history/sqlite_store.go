// Package history persists manifest validation runs to a local SQLite
// database so authors can review recent results without re-running
// validation.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/json-agents/jsonagents-go/internal/service"
)

// Entry is one recorded validation run.
type Entry struct {
	// ID is the validation run ID.
	ID string
	// File is the manifest path that was validated.
	File string
	// Valid is the run outcome.
	Valid bool
	// Errors and Warnings are the recorded diagnostics.
	Errors   []string
	Warnings []string
	// Duration is how long the run took.
	Duration time.Duration
	// CreatedAt is when the run started (UTC).
	CreatedAt time.Time
}

// SQLiteStore implements service.HistoryStore on a SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	file        TEXT NOT NULL,
	valid       INTEGER NOT NULL,
	errors      TEXT NOT NULL,
	warnings    TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// NewSQLiteStore opens (and if needed initializes) the history database
// at path.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// Single writer; WAL keeps readers unblocked during writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec(createRunsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Debug("history store opened", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Record stores one completed validation run.
func (s *SQLiteStore) Record(ctx context.Context, r service.Report) error {
	errsJSON, err := json.Marshal(emptyIfNil(r.Errors))
	if err != nil {
		return fmt.Errorf("encode errors: %w", err)
	}
	warningsJSON, err := json.Marshal(emptyIfNil(r.Warnings))
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, file, valid, errors, warnings, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.File, boolToInt(r.Valid), string(errsJSON), string(warningsJSON),
		r.Duration.Milliseconds(), r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, valid, errors, warnings, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			valid      int
			errsJSON   string
			warnJSON   string
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&e.ID, &e.File, &valid, &errsJSON, &warnJSON, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.Valid = valid != 0
		if err := json.Unmarshal([]byte(errsJSON), &e.Errors); err != nil {
			return nil, fmt.Errorf("decode errors: %w", err)
		}
		if err := json.Unmarshal([]byte(warnJSON), &e.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		e.CreatedAt = ts
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compile-time check that SQLiteStore satisfies the service contract.
var _ service.HistoryStore = (*SQLiteStore)(nil)
