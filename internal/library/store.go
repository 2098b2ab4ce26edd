// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library persists the prompt library (saved prompts and their usage
// log) in SQLite and serves stored recommendation candidates.
//
// A prompt is visible to a user when the user owns it or it is shared.
// Only owners may update, delete, or bump usage of a prompt.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/pdiddy/promptrec/pkg/types"
)

// ErrNotFound is returned when a prompt does not exist or is not visible to
// the caller.
var ErrNotFound = errors.New("prompt not found")

// DefaultPoolSize caps how many entries Candidates scores per request.
const DefaultPoolSize = 100

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the prompt library database.
type Store struct {
	db       *sql.DB
	poolSize int
	logger   zerolog.Logger
	now      func() time.Time
}

// NewStore opens or creates the SQLite database at cfg.DBPath and creates
// the schema if it does not exist. poolSize <= 0 means DefaultPoolSize.
func NewStore(cfg types.LibraryConfig, poolSize int, logger zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=2000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	s := &Store{
		db:       db,
		poolSize: poolSize,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS prompt_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			summary TEXT,
			content TEXT NOT NULL,
			combo_type TEXT NOT NULL DEFAULT 'all',
			tags TEXT NOT NULL DEFAULT '[]',
			metadata TEXT,
			is_shared INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_entries_user ON prompt_entries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_entries_usage ON prompt_entries(usage_count DESC)`,
		`CREATE TABLE IF NOT EXISTS prompt_usage_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			prompt_id TEXT REFERENCES prompt_entries(id) ON DELETE SET NULL,
			project_id TEXT,
			combo_type TEXT,
			provider TEXT,
			tokens_input INTEGER,
			tokens_output INTEGER,
			cost_usd REAL,
			metadata TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prompt_usage_logs_user ON prompt_usage_logs(user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
