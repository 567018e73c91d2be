// Package storage provides the session-scoped archive of full tool outputs.
//
// Transcript entries carry size-capped tool output; the untruncated text
// lands here, keyed by the tool request id, so it can still be inspected
// from the console. The backing SQLite file lives for one session and is
// removed on Close - nothing survives a restart.
//
// Information Hiding:
// - SQLite connection management hidden
// - Schema details encapsulated
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// OutputStore archives full tool outputs for the duration of one session.
type OutputStore struct {
	db   *sql.DB
	path string // empty for in-memory stores
}

// OpenSession creates an OutputStore backed by a temp file that is deleted
// on Close.
func OpenSession() (*OutputStore, error) {
	f, err := os.CreateTemp("", "playpen-session-*.db")
	if err != nil {
		return nil, fmt.Errorf("failed to create session database: %w", err)
	}
	path := f.Name()
	f.Close()

	store, err := open(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	store.path = path
	return store, nil
}

// OpenInMemory creates an in-memory OutputStore (useful for testing).
func OpenInMemory() (*OutputStore, error) {
	return open(":memory:")
}

func open(path string) (*OutputStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &OutputStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *OutputStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS tool_outputs (
			request_id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			output TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Put archives the full output of one tool invocation.
func (s *OutputStore) Put(ctx context.Context, requestID, tool, output string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tool_outputs (request_id, tool, output, created_at) VALUES (?, ?, ?, ?)`,
		requestID, tool, output, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store tool output: %w", err)
	}
	return nil
}

// Get returns the archived output for a request id.
// The second return value is false when no output is stored under that id.
func (s *OutputStore) Get(ctx context.Context, requestID string) (string, bool, error) {
	var output string
	err := s.db.QueryRowContext(ctx,
		`SELECT output FROM tool_outputs WHERE request_id = ?`, requestID,
	).Scan(&output)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load tool output: %w", err)
	}
	return output, true, nil
}

// RequestIDs returns the archived request ids, newest first.
func (s *OutputStore) RequestIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT request_id FROM tool_outputs ORDER BY created_at DESC, request_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tool outputs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tool output row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database and removes the session file.
func (s *OutputStore) Close() error {
	err := s.db.Close()
	if s.path != "" {
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	}
	return err
}
