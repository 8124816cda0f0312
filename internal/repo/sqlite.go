package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/pkordes/rv-planner/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteDocumentStore is the local DocumentStore: a single-file database on
// the machine running the server or the terminal client. It plays the role
// browser local storage plays for the web app.
type SQLiteDocumentStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (or creates) the SQLite database at path and makes sure
// the documents table exists. Pass ":memory:" for a throwaway store.
func OpenSQLite(path string) (*SQLiteDocumentStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: open: %w", err)
	}

	// One connection: SQLite serialises writers anyway, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000", sqliteSchema} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %q: %w", stmt, err)
		}
	}

	return &SQLiteDocumentStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteDocumentStore) Close() error {
	return s.db.Close()
}

// Get reads a document by key.
func (s *SQLiteDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM documents WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("repo.SQLiteDocumentStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.SQLiteDocumentStore.Get: %w", err)
	}
	return []byte(value), nil
}

// Put upserts a document.
func (s *SQLiteDocumentStore) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO documents (key, value, updated_at)
		VALUES (:key, :value, :updated_at)
		ON CONFLICT (key) DO UPDATE
		SET value      = excluded.value,
		    updated_at = excluded.updated_at`

	_, err := s.db.NamedExecContext(ctx, q, map[string]any{
		"key":        key,
		"value":      string(value),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("repo.SQLiteDocumentStore.Put: %w", err)
	}
	return nil
}
