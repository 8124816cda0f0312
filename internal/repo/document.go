// Package repo contains all persistence logic for the RV Planner API.
// Every backend stores whole JSON documents by key: a write replaces the
// document, there are no partial updates. No business logic lives here —
// only storage calls and error mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/rv-planner/internal/domain"
)

// DocumentStore is the key-value persistence collaborator.
// Values are JSON documents; the store does not interpret them.
type DocumentStore interface {
	// Get returns the document stored under key.
	// Returns domain.ErrNotFound if nothing has been stored under key yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, value []byte) error
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx
// and pgxmock pools. Accepting this interface instead of *pgxpool.Pool lets
// integration tests pass a transaction that is rolled back after each test,
// and unit tests pass a mock.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgDocumentStore is the Postgres implementation of DocumentStore.
// It is the remote store: every browser of a user shares it.
type pgDocumentStore struct {
	db db
}

// NewDocumentStore constructs a DocumentStore backed by the documents table.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx or a pgxmock pool.
func NewDocumentStore(db db) DocumentStore {
	return &pgDocumentStore{db: db}
}

// Get reads a document by key.
func (r *pgDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
		SELECT value
		FROM documents
		WHERE key = @key`

	var value []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.DocumentStore.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.DocumentStore.Get: %w", err)
	}
	return value, nil
}

// Put upserts a document. The whole value is replaced on conflict.
func (r *pgDocumentStore) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO documents (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value})
	if err != nil {
		return fmt.Errorf("repo.DocumentStore.Put: %w", err)
	}
	return nil
}
