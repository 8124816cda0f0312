// Package testutil provides the storage backends shared by integration
// tests. Postgres helpers skip the test when TEST_DATABASE_URL is unset;
// Redis runs in-process on miniredis, so those helpers always work.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/rv-planner/internal/repo"
	"github.com/pkordes/rv-planner/migrations"
)

// DSNEnv names the variable holding the Postgres URL of the test database.
const DSNEnv = "TEST_DATABASE_URL"

// NewPool connects to the test database. The pool is closed when the test
// finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := repo.ConnectPostgres(context.Background(), requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB returns a database/sql handle over a fresh pool, which is what
// goose drives migrations through.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db := stdlib.OpenDBFromPool(NewPool(t))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Migrate applies every pending migration to the database at dsn. It is
// meant for TestMain, where no *testing.T exists.
func Migrate(ctx context.Context, dsn string) error {
	pool, err := repo.ConnectPostgres(ctx, dsn)
	if err != nil {
		return fmt.Errorf("testutil.Migrate: %w", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if _, err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("testutil.Migrate: %w", err)
	}
	return nil
}

// NewRedis starts a miniredis server for the test and returns it with a
// connected client.
func NewRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, RedisClient(t, mr)
}

// RedisClient opens one more client on mr, closed when the test finishes.
func RedisClient(t *testing.T, mr *miniredis.Miniredis) *redis.Client {
	t.Helper()
	c := repo.ConnectRedis(mr.Addr(), "")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		t.Skip(DSNEnv + " not set; skipping integration test")
	}
	return dsn
}
