package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/rv-planner/migrations"
	"github.com/pkordes/rv-planner/testutil"
)

// TestMigrations applies the schema from scratch, checks the documents
// table, then rolls everything back. Skipped without TEST_DATABASE_URL.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	// Other packages migrate the shared database in TestMain.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	applied, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Positive(t, applied)

	again, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, again, "a second run has nothing left to apply")

	assert.Equal(t, map[string]string{
		"key":        "text",
		"value":      "jsonb",
		"created_at": "timestamp with time zone",
		"updated_at": "timestamp with time zone",
	}, columnTypes(t, db, "documents"))

	_, err = db.ExecContext(ctx, `INSERT INTO documents (key, value) VALUES ('users/x/folders', 'not json')`)
	assert.Error(t, err, "value only accepts JSON")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	assert.Empty(t, columnTypes(t, db, "documents"), "table dropped")

	// Leave the schema in place for packages that run after this one.
	_, err = migrations.Up(ctx, db)
	require.NoError(t, err)
}

// columnTypes returns the column data types of a table in the public
// schema; an empty map means the table does not exist.
func columnTypes(t *testing.T, db *sql.DB, table string) map[string]string {
	t.Helper()

	const q = `
		SELECT column_name, data_type
		FROM   information_schema.columns
		WHERE  table_schema = 'public'
		AND    table_name   = $1`
	rows, err := db.QueryContext(context.Background(), q, table)
	require.NoError(t, err)
	defer rows.Close()

	cols := map[string]string{}
	for rows.Next() {
		var name, typ string
		require.NoError(t, rows.Scan(&name, &typ))
		cols[name] = typ
	}
	require.NoError(t, rows.Err())
	return cols
}
