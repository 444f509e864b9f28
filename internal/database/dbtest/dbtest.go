// Package dbtest opens a migrated Postgres database for store integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
)

// EnvURL names the variable holding the test database connection string.
const EnvURL = "POCKETBOOK_TEST_DATABASE_URL"

// lockKey serializes tests from different packages sharing one database.
const lockKey = 0x706f636b

// Open skips the test unless EnvURL is set. Otherwise it takes the shared
// test lock, migrates the database, empties every table and returns a handle.
// The lock and handle are released on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv(EnvURL)
	if url == "" {
		t.Skipf("%s not set, skipping integration test", EnvURL)
	}

	db, err := database.New(url)
	require.NoError(t, err)

	ctx := context.Background()

	conn, err := db.Conn(ctx)
	require.NoError(t, err)

	_, err = conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, lockKey)
		conn.Close()
		db.Close()
	})

	require.NoError(t, database.Migrate(url))

	_, err = db.ExecContext(ctx, `TRUNCATE transactions, categories, accounts`)
	require.NoError(t, err)

	return db
}
