package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/database/dbtest"
)

func countAccounts(t *testing.T, db *sql.DB) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&n))

	return n
}

func TestWithTx_Commit(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO accounts (name) VALUES ('Bank')`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countAccounts(t, db))
}

func TestWithTx_RollbackOnError(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (name) VALUES ('Bank')`); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countAccounts(t, db))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = database.WithTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `INSERT INTO accounts (name) VALUES ('Bank')`); err != nil {
				return err
			}

			panic("mid-transaction")
		})
	})
	assert.Equal(t, 0, countAccounts(t, db))
}
