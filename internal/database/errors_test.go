package database_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
)

func TestWrap(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, database.Wrap("listing categories", nil))
	})

	t.Run("WrapsPlainError", func(t *testing.T) {
		err := database.Wrap("listing categories", sql.ErrConnDone)
		require.Error(t, err)

		var se *database.StorageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "listing categories", se.Op)
		assert.ErrorIs(t, err, sql.ErrConnDone)
		assert.Equal(t, "listing categories: "+sql.ErrConnDone.Error(), err.Error())
	})

	t.Run("KeepsExistingStorageError", func(t *testing.T) {
		inner := database.Wrap("upserting category", sql.ErrTxDone)
		outer := database.Wrap("resolving category", fmt.Errorf("row 3: %w", inner))

		var se *database.StorageError
		require.True(t, errors.As(outer, &se))
		assert.Equal(t, "upserting category", se.Op)
	})
}

func TestIsStorageError(t *testing.T) {
	assert.True(t, database.IsStorageError(database.Wrap("op", errors.New("boom"))))
	assert.True(t, database.IsStorageError(fmt.Errorf("context: %w", database.Wrap("op", errors.New("boom")))))
	assert.False(t, database.IsStorageError(errors.New("boom")))
	assert.False(t, database.IsStorageError(nil))
}
