package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	catstore "github.com/MrJamesThe3rd/pocketbook/internal/category/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/database/dbtest"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
	txstore "github.com/MrJamesThe3rd/pocketbook/internal/transaction/store"
)

func TestImport_Postgres(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()

	cats := category.NewService(catstore.New(db))
	txs := transaction.NewService(txstore.New(db))
	svc := importer.NewService(cats, txs)

	table, mapping := mustParse(t, threeRows)

	res, err := svc.Import(ctx, table, mapping, importer.Options{CreateMissingCategories: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	n, err := txs.Count(ctx, transaction.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	spent, err := txs.SumExpenses(ctx, transaction.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "3.5", spent.String())

	table, mapping = mustParse(t, "date,amount,category\n2025-09-05,10,Travel\n")

	res, err = svc.Import(ctx, table, mapping, importer.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Imported)

	id, err := cats.IDByName(ctx, "Travel", category.KindExpense)
	require.NoError(t, err)
	assert.Nil(t, id)

	n, err = txs.Count(ctx, transaction.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
