package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	catstore "github.com/MrJamesThe3rd/pocketbook/internal/category/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/database/dbtest"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction/store"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	db     *sql.DB
	store  *store.Store
	food   uuid.UUID
	rent   uuid.UUID
	salary uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.Open(t)
	cats := catstore.New(db)
	ctx := context.Background()

	f := &fixture{db: db, store: store.New(db)}

	var err error

	f.food, err = cats.UpsertCategory(ctx, "Food", category.KindExpense)
	require.NoError(t, err)
	f.rent, err = cats.UpsertCategory(ctx, "Rent", category.KindExpense)
	require.NoError(t, err)
	f.salary, err = cats.UpsertCategory(ctx, "Salary", category.KindIncome)
	require.NoError(t, err)

	return f
}

func (f *fixture) add(t *testing.T, d time.Time, amount string, categoryID *uuid.UUID) *transaction.Transaction {
	t.Helper()

	tx := &transaction.Transaction{
		Date:       d,
		Amount:     decimal.RequireFromString(amount),
		CategoryID: categoryID,
		Account:    transaction.DefaultAccount,
	}
	require.NoError(t, f.store.CreateTransaction(context.Background(), tx))

	return tx
}

func TestStore_SumExpenses(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	total, err := f.store.SumExpenses(ctx, transaction.Filter{})
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	f.add(t, date(2025, 9, 1), "3.50", &f.food)
	f.add(t, date(2025, 9, 15), "800", &f.rent)
	f.add(t, date(2025, 10, 2), "12.25", &f.food)
	f.add(t, date(2025, 9, 20), "2000", &f.salary)
	f.add(t, date(2025, 9, 21), "99", nil)

	start, end := date(2025, 9, 1), date(2025, 9, 30)

	tests := []struct {
		name   string
		filter transaction.Filter
		want   string
	}{
		{name: "All", filter: transaction.Filter{}, want: "815.75"},
		{name: "September", filter: transaction.Filter{Start: &start, End: &end}, want: "803.5"},
		{name: "FromStart", filter: transaction.Filter{Start: &end}, want: "12.25"},
		{name: "FoodOnly", filter: transaction.Filter{CategoryIDs: []uuid.UUID{f.food}}, want: "15.75"},
		{name: "IncomeOnlyIsZero", filter: transaction.Filter{CategoryIDs: []uuid.UUID{f.salary}}, want: "0"},
		{
			name:   "Combined",
			filter: transaction.Filter{Start: &start, End: &end, CategoryIDs: []uuid.UUID{f.food, f.salary}},
			want:   "3.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.store.SumExpenses(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestStore_CountTransactions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.add(t, date(2025, 9, 1), "3.50", &f.food)
	f.add(t, date(2025, 9, 20), "2000", &f.salary)
	f.add(t, date(2025, 9, 21), "99", nil)
	f.add(t, date(2025, 11, 1), "1", &f.rent)

	n, err := f.store.CountTransactions(ctx, transaction.Filter{})
	require.NoError(t, err)

	var rows int64
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&rows))
	assert.Equal(t, rows, n)
	assert.Equal(t, int64(4), n)

	start, end := date(2025, 9, 1), date(2025, 9, 30)
	n, err = f.store.CountTransactions(ctx, transaction.Filter{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = f.store.CountTransactions(ctx, transaction.Filter{CategoryIDs: []uuid.UUID{f.salary, f.rent}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStore_RoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	in := &transaction.Transaction{
		Date:        date(2025, 9, 1),
		Description: "Coffee",
		Amount:      decimal.RequireFromString("3.50"),
		CategoryID:  &f.food,
		Account:     "Card",
	}
	require.NoError(t, f.store.CreateTransaction(ctx, in))
	assert.NotEqual(t, uuid.Nil, in.ID)
	assert.False(t, in.CreatedAt.IsZero())

	d := date(2025, 9, 1)
	got, err := f.store.ListTransactions(ctx, transaction.Filter{
		Start: &d, End: &d, CategoryIDs: []uuid.UUID{f.food},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	out := got[0]
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.Date.Equal(out.Date))
	assert.Equal(t, "Coffee", out.Description)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, "Card", out.Account)
	require.NotNil(t, out.CategoryID)
	assert.Equal(t, f.food, *out.CategoryID)
	assert.Equal(t, "Food", out.CategoryName)
	assert.Equal(t, category.KindExpense, out.CategoryKind)
}

func TestStore_ZeroAmountAccepted(t *testing.T) {
	f := setup(t)

	tx := f.add(t, date(2025, 9, 1), "0", &f.food)
	assert.NotEqual(t, uuid.Nil, tx.ID)
}

func TestStore_ListTransactions_OrderAndLimit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	older := f.add(t, date(2025, 9, 1), "1", &f.food)
	first := f.add(t, date(2025, 9, 5), "2", nil)
	second := f.add(t, date(2025, 9, 5), "3", &f.rent)

	got, err := f.store.ListTransactions(ctx, transaction.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID, older.ID}, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
	assert.Empty(t, got[1].CategoryName)
	assert.Nil(t, got[1].CategoryID)

	got, err = f.store.ListTransactions(ctx, transaction.Filter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestStore_CreateWithCategoryName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	cats := catstore.New(f.db)

	giftsOut, err := cats.UpsertCategory(ctx, "Gifts", category.KindExpense)
	require.NoError(t, err)
	_, err = cats.UpsertCategory(ctx, "Gifts", category.KindIncome)
	require.NoError(t, err)

	tests := []struct {
		name        string
		category    string
		kind        category.Kind
		wantMatches int
		wantID      *uuid.UUID
	}{
		{name: "Unique", category: "Food", wantMatches: 1, wantID: &f.food},
		{name: "Missing", category: "Travel", wantMatches: 0},
		{name: "Ambiguous", category: "Gifts", wantMatches: 2},
		{name: "NarrowedByKind", category: "Gifts", kind: category.KindExpense, wantMatches: 1, wantID: &giftsOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &transaction.Transaction{
				Date:    date(2025, 9, 1),
				Amount:  decimal.NewFromInt(5),
				Account: transaction.DefaultAccount,
			}

			matches, err := f.store.CreateWithCategoryName(ctx, tx, tt.category, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMatches, matches)
			assert.NotEqual(t, uuid.Nil, tx.ID)

			var stored *uuid.UUID
			require.NoError(t, f.db.QueryRow(`SELECT category_id FROM transactions WHERE id = $1`, tx.ID).Scan(&stored))

			if tt.wantID == nil {
				assert.Nil(t, stored)
				return
			}

			require.NotNil(t, stored)
			assert.Equal(t, *tt.wantID, *stored)
		})
	}
}
