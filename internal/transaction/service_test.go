package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFilter_Normalize(t *testing.T) {
	early, late := date(2025, 9, 1), date(2025, 9, 30)

	f := transaction.Filter{Start: &late, End: &early, Limit: -5}.Normalize()

	assert.Equal(t, early, *f.Start)
	assert.Equal(t, late, *f.End)
	assert.Zero(t, f.Limit)

	open := transaction.Filter{End: &early}.Normalize()
	assert.Nil(t, open.Start)
	assert.Equal(t, early, *open.End)
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		in        time.Time
		wantFirst time.Time
		wantLast  time.Time
	}{
		{name: "MidMonth", in: time.Date(2025, 9, 17, 15, 4, 5, 0, time.UTC), wantFirst: date(2025, 9, 1), wantLast: date(2025, 9, 30)},
		{name: "LeapFebruary", in: date(2024, 2, 10), wantFirst: date(2024, 2, 1), wantLast: date(2024, 2, 29)},
		{name: "December", in: date(2025, 12, 31), wantFirst: date(2025, 12, 1), wantLast: date(2025, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := transaction.MonthRange(tt.in)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestService_AddWithCategoryID(t *testing.T) {
	catID := uuid.New()

	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		check     func(t *testing.T, got *transaction.Transaction)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "NormalizesFields",
			params: transaction.CreateParams{
				Date:        time.Date(2025, 9, 1, 18, 30, 0, 0, time.FixedZone("WEST", 3600)),
				Description: "  Coffee ",
				Amount:      decimal.RequireFromString("3.499"),
				Account:     "   ",
				CategoryID:  &catID,
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()

						return nil
					})
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.Equal(t, date(2025, 9, 1), got.Date)
				assert.Equal(t, "Coffee", got.Description)
				assert.Equal(t, "3.5", got.Amount.String())
				assert.Equal(t, transaction.DefaultAccount, got.Account)
				require.NotNil(t, got.CategoryID)
				assert.Equal(t, catID, *got.CategoryID)
				assert.NotEqual(t, uuid.Nil, got.ID)
			},
		},
		{
			name:   "ZeroAmountAccepted",
			params: transaction.CreateParams{Date: date(2025, 9, 2), Amount: decimal.Zero, Account: "Card"},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, got *transaction.Transaction) {
				assert.True(t, got.Amount.IsZero())
				assert.Equal(t, "Card", got.Account)
				assert.Nil(t, got.CategoryID)
			},
		},
		{
			name:    "NegativeAmount",
			params:  transaction.CreateParams{Date: date(2025, 9, 2), Amount: decimal.NewFromInt(-1)},
			wantErr: transaction.ErrNegativeAmount,
		},
		{
			name:    "MissingDate",
			params:  transaction.CreateParams{Amount: decimal.NewFromInt(1)},
			wantErr: transaction.ErrMissingDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := transaction.NewService(repo).AddWithCategoryID(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestService_AddByName(t *testing.T) {
	type testCase struct {
		name      string
		params    transaction.CreateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   bool
	}

	base := transaction.CreateParams{Date: date(2025, 9, 1), Amount: decimal.NewFromInt(12)}

	withCategory := func(name string, kind category.Kind) transaction.CreateParams {
		p := base
		p.CategoryName = name
		p.CategoryKind = kind

		return p
	}

	tests := []testCase{
		{
			name:   "ResolvesByName",
			params: withCategory(" Food ", ""),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateWithCategoryName(gomock.Any(), gomock.Any(), "Food", category.Kind("")).
					Return(1, nil)
			},
		},
		{
			name:   "KindNarrowsLookup",
			params: withCategory("Gifts", category.KindIncome),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateWithCategoryName(gomock.Any(), gomock.Any(), "Gifts", category.KindIncome).
					Return(1, nil)
			},
		},
		{
			name:   "AmbiguousStillInserts",
			params: withCategory("Gifts", ""),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateWithCategoryName(gomock.Any(), gomock.Any(), "Gifts", category.Kind("")).
					Return(2, nil)
			},
		},
		{
			name:   "BlankNameSkipsLookup",
			params: withCategory("  ", ""),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "InvalidKind",
			params:  withCategory("Food", category.Kind("transfer")),
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: withCategory("Food", ""),
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateWithCategoryName(gomock.Any(), gomock.Any(), "Food", category.Kind("")).
					Return(0, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := transaction.NewService(repo).AddByName(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestService_List_NormalizesFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	early, late := date(2025, 9, 1), date(2025, 9, 30)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.Filter{Start: &early, End: &late}).
		Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := transaction.NewService(repo).List(context.Background(), transaction.Filter{Start: &late, End: &early})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_Summary(t *testing.T) {
	type testCase struct {
		name          string
		spent         string
		budget        string
		wantRemaining string
		wantPercent   string
	}

	tests := []testCase{
		{name: "UnderBudget", spent: "250", budget: "1000", wantRemaining: "750", wantPercent: "25"},
		{name: "OverBudget", spent: "1200.50", budget: "1000", wantRemaining: "0", wantPercent: "100"},
		{name: "ZeroBudget", spent: "10", budget: "0", wantRemaining: "0", wantPercent: "0"},
		{name: "Fractional", spent: "1", budget: "3", wantRemaining: "2", wantPercent: "33.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().SumExpenses(gomock.Any(), gomock.Any()).Return(decimal.RequireFromString(tt.spent), nil)
			repo.EXPECT().CountTransactions(gomock.Any(), gomock.Any()).Return(int64(4), nil)

			got, err := transaction.NewService(repo).Summary(
				context.Background(), transaction.Filter{}, decimal.RequireFromString(tt.budget))
			require.NoError(t, err)

			assert.Equal(t, int64(4), got.Count)
			assert.Equal(t, tt.wantRemaining, got.Remaining.String())
			assert.Equal(t, tt.wantPercent, got.Percent.String())
		})
	}
}

func TestService_Summary_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().SumExpenses(gomock.Any(), gomock.Any()).Return(decimal.Zero, errors.New("db down"))

	got, err := transaction.NewService(repo).Summary(context.Background(), transaction.Filter{}, decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.Nil(t, got)
}
