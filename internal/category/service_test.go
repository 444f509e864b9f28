package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    category.Kind
		wantErr bool
	}{
		{in: "expense", want: category.KindExpense},
		{in: " Income ", want: category.KindIncome},
		{in: "EXPENSE", want: category.KindExpense},
		{in: "transfer", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := category.ParseKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, category.ErrInvalidKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "Food (E)", (&category.Category{Name: "Food", Kind: category.KindExpense}).Label())
	assert.Equal(t, "Salary (I)", (&category.Category{Name: "Salary", Kind: category.KindIncome}).Label())
}

func TestService_ListByKind(t *testing.T) {
	type testCase struct {
		name      string
		kind      category.Kind
		setupMock func(m *category.MockRepository)
		want      []string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			kind: category.KindExpense,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					ListNamesByKind(gomock.Any(), category.KindExpense).
					Return([]string{"Food", "Rent"}, nil)
			},
			want: []string{"Food", "Rent"},
		},
		{
			name: "NoneIsEmptyNotError",
			kind: category.KindIncome,
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					ListNamesByKind(gomock.Any(), category.KindIncome).
					Return(nil, nil)
			},
			want: []string{},
		},
		{
			name:    "InvalidKind",
			kind:    category.Kind("transfer"),
			wantErr: category.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := category.NewService(repo)
			got, err := svc.ListByKind(context.Background(), tt.kind)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Create(t *testing.T) {
	type args struct {
		name string
		kind category.Kind
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *category.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "TrimsName",
			args: args{name: "  Groceries ", kind: category.KindExpense},
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().
					CreateCategory(gomock.Any(), "Groceries", category.KindExpense).
					Return(nil)
			},
		},
		{
			name:    "BlankName",
			args:    args{name: "   ", kind: category.KindExpense},
			wantErr: category.ErrInvalidName,
		},
		{
			name:    "InvalidKind",
			args:    args{name: "Food", kind: ""},
			wantErr: category.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := category.NewService(repo).Create(context.Background(), tt.args.name, tt.args.kind)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_IDByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := category.NewMockRepository(ctrl)
	repo.EXPECT().FindCategoryID(gomock.Any(), "Food", category.KindExpense).Return(&id, nil)
	repo.EXPECT().FindCategoryID(gomock.Any(), "Travel", category.KindExpense).Return(nil, nil)

	svc := category.NewService(repo)

	got, err := svc.IDByName(context.Background(), "Food", category.KindExpense)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	got, err = svc.IDByName(context.Background(), "Travel", category.KindExpense)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_GetOrCreate(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *category.MockRepository, id uuid.UUID)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *category.MockRepository, id uuid.UUID) {
				m.EXPECT().
					UpsertCategory(gomock.Any(), "Food", category.KindExpense).
					Return(id, nil)
			},
		},
		{
			name: "StorageFailureNeverFabricatesID",
			setupMock: func(m *category.MockRepository, id uuid.UUID) {
				m.EXPECT().
					UpsertCategory(gomock.Any(), "Food", category.KindExpense).
					Return(id, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			id := uuid.New()
			repo := category.NewMockRepository(ctrl)
			tt.setupMock(repo, id)

			got, err := category.NewService(repo).GetOrCreate(context.Background(), "Food", category.KindExpense)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, uuid.Nil, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}
