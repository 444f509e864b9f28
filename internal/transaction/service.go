package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	SumExpenses(ctx context.Context, filter Filter) (decimal.Decimal, error)
	CountTransactions(ctx context.Context, filter Filter) (int64, error)
	ListTransactions(ctx context.Context, filter Filter) ([]*Transaction, error)

	// CreateTransaction inserts tx with its CategoryID as given.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	// CreateWithCategoryName resolves the category and inserts tx in one storage
	// transaction. Kind narrows the lookup when set. It returns how many categories
	// matched; anything other than exactly one leaves the category unset.
	CreateWithCategoryName(ctx context.Context, tx *Transaction, name string, kind category.Kind) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Account     string

	// CategoryName and CategoryKind are used by AddByName.
	CategoryName string
	CategoryKind category.Kind

	// CategoryID is used by AddWithCategoryID.
	CategoryID *uuid.UUID
}

// SumExpenses totals amounts under expense categories. Uncategorized rows never count.
func (s *Service) SumExpenses(ctx context.Context, filter Filter) (decimal.Decimal, error) {
	return s.repo.SumExpenses(ctx, filter.Normalize())
}

// Count returns the number of rows matching filter regardless of kind.
func (s *Service) Count(ctx context.Context, filter Filter) (int64, error) {
	return s.repo.CountTransactions(ctx, filter.Normalize())
}

// List returns matching rows, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter.Normalize())
}

// AddByName inserts a transaction, filing it under the category called
// params.CategoryName. A name matching no category, or more than one when no
// kind narrows it, is stored uncategorized rather than failing the insert.
func (s *Service) AddByName(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := newTransaction(params)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.CategoryName)
	if name == "" {
		if err := s.repo.CreateTransaction(ctx, tx); err != nil {
			return nil, err
		}

		return tx, nil
	}

	if params.CategoryKind != "" && !params.CategoryKind.Valid() {
		return nil, fmt.Errorf("%w: %q", category.ErrInvalidKind, params.CategoryKind)
	}

	matches, err := s.repo.CreateWithCategoryName(ctx, tx, name, params.CategoryKind)
	if err != nil {
		return nil, err
	}

	if matches > 1 {
		slog.WarnContext(ctx, "ambiguous category name, stored uncategorized",
			"category", name, "matches", matches, "transaction_id", tx.ID)
	}

	return tx, nil
}

// AddWithCategoryID inserts a transaction under an already resolved category.
func (s *Service) AddWithCategoryID(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx, err := newTransaction(params)
	if err != nil {
		return nil, err
	}

	tx.CategoryID = params.CategoryID

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Summary reports spending under filter against budget. Remaining never drops
// below zero and the percentage never exceeds 100.
func (s *Service) Summary(ctx context.Context, filter Filter, budget decimal.Decimal) (*Summary, error) {
	filter = filter.Normalize()

	spent, err := s.repo.SumExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("summing expenses: %w", err)
	}

	count, err := s.repo.CountTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("counting transactions: %w", err)
	}

	sum := &Summary{
		Spent:     spent,
		Count:     count,
		Budget:    budget,
		Remaining: decimal.Max(budget.Sub(spent), decimal.Zero),
		Percent:   decimal.Zero,
	}

	if budget.IsPositive() {
		hundred := decimal.NewFromInt(100)
		sum.Percent = decimal.Min(spent.Div(budget).Mul(hundred), hundred).Round(1)
	}

	return sum, nil
}

// MonthRange returns the first and last calendar day of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func newTransaction(params CreateParams) (*Transaction, error) {
	if params.Date.IsZero() {
		return nil, ErrMissingDate
	}

	if params.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: %s", ErrNegativeAmount, params.Amount)
	}

	account := strings.TrimSpace(params.Account)
	if account == "" {
		account = DefaultAccount
	}

	return &Transaction{
		Date:        dateOnly(params.Date),
		Description: strings.TrimSpace(params.Description),
		Amount:      params.Amount.Round(2),
		Account:     account,
	}, nil
}
