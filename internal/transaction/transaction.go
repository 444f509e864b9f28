package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
)

// DefaultAccount is stored when a transaction is added without an account.
const DefaultAccount = "Cash"

var (
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrMissingDate    = errors.New("transaction date is required")
)

// Transaction is a single dated monetary entry, optionally filed under a category.
// The sign is implied by the category kind, never by the amount.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	CategoryID  *uuid.UUID
	Account     string
	CreatedAt   time.Time

	// Loaded via JOIN; empty when uncategorized.
	CategoryName string
	CategoryKind category.Kind
}

// Filter scopes sums, counts and listings. Nil bounds and an empty
// category set impose no restriction; every set dimension is ANDed.
type Filter struct {
	Start       *time.Time
	End         *time.Time
	CategoryIDs []uuid.UUID
	// Limit caps List results; zero means no limit.
	Limit int
}

// Normalize swaps reversed bounds and clamps a negative limit to zero.
func (f Filter) Normalize() Filter {
	if f.Start != nil && f.End != nil && f.End.Before(*f.Start) {
		f.Start, f.End = f.End, f.Start
	}

	if f.Limit < 0 {
		f.Limit = 0
	}

	return f
}

// Summary compares spending in a period against a budget.
type Summary struct {
	Spent     decimal.Decimal
	Count     int64
	Budget    decimal.Decimal
	Remaining decimal.Decimal
	// Percent of the budget spent, capped at 100.
	Percent decimal.Decimal
}

// dateOnly drops the clock and zone, keeping the calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
