package importer

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/itchyny/timefmt-go"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

// Options tune coercion and insertion for one import.
type Options struct {
	// DateFormat is a strftime pattern ("%d/%m/%Y") or a Go layout. When set,
	// dates not matching it are unparseable. When empty, dates are parsed
	// permissively.
	DateFormat      string
	InvertAmount    bool
	EuropeanNumbers bool
	// DefaultKind applies when the kind column is unmapped, blank or unrecognized.
	DefaultKind             category.Kind
	CreateMissingCategories bool
}

func (o Options) defaultKind() category.Kind {
	if o.DefaultKind.Valid() {
		return o.DefaultKind
	}

	return category.KindExpense
}

// Record is a row after coercion. Date and Amount are nil when the cell
// was blank or could not be parsed.
type Record struct {
	Line        int
	Date        *time.Time
	Description string
	Amount      *decimal.Decimal
	Category    string
	Account     string
	Kind        category.Kind
}

// Issue is a column-level problem found in at least one row.
type Issue string

const (
	IssueUnparseableDates Issue = "Some dates could not be parsed."
	IssueMissingAmounts   Issue = "Some amounts are missing or invalid."
	IssueMissingCategory  Issue = "Some categories are missing."
)

// ValidationError lists the column-level issues of a batch. It is advisory:
// rows that did validate are still imported.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = string(issue)
	}

	return strings.Join(msgs, " ")
}

// Coerce types every row of table through mapping. Rows blank in every
// mapped column are dropped. The returned error, when not nil, is a
// *ValidationError describing the batch; the records are valid either way.
func Coerce(table *Table, mapping Mapping, opts Options) ([]Record, error) {
	var (
		records                        []Record
		badDate, badAmount, noCategory bool
	)

	for _, row := range table.Rows {
		if blankRow(row, mapping) {
			continue
		}

		rec := Record{
			Line:        row.Line,
			Description: cell(row, mapping, FieldDescription),
			Category:    cell(row, mapping, FieldCategory),
			Account:     cell(row, mapping, FieldAccount),
			Kind:        opts.defaultKind(),
		}

		if rec.Account == "" {
			rec.Account = transaction.DefaultAccount
		}

		if k, err := category.ParseKind(cell(row, mapping, FieldKind)); err == nil {
			rec.Kind = k
		}

		if d, ok := parseDate(cell(row, mapping, FieldDate), opts.DateFormat); ok {
			rec.Date = &d
		} else {
			badDate = true
		}

		if amt, ok := parseAmount(cell(row, mapping, FieldAmount), opts.EuropeanNumbers); ok {
			if opts.InvertAmount {
				amt = amt.Neg()
			}

			// Same precision the repository stores.
			amt = amt.Round(2)
			rec.Amount = &amt
		} else {
			badAmount = true
		}

		if rec.Category == "" {
			noCategory = true
		}

		records = append(records, rec)
	}

	var issues []Issue

	if badDate {
		issues = append(issues, IssueUnparseableDates)
	}

	if badAmount {
		issues = append(issues, IssueMissingAmounts)
	}

	if noCategory {
		issues = append(issues, IssueMissingCategory)
	}

	if len(issues) > 0 {
		return records, &ValidationError{Issues: issues}
	}

	return records, nil
}

// Issues extracts the advisory issues from a Coerce error.
func Issues(err error) []Issue {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Issues
	}

	return nil
}

func cell(row RawRow, mapping Mapping, f Field) string {
	col, ok := mapping.Column(f)
	if !ok {
		return ""
	}

	return row.Get(col)
}

func blankRow(row RawRow, mapping Mapping) bool {
	for _, col := range mapping {
		if row.Get(col) != "" {
			return false
		}
	}

	return true
}

// parseDate uses format when given, else guesses. Only the calendar date is kept.
func parseDate(s, format string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	var (
		t   time.Time
		err error
	)

	switch {
	case format == "":
		t, err = dateparse.ParseIn(s, time.UTC)
	case strings.Contains(format, "%"):
		t, err = timefmt.Parse(s, format)
	default:
		t, err = time.Parse(format, s)
	}

	if err != nil {
		return time.Time{}, false
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}
