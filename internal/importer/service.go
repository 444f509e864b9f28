package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type CategoryResolver interface {
	GetOrCreate(ctx context.Context, name string, kind category.Kind) (uuid.UUID, error)
	IDByName(ctx context.Context, name string, kind category.Kind) (*uuid.UUID, error)
}

type TransactionWriter interface {
	AddWithCategoryID(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

type Service struct {
	categories   CategoryResolver
	transactions TransactionWriter
}

func NewService(categories CategoryResolver, transactions TransactionWriter) *Service {
	return &Service{categories: categories, transactions: transactions}
}

// Skip reasons recorded against rows that were not imported.
const (
	ReasonMissingCategory = "missing category"
	ReasonBadAmount       = "amount missing or not positive"
	ReasonBadDate         = "date could not be parsed"
	ReasonUnknownCategory = "category does not exist"
)

// Skip records a row left out of an import.
type Skip struct {
	Line   int
	Reason string
}

// Result summarizes an import. Presented counts rows after coercion.
type Result struct {
	Presented int
	Imported  int
	Skipped   []Skip
	Warnings  []Issue
}

// Import coerces the table and inserts every valid row, each in its own
// storage transaction and in input order. Invalid rows are skipped, never
// failing the batch. A storage failure stops the import; the rows already
// inserted stay committed and are reported in the returned Result.
func (s *Service) Import(ctx context.Context, table *Table, mapping Mapping, opts Options) (*Result, error) {
	if err := mapping.Validate(table.Columns); err != nil {
		return nil, err
	}

	records, verr := Coerce(table, mapping, opts)

	res := &Result{
		Presented: len(records),
		Warnings:  Issues(verr),
	}

	for _, rec := range records {
		reason, err := s.importRecord(ctx, rec, opts)
		if err != nil {
			slog.ErrorContext(ctx, "import stopped", "line", rec.Line, "imported", res.Imported, "error", err)
			return res, fmt.Errorf("importing line %d: %w", rec.Line, err)
		}

		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Line: rec.Line, Reason: reason})
			continue
		}

		res.Imported++
	}

	slog.InfoContext(ctx, "import finished",
		"presented", res.Presented, "imported", res.Imported, "skipped", len(res.Skipped))

	return res, nil
}

// importRecord inserts rec, or returns why it was skipped.
func (s *Service) importRecord(ctx context.Context, rec Record, opts Options) (string, error) {
	if rec.Category == "" {
		return ReasonMissingCategory, nil
	}

	if rec.Amount == nil || !rec.Amount.IsPositive() {
		return ReasonBadAmount, nil
	}

	if rec.Date == nil {
		return ReasonBadDate, nil
	}

	var categoryID uuid.UUID

	if opts.CreateMissingCategories {
		id, err := s.categories.GetOrCreate(ctx, rec.Category, rec.Kind)
		if err != nil {
			return "", fmt.Errorf("resolving category %q: %w", rec.Category, err)
		}

		categoryID = id
	} else {
		id, err := s.categories.IDByName(ctx, rec.Category, rec.Kind)
		if err != nil {
			return "", fmt.Errorf("looking up category %q: %w", rec.Category, err)
		}

		if id == nil {
			return fmt.Sprintf("%s: %s (%s)", ReasonUnknownCategory, rec.Category, rec.Kind), nil
		}

		categoryID = *id
	}

	_, err := s.transactions.AddWithCategoryID(ctx, transaction.CreateParams{
		Date:        *rec.Date,
		Description: rec.Description,
		Amount:      *rec.Amount,
		Account:     rec.Account,
		CategoryID:  &categoryID,
	})
	if err != nil {
		return "", fmt.Errorf("inserting transaction: %w", err)
	}

	return "", nil
}

// Preview is what an import would see, without touching storage.
type Preview struct {
	Columns  []string
	Mapping  Mapping
	Records  []Record
	Total    int
	Warnings []Issue
}

// Preview coerces the table and returns at most limit records. A limit of
// zero or less returns them all.
func (s *Service) Preview(table *Table, mapping Mapping, opts Options, limit int) (*Preview, error) {
	if err := mapping.Validate(table.Columns); err != nil {
		return nil, err
	}

	records, verr := Coerce(table, mapping, opts)

	p := &Preview{
		Columns:  table.Columns,
		Mapping:  mapping,
		Records:  records,
		Total:    len(records),
		Warnings: Issues(verr),
	}

	if limit > 0 && len(records) > limit {
		p.Records = records[:limit]
	}

	return p, nil
}
