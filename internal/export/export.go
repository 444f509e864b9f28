// Package export writes filtered transaction listings as CSV or Excel files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

// Format is a download format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName names the worksheet of XLSX exports.
const SheetName = "Transactions"

// Header is the first row of every export.
var Header = []string{"Date", "Description", "Amount", "Category", "Type", "Account"}

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}

	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// Filename names a download made at now, e.g. "transactions_20250901.csv".
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("transactions_%s.%s", now.Format("20060102"), f)
}

type Lister interface {
	List(ctx context.Context, filter transaction.Filter) ([]*transaction.Transaction, error)
}

// Service exports the transactions matching a filter.
type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Export writes the transactions matching filter to w in format f, newest first.
func (s *Service) Export(ctx context.Context, filter transaction.Filter, f Format, w io.Writer) error {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	switch f {
	case FormatCSV:
		return WriteCSV(w, txs)
	case FormatXLSX:
		return WriteXLSX(w, txs)
	}

	return fmt.Errorf("unknown export format %q", f)
}

func row(tx *transaction.Transaction) []string {
	return []string{
		tx.Date.Format(time.DateOnly),
		tx.Description,
		tx.Amount.StringFixed(2),
		tx.CategoryName,
		string(tx.CategoryKind),
		tx.Account,
	}
}

func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		if err := cw.Write(row(tx)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX writes a single-sheet workbook. Amounts are stored as numbers.
func WriteXLSX(w io.Writer, txs []*transaction.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		amount, _ := tx.Amount.Float64()

		values := []any{
			tx.Date.Format(time.DateOnly),
			tx.Description,
			amount,
			tx.CategoryName,
			string(tx.CategoryKind),
			tx.Account,
		}

		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
