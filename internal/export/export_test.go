package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/pocketbook/internal/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/transaction"
)

type stubLister struct {
	txs    []*transaction.Transaction
	err    error
	filter transaction.Filter
}

func (s *stubLister) List(_ context.Context, filter transaction.Filter) ([]*transaction.Transaction, error) {
	s.filter = filter
	return s.txs, s.err
}

func sample() []*transaction.Transaction {
	food := uuid.New()

	return []*transaction.Transaction{
		{
			ID:           uuid.New(),
			Date:         time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
			Description:  "Lunch, with team",
			Amount:       decimal.RequireFromString("12.5"),
			CategoryID:   &food,
			CategoryName: "Food",
			CategoryKind: category.KindExpense,
			Account:      "Card",
		},
		{
			ID:      uuid.New(),
			Date:    time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			Amount:  decimal.NewFromInt(7),
			Account: "Cash",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sample()))

	want := "Date,Description,Amount,Category,Type,Account\n" +
		"2025-09-02,\"Lunch, with team\",12.50,Food,expense,Card\n" +
		"2025-09-01,,7.00,,,Cash\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Description,Amount,Category,Type,Account\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Header, rows[0])
	assert.Equal(t, []string{"2025-09-02", "Lunch, with team", "12.5", "Food", "expense", "Card"}, rows[1])
	assert.Equal(t, "2025-09-01", rows[2][0])
	assert.Equal(t, "7", rows[2][2])
}

func TestService_Export(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	lister := &stubLister{txs: sample()}
	svc := export.NewService(lister)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), transaction.Filter{Start: &start}, export.FormatCSV, &buf))
	assert.Contains(t, buf.String(), "Lunch, with team")
	assert.Equal(t, &start, lister.filter.Start)

	lister.err = errors.New("db down")
	assert.Error(t, svc.Export(context.Background(), transaction.Filter{}, export.FormatXLSX, &buf))
}

func TestFormat(t *testing.T) {
	f, err := export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)
	assert.Equal(t, "transactions_20250901.xlsx", f.Filename(time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)))
	assert.Contains(t, export.FormatCSV.ContentType(), "text/csv")

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}
