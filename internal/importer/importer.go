// Package importer turns uploaded spreadsheets into transactions.
//
// An import runs in strictly ordered stages: Parse reads the file into a Table
// of raw string cells, InferMapping ties the table's columns to logical fields,
// Coerce turns each raw row into a typed Record, and Service.Import resolves
// categories and inserts the records that survived.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Format is a tabular file format the importer can read.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	// ErrMissingRequiredColumns is returned when date, amount or category is unmapped.
	ErrMissingRequiredColumns = errors.New("date, amount and category columns are required")
	ErrUnknownColumn          = errors.New("mapped column not found in file")
)

// UnsupportedFormatError reports a file that is not a recognized spreadsheet.
// It is terminal for the import attempt.
type UnsupportedFormatError struct {
	Name     string
	Detected string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Detected == "" {
		return fmt.Sprintf("unsupported file %q: upload a CSV or Excel (.xlsx) file", e.Name)
	}

	return fmt.Sprintf("unsupported file %q (%s): upload a CSV or Excel (.xlsx) file", e.Name, e.Detected)
}

// RawRow is one data row as read from the file, keyed by column name.
type RawRow struct {
	// Line is the 1-based position of the row in the source file.
	Line  int
	Cells map[string]string
}

// Get returns the trimmed cell under column, or "" when absent.
func (r RawRow) Get(column string) string {
	return strings.TrimSpace(r.Cells[column])
}

// Table is an uploaded file before any field mapping is applied.
type Table struct {
	Format  Format
	Columns []string
	Rows    []RawRow
}

// Parse detects the format of the named upload and reads it into a Table.
func Parse(name string, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	format, err := DetectFormat(name, data)
	if err != nil {
		return nil, err
	}

	var records [][]string

	var lines []int

	switch format {
	case FormatCSV:
		records, lines, err = readCSV(bytes.NewReader(data))
	case FormatXLSX:
		records, lines, err = readXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, &UnsupportedFormatError{Name: name, Detected: err.Error()}
		}
	}

	if err != nil {
		return nil, err
	}

	table := newTable(records, lines)
	table.Format = format

	return table, nil
}

// newTable finds the header row and keys every following row by column name.
func newTable(records [][]string, lines []int) *Table {
	headerIdx := findHeader(records)
	if headerIdx < 0 {
		return &Table{}
	}

	columns := columnNames(records[headerIdx])
	table := &Table{Columns: columns}

	for i, rec := range records[headerIdx+1:] {
		cells := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				cells[col] = rec[j]
			}
		}

		table.Rows = append(table.Rows, RawRow{Line: lines[headerIdx+1+i], Cells: cells})
	}

	return table
}

// findHeader picks the header row. Bank exports often carry a preamble of
// account details above the real header, so the first row naming every
// required field wins, then the first row naming at least two known aliases,
// then the first non-empty row.
func findHeader(records [][]string) int {
	first, partial := -1, -1

	for i, rec := range records {
		if isBlank(rec) {
			continue
		}

		if first < 0 {
			first = i
		}

		named := make(map[Field]bool)

		for _, cell := range rec {
			if f, ok := aliasIndex[normalizeColumn(cell)]; ok {
				named[f] = true
			}
		}

		if namesAll(named, RequiredFields) {
			return i
		}

		if partial < 0 && len(named) >= 2 {
			partial = i
		}
	}

	if partial >= 0 {
		return partial
	}

	return first
}

func namesAll(named map[Field]bool, fields []Field) bool {
	for _, f := range fields {
		if !named[f] {
			return false
		}
	}

	return true
}

// columnNames trims the header, names blank headers by position and
// suffixes repeated names so every column is addressable.
func columnNames(header []string) []string {
	seen := make(map[string]int, len(header))
	cols := make([]string, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}

		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}

		cols[i] = name
	}

	return cols
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
