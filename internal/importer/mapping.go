package importer

import (
	"fmt"
	"slices"
	"strings"
)

// Field is a logical transaction field a column can be mapped to.
type Field string

const (
	FieldDate        Field = "date"
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldCategory    Field = "category"
	FieldAccount     Field = "account"
	FieldKind        Field = "kind"
)

// Fields lists every logical field in display order.
var Fields = []Field{FieldDate, FieldDescription, FieldAmount, FieldCategory, FieldAccount, FieldKind}

// RequiredFields must be mapped before any row is coerced.
var RequiredFields = []Field{FieldDate, FieldAmount, FieldCategory}

// aliases are the accepted column names per field, in priority order.
var aliases = map[Field][]string{
	FieldDate:        {"date", "tx_date", "transaction_date"},
	FieldDescription: {"description", "desc", "details"},
	FieldAmount:      {"amount", "value", "amt"},
	FieldCategory:    {"category", "cat"},
	FieldAccount:     {"account", "wallet"},
	FieldKind:        {"type", "kind"},
}

// aliasIndex maps every alias back to its field.
var aliasIndex = func() map[string]Field {
	idx := make(map[string]Field)
	for f, names := range aliases {
		for _, n := range names {
			idx[n] = f
		}
	}

	return idx
}()

// ParseField accepts a field name in any case.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	return f, slices.Contains(Fields, f)
}

// Mapping ties logical fields to table columns. An absent key means the
// field is unmapped.
type Mapping map[Field]string

// InferMapping matches columns against each field's aliases, ignoring case.
// The first alias with a matching column wins.
func InferMapping(columns []string) Mapping {
	byName := make(map[string]string, len(columns))
	for _, col := range columns {
		key := normalizeColumn(col)
		if _, dup := byName[key]; !dup {
			byName[key] = col
		}
	}

	m := make(Mapping)

	for _, f := range Fields {
		for _, alias := range aliases[f] {
			if col, ok := byName[alias]; ok {
				m[f] = col
				break
			}
		}
	}

	return m
}

// Set overrides the column for f. An empty column unmaps the field.
func (m Mapping) Set(f Field, column string) {
	column = strings.TrimSpace(column)
	if column == "" {
		delete(m, f)
		return
	}

	m[f] = column
}

// Column returns the column mapped to f.
func (m Mapping) Column(f Field) (string, bool) {
	col, ok := m[f]
	return col, ok
}

// Validate checks that every required field is mapped and that every
// mapped column exists in columns.
func (m Mapping) Validate(columns []string) error {
	var missing []string

	for _, f := range RequiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, string(f))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not mapped", ErrMissingRequiredColumns, strings.Join(missing, ", "))
	}

	for _, f := range Fields {
		col, ok := m[f]
		if ok && !slices.Contains(columns, col) {
			return fmt.Errorf("%w: %s mapped to %q", ErrUnknownColumn, f, col)
		}
	}

	return nil
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
