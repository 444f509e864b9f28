package category

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a category's effect on totals.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

var (
	ErrInvalidKind = errors.New("invalid category kind")
	ErrInvalidName = errors.New("category name must not be blank")
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindExpense, KindIncome}

// ParseKind accepts "expense" or "income" in any case, surrounded by any whitespace.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindExpense, KindIncome:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) Valid() bool {
	return k == KindExpense || k == KindIncome
}

// Category is a named, kind-tagged bucket transactions are filed under.
// The (Name, Kind) pair is unique.
type Category struct {
	ID        uuid.UUID
	Name      string
	Kind      Kind
	CreatedAt time.Time
}

// Label renders the category for selection lists, e.g. "Food (E)".
func (c *Category) Label() string {
	initial := "?"
	if c.Kind != "" {
		initial = strings.ToUpper(string(c.Kind[0]))
	}

	return fmt.Sprintf("%s (%s)", c.Name, initial)
}

// normalizeName trims the name and rejects blanks.
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	return name, nil
}
