package importer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer(
	"€", "", "$", "", "£", "",
	" ", "", "\u00a0", "", "\u202f", "",
)

// Grouped numbers must put separators between every three digits after a
// leading group of one to three.
var (
	usGrouped       = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	europeanGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})+(,\d+)?$`)
)

// parseAmount reads a spreadsheet amount cell. Currency symbols and spaces
// are ignored and parentheses mean negative. In European notation the dot
// groups thousands and the comma is the decimal mark: "1.234,56" is 1234.56.
// Otherwise commas group thousands: "1,234.56". A separator that does not
// group thousands, like "12,99" in US notation, makes the cell unparseable.
func parseAmount(s string, european bool) (decimal.Decimal, bool) {
	clean := currencyStripper.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, false
	}

	negative := false
	if strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		negative = true
		clean = clean[1 : len(clean)-1]
	}

	if european {
		if strings.Contains(clean, ".") && !europeanGrouped.MatchString(clean) {
			return decimal.Zero, false
		}

		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		if strings.Contains(clean, ",") && !usGrouped.MatchString(clean) {
			return decimal.Zero, false
		}

		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}

	if negative {
		d = d.Neg()
	}

	return d, true
}
