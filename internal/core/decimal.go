package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a user-entered numeric string into an exact decimal.
// Whitespace is trimmed; blank or unparsable input yields ok=false. Money
// math must go through this, never float64: user-typed precision is part
// of the stored data.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatDecimal renders d in canonical form: no trailing zero padding and
// no trailing decimal point ("2.50" -> "2.5", "3.00" -> "3").
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
