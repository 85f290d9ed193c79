// Package money parses and formats currency amounts in the German
// convention used throughout the form: comma as decimal separator,
// period as grouping separator, two fractional digits on display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts text like "1.234,56" into a decimal value. Empty or
// unparsable input yields zero; the form deliberately prefers silent
// defaulting over rejecting half-typed values.
func Parse(text string) decimal.Decimal {
	s := strings.TrimSpace(text)
	if s == "" {
		return decimal.Zero
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders a value with exactly two fractional digits and a comma
// separator, e.g. 47.5 -> "47,50". No grouping separator is emitted.
func Format(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
