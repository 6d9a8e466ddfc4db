package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the display suffix appended to every stored price.
const Currency = "DT"

// ParsePrice converts a stored display price ("24.900 DT", "24.900", "24,900 DT")
// into an exact decimal. Commas are accepted as decimal separators since the
// admin back-office is used with a French locale keyboard.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), Currency))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return d, nil
}

// FormatPrice renders a decimal amount back to the stored display form,
// three decimal places with the currency suffix.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(3) + " " + Currency
}
