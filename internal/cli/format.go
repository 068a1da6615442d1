// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAmount formats a money amount with separators and two decimals.
// e.g., 4030 -> "4,030.00", -286.2 -> "-286.20"
func FormatAmount(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatAmount(d.Neg())
	}
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	return FormatNumber(n) + "." + frac
}

// FormatMoney prefixes FormatAmount with a currency label.
// e.g., ("RM", 3586.7) -> "RM 3,586.70"
func FormatMoney(currency string, d decimal.Decimal) string {
	if currency == "" {
		return FormatAmount(d)
	}
	if d.IsNegative() {
		return "-" + currency + " " + FormatAmount(d.Neg())
	}
	return currency + " " + FormatAmount(d)
}

// FormatPercent formats a percentage (0-100 scale) with the given decimals.
func FormatPercent(p decimal.Decimal, places int32) string {
	return p.StringFixed(places) + "%"
}

// ParseAmount parses user-typed money, tolerating separators and spaces.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}
