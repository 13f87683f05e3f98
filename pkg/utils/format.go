// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var amountStripper = strings.NewReplacer("$", "", ",", "")

// ParseAmount parses a price cell such as "$1,234.5678" into a decimal.
// Currency markers, thousands separators and surrounding whitespace are ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(amountStripper.Replace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// FormatPercent formats a percentage with an explicit sign and the given
// number of decimal places.
func FormatPercent(value float64, places int) string {
	return fmt.Sprintf("%+.*f%%", places, value)
}

// FormatSigned formats a value with an explicit sign and the given number of
// decimal places.
func FormatSigned(value float64, places int) string {
	return fmt.Sprintf("%+.*f", places, value)
}

// FormatSignedCurrency formats an absolute move as "$+0.1000".
func FormatSignedCurrency(value float64) string {
	return "$" + FormatSigned(value, 4)
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
