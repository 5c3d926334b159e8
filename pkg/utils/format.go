// Package utils provides common utility functions for CryptoPulse.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats a dollar amount with thousands grouping ($12,345.67).
// Sub-dollar prices keep more precision so small-cap coins stay readable.
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) {
		return "—"
	}

	negative := amount < 0
	amount = math.Abs(amount)

	var s string
	switch {
	case amount > 0 && amount < 0.01:
		s = fmt.Sprintf("%.6f", amount)
	case amount > 0 && amount < 1:
		s = fmt.Sprintf("%.4f", amount)
	default:
		s = fmt.Sprintf("%.2f", amount)
	}

	intPart, decPart, _ := strings.Cut(s, ".")
	formatted := groupThousands(intPart) + "." + decPart

	if negative {
		return "-$" + formatted
	}
	return "$" + formatted
}

// FormatUSDCompact formats a dollar amount in compact notation.
// e.g., 1234567890 → "$1.23B", 45600000000000 → "$45.6T"
func FormatUSDCompact(amount float64) string {
	if math.IsNaN(amount) {
		return "—"
	}

	negative := amount < 0
	amount = math.Abs(amount)

	prefix := "$"
	if negative {
		prefix = "-$"
	}

	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%sT", prefix, formatWithDecimals(amount/1e12))
	case amount >= 1e9:
		return fmt.Sprintf("%s%sB", prefix, formatWithDecimals(amount/1e9))
	case amount >= 1e6:
		return fmt.Sprintf("%s%sM", prefix, formatWithDecimals(amount/1e6))
	case amount >= 1e3:
		return fmt.Sprintf("%s%sK", prefix, formatWithDecimals(amount/1e3))
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if math.IsNaN(pct) {
		return "—"
	}
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// groupThousands inserts commas into a digit string (groups of 3).
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
