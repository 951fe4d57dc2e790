// Package render turns planner views into terminal reports: bordered tables,
// progress bars and human-readable amounts.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Currency prefixes every formatted amount.
var Currency = "₹"

// FormatMoney rounds to whole units and adds thousands separators.
// e.g., 125000.4 -> "₹125,000"
func FormatMoney(v float64) string {
	if v < 0 {
		return "-" + FormatMoney(-v)
	}
	return Currency + humanize.Comma(int64(math.Round(v)))
}

// FormatPercent formats a 0-100 percentage.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatCount adds thousands separators to a count.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// label title-cases an enum value for display.
func label(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
