// Package aggregate computes derived views of the planning document: budget
// linkage and per-side attribution, menu, gift, shopping, vendor, guest and
// task rollups. Every function is pure and may be recomputed on each change.
//
// Sums run on shopspring/decimal so that repeated float additions of money
// do not drift; results are reported as float64.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func f(v decimal.Decimal) float64 { return v.InexactFloat64() }

// ratio returns num/den, or 0 when den is not positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

// percent returns num/den*100, or 0 when den is not positive. The result is
// not rounded; display code rounds it.
func percent(num, den decimal.Decimal) decimal.Decimal {
	return ratio(num, den).Mul(hundred)
}

// Clamp bounds a percentage to [0, 100] for progress bars.
func Clamp(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// TopN returns up to n items ranked by cost, highest first. Ties keep their
// input order. n <= 0 returns every item. items is not modified.
func TopN[T any](items []T, n int, cost func(T) float64) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return cost(out[i]) > cost(out[j]) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// EventCost is one ranked grouping of gifts or shopping items.
type EventCost struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Group string  `json:"group,omitempty"`
	Cost  float64 `json:"cost"`
}

// DefaultTopEvents is the number of events reported by the gift and shopping
// summaries.
const DefaultTopEvents = 5
