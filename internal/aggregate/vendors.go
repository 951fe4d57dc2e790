package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

type VendorTypeTotals struct {
	Count     int     `json:"count"`
	Estimated float64 `json:"estimated"`
	Final     float64 `json:"final"`
}

type VendorSummary struct {
	Count          int                         `json:"count"`
	ByStatus       map[core.VendorStatus]int   `json:"byStatus"`
	ByType         map[string]VendorTypeTotals `json:"byType"`
	EstimatedTotal float64                     `json:"estimatedTotal"`
	FinalTotal     float64                     `json:"finalTotal"`
	AdvancePaid    float64                     `json:"advancePaid"`
	Outstanding    float64                     `json:"outstanding"`
}

// Vendors totals costs by status and type. Cancelled vendors are counted but
// left out of the money totals. A vendor with no status counts as pending.
func Vendors(doc core.Document) VendorSummary {
	out := VendorSummary{
		ByStatus: map[core.VendorStatus]int{},
		ByType:   map[string]VendorTypeTotals{},
	}
	est, fin, adv := decimal.Zero, decimal.Zero, decimal.Zero
	for _, v := range doc.Vendors {
		out.Count++
		status := v.Status
		if status == "" {
			status = core.VendorPending
		}
		out.ByStatus[status]++
		if status == core.VendorCancelled {
			continue
		}

		tt := out.ByType[v.Type]
		tt.Count++
		tt.Estimated = f(d(tt.Estimated).Add(d(v.EstimatedCost)))
		tt.Final = f(d(tt.Final).Add(d(v.FinalCost)))
		out.ByType[v.Type] = tt

		est = est.Add(d(v.EstimatedCost))
		fin = fin.Add(d(v.FinalCost))
		adv = adv.Add(d(v.AdvancePaid))
	}
	out.EstimatedTotal = f(est)
	out.FinalTotal = f(fin)
	out.AdvancePaid = f(adv)
	out.Outstanding = f(decimal.Max(fin.Sub(adv), decimal.Zero))
	return out
}
