package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

type ShoppingSideSummary struct {
	Side      string  `json:"side"`
	Events    int     `json:"events"`
	Items     int     `json:"items"`
	Budget    float64 `json:"budget"`
	Completed int     `json:"completed"`
}

type ShoppingSummary struct {
	Sides          []ShoppingSideSummary `json:"sides"`
	Items          int                   `json:"items"`
	TotalBudget    float64               `json:"totalBudget"`
	Completed      int                   `json:"completed"`
	CompletionRate float64               `json:"completionRate"`
	TopEvents      []EventCost           `json:"topEvents"`
}

func Shopping(doc core.Document) ShoppingSummary {
	return ShoppingTop(doc, DefaultTopEvents)
}

// ShoppingTop is Shopping with an explicit number of top events. Each
// side's event is ranked on its own.
func ShoppingTop(doc core.Document, n int) ShoppingSummary {
	out := ShoppingSummary{Sides: []ShoppingSideSummary{}, TopEvents: []EventCost{}}
	if doc.Shopping == nil {
		return out
	}

	total := decimal.Zero
	var events []EventCost
	for _, side := range shoppingSides(doc.Shopping) {
		ss := ShoppingSideSummary{Side: side.name, Events: len(side.events)}
		sideTotal := decimal.Zero
		for _, ev := range side.events {
			evTotal := decimal.Zero
			for _, it := range ev.Items {
				evTotal = evTotal.Add(d(it.Budget))
				ss.Items++
				if it.Status.Done() {
					ss.Completed++
				}
			}
			events = append(events, EventCost{ID: ev.ID, Name: ev.Name, Group: side.name, Cost: f(evTotal)})
			sideTotal = sideTotal.Add(evTotal)
		}
		ss.Budget = f(sideTotal)
		total = total.Add(sideTotal)
		out.Items += ss.Items
		out.Completed += ss.Completed
		out.Sides = append(out.Sides, ss)
	}

	out.TotalBudget = f(total)
	out.CompletionRate = f(percent(decimal.NewFromInt(int64(out.Completed)), decimal.NewFromInt(int64(out.Items))))
	out.TopEvents = TopN(events, n, func(e EventCost) float64 { return e.Cost })
	return out
}
