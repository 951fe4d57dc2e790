package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

type GiftListSummary struct {
	List      string  `json:"list"`
	Count     int     `json:"count"`
	Quantity  int     `json:"quantity"`
	TotalCost float64 `json:"totalCost"`
	Completed int     `json:"completed"`
}

type GiftSummary struct {
	Lists          []GiftListSummary `json:"lists"`
	Count          int               `json:"count"`
	Quantity       int               `json:"quantity"`
	TotalCost      float64           `json:"totalCost"`
	Completed      int               `json:"completed"`
	CompletionRate float64           `json:"completionRate"`
	TopEvents      []EventCost       `json:"topEvents"`
}

// Gifts sums the three gift lists. Gifts are grouped into events by their
// event name for the top-N ranking; gifts without one are grouped under
// "unassigned".
func Gifts(doc core.Document) GiftSummary {
	return GiftsTop(doc, DefaultTopEvents)
}

// GiftsTop is Gifts with an explicit number of top events.
func GiftsTop(doc core.Document, n int) GiftSummary {
	out := GiftSummary{Lists: []GiftListSummary{}, TopEvents: []EventCost{}}
	if doc.GiftsAndFavors == nil {
		return out
	}

	total := decimal.Zero
	var events []EventCost
	eventIdx := map[string]int{}
	eventCost := []decimal.Decimal{}

	for _, l := range giftLists(doc.GiftsAndFavors) {
		ls := GiftListSummary{List: l.name}
		listTotal := decimal.Zero
		for _, g := range l.gifts {
			cost := d(g.Cost())
			ls.Count++
			ls.Quantity += g.Quantity
			listTotal = listTotal.Add(cost)
			if g.Status.Done() {
				ls.Completed++
			}

			name := g.Event
			if name == "" {
				name = "unassigned"
			}
			i, ok := eventIdx[name]
			if !ok {
				i = len(events)
				eventIdx[name] = i
				events = append(events, EventCost{Name: name})
				eventCost = append(eventCost, decimal.Zero)
			}
			eventCost[i] = eventCost[i].Add(cost)
		}
		ls.TotalCost = f(listTotal)
		total = total.Add(listTotal)
		out.Count += ls.Count
		out.Quantity += ls.Quantity
		out.Completed += ls.Completed
		out.Lists = append(out.Lists, ls)
	}

	for i := range events {
		events[i].Cost = f(eventCost[i])
	}
	out.TotalCost = f(total)
	out.CompletionRate = f(percent(decimal.NewFromInt(int64(out.Completed)), decimal.NewFromInt(int64(out.Count))))
	out.TopEvents = TopN(events, n, func(e EventCost) float64 { return e.Cost })
	return out
}
