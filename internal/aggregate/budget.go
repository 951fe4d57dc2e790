package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// CategoryReport is one budget category with its linked items. Percent is
// the share of the wedding's total budget and is not clamped; BarPercent is
// the same value clamped to [0, 100]. PlannedPercent is progress against the
// category's own plan.
type CategoryReport struct {
	Category        string       `json:"category"`
	Planned         float64      `json:"planned"`
	Actual          float64      `json:"actual"`
	LinkedExpected  float64      `json:"linkedExpected"`
	LinkedActual    float64      `json:"linkedActual"`
	EffectiveActual float64      `json:"effectiveActual"`
	Remaining       float64      `json:"remaining"`
	Percent         float64      `json:"percent"`
	BarPercent      float64      `json:"barPercent"`
	PlannedPercent  float64      `json:"plannedPercent"`
	Items           []LinkedItem `json:"items"`
}

// SideReport is spend attributed to one side against that side's budget.
type SideReport struct {
	Budget    float64 `json:"budget"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// BudgetReport is the full budget rollup. Unlinked lists items whose
// budgetCategory names no category; they take no part in any total.
type BudgetReport struct {
	Categories          []CategoryReport `json:"categories"`
	TotalBudget         float64          `json:"totalBudget"`
	TotalPlanned        float64          `json:"totalPlanned"`
	TotalManualActual   float64          `json:"totalManualActual"`
	TotalLinkedExpected float64          `json:"totalLinkedExpected"`
	TotalLinkedActual   float64          `json:"totalLinkedActual"`
	TotalActual         float64          `json:"totalActual"`
	Remaining           float64          `json:"remaining"`
	Percent             float64          `json:"percent"`
	Bride               SideReport       `json:"bride"`
	Groom               SideReport       `json:"groom"`
	Unlinked            []LinkedItem     `json:"unlinked"`
}

type sideAcc struct{ expected, actual decimal.Decimal }

func (s *sideAcc) add(e, a decimal.Decimal) {
	s.expected = s.expected.Add(e)
	s.actual = s.actual.Add(a)
}

func (s sideAcc) report(budget float64) SideReport {
	b := d(budget)
	return SideReport{
		Budget:    budget,
		Expected:  f(s.expected),
		Actual:    f(s.actual),
		Remaining: f(b.Sub(s.actual)),
		Percent:   f(percent(s.actual, b)),
	}
}

// Budget builds the category and side rollups. A category listed twice
// receives its linked items only once, at its first position.
func Budget(doc core.Document) BudgetReport {
	info := core.WeddingInfo{}
	if doc.WeddingInfo != nil {
		info = *doc.WeddingInfo
	}
	totalBudget := d(info.TotalBudget)
	linked := LinkedItems(doc)

	planned, manual := decimal.Zero, decimal.Zero
	linkedExp, linkedAct := decimal.Zero, decimal.Zero
	bride := sideAcc{decimal.Zero, decimal.Zero}
	groom := sideAcc{decimal.Zero, decimal.Zero}
	two := decimal.NewFromInt(2)
	seen := make(map[string]bool, len(doc.Budget))
	rep := BudgetReport{Categories: make([]CategoryReport, 0, len(doc.Budget)), Unlinked: []LinkedItem{}}

	for _, cat := range doc.Budget {
		var items []LinkedItem
		if !seen[cat.Category] {
			items = linked[cat.Category]
			seen[cat.Category] = true
		}
		if items == nil {
			items = []LinkedItem{}
		}
		e, a := linkedTotals(items)
		effective := d(cat.Actual).Add(a)
		pct := percent(effective, totalBudget)

		rep.Categories = append(rep.Categories, CategoryReport{
			Category:        cat.Category,
			Planned:         cat.Planned,
			Actual:          cat.Actual,
			LinkedExpected:  f(e),
			LinkedActual:    f(a),
			EffectiveActual: f(effective),
			Remaining:       f(d(cat.Planned).Sub(effective)),
			Percent:         f(pct),
			BarPercent:      Clamp(f(pct)),
			PlannedPercent:  f(percent(effective, d(cat.Planned))),
			Items:           items,
		})

		planned = planned.Add(d(cat.Planned))
		manual = manual.Add(d(cat.Actual))
		linkedExp = linkedExp.Add(e)
		linkedAct = linkedAct.Add(a)

		// Items without a recognised responsibility count toward the
		// category but toward neither side.
		for _, it := range items {
			if !it.PaymentResponsibility.IsSide() {
				continue
			}
			ie, ia := d(it.Expected), d(it.Actual)
			switch it.PaymentResponsibility {
			case core.Bride:
				bride.add(ie, ia)
			case core.Groom:
				groom.add(ie, ia)
			default:
				he, ha := ie.Div(two), ia.Div(two)
				bride.add(he, ha)
				groom.add(he, ha)
			}
		}
	}

	for cat, items := range linked {
		if !seen[cat] {
			rep.Unlinked = append(rep.Unlinked, items...)
		}
	}
	sortLinked(rep.Unlinked)

	total := manual.Add(linkedAct)
	rep.TotalBudget = info.TotalBudget
	rep.TotalPlanned = f(planned)
	rep.TotalManualActual = f(manual)
	rep.TotalLinkedExpected = f(linkedExp)
	rep.TotalLinkedActual = f(linkedAct)
	rep.TotalActual = f(total)
	rep.Remaining = f(totalBudget.Sub(total))
	rep.Percent = f(percent(total, totalBudget))
	rep.Bride = bride.report(info.BrideBudget)
	rep.Groom = groom.report(info.GroomBudget)
	return rep
}

// sortLinked orders dangling items by category then source type so the
// report does not depend on map iteration.
func sortLinked(items []LinkedItem) {
	order := map[string]int{TypeVendor: 0, TypeMenuItem: 1, TypeGift: 2, TypeShopping: 3, TypeTransport: 4}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return order[items[i].Type] < order[items[j].Type]
	})
}
