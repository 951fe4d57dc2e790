package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// Source types of linked items.
const (
	TypeVendor    = "vendor"
	TypeMenuItem  = "menuItem"
	TypeGift      = "gift"
	TypeShopping  = "shoppingItem"
	TypeTransport = "transport"
)

// LinkedItem is a child record that names a budget category.
type LinkedItem struct {
	Type                  string                     `json:"type"`
	ID                    string                     `json:"id"`
	Name                  string                     `json:"name"`
	Context               string                     `json:"context,omitempty"`
	Category              string                     `json:"category"`
	Expected              float64                    `json:"expected"`
	Actual                float64                    `json:"actual"`
	PaymentResponsibility core.PaymentResponsibility `json:"paymentResponsibility,omitempty"`
}

// LinkedItems groups every item carrying a non-empty budgetCategory by that
// category, in document order: vendors, menu items, gifts, shopping items,
// transport. Category values are matched verbatim.
func LinkedItems(doc core.Document) map[string][]LinkedItem {
	out := make(map[string][]LinkedItem)
	add := func(it LinkedItem) {
		if it.Category == "" {
			return
		}
		out[it.Category] = append(out[it.Category], it)
	}

	for _, v := range doc.Vendors {
		add(LinkedItem{
			Type: TypeVendor, ID: v.ID, Name: v.Name, Context: v.Type, Category: v.BudgetCategory,
			Expected: v.EstimatedCost, Actual: v.FinalCost,
			PaymentResponsibility: v.PaymentResponsibility,
		})
	}

	for _, ev := range doc.Menus {
		expected := decimal.NewFromInt(int64(ev.ExpectedGuests))
		attended := decimal.NewFromInt(int64(ev.AttendedGuests))
		for _, it := range ev.Items {
			price := d(it.PricePerPlate)
			add(LinkedItem{
				Type: TypeMenuItem, ID: it.ID, Name: it.Name, Context: ev.Name, Category: it.BudgetCategory,
				Expected: f(price.Mul(expected)), Actual: f(price.Mul(attended)),
				PaymentResponsibility: it.PaymentResponsibility,
			})
		}
	}

	if gf := doc.GiftsAndFavors; gf != nil {
		for _, l := range giftLists(gf) {
			for _, g := range l.gifts {
				cost := g.Cost()
				add(LinkedItem{
					Type: TypeGift, ID: g.ID, Name: g.Description, Context: l.name, Category: g.BudgetCategory,
					Expected: cost, Actual: cost,
					PaymentResponsibility: g.PaymentResponsibility,
				})
			}
		}
	}

	if sh := doc.Shopping; sh != nil {
		for _, side := range shoppingSides(sh) {
			for _, ev := range side.events {
				for _, it := range ev.Items {
					add(LinkedItem{
						Type: TypeShopping, ID: it.ID, Name: it.Name, Context: side.name + "/" + ev.Name, Category: it.BudgetCategory,
						Expected: it.Budget, Actual: it.Budget,
						PaymentResponsibility: it.PaymentResponsibility,
					})
				}
			}
		}
	}

	if tr := doc.Travel; tr != nil {
		for _, t := range tr.Transport {
			name := t.Type
			if t.From != "" || t.To != "" {
				name += " " + t.From + " → " + t.To
			}
			add(LinkedItem{
				Type: TypeTransport, ID: t.ID, Name: name, Context: t.Date, Category: t.BudgetCategory,
				Expected: t.TotalPrice, Actual: t.TotalPrice,
				PaymentResponsibility: t.PaymentResponsibility,
			})
		}
	}
	return out
}

type namedGifts struct {
	name  string
	gifts []core.Gift
}

func giftLists(gf *core.GiftsAndFavors) []namedGifts {
	return []namedGifts{
		{"familyGifts", gf.FamilyGifts},
		{"returnGifts", gf.ReturnGifts},
		{"specialGifts", gf.SpecialGifts},
	}
}

type namedSide struct {
	name   string
	events []core.ShoppingEvent
}

func shoppingSides(sh *core.Shopping) []namedSide {
	return []namedSide{
		{"bride", sh.Bride},
		{"groom", sh.Groom},
		{"family", sh.Family},
	}
}

func linkedTotals(items []LinkedItem) (expected, actual decimal.Decimal) {
	expected, actual = decimal.Zero, decimal.Zero
	for _, it := range items {
		expected = expected.Add(d(it.Expected))
		actual = actual.Add(d(it.Actual))
	}
	return expected, actual
}

// EffectiveActual is the manual actual of cat plus the actual of its linked
// items.
func EffectiveActual(cat core.BudgetCategory, linked []LinkedItem) float64 {
	_, a := linkedTotals(linked)
	return f(d(cat.Actual).Add(a))
}
