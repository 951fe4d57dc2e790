package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

func docWith(fn func(d *core.Document)) core.Document {
	d := core.DefaultDocument()
	d.WeddingInfo = &core.WeddingInfo{TotalBudget: 500000, BrideBudget: 250000, GroomBudget: 250000}
	d.Budget = []core.BudgetCategory{
		{Category: "venue", Planned: 100000, Actual: 20000},
		{Category: "catering", Planned: 0, Actual: 0},
	}
	fn(&d)
	return d.Normalize()
}

func findCategory(t *testing.T, rep BudgetReport, name string) CategoryReport {
	t.Helper()
	for _, c := range rep.Categories {
		if c.Category == name {
			return c
		}
	}
	t.Fatalf("category %q not in report", name)
	return CategoryReport{}
}

func TestBudgetVenueSplitVendor(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{{
			ID: "v1", Name: "Grand Hall", Type: "venue",
			EstimatedCost: 150000, FinalCost: 140000,
			BudgetCategory: "venue", PaymentResponsibility: core.Split,
		}}
	})

	rep := Budget(doc)
	venue := findCategory(t, rep, "venue")

	assert.Equal(t, 150000.0, venue.LinkedExpected)
	assert.Equal(t, 140000.0, venue.LinkedActual)
	assert.Equal(t, 160000.0, venue.EffectiveActual)
	assert.Equal(t, 70000.0, rep.Bride.Actual)
	assert.Equal(t, 70000.0, rep.Groom.Actual)
	assert.Equal(t, 75000.0, rep.Bride.Expected)
	assert.Equal(t, 180000.0, rep.Bride.Remaining)

	assert.Equal(t, 32.0, venue.Percent)
	assert.Equal(t, 160.0, venue.PlannedPercent)
	assert.Equal(t, -60000.0, venue.Remaining)

	assert.Equal(t, 100000.0, rep.TotalPlanned)
	assert.Equal(t, 20000.0, rep.TotalManualActual)
	assert.Equal(t, 140000.0, rep.TotalLinkedActual)
	assert.Equal(t, 160000.0, rep.TotalActual)
	assert.Equal(t, 340000.0, rep.Remaining)
}

func TestBudgetOverspendKeepsTruePercent(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.WeddingInfo.TotalBudget = 100000
		d.Budget[0].Actual = 137000
	})

	venue := findCategory(t, Budget(doc), "venue")

	assert.Equal(t, 137.0, venue.Percent)
	assert.Equal(t, 100.0, venue.BarPercent)
}

func TestBudgetZeroDenominators(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.WeddingInfo = &core.WeddingInfo{}
		d.Budget[1].Actual = 500
	})

	rep := Budget(doc)
	catering := findCategory(t, rep, "catering")

	assert.Zero(t, catering.PlannedPercent)
	assert.Zero(t, catering.Percent)
	assert.Zero(t, catering.BarPercent)
	assert.Zero(t, rep.Percent)
	assert.Zero(t, rep.Bride.Percent)
	assert.Equal(t, 500.0, catering.EffectiveActual)
}

func TestEffectiveActualWithoutLinkedItems(t *testing.T) {
	for _, cat := range []core.BudgetCategory{
		{Category: "a"},
		{Category: "b", Actual: 12.5},
		{Category: "c", Planned: 10, Actual: 99999.99},
	} {
		assert.Equal(t, cat.Actual, EffectiveActual(cat, nil))
		assert.Equal(t, cat.Actual, EffectiveActual(cat, []LinkedItem{}))
	}
}

func TestSideTotalsAddUp(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{
			{ID: "v1", Name: "DJ", Type: "music", FinalCost: 333.33, EstimatedCost: 400, BudgetCategory: "venue", PaymentResponsibility: core.Split},
			{ID: "v2", Name: "Florist", Type: "decor", FinalCost: 1000, BudgetCategory: "venue", PaymentResponsibility: core.Bride},
		}
		d.Menus = []core.MenuEvent{{ID: "m", Name: "Sangeet", ExpectedGuests: 10, AttendedGuests: 7, Items: []core.MenuItem{
			{ID: "i", Name: "Paneer", PricePerPlate: 12.35, BudgetCategory: "catering", PaymentResponsibility: core.Groom},
		}}}
		d.Travel.Transport = []core.Transport{{ID: "t", Type: "bus", TotalPrice: 0.01, BudgetCategory: "catering", PaymentResponsibility: core.Split}}
	})

	rep := Budget(doc)

	assert.InDelta(t, rep.TotalLinkedActual, rep.Bride.Actual+rep.Groom.Actual, 1e-9)
	assert.Equal(t, 86.46, findCategory(t, rep, "catering").LinkedActual)
}

func TestUnknownResponsibilityExcludedFromSides(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{
			{ID: "v1", Name: "Pandit", Type: "priest", FinalCost: 5000, BudgetCategory: "venue"},
			{ID: "v2", Name: "Uncle's band", Type: "music", FinalCost: 3000, BudgetCategory: "venue", PaymentResponsibility: "parents"},
		}
	})

	rep := Budget(doc)

	assert.Equal(t, 8000.0, rep.TotalLinkedActual)
	assert.Zero(t, rep.Bride.Actual)
	assert.Zero(t, rep.Groom.Actual)
}

func TestDanglingCategoryContributesNothing(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{
			{ID: "v1", Name: "Old photographer", Type: "photo", FinalCost: 9000, BudgetCategory: "photography", PaymentResponsibility: core.Bride},
			{ID: "v2", Name: "No category", Type: "misc", FinalCost: 100},
		}
	})

	rep := Budget(doc)

	assert.Zero(t, rep.TotalLinkedActual)
	assert.Zero(t, rep.Bride.Actual)
	require.Len(t, rep.Unlinked, 1)
	assert.Equal(t, "v1", rep.Unlinked[0].ID)
}

func TestGiftLinkedToCategory(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.GiftsAndFavors.ReturnGifts = []core.Gift{{ID: "g", Description: "Sweets", Quantity: 3, PricePerGift: 500, BudgetCategory: "venue"}}
	})

	linked := LinkedItems(doc)["venue"]
	require.Len(t, linked, 1)
	assert.Equal(t, TypeGift, linked[0].Type)
	assert.Equal(t, 1500.0, linked[0].Expected)
	assert.Equal(t, 1500.0, linked[0].Actual)
	assert.Equal(t, 1500.0, doc.GiftsAndFavors.ReturnGifts[0].TotalCost)
}

func TestLinkedItemsOrderAndSources(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Travel.Transport = []core.Transport{{ID: "t", Type: "car", From: "Airport", To: "Hotel", TotalPrice: 50, BudgetCategory: "x"}}
		d.Shopping.Bride[0].Items = []core.ShoppingItem{{ID: "s", Name: "Lehenga", Budget: 80000, BudgetCategory: "x"}}
		d.Vendors = []core.Vendor{{ID: "v", Name: "Hall", Type: "venue", EstimatedCost: 1, FinalCost: 2, BudgetCategory: "x"}}
	})

	items := LinkedItems(doc)["x"]

	require.Len(t, items, 3)
	assert.Equal(t, []string{TypeVendor, TypeShopping, TypeTransport}, []string{items[0].Type, items[1].Type, items[2].Type})
	assert.Equal(t, "bride/Engagement", items[1].Context)
	assert.Equal(t, "car Airport → Hotel", items[2].Name)
}

func TestBudgetDoesNotMutateDocument(t *testing.T) {
	doc := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{{ID: "v", Name: "Hall", Type: "venue", FinalCost: 2, BudgetCategory: "venue"}}
	})
	before := docWith(func(d *core.Document) {
		d.Vendors = []core.Vendor{{ID: "v", Name: "Hall", Type: "venue", FinalCost: 2, BudgetCategory: "venue"}}
	})

	first := Budget(doc)
	second := Budget(doc)

	assert.Equal(t, before, doc)
	assert.Equal(t, first, second)
}

func TestRatioGuards(t *testing.T) {
	pct := func(num, den float64) float64 { return f(percent(d(num), d(den))) }
	assert.Zero(t, f(ratio(d(5), d(0))))
	assert.Zero(t, f(ratio(d(5), d(-1))))
	assert.Equal(t, 0.5, f(ratio(d(1), d(2))))
	assert.Zero(t, pct(0, 0))
	assert.InDelta(t, 100.0/3, pct(1, 3), 1e-9)
	assert.Greater(t, pct(2, 3), 66.666)
}
