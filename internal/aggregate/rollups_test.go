package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

func TestMenuPricesByEventGuestCount(t *testing.T) {
	ev := core.MenuEvent{ID: "e", Name: "Reception", ExpectedGuests: 100, AttendedGuests: 80,
		Items: []core.MenuItem{{ID: "i", Name: "Biryani", PricePerPlate: 50}}}

	s := Menu(ev)

	assert.Equal(t, 5000.0, s.ExpectedTotal)
	assert.Equal(t, 4000.0, s.ActualTotal)
	assert.Equal(t, 50.0, s.PerPlateTotal)
}

func TestMenusTotals(t *testing.T) {
	doc := core.DefaultDocument()
	doc.Menus = []core.MenuEvent{
		{ID: "a", ExpectedGuests: 100, AttendedGuests: 80, Items: []core.MenuItem{{PricePerPlate: 50}, {PricePerPlate: 25.5, Vegetarian: true}}},
		{ID: "b", ExpectedGuests: 0, AttendedGuests: 0, Items: []core.MenuItem{{PricePerPlate: 10}}},
	}

	s := Menus(doc)

	require.Len(t, s.Events, 2)
	assert.Equal(t, 7550.0, s.ExpectedTotal)
	assert.Equal(t, 6040.0, s.ActualTotal)
	assert.Equal(t, 80.0, s.Attendance)
	assert.Equal(t, 1, s.Events[0].Vegetarian)

	assert.Zero(t, Menus(core.DefaultDocument()).Attendance)
}

func TestGiftsSummary(t *testing.T) {
	doc := core.DefaultDocument()
	doc.GiftsAndFavors = &core.GiftsAndFavors{
		FamilyGifts: []core.Gift{
			{ID: "1", Description: "Saree", Event: "Wedding", Quantity: 2, PricePerGift: 4000, Status: core.ItemPurchased},
		},
		ReturnGifts: []core.Gift{
			{ID: "2", Description: "Sweets", Event: "Sangeet", Quantity: 3, PricePerGift: 500},
			{ID: "3", Description: "Diyas", Event: "Mehendi", Quantity: 10, PricePerGift: 150, Status: core.ItemDelivered},
		},
		SpecialGifts: []core.Gift{
			{ID: "4", Description: "Watch", Quantity: 1, PricePerGift: 1500},
		},
	}

	s := Gifts(doc)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 16, s.Quantity)
	assert.Equal(t, 12500.0, s.TotalCost)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 50.0, s.CompletionRate)
	require.Len(t, s.Lists, 3)
	assert.Equal(t, 3000.0, s.Lists[1].TotalCost)

	// Sangeet and Mehendi and unassigned tie at 1500; insertion order wins
	names := make([]string, 0, len(s.TopEvents))
	for _, e := range s.TopEvents {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Wedding", "Sangeet", "Mehendi", "unassigned"}, names)
	assert.Len(t, GiftsTop(doc, 2).TopEvents, 2)
}

func TestGiftsEmpty(t *testing.T) {
	s := Gifts(core.DefaultDocument())
	assert.Zero(t, s.CompletionRate)
	assert.Empty(t, s.TopEvents)
}

func TestShoppingSummary(t *testing.T) {
	doc := core.DefaultDocument()
	doc.Shopping.Bride[4].Items = []core.ShoppingItem{
		{ID: "a", Name: "Lehenga", Budget: 80000, Status: core.ItemPurchased},
		{ID: "b", Name: "Jewellery", Budget: 50000},
	}
	doc.Shopping.Groom[4].Items = []core.ShoppingItem{{ID: "c", Name: "Sherwani", Budget: 40000, Status: core.ItemDelivered}}
	doc.Shopping.Family[0].Items = []core.ShoppingItem{{ID: "d", Name: "Rings", Budget: 40000}}

	s := ShoppingTop(doc, 3)

	assert.Equal(t, 210000.0, s.TotalBudget)
	assert.Equal(t, 4, s.Items)
	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 50.0, s.CompletionRate)
	require.Len(t, s.TopEvents, 3)
	assert.Equal(t, "bride-wedding", s.TopEvents[0].ID)
	assert.Equal(t, "groom-wedding", s.TopEvents[1].ID, "ties keep side order")
	assert.Equal(t, "family-engagement", s.TopEvents[2].ID)
	assert.Equal(t, 130000.0, s.Sides[0].Budget)
}

func TestShoppingNoItems(t *testing.T) {
	s := Shopping(core.DefaultDocument())
	assert.Zero(t, s.CompletionRate)
	assert.Zero(t, s.TotalBudget)
}

func TestTopNStable(t *testing.T) {
	in := []EventCost{{Name: "a", Cost: 1}, {Name: "b", Cost: 3}, {Name: "c", Cost: 3}, {Name: "d", Cost: 2}}

	out := TopN(in, 0, func(e EventCost) float64 { return e.Cost })

	assert.Equal(t, "bcda", out[0].Name+out[1].Name+out[2].Name+out[3].Name)
	assert.Equal(t, "a", in[0].Name, "input untouched")
	assert.Len(t, TopN(in, 10, func(e EventCost) float64 { return e.Cost }), 4)
}

func TestVendorsSummary(t *testing.T) {
	doc := core.DefaultDocument()
	doc.Vendors = []core.Vendor{
		{ID: "1", Type: "venue", EstimatedCost: 100, FinalCost: 90, AdvancePaid: 40, Status: core.VendorBooked},
		{ID: "2", Type: "venue", EstimatedCost: 50, FinalCost: 0},
		{ID: "3", Type: "music", EstimatedCost: 30, FinalCost: 30, Status: core.VendorCancelled},
	}

	s := Vendors(doc)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.ByStatus[core.VendorPending])
	assert.Equal(t, 1, s.ByStatus[core.VendorCancelled])
	assert.Equal(t, 150.0, s.EstimatedTotal)
	assert.Equal(t, 90.0, s.FinalTotal)
	assert.Equal(t, 50.0, s.Outstanding)
	assert.Equal(t, VendorTypeTotals{Count: 2, Estimated: 150, Final: 90}, s.ByType["venue"])
	assert.NotContains(t, s.ByType, "music")
}

func TestGuestsExpandFamilies(t *testing.T) {
	doc := core.DefaultDocument()
	doc.Guests = []core.Guest{
		{ID: "1", Name: "Meera", Side: "bride", RSVP: core.RSVPConfirmed, Dietary: "Vegan", PlusOne: true},
		{ID: "2", Name: "Kapoors", Side: "groom", IsFamily: true, RSVP: core.RSVPConfirmed, PickupRequired: true,
			FamilyMembers: []core.FamilyMember{
				{ID: "a", Name: "Anil", Dietary: "vegan", Accommodation: true},
				{ID: "b", Name: "Sunita", RSVP: core.RSVPDeclined, PickupRequired: true},
			}},
		{ID: "3", Name: "Dev"},
	}

	s := Guests(doc)

	assert.Equal(t, 3, s.Records)
	assert.Equal(t, 1, s.Families)
	assert.Equal(t, 6, s.Headcount)
	assert.Equal(t, map[string]int{"bride": 2, "groom": 3, "unassigned": 1}, s.BySide)
	assert.Equal(t, 4, s.RSVP[core.RSVPConfirmed])
	assert.Equal(t, 1, s.RSVP[core.RSVPDeclined])
	assert.Equal(t, 1, s.RSVP[core.RSVPPending])
	assert.Equal(t, map[string]int{"vegan": 2}, s.Dietary)
	assert.Equal(t, 2, s.PickupRequired)
	assert.Equal(t, 1, s.Accommodation)
	assert.InDelta(t, 200.0/3, s.ConfirmedRate, 1e-9)

	assert.Zero(t, Guests(core.DefaultDocument()).ConfirmedRate)
}

func TestTasksSummary(t *testing.T) {
	doc := core.DefaultDocument()
	doc.Tasks = []core.Task{
		{ID: "1", Status: core.TaskDone, Priority: core.PriorityHigh},
		{ID: "2", Status: core.TaskPending, Priority: core.PriorityHigh, DueDate: "2026-01-01"},
		{ID: "3", DueDate: "2026-12-31"},
	}

	s := Tasks(doc, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, map[core.Priority]int{core.PriorityHigh: 1, core.PriorityMedium: 1}, s.ByPriority)
	assert.InDelta(t, 100.0/3, s.CompletionRate, 1e-9)
}

func TestTimelineSchedulesDays(t *testing.T) {
	doc := core.DefaultDocument()
	doc.WeddingInfo.Date = "2026-12-12"
	doc.Timeline = []core.TimelineDay{
		{ID: "w", DayOffset: 0, Events: []core.TimelineEvent{{ID: "x", Name: "Pheras"}, {ID: "y", Name: "Baraat", StartTime: "18:00"}, {ID: "z", Name: "Haldi", StartTime: "09:00"}}},
		{ID: "h", DayOffset: -2},
		{ID: "r", DayOffset: 1},
	}

	days := Timeline(doc)

	require.Len(t, days, 3)
	assert.Equal(t, []string{"2026-12-10", "2026-12-12", "2026-12-13"}, []string{days[0].Date, days[1].Date, days[2].Date})
	assert.Equal(t, []string{"z", "y", "x"}, []string{days[1].Events[0].ID, days[1].Events[1].ID, days[1].Events[2].ID})
	assert.Equal(t, "x", doc.Timeline[0].Events[0].ID)

	doc.WeddingInfo.Date = ""
	assert.Empty(t, Timeline(doc)[0].Date)
}
