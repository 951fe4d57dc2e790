package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xRahul/wedding-planner-app-sub001/internal/aggregate"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

const barWidth = 24

// Budget renders the per-category report, side attribution and any items
// linked to categories that do not exist.
func Budget(r aggregate.BudgetReport) string {
	rows := make([][]string, 0, len(r.Categories)+2)
	labelW := 0
	for _, c := range r.Categories {
		rows = append(rows, []string{
			c.Category,
			FormatMoney(c.Planned),
			FormatMoney(c.EffectiveActual),
			FormatMoney(c.LinkedExpected),
			FormatMoney(c.Remaining),
			FormatPercent(c.PlannedPercent),
		})
		if len(c.Category) > labelW {
			labelW = len(c.Category)
		}
	}
	rows = append(rows, Separator, []string{
		"Total",
		FormatMoney(r.TotalPlanned),
		FormatMoney(r.TotalActual),
		FormatMoney(r.TotalLinkedExpected),
		FormatMoney(r.Remaining),
		"",
	})

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Budget",
		Headers: []string{"Category", "Planned", "Actual", "Linked expected", "Remaining", "Share"},
		Rows:    rows,
	}))

	b.WriteString("\n")
	b.WriteString(ProgressBar("Overall", r.Percent, labelW, barWidth))
	b.WriteString("\n")
	for _, c := range r.Categories {
		b.WriteString(ProgressBar(c.Category, c.Percent, labelW, barWidth))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderTable(Table{
		Title:   "By side",
		Headers: []string{"Side", "Budget", "Expected", "Actual", "Remaining"},
		Rows: [][]string{
			sideRow("Bride", r.Bride),
			sideRow("Groom", r.Groom),
		},
	}))

	if len(r.Unlinked) > 0 {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(fmt.Sprintf("  %d item(s) point at a missing budget category", len(r.Unlinked))))
		b.WriteString("\n")
		rows := make([][]string, 0, len(r.Unlinked))
		for _, it := range r.Unlinked {
			rows = append(rows, []string{it.Name, it.Type, it.Category, FormatMoney(it.Expected), FormatMoney(it.Actual)})
		}
		b.WriteString(RenderTable(Table{
			Headers: []string{"Item", "Type", "Category", "Expected", "Actual"},
			Rows:    rows,
		}))
	}
	return b.String()
}

func sideRow(name string, s aggregate.SideReport) []string {
	return []string{name, FormatMoney(s.Budget), FormatMoney(s.Expected), FormatMoney(s.Actual), FormatMoney(s.Remaining)}
}

func topEvents(title string, events []aggregate.EventCost) string {
	if len(events) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{e.Name, e.Group, FormatMoney(e.Cost)})
	}
	return RenderTable(Table{Title: title, Headers: []string{"Event", "Group", "Cost"}, Rows: rows})
}

func Gifts(s aggregate.GiftSummary) string {
	rows := make([][]string, 0, len(s.Lists)+2)
	for _, l := range s.Lists {
		rows = append(rows, []string{l.List, FormatCount(l.Count), FormatCount(l.Quantity), FormatMoney(l.TotalCost), FormatCount(l.Completed)})
	}
	rows = append(rows, Separator, []string{"Total", FormatCount(s.Count), FormatCount(s.Quantity), FormatMoney(s.TotalCost), FormatCount(s.Completed)})

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Gifts",
		Headers: []string{"List", "Gifts", "Quantity", "Cost", "Done"},
		Rows:    rows,
	}))
	b.WriteString(ProgressBar("Completed", s.CompletionRate, 9, barWidth))
	b.WriteString("\n")
	b.WriteString(topEvents("Top events", s.TopEvents))
	return b.String()
}

func Shopping(s aggregate.ShoppingSummary) string {
	rows := make([][]string, 0, len(s.Sides)+2)
	for _, side := range s.Sides {
		rows = append(rows, []string{label(side.Side), FormatCount(side.Events), FormatCount(side.Items), FormatMoney(side.Budget), FormatCount(side.Completed)})
	}
	rows = append(rows, Separator, []string{"Total", "", FormatCount(s.Items), FormatMoney(s.TotalBudget), FormatCount(s.Completed)})

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Shopping",
		Headers: []string{"Side", "Events", "Items", "Budget", "Done"},
		Rows:    rows,
	}))
	b.WriteString(ProgressBar("Completed", s.CompletionRate, 9, barWidth))
	b.WriteString("\n")
	b.WriteString(topEvents("Top events", s.TopEvents))
	return b.String()
}

func Menus(s aggregate.MenusSummary) string {
	rows := make([][]string, 0, len(s.Events)+2)
	for _, e := range s.Events {
		rows = append(rows, []string{
			e.Name,
			FormatCount(e.Items),
			FormatCount(e.ExpectedGuests),
			FormatCount(e.AttendedGuests),
			FormatMoney(e.PerPlateTotal),
			FormatMoney(e.ExpectedTotal),
			FormatMoney(e.ActualTotal),
		})
	}
	rows = append(rows, Separator, []string{"Total", "", "", "", "", FormatMoney(s.ExpectedTotal), FormatMoney(s.ActualTotal)})

	return RenderTable(Table{
		Title:   "Menus",
		Headers: []string{"Event", "Items", "Expected", "Attended", "Per plate", "Expected cost", "Actual cost"},
		Rows:    rows,
	}) + mutedStyle.Render("  Attendance "+FormatPercent(s.Attendance)) + "\n"
}

func Vendors(s aggregate.VendorSummary) string {
	types := sortedKeys(s.ByType)
	rows := make([][]string, 0, len(types)+6)
	for _, t := range types {
		v := s.ByType[t]
		rows = append(rows, []string{t, FormatCount(v.Count), FormatMoney(v.Estimated), FormatMoney(v.Final)})
	}
	rows = append(rows, Separator, []string{"Total", FormatCount(s.Count), FormatMoney(s.EstimatedTotal), FormatMoney(s.FinalTotal)})

	status := make([][]string, 0, len(s.ByStatus))
	for _, st := range sortedKeys(s.ByStatus) {
		status = append(status, []string{label(string(st)), FormatCount(s.ByStatus[st])})
	}

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Vendors",
		Headers: []string{"Type", "Count", "Estimated", "Final"},
		Rows:    rows,
	}))
	b.WriteString(RenderTable(Table{Headers: []string{"Status", "Count"}, Rows: status}))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  Advance paid %s, outstanding %s", FormatMoney(s.AdvancePaid), FormatMoney(s.Outstanding))))
	b.WriteString("\n")
	return b.String()
}

func Guests(s aggregate.GuestSummary) string {
	rows := [][]string{
		{"Records", FormatCount(s.Records)},
		{"Families", FormatCount(s.Families)},
		{"Headcount", FormatCount(s.Headcount)},
		Separator,
	}
	for _, side := range sortedKeys(s.BySide) {
		rows = append(rows, []string{"Side: " + label(side), FormatCount(s.BySide[side])})
	}
	rows = append(rows, Separator)
	for _, r := range []core.RSVP{core.RSVPConfirmed, core.RSVPPending, core.RSVPDeclined} {
		rows = append(rows, []string{"RSVP: " + label(string(r)), FormatCount(s.RSVP[r])})
	}
	rows = append(rows, Separator)
	for _, diet := range sortedKeys(s.Dietary) {
		rows = append(rows, []string{"Diet: " + label(diet), FormatCount(s.Dietary[diet])})
	}
	rows = append(rows,
		[]string{"Pickup required", FormatCount(s.PickupRequired)},
		[]string{"Accommodation", FormatCount(s.Accommodation)},
	)

	return RenderTable(Table{Title: "Guests", Headers: []string{"Metric", "Value"}, Rows: rows}) +
		ProgressBar("Confirmed", s.ConfirmedRate, 9, barWidth) + "\n"
}

func Tasks(s aggregate.TaskSummary) string {
	rows := [][]string{
		{"Total", FormatCount(s.Total)},
		{"Done", FormatCount(s.Done)},
		{"Pending", FormatCount(s.Pending)},
		{"Overdue", FormatCount(s.Overdue)},
		Separator,
	}
	for _, p := range []core.Priority{core.PriorityHigh, core.PriorityMedium, core.PriorityLow} {
		rows = append(rows, []string{"Pending " + string(p), FormatCount(s.ByPriority[p])})
	}
	out := RenderTable(Table{Title: "Tasks", Headers: []string{"Metric", "Count"}, Rows: rows}) +
		ProgressBar("Completed", s.CompletionRate, 9, barWidth) + "\n"
	if s.Overdue > 0 {
		out += warnStyle.Render(fmt.Sprintf("  %d overdue", s.Overdue)) + "\n"
	}
	return out
}

// Schedule lists each day with its resolved date, then its events.
func Schedule(days []aggregate.ScheduledDay) string {
	if len(days) == 0 {
		return mutedStyle.Render("  No timeline days yet.") + "\n"
	}
	rows := make([][]string, 0, len(days)*3)
	for i, day := range days {
		if i > 0 {
			rows = append(rows, Separator)
		}
		date := day.Date
		if date == "" {
			date = fmt.Sprintf("day %+d", day.DayOffset)
		}
		rows = append(rows, []string{date, day.Label, ""})
		for _, ev := range day.Events {
			when := ev.StartTime
			if ev.EndTime != "" {
				when += "-" + ev.EndTime
			}
			rows = append(rows, []string{"  " + ev.Name, ev.Location, when})
		}
	}
	return RenderTable(Table{Title: "Timeline", Headers: []string{"Day / event", "Where", "When"}, Rows: rows})
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
