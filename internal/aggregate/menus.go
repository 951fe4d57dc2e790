package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// MenuSummary prices every item of one event by the event's guest counts.
type MenuSummary struct {
	EventID        string  `json:"eventId"`
	Name           string  `json:"name"`
	Items          int     `json:"items"`
	ExpectedGuests int     `json:"expectedGuests"`
	AttendedGuests int     `json:"attendedGuests"`
	PerPlateTotal  float64 `json:"perPlateTotal"`
	ExpectedTotal  float64 `json:"expectedTotal"`
	ActualTotal    float64 `json:"actualTotal"`
	Vegetarian     int     `json:"vegetarian"`
}

type MenusSummary struct {
	Events        []MenuSummary `json:"events"`
	ExpectedTotal float64       `json:"expectedTotal"`
	ActualTotal   float64       `json:"actualTotal"`
	Attendance    float64       `json:"attendancePercent"`
}

func Menu(ev core.MenuEvent) MenuSummary {
	perPlate := decimal.Zero
	veg := 0
	for _, it := range ev.Items {
		perPlate = perPlate.Add(d(it.PricePerPlate))
		if it.Vegetarian {
			veg++
		}
	}
	return MenuSummary{
		EventID:        ev.ID,
		Name:           ev.Name,
		Items:          len(ev.Items),
		ExpectedGuests: ev.ExpectedGuests,
		AttendedGuests: ev.AttendedGuests,
		PerPlateTotal:  f(perPlate),
		ExpectedTotal:  f(perPlate.Mul(decimal.NewFromInt(int64(ev.ExpectedGuests)))),
		ActualTotal:    f(perPlate.Mul(decimal.NewFromInt(int64(ev.AttendedGuests)))),
		Vegetarian:     veg,
	}
}

func Menus(doc core.Document) MenusSummary {
	out := MenusSummary{Events: make([]MenuSummary, 0, len(doc.Menus))}
	exp, act := decimal.Zero, decimal.Zero
	var expGuests, attGuests int64
	for _, ev := range doc.Menus {
		s := Menu(ev)
		out.Events = append(out.Events, s)
		exp = exp.Add(d(s.ExpectedTotal))
		act = act.Add(d(s.ActualTotal))
		expGuests += int64(ev.ExpectedGuests)
		attGuests += int64(ev.AttendedGuests)
	}
	out.ExpectedTotal = f(exp)
	out.ActualTotal = f(act)
	out.Attendance = f(percent(decimal.NewFromInt(attGuests), decimal.NewFromInt(expGuests)))
	return out
}
