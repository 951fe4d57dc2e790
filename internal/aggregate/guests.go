package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// Attendee is one person expected at the wedding.
type Attendee struct {
	GuestID        string    `json:"guestId"`
	Name           string    `json:"name"`
	Side           string    `json:"side,omitempty"`
	RSVP           core.RSVP `json:"rsvp"`
	Dietary        string    `json:"dietary,omitempty"`
	PickupRequired bool      `json:"pickupRequired"`
	Accommodation  bool      `json:"accommodation"`
}

// Expand turns a guest record into attendees: the guest, each family member
// with their own details, or the guest and a plus-one who shares the
// guest's RSVP and logistics. Members without an RSVP follow the head of
// the family; anyone still without one is pending.
func Expand(g core.Guest) []Attendee {
	head := Attendee{
		GuestID:        g.ID,
		Name:           g.Name,
		Side:           g.Side,
		RSVP:           rsvpOrPending(g.RSVP),
		Dietary:        g.Dietary,
		PickupRequired: g.PickupRequired,
		Accommodation:  g.Accommodation,
	}
	out := []Attendee{head}
	if g.IsFamily {
		for _, m := range g.FamilyMembers {
			r := m.RSVP
			if r == "" {
				r = head.RSVP
			}
			out = append(out, Attendee{
				GuestID:        g.ID,
				Name:           m.Name,
				Side:           g.Side,
				RSVP:           r,
				Dietary:        m.Dietary,
				PickupRequired: m.PickupRequired,
				Accommodation:  m.Accommodation,
			})
		}
		return out
	}
	if g.PlusOne {
		plus := head
		plus.Name = g.Name + " +1"
		plus.Dietary = ""
		out = append(out, plus)
	}
	return out
}

func rsvpOrPending(r core.RSVP) core.RSVP {
	if r == "" {
		return core.RSVPPending
	}
	return r
}

type GuestSummary struct {
	Records        int               `json:"records"`
	Families       int               `json:"families"`
	Headcount      int               `json:"headcount"`
	BySide         map[string]int    `json:"bySide"`
	RSVP           map[core.RSVP]int `json:"rsvp"`
	Dietary        map[string]int    `json:"dietary"`
	PickupRequired int               `json:"pickupRequired"`
	Accommodation  int               `json:"accommodation"`
	ConfirmedRate  float64           `json:"confirmedRate"`
}

// Guests counts people, not records: every figure below Records is over the
// expanded attendee list. Dietary keys are lower-cased.
func Guests(doc core.Document) GuestSummary {
	out := GuestSummary{
		BySide:  map[string]int{},
		RSVP:    map[core.RSVP]int{},
		Dietary: map[string]int{},
	}
	for _, g := range doc.Guests {
		out.Records++
		if g.IsFamily {
			out.Families++
		}
		for _, a := range Expand(g) {
			out.Headcount++
			side := a.Side
			if side == "" {
				side = "unassigned"
			}
			out.BySide[side]++
			out.RSVP[a.RSVP]++
			if diet := strings.ToLower(strings.TrimSpace(a.Dietary)); diet != "" {
				out.Dietary[diet]++
			}
			if a.PickupRequired {
				out.PickupRequired++
			}
			if a.Accommodation {
				out.Accommodation++
			}
		}
	}
	out.ConfirmedRate = f(percent(
		decimal.NewFromInt(int64(out.RSVP[core.RSVPConfirmed])),
		decimal.NewFromInt(int64(out.Headcount)),
	))
	return out
}
