package aggregate

import (
	"sort"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// ScheduledDay is a timeline day placed on the calendar. Date is empty when
// the wedding date is unset or unparseable.
type ScheduledDay struct {
	ID        string               `json:"id"`
	DayOffset int                  `json:"dayOffset"`
	Date      string               `json:"date,omitempty"`
	Label     string               `json:"label,omitempty"`
	Events    []core.TimelineEvent `json:"events"`
}

// Timeline orders days by offset and events by start time. Events without a
// start time keep their position after the timed ones.
func Timeline(doc core.Document) []ScheduledDay {
	var wedding time.Time
	hasDate := false
	if doc.WeddingInfo != nil && doc.WeddingInfo.Date != "" {
		if t, err := time.Parse(time.DateOnly, doc.WeddingInfo.Date); err == nil {
			wedding, hasDate = t, true
		}
	}

	out := make([]ScheduledDay, 0, len(doc.Timeline))
	for _, day := range doc.Timeline {
		events := make([]core.TimelineEvent, len(day.Events))
		copy(events, day.Events)
		sort.SliceStable(events, func(i, j int) bool {
			a, b := events[i].StartTime, events[j].StartTime
			if a == "" || b == "" {
				return a != "" && b == ""
			}
			return a < b
		})
		sd := ScheduledDay{ID: day.ID, DayOffset: day.DayOffset, Label: day.Label, Events: events}
		if hasDate {
			sd.Date = wedding.AddDate(0, 0, day.DayOffset).Format(time.DateOnly)
		}
		out = append(out, sd)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOffset < out[j].DayOffset })
	return out
}
