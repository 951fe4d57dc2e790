package planner

import (
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/aggregate"
	"github.com/xRahul/wedding-planner-app-sub001/internal/cache"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// view memoizes fn for the current revision.
func view[T any](p *Planner, name string, fn func(core.Document) T) T {
	doc, rev := p.snapshot()
	v := cache.Memo(p.views, cache.RevisionKey(name, rev), func() any { return fn(doc) })
	return v.(T)
}

func (p *Planner) BudgetReport() aggregate.BudgetReport {
	return view(p, "budget", aggregate.Budget)
}

func (p *Planner) GiftSummary() aggregate.GiftSummary {
	return view(p, "gifts", aggregate.Gifts)
}

func (p *Planner) ShoppingSummary() aggregate.ShoppingSummary {
	return view(p, "shopping", aggregate.Shopping)
}

func (p *Planner) MenusSummary() aggregate.MenusSummary {
	return view(p, "menus", aggregate.Menus)
}

func (p *Planner) VendorSummary() aggregate.VendorSummary {
	return view(p, "vendors", aggregate.Vendors)
}

func (p *Planner) GuestSummary() aggregate.GuestSummary {
	return view(p, "guests", aggregate.Guests)
}

func (p *Planner) TaskSummary() aggregate.TaskSummary {
	today := p.now()
	return view(p, "tasks:"+today.Format(time.DateOnly), func(d core.Document) aggregate.TaskSummary {
		return aggregate.Tasks(d, today)
	})
}

// Schedule places the timeline days on the calendar.
func (p *Planner) Schedule() []aggregate.ScheduledDay {
	return view(p, "timeline", aggregate.Timeline)
}
