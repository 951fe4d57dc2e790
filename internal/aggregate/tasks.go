package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

type TaskSummary struct {
	Total          int                   `json:"total"`
	Done           int                   `json:"done"`
	Pending        int                   `json:"pending"`
	Overdue        int                   `json:"overdue"`
	ByPriority     map[core.Priority]int `json:"pendingByPriority"`
	CompletionRate float64               `json:"completionRate"`
}

// Tasks counts tasks by state. ByPriority and Overdue only consider pending
// tasks; a task is overdue when its due date is before today's date.
func Tasks(doc core.Document, today time.Time) TaskSummary {
	out := TaskSummary{ByPriority: map[core.Priority]int{}}
	day := today.Format(time.DateOnly)
	for _, t := range doc.Tasks {
		out.Total++
		if t.Status == core.TaskDone {
			out.Done++
			continue
		}
		out.Pending++
		p := t.Priority
		if p == "" {
			p = core.PriorityMedium
		}
		out.ByPriority[p]++
		if t.DueDate != "" && t.DueDate < day {
			out.Overdue++
		}
	}
	out.CompletionRate = f(percent(decimal.NewFromInt(int64(out.Done)), decimal.NewFromInt(int64(out.Total))))
	return out
}
