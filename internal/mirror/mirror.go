// Package mirror defines the secondary copies the worker keeps in step with
// the primary store. Mirrors are best-effort: their failures are recorded
// and retried, never surfaced to the user editing the document.
package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/aggregate"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// Snapshot is one stored revision of the document.
type Snapshot struct {
	Revision uint64
	Raw      []byte
	Document core.Document
	Budget   aggregate.BudgetReport
	TakenAt  time.Time
}

// NewSnapshot decodes raw and precomputes the budget report every mirror
// publishes.
func NewSnapshot(rev uint64, raw []byte, now time.Time) (Snapshot, error) {
	doc, err := core.Decode(raw)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode revision %d: %w", rev, err)
	}
	return Snapshot{
		Revision: rev,
		Raw:      raw,
		Document: doc,
		Budget:   aggregate.Budget(doc),
		TakenAt:  now.UTC(),
	}, nil
}

// Mirror receives every snapshot. Push must be idempotent for a revision and
// must ignore a revision older than the one it already holds.
type Mirror interface {
	Name() string
	Push(ctx context.Context, snap Snapshot) error
}
