// Package planner owns the persisted planning document: the gateway that
// loads and saves it through a Store, and the Planner that applies key
// updates, exposes CRUD controllers and memoizes derived views.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

var ErrStorageFailure = errors.New("storage failure")

// Store persists the encoded document. Load returns nil, nil when nothing
// has been saved yet. Save returns the revision it stored.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) (uint64, error)
}

// SavedEvent describes a successful primary write.
type SavedEvent struct {
	Revision uint64    `json:"revision"`
	Size     int       `json:"size"`
	SavedAt  time.Time `json:"saved_at"`
}

// Notifier is told about every successful save so secondary copies can be
// refreshed. Its failures never fail the save.
type Notifier interface {
	DocumentSaved(ctx context.Context, ev SavedEvent) error
}

// Gateway is the persistence boundary for the document.
type Gateway struct {
	store    Store
	notifier Notifier
	logger   *applog.Logger
	sl       *applog.StructuredLogger
	now      func() time.Time
}

type GatewayOption func(*Gateway)

func WithNotifier(n Notifier) GatewayOption {
	return func(g *Gateway) { g.notifier = n }
}

func WithLogger(l *applog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = l }
}

func NewGateway(store Store, opts ...GatewayOption) *Gateway {
	g := &Gateway{store: store, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	if g.logger == nil {
		g.logger = applog.FromContext(context.Background())
	}
	g.logger = g.logger.WithComponent(applog.ComponentPlanner)
	g.sl = applog.NewStructuredLogger(g.logger)
	return g
}

// Load returns the persisted document merged over the defaults. Nothing
// saved, or a saved document that does not decode, yields the default
// document; only a failing store is an error.
func (g *Gateway) Load(ctx context.Context) (core.Document, error) {
	raw, err := g.store.Load(ctx)
	if err != nil {
		return core.DefaultDocument(), fmt.Errorf("%w: load document: %v", ErrStorageFailure, err)
	}
	if raw == nil {
		g.logger.InfoContext(ctx, "No saved document, starting from defaults")
		return core.DefaultDocument(), nil
	}
	doc, err := core.Decode(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "Saved document unusable, starting from defaults",
			applog.FieldError, err.Error(), applog.FieldBytes, len(raw))
		return core.DefaultDocument(), nil
	}
	return doc, nil
}

// Save validates and persists doc, then notifies the mirror. The store's
// error is returned wrapped in ErrStorageFailure.
func (g *Gateway) Save(ctx context.Context, doc core.Document) (uint64, error) {
	raw, err := core.Encode(doc)
	if err != nil {
		return 0, err
	}
	rev, err := g.store.Save(ctx, raw)
	if err != nil {
		g.sl.LogError(ctx, "Failed to save document", err, applog.OpSave, nil)
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	g.sl.LogDocumentSaved(ctx, "", rev, len(raw))

	if g.notifier != nil {
		ev := SavedEvent{Revision: rev, Size: len(raw), SavedAt: g.now().UTC()}
		if err := g.notifier.DocumentSaved(ctx, ev); err != nil {
			g.logger.WarnContext(ctx, "Mirror notification failed",
				applog.FieldError, err.Error(), applog.FieldRevision, rev)
		}
	}
	return rev, nil
}
