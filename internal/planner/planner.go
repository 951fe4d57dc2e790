package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xRahul/wedding-planner-app-sub001/internal/cache"
	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

// Planner holds the current document for a single writer. Mutations are
// serialized; a failed save leaves the in-memory document unchanged.
type Planner struct {
	gw     *Gateway
	logger *applog.Logger

	mu       sync.RWMutex
	doc      core.Document
	revision uint64

	// tx is shared by every controller handed out, so read-modify-write
	// cycles on overlapping collections do not interleave.
	tx sync.Mutex

	views     cache.Cache[any]
	validator crud.Validator
	confirmer crud.Confirmer
	notifier  crud.Notifier
	now       func() time.Time
}

type Option func(*Planner)

// WithConfirmer sets the prompt used by delete operations.
func WithConfirmer(c crud.Confirmer) Option {
	return func(p *Planner) { p.confirmer = c }
}

// WithUserNotifier sets where controllers report validation errors and
// failures.
func WithUserNotifier(n crud.Notifier) Option {
	return func(p *Planner) { p.notifier = n }
}

func WithViewCache(c cache.Cache[any]) Option {
	return func(p *Planner) { p.views = c }
}

func WithPlannerLogger(l *applog.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// New returns a planner holding the default document; call Open to load
// the persisted one.
func New(gw *Gateway, opts ...Option) *Planner {
	p := &Planner{
		gw:        gw,
		doc:       core.DefaultDocument(),
		views:     cache.NewLRUCache[any](64, 0),
		validator: crud.NewValidator(),
		confirmer: crud.AlwaysConfirm,
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if p.logger == nil {
		p.logger = applog.FromContext(context.Background())
	}
	p.logger = p.logger.WithComponent(applog.ComponentPlanner)
	if p.notifier == nil {
		p.notifier = crud.LogNotifier{Logger: p.logger.WithComponent(applog.ComponentCRUD)}
	}
	return p
}

// Open loads the persisted document.
func (p *Planner) Open(ctx context.Context) error {
	doc, err := p.gw.Load(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc
	p.revision++
	p.views.Purge()
	return nil
}

// Reload discards the in-memory document and loads it again.
func (p *Planner) Reload(ctx context.Context) error { return p.Open(ctx) }

// Document returns the current document. Callers must treat it as read-only.
func (p *Planner) Document() core.Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc
}

// Revision counts document changes seen by this planner.
func (p *Planner) Revision() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revision
}

func (p *Planner) snapshot() (core.Document, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc, p.revision
}

// UpdateKey replaces one top-level key and persists the whole document.
func (p *Planner) UpdateKey(ctx context.Context, key core.Key, value any) (core.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := core.UpdateKey(p.doc, key, value)
	if err != nil {
		return p.doc, err
	}
	next = next.Normalize()
	if key == core.KeyGuests {
		if err := guestsError(next.Guests); err != nil {
			return p.doc, err
		}
	}
	return p.commit(ctx, next, string(key))
}

// Replace persists doc as the whole document, as an import does.
func (p *Planner) Replace(ctx context.Context, doc core.Document) (core.Document, error) {
	if err := doc.Validate(); err != nil {
		return p.Document(), err
	}
	doc = doc.Normalize()
	if err := guestsError(doc.Guests); err != nil {
		return p.Document(), err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.commit(ctx, doc, "")
}

// guestsError reports repeated guest or member ids as a field error.
func guestsError(guests []core.Guest) error {
	if err := core.ValidateGuests(guests); err != nil {
		return &crud.ValidationError{Fields: map[string]string{"id": err.Error()}}
	}
	return nil
}

// Reset replaces the document with the defaults.
func (p *Planner) Reset(ctx context.Context) (core.Document, error) {
	return p.Replace(ctx, core.DefaultDocument())
}

// commit must be called with p.mu held.
func (p *Planner) commit(ctx context.Context, next core.Document, key string) (core.Document, error) {
	if _, err := p.gw.Save(ctx, next); err != nil {
		return p.doc, fmt.Errorf("update %s: %w", keyOrDocument(key), err)
	}
	p.doc = next
	p.revision++
	p.logger.DebugContext(ctx, "Document updated",
		applog.NewFields().WithDocument(key, p.revision).WithOperation(applog.OpUpdate).ToSlice()...)
	return next, nil
}

func keyOrDocument(key string) string {
	if key == "" {
		return "document"
	}
	return key
}
