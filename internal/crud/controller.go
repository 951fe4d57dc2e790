// Package crud implements the add/edit/delete/validate cycle shared by every
// list-backed collection of the planning document.
package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	applog "github.com/xRahul/wedding-planner-app-sub001/internal/log"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("record not found")
	ErrNotOpen    = errors.New("controller is not open")
)

// Record is a list element addressable by id.
type Record[T any] interface {
	GetID() string
	WithID(id string) T
}

// State of a controller.
type State int

const (
	Closed State = iota
	Adding
	Editing
)

func (s State) String() string {
	switch s {
	case Adding:
		return "adding"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// ValidationError carries one message per offending field, keyed by the
// field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm is used where the caller's request already is the
// confirmation (an HTTP DELETE, a CLI --yes flag).
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// Notifier reports validation errors and failures to the user.
type Notifier interface {
	Notify(level slog.Level, msg string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	Logger *applog.Logger
}

func (n LogNotifier) Notify(level slog.Level, msg string) {
	n.Logger.Log(context.Background(), level, msg)
}

// Validator checks a record before it is saved.
type Validator interface {
	Validate(v any) error
}

// Source returns the owning collection's current contents.
type Source[T any] func() []T

// Sink persists the owning collection's new contents through the mutation
// gateway.
type Sink[T any] func(ctx context.Context, items []T) error

// Option configures a Controller.
type Option[T Record[T]] func(*Controller[T])

func WithValidator[T Record[T]](v Validator) Option[T] {
	return func(c *Controller[T]) { c.validator = v }
}

func WithConfirmer[T Record[T]](cf Confirmer) Option[T] {
	return func(c *Controller[T]) { c.confirmer = cf }
}

func WithNotifier[T Record[T]](n Notifier) Option[T] {
	return func(c *Controller[T]) { c.notifier = n }
}

// WithLocker serializes the read-modify-write of Save and Delete with every
// other controller sharing l, for controllers whose collections live under
// the same document.
func WithLocker[T Record[T]](l sync.Locker) Option[T] {
	return func(c *Controller[T]) { c.tx = l }
}

// WithIDFunc replaces uuid generation, mostly for tests.
func WithIDFunc[T Record[T]](fn func() string) Option[T] {
	return func(c *Controller[T]) { c.newID = fn }
}

// Controller is a single-flight add/edit state machine over one collection.
// Reopening while open replaces the pending record.
type Controller[T Record[T]] struct {
	name      string
	source    Source[T]
	sink      Sink[T]
	validator Validator
	confirmer Confirmer
	notifier  Notifier
	newID     func() string
	tx        sync.Locker

	mu      sync.Mutex
	state   State
	pending T
}

// New returns a closed controller for the collection called name.
func New[T Record[T]](name string, source Source[T], sink Sink[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		name:      name,
		source:    source,
		sink:      sink,
		confirmer: AlwaysConfirm,
		notifier:  LogNotifier{Logger: applog.FromContext(context.Background()).WithComponent(applog.ComponentCRUD)},
		newID:     uuid.NewString,
		tx:        &sync.Mutex{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Name of the owning collection.
func (c *Controller[T]) Name() string { return c.name }

// List returns the collection's current records.
func (c *Controller[T]) List() []T { return c.source() }

// Find returns the record with id.
func (c *Controller[T]) Find(id string) (T, bool) {
	items := c.source()
	if i := IndexOf(items, id); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// State returns the current state and the pending record.
func (c *Controller[T]) State() (State, T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.pending
}

// Add opens the controller with a copy of template carrying a fresh id.
func (c *Controller[T]) Add(template T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = template.WithID(c.newID())
	c.state = Adding
	return c.pending
}

// Edit opens the controller on a copy of record.
func (c *Controller[T]) Edit(record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = record
	c.state = Editing
}

// Cancel discards the pending record.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
}

func (c *Controller[T]) close() {
	var zero T
	c.pending = zero
	c.state = Closed
}

// Save validates record, upserts it into the collection and hands the result
// to the sink. On any failure the controller stays open with record pending.
func (c *Controller[T]) Save(ctx context.Context, record T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return ErrNotOpen
	}
	c.pending = record

	if c.validator != nil {
		if err := c.validator.Validate(record); err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				ve = &ValidationError{Fields: map[string]string{"": err.Error()}}
			}
			c.notifier.Notify(slog.LevelWarn, ve.Error())
			return ve
		}
	}
	if record.GetID() == "" {
		record = record.WithID(c.newID())
		c.pending = record
	}

	c.tx.Lock()
	items, _ := Upsert(c.source(), record)
	err := c.sink(ctx, items)
	c.tx.Unlock()
	if err != nil {
		c.notifier.Notify(slog.LevelError, fmt.Sprintf("Could not save %s, please try again", c.name))
		return fmt.Errorf("save %s %s: %w", c.name, record.GetID(), err)
	}
	c.close()
	return nil
}

// Delete removes the record with id after the confirmer agrees. It reports
// whether the record was removed; a declined prompt is not an error.
func (c *Controller[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if IndexOf(c.source(), id) < 0 {
		return false, fmt.Errorf("%s %q: %w", c.name, id, ErrNotFound)
	}
	if !c.confirmer.Confirm(fmt.Sprintf("Delete this %s entry? This cannot be undone.", c.name)) {
		return false, nil
	}

	c.tx.Lock()
	out, found := Remove(c.source(), id)
	var err error
	if found {
		err = c.sink(ctx, out)
	}
	c.tx.Unlock()
	if !found {
		return false, fmt.Errorf("%s %q: %w", c.name, id, ErrNotFound)
	}
	if err != nil {
		c.notifier.Notify(slog.LevelError, fmt.Sprintf("Could not delete %s, please try again", c.name))
		return false, fmt.Errorf("delete %s %s: %w", c.name, id, err)
	}
	return true, nil
}
