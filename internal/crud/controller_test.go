package crud

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

type note struct {
	level slog.Level
	msg   string
}

type recorder struct{ notes []note }

func (r *recorder) Notify(level slog.Level, msg string) {
	r.notes = append(r.notes, note{level, msg})
}

// fakeCollection plays the owning collection plus the mutation gateway.
type fakeCollection[T any] struct {
	items []T
	saves int
	err   error
}

func (f *fakeCollection[T]) source() []T { return f.items }

func (f *fakeCollection[T]) sink(_ context.Context, items []T) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.items = items
	return nil
}

func newGuests(t *testing.T, opts ...Option[core.Guest]) (*Controller[core.Guest], *fakeCollection[core.Guest], *recorder) {
	t.Helper()
	coll := &fakeCollection[core.Guest]{items: []core.Guest{
		{ID: "g1", Name: "Meera"},
		{ID: "g2", Name: "Kapoor family", IsFamily: true, FamilyMembers: []core.FamilyMember{{ID: "m1", Name: "Anil"}, {ID: "m2", Name: "Sunita"}}},
		{ID: "g3", Name: "Dev"},
	}}
	rec := &recorder{}
	n := 0
	base := []Option[core.Guest]{
		WithNotifier[core.Guest](rec),
		WithValidator[core.Guest](NewValidator()),
		WithIDFunc[core.Guest](func() string { n++; return "new-" + string(rune('0'+n)) }),
	}
	c := New("guests", coll.source, coll.sink, append(base, opts...)...)
	return c, coll, rec
}

func TestAddAssignsFreshID(t *testing.T) {
	c, _, _ := newGuests(t)
	tmpl := core.Guest{Name: "template"}

	got := c.Add(tmpl)

	assert.Equal(t, "new-1", got.ID)
	assert.Empty(t, tmpl.ID, "template must not change")
	state, pending := c.State()
	assert.Equal(t, Adding, state)
	assert.Equal(t, got, pending)
}

func TestReopenReplacesPending(t *testing.T) {
	c, coll, _ := newGuests(t)
	c.Add(core.Guest{Name: "first"})
	c.Edit(coll.items[0])

	state, pending := c.State()
	assert.Equal(t, Editing, state)
	assert.Equal(t, "g1", pending.ID)

	c.Cancel()
	state, _ = c.State()
	assert.Equal(t, Closed, state)
}

func TestSaveNewRecordAppendsExactlyOne(t *testing.T) {
	c, coll, _ := newGuests(t)
	before := append([]core.Guest(nil), coll.items...)

	g := c.Add(core.Guest{})
	g.Name = "Nisha"
	require.NoError(t, c.Save(context.Background(), g))

	require.Len(t, coll.items, len(before)+1)
	assert.Equal(t, before, coll.items[:len(before)])
	assert.Equal(t, g, coll.items[len(before)])
	state, _ := c.State()
	assert.Equal(t, Closed, state)
}

func TestSaveExistingRecordReplacesInPlace(t *testing.T) {
	c, coll, _ := newGuests(t)
	before := append([]core.Guest(nil), coll.items...)

	edited := coll.items[1]
	edited.Name = "Kapoor clan"
	c.Edit(edited)
	require.NoError(t, c.Save(context.Background(), edited))

	require.Len(t, coll.items, len(before))
	assert.Equal(t, "Kapoor clan", coll.items[1].Name)
	assert.Equal(t, before[0], coll.items[0])
	assert.Equal(t, before[2], coll.items[2])
}

func TestSaveValidationFailureKeepsControllerOpen(t *testing.T) {
	c, coll, rec := newGuests(t)
	g := c.Add(core.Guest{Email: "not-an-email"})

	err := c.Save(context.Background(), g)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "email")

	assert.Zero(t, coll.saves, "invalid records never reach the gateway")
	state, pending := c.State()
	assert.Equal(t, Adding, state)
	assert.Equal(t, g, pending)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, slog.LevelWarn, rec.notes[0].level)
}

func TestSaveGatewayFailureKeepsEdits(t *testing.T) {
	c, coll, rec := newGuests(t)
	coll.err = errors.New("quota exceeded")

	edited := coll.items[0]
	edited.Name = "Meera K"
	c.Edit(coll.items[0])
	err := c.Save(context.Background(), edited)

	require.Error(t, err)
	assert.ErrorIs(t, err, coll.err)
	state, pending := c.State()
	assert.Equal(t, Editing, state)
	assert.Equal(t, "Meera K", pending.Name)
	assert.Equal(t, "Meera", coll.items[0].Name)
	require.Len(t, rec.notes, 1)
	assert.Equal(t, slog.LevelError, rec.notes[0].level)
	assert.NotContains(t, rec.notes[0].msg, "quota", "users get a generic message")
}

func TestSaveWhenClosed(t *testing.T) {
	c, _, _ := newGuests(t)
	err := c.Save(context.Background(), core.Guest{Name: "x"})
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestDeleteFamilyGuestRemovesWholeRecord(t *testing.T) {
	c, coll, _ := newGuests(t)

	ok, err := c.Delete(context.Background(), "g2")

	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, coll.items, 2)
	assert.Equal(t, []string{"g1", "g3"}, []string{coll.items[0].ID, coll.items[1].ID})
}

func TestDeleteDeclined(t *testing.T) {
	var prompt string
	c, coll, _ := newGuests(t, WithConfirmer[core.Guest](ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	})))

	ok, err := c.Delete(context.Background(), "g1")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, coll.items, 3)
	assert.Zero(t, coll.saves)
	assert.Contains(t, prompt, "guests")
}

func TestDeleteUnknownID(t *testing.T) {
	c, _, _ := newGuests(t)
	_, err := c.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBudgetCategoryRequiresSlug(t *testing.T) {
	coll := &fakeCollection[core.BudgetCategory]{items: []core.BudgetCategory{{Category: "venue", Subcategories: []string{}}}}
	c := New("budget", coll.source, coll.sink,
		WithValidator[core.BudgetCategory](NewValidator()),
		WithNotifier[core.BudgetCategory](&recorder{}),
	)

	c.Edit(coll.items[0])
	err := c.Save(context.Background(), core.BudgetCategory{Category: "Bridal Makeup", Planned: 10})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "category")

	cat := core.BudgetCategory{Planned: 10}.WithID("Bridal Makeup")
	require.NoError(t, c.Save(context.Background(), cat))
	assert.Len(t, coll.items, 2)
	assert.Equal(t, "bridal-makeup", coll.items[1].Category)
}

func TestListAndFind(t *testing.T) {
	c, _, _ := newGuests(t)
	assert.Len(t, c.List(), 3)

	g, ok := c.Find("g2")
	require.True(t, ok)
	assert.Equal(t, "Kapoor family", g.Name)

	_, ok = c.Find("nope")
	assert.False(t, ok)
}
