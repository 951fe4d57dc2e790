package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
	"github.com/xRahul/wedding-planner-app-sub001/internal/crud"
)

// Every accessor below returns a new closed controller. Controllers share the
// planner's transaction lock, validator, confirmer and notifier.

func controller[T crud.Record[T]](p *Planner, name string, source crud.Source[T], sink crud.Sink[T]) *crud.Controller[T] {
	return crud.New(name, source, sink,
		crud.WithValidator[T](p.validator),
		crud.WithConfirmer[T](p.confirmer),
		crud.WithNotifier[T](p.notifier),
		crud.WithLocker[T](&p.tx),
	)
}

// topLevel binds a controller to a list-valued document key.
func topLevel[T crud.Record[T]](p *Planner, key core.Key, get func(core.Document) []T) *crud.Controller[T] {
	return controller[T](p, string(key),
		func() []T { return get(p.Document()) },
		func(ctx context.Context, items []T) error {
			_, err := p.UpdateKey(ctx, key, items)
			return err
		})
}

// Guests rejects a guest whose family repeats a member id. Repeated guest
// ids cannot come from this controller but are checked all the same.
func (p *Planner) Guests() *crud.Controller[core.Guest] {
	return controller[core.Guest](p, string(core.KeyGuests),
		func() []core.Guest { return p.Document().Guests },
		func(ctx context.Context, guests []core.Guest) error {
			if err := guestsError(guests); err != nil {
				return err
			}
			_, err := p.UpdateKey(ctx, core.KeyGuests, guests)
			return err
		})
}

func (p *Planner) Vendors() *crud.Controller[core.Vendor] {
	return topLevel(p, core.KeyVendors, func(d core.Document) []core.Vendor { return d.Vendors })
}

// Budget categories are keyed by slug. Saving a category under a new slug
// adds a category; items linked to the old one stay linked to the old value.
func (p *Planner) Budget() *crud.Controller[core.BudgetCategory] {
	return topLevel(p, core.KeyBudget, func(d core.Document) []core.BudgetCategory { return d.Budget })
}

func (p *Planner) Tasks() *crud.Controller[core.Task] {
	return topLevel(p, core.KeyTasks, func(d core.Document) []core.Task { return d.Tasks })
}

func (p *Planner) Menus() *crud.Controller[core.MenuEvent] {
	return topLevel(p, core.KeyMenus, func(d core.Document) []core.MenuEvent { return d.Menus })
}

func (p *Planner) Rituals() *crud.Controller[core.Ritual] {
	return topLevel(p, core.KeyRitualsAndCustoms, func(d core.Document) []core.Ritual { return d.RitualsAndCustoms })
}

func (p *Planner) Traditions() *crud.Controller[core.Tradition] {
	return topLevel(p, core.KeyTraditions, func(d core.Document) []core.Tradition { return d.Traditions })
}

// Timeline rejects a day whose offset is already taken.
func (p *Planner) Timeline() *crud.Controller[core.TimelineDay] {
	return controller[core.TimelineDay](p, string(core.KeyTimeline),
		func() []core.TimelineDay { return p.Document().Timeline },
		func(ctx context.Context, days []core.TimelineDay) error {
			if err := core.ValidateTimeline(days); err != nil {
				return &crud.ValidationError{Fields: map[string]string{"dayOffset": err.Error()}}
			}
			_, err := p.UpdateKey(ctx, core.KeyTimeline, days)
			return err
		})
}

func (p *Planner) Transport() *crud.Controller[core.Transport] {
	return controller[core.Transport](p, "transport",
		func() []core.Transport { return p.Document().Travel.Transport },
		func(ctx context.Context, items []core.Transport) error {
			travel := *p.Document().Travel
			travel.Transport = items
			_, err := p.UpdateKey(ctx, core.KeyTravel, travel)
			return err
		})
}

// GiftLists names the three gift sequences.
var GiftLists = []string{"familyGifts", "returnGifts", "specialGifts"}

func giftList(gf *core.GiftsAndFavors, list string) (*[]core.Gift, error) {
	switch list {
	case "familyGifts", "family":
		return &gf.FamilyGifts, nil
	case "returnGifts", "return":
		return &gf.ReturnGifts, nil
	case "specialGifts", "special":
		return &gf.SpecialGifts, nil
	default:
		return nil, fmt.Errorf("gift list %q, want one of %s: %w", list, strings.Join(GiftLists, ", "), crud.ErrNotFound)
	}
}

// Gifts manages one of the gift lists.
func (p *Planner) Gifts(list string) (*crud.Controller[core.Gift], error) {
	if _, err := giftList(&core.GiftsAndFavors{}, list); err != nil {
		return nil, err
	}
	return controller[core.Gift](p, list,
		func() []core.Gift {
			gf := *p.Document().GiftsAndFavors
			l, _ := giftList(&gf, list)
			return *l
		},
		func(ctx context.Context, items []core.Gift) error {
			gf := *p.Document().GiftsAndFavors
			l, _ := giftList(&gf, list)
			*l = items
			_, err := p.UpdateKey(ctx, core.KeyGiftsAndFavors, gf)
			return err
		}), nil
}

// nested binds a controller to a child sequence of the parent with parentID
// inside a top-level list. The parent is looked up by id on every access,
// so renaming it does not break the binding.
func nested[P crud.Record[P], C crud.Record[C]](
	p *Planner, name string, key core.Key, parentID string,
	parents func(core.Document) []P,
	children func(P) []C,
	setChildren func(P, []C) P,
	put func(core.Document, []P) any,
) (*crud.Controller[C], error) {
	if crud.IndexOf(parents(p.Document()), parentID) < 0 {
		return nil, fmt.Errorf("%s parent %q: %w", name, parentID, crud.ErrNotFound)
	}
	return controller[C](p, name,
		func() []C {
			ps := parents(p.Document())
			if i := crud.IndexOf(ps, parentID); i >= 0 {
				return children(ps[i])
			}
			return nil
		},
		func(ctx context.Context, items []C) error {
			doc := p.Document()
			ps := parents(doc)
			i := crud.IndexOf(ps, parentID)
			if i < 0 {
				return fmt.Errorf("%s parent %q: %w", name, parentID, crud.ErrNotFound)
			}
			updated, _ := crud.Upsert(ps, setChildren(ps[i], items))
			_, err := p.UpdateKey(ctx, key, put(doc, updated))
			return err
		}), nil
}

func (p *Planner) MenuItems(eventID string) (*crud.Controller[core.MenuItem], error) {
	return nested(p, "menu items", core.KeyMenus, eventID,
		func(d core.Document) []core.MenuEvent { return d.Menus },
		func(e core.MenuEvent) []core.MenuItem { return e.Items },
		func(e core.MenuEvent, items []core.MenuItem) core.MenuEvent { e.Items = items; return e },
		func(_ core.Document, events []core.MenuEvent) any { return events })
}

// FamilyMembers manages the members of one guest; saving a member marks the
// guest as a family. Member ids are checked by UpdateKey.
func (p *Planner) FamilyMembers(guestID string) (*crud.Controller[core.FamilyMember], error) {
	return nested(p, "family members", core.KeyGuests, guestID,
		func(d core.Document) []core.Guest { return d.Guests },
		func(g core.Guest) []core.FamilyMember { return g.FamilyMembers },
		func(g core.Guest, members []core.FamilyMember) core.Guest {
			g.FamilyMembers = members
			g.IsFamily = g.IsFamily || len(members) > 0
			return g
		},
		func(_ core.Document, guests []core.Guest) any { return guests })
}

func (p *Planner) TimelineEvents(dayID string) (*crud.Controller[core.TimelineEvent], error) {
	return nested(p, "timeline events", core.KeyTimeline, dayID,
		func(d core.Document) []core.TimelineDay { return d.Timeline },
		func(day core.TimelineDay) []core.TimelineEvent { return day.Events },
		func(day core.TimelineDay, events []core.TimelineEvent) core.TimelineDay { day.Events = events; return day },
		func(_ core.Document, days []core.TimelineDay) any { return days })
}

func (p *Planner) VendorAvailability(vendorID string) (*crud.Controller[core.AvailabilitySlot], error) {
	return nested(p, "availability", core.KeyVendors, vendorID,
		func(d core.Document) []core.Vendor { return d.Vendors },
		func(v core.Vendor) []core.AvailabilitySlot { return v.Availability },
		func(v core.Vendor, slots []core.AvailabilitySlot) core.Vendor { v.Availability = slots; return v },
		func(_ core.Document, vendors []core.Vendor) any { return vendors })
}

// ShoppingSides names the three shopping sequences.
var ShoppingSides = []string{"bride", "groom", "family"}

func shoppingSide(sh *core.Shopping, side string) (*[]core.ShoppingEvent, error) {
	switch side {
	case "bride":
		return &sh.Bride, nil
	case "groom":
		return &sh.Groom, nil
	case "family":
		return &sh.Family, nil
	default:
		return nil, fmt.Errorf("shopping side %q, want one of %s: %w", side, strings.Join(ShoppingSides, ", "), crud.ErrNotFound)
	}
}

// ShoppingEvents manages the event groupings of one side.
func (p *Planner) ShoppingEvents(side string) (*crud.Controller[core.ShoppingEvent], error) {
	if _, err := shoppingSide(&core.Shopping{}, side); err != nil {
		return nil, err
	}
	return controller[core.ShoppingEvent](p, side+" shopping",
		func() []core.ShoppingEvent {
			sh := *p.Document().Shopping
			l, _ := shoppingSide(&sh, side)
			return *l
		},
		func(ctx context.Context, events []core.ShoppingEvent) error {
			return p.putShopping(ctx, side, events)
		}), nil
}

func (p *Planner) putShopping(ctx context.Context, side string, events []core.ShoppingEvent) error {
	sh := *p.Document().Shopping
	l, err := shoppingSide(&sh, side)
	if err != nil {
		return err
	}
	*l = events
	_, err = p.UpdateKey(ctx, core.KeyShopping, sh)
	return err
}

// ShoppingItems manages the items of one side's event, found by event id.
func (p *Planner) ShoppingItems(side, eventID string) (*crud.Controller[core.ShoppingItem], error) {
	events := func(d core.Document) []core.ShoppingEvent {
		sh := *d.Shopping
		l, _ := shoppingSide(&sh, side)
		return *l
	}
	if _, err := shoppingSide(&core.Shopping{}, side); err != nil {
		return nil, err
	}
	return nested(p, side+" shopping items", core.KeyShopping, eventID,
		events,
		func(e core.ShoppingEvent) []core.ShoppingItem { return e.Items },
		func(e core.ShoppingEvent, items []core.ShoppingItem) core.ShoppingEvent { e.Items = items; return e },
		func(d core.Document, updated []core.ShoppingEvent) any {
			sh := *d.Shopping
			l, _ := shoppingSide(&sh, side)
			*l = updated
			return sh
		})
}
