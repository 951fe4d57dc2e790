package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Key names one top-level collection of the planning document.
type Key string

const (
	KeyWeddingInfo       Key = "weddingInfo"
	KeyGuests            Key = "guests"
	KeyVendors           Key = "vendors"
	KeyBudget            Key = "budget"
	KeyTasks             Key = "tasks"
	KeyMenus             Key = "menus"
	KeyGiftsAndFavors    Key = "giftsAndFavors"
	KeyShopping          Key = "shopping"
	KeyTravel            Key = "travel"
	KeyRitualsAndCustoms Key = "ritualsAndCustoms"
	KeyTraditions        Key = "traditions"
	KeyTimeline          Key = "timeline"
)

// RequiredKeys must be present (and non-null) for a document to be loaded or
// saved.
var RequiredKeys = []Key{
	KeyWeddingInfo, KeyTimeline, KeyGuests, KeyVendors,
	KeyBudget, KeyTasks, KeyMenus, KeyTravel,
}

var (
	ErrInvalidDocument = errors.New("invalid document")
	ErrUnknownKey      = errors.New("unknown document key")
	ErrKeyType         = errors.New("value type does not match key")
)

// Document is the whole planning state, persisted as one JSON object. Each
// field is owned and replaced independently through UpdateKey.
type Document struct {
	WeddingInfo       *WeddingInfo     `json:"weddingInfo"`
	Guests            []Guest          `json:"guests"`
	Vendors           []Vendor         `json:"vendors"`
	Budget            []BudgetCategory `json:"budget"`
	Tasks             []Task           `json:"tasks"`
	Menus             []MenuEvent      `json:"menus"`
	GiftsAndFavors    *GiftsAndFavors  `json:"giftsAndFavors"`
	Shopping          *Shopping        `json:"shopping"`
	Travel            *Travel          `json:"travel"`
	RitualsAndCustoms []Ritual         `json:"ritualsAndCustoms"`
	Traditions        []Tradition      `json:"traditions"`
	Timeline          []TimelineDay    `json:"timeline"`
}

// fieldIndex maps each Key to its Document struct field.
var fieldIndex = func() map[Key]int {
	t := reflect.TypeOf(Document{})
	m := make(map[Key]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		m[Key(name)] = i
	}
	return m
}()

// Keys returns every top-level key in declaration order.
func Keys() []Key {
	t := reflect.TypeOf(Document{})
	out := make([]Key, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out = append(out, Key(strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]))
	}
	return out
}

// ParseKey validates a key name coming from outside (URL, CLI).
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if _, ok := fieldIndex[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
	}
	return k, nil
}

// Get returns the current value stored under key.
func (d Document) Get(key Key) (any, error) {
	idx, ok := fieldIndex[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return reflect.ValueOf(d).Field(idx).Interface(), nil
}

// UpdateKey returns a copy of d with key replaced by value. d is never
// modified and every other key keeps the identity of its value. For the
// record-valued keys both T and *T are accepted.
func UpdateKey(d Document, key Key, value any) (Document, error) {
	idx, ok := fieldIndex[key]
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	out := d
	field := reflect.ValueOf(&out).Elem().Field(idx)
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return d, fmt.Errorf("%w: %s got nil", ErrKeyType, key)
	case v.Type() == field.Type():
		field.Set(v)
	case field.Kind() == reflect.Pointer && v.Type() == field.Type().Elem():
		p := reflect.New(v.Type())
		p.Elem().Set(v)
		field.Set(p)
	default:
		return d, fmt.Errorf("%w: %s wants %s, got %T", ErrKeyType, key, field.Type(), value)
	}
	return out, nil
}

// Validate checks that every required key holds a value.
func (d Document) Validate() error {
	rv := reflect.ValueOf(d)
	for _, k := range RequiredKeys {
		if rv.Field(fieldIndex[k]).IsNil() {
			return fmt.Errorf("%w: missing required key %q", ErrInvalidDocument, k)
		}
	}
	return nil
}

// Normalize fills absent collections with empty ones, makes nested
// sequences non-nil and recomputes derived gift totals. It is the single
// place where defaulting happens; the input is left untouched.
func (d Document) Normalize() Document {
	def := DefaultDocument()
	out := d

	if out.WeddingInfo == nil {
		out.WeddingInfo = def.WeddingInfo
	}
	if out.Travel == nil {
		out.Travel = def.Travel
	} else {
		t := *out.Travel
		t.Transport = nonNil(t.Transport)
		out.Travel = &t
	}
	if out.GiftsAndFavors == nil {
		out.GiftsAndFavors = def.GiftsAndFavors
	} else {
		g := GiftsAndFavors{
			FamilyGifts:  normalizeGifts(out.GiftsAndFavors.FamilyGifts),
			ReturnGifts:  normalizeGifts(out.GiftsAndFavors.ReturnGifts),
			SpecialGifts: normalizeGifts(out.GiftsAndFavors.SpecialGifts),
		}
		out.GiftsAndFavors = &g
	}
	if out.Shopping == nil {
		out.Shopping = def.Shopping
	} else {
		s := Shopping{
			Bride:  normalizeShopping(out.Shopping.Bride),
			Groom:  normalizeShopping(out.Shopping.Groom),
			Family: normalizeShopping(out.Shopping.Family),
		}
		out.Shopping = &s
	}

	out.Guests = mapSlice(out.Guests, func(g Guest) Guest {
		g.FamilyMembers = nonNil(g.FamilyMembers)
		return g
	})
	out.Vendors = mapSlice(out.Vendors, func(v Vendor) Vendor {
		v.Availability = nonNil(v.Availability)
		return v
	})
	out.Budget = mapSlice(out.Budget, func(c BudgetCategory) BudgetCategory {
		c.Subcategories = nonNil(c.Subcategories)
		return c
	})
	out.Menus = mapSlice(out.Menus, func(m MenuEvent) MenuEvent {
		m.Items = nonNil(m.Items)
		return m
	})
	out.Timeline = mapSlice(out.Timeline, func(td TimelineDay) TimelineDay {
		td.Events = nonNil(td.Events)
		return td
	})
	out.Tasks = nonNil(out.Tasks)
	out.RitualsAndCustoms = nonNil(out.RitualsAndCustoms)
	out.Traditions = nonNil(out.Traditions)
	return out
}

func normalizeGifts(in []Gift) []Gift {
	return mapSlice(in, func(g Gift) Gift {
		g.TotalCost = g.Cost()
		return g
	})
}

func normalizeShopping(in []ShoppingEvent) []ShoppingEvent {
	return mapSlice(in, func(e ShoppingEvent) ShoppingEvent {
		e.Items = nonNil(e.Items)
		return e
	})
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// mapSlice always allocates, so the caller's slice is never written.
func mapSlice[T any](in []T, fn func(T) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}
