package core

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Venue":             "venue",
		"  Photo & Video  ": "photo-video",
		"Mehendi Night!":    "mehendi-night",
		"already-slug":      "already-slug",
		"":                  "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
	if !IsSlug("venue") || IsSlug("Venue") || IsSlug("") {
		t.Fatalf("IsSlug mismatch")
	}
}

func TestPaymentResponsibilityIsSide(t *testing.T) {
	for _, p := range []PaymentResponsibility{Bride, Groom, Split} {
		if !p.IsSide() {
			t.Fatalf("%q should be a side", p)
		}
	}
	for _, p := range []PaymentResponsibility{"", "parents", "BRIDE"} {
		if p.IsSide() {
			t.Fatalf("%q should not be a side", p)
		}
	}
}

func TestGuestHeadcount(t *testing.T) {
	cases := []struct {
		g    Guest
		want int
	}{
		{Guest{Name: "solo"}, 1},
		{Guest{Name: "couple", PlusOne: true}, 2},
		{Guest{Name: "family", IsFamily: true, FamilyMembers: []FamilyMember{{ID: "a"}, {ID: "b"}}}, 3},
		{Guest{Name: "empty family", IsFamily: true}, 1},
	}
	for i, tc := range cases {
		if got := tc.g.Headcount(); got != tc.want {
			t.Fatalf("case %d: headcount %d, want %d", i, got, tc.want)
		}
	}
}

func TestValidateFamily(t *testing.T) {
	ok := Guest{IsFamily: true, FamilyMembers: []FamilyMember{{ID: "a"}, {ID: "b"}}}
	if err := ok.ValidateFamily(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	dup := Guest{IsFamily: true, FamilyMembers: []FamilyMember{{ID: "a"}, {ID: "a"}}}
	if err := dup.ValidateFamily(); err != ErrDuplicateID {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestBudgetCategoryWithIDSlugifies(t *testing.T) {
	c := BudgetCategory{Category: "old", Planned: 10}.WithID("Bridal Makeup")
	if c.Category != "bridal-makeup" || c.Planned != 10 {
		t.Fatalf("unexpected category %+v", c)
	}
}

func TestValidateGuests(t *testing.T) {
	family := Guest{ID: "g2", IsFamily: true, FamilyMembers: []FamilyMember{{ID: "m1"}, {ID: "m2"}}}
	if err := ValidateGuests([]Guest{{ID: "g1"}, family}); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := ValidateGuests([]Guest{{ID: "g1"}, {ID: "g1"}}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("repeated guest: expected ErrDuplicateID, got %v", err)
	}
	family.FamilyMembers = append(family.FamilyMembers, FamilyMember{ID: "m1"})
	if err := ValidateGuests([]Guest{family}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("repeated member: expected ErrDuplicateID, got %v", err)
	}
	// Members of different families may share an id.
	other := Guest{ID: "g3", FamilyMembers: []FamilyMember{{ID: "m1"}}}
	if err := ValidateGuests([]Guest{{ID: "g2", FamilyMembers: []FamilyMember{{ID: "m1"}}}, other}); err != nil {
		t.Fatalf("expected ok across families, got %v", err)
	}
}
