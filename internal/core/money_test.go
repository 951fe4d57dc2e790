package core

import (
	"errors"
	"testing"
)

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"150000", 15000000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{"١٢", 0, false},
		{"1.٣", 0, false},
		{"5.٥٥", 0, false},
		{"٣.5", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1499,99")
	if err != nil || got != 1499.99 {
		t.Fatalf("expected 1499.99, got %v (err=%v)", got, err)
	}
	for _, in := range []string{"1.٣", "5.٥٥", "١٢"} {
		if got, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("%q: expected ErrInvalidAmount, got %v (err=%v)", in, got, err)
		}
	}
	if _, err := ParseAmount("-5"); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}
}
