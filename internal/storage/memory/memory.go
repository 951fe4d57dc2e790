// Package memory is an in-process document store for development and tests.
package memory

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xRahul/wedding-planner-app-sub001/internal/core"
)

// ErrCapacityExceeded is returned when a document is larger than the
// store's limit.
var ErrCapacityExceeded = errors.New("storage capacity exceeded")

type Store struct {
	mu       sync.Mutex
	raw      []byte
	revision uint64
	maxBytes int
}

type Option func(*Store)

// WithMaxBytes limits the size of a saved document; 0 means unlimited.
func WithMaxBytes(n int) Option {
	return func(s *Store) { s.maxBytes = n }
}

// New returns a store holding raw, or nothing when raw is nil.
func New(raw []byte, opts ...Option) *Store {
	s := &Store{}
	if raw != nil {
		s.raw = append([]byte(nil), raw...)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewFromFiles seeds the store from base. seed_document.json is used as-is
// when present. Otherwise seed_guests.txt and seed_budget.txt, one name per
// line, are applied over the default document. With no seed files the store
// starts empty.
func NewFromFiles(base string, opts ...Option) (*Store, error) {
	if raw, err := os.ReadFile(filepath.Join(base, "seed_document.json")); err == nil {
		return New(raw, opts...), nil
	}

	guests := readLines(filepath.Join(base, "seed_guests.txt"))
	cats := readLines(filepath.Join(base, "seed_budget.txt"))
	if len(guests) == 0 && len(cats) == 0 {
		return New(nil, opts...), nil
	}

	raw, err := core.Encode(seedDocument(guests, cats))
	if err != nil {
		return nil, fmt.Errorf("encode seed document: %w", err)
	}
	return New(raw, opts...), nil
}

func seedDocument(guests, cats []string) core.Document {
	doc := core.DefaultDocument()
	seen := make(map[string]bool, len(guests))
	for _, name := range guests {
		id := "seed-" + core.Slugify(name)
		if seen[id] {
			continue
		}
		seen[id] = true
		doc.Guests = append(doc.Guests, core.Guest{
			ID:            id,
			Name:          name,
			RSVP:          core.RSVPPending,
			FamilyMembers: []core.FamilyMember{},
		})
	}
	have := make(map[string]bool, len(doc.Budget))
	for _, c := range doc.Budget {
		have[c.Category] = true
	}
	for _, name := range cats {
		slug := core.Slugify(name)
		if slug == "" || have[slug] {
			continue
		}
		have[slug] = true
		doc.Budget = append(doc.Budget, core.BudgetCategory{Category: slug, Subcategories: []string{}})
	}
	return doc
}

// Load returns a copy of the stored document, or nil when empty.
func (s *Store) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw == nil {
		return nil, nil
	}
	return append([]byte(nil), s.raw...), nil
}

// Save replaces the stored document and returns the new revision.
func (s *Store) Save(_ context.Context, raw []byte) (uint64, error) {
	if s.maxBytes > 0 && len(raw) > s.maxBytes {
		return 0, fmt.Errorf("%w: %d bytes, limit %d", ErrCapacityExceeded, len(raw), s.maxBytes)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = append([]byte(nil), raw...)
	s.revision++
	return s.revision, nil
}

// Revision returns the number of saves so far.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe keeps the first occurrence of each value, in input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
