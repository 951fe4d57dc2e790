package cache

import (
	"testing"
	"time"
)

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired too early")
	}

	c.Set("other", "x")
	now = now.Add(2 * time.Minute)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("expected 2 expired entries, got %d", n)
	}
	if c.Size() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Size())
	}
}

func TestLRUCache_ZeroTTLNeverExpires(t *testing.T) {
	c := NewLRUCache[int](1, 0)
	c.now = func() time.Time { return time.Now().Add(1000 * time.Hour) }
	c.Set("k", 1)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("zero ttl entries must not expire")
	}
}

func TestMemo(t *testing.T) {
	c := NewLRUCache[int](4, 0)
	calls := 0
	compute := func() int { calls++; return 42 }

	key := RevisionKey("budget", 3)
	if key != "budget@3" {
		t.Fatalf("unexpected key %q", key)
	}
	for i := 0; i < 3; i++ {
		if v := Memo[int](c, key, compute); v != 42 {
			t.Fatalf("expected 42, got %d", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one computation, got %d", calls)
	}

	c.Purge()
	Memo[int](c, key, compute)
	if calls != 2 {
		t.Fatalf("expected recomputation after purge, got %d calls", calls)
	}
}
