// Package cache memoizes derived views of the planning document.
package cache

import "strconv"

// Cache defines a generic cache interface
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(key string) (T, bool)

	// Set stores a value in the cache
	Set(key string, data T)

	// Delete removes a key from the cache
	Delete(key string)

	// Purge drops every entry
	Purge()

	// Size returns the current number of items in the cache
	Size() int
}

// Memo returns the cached value for key, computing and storing it on a miss.
func Memo[T any](c Cache[T], key string, compute func() T) T {
	if v, ok := c.Get(key); ok {
		return v
	}
	v := compute()
	c.Set(key, v)
	return v
}

// RevisionKey scopes a view name to one document revision, so a write makes
// every earlier entry unreachable without explicit invalidation.
func RevisionKey(view string, revision uint64) string {
	return view + "@" + strconv.FormatUint(revision, 10)
}
