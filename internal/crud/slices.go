package crud

// IndexOf returns the position of the record with id, or -1.
func IndexOf[T interface{ GetID() string }](items []T, id string) int {
	for i, it := range items {
		if it.GetID() == id {
			return i
		}
	}
	return -1
}

// Upsert returns a new slice with record replacing the element that has the
// same id, or appended when none does. The second result reports whether an
// element was replaced. items is never written.
func Upsert[T interface{ GetID() string }](items []T, record T) ([]T, bool) {
	i := IndexOf(items, record.GetID())
	if i < 0 {
		out := make([]T, len(items), len(items)+1)
		copy(out, items)
		return append(out, record), false
	}
	out := make([]T, len(items))
	copy(out, items)
	out[i] = record
	return out, true
}

// Remove returns a new slice without the element with id, keeping the order
// of the rest.
func Remove[T interface{ GetID() string }](items []T, id string) ([]T, bool) {
	out := make([]T, 0, len(items))
	found := false
	for _, it := range items {
		if it.GetID() == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
