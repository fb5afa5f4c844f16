package merge

// Equal compares comparable items with ==.
func Equal[E comparable](a, b E) bool {
	return a == b
}

// Slugged is implemented by resources identified by a slug.
type Slugged interface {
	GetSlug() string
}

// BySlug compares resources by slug. It is the default equality for lists
// of resources. GetSlug must be safe to call on a nil receiver.
func BySlug[E Slugged](a, b E) bool {
	return a.GetSlug() == b.GetSlug()
}

// UnionSlices returns the items of a followed by the items of b, skipping
// any item equal to one already included. Order of first occurrence is
// kept, so duplicates inside a are dropped as well.
// Returns nil when both inputs are empty.
func UnionSlices[E any](a, b []E, eq func(x, y E) bool) []E {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]E, 0, len(a)+len(b))
	add := func(item E) {
		for _, existing := range out {
			if eq(existing, item) {
				return
			}
		}
		out = append(out, item)
	}
	for _, item := range a {
		add(item)
	}
	for _, item := range b {
		add(item)
	}
	return out
}

// UnionMaps returns a map holding every key of a and b. On collision the
// value from b wins. The inputs are not modified.
// Returns nil when both inputs are empty.
func UnionMaps[K comparable, V any](a, b map[K]V) map[K]V {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[K]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// fillMap returns a with the keys of b it does not have yet.
func fillMap[K comparable, V any](a, b map[K]V) map[K]V {
	if len(b) == 0 {
		return a
	}
	out := make(map[K]V, len(a)+len(b))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}
