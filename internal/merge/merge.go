// Package merge combines partial records coming from competing sources.
//
// Record types describe themselves with a Schema: an explicit table of field
// descriptors (scalars, optional pointers, set-like slices, keyed maps and
// nested records). The schema drives three operations:
//
//   - Merge: override + union. Values set on the second record win, slices
//     and maps are unioned.
//   - Complete: fill-only. Values already set on the first record are never
//     overwritten, slices and maps are unioned.
//   - Nullify: reset every declared field to its zero value.
//
// Merge and Complete mutate and return their first argument.
package merge

import "fmt"

// Mode selects how scalar and map fields are combined.
type Mode int

const (
	// ModeMerge lets the source value win whenever it is set.
	ModeMerge Mode = iota
	// ModeComplete only fills values the destination does not have yet.
	ModeComplete
)

func (m Mode) String() string {
	if m == ModeComplete {
		return "complete"
	}
	return "merge"
}

// Field is one entry of a Schema field table.
type Field[T any] interface {
	// Name identifies the field in errors.
	Name() string
	apply(dst, src *T, mode Mode) error
	reset(dst *T)
}

// Schema is the field table of a record type.
type Schema[T any] struct {
	fields []Field[T]
}

// NewSchema builds a schema from field descriptors.
// Panics on duplicate field names, which indicates a programming error.
func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			panic(fmt.Sprintf("merge: duplicate field %q in schema", f.Name()))
		}
		seen[f.Name()] = true
	}
	return &Schema[T]{fields: fields}
}

// Fields returns the declared field names in table order.
func (s *Schema[T]) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name()
	}
	return names
}

// Merge combines b into a with override + union semantics.
// Merge(a, nil) returns a, Merge(nil, b) returns b.
func (s *Schema[T]) Merge(a, b *T) (*T, error) {
	return s.combine(a, b, ModeMerge)
}

// Complete fills the unset fields of a from b and unions collections.
// Complete(a, nil) returns a, Complete(nil, b) returns b.
func (s *Schema[T]) Complete(a, b *T) (*T, error) {
	return s.combine(a, b, ModeComplete)
}

func (s *Schema[T]) combine(a, b *T, mode Mode) (*T, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	for _, f := range s.fields {
		if err := f.apply(a, b, mode); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Nullify resets every declared field of a to its zero value.
func (s *Schema[T]) Nullify(a *T) {
	if a == nil {
		return
	}
	for _, f := range s.fields {
		f.reset(a)
	}
}
