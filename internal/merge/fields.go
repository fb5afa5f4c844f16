package merge

type scalarField[T any, V comparable] struct {
	name string
	ref  func(*T) *V
}

// Scalar declares a comparable field. The zero value means unset.
func Scalar[T any, V comparable](name string, ref func(*T) *V) Field[T] {
	return scalarField[T, V]{name: name, ref: ref}
}

func (f scalarField[T, V]) Name() string { return f.name }

func (f scalarField[T, V]) apply(dst, src *T, mode Mode) error {
	var zero V
	d, s := f.ref(dst), f.ref(src)
	if *s == zero {
		return nil
	}
	if mode == ModeComplete && *d != zero {
		return nil
	}
	*d = *s
	return nil
}

func (f scalarField[T, V]) reset(dst *T) {
	var zero V
	*f.ref(dst) = zero
}

type pointerField[T any, V any] struct {
	name string
	ref  func(*T) **V
}

// Pointer declares an optional field. nil means unset.
// The pointer itself is shared, not copied.
func Pointer[T any, V any](name string, ref func(*T) **V) Field[T] {
	return pointerField[T, V]{name: name, ref: ref}
}

func (f pointerField[T, V]) Name() string { return f.name }

func (f pointerField[T, V]) apply(dst, src *T, mode Mode) error {
	d, s := f.ref(dst), f.ref(src)
	if *s == nil {
		return nil
	}
	if mode == ModeComplete && *d != nil {
		return nil
	}
	*d = *s
	return nil
}

func (f pointerField[T, V]) reset(dst *T) {
	*f.ref(dst) = nil
}

type sliceField[T any, E any] struct {
	name string
	ref  func(*T) *[]E
	eq   func(a, b E) bool
}

// Slice declares a set-like list. Both modes union the two lists with eq.
func Slice[T any, E any](name string, ref func(*T) *[]E, eq func(a, b E) bool) Field[T] {
	return sliceField[T, E]{name: name, ref: ref, eq: eq}
}

func (f sliceField[T, E]) Name() string { return f.name }

func (f sliceField[T, E]) apply(dst, src *T, _ Mode) error {
	d := f.ref(dst)
	*d = UnionSlices(*d, *f.ref(src), f.eq)
	return nil
}

func (f sliceField[T, E]) reset(dst *T) {
	*f.ref(dst) = nil
}

type mapField[T any, K comparable, V any] struct {
	name string
	ref  func(*T) *map[K]V
}

// Map declares a keyed map. Merge lets the source win on key collisions,
// Complete keeps the destination's entry.
func Map[T any, K comparable, V any](name string, ref func(*T) *map[K]V) Field[T] {
	return mapField[T, K, V]{name: name, ref: ref}
}

func (f mapField[T, K, V]) Name() string { return f.name }

func (f mapField[T, K, V]) apply(dst, src *T, mode Mode) error {
	d, s := f.ref(dst), *f.ref(src)
	if mode == ModeComplete {
		*d = fillMap(*d, s)
		return nil
	}
	*d = UnionMaps(*d, s)
	return nil
}

func (f mapField[T, K, V]) reset(dst *T) {
	*f.ref(dst) = nil
}

type nestedField[T any, V any] struct {
	name   string
	ref    func(*T) **V
	schema *Schema[V]
}

// Nested declares a nested record merged with its own schema. When the
// destination value implements Hook[V], the hook runs instead.
func Nested[T any, V any](name string, ref func(*T) **V, schema *Schema[V]) Field[T] {
	return nestedField[T, V]{name: name, ref: ref, schema: schema}
}

func (f nestedField[T, V]) Name() string { return f.name }

func (f nestedField[T, V]) apply(dst, src *T, mode Mode) error {
	d, s := f.ref(dst), *f.ref(src)
	if s == nil {
		return nil
	}
	if *d == nil {
		*d = s
		return nil
	}
	if hook, ok := any(*d).(Hook[V]); ok {
		if err := hook.OnMerge(s); err != nil {
			return &HookError{Field: f.name, Err: err}
		}
		return nil
	}
	if f.schema == nil {
		if mode == ModeMerge {
			*d = s
		}
		return nil
	}
	merged, err := f.schema.combine(*d, s, mode)
	if err != nil {
		return err
	}
	*d = merged
	return nil
}

func (f nestedField[T, V]) reset(dst *T) {
	*f.ref(dst) = nil
}
