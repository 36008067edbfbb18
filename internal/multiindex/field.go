package multiindex

import "cmp"

// Field extracts one key from a record.
//
// A *Field is also the identity token of the indices built from it:
// GetIndex matches by pointer, so keep the value returned by NewField and
// pass the same one to AddIndex and GetIndex.
type Field[R any, K any] struct {
	name string
	get  func(*R) K
}

// NewField creates a key extractor. get must be pure.
func NewField[R any, K any](name string, get func(*R) K) *Field[R, K] {
	return &Field[R, K]{name: name, get: get}
}

// Name returns the field name given at creation
func (f *Field[R, K]) Name() string {
	return f.name
}

// Key applies the extractor
func (f *Field[R, K]) Key(r *R) K {
	return f.get(r)
}

// String implements Stringer interface
func (f *Field[R, K]) String() string {
	return f.name
}

// Key2 is the key of a two-field composite index.
type Key2[A, B cmp.Ordered] struct {
	K1 A
	K2 B
}

// MakeKey2 builds a composite key
func MakeKey2[A, B cmp.Ordered](a A, b B) Key2[A, B] {
	return Key2[A, B]{K1: a, K2: b}
}

// Compare orders keys lexicographically by field declaration order.
func (k Key2[A, B]) Compare(o Key2[A, B]) int {
	if c := cmp.Compare(k.K1, o.K1); c != 0 {
		return c
	}
	return cmp.Compare(k.K2, o.K2)
}

// Key3 is the key of a three-field composite index.
type Key3[A, B, C cmp.Ordered] struct {
	K1 A
	K2 B
	K3 C
}

// MakeKey3 builds a composite key
func MakeKey3[A, B, C cmp.Ordered](a A, b B, c C) Key3[A, B, C] {
	return Key3[A, B, C]{K1: a, K2: b, K3: c}
}

// Compare orders keys lexicographically by field declaration order.
func (k Key3[A, B, C]) Compare(o Key3[A, B, C]) int {
	if c := cmp.Compare(k.K1, o.K1); c != 0 {
		return c
	}
	if c := cmp.Compare(k.K2, o.K2); c != 0 {
		return c
	}
	return cmp.Compare(k.K3, o.K3)
}

// keyFunc is the extractor an index actually calls, together with the
// identity tokens of the fields it was built from.
type keyFunc[R any, K any] struct {
	extract func(*R) K
	fields  []any
	names   []string
}

func singleKey[R any, K any](f *Field[R, K]) keyFunc[R, K] {
	return keyFunc[R, K]{
		extract: f.get,
		fields:  []any{f},
		names:   []string{f.name},
	}
}

func compositeKey2[R any, A, B cmp.Ordered](f1 *Field[R, A], f2 *Field[R, B]) keyFunc[R, Key2[A, B]] {
	return keyFunc[R, Key2[A, B]]{
		extract: func(r *R) Key2[A, B] {
			return Key2[A, B]{K1: f1.get(r), K2: f2.get(r)}
		},
		fields: []any{f1, f2},
		names:  []string{f1.name, f2.name},
	}
}

func compositeKey3[R any, A, B, C cmp.Ordered](f1 *Field[R, A], f2 *Field[R, B], f3 *Field[R, C]) keyFunc[R, Key3[A, B, C]] {
	return keyFunc[R, Key3[A, B, C]]{
		extract: func(r *R) Key3[A, B, C] {
			return Key3[A, B, C]{K1: f1.get(r), K2: f2.get(r), K3: f3.get(r)}
		},
		fields: []any{f1, f2, f3},
		names:  []string{f1.name, f2.name, f3.name},
	}
}

// matches compares field identity tuples element by element.
func (kf keyFunc[R, K]) matches(fields []any) bool {
	if len(fields) != len(kf.fields) {
		return false
	}
	for i := range fields {
		if fields[i] != kf.fields[i] {
			return false
		}
	}
	return true
}
