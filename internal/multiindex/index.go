package multiindex

import (
	"github.com/google/uuid"
)

// Positioner is the part of a cursor the container needs to remove the
// record under it. Every Cursor is a Positioner.
type Positioner interface {
	AtEnd() bool
	Position() Position
}

// Cursor traverses one index in the direction fixed at creation.
//
// A cursor is invalidated by any insert or removal on its container,
// using it afterwards is undefined.
//
// Equal keys are contiguous, so a key range is scanned with
//
//	for c := idx.Find(k); !c.AtEnd() && c.Key() == k; c.Next() { ... }
type Cursor[R any, K any] interface {
	Positioner
	// Next moves to the next entry, false once the end is reached.
	Next() bool
	// AtBegin reports whether the cursor sits on the first entry of its traversal.
	AtBegin() bool
	// Key panics with ErrCursorEnd at the end sentinel.
	Key() K
	// Record resolves the current position through the store.
	// Panics with ErrCursorEnd at the end sentinel.
	Record() *R
}

// Index maps keys extracted from records to store positions.
type Index[R any, K any] interface {
	indexer[R]

	// FindFirst returns the earliest inserted record still holding key.
	FindFirst(key K) (*R, bool)
	// Begin returns a cursor at the first entry in native order.
	Begin() Cursor[R, K]
	// RBegin returns a cursor at the last entry walking backwards.
	// Panics with ErrReverseHashed on a hashed index.
	RBegin() Cursor[R, K]
	// Find returns a cursor at the first entry equal to key, at the end if absent.
	Find(key K) Cursor[R, K]
	// List returns every record holding key.
	List(key K) []*R
	// Count returns the number of entries holding key.
	Count(key K) int
}

// indexer is the key-type free contract the container fans out to.
type indexer[R any] interface {
	ID() string
	Kind() Kind
	Fields() []string
	Len() int

	// setValue maps the key of r to p. A unique index drops a colliding
	// key and returns false.
	setValue(p Position, r *R) bool
	// conflicts reports whether setValue would drop r.
	conflicts(r *R) bool
	// remove deletes entries at p and shifts entries above p down by one.
	remove(p Position)
	reserve(n int)
	matches(fields []any) bool
}

// indexBase carries what every index variant shares.
type indexBase[R any, K any] struct {
	id    string
	kind  Kind
	key   keyFunc[R, K]
	store *Store[R]
	size  int
}

func newIndexBase[R any, K any](kind Kind, key keyFunc[R, K], store *Store[R]) indexBase[R, K] {
	return indexBase[R, K]{
		id:    uuid.New().String(),
		kind:  kind,
		key:   key,
		store: store,
	}
}

// ID returns the identifier assigned at registration
func (b *indexBase[R, K]) ID() string {
	return b.id
}

// Kind returns the index kind
func (b *indexBase[R, K]) Kind() Kind {
	return b.kind
}

// Fields returns the names of the fields the key is built from
func (b *indexBase[R, K]) Fields() []string {
	return append([]string(nil), b.key.names...)
}

// Len returns number of entries
func (b *indexBase[R, K]) Len() int {
	return b.size
}

func (b *indexBase[R, K]) matches(fields []any) bool {
	return b.key.matches(fields)
}

// record resolves p, a failure means an index entry outlived its record.
func (b *indexBase[R, K]) record(p Position) *R {
	r, err := b.store.Get(p)
	if err != nil {
		panic(err)
	}
	return r
}

// shiftPositions applies the removal of p to one bucket in place.
func shiftPositions(positions []Position, p Position) []Position {
	kept := positions[:0]
	for _, cur := range positions {
		switch {
		case cur < p:
			kept = append(kept, cur)
		case cur > p:
			kept = append(kept, cur-1)
		}
	}
	return kept
}
