// Package multiindex is an in-memory record store with any number of
// secondary indices (ordered or hashed, unique or non-unique, single-field
// or composite) kept consistent with the records on every insert and removal.
//
// IMPORTANT: the package is not thread safe. Callers serialize all access,
// including the lifetime of every cursor.
//
// Pointers to records (Get, FindFirst, List, Cursor.Record) point into the
// store's backing array. They are valid only until the next mutating call
// on the container: AddData, Remove, RemoveAt or Reserve.
package multiindex

import (
	"errors"
	"fmt"
)

// Position is the current zero-based slot of a record in the store.
// Positions are renumbered on removal, they are not stable identities.
type Position int

// NoPosition is reported by a cursor at the end sentinel.
const NoPosition Position = -1

var (
	ErrOutOfRange      = errors.New("position out of range")
	ErrDuplicateKey    = errors.New("duplicate key in unique index")
	ErrDuplicateIndex  = errors.New("index over the same fields already registered")
	ErrHashedComposite = errors.New("composite index cannot be hashed")
	ErrUnknownKind     = errors.New("unknown index kind")
	ErrReverseHashed   = errors.New("reverse iteration is not allowed for a hashed index")
	ErrCursorEnd       = errors.New("cursor is at the end")
	ErrNilField        = errors.New("nil field")
)

// Kind selects the backing structure and the uniqueness of an index.
type Kind byte

const (
	OrderedUnique Kind = iota + 1
	OrderedNonUnique
	HashedUnique
	HashedNonUnique
)

var kindNames = map[Kind]string{
	OrderedUnique:    "ordered-unique",
	OrderedNonUnique: "ordered-non-unique",
	HashedUnique:     "hashed-unique",
	HashedNonUnique:  "hashed-non-unique",
}

// String implements Stringer interface
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", byte(k))
}

// Valid reports whether k is one of the four known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Unique reports whether the index keeps at most one record per key.
func (k Kind) Unique() bool {
	return k == OrderedUnique || k == HashedUnique
}

// Ordered reports whether the index is backed by a sorted structure.
func (k Kind) Ordered() bool {
	return k == OrderedUnique || k == OrderedNonUnique
}

// DuplicatePolicy decides what AddData does when a record collides with
// an existing key of a unique index.
type DuplicatePolicy byte

const (
	// DuplicateReject refuses the whole insert, nothing is changed.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateIgnore stores the record anyway. The colliding unique index
	// keeps its first writer and does not cover the new record.
	DuplicateIgnore
)

// String implements Stringer interface
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateIgnore:
		return "ignore"
	}
	return fmt.Sprintf("policy(%d)", byte(p))
}

// ParseDuplicatePolicy maps "reject" and "ignore" to their policies.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "reject", "":
		return DuplicateReject, nil
	case "ignore":
		return DuplicateIgnore, nil
	}
	return DuplicateReject, fmt.Errorf("unknown duplicate policy %q", s)
}
