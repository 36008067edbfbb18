package multiindex

import (
	"fmt"
	"slices"
)

// Store holds the authoritative copies of the records.
//
// Any Append may reallocate the backing array, RemoveAt shifts every later
// record down one slot. Pointers returned by Get must not be kept across
// either call, only positions survive an Append.
type Store[R any] struct {
	records []R
}

// NewStore create new empty store
func NewStore[R any]() *Store[R] {
	return &Store[R]{}
}

// Append copies r into the store and returns its position.
func (s *Store[R]) Append(r R) Position {
	s.records = append(s.records, r)
	return Position(len(s.records) - 1)
}

// Get returns the record at p, ErrOutOfRange if p is stale.
func (s *Store[R]) Get(p Position) (*R, error) {
	if !s.valid(p) {
		return nil, fmt.Errorf("get %d (len %d): %w", p, len(s.records), ErrOutOfRange)
	}
	return &s.records[p], nil
}

// RemoveAt deletes the record at p and shifts the tail down by one.
func (s *Store[R]) RemoveAt(p Position) error {
	if !s.valid(p) {
		return fmt.Errorf("remove %d (len %d): %w", p, len(s.records), ErrOutOfRange)
	}
	s.records = slices.Delete(s.records, int(p), int(p)+1)
	return nil
}

// Reserve is a capacity hint, contents never change.
func (s *Store[R]) Reserve(n int) {
	if n > len(s.records) {
		s.records = slices.Grow(s.records, n-len(s.records))
	}
}

// Len returns number of records
func (s *Store[R]) Len() int {
	return len(s.records)
}

// Cap returns the capacity of the backing array
func (s *Store[R]) Cap() int {
	return cap(s.records)
}

// Each calls fn for every record in position order until fn returns false.
func (s *Store[R]) Each(fn func(Position, *R) bool) {
	for i := range s.records {
		if !fn(Position(i), &s.records[i]) {
			return
		}
	}
}

func (s *Store[R]) valid(p Position) bool {
	return p >= 0 && int(p) < len(s.records)
}
