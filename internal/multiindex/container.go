package multiindex

import (
	"cmp"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/S0me0neR0man/multiindex/internal/config"
)

// Container owns the record store and the registered indices and keeps
// them consistent on every insert and removal.
//
// IMPORTANT: does not provide thread safety
type Container[R any] struct {
	store   *Store[R]
	indices []indexer[R]
	policy  DuplicatePolicy
	sugar   *zap.SugaredLogger
}

// Option configures a Container
type Option func(*options)

type options struct {
	logger  *zap.Logger
	policy  DuplicatePolicy
	reserve int
}

// WithLogger sets the logger, zap.NewNop by default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDuplicatePolicy sets what AddData does on a unique key collision.
func WithDuplicatePolicy(p DuplicatePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithReserve preallocates room for n records
func WithReserve(n int) Option {
	return func(o *options) {
		o.reserve = n
	}
}

// WithConfig applies the store section of conf. An unknown duplicates
// value keeps the policy set so far.
func WithConfig(conf *config.Config) Option {
	return func(o *options) {
		if conf == nil {
			return
		}
		if p, err := ParseDuplicatePolicy(conf.Store.Duplicates); err == nil {
			o.policy = p
		}
		o.reserve = conf.Store.Reserve
	}
}

// New create new empty container
func New[R any](opts ...Option) *Container[R] {
	o := options{policy: DuplicateReject}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	c := &Container[R]{
		store:  NewStore[R](),
		policy: o.policy,
		sugar:  o.logger.Sugar(),
	}
	if o.reserve > 0 {
		c.store.Reserve(o.reserve)
	}
	return c
}

// Policy returns the duplicate key policy
func (c *Container[R]) Policy() DuplicatePolicy {
	return c.policy
}

// Len returns number of records
func (c *Container[R]) Len() int {
	return c.store.Len()
}

// IndexCount returns number of registered indices
func (c *Container[R]) IndexCount() int {
	return len(c.indices)
}

// Get returns the record at p, ErrOutOfRange if p is stale.
func (c *Container[R]) Get(p Position) (*R, error) {
	return c.store.Get(p)
}

// Each calls fn for every record in position order until fn returns false.
func (c *Container[R]) Each(fn func(Position, *R) bool) {
	c.store.Each(fn)
}

// AddData inserts a copy of r into every index and then into the store.
//
// With DuplicateReject a collision in any unique index refuses the insert
// and returns ErrDuplicateKey, nothing is changed. With DuplicateIgnore
// the record is stored and the colliding unique index keeps its first writer.
func (c *Container[R]) AddData(r R) (Position, error) {
	const msg = "add data:"

	if c.policy == DuplicateReject {
		for _, idx := range c.indices {
			if idx.conflicts(&r) {
				return NoPosition, fmt.Errorf("%s index %s (%s): %w",
					msg, idx.ID(), strings.Join(idx.Fields(), ","), ErrDuplicateKey)
			}
		}
	}

	p := Position(c.store.Len())
	for _, idx := range c.indices {
		if !idx.setValue(p, &r) {
			c.sugar.Warnw("duplicate key dropped",
				"index", idx.ID(), "fields", idx.Fields(), "position", p)
		}
	}
	c.store.Append(r)
	return p, nil
}

// Reserve forwards the capacity hint to the store and every index.
func (c *Container[R]) Reserve(n int) {
	c.store.Reserve(n)
	for _, idx := range c.indices {
		idx.reserve(n)
	}
}

// Remove deletes the record under cur. A cursor at the end is a no-op
// that returns false. cur is invalid afterwards.
func (c *Container[R]) Remove(cur Positioner) (bool, error) {
	if cur == nil || cur.AtEnd() {
		return false, nil
	}
	if err := c.RemoveAt(cur.Position()); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveAt deletes the record at p and renumbers every index.
func (c *Container[R]) RemoveAt(p Position) error {
	const msg = "remove:"

	if err := c.store.RemoveAt(p); err != nil {
		return fmt.Errorf("%s %w", msg, err)
	}
	for _, idx := range c.indices {
		idx.remove(p)
	}
	c.sugar.Debugw("remove", "position", p, "len", c.store.Len())
	return nil
}

// register back-fills idx from the records already stored and appends it
// to the registry.
func (c *Container[R]) register(idx indexer[R], fields []any) error {
	const msg = "add index:"

	if !idx.Kind().Valid() {
		return fmt.Errorf("%s %v: %w", msg, idx.Kind(), ErrUnknownKind)
	}
	for _, other := range c.indices {
		if other.matches(fields) {
			return fmt.Errorf("%s (%s) as %s: %w",
				msg, strings.Join(idx.Fields(), ","), other.ID(), ErrDuplicateIndex)
		}
	}

	var backfillErr error
	c.store.Each(func(p Position, r *R) bool {
		if idx.setValue(p, r) {
			return true
		}
		if c.policy == DuplicateReject {
			backfillErr = fmt.Errorf("%s (%s) at position %d: %w",
				msg, strings.Join(idx.Fields(), ","), p, ErrDuplicateKey)
			return false
		}
		c.sugar.Warnw("duplicate key dropped",
			"index", idx.ID(), "fields", idx.Fields(), "position", p)
		return true
	})
	if backfillErr != nil {
		return backfillErr
	}

	c.indices = append(c.indices, idx)
	c.sugar.Debugw("add index",
		"index", idx.ID(), "kind", idx.Kind(), "fields", idx.Fields(), "entries", idx.Len())
	return nil
}

func (c *Container[R]) lookup(fields []any) (indexer[R], bool) {
	for _, idx := range c.indices {
		if idx.matches(fields) {
			return idx, true
		}
	}
	return nil, false
}

// AddIndex registers an index of any kind over field and back-fills it.
func AddIndex[R any, K cmp.Ordered](c *Container[R], kind Kind, field *Field[R, K]) (Index[R, K], error) {
	if field == nil {
		return nil, fmt.Errorf("add index: %w", ErrNilField)
	}
	if !kind.Ordered() {
		return AddHashedIndex(c, kind, field)
	}
	idx, err := addOrdered(c, kind, singleKey(field), cmp.Compare[K])
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// AddHashedIndex registers a hashed index for keys that are comparable
// but not ordered.
func AddHashedIndex[R any, K comparable](c *Container[R], kind Kind, field *Field[R, K]) (Index[R, K], error) {
	if field == nil {
		return nil, fmt.Errorf("add index: %w", ErrNilField)
	}
	if kind != HashedUnique && kind != HashedNonUnique {
		return nil, fmt.Errorf("add hashed index %v: %w", kind, ErrUnknownKind)
	}
	idx := newHashedIndex(kind, singleKey(field), c.store)
	if err := c.register(idx, idx.key.fields); err != nil {
		return nil, err
	}
	return idx, nil
}

// AddOrderedIndexFunc registers an ordered index whose keys are ordered
// by compare instead of their natural order.
func AddOrderedIndexFunc[R any, K any](c *Container[R], kind Kind, compare func(a, b K) int, field *Field[R, K]) (*OrderedIndex[R, K], error) {
	if field == nil {
		return nil, fmt.Errorf("add index: %w", ErrNilField)
	}
	return addOrdered(c, kind, singleKey(field), compare)
}

// AddCompositeIndex2 registers an ordered index over the tuple (f1, f2).
func AddCompositeIndex2[R any, A, B cmp.Ordered](c *Container[R], kind Kind, f1 *Field[R, A], f2 *Field[R, B]) (*OrderedIndex[R, Key2[A, B]], error) {
	if f1 == nil || f2 == nil {
		return nil, fmt.Errorf("add composite index: %w", ErrNilField)
	}
	return addOrdered(c, kind, compositeKey2(f1, f2), Key2[A, B].Compare)
}

// AddCompositeIndex3 registers an ordered index over the tuple (f1, f2, f3).
func AddCompositeIndex3[R any, A, B, C cmp.Ordered](c *Container[R], kind Kind, f1 *Field[R, A], f2 *Field[R, B], f3 *Field[R, C]) (*OrderedIndex[R, Key3[A, B, C]], error) {
	if f1 == nil || f2 == nil || f3 == nil {
		return nil, fmt.Errorf("add composite index: %w", ErrNilField)
	}
	return addOrdered(c, kind, compositeKey3(f1, f2, f3), Key3[A, B, C].Compare)
}

func addOrdered[R any, K any](c *Container[R], kind Kind, key keyFunc[R, K], compare func(a, b K) int) (*OrderedIndex[R, K], error) {
	if !kind.Ordered() {
		if kind.Valid() && len(key.fields) > 1 {
			return nil, fmt.Errorf("add index %v: %w", kind, ErrHashedComposite)
		}
		return nil, fmt.Errorf("add ordered index %v: %w", kind, ErrUnknownKind)
	}
	idx := newOrderedIndex(kind, key, compare, c.store)
	if err := c.register(idx, key.fields); err != nil {
		return nil, err
	}
	return idx, nil
}

// GetIndex returns the index built from field, whatever its kind.
func GetIndex[R any, K any](c *Container[R], field *Field[R, K]) (Index[R, K], bool) {
	return getIndex[R, K](c, []any{field})
}

// GetCompositeIndex2 returns the index built from exactly (f1, f2).
func GetCompositeIndex2[R any, A, B cmp.Ordered](c *Container[R], f1 *Field[R, A], f2 *Field[R, B]) (Index[R, Key2[A, B]], bool) {
	return getIndex[R, Key2[A, B]](c, []any{f1, f2})
}

// GetCompositeIndex3 returns the index built from exactly (f1, f2, f3).
func GetCompositeIndex3[R any, A, B, C cmp.Ordered](c *Container[R], f1 *Field[R, A], f2 *Field[R, B], f3 *Field[R, C]) (Index[R, Key3[A, B, C]], bool) {
	return getIndex[R, Key3[A, B, C]](c, []any{f1, f2, f3})
}

func getIndex[R any, K any](c *Container[R], fields []any) (Index[R, K], bool) {
	found, ok := c.lookup(fields)
	if !ok {
		return nil, false
	}
	idx, ok := found.(Index[R, K])
	return idx, ok
}
