package multiindex

// OrderedIndex keeps its keys in a red-black tree and supports forward,
// backward and lower-bound traversal. Equal keys share one node and are
// visited in insertion order.
type OrderedIndex[R any, K any] struct {
	indexBase[R, K]
	tree *redBlackTree[K]
}

func newOrderedIndex[R any, K any](kind Kind, key keyFunc[R, K], compare func(a, b K) int, store *Store[R]) *OrderedIndex[R, K] {
	return &OrderedIndex[R, K]{
		indexBase: newIndexBase(kind, key, store),
		tree:      newRedBlackTree(compare),
	}
}

func (x *OrderedIndex[R, K]) setValue(p Position, r *R) bool {
	node, _ := x.tree.put(x.key.extract(r))
	if x.kind.Unique() && len(node.positions) > 0 {
		return false
	}
	node.positions = append(node.positions, p)
	x.size++
	return true
}

func (x *OrderedIndex[R, K]) conflicts(r *R) bool {
	if !x.kind.Unique() {
		return false
	}
	return x.tree.get(x.key.extract(r)) != nil
}

func (x *OrderedIndex[R, K]) remove(p Position) {
	var emptied []K
	it := x.tree.iterator()
	for it.next() {
		before := len(it.node.positions)
		it.node.positions = shiftPositions(it.node.positions, p)
		x.size -= before - len(it.node.positions)
		if len(it.node.positions) == 0 {
			emptied = append(emptied, it.node.key)
		}
	}
	for _, key := range emptied {
		x.tree.remove(key)
	}
}

// reserve is meaningless for a tree
func (x *OrderedIndex[R, K]) reserve(int) {}

// FindFirst returns the earliest inserted record still holding key.
func (x *OrderedIndex[R, K]) FindFirst(key K) (*R, bool) {
	node := x.tree.get(key)
	if node == nil {
		return nil, false
	}
	return x.record(node.positions[0]), true
}

// Begin returns a cursor at the smallest key
func (x *OrderedIndex[R, K]) Begin() Cursor[R, K] {
	return x.cursorAt(x.tree.min(), false)
}

// RBegin returns a cursor at the largest key walking backwards
func (x *OrderedIndex[R, K]) RBegin() Cursor[R, K] {
	return x.cursorAt(x.tree.max(), true)
}

// Find returns a cursor at the first entry of key, at the end if absent.
func (x *OrderedIndex[R, K]) Find(key K) Cursor[R, K] {
	return x.cursorAt(x.tree.get(key), false)
}

// LowerBound returns a forward cursor at the first key not less than key.
func (x *OrderedIndex[R, K]) LowerBound(key K) Cursor[R, K] {
	return x.cursorAt(x.tree.ceiling(key), false)
}

// List returns every record holding key in insertion order
func (x *OrderedIndex[R, K]) List(key K) []*R {
	node := x.tree.get(key)
	if node == nil {
		return nil
	}
	res := make([]*R, 0, len(node.positions))
	for _, p := range node.positions {
		res = append(res, x.record(p))
	}
	return res
}

// Count returns the number of entries holding key
func (x *OrderedIndex[R, K]) Count(key K) int {
	node := x.tree.get(key)
	if node == nil {
		return 0
	}
	return len(node.positions)
}

// Keys returns the distinct keys in order
func (x *OrderedIndex[R, K]) Keys() []K {
	keys := make([]K, 0, x.tree.sizeof())
	it := x.tree.iterator()
	for it.next() {
		keys = append(keys, it.node.key)
	}
	return keys
}

// String dumps the tree, for debugging
func (x *OrderedIndex[R, K]) String() string {
	return x.tree.String()
}

func (x *OrderedIndex[R, K]) cursorAt(node *redBlackNode[K], reverse bool) *orderedCursor[R, K] {
	c := &orderedCursor[R, K]{
		index:   x,
		it:      x.tree.iteratorAt(node),
		reverse: reverse,
	}
	if reverse && node != nil {
		c.offset = len(node.positions) - 1
	}
	return c
}

// orderedCursor walks the tree node by node and each node's bucket
// position by position.
type orderedCursor[R any, K any] struct {
	index   *OrderedIndex[R, K]
	it      iterator[K]
	offset  int
	reverse bool
}

func (c *orderedCursor[R, K]) Next() bool {
	if c.AtEnd() {
		return false
	}
	if c.reverse {
		if c.offset > 0 {
			c.offset--
			return true
		}
		if !c.it.prev() {
			c.it.end()
			return false
		}
		c.offset = len(c.it.node.positions) - 1
		return true
	}
	if c.offset < len(c.it.node.positions)-1 {
		c.offset++
		return true
	}
	c.offset = 0
	return c.it.next()
}

func (c *orderedCursor[R, K]) AtBegin() bool {
	if c.AtEnd() {
		return c.index.tree.root == nil
	}
	if c.reverse {
		return c.it.node == c.index.tree.max() && c.offset == len(c.it.node.positions)-1
	}
	return c.it.node == c.index.tree.min() && c.offset == 0
}

func (c *orderedCursor[R, K]) AtEnd() bool {
	return c.it.pos != onmyway
}

func (c *orderedCursor[R, K]) Key() K {
	if c.AtEnd() {
		panic(ErrCursorEnd)
	}
	return c.it.node.key
}

func (c *orderedCursor[R, K]) Record() *R {
	if c.AtEnd() {
		panic(ErrCursorEnd)
	}
	return c.index.record(c.it.node.positions[c.offset])
}

func (c *orderedCursor[R, K]) Position() Position {
	if c.AtEnd() {
		return NoPosition
	}
	return c.it.node.positions[c.offset]
}
