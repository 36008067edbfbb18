package multiindex

// HashedIndex keeps its keys in a Go map. It iterates forward only and its
// order across distinct keys carries no meaning.
type HashedIndex[R any, K comparable] struct {
	indexBase[R, K]
	data map[K][]Position
}

func newHashedIndex[R any, K comparable](kind Kind, key keyFunc[R, K], store *Store[R]) *HashedIndex[R, K] {
	return &HashedIndex[R, K]{
		indexBase: newIndexBase(kind, key, store),
		data:      make(map[K][]Position),
	}
}

func (x *HashedIndex[R, K]) setValue(p Position, r *R) bool {
	key := x.key.extract(r)
	positions := x.data[key]
	if x.kind.Unique() && len(positions) > 0 {
		return false
	}
	x.data[key] = append(positions, p)
	x.size++
	return true
}

func (x *HashedIndex[R, K]) conflicts(r *R) bool {
	if !x.kind.Unique() {
		return false
	}
	_, ok := x.data[x.key.extract(r)]
	return ok
}

func (x *HashedIndex[R, K]) remove(p Position) {
	for key, positions := range x.data {
		before := len(positions)
		positions = shiftPositions(positions, p)
		x.size -= before - len(positions)
		if len(positions) == 0 {
			delete(x.data, key)
			continue
		}
		x.data[key] = positions
	}
}

// reserve rebuilds the map with room for n keys
func (x *HashedIndex[R, K]) reserve(n int) {
	if n <= len(x.data) {
		return
	}
	data := make(map[K][]Position, n)
	for key, positions := range x.data {
		data[key] = positions
	}
	x.data = data
}

// FindFirst returns the earliest inserted record still holding key.
func (x *HashedIndex[R, K]) FindFirst(key K) (*R, bool) {
	positions, ok := x.data[key]
	if !ok {
		return nil, false
	}
	return x.record(positions[0]), true
}

// Begin returns a cursor at the first entry of the map's iteration order
func (x *HashedIndex[R, K]) Begin() Cursor[R, K] {
	c := &hashedCursor[R, K]{index: x, keys: x.keys(nil)}
	c.settle()
	return c
}

// RBegin always panics: hash order has no reverse.
func (x *HashedIndex[R, K]) RBegin() Cursor[R, K] {
	panic(ErrReverseHashed)
}

// Find returns a cursor at the first entry of key followed by the
// remaining keys, at the end if key is absent.
func (x *HashedIndex[R, K]) Find(key K) Cursor[R, K] {
	c := &hashedCursor[R, K]{index: x}
	if _, ok := x.data[key]; ok {
		c.keys = []K{key}
		c.head = &key
	}
	c.settle()
	return c
}

// List returns every record holding key in insertion order
func (x *HashedIndex[R, K]) List(key K) []*R {
	positions := x.data[key]
	if len(positions) == 0 {
		return nil
	}
	res := make([]*R, 0, len(positions))
	for _, p := range positions {
		res = append(res, x.record(p))
	}
	return res
}

// Count returns the number of entries holding key
func (x *HashedIndex[R, K]) Count(key K) int {
	return len(x.data[key])
}

// keys snapshots the map's keys, skipping skip if not nil
func (x *HashedIndex[R, K]) keys(skip *K) []K {
	keys := make([]K, 0, len(x.data))
	for key := range x.data {
		if skip != nil && key == *skip {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// hashedCursor walks a snapshot of the key order taken at creation. A
// cursor from Find starts with the found key alone and loads the other
// keys when it moves past that bucket.
type hashedCursor[R any, K comparable] struct {
	index  *HashedIndex[R, K]
	keys   []K
	head   *K
	ki     int
	offset int
}

// settle moves ki past keys whose bucket is gone
func (c *hashedCursor[R, K]) settle() {
	for {
		for c.ki < len(c.keys) {
			if len(c.index.data[c.keys[c.ki]]) > 0 {
				return
			}
			c.ki++
		}
		if c.head == nil {
			return
		}
		c.keys = append(c.keys, c.index.keys(c.head)...)
		c.head = nil
	}
}

func (c *hashedCursor[R, K]) bucket() []Position {
	return c.index.data[c.keys[c.ki]]
}

func (c *hashedCursor[R, K]) Next() bool {
	if c.AtEnd() {
		return false
	}
	if c.offset < len(c.bucket())-1 {
		c.offset++
		return true
	}
	c.offset = 0
	c.ki++
	c.settle()
	return !c.AtEnd()
}

func (c *hashedCursor[R, K]) AtBegin() bool {
	if c.AtEnd() {
		return len(c.index.data) == 0
	}
	return c.ki == 0 && c.offset == 0
}

func (c *hashedCursor[R, K]) AtEnd() bool {
	return c.ki >= len(c.keys)
}

func (c *hashedCursor[R, K]) Key() K {
	if c.AtEnd() {
		panic(ErrCursorEnd)
	}
	return c.keys[c.ki]
}

func (c *hashedCursor[R, K]) Record() *R {
	if c.AtEnd() {
		panic(ErrCursorEnd)
	}
	return c.index.record(c.bucket()[c.offset])
}

func (c *hashedCursor[R, K]) Position() Position {
	if c.AtEnd() {
		return NoPosition
	}
	return c.bucket()[c.offset]
}
