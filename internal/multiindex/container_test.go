package multiindex

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/S0me0neR0man/multiindex/internal/config"
)

type person struct {
	id     int
	name   string
	email  string
	age    int
	height float64
}

var (
	personID     = NewField("id", func(p *person) int { return p.id })
	personName   = NewField("name", func(p *person) string { return p.name })
	personEmail  = NewField("email", func(p *person) string { return p.email })
	personAge    = NewField("age", func(p *person) int { return p.age })
	personHeight = NewField("height", func(p *person) float64 { return p.height })
)

func samplePeople() []person {
	return []person{
		{0, "Rafael", "rafa1@email.com", 35, 1.70},
		{1, "Fernanda", "fer1@email.com", 28, 1.62},
		{2, "Rafael", "rafa2@email.com", 35, 1.64},
		{3, "Paula", "paul1@email.com", 26, 1.58},
		{4, "Paula", "paul2@email.com", 26, 1.80},
		{5, "Rafael", "rafa3@email.com", 35, 1.70},
		{6, "Fernanda", "fer2@email.com", 20, 1.50},
	}
}

func newTestContainer(t *testing.T, opts ...Option) *Container[person] {
	t.Helper()
	c := New[person](append([]Option{WithLogger(getTestLogger())}, opts...)...)
	require.NotNil(t, c)
	return c
}

func fill(t *testing.T, c *Container[person], people []person) {
	t.Helper()
	for _, p := range people {
		_, err := c.AddData(p)
		require.NoError(t, err)
	}
}

func scanIDs[K comparable](idx Index[person, K], key K) []int {
	var ids []int
	for cur := idx.Find(key); !cur.AtEnd() && cur.Key() == key; cur.Next() {
		ids = append(ids, cur.Record().id)
	}
	sort.Ints(ids)
	return ids
}

// checkConsistent verifies that every index entry points at a record whose
// extracted key equals the entry key and that every record is covered.
func checkConsistent[K comparable](t *testing.T, c *Container[person], idx Index[person, K], field *Field[person, K]) {
	t.Helper()
	require.Equal(t, c.Len(), idx.Len())

	seen := make(map[Position]bool)
	for cur := idx.Begin(); !cur.AtEnd(); cur.Next() {
		p := cur.Position()
		r, err := c.Get(p)
		require.NoError(t, err)
		require.Equal(t, cur.Key(), field.Key(r))
		require.Same(t, r, cur.Record())
		require.False(t, seen[p], "position %d listed twice", p)
		seen[p] = true
	}
	require.Len(t, seen, c.Len())
}

func TestContainer_Scenario(t *testing.T) {
	c := newTestContainer(t)
	fill(t, c, []person{
		{id: 0, name: "Rafael", age: 35},
		{id: 1, name: "Fernanda", age: 28},
		{id: 2, name: "Rafael", age: 35},
	})

	_, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	_, err = AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)

	byID, ok := GetIndex(c, personID)
	require.True(t, ok)
	byName, ok := GetIndex(c, personName)
	require.True(t, ok)

	p, ok := byID.FindFirst(1)
	require.True(t, ok)
	require.Equal(t, "Fernanda", p.name)

	require.Equal(t, []int{0, 2}, scanIDs(byName, "Rafael"))

	removed, err := c.Remove(byID.Find(1))
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 2, c.Len())

	_, ok = byID.FindFirst(1)
	require.False(t, ok)
	p, ok = byID.FindFirst(2)
	require.True(t, ok)
	require.Equal(t, "Rafael", p.name)
	p, ok = byID.FindFirst(0)
	require.True(t, ok)
	require.Equal(t, "Rafael", p.name)
	require.Equal(t, []int{0, 2}, scanIDs(byName, "Rafael"))
	require.Equal(t, 0, byName.Count("Fernanda"))

	checkConsistent(t, c, byID, personID)
	checkConsistent(t, c, byName, personName)
}

func TestContainer_CompositeNonUnique(t *testing.T) {
	c := newTestContainer(t)
	idx, err := AddCompositeIndex2(c, OrderedNonUnique, personName, personAge)
	require.NoError(t, err)

	fill(t, c, []person{
		{id: 0, name: "Rafael", age: 35},
		{id: 1, name: "Rafael", age: 20},
		{id: 2, name: "Rafael", age: 35},
	})

	got, ok := GetCompositeIndex2(c, personName, personAge)
	require.True(t, ok)
	require.Same(t, idx, got.(*OrderedIndex[person, Key2[string, int]]))

	require.Equal(t, []int{0, 2}, scanIDs[Key2[string, int]](got, MakeKey2("Rafael", 35)))
	require.Equal(t, []int{1}, scanIDs[Key2[string, int]](got, MakeKey2("Rafael", 20)))

	_, ok = GetCompositeIndex2(c, personAge, personName)
	require.False(t, ok, "field order is part of the identity")
	_, ok = GetIndex(c, personName)
	require.False(t, ok)
}

func TestContainer_CompositeOrder(t *testing.T) {
	c := newTestContainer(t)
	fill(t, c, samplePeople())

	idx, err := AddCompositeIndex3(c, OrderedNonUnique, personName, personAge, personHeight)
	require.NoError(t, err)

	var keys []Key3[string, int, float64]
	for cur := idx.Begin(); !cur.AtEnd(); cur.Next() {
		keys = append(keys, cur.Key())
	}
	require.Len(t, keys, 7)
	for i := 1; i < len(keys); i++ {
		require.LessOrEqual(t, keys[i-1].Compare(keys[i]), 0)
	}
	require.Equal(t, MakeKey3("Fernanda", 20, 1.50), keys[0])
	require.Equal(t, MakeKey3("Rafael", 35, 1.70), keys[6])

	got, ok := GetCompositeIndex3(c, personName, personAge, personHeight)
	require.True(t, ok)
	require.Equal(t, []int{0, 5}, scanIDs[Key3[string, int, float64]](got, MakeKey3("Rafael", 35, 1.70)))

	first, ok := got.FindFirst(MakeKey3("Rafael", 35, 1.70))
	require.True(t, ok)
	require.Equal(t, 0, first.id)
}

func TestContainer_CompositeHashedRejected(t *testing.T) {
	c := newTestContainer(t)

	_, err := AddCompositeIndex2(c, HashedNonUnique, personName, personAge)
	require.ErrorIs(t, err, ErrHashedComposite)
	_, err = AddCompositeIndex3(c, HashedUnique, personName, personAge, personHeight)
	require.ErrorIs(t, err, ErrHashedComposite)
	require.Equal(t, 0, c.IndexCount())
}

func TestContainer_DuplicateReject(t *testing.T) {
	c := newTestContainer(t)
	_, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	byName, err := AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)

	p, err := c.AddData(person{id: 1, name: "Fernanda"})
	require.NoError(t, err)
	require.Equal(t, Position(0), p)

	p, err = c.AddData(person{id: 1, name: "Rafael"})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, NoPosition, p)

	require.Equal(t, 1, c.Len())
	require.Equal(t, 0, byName.Count("Rafael"), "a rejected insert touches no index")
}

func TestContainer_DuplicateIgnore(t *testing.T) {
	c := newTestContainer(t, WithDuplicatePolicy(DuplicateIgnore))
	require.Equal(t, DuplicateIgnore, c.Policy())

	byID, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	byEmail, err := AddIndex(c, HashedUnique, personEmail)
	require.NoError(t, err)
	byName, err := AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)

	fill(t, c, []person{
		{id: 7, name: "Rafael", email: "a@email.com"},
		{id: 7, name: "Paula", email: "b@email.com"},
		{id: 8, name: "Paula", email: "a@email.com"},
	})

	require.Equal(t, 3, c.Len())
	require.Equal(t, 2, byID.Len())
	require.Equal(t, 2, byEmail.Len())
	require.Equal(t, 3, byName.Len())

	// first writer wins
	p, ok := byID.FindFirst(7)
	require.True(t, ok)
	require.Equal(t, "Rafael", p.name)
	p, ok = byEmail.FindFirst("a@email.com")
	require.True(t, ok)
	require.Equal(t, 7, p.id)
	require.Equal(t, "Rafael", p.name)

	// removing the first writer does not promote the dropped record
	_, err = c.Remove(byID.Find(7))
	require.NoError(t, err)
	_, ok = byID.FindFirst(7)
	require.False(t, ok)
	require.Equal(t, 2, c.Len())
	require.Equal(t, 2, byName.Len())
}

func TestContainer_BackfillDuplicates(t *testing.T) {
	rejecting := newTestContainer(t)
	fill(t, rejecting, samplePeople())

	_, err := AddIndex(rejecting, OrderedUnique, personName)
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 0, rejecting.IndexCount(), "a failed back-fill does not register")

	ignoring := newTestContainer(t, WithDuplicatePolicy(DuplicateIgnore))
	fill(t, ignoring, samplePeople())

	idx, err := AddIndex(ignoring, OrderedUnique, personName)
	require.NoError(t, err)
	require.Equal(t, 3, idx.Len())
	p, ok := idx.FindFirst("Paula")
	require.True(t, ok)
	require.Equal(t, 3, p.id)
}

func TestContainer_DuplicateIndex(t *testing.T) {
	c := newTestContainer(t)
	_, err := AddIndex(c, OrderedNonUnique, personName)
	require.NoError(t, err)

	_, err = AddIndex(c, HashedNonUnique, personName)
	require.ErrorIs(t, err, ErrDuplicateIndex)
	_, err = AddIndex(c, OrderedNonUnique, personName)
	require.ErrorIs(t, err, ErrDuplicateIndex)

	// a composite starting with the same field is a different identity
	_, err = AddCompositeIndex2(c, OrderedNonUnique, personName, personAge)
	require.NoError(t, err)
	require.Equal(t, 2, c.IndexCount())

	idx, ok := GetIndex(c, personName)
	require.True(t, ok)
	require.Equal(t, OrderedNonUnique, idx.Kind())
}

func TestContainer_BadArguments(t *testing.T) {
	c := newTestContainer(t)

	_, err := AddIndex(c, Kind(0), personID)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = AddIndex(c, Kind(42), personID)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = AddHashedIndex(c, OrderedUnique, personID)
	require.ErrorIs(t, err, ErrUnknownKind)
	_, err = AddOrderedIndexFunc(c, HashedUnique, func(a, b int) int { return a - b }, personID)
	require.ErrorIs(t, err, ErrUnknownKind)

	var nilField *Field[person, int]
	_, err = AddIndex(c, OrderedUnique, nilField)
	require.ErrorIs(t, err, ErrNilField)
	_, err = AddCompositeIndex2(c, OrderedUnique, personName, nilField)
	require.ErrorIs(t, err, ErrNilField)

	_, ok := GetIndex(c, personID)
	require.False(t, ok)
	_, ok = GetCompositeIndex3(c, personName, personAge, personHeight)
	require.False(t, ok)
	require.Equal(t, 0, c.IndexCount())
}

func TestContainer_RemoveEndCursor(t *testing.T) {
	c := newTestContainer(t)
	byID, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	fill(t, c, samplePeople())

	removed, err := c.Remove(byID.Find(100))
	require.NoError(t, err)
	require.False(t, removed)

	removed, err = c.Remove(nil)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, 7, c.Len())

	require.ErrorIs(t, c.RemoveAt(7), ErrOutOfRange)
	require.Equal(t, 7, byID.Len())
}

func TestContainer_IndexAfterData(t *testing.T) {
	c := newTestContainer(t)
	fill(t, c, samplePeople())

	byName, err := AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)
	byID, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)

	require.Equal(t, []int{1, 6}, scanIDs(byName, "Fernanda"))
	require.Equal(t, []int{0, 2, 5}, scanIDs(byName, "Rafael"))
	checkConsistent(t, c, byName, personName)
	checkConsistent(t, c, byID, personID)

	p, ok := byID.FindFirst(3)
	require.True(t, ok)
	require.Equal(t, "paul1@email.com", p.email)
}

func TestContainer_Reserve(t *testing.T) {
	c := newTestContainer(t, WithReserve(16))
	byID, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	byName, err := AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)
	fill(t, c, samplePeople())

	before := scanIDs(byName, "Rafael")
	first, _ := byID.FindFirst(4)
	want := *first

	c.Reserve(1000)
	c.Reserve(1)

	require.Equal(t, before, scanIDs(byName, "Rafael"))
	after, ok := byID.FindFirst(4)
	require.True(t, ok)
	require.Equal(t, want, *after)
	require.Equal(t, 7, c.Len())
	checkConsistent(t, c, byName, personName)
}

func TestContainer_WithConfigOption(t *testing.T) {
	c := New[person](WithConfig(nil))
	require.Equal(t, DuplicateReject, c.Policy())

	conf := config.NewConfig()
	conf.Store.Reserve = 32
	conf.Store.Duplicates = config.DuplicatesIgnore
	c = New[person](WithConfig(conf), WithLogger(getTestLogger()))
	require.Equal(t, DuplicateIgnore, c.Policy())
	require.GreaterOrEqual(t, c.store.Cap(), 32)

	conf.Store.Duplicates = "bogus"
	c = New[person](WithDuplicatePolicy(DuplicateIgnore), WithConfig(conf))
	require.Equal(t, DuplicateIgnore, c.Policy(), "an unknown value keeps the current policy")
}

func TestContainer_RandomRemovals(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	c := newTestContainer(t)

	byID, err := AddIndex(c, OrderedUnique, personID)
	require.NoError(t, err)
	byAge, err := AddIndex(c, OrderedNonUnique, personAge)
	require.NoError(t, err)
	byName, err := AddIndex(c, HashedNonUnique, personName)
	require.NoError(t, err)
	byEmail, err := AddIndex(c, HashedUnique, personEmail)
	require.NoError(t, err)
	byNameAge, err := AddCompositeIndex2(c, OrderedNonUnique, personName, personAge)
	require.NoError(t, err)

	names := []string{"Rafael", "Fernanda", "Paula", "Ana"}
	for i := 0; i < 200; i++ {
		_, err := c.AddData(person{
			id:    i,
			name:  names[rnd.Intn(len(names))],
			email: fmt.Sprintf("user%d@email.com", i),
			age:   18 + rnd.Intn(10),
		})
		require.NoError(t, err)
	}

	alive := make(map[int]bool)
	for i := 0; i < 200; i++ {
		alive[i] = true
	}

	for k := 0; k < 120; k++ {
		id := rnd.Intn(200)
		removed, err := c.Remove(byID.Find(id))
		require.NoError(t, err)
		require.Equal(t, alive[id], removed)
		delete(alive, id)
	}

	require.Equal(t, len(alive), c.Len())
	for _, idx := range []interface{ Len() int }{byID, byAge, byName, byEmail, byNameAge} {
		require.Equal(t, c.Len(), idx.Len())
	}
	checkConsistent(t, c, byID, personID)
	checkConsistent(t, c, byAge, personAge)
	checkConsistent(t, c, byName, personName)
	checkConsistent(t, c, byEmail, personEmail)

	// every survivor is reachable through every index at its current position
	c.Each(func(p Position, r *person) bool {
		cur := byID.Find(r.id)
		require.Equal(t, p, cur.Position())
		byEmailCur := byEmail.Find(r.email)
		require.Equal(t, p, byEmailCur.Position())
		require.Contains(t, scanIDs(byName, r.name), r.id)
		require.Contains(t, scanIDs(byAge, r.age), r.id)
		require.Contains(t, scanIDs[Key2[string, int]](byNameAge, MakeKey2(r.name, r.age)), r.id)
		return true
	})

	// non-unique scans are complete and duplicate free
	for _, name := range names {
		var want []int
		c.Each(func(p Position, r *person) bool {
			if r.name == name {
				want = append(want, r.id)
			}
			return true
		})
		sort.Ints(want)
		require.Equal(t, want, scanIDs(byName, name))
	}
}
