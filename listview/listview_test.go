package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID   int
	Name string
}

func newList(onCreate, onUpdate, onDelete Strategy) *List[row] {
	return New(Config[row]{
		Key:      func(r row) int { return r.ID },
		Fields:   func(r row) []string { return []string{r.Name} },
		OnCreate: onCreate,
		OnUpdate: onUpdate,
		OnDelete: onDelete,
	})
}

func TestLoadCopiesSnapshot(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	src := []row{{1, "a"}, {2, "b"}}
	l.Load(src)

	src[0].Name = "mutated"
	assert.Equal(t, "a", l.Items()[0].Name)
	assert.True(t, l.Fresh())
	assert.Equal(t, 2, l.Len())
}

func TestFilterIsNonDestructive(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	l.Load([]row{{1, "Alice"}, {2, "Bob"}, {3, "alicia"}})

	got := l.Filter("ali")
	assert.Len(t, got, 2)

	// clearing the term restores the full set
	assert.Len(t, l.Filter(""), 3)
	assert.Len(t, l.Filter("  "), 3)

	// no match
	assert.Empty(t, l.Filter("zzz"))

	// case-insensitive both ways
	assert.Len(t, l.Filter("BOB"), 1)
}

func TestSpliceCreate(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	l.Load([]row{{1, "a"}})

	l.Created(row{2, "b"})
	assert.True(t, l.Fresh())
	assert.Equal(t, []row{{1, "a"}, {2, "b"}}, l.Items())
}

func TestSpliceUpdate(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	l.Load([]row{{1, "a"}, {2, "b"}})

	l.Updated(row{2, "b2"})
	assert.Equal(t, []row{{1, "a"}, {2, "b2"}}, l.Items())

	// unknown key appends rather than dropping the write
	l.Updated(row{3, "c"})
	assert.Equal(t, 3, l.Len())
}

func TestSpliceDelete(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	l.Load([]row{{1, "a"}, {2, "b"}, {3, "c"}})

	l.Deleted(2)
	assert.True(t, l.Fresh())
	assert.Equal(t, []row{{1, "a"}, {3, "c"}}, l.Items())

	// deleting an unknown key is a no-op
	l.Deleted(99)
	assert.Equal(t, 2, l.Len())
}

func TestRefetchInvalidates(t *testing.T) {
	l := newList(Refetch, Refetch, Refetch)
	l.Load([]row{{1, "a"}})

	l.Created(row{2, "b"})
	assert.False(t, l.Fresh())

	l.Load([]row{{1, "a"}, {2, "b"}})
	l.Updated(row{1, "a2"})
	assert.False(t, l.Fresh())

	l.Load([]row{{1, "a2"}, {2, "b"}})
	l.Deleted(1)
	assert.False(t, l.Fresh())
}

func TestSpliceOnStaleSnapshotStaysStale(t *testing.T) {
	l := newList(Splice, Splice, Splice)
	l.Load([]row{{1, "a"}})
	l.Invalidate()

	// a splice against a stale snapshot must not resurrect it
	l.Created(row{2, "b"})
	assert.False(t, l.Fresh())
}
