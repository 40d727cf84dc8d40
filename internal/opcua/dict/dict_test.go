package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func hashInt(k int) uint64 { return uint64(k) }
func equalInt(a, b int) bool { return a == b }

func TestInsertGet(t *testing.T) {
	d := New[int, string](hashInt, equalInt)
	require.True(t, d.Insert(1, "one"))
	v, ok := d.Get(1)
	require.True(t, ok)
	require.Equal(t, "one", v)

	_, ok = d.Get(2)
	require.False(t, ok)
}

func TestInsertOverwrite(t *testing.T) {
	d := New[int, string](hashInt, equalInt)
	d.Insert(1, "one")
	d.Insert(1, "uno")
	v, ok := d.Get(1)
	require.True(t, ok)
	require.Equal(t, "uno", v)
	require.Equal(t, 1, d.Len())
}

func TestRemoveNoTombstoneSetPanics(t *testing.T) {
	d := New[int, string](hashInt, equalInt)
	require.Panics(t, func() { d.Remove(1) })
}

func TestRemoveIsNoopOnAbsentKey(t *testing.T) {
	d := New[int, string](hashInt, equalInt)
	d.SetTombstoneKey(-1)
	d.Insert(1, "one")
	d.Remove(2) // absent, must be a no-op
	require.Equal(t, 1, d.Len())
}

func TestRemoveIdempotent(t *testing.T) {
	d := New[int, string](hashInt, equalInt)
	d.SetTombstoneKey(-1)
	d.Insert(1, "one")
	d.Remove(1)
	d.Remove(1)
	require.Equal(t, 0, d.Len())
	_, ok := d.Get(1)
	require.False(t, ok)
}

func TestGrowthAndShrink(t *testing.T) {
	d := New[int, int](hashInt, equalInt)
	d.SetTombstoneKey(-1)

	for i := 1; i <= 1024; i++ {
		require.True(t, d.Insert(i, i*i))
	}
	require.Equal(t, 1024, d.Len())
	require.Greater(t, d.Capacity(), 16)

	for i := 1; i <= 1024; i++ {
		d.Remove(i)
	}
	require.Equal(t, 0, d.Len())
	require.Equal(t, 16, d.Capacity()) // shrinks back to the initial bucket count
}

func TestLoadFactorNeverExceedsHalf(t *testing.T) {
	d := New[int, int](hashInt, equalInt)
	for i := 0; i < 500; i++ {
		d.Insert(i, i)
	}
	require.LessOrEqual(t, float64(d.nItems)/float64(d.size), 0.5)
}

func TestForEachVisitsAllEntries(t *testing.T) {
	d := New[int, int](hashInt, equalInt)
	want := map[int]int{1: 10, 2: 20, 3: 30}
	for k, v := range want {
		d.Insert(k, v)
	}
	got := map[int]int{}
	d.ForEach(func(k, v int) { got[k] = v })
	require.Equal(t, want, got)
}

func TestTSafeGetLockedUnlock(t *testing.T) {
	ts := NewTSafe[int, string](hashInt, equalInt, func(v string) string { return v })
	ts.Insert(1, "one")

	v, ok := ts.GetLocked(1)
	require.True(t, ok)
	require.Equal(t, "one", v)
	ts.Unlock()
}

func TestTSafeGetCopy(t *testing.T) {
	type payload struct{ n int }
	ts := NewTSafe[int, *payload](hashInt, equalInt, func(v *payload) *payload {
		cp := *v
		return &cp
	})
	orig := &payload{n: 5}
	ts.Insert(1, orig)

	cp, ok := ts.GetCopy(1)
	require.True(t, ok)
	require.Equal(t, 5, cp.n)
	require.NotSame(t, orig, cp)
}
