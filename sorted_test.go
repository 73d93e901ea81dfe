// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

package forest

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// byValue orders by value, ties by key.
func byValue(a, b Entry[int]) int {
	return cmp.Or(cmp.Compare(a.Value, b.Value), strings.Compare(a.Key, b.Key))
}

// sortedSample is sample sorted by value, flattened
//
//	alpha (19)
//	alpha/1 (29)
//	alpha/1/3 (39)
//	alpha/2 (49)
//	beta (59)
func sortedSample(t *testing.T) *Sorted[int] {
	t.Helper()

	s := NewSorted(byValue)
	require.NoError(t, s.AddRoot("beta", 59))
	require.NoError(t, s.AddLeaf("alpha/2", "beta", 49))
	require.NoError(t, s.AddRoot("alpha", 19))
	require.NoError(t, s.Move("alpha/2", "alpha"))
	require.NoError(t, s.AddLeaf("alpha/1", "alpha", 29))
	require.NoError(t, s.AddLeaf("alpha/1/3", "alpha/1", 39))
	return s
}

// checkSorted asserts the flattened sequence is the pre-order walk of a
// forest with every sibling group in comparator order.
func checkSorted[V any](t *testing.T, s *Sorted[V]) {
	t.Helper()

	checkIntegrity(t, s.view)
	require.Equal(t, s.DeepKeys(), s.FlatKeys(), "flattened sequence out of sync")

	inOrder := func(keys []string) bool {
		entries := make([]Entry[V], len(keys))
		for i, k := range keys {
			val, _ := s.Get(k)
			entries[i] = Entry[V]{Key: k, Value: val}
		}
		return slices.IsSortedFunc(entries, s.Comparator())
	}

	assert.True(t, inOrder(s.RootKeys()), "roots not sorted: %v", s.RootKeys())
	for _, k := range s.FlatKeys() {
		kids := s.ChildrenKeys(k)
		assert.True(t, inOrder(kids), "children of %q not sorted: %v", k, kids)
	}
}

func TestSortedNaturalOrder(t *testing.T) {
	t.Parallel()

	var s Sorted[struct{}]
	for _, k := range []string{"a10", "b", "a2", "A1", "a1"} {
		require.NoError(t, s.AddRoot(k, struct{}{}))
	}

	assert.Equal(t, []string{"A1", "a1", "a2", "a10", "b"}, s.FlatKeys())
	checkSorted(t, &s)
}

func TestSortedInsert(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)
	assert.Equal(t, []string{"alpha", "alpha/1", "alpha/1/3", "alpha/2", "beta"}, s.FlatKeys())

	// below a parent, between two blocks
	require.NoError(t, s.Add("alpha/0", "alpha", 30))
	assert.Equal(t, []string{"alpha", "alpha/1", "alpha/1/3", "alpha/0", "alpha/2", "beta"}, s.FlatKeys())

	// first child
	require.NoError(t, s.Add("alpha/00", "alpha", 1))
	assert.Equal(t, "alpha/00", s.ChildrenKeys("alpha")[0])

	// new first root
	require.NoError(t, s.AddRoot("gamma", 0))
	assert.Equal(t, "gamma", s.FlatKeys()[0])

	// new middle root
	require.NoError(t, s.AddRoot("delta", 50))
	assert.Equal(t, []string{"gamma", "alpha", "delta", "beta"}, s.RootKeys())

	require.NoError(t, s.Upsert("beta/1", "beta", 0))
	require.NoError(t, s.Emplace("beta/2", "beta", -1))
	assert.Equal(t, []string{"beta/2", "beta/1"}, s.ChildrenKeys("beta"))
	checkSorted(t, s)

	assert.ErrorIs(t, s.Add("alpha", "", 0), ErrDuplicateKey)
	assert.ErrorIs(t, s.AddLeaf("x", "", 0), ErrInvalidParent)
	checkSorted(t, s)
}

func TestSortedUpdateRelocates(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)

	require.NoError(t, s.Update("alpha/1", 50))
	assert.Equal(t, []string{"alpha", "alpha/2", "alpha/1", "alpha/1/3", "beta"}, s.FlatKeys())

	require.NoError(t, s.UpdateWith("alpha", func(old int) int { return old + 41 }))
	assert.Equal(t, []string{"beta", "alpha", "alpha/2", "alpha/1", "alpha/1/3"}, s.FlatKeys())

	require.NoError(t, s.Upsert("alpha/2", "", 51))
	assert.Equal(t, []string{"beta", "alpha", "alpha/1", "alpha/1/3", "alpha/2"}, s.FlatKeys())

	// emplace below the same parent relocates too
	require.NoError(t, s.Emplace("alpha/2", "alpha", 0))
	assert.Equal(t, []string{"beta", "alpha", "alpha/2", "alpha/1", "alpha/1/3"}, s.FlatKeys())

	// same rank, nothing moves
	snap := s.Snapshot()
	require.NoError(t, s.Update("beta", 58))
	assert.Equal(t, []string{"alpha"}, s.SiblingKeys("beta"))
	assert.Equal(t, []string{"beta"}, s.Snapshot().Changed(snap))
	checkSorted(t, s)

	assert.ErrorIs(t, s.Update("missing", 0), ErrKeyNotFound)
}

func TestSortedRemove(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)

	val, err := s.Trim("alpha/1/3")
	require.NoError(t, err)
	assert.Equal(t, 39, val)
	assert.Equal(t, []string{"alpha", "alpha/1", "alpha/2", "beta"}, s.FlatKeys())

	_, err = s.Trim("alpha")
	assert.ErrorIs(t, err, ErrMustBeLeaf)
	assert.Len(t, s.FlatKeys(), 4)

	removed, err := s.Truncate("alpha")
	require.NoError(t, err)
	assert.Len(t, removed, 3)
	assert.Equal(t, []string{"beta"}, s.FlatKeys())

	_, err = s.Truncate("alpha")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	checkSorted(t, s)

	s.Clear()
	assert.Empty(t, s.FlatKeys())
	assert.Equal(t, 0, s.Size())
}

func TestSortedStructural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		op   func(s *Sorted[int]) error
		want []string
	}{
		{
			name: "move",
			op:   func(s *Sorted[int]) error { return s.Move("beta", "alpha") },
			want: []string{"alpha", "alpha/1", "alpha/1/3", "alpha/2", "beta"},
		},
		{
			name: "move root",
			op:   func(s *Sorted[int]) error { return s.Move("alpha/2", "") },
			want: []string{"alpha", "alpha/1", "alpha/1/3", "alpha/2", "beta"},
		},
		{
			name: "detach",
			op:   func(s *Sorted[int]) error { return s.Detach("alpha/1/3") },
			want: []string{"alpha", "alpha/1", "alpha/2", "alpha/1/3", "beta"},
		},
		{
			name: "splice",
			op:   func(s *Sorted[int]) error { _, err := s.Splice("alpha/1"); return err },
			want: []string{"alpha", "alpha/1/3", "alpha/2", "beta"},
		},
		{
			name: "pluck",
			op:   func(s *Sorted[int]) error { _, err := s.Pluck("alpha"); return err },
			want: []string{"alpha/1", "alpha/1/3", "alpha/2", "beta"},
		},
		{
			name: "sprout",
			op: func(s *Sorted[int]) error {
				return s.Sprout("alpha/1", Entry[int]{"z", 1}, Entry[int]{"y", 40})
			},
			want: []string{"alpha", "alpha/1", "z", "alpha/1/3", "y", "alpha/2", "beta"},
		},
		{
			name: "condense",
			op: func(s *Sorted[int]) error {
				return s.Condense(func(a, b Entry[int]) (Entry[int], bool) {
					return Entry[int]{Key: a.Key + "+", Value: a.Value + b.Value + 100}, true
				})
			},
			want: []string{"alpha", "alpha/2", "alpha/1+", "beta"},
		},
		{
			name: "populate",
			op: func(s *Sorted[int]) error {
				return s.Populate([]Allocation[int]{
					{Key: "c", Parent: "b", Value: 1},
					{Key: "b", Value: 20},
					{Key: "alpha/3", Parent: "alpha", Value: 30},
				})
			},
			want: []string{"alpha", "alpha/1", "alpha/1/3", "alpha/3", "alpha/2", "b", "c", "beta"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := sortedSample(t)
			require.NoError(t, tt.op(s))
			assert.Equal(t, tt.want, s.FlatKeys())
			checkSorted(t, s)
		})
	}
}

func TestSortedPruneGraftRoundTrip(t *testing.T) {
	t.Parallel()

	// in the sorted variant the round trip is exact for every key
	for _, key := range []string{"alpha/1", "alpha/1/3", "alpha/2", "alpha", "beta"} {
		s := sortedSample(t)
		want := s.FlatKeys()
		parent, _ := s.ParentKey(key)

		pruned, err := s.Prune(key)
		require.NoError(t, err, key)
		checkSorted(t, s)
		checkSorted(t, pruned)
		assert.Equal(t, key, pruned.FlatKeys()[0])

		require.NoError(t, s.Graft(pruned, key, parent), key)
		assert.Equal(t, want, s.FlatKeys(), key)
		checkSorted(t, s)
	}
}

func TestSortedSubtrees(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)
	trees := s.Subtrees()
	require.Len(t, trees, 2)

	assert.Equal(t, []string{"alpha", "alpha/1", "alpha/1/3", "alpha/2"}, trees[0].FlatKeys())
	assert.Equal(t, []string{"beta"}, trees[1].FlatKeys())
	for _, tree := range trees {
		checkSorted(t, tree)
	}

	// same comparator
	require.NoError(t, trees[0].Add("alpha/0", "alpha", 0))
	assert.Equal(t, "alpha/0", trees[0].FlatKeys()[1])
}

func TestSortedClone(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)
	c := s.Clone()
	assert.True(t, s.Equal(c))
	assert.Equal(t, s.FlatKeys(), c.FlatKeys())

	require.NoError(t, c.AddRoot("a", 0))
	assert.False(t, s.Has("a"))
	assert.Len(t, s.FlatKeys(), 5)
	checkSorted(t, c)
}

func TestSortedResort(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)
	s.Sort(func(a, b Entry[int]) int { return -byValue(a, b) })
	assert.Equal(t, []string{"beta", "alpha", "alpha/2", "alpha/1", "alpha/1/3"}, s.FlatKeys())
	checkSorted(t, s)

	// nil keeps the comparator
	s.Sort(nil)
	assert.Equal(t, []string{"beta", "alpha", "alpha/2", "alpha/1", "alpha/1/3"}, s.FlatKeys())

	var z Sorted[int]
	z.Sort(nil)
	assert.Empty(t, z.FlatKeys())
}

func TestSortedQueries(t *testing.T) {
	t.Parallel()

	s := sortedSample(t)
	// alpha, alpha/1, alpha/1/3, alpha/2, beta

	key, ok := s.KeyAt(2)
	assert.True(t, ok)
	assert.Equal(t, "alpha/1/3", key)
	_, ok = s.KeyAt(5)
	assert.False(t, ok)
	_, ok = s.KeyAt(-1)
	assert.False(t, ok)

	val, ok := s.ValueAt(3)
	assert.True(t, ok)
	assert.Equal(t, 49, val)
	_, ok = s.ValueAt(9)
	assert.False(t, ok)

	assert.Equal(t, 4, s.IndexOf("beta"))
	assert.Equal(t, -1, s.IndexOf("missing"))

	over30 := func(_ string, v int) bool { return v > 30 }
	assert.Equal(t, 2, s.FindIndexOf(over30))
	assert.Equal(t, -1, s.FindIndexOf(func(string, int) bool { return false }))

	next, ok := s.NextKey("alpha/1/3")
	assert.True(t, ok)
	assert.Equal(t, "alpha/2", next)
	_, ok = s.NextKey("beta")
	assert.False(t, ok)

	prev, ok := s.PrevKey("alpha/1")
	assert.True(t, ok)
	assert.Equal(t, "alpha", prev)
	_, ok = s.PrevKey("alpha")
	assert.False(t, ok)
	_, ok = s.PrevKey("missing")
	assert.False(t, ok)

	next, ok = s.FindNextKey("alpha", over30)
	assert.True(t, ok)
	assert.Equal(t, "alpha/1/3", next)
	_, ok = s.FindNextKey("beta", over30)
	assert.False(t, ok)

	prev, ok = s.FindPrevKey("beta", func(k string, _ int) bool { return s.IsRoot(k) })
	assert.True(t, ok)
	assert.Equal(t, "alpha", prev)
	_, ok = s.FindPrevKey("alpha", over30)
	assert.False(t, ok)

	assert.Equal(t, 1, s.SiblingIndexOf("alpha/2"))
	assert.Equal(t, 1, s.FindSiblingIndexOf("alpha/1", func(_ string, v int) bool { return v > 40 }))
	assert.Equal(t, -1, s.FindSiblingIndexOf("alpha/1", func(_ string, v int) bool { return v > 50 }))
	assert.Equal(t, -1, s.FindSiblingIndexOf("missing", over30))

	assert.Equal(t, []string{"alpha/1", "alpha/1/3", "alpha/2"}, s.FlatPathKeys("alpha/1", "alpha/2"))
	assert.Equal(t, []string{"alpha/2", "alpha/1/3", "alpha/1"}, s.FlatPathKeys("alpha/2", "alpha/1"))
	assert.Equal(t, []string{"beta"}, s.FlatPathKeys("beta", "beta"))
	assert.Nil(t, s.FlatPathKeys("alpha", "missing"))

	// hierarchy path differs from flat path
	assert.Equal(t, []string{"alpha/2", "alpha", "alpha/1"}, s.PathKeys("alpha/2", "alpha/1"))

	var keys []string
	for k, v := range s.Flat() {
		keys = append(keys, fmt.Sprintf("%s=%d", k, v))
	}
	assert.Equal(t, []string{"alpha=19", "alpha/1=29", "alpha/1/3=39", "alpha/2=49", "beta=59"}, keys)
}

func TestSortedLogsFullResort(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	s := NewSorted[int](byValue, WithLogger(zap.New(core)))
	require.NoError(t, s.AddRoot("a", 1))
	require.NoError(t, s.AddRoot("b", 2))
	assert.Zero(t, logs.FilterMessage("full resort").Len(), "insert must not resort")

	require.NoError(t, s.Move("b", "a"))
	entries := logs.FilterMessage("full resort").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "move", entries[0].ContextMap()["op"])
}

func TestSortedRandomInvariant(t *testing.T) {
	t.Parallel()

	//nolint:gosec
	prng := rand.New(rand.NewPCG(42, 42))

	key := func() string { return fmt.Sprintf("k%d", prng.IntN(40)) }
	parent := func() string {
		if prng.IntN(4) == 0 {
			return ""
		}
		return key()
	}

	s := NewSorted(byValue)
	for i := range 2_000 {
		var err error
		switch prng.IntN(12) {
		case 0, 1, 2:
			err = s.Add(key(), parent(), prng.IntN(100))
		case 3:
			err = s.Update(key(), prng.IntN(100))
		case 4:
			err = s.Upsert(key(), parent(), prng.IntN(100))
		case 5:
			err = s.Emplace(key(), parent(), prng.IntN(100))
		case 6:
			err = s.Move(key(), parent())
		case 7:
			_, err = s.Trim(key())
		case 8:
			if prng.IntN(3) == 0 {
				_, err = s.Truncate(key())
			} else {
				_, err = s.Prune(key())
			}
		case 9:
			if prng.IntN(2) == 0 {
				_, err = s.Splice(key())
			} else {
				_, err = s.Pluck(key())
			}
		case 10:
			err = s.Detach(key())
		case 11:
			err = s.Sprout(key(), Entry[int]{key(), prng.IntN(100)}, Entry[int]{key(), prng.IntN(100)})
		}
		_ = err

		require.Equal(t, s.DeepKeys(), s.FlatKeys(), "step %d", i)
	}
	checkSorted(t, s)
}
