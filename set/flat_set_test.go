package set_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/amp-labs/amp-flat/set"
	"github.com/amp-labs/amp-flat/sortable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlatSet(t *testing.T) {
	t.Parallel()

	t.Run("creates empty set", func(t *testing.T) {
		t.Parallel()

		s := set.NewNaturalFlatSet[int]()
		require.NotNil(t, s)
		assert.True(t, s.IsEmpty())
		assert.Equal(t, 0, s.Size())
	})

	t.Run("sorts and dedups input", func(t *testing.T) {
		t.Parallel()

		s := set.NewNaturalFlatSet("c", "a", "b", "a", "c")
		assert.Equal(t, []string{"a", "b", "c"}, s.Entries())
	})

	t.Run("from seq", func(t *testing.T) {
		t.Parallel()

		s := set.NewFlatSetFromSeq(compare.Natural[int](), slices.Values([]int{3, 1, 2, 3}))
		assert.Equal(t, []int{1, 2, 3}, s.Entries())

		empty := set.NewFlatSetFromSeq[int](compare.Natural[int](), nil)
		assert.True(t, empty.IsEmpty())
	})

	t.Run("sortable elements", func(t *testing.T) {
		t.Parallel()

		s := set.NewSortableFlatSet[sortable.NaturalString]("file10", "file2", "file1")
		assert.Equal(t, []sortable.NaturalString{"file1", "file2", "file10"}, s.Entries())
	})

	t.Run("custom comparator", func(t *testing.T) {
		t.Parallel()

		s := set.NewFlatSet(compare.Reverse(compare.Natural[int]()), 1, 3, 2)
		assert.Equal(t, []int{3, 2, 1}, s.Entries())
	})
}

func TestFlatSet_Insert(t *testing.T) {
	t.Parallel()

	for name, factory := range setFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := factory()

			assert.True(t, s.Insert(5))
			assert.False(t, s.Insert(5))
			assert.True(t, s.Insert(1))
			assert.True(t, s.Insert(9))
			assert.Equal(t, 2, s.InsertAll(1, 3, 7, 7))

			assert.Equal(t, []int{1, 3, 5, 7, 9}, slices.Collect(s.Seq()))
			assert.Equal(t, 5, s.Size())
		})
	}
}

func TestFlatSet_Remove(t *testing.T) {
	t.Parallel()

	for name, factory := range setFactories() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			s := factory()
			s.InsertAll(1, 2, 3)

			assert.True(t, s.Remove(2))
			assert.False(t, s.Remove(2))
			assert.False(t, s.Remove(100))
			assert.False(t, s.Contains(2))
			assert.Equal(t, []int{1, 3}, s.Entries())

			s.Clear()
			s.Clear()
			assert.True(t, s.IsEmpty())
			assert.False(t, s.Remove(1))
		})
	}
}

func TestFlatSet_Reads(t *testing.T) {
	t.Parallel()

	s := set.NewNaturalFlatSet(1, 3, 5, 7, 9)

	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(4))
	assert.Equal(t, optional.Some(1), s.First())
	assert.Equal(t, optional.Some(9), s.Last())
	assert.Equal(t, []int{3, 5, 7}, slices.Collect(s.Range(bound.HalfOpen(2, 8))))
	assert.Equal(t, []int{5, 7, 9}, slices.Collect(s.Range(bound.GreaterThan(3))))
	assert.Empty(t, slices.Collect(s.Range(bound.Closed(8, 2))))

	empty := set.NewNaturalFlatSet[int]()
	assert.True(t, empty.First().Empty())
	assert.True(t, empty.Last().Empty())
}

func TestFlatSet_Algebra(t *testing.T) {
	t.Parallel()

	a := set.NewNaturalFlatSet(1, 2, 3, 4)
	b := set.NewNaturalFlatSet(3, 4, 5, 6)

	tests := []struct {
		name     string
		got      set.SortedSet[int]
		expected []int
	}{
		{name: "union", got: a.Union(b), expected: []int{1, 2, 3, 4, 5, 6}},
		{name: "intersection", got: a.Intersection(b), expected: []int{3, 4}},
		{name: "difference", got: a.Difference(b), expected: []int{1, 2}},
		{name: "reverse difference", got: b.Difference(a), expected: []int{5, 6}},
		{name: "union with empty", got: a.Union(set.NewNaturalFlatSet[int]()), expected: []int{1, 2, 3, 4}},
		{name: "intersection with empty", got: a.Intersection(set.NewNaturalFlatSet[int]()), expected: []int{}},
		{name: "union with nil", got: a.Union(nil), expected: []int{1, 2, 3, 4}},
		{name: "self intersection", got: a.Intersection(a), expected: []int{1, 2, 3, 4}},
		{
			name:     "other ordered differently",
			got:      a.Union(set.NewFlatSet(compare.Reverse(compare.Natural[int]()), 0, 5, 2)),
			expected: []int{0, 1, 2, 3, 4, 5},
		},
		{
			name:     "tree-backed other",
			got:      a.Difference(treeSet(2, 4)),
			expected: []int{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.got.Entries())
		})
	}

	t.Run("operands are untouched", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []int{1, 2, 3, 4}, a.Entries())
		assert.Equal(t, []int{3, 4, 5, 6}, b.Entries())
	})
}

func TestFlatSet_Clone(t *testing.T) {
	t.Parallel()

	s := set.NewNaturalFlatSet(1, 2)
	c := s.Clone()
	c.Insert(3)
	c.Remove(1)

	assert.Equal(t, []int{1, 2}, s.Entries())
	assert.Equal(t, []int{2, 3}, c.Entries())
}

func TestThreadSafeSet(t *testing.T) {
	t.Parallel()

	t.Run("wrapping", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, set.NewThreadSafeSet[int](nil))

		s := set.NewThreadSafeSet(set.NewNaturalFlatSet[int]())
		assert.Same(t, s, set.NewThreadSafeSet(s))
	})

	t.Run("set algebra with itself", func(t *testing.T) {
		t.Parallel()

		s := set.NewThreadSafeSet(set.NewNaturalFlatSet(1, 2, 3))

		assert.Equal(t, []int{1, 2, 3}, s.Union(s).Entries())
		assert.Empty(t, s.Difference(s).Entries())

		c := s.Clone()
		assert.Same(t, c, set.NewThreadSafeSet(c))
	})

	t.Run("snapshot iteration", func(t *testing.T) {
		t.Parallel()

		s := set.NewThreadSafeSet(set.NewNaturalFlatSet(1, 2))

		var seen []int

		for element := range s.Seq() {
			seen = append(seen, element)
			s.Insert(element + 10)
		}

		assert.Equal(t, []int{1, 2}, seen)
		assert.Equal(t, []int{1, 2, 11, 12}, s.Entries())
		assert.Equal(t, []int{11, 12}, slices.Collect(s.Range(bound.AtLeast(10))))
	})

	t.Run("concurrent inserts", func(t *testing.T) {
		t.Parallel()

		s := set.NewThreadSafeSet(set.NewNaturalFlatSet[int]())

		var wg sync.WaitGroup

		for g := range 8 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for i := range 200 {
					s.Insert(i*8 + g)
					s.Contains(i)
				}
			}()
		}

		wg.Wait()

		assert.Equal(t, 1600, s.Size())
		assert.True(t, slices.IsSorted(s.Entries()))
	})
}

func treeSet(elements ...int) set.SortedSet[int] {
	s := set.NewRedBlackTreeSet(compare.Natural[int]())
	s.InsertAll(elements...)

	return s
}

func setFactories() map[string]func() set.SortedSet[int] {
	return map[string]func() set.SortedSet[int]{
		"flat":        func() set.SortedSet[int] { return set.NewNaturalFlatSet[int]() },
		"tree":        func() set.SortedSet[int] { return treeSet() },
		"thread safe": func() set.SortedSet[int] { return set.NewThreadSafeSet(set.NewNaturalFlatSet[int]()) },
	}
}
