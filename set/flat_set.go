package set

import (
	"cmp"
	"iter"
	"slices"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/maps"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/amp-labs/amp-flat/sortable"
)

// flatSet adapts a MutableSortedMap with empty values into a SortedSet. The
// storage decides the performance profile: a flat map gives a compact sorted
// array, a red-black tree gives logarithmic inserts and removals.
type flatSet[K any] struct {
	m maps.MutableSortedMap[K, struct{}]
}

var _ SortedSet[sortable.Int] = (*flatSet[sortable.Int])(nil)

// NewFlatSet creates a set ordered by cmp holding elements. Duplicates among
// elements collapse into one.
//
// Example:
//
//	s := set.NewFlatSet(compare.Natural[string](), "b", "a", "b")
//	// s iterates as "a", "b"
func NewFlatSet[K any](cmp compare.Func[K], elements ...K) SortedSet[K] {
	pairs := make([]maps.KeyValuePair[K, struct{}], len(elements))
	for i, element := range elements {
		pairs[i].Key = element
	}

	return &flatSet[K]{m: maps.NewFlatMap(cmp, pairs...)}
}

// NewFlatSetFromSeq creates a set from a sequence of elements.
func NewFlatSetFromSeq[K any](cmp compare.Func[K], seq iter.Seq[K]) SortedSet[K] {
	return &flatSet[K]{m: maps.NewFlatMapFromSeq(cmp, marked(seq))}
}

// NewNaturalFlatSet creates a set over a built-in ordered element type.
func NewNaturalFlatSet[K cmp.Ordered](elements ...K) SortedSet[K] {
	return NewFlatSet(compare.Natural[K](), elements...)
}

// NewSortableFlatSet creates a set over a Sortable element type.
func NewSortableFlatSet[K sortable.Sortable[K]](elements ...K) SortedSet[K] {
	return NewFlatSet(sortable.Comparator[K](), elements...)
}

// NewRedBlackTreeSet creates an empty set stored in a red-black tree.
func NewRedBlackTreeSet[K any](cmp compare.Func[K]) SortedSet[K] {
	return &flatSet[K]{m: maps.NewRedBlackTreeMap[K, struct{}](cmp)}
}

// marked turns a sequence of elements into a sequence of set entries.
func marked[K any](seq iter.Seq[K]) iter.Seq2[K, struct{}] {
	if seq == nil {
		return nil
	}

	return func(yield func(K, struct{}) bool) {
		for element := range seq {
			if !yield(element, struct{}{}) {
				return
			}
		}
	}
}

func (s *flatSet[K]) Contains(element K) bool {
	return s.m.Contains(element)
}

func (s *flatSet[K]) Insert(element K) bool {
	return s.m.Insert(element, struct{}{}).Empty()
}

func (s *flatSet[K]) InsertAll(elements ...K) int {
	added := 0

	for _, element := range elements {
		if s.Insert(element) {
			added++
		}
	}

	return added
}

func (s *flatSet[K]) Remove(element K) bool {
	return s.m.Remove(element).NonEmpty()
}

func (s *flatSet[K]) Clear() {
	s.m.Clear()
}

func (s *flatSet[K]) Size() int {
	return s.m.Size()
}

func (s *flatSet[K]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *flatSet[K]) Seq() iter.Seq[K] {
	return s.m.Keys()
}

func (s *flatSet[K]) Range(r bound.Range[K]) iter.Seq[K] {
	return func(yield func(K) bool) {
		for element := range s.m.Range(r) {
			if !yield(element) {
				return
			}
		}
	}
}

func (s *flatSet[K]) First() optional.Value[K] {
	return optional.Map(s.m.First(), entryKey[K])
}

func (s *flatSet[K]) Last() optional.Value[K] {
	return optional.Map(s.m.Last(), entryKey[K])
}

func entryKey[K any](entry maps.KeyValuePair[K, struct{}]) K {
	return entry.Key
}

func (s *flatSet[K]) Entries() []K {
	out := make([]K, 0, s.m.Size())

	for element := range s.m.Keys() {
		out = append(out, element)
	}

	return out
}

func (s *flatSet[K]) Union(other SortedSet[K]) SortedSet[K] {
	return s.combine(other, mergeUnion)
}

func (s *flatSet[K]) Intersection(other SortedSet[K]) SortedSet[K] {
	return s.combine(other, mergeIntersection)
}

func (s *flatSet[K]) Difference(other SortedSet[K]) SortedSet[K] {
	return s.combine(other, mergeDifference)
}

// combine merges this set with other into a new flat set. The result is built
// in ascending order, so every insert lands on the append fast path.
func (s *flatSet[K]) combine(other SortedSet[K], mode mergeMode) SortedSet[K] {
	order := s.m.Comparator()
	left := s.Entries()

	var right []K
	if other != nil {
		right = ordered(other.Entries(), order)
	}

	out := maps.NewFlatMapWithCapacity[K, struct{}](order, len(left)+len(right))

	merge(left, right, order, mode, func(element K) {
		out.Insert(element, struct{}{})
	})

	return &flatSet[K]{m: out}
}

// ordered returns elements sorted by order. Sets with the same comparator
// already are, so the sort only runs for sets ordered some other way.
func ordered[K any](elements []K, order compare.Func[K]) []K {
	ascending := true

	for i := 1; i < len(elements) && ascending; i++ {
		ascending = order(elements[i-1], elements[i]) < 0
	}

	if ascending {
		return elements
	}

	slices.SortFunc(elements, order)

	return slices.CompactFunc(elements, func(a, b K) bool {
		return order(a, b) == 0
	})
}

func (s *flatSet[K]) Clone() SortedSet[K] {
	return &flatSet[K]{m: s.m.Clone()}
}

func (s *flatSet[K]) Comparator() compare.Func[K] {
	return s.m.Comparator()
}
