package maps

import (
	"cmp"
	"iter"
	"slices"

	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/sortable"
)

// frozenFlatMap is an immutable flat map. It shares every lookup and iteration
// algorithm with flatMap, but its backing slice is allocated once, at its exact
// final size, and there is no way to change it afterwards.
type frozenFlatMap[K any, V any] struct {
	sortedEntries[K, V]
}

var _ SortedMap[sortable.Int, string] = (*frozenFlatMap[sortable.Int, string])(nil)

// NewFrozenFlatMap builds an immutable map from pairs using the same
// last-wins, ascending-key normalization as NewFlatMap.
func NewFrozenFlatMap[K any, V any](cmp compare.Func[K], pairs ...KeyValuePair[K, V]) SortedMap[K, V] {
	return newFrozenFlatMap(cmp, slices.Clone(pairs))
}

// NewFrozenFlatMapFromSeq builds an immutable map from a sequence of pairs.
func NewFrozenFlatMapFromSeq[K any, V any](cmp compare.Func[K], seq iter.Seq2[K, V]) SortedMap[K, V] {
	return newFrozenFlatMap(cmp, collect(seq))
}

// NewNaturalFrozenFlatMap builds an immutable map over a built-in ordered key type.
func NewNaturalFrozenFlatMap[K cmp.Ordered, V any](pairs ...KeyValuePair[K, V]) SortedMap[K, V] {
	return NewFrozenFlatMap(compare.Natural[K](), pairs...)
}

// NewSortableFrozenFlatMap builds an immutable map over a Sortable key type.
func NewSortableFrozenFlatMap[K sortable.Sortable[K], V any](pairs ...KeyValuePair[K, V]) SortedMap[K, V] {
	return NewFrozenFlatMap(sortable.Comparator[K](), pairs...)
}

// EmptyFrozenFlatMap returns an immutable map with no entries.
func EmptyFrozenFlatMap[K any, V any](cmp compare.Func[K]) SortedMap[K, V] {
	return &frozenFlatMap[K, V]{sortedEntries: sortedEntries[K, V]{cmp: cmp}}
}

// Freeze returns an immutable copy of m. Later changes to m are not visible
// through the copy.
func Freeze[K any, V any](m SortedMap[K, V]) SortedMap[K, V] {
	if m == nil {
		return nil
	}

	frozen, ok := m.(*frozenFlatMap[K, V])
	if ok {
		// Already immutable, return as-is
		return frozen
	}

	// m is already sorted and unique, only the exact-size copy is needed.
	items := make([]KeyValuePair[K, V], 0, m.Size())

	for key, value := range m.Seq() {
		items = append(items, KeyValuePair[K, V]{Key: key, Value: value})
	}

	return &frozenFlatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: items,
			cmp:   m.Comparator(),
		},
	}
}

// Thaw returns a mutable flat map holding a copy of m's entries.
func Thaw[K any, V any](m SortedMap[K, V]) MutableSortedMap[K, V] {
	if m == nil {
		return nil
	}

	return &flatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: m.Entries(),
			cmp:   m.Comparator(),
		},
	}
}

// newFrozenFlatMap takes ownership of items, normalizes them and moves the
// result into a slice whose capacity equals its length.
func newFrozenFlatMap[K any, V any](cmp compare.Func[K], items []KeyValuePair[K, V]) *frozenFlatMap[K, V] {
	items = normalize(items, cmp)

	if cap(items) != len(items) {
		exact := make([]KeyValuePair[K, V], len(items))
		copy(exact, items)
		items = exact
	}

	return &frozenFlatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: items,
			cmp:   cmp,
		},
	}
}
