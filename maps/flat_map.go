// Package maps provides ordered map implementations. This file contains
// flatMap, a mutable map backed by a single slice of entries kept sorted by
// key.
//
// Compared with a tree, a flat map stores no per-entry pointers and iterates
// over contiguous memory, which makes lookups and range scans cache friendly.
// The price is linear-time insertion and removal in the middle of the map:
//
//	| operation | average  | worst    | best     |
//	|-----------|----------|----------|----------|
//	| lookup    | O(log n) | O(log n) | O(log n) |
//	| insert    | O(n)     | O(n)     | O(1)     |
//	| remove    | O(n)     | O(n)     | O(1)     |
//
// Insert and remove run in O(1) (amortized for insert) when they touch the
// largest key, so building a map from keys that arrive in ascending order is
// cheap.
package maps

import (
	"cmp"
	"iter"
	"slices"

	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/amp-labs/amp-flat/sortable"
)

// flatMap is the MutableSortedMap implementation backed by a sorted slice.
type flatMap[K any, V any] struct {
	sortedEntries[K, V]
}

var _ MutableSortedMap[sortable.Int, string] = (*flatMap[sortable.Int, string])(nil)

// NewFlatMap creates a flat map ordered by cmp and filled with pairs.
// pairs is copied, so callers may reuse the slice afterwards. When pairs
// repeats a key, the pair that appears last wins; the map itself is always in
// ascending key order regardless of the input order.
//
// cmp must be a strict total order and must not be nil.
//
// Example:
//
//	m := maps.NewFlatMap(compare.Natural[int](),
//	    maps.Pair(3, "c"), maps.Pair(1, "a"), maps.Pair(1, "b"))
//	// m iterates as (1, "b"), (3, "c")
func NewFlatMap[K any, V any](cmp compare.Func[K], pairs ...KeyValuePair[K, V]) MutableSortedMap[K, V] {
	return newFlatMap(cmp, slices.Clone(pairs))
}

// NewFlatMapWithCapacity creates an empty flat map whose backing slice can hold
// capacity entries before it has to grow.
func NewFlatMapWithCapacity[K any, V any](cmp compare.Func[K], capacity int) MutableSortedMap[K, V] {
	return &flatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: make([]KeyValuePair[K, V], 0, max(capacity, 0)),
			cmp:   cmp,
		},
	}
}

// NewFlatMapFromSeq creates a flat map from a sequence of pairs, with the same
// last-wins rule as NewFlatMap.
func NewFlatMapFromSeq[K any, V any](cmp compare.Func[K], seq iter.Seq2[K, V]) MutableSortedMap[K, V] {
	return newFlatMap(cmp, collect(seq))
}

// NewFlatMapFromMap creates a flat map holding every entry of a Go map.
func NewFlatMapFromMap[K comparable, V any](cmp compare.Func[K], m map[K]V) MutableSortedMap[K, V] {
	items := make([]KeyValuePair[K, V], 0, len(m))

	for key, value := range m {
		items = append(items, KeyValuePair[K, V]{Key: key, Value: value})
	}

	return newFlatMap(cmp, items)
}

// NewNaturalFlatMap creates a flat map over a built-in ordered key type, using
// the key type's natural ordering.
func NewNaturalFlatMap[K cmp.Ordered, V any](pairs ...KeyValuePair[K, V]) MutableSortedMap[K, V] {
	return NewFlatMap(compare.Natural[K](), pairs...)
}

// NewSortableFlatMap creates a flat map over a Sortable key type.
func NewSortableFlatMap[K sortable.Sortable[K], V any](pairs ...KeyValuePair[K, V]) MutableSortedMap[K, V] {
	return NewFlatMap(sortable.Comparator[K](), pairs...)
}

// newFlatMap takes ownership of items and normalizes them.
func newFlatMap[K any, V any](cmp compare.Func[K], items []KeyValuePair[K, V]) *flatMap[K, V] {
	return &flatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: normalize(items, cmp),
			cmp:   cmp,
		},
	}
}

// Insert adds or replaces the value for key.
//
// A key larger than the current maximum is appended, and a key equal to the
// current maximum has its value replaced, both without searching. Any other
// key is binary-searched: an existing entry is overwritten in place, a new one
// is inserted by shifting the larger entries one slot to the right.
func (m *flatMap[K, V]) Insert(key K, value V) optional.Value[V] {
	if n := len(m.items); n > 0 {
		last := &m.items[n-1]

		switch c := m.cmp(last.Key, key); {
		case c < 0:
			m.items = append(m.items, KeyValuePair[K, V]{Key: key, Value: value})

			return optional.None[V]()
		case c == 0:
			previous := last.Value
			last.Value = value

			return optional.Some(previous)
		}
	}

	idx, found := search(m.items, key, m.cmp)
	if found {
		previous := m.items[idx].Value
		m.items[idx].Value = value

		return optional.Some(previous)
	}

	m.items = slices.Insert(m.items, idx, KeyValuePair[K, V]{Key: key, Value: value})

	return optional.None[V]()
}

// Remove deletes the entry for key. Removing the largest key pops it off the
// end of the slice; a key larger than every stored key returns immediately.
// Other keys are binary-searched and removed by shifting the larger entries
// one slot to the left.
func (m *flatMap[K, V]) Remove(key K) optional.Value[V] {
	if n := len(m.items); n > 0 {
		switch c := m.cmp(m.items[n-1].Key, key); {
		case c < 0:
			return optional.None[V]()
		case c == 0:
			removed := m.items[n-1].Value

			// Clear the vacated slot so the backing array doesn't pin the entry.
			m.items[n-1] = KeyValuePair[K, V]{}
			m.items = m.items[:n-1]

			return optional.Some(removed)
		}
	}

	idx, found := search(m.items, key, m.cmp)
	if !found {
		return optional.None[V]()
	}

	removed := m.items[idx].Value
	m.items = slices.Delete(m.items, idx, idx+1)

	return optional.Some(removed)
}

// Clear removes all entries and drops the backing slice.
func (m *flatMap[K, V]) Clear() {
	m.items = nil
}

func (m *flatMap[K, V]) GetPtr(key K) *V {
	idx, found := search(m.items, key, m.cmp)
	if !found {
		return nil
	}

	return &m.items[idx].Value
}

func (m *flatMap[K, V]) Update(key K, f func(value *V)) bool {
	ptr := m.GetPtr(key)
	if ptr == nil {
		return false
	}

	f(ptr)

	return true
}

func (m *flatMap[K, V]) SeqMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for i := range m.items {
			if !yield(m.items[i].Key, &m.items[i].Value) {
				return
			}
		}
	}
}

func (m *flatMap[K, V]) ValuesMut() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for i := range m.items {
			if !yield(&m.items[i].Value) {
				return
			}
		}
	}
}

// Extend merges seq into the map. The existing entries and the new pairs go
// through the same normalization as construction, with the new pairs last so
// that they win.
func (m *flatMap[K, V]) Extend(seq iter.Seq2[K, V]) {
	added := collect(seq)
	if len(added) == 0 {
		return
	}

	merged := make([]KeyValuePair[K, V], 0, len(m.items)+len(added))
	merged = append(merged, m.items...)
	merged = append(merged, added...)

	m.items = normalize(merged, m.cmp)
}

// Retain removes, in place, every entry for which predicate returns false.
func (m *flatMap[K, V]) Retain(predicate func(key K, value V) bool) {
	m.items = slices.DeleteFunc(m.items, func(entry KeyValuePair[K, V]) bool {
		return !predicate(entry.Key, entry.Value)
	})
}

func (m *flatMap[K, V]) Filter(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	return m.filter(predicate, true)
}

func (m *flatMap[K, V]) FilterNot(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	return m.filter(predicate, false)
}

// filter copies the entries whose predicate result equals keep. The source is
// already sorted and unique, so the copy needs no normalization.
func (m *flatMap[K, V]) filter(predicate func(key K, value V) bool, keep bool) *flatMap[K, V] {
	out := &flatMap[K, V]{sortedEntries: sortedEntries[K, V]{cmp: m.cmp}}

	for _, entry := range m.items {
		if predicate(entry.Key, entry.Value) == keep {
			out.items = append(out.items, entry)
		}
	}

	return out
}

func (m *flatMap[K, V]) Clone() MutableSortedMap[K, V] {
	return &flatMap[K, V]{
		sortedEntries: sortedEntries[K, V]{
			items: slices.Clone(m.items),
			cmp:   m.cmp,
		},
	}
}
