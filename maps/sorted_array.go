package maps

import (
	"iter"
	"slices"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/amp-labs/amp-flat/zero"
)

// normalize turns an arbitrary list of pairs into the canonical backing slice:
// ascending by key with no duplicate keys. When a key occurs more than once,
// the occurrence that comes last in items is kept.
//
// The input is reversed so that the last occurrence of each key becomes the
// first one, stable-sorted so equal keys keep that order, and compacted so
// only the first of each run survives. items is modified in place.
func normalize[K any, V any](items []KeyValuePair[K, V], cmp compare.Func[K]) []KeyValuePair[K, V] {
	if isStrictlyAscending(items, cmp) {
		return items
	}

	slices.Reverse(items)

	slices.SortStableFunc(items, func(a, b KeyValuePair[K, V]) int {
		return cmp(a.Key, b.Key)
	})

	return slices.CompactFunc(items, func(a, b KeyValuePair[K, V]) bool {
		return cmp(a.Key, b.Key) == 0
	})
}

// isStrictlyAscending reports whether items already satisfy the container
// invariant, so already-sorted input skips the sort entirely.
func isStrictlyAscending[K any, V any](items []KeyValuePair[K, V], cmp compare.Func[K]) bool {
	for i := 1; i < len(items); i++ {
		if cmp(items[i-1].Key, items[i].Key) >= 0 {
			return false
		}
	}

	return true
}

// search returns the index of key in items and true, or the index at which
// key would have to be inserted to keep items sorted and false.
func search[K any, V any](items []KeyValuePair[K, V], key K, cmp compare.Func[K]) (int, bool) {
	return slices.BinarySearchFunc(items, key, func(entry KeyValuePair[K, V], target K) int {
		return cmp(entry.Key, target)
	})
}

// resolve converts a key range into the half-open index interval [start, end)
// of items it covers. An inverted range resolves to an empty interval.
func resolve[K any, V any](items []KeyValuePair[K, V], r bound.Range[K], cmp compare.Func[K]) (int, int) {
	start := 0

	switch r.Start.Kind() {
	case bound.Included:
		key, _ := r.Start.Key()
		start, _ = search(items, key, cmp)
	case bound.Excluded:
		key, _ := r.Start.Key()

		idx, found := search(items, key, cmp)
		if found {
			idx++
		}

		start = idx
	case bound.Unbounded:
	}

	end := len(items)

	switch r.End.Kind() {
	case bound.Included:
		key, _ := r.End.Key()

		idx, found := search(items, key, cmp)
		if found {
			idx++
		}

		end = idx
	case bound.Excluded:
		key, _ := r.End.Key()
		end, _ = search(items, key, cmp)
	case bound.Unbounded:
	}

	if end < start {
		end = start
	}

	return start, end
}

// sortedEntries is the read side shared by the flat containers: a slice kept
// in ascending key order plus the comparator that defines that order.
type sortedEntries[K any, V any] struct {
	items []KeyValuePair[K, V]
	cmp   compare.Func[K]
}

func (s *sortedEntries[K, V]) Get(key K) (V, bool) {
	idx, found := search(s.items, key, s.cmp)
	if !found {
		return zero.Value[V](), false
	}

	return s.items[idx].Value, true
}

func (s *sortedEntries[K, V]) GetOrElse(key K, defaultValue V) V {
	value, found := s.Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func (s *sortedEntries[K, V]) GetKeyValue(key K) optional.Value[KeyValuePair[K, V]] {
	idx, found := search(s.items, key, s.cmp)
	if !found {
		return optional.None[KeyValuePair[K, V]]()
	}

	return optional.Some(s.items[idx])
}

func (s *sortedEntries[K, V]) Contains(key K) bool {
	_, found := search(s.items, key, s.cmp)

	return found
}

// Range resolves r against the entries each time the iterator is started, and
// walks the covered slice directly without copying it.
func (s *sortedEntries[K, V]) Range(r bound.Range[K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		start, end := resolve(s.items, r, s.cmp)

		for _, entry := range s.items[start:end] {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

func (s *sortedEntries[K, V]) Size() int {
	return len(s.items)
}

func (s *sortedEntries[K, V]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *sortedEntries[K, V]) First() optional.Value[KeyValuePair[K, V]] {
	if len(s.items) == 0 {
		return optional.None[KeyValuePair[K, V]]()
	}

	return optional.Some(s.items[0])
}

func (s *sortedEntries[K, V]) Last() optional.Value[KeyValuePair[K, V]] {
	if len(s.items) == 0 {
		return optional.None[KeyValuePair[K, V]]()
	}

	return optional.Some(s.items[len(s.items)-1])
}

func (s *sortedEntries[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, entry := range s.items {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

func (s *sortedEntries[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, entry := range s.items {
			if !yield(entry.Key) {
				return
			}
		}
	}
}

func (s *sortedEntries[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, entry := range s.items {
			if !yield(entry.Value) {
				return
			}
		}
	}
}

func (s *sortedEntries[K, V]) Entries() []KeyValuePair[K, V] {
	return slices.Clone(s.items)
}

func (s *sortedEntries[K, V]) ForEach(f func(key K, value V)) {
	for _, entry := range s.items {
		f(entry.Key, entry.Value)
	}
}

func (s *sortedEntries[K, V]) ForAll(predicate func(key K, value V) bool) bool {
	for _, entry := range s.items {
		if !predicate(entry.Key, entry.Value) {
			return false
		}
	}

	return true
}

func (s *sortedEntries[K, V]) Exists(predicate func(key K, value V) bool) bool {
	return slices.ContainsFunc(s.items, func(entry KeyValuePair[K, V]) bool {
		return predicate(entry.Key, entry.Value)
	})
}

func (s *sortedEntries[K, V]) FindFirst(predicate func(key K, value V) bool) optional.Value[KeyValuePair[K, V]] {
	for _, entry := range s.items {
		if predicate(entry.Key, entry.Value) {
			return optional.Some(entry)
		}
	}

	return optional.None[KeyValuePair[K, V]]()
}

func (s *sortedEntries[K, V]) Comparator() compare.Func[K] {
	return s.cmp
}

// collect drains a sequence of pairs into a fresh slice.
func collect[K any, V any](seq iter.Seq2[K, V]) []KeyValuePair[K, V] {
	var items []KeyValuePair[K, V]

	if seq == nil {
		return items
	}

	for key, value := range seq {
		items = append(items, KeyValuePair[K, V]{Key: key, Value: value})
	}

	return items
}
