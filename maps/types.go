package maps

import (
	"iter"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
)

// KeyValuePair is a generic key-value pair struct used to represent entries in maps.
// It is the element type of the flat maps' backing slice, the input of every
// constructor, and the result of snapshot and lookup methods.
//
// Example:
//
//	m := maps.NewNaturalFlatMap(
//	    maps.KeyValuePair[int, string]{Key: 1, Value: "one"},
//	    maps.KeyValuePair[int, string]{Key: 2, Value: "two"},
//	)
type KeyValuePair[K any, V any] struct {
	Key   K
	Value V
}

// Pair is shorthand for building a KeyValuePair.
func Pair[K any, V any](key K, value V) KeyValuePair[K, V] {
	return KeyValuePair[K, V]{Key: key, Value: value}
}

// SortedMap is the read-only view of a map whose entries are kept in ascending
// key order. Every iterator yields entries in that order.
//
// Iterators returned by a SortedMap borrow from the map's storage. They are
// only valid while the map is not structurally modified (a new key inserted,
// a key removed, or the map cleared). A fresh call always produces a fresh,
// independent iterator.
//
// Thread-safety: Implementations are not guaranteed to be thread-safe unless
// explicitly documented. Concurrent access must be synchronized by the caller.
//
//nolint:interfacebloat // SortedMap intentionally mirrors the full read surface
type SortedMap[K any, V any] interface {
	// Get retrieves the value for the given key. If the key doesn't exist,
	// returns a zero value with found=false.
	Get(key K) (value V, found bool)

	// GetOrElse retrieves the value for the given key, or returns defaultValue if the key doesn't exist.
	GetOrElse(key K, defaultValue V) V

	// GetKeyValue returns the stored key and its value, or None when the key is absent.
	// The stored key can differ from the argument when the comparator treats
	// distinct values as equivalent.
	GetKeyValue(key K) optional.Value[KeyValuePair[K, V]]

	// Contains reports whether the key exists in the map.
	Contains(key K) bool

	// Range returns the entries whose keys fall within r, in ascending key order.
	Range(r bound.Range[K]) iter.Seq2[K, V]

	// Size returns the number of key-value pairs currently stored in the map.
	Size() int

	// IsEmpty reports whether the map has no entries.
	IsEmpty() bool

	// First returns the entry with the smallest key, or None for an empty map.
	First() optional.Value[KeyValuePair[K, V]]

	// Last returns the entry with the largest key, or None for an empty map.
	Last() optional.Value[KeyValuePair[K, V]]

	// Seq returns an iterator for ranging over all key-value pairs in ascending key order.
	// for key, value := range m.Seq() { ... }
	Seq() iter.Seq2[K, V]

	// Keys returns an iterator over the keys in ascending order.
	Keys() iter.Seq[K]

	// Values returns an iterator over the values in ascending key order.
	Values() iter.Seq[V]

	// Entries returns an owned copy of every entry in ascending key order.
	// Unlike the iterators, the result stays valid across later mutations.
	Entries() []KeyValuePair[K, V]

	// ForEach applies the given function to each key-value pair in ascending key order.
	ForEach(f func(key K, value V))

	// ForAll tests whether a predicate holds for all key-value pairs in the map.
	// Returns true for an empty map.
	ForAll(predicate func(key K, value V) bool) bool

	// Exists tests whether at least one key-value pair in the map satisfies the given predicate.
	Exists(predicate func(key K, value V) bool) bool

	// FindFirst returns the first key-value pair, in ascending key order, that
	// satisfies the given predicate.
	FindFirst(predicate func(key K, value V) bool) optional.Value[KeyValuePair[K, V]]

	// Comparator returns the key ordering the map was built with.
	Comparator() compare.Func[K]
}

// MutableSortedMap is a SortedMap that can be modified in place.
//
// Pointers handed out by GetPtr, SeqMut and ValuesMut refer to the value only,
// never to the key, so they cannot break the ordering. Like iterators, they
// are invalidated by the next structural modification.
//
//nolint:interfacebloat // MutableSortedMap intentionally has a large cohesive API
type MutableSortedMap[K any, V any] interface {
	SortedMap[K, V]

	// Insert adds or replaces the value for key. It returns the previous value
	// when the key was already present, and None otherwise.
	Insert(key K, value V) optional.Value[V]

	// Remove deletes the entry for key and returns its value, or None if the
	// key was absent (in which case the map is unchanged).
	Remove(key K) optional.Value[V]

	// Clear removes all key-value pairs from the map and releases its storage.
	Clear()

	// GetPtr returns a pointer to the value stored for key, or nil if absent.
	GetPtr(key K) *V

	// Update calls f with a pointer to the value stored for key and reports
	// whether the key was present. f is not called for an absent key.
	Update(key K, f func(value *V)) bool

	// SeqMut is like Seq but yields a pointer to each value so it can be updated in place.
	SeqMut() iter.Seq2[K, *V]

	// ValuesMut yields a pointer to each value in ascending key order.
	ValuesMut() iter.Seq[*V]

	// Extend inserts every pair of seq. When seq repeats a key, its last
	// occurrence wins; pairs from seq replace existing values.
	Extend(seq iter.Seq2[K, V])

	// Retain keeps only the entries for which predicate returns true.
	Retain(predicate func(key K, value V) bool)

	// Filter creates a new map containing only key-value pairs for which the predicate returns true.
	Filter(predicate func(key K, value V) bool) MutableSortedMap[K, V]

	// FilterNot creates a new map containing only key-value pairs for which the predicate returns false.
	FilterNot(predicate func(key K, value V) bool) MutableSortedMap[K, V]

	// Clone creates a shallow copy of the map. Keys and values are not deep-copied.
	Clone() MutableSortedMap[K, V]
}
