// Package set provides ordered sets built on the sorted maps in package maps.
//
// A set is a map whose values carry no information: every element is stored
// as a key with an empty struct as its value, so a set shares the map's
// ordering, lookup and range semantics exactly.
package set

import (
	"iter"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
)

// SortedSet is a collection of unique elements kept in ascending order, as
// defined by the set's comparator. Two elements are the same element when the
// comparator returns 0 for them.
//
// Thread-safety: Implementations are not guaranteed to be thread-safe unless
// explicitly documented. Use NewThreadSafeSet for concurrent access.
//
//nolint:interfacebloat // mirrors the map surface
type SortedSet[K any] interface {
	// Contains reports whether element is in the set.
	Contains(element K) bool

	// Insert adds element. It returns true if the element was not already present.
	Insert(element K) bool

	// InsertAll adds every element and returns how many of them were new.
	InsertAll(elements ...K) int

	// Remove deletes element. It returns true if the element was present.
	Remove(element K) bool

	// Clear removes all elements.
	Clear()

	// Size returns the number of elements in the set.
	Size() int

	// IsEmpty reports whether the set has no elements.
	IsEmpty() bool

	// Seq returns an iterator over the elements in ascending order.
	Seq() iter.Seq[K]

	// Range returns the elements within r in ascending order.
	Range(r bound.Range[K]) iter.Seq[K]

	// First returns the smallest element, or None when the set is empty.
	First() optional.Value[K]

	// Last returns the largest element, or None when the set is empty.
	Last() optional.Value[K]

	// Entries returns the elements as a new slice in ascending order.
	Entries() []K

	// Union returns a new set with the elements of both sets.
	Union(other SortedSet[K]) SortedSet[K]

	// Intersection returns a new set with the elements present in both sets.
	Intersection(other SortedSet[K]) SortedSet[K]

	// Difference returns a new set with the elements of this set that are not in other.
	Difference(other SortedSet[K]) SortedSet[K]

	// Clone returns an independent copy of the set.
	Clone() SortedSet[K]

	// Comparator returns the function that orders the set.
	Comparator() compare.Func[K]
}

// mergeMode selects which elements a sorted merge keeps.
type mergeMode int

const (
	mergeUnion mergeMode = iota
	mergeIntersection
	mergeDifference
)

// merge walks two ascending, duplicate-free slices in lockstep and emits the
// elements selected by mode, in ascending order. When both sides hold the same
// element, the one from left is emitted.
func merge[K any](left, right []K, cmp compare.Func[K], mode mergeMode, emit func(K)) {
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		switch c := cmp(left[i], right[j]); {
		case c < 0:
			if mode != mergeIntersection {
				emit(left[i])
			}

			i++
		case c > 0:
			if mode == mergeUnion {
				emit(right[j])
			}

			j++
		default:
			if mode != mergeDifference {
				emit(left[i])
			}

			i++
			j++
		}
	}

	if mode != mergeIntersection {
		for ; i < len(left); i++ {
			emit(left[i])
		}
	}

	if mode == mergeUnion {
		for ; j < len(right); j++ {
			emit(right[j])
		}
	}
}
