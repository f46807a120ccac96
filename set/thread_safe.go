package set

import (
	"iter"
	"sync"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
)

// NewThreadSafeSet wraps an existing SortedSet implementation with thread-safe access using sync.RWMutex.
// It provides concurrent read/write access to the underlying set while preserving the SortedSet interface.
//
// Write operations (Insert, InsertAll, Remove, Clear) acquire exclusive locks, while read operations
// (Contains, Size, Entries, Seq, Range, Union, Intersection, Difference) use shared read locks.
//
// Example usage:
//
//	safeSet := set.NewThreadSafeSet(set.NewNaturalFlatSet[string]())
//	safeSet.Insert("element") // thread-safe
func NewThreadSafeSet[K any](s SortedSet[K]) SortedSet[K] {
	if s == nil {
		return nil
	}

	tss, ok := s.(*threadSafeSet[K])
	if ok {
		// Already thread-safe, return as-is
		return tss
	}

	return &threadSafeSet[K]{
		internal: s,
	}
}

// threadSafeSet is a decorator that wraps any SortedSet implementation with thread-safe access.
type threadSafeSet[K any] struct {
	mutex    sync.RWMutex // Protects access to internal set
	internal SortedSet[K] // Underlying set implementation
}

// InsertAll adds multiple elements to the set with exclusive lock protection.
func (t *threadSafeSet[K]) InsertAll(elements ...K) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.InsertAll(elements...)
}

// Insert adds a single element to the set with exclusive lock protection.
func (t *threadSafeSet[K]) Insert(element K) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Insert(element)
}

// Remove removes an element from the set with exclusive lock protection.
func (t *threadSafeSet[K]) Remove(element K) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Remove(element)
}

// Clear removes all elements from the set with exclusive lock protection.
func (t *threadSafeSet[K]) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.internal.Clear()
}

func (t *threadSafeSet[K]) Contains(element K) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Contains(element)
}

func (t *threadSafeSet[K]) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Size()
}

func (t *threadSafeSet[K]) IsEmpty() bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.IsEmpty()
}

func (t *threadSafeSet[K]) First() optional.Value[K] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.First()
}

func (t *threadSafeSet[K]) Last() optional.Value[K] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Last()
}

// Entries returns all elements in the set with shared read lock protection.
func (t *threadSafeSet[K]) Entries() []K {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Entries()
}

// Seq returns an iterator over the set's elements with snapshot semantics.
// The read lock is held only while the snapshot is taken, so changes made
// after Seq is called are not visible to the iterator.
func (t *threadSafeSet[K]) Seq() iter.Seq[K] {
	return over(t.Entries())
}

// Range returns an iterator over a snapshot of the elements within r.
func (t *threadSafeSet[K]) Range(r bound.Range[K]) iter.Seq[K] {
	t.mutex.RLock()

	var accum []K
	for element := range t.internal.Range(r) {
		accum = append(accum, element)
	}

	t.mutex.RUnlock()

	return over(accum)
}

func over[K any](accum []K) iter.Seq[K] {
	return func(yield func(K) bool) {
		for _, element := range accum {
			if !yield(element) {
				return
			}
		}
	}
}

// snapshot copies the underlying set under the read lock. Set algebra runs
// on the copy, so the lock is released before other is read and a set can be
// combined with itself.
func (t *threadSafeSet[K]) snapshot() SortedSet[K] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Clone()
}

// Union creates a new thread-safe set containing all elements from both this set and another.
func (t *threadSafeSet[K]) Union(other SortedSet[K]) SortedSet[K] {
	return NewThreadSafeSet(t.snapshot().Union(other))
}

// Intersection creates a new thread-safe set containing only elements present in both sets.
func (t *threadSafeSet[K]) Intersection(other SortedSet[K]) SortedSet[K] {
	return NewThreadSafeSet(t.snapshot().Intersection(other))
}

// Difference creates a new thread-safe set containing the elements of this set that are not in other.
func (t *threadSafeSet[K]) Difference(other SortedSet[K]) SortedSet[K] {
	return NewThreadSafeSet(t.snapshot().Difference(other))
}

// Clone creates a copy of the set with its own independent lock.
func (t *threadSafeSet[K]) Clone() SortedSet[K] {
	return NewThreadSafeSet(t.snapshot())
}

func (t *threadSafeSet[K]) Comparator() compare.Func[K] {
	return t.internal.Comparator()
}
