package maps

import (
	"iter"
	"slices"
	"sync"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
)

// NewThreadSafeMap wraps an existing MutableSortedMap with thread-safe access using sync.RWMutex.
//
// Lookups take the read lock, so any number of goroutines can query the map at
// once; Insert, Remove, Clear, Update, Extend and Retain take the write lock.
//
// Read-only iterators are served from a snapshot taken under the read lock, which
// means no lock is held while the caller's loop body runs and later writes are
// not visible to an iterator that is already running.
//
// SeqMut and ValuesMut yield pointers to the stored values and hold the write
// lock for the whole loop, so the loop body must not call back into this map.
// GetPtr returns a pointer to the stored value without keeping any lock:
// writing through it is only safe while no other goroutine uses the map. Use
// Update for a synchronized in-place change.
//
// Example usage:
//
//	m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap[string, int]())
//	m.Insert("key", 42) // thread-safe
func NewThreadSafeMap[K any, V any](m MutableSortedMap[K, V]) MutableSortedMap[K, V] {
	if m == nil {
		return nil
	}

	tsm, ok := m.(*threadSafeMap[K, V])
	if ok {
		// Already thread-safe, return as-is
		return tsm
	}

	return &threadSafeMap[K, V]{
		internal: m,
	}
}

// threadSafeMap is a decorator that wraps any MutableSortedMap implementation with thread-safe access.
type threadSafeMap[K any, V any] struct {
	mutex    sync.RWMutex           // Protects access to internal map
	internal MutableSortedMap[K, V] // Underlying map implementation
}

func (t *threadSafeMap[K, V]) Get(key K) (V, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Get(key)
}

func (t *threadSafeMap[K, V]) GetOrElse(key K, defaultValue V) V {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.GetOrElse(key, defaultValue)
}

func (t *threadSafeMap[K, V]) GetKeyValue(key K) optional.Value[KeyValuePair[K, V]] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.GetKeyValue(key)
}

// GetPtr returns a pointer to the stored value, or nil if the key is absent.
// The lock is released before returning; see NewThreadSafeMap.
func (t *threadSafeMap[K, V]) GetPtr(key K) *V {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.GetPtr(key)
}

// Update runs f on the stored value while holding the write lock. f must not
// call back into this map.
func (t *threadSafeMap[K, V]) Update(key K, f func(value *V)) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Update(key, f)
}

func (t *threadSafeMap[K, V]) Contains(key K) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Contains(key)
}

// Insert adds or replaces a value with exclusive lock protection.
func (t *threadSafeMap[K, V]) Insert(key K, value V) optional.Value[V] {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Insert(key, value)
}

// Remove deletes a key with exclusive lock protection.
func (t *threadSafeMap[K, V]) Remove(key K) optional.Value[V] {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.internal.Remove(key)
}

// Clear removes all entries from the map with exclusive lock protection.
func (t *threadSafeMap[K, V]) Clear() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.internal.Clear()
}

// Extend consumes seq before taking the write lock, so seq may safely read
// from this same map.
func (t *threadSafeMap[K, V]) Extend(seq iter.Seq2[K, V]) {
	added := collect(seq)

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.internal.Extend(func(yield func(K, V) bool) {
		for _, kv := range added {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	})
}

// Retain evaluates predicate against a snapshot without holding the lock, so
// predicate may read from this same map. The rejected keys are then removed
// under the write lock; entries added after the snapshot are kept.
func (t *threadSafeMap[K, V]) Retain(predicate func(key K, value V) bool) {
	var rejected []K

	for _, kv := range t.snapshot() {
		if !predicate(kv.Key, kv.Value) {
			rejected = append(rejected, kv.Key)
		}
	}

	if len(rejected) == 0 {
		return
	}

	order := t.internal.Comparator()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.internal.Retain(func(key K, _ V) bool {
		_, found := slices.BinarySearchFunc(rejected, key, order)

		return !found
	})
}

func (t *threadSafeMap[K, V]) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Size()
}

func (t *threadSafeMap[K, V]) IsEmpty() bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.IsEmpty()
}

func (t *threadSafeMap[K, V]) First() optional.Value[KeyValuePair[K, V]] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.First()
}

func (t *threadSafeMap[K, V]) Last() optional.Value[KeyValuePair[K, V]] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Last()
}

// snapshot copies every entry under the read lock.
func (t *threadSafeMap[K, V]) snapshot() []KeyValuePair[K, V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.internal.Entries()
}

// Entries returns an owned copy of every entry, taken under the read lock.
func (t *threadSafeMap[K, V]) Entries() []KeyValuePair[K, V] {
	return t.snapshot()
}

// Seq returns an iterator over a snapshot of the map.
//
// Implementation note: the snapshot is taken when Seq is called, so the read
// lock is never held while the caller's loop body runs. This trades O(n) memory
// for never blocking writers during a long iteration.
func (t *threadSafeMap[K, V]) Seq() iter.Seq2[K, V] {
	accum := t.snapshot()

	return func(yield func(K, V) bool) {
		for _, kv := range accum {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}

// SeqMut yields pointers to the stored values while holding the write lock.
// The loop body must not call back into this map.
func (t *threadSafeMap[K, V]) SeqMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		t.mutex.Lock()
		defer t.mutex.Unlock()

		for k, v := range t.internal.SeqMut() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Range returns an iterator over a snapshot of the entries within r.
func (t *threadSafeMap[K, V]) Range(r bound.Range[K]) iter.Seq2[K, V] {
	t.mutex.RLock()

	var accum []KeyValuePair[K, V]

	for key, val := range t.internal.Range(r) {
		accum = append(accum, KeyValuePair[K, V]{Key: key, Value: val})
	}

	t.mutex.RUnlock()

	return func(yield func(K, V) bool) {
		for _, kv := range accum {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}

func (t *threadSafeMap[K, V]) Keys() iter.Seq[K] {
	accum := t.snapshot()

	return func(yield func(K) bool) {
		for _, kv := range accum {
			if !yield(kv.Key) {
				return
			}
		}
	}
}

func (t *threadSafeMap[K, V]) Values() iter.Seq[V] {
	accum := t.snapshot()

	return func(yield func(V) bool) {
		for _, kv := range accum {
			if !yield(kv.Value) {
				return
			}
		}
	}
}

// ValuesMut yields pointers to the stored values while holding the write
// lock. The loop body must not call back into this map.
func (t *threadSafeMap[K, V]) ValuesMut() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		t.mutex.Lock()
		defer t.mutex.Unlock()

		for v := range t.internal.ValuesMut() {
			if !yield(v) {
				return
			}
		}
	}
}

// ForEach runs f over a snapshot, without holding the lock during callbacks.
func (t *threadSafeMap[K, V]) ForEach(f func(key K, value V)) {
	for _, kv := range t.snapshot() {
		f(kv.Key, kv.Value)
	}
}

// ForAll tests predicate against a snapshot of the map.
func (t *threadSafeMap[K, V]) ForAll(predicate func(key K, value V) bool) bool {
	for _, kv := range t.snapshot() {
		if !predicate(kv.Key, kv.Value) {
			return false
		}
	}

	return true
}

// Exists tests predicate against a snapshot of the map.
func (t *threadSafeMap[K, V]) Exists(predicate func(key K, value V) bool) bool {
	for _, kv := range t.snapshot() {
		if predicate(kv.Key, kv.Value) {
			return true
		}
	}

	return false
}

// FindFirst searches a snapshot of the map in ascending key order.
func (t *threadSafeMap[K, V]) FindFirst(predicate func(key K, value V) bool) optional.Value[KeyValuePair[K, V]] {
	for _, kv := range t.snapshot() {
		if predicate(kv.Key, kv.Value) {
			return optional.Some(kv)
		}
	}

	return optional.None[KeyValuePair[K, V]]()
}

func (t *threadSafeMap[K, V]) Comparator() compare.Func[K] {
	return t.internal.Comparator()
}

// Filter creates a new thread-safe map containing only key-value pairs for which the predicate returns true.
// Acquires a read lock on this map during the operation.
func (t *threadSafeMap[K, V]) Filter(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return NewThreadSafeMap(t.internal.Filter(predicate))
}

// FilterNot creates a new thread-safe map containing only key-value pairs for which the predicate returns false.
// Acquires a read lock on this map during the operation.
func (t *threadSafeMap[K, V]) FilterNot(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return NewThreadSafeMap(t.internal.FilterNot(predicate))
}

// Clone creates a copy of the map with its own independent lock.
func (t *threadSafeMap[K, V]) Clone() MutableSortedMap[K, V] {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return NewThreadSafeMap(t.internal.Clone())
}
