package maps_test

import (
	"sync"
	"testing"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/maps"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewThreadSafeMap(t *testing.T) {
	t.Parallel()

	t.Run("wraps existing map", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1)...))
		require.NotNil(t, m)
		assert.Equal(t, 1, m.Size())
	})

	t.Run("nil returns nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, maps.NewThreadSafeMap[int, int](nil))
	})

	t.Run("already wrapped map is returned as-is", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap[int, int]())
		assert.Same(t, m, maps.NewThreadSafeMap(m))
	})
}

func TestThreadSafeMap_Operations(t *testing.T) {
	t.Parallel()

	m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap[int, int]())

	assert.True(t, m.Insert(3, 30).Empty())
	assert.True(t, m.Insert(1, 10).Empty())
	assert.Equal(t, optional.Some(30), m.Insert(3, 300))
	assert.True(t, m.Insert(2, 20).Empty())

	assert.True(t, m.Contains(2))
	assert.Equal(t, 300, m.GetOrElse(3, 0))
	assert.Equal(t, optional.Some(maps.Pair(1, 10)), m.First())
	assert.Equal(t, optional.Some(maps.Pair(3, 300)), m.Last())
	assert.Equal(t, optional.Some(maps.Pair(2, 20)), m.GetKeyValue(2))

	var keys []int
	for k := range m.Range(bound.AtLeast(2)) {
		keys = append(keys, k)
	}

	assert.Equal(t, []int{2, 3}, keys)

	assert.Equal(t, optional.Some(10), m.Remove(1))
	assert.Equal(t, intPairs(2, 20, 3, 300), m.Entries())

	even := func(k, _ int) bool { return k%2 == 0 }

	assert.True(t, m.Exists(even))
	assert.False(t, m.ForAll(even))
	assert.Equal(t, optional.Some(maps.Pair(2, 20)), m.FindFirst(even))
	assert.Equal(t, intPairs(2, 20), m.Filter(even).Entries())
	assert.Equal(t, intPairs(3, 300), m.FilterNot(even).Entries())

	m.Clear()
	assert.True(t, m.IsEmpty())
}

func TestThreadSafeMap_Snapshots(t *testing.T) {
	t.Parallel()

	t.Run("iterator does not see later writes", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1, 2, 2)...))

		var keys []int

		for k := range m.Seq() {
			keys = append(keys, k)
			m.Insert(k+10, 0)
		}

		assert.Equal(t, []int{1, 2}, keys)
		assert.Equal(t, 4, m.Size())
	})

	t.Run("pointers write through", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 10, 2, 20)...))

		ptr := m.GetPtr(1)
		require.NotNil(t, ptr)

		*ptr = 99

		val, _ := m.Get(1)
		assert.Equal(t, 99, val)
		assert.Nil(t, m.GetPtr(3))

		for v := range m.ValuesMut() {
			*v++
		}

		assert.Equal(t, intPairs(1, 100, 2, 21), m.Entries())

		for k, v := range m.SeqMut() {
			*v = k * 1000
		}

		assert.Equal(t, intPairs(1, 1000, 2, 2000), m.Entries())
	})

	t.Run("mutable iteration blocks writers until the loop ends", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1, 2, 2)...))

		inLoop := make(chan struct{})
		inserted := make(chan struct{})

		for v := range m.ValuesMut() {
			if *v == 1 {
				go func() {
					close(inLoop)
					m.Insert(3, 3)
					close(inserted)
				}()

				<-inLoop
			}

			select {
			case <-inserted:
				t.Fatal("insert completed while the write lock was held")
			default:
			}

			*v *= 10
		}

		<-inserted
		assert.Equal(t, intPairs(1, 10, 2, 20, 3, 3), m.Entries())
	})

	t.Run("update", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1)...))

		assert.True(t, m.Update(1, func(v *int) { *v += 41 }))
		assert.False(t, m.Update(2, func(*int) { t.Fatal("called for an absent key") }))

		val, _ := m.Get(1)
		assert.Equal(t, 42, val)
	})

	t.Run("retain may read from the same map", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1, 2, 2, 3, 3, 4, 4)...))

		m.Retain(func(k, _ int) bool {
			// keep keys whose successor is present
			return m.Contains(k + 1)
		})

		assert.Equal(t, intPairs(1, 1, 2, 2, 3, 3), m.Entries())

		m.Retain(func(int, int) bool { return true })
		assert.Equal(t, 3, m.Size())
	})

	t.Run("extend may read from the same map", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1, 2, 2)...))
		m.Extend(func(yield func(int, int) bool) {
			for k, v := range m.Seq() {
				if !yield(k+2, v*10) {
					return
				}
			}
		})

		assert.Equal(t, intPairs(1, 1, 2, 2, 3, 10, 4, 20), m.Entries())
	})

	t.Run("clone is independent and wrapped", func(t *testing.T) {
		t.Parallel()

		m := maps.NewThreadSafeMap(maps.NewNaturalFlatMap(intPairs(1, 1)...))
		c := m.Clone()
		c.Insert(2, 2)

		assert.Equal(t, 1, m.Size())
		assert.Same(t, c, maps.NewThreadSafeMap(c))
	})
}

func TestThreadSafeMap_Concurrent(t *testing.T) {
	t.Parallel()

	const (
		writers = 8
		perG    = 250
	)

	for _, tc := range []struct {
		name string
		m    maps.MutableSortedMap[int, int]
	}{
		{name: "flat map", m: maps.NewThreadSafeMap(maps.NewNaturalFlatMap[int, int]())},
		{name: "red-black tree", m: maps.NewThreadSafeMap(maps.NewNaturalRedBlackTreeMap[int, int]())},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var wg sync.WaitGroup

			for g := range writers {
				wg.Add(2)

				go func() {
					defer wg.Done()

					for i := range perG {
						tc.m.Insert(g*perG+i, i)
					}
				}()

				go func() {
					defer wg.Done()

					for i := range perG {
						tc.m.Contains(i)

						for range tc.m.Range(bound.HalfOpen(i, i+10)) {
							_ = i
						}
					}
				}()
			}

			wg.Wait()

			assert.Equal(t, writers*perG, tc.m.Size())
			requireStrictlyAscending(t, tc.m)

			for g := range writers {
				wg.Add(1)

				go func() {
					defer wg.Done()

					for i := range perG {
						tc.m.Remove(g*perG + i)
					}
				}()
			}

			wg.Wait()

			assert.True(t, tc.m.IsEmpty())
		})
	}
}

func TestThreadSafeMap_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	const (
		workers = 8
		perG    = 500
	)

	m := maps.NewThreadSafeMap(maps.NewNaturalRedBlackTreeMap[string, int]())
	m.Insert("hits", 0)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range perG {
				m.Update("hits", func(v *int) { *v++ })
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, workers*perG, m.GetOrElse("hits", 0))
}
