// Package bench measures the ordered maps in package maps against each other.
//
// A Workload is generated once from a seed and replayed against every
// container, so the containers see exactly the same keys in the same order.
// The Runner executes one scenario per container on a worker pool, records
// timings in a Prometheus registry and cross-checks the containers' answers.
package bench

import (
	"encoding/binary"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/maps"
	"github.com/zeebo/xxh3"
)

// Streams used to derive independent values from the same seed.
const (
	streamInitial uint64 = iota + 1
	streamLookup
	streamMiss
	streamRange
	streamSpan
	streamInsert
	streamRemove
	streamValue
)

// Workload is the full, deterministic input of one benchmark run.
type Workload struct {
	Seed uint64

	// Initial holds the entries every container is built from. Keys repeat
	// occasionally, exercising the last-wins rule.
	Initial []maps.KeyValuePair[uint64, uint64]

	// Lookups are Get calls, roughly half of them for keys in Initial.
	Lookups []uint64

	// Ranges are range scans over the initial key space.
	Ranges []bound.Range[uint64]

	// Inserts are new entries added after the read phases.
	Inserts []maps.KeyValuePair[uint64, uint64]

	// Removes are keys deleted after the inserts, drawn from Initial.
	Removes []uint64
}

// mix hashes (seed, stream, i) into a 64-bit value. Equal inputs always give
// equal outputs, on every platform.
func mix(seed, stream, i uint64) uint64 {
	var buf [24]byte

	binary.LittleEndian.PutUint64(buf[0:8], seed)
	binary.LittleEndian.PutUint64(buf[8:16], stream)
	binary.LittleEndian.PutUint64(buf[16:24], i)

	return xxh3.Hash(buf[:])
}

// keySpace bounds generated keys so that a range scan covers a predictable
// share of the map: the initial keys land in [0, 4*size).
func keySpace(size int) uint64 {
	return uint64(max(size, 1)) * 4 //nolint:gosec // size is validated positive
}

// Generate builds a workload with size initial entries and ops operations per
// phase. The same arguments always produce the same workload.
func Generate(size, ops int, seed uint64) *Workload {
	space := keySpace(size)

	w := &Workload{
		Seed:    seed,
		Initial: make([]maps.KeyValuePair[uint64, uint64], size),
		Lookups: make([]uint64, ops),
		Ranges:  make([]bound.Range[uint64], ops),
		Inserts: make([]maps.KeyValuePair[uint64, uint64], ops),
		Removes: make([]uint64, ops),
	}

	for i := range w.Initial {
		idx := uint64(i) //nolint:gosec // non-negative loop index
		w.Initial[i] = maps.Pair(mix(seed, streamInitial, idx)%space, mix(seed, streamValue, idx))
	}

	for i := range ops {
		idx := uint64(i) //nolint:gosec // non-negative loop index

		if size > 0 && mix(seed, streamMiss, idx)%2 == 0 {
			w.Lookups[i] = w.Initial[mix(seed, streamLookup, idx)%uint64(size)].Key //nolint:gosec // size > 0
		} else {
			w.Lookups[i] = mix(seed, streamLookup, idx) % space
		}

		start := mix(seed, streamRange, idx) % space
		span := 1 + mix(seed, streamSpan, idx)%64
		w.Ranges[i] = bound.HalfOpen(start, start+span)

		w.Inserts[i] = maps.Pair(mix(seed, streamInsert, idx)%(space*2), idx)

		if size > 0 {
			w.Removes[i] = w.Initial[mix(seed, streamRemove, idx)%uint64(size)].Key //nolint:gosec // size > 0
		}
	}

	return w
}
