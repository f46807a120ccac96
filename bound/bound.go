// Package bound describes key ranges for ordered containers.
//
// A Range has a start and an end Bound. Each Bound is either Included (the
// key itself belongs to the range), Excluded (the range stops just short of
// the key) or Unbounded (the range is open on that side).
//
// Example:
//
//	m.Range(bound.HalfOpen(2, 8))  // 2 <= k < 8
//	m.Range(bound.Closed(2, 8))    // 2 <= k <= 8
//	m.Range(bound.GreaterThan(5))  // k > 5
//	m.Range(bound.Full[int]())     // every key
package bound

import "fmt"

// Kind identifies how a Bound treats its key.
type Kind uint8

const (
	// Unbounded means the range is open on this side; the key is ignored.
	Unbounded Kind = iota
	// Included means the key itself is part of the range.
	Included
	// Excluded means the key itself is not part of the range.
	Excluded
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case Unbounded:
		return "unbounded"
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "not recognized"
	}
}

// Bound is one end of a Range. The zero Bound is Unbounded.
type Bound[K any] struct {
	kind Kind
	key  K
}

// Include returns a Bound containing key.
func Include[K any](key K) Bound[K] {
	return Bound[K]{kind: Included, key: key}
}

// Exclude returns a Bound that stops short of key.
func Exclude[K any](key K) Bound[K] {
	return Bound[K]{kind: Excluded, key: key}
}

// Open returns an Unbounded Bound.
func Open[K any]() Bound[K] {
	return Bound[K]{kind: Unbounded}
}

// Kind reports whether the bound is Included, Excluded or Unbounded.
func (b Bound[K]) Kind() Kind {
	return b.kind
}

// Key returns the bound's key. The second result is false for Unbounded.
func (b Bound[K]) Key() (K, bool) {
	return b.key, b.kind != Unbounded
}

func (b Bound[K]) String() string {
	if b.kind == Unbounded {
		return b.kind.String()
	}

	return fmt.Sprintf("%s(%v)", b.kind, b.key)
}

// Range is a pair of bounds over keys. The zero Range covers every key.
type Range[K any] struct {
	Start Bound[K]
	End   Bound[K]
}

// New builds a Range from explicit bounds.
func New[K any](start, end Bound[K]) Range[K] {
	return Range[K]{Start: start, End: end}
}

// HalfOpen is the range start <= k < end.
func HalfOpen[K any](start, end K) Range[K] {
	return Range[K]{Start: Include(start), End: Exclude(end)}
}

// Closed is the range start <= k <= end.
func Closed[K any](start, end K) Range[K] {
	return Range[K]{Start: Include(start), End: Include(end)}
}

// AtLeast is the range k >= start.
func AtLeast[K any](start K) Range[K] {
	return Range[K]{Start: Include(start), End: Open[K]()}
}

// GreaterThan is the range k > start.
func GreaterThan[K any](start K) Range[K] {
	return Range[K]{Start: Exclude(start), End: Open[K]()}
}

// LessThan is the range k < end.
func LessThan[K any](end K) Range[K] {
	return Range[K]{Start: Open[K](), End: Exclude(end)}
}

// AtMost is the range k <= end.
func AtMost[K any](end K) Range[K] {
	return Range[K]{Start: Open[K](), End: Include(end)}
}

// Full is the range of every key.
func Full[K any]() Range[K] {
	return Range[K]{}
}

func (r Range[K]) String() string {
	return fmt.Sprintf("[%s, %s]", r.Start, r.End)
}
