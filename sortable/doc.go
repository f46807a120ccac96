// Package sortable provides wrapper types for primitive types that implement
// the Sortable interface, enabling their use as keys in sorted data structures.
//
// # Overview
//
// The sortable package defines the [Sortable] interface and provides ready-to-use
// implementations for common primitive types: [Int], [Byte], [String] and
// [NaturalString]. These types work with the flat sorted-array collections
// (see [github.com/amp-labs/amp-flat/maps.NewSortableFlatMap] and
// [github.com/amp-labs/amp-flat/set.NewSortableFlatSet]).
//
// The Sortable interface extends [github.com/amp-labs/amp-flat/compare.Comparable]
// by adding a LessThan method. [Compare] turns any Sortable into the three-way
// [github.com/amp-labs/amp-flat/compare.Func] the containers are built on.
//
// # Usage
//
//	intSet := set.NewSortableFlatSet[sortable.Int]()
//	intSet.Insert(sortable.Int(42))
//	intSet.Insert(sortable.Int(10))
//	intSet.Insert(sortable.Int(25))
//
//	// Elements are returned in sorted order: 10, 25, 42
//	for val := range intSet.Seq() {
//	    fmt.Println(int(val))
//	}
//
// # Creating Custom Sortable Types
//
//	type Version struct {
//	    Major, Minor int
//	}
//
//	func (v Version) Equals(other Version) bool {
//	    return v == other
//	}
//
//	func (v Version) LessThan(other Version) bool {
//	    if v.Major != other.Major {
//	        return v.Major < other.Major
//	    }
//	    return v.Minor < other.Minor
//	}
//
// Equals and LessThan must agree with each other and describe a strict total
// order; the containers do not detect inconsistent implementations.
//
// When the key type is a built-in ordered type, prefer passing
// [github.com/amp-labs/amp-flat/compare.Natural] to the container constructors
// instead of wrapping every key.
package sortable
