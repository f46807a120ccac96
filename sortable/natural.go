package sortable

import (
	"cmp"

	"facette.io/natsort"
	"github.com/amp-labs/amp-flat/compare"
)

// NaturalString is a string key ordered by natural sort order: runs of digits
// compare numerically, so "file2" sorts before "file10".
//
// Example:
//
//	s := set.NewSortableFlatSet[sortable.NaturalString]("v10", "v2", "v1")
//	// Iterating yields: "v1", "v2", "v10"
type NaturalString string

var _ Sortable[NaturalString] = (*NaturalString)(nil)

func (s NaturalString) Equals(other NaturalString) bool {
	return string(s) == string(other)
}

func (s NaturalString) LessThan(other NaturalString) bool {
	return NaturalCompare(string(s), string(other)) < 0
}

// NaturalCompare orders plain strings by natural sort order. natsort can't
// tell apart numbers that only differ in leading zeros ("a1", "a01"); such
// strings fall back to byte-wise order so the result stays antisymmetric.
func NaturalCompare(a, b string) int {
	if a == b {
		return 0
	}

	less, greater := natsort.Compare(a, b), natsort.Compare(b, a)

	switch {
	case less && !greater:
		return -1
	case greater && !less:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// NaturalComparator returns NaturalCompare as a compare.Func.
func NaturalComparator() compare.Func[string] {
	return NaturalCompare
}
