// Package sortable provides sortable wrapper types for primitive types to implement comparison interfaces.
package sortable

import (
	"github.com/amp-labs/amp-flat/compare"
)

type Sortable[T any] interface {
	compare.Comparable[T]

	LessThan(other T) bool
}

// Compare is a three-way comparator for any Sortable type. It lets Sortable
// keys be used wherever a compare.Func is expected.
func Compare[T Sortable[T]](a, b T) int {
	switch {
	case a.Equals(b):
		return 0
	case a.LessThan(b):
		return -1
	default:
		return 1
	}
}

// Comparator returns Compare as a compare.Func.
func Comparator[T Sortable[T]]() compare.Func[T] {
	return Compare[T]
}
