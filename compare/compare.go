// Package compare provides the equality and ordering capabilities that keyed
// containers are parameterized by.
package compare

import "cmp"

// Comparable is a generic interface for types that can compare themselves for equality.
// Types implementing this interface must provide their own Equals method that determines
// whether two values are equal according to the type's semantics.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}

// Func is a three-way comparator. It returns a negative number when a sorts
// before b, zero when they are equivalent, and a positive number when a sorts
// after b.
//
// Containers that accept a Func require it to be a strict total order:
// antisymmetric, transitive and total. A comparator that violates this silently
// breaks the sortedness of any container built with it.
type Func[T any] func(a, b T) int

// Natural returns the comparator for the natural ordering of an ordered type.
//
// Example:
//
//	m := maps.NewFlatMap[string, int](compare.Natural[string]())
func Natural[T cmp.Ordered]() Func[T] {
	return cmp.Compare[T]
}

// Reverse returns a comparator that orders values in the opposite direction of c.
func Reverse[T any](c Func[T]) Func[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

// By derives a comparator on T from a comparator on a projected key.
//
// Example:
//
//	byAge := compare.By(func(p Person) int { return p.Age }, compare.Natural[int]())
func By[T any, K any](key func(T) K, c Func[K]) Func[T] {
	return func(a, b T) int {
		return c(key(a), key(b))
	}
}

// Then chains comparators: ties under first are broken by second.
func Then[T any](first Func[T], second Func[T]) Func[T] {
	return func(a, b T) int {
		if r := first(a, b); r != 0 {
			return r
		}

		return second(a, b)
	}
}

// Equal reports whether a and b are equivalent under c.
func Equal[T any](c Func[T], a, b T) bool {
	return c(a, b) == 0
}

// Less reports whether a sorts strictly before b under c.
func Less[T any](c Func[T], a, b T) bool {
	return c(a, b) < 0
}
