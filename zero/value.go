// Package zero provides the zero value of a type parameter.
package zero

// Value returns the zero value of T. Containers return it alongside a false
// "found" flag when a key is absent.
func Value[T any]() T {
	var zeroVal T

	return zeroVal
}
