package sortable

import "cmp"

// Byte is a sortable wrapper type for the built-in byte type.
// It implements the Sortable[Byte] interface, allowing bytes to be used
// as keys in sorted data structures like flat sets and maps.
//
// Example:
//
//	set := set.NewSortableFlatSet[sortable.Byte]()
//	set.Insert(sortable.Byte('c'))
//	set.Insert(sortable.Byte('a'))
//	set.Insert(sortable.Byte('b'))
//	// Iterating yields: 'a', 'b', 'c' (sorted order)
//
// To convert back to a regular byte, use a type conversion:
//
//	var s sortable.Byte = 'x'
//	regularByte := byte(s)
type Byte byte

// Compile-time check that Byte implements Sortable[Byte].
var _ Sortable[Byte] = (*Byte)(nil)

// Equals returns true if this Byte has the same value as the other Byte.
func (b Byte) Equals(other Byte) bool {
	return byte(b) == byte(other)
}

// LessThan returns true if this Byte is numerically less than the other Byte.
func (b Byte) LessThan(other Byte) bool {
	return byte(b) < byte(other)
}

// Compare returns -1, 0 or +1 depending on whether this Byte sorts before,
// equal to, or after the other Byte.
func (v Byte) Compare(other Byte) int {
	return cmp.Compare(v, other)
}
