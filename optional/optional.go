// Package optional provides Value, an explicit "present or absent" wrapper.
// Containers use it where a lookup or mutation may have nothing to return,
// instead of overloading a zero value.
package optional

import (
	"fmt"
	"iter"
)

// Value holds either a value of type T (Some) or nothing (None).
// The zero Value is None.
type Value[T any] struct {
	value T
	isSet bool
}

// Some wraps a present value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None returns an absent value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// All yields the wrapped value once when present, and nothing otherwise.
func (o Value[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if o.isSet {
			yield(o.value)
		}
	}
}

func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

func (o Value[T]) Empty() bool {
	return !o.isSet
}

// Get returns the wrapped value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrPanic returns the wrapped value, panicking on None.
func (o Value[T]) GetOrPanic() T {
	if !o.isSet {
		panic("called GetOrPanic on None")
	}

	return o.value
}

func (o Value[T]) GetOrElse(defaultValue T) T {
	if o.isSet {
		return o.value
	}

	return defaultValue
}

func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map applies f to the wrapped value, if any.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if o.isSet {
		return Some(f(o.value))
	}

	return None[U]()
}
