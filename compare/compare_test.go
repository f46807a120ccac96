package compare_test

import (
	"slices"
	"testing"

	"github.com/amp-labs/amp-flat/compare"
	"github.com/stretchr/testify/assert"
)

type testNumber int

func (n testNumber) Equals(other testNumber) bool {
	return int(n) == int(other)
}

type person struct {
	Name string
	Age  int
}

func TestEquals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a        testNumber
		b        testNumber
		expected bool
	}{
		{name: "equal numbers", a: 42, b: 42, expected: true},
		{name: "different numbers", a: 42, b: 24, expected: false},
		{name: "zero values", a: 0, b: 0, expected: true},
		{name: "negative numbers", a: -5, b: -5, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, compare.Equals(tt.a, tt.b))
		})
	}
}

func TestNatural(t *testing.T) {
	t.Parallel()

	t.Run("ints", func(t *testing.T) {
		t.Parallel()

		c := compare.Natural[int]()
		assert.Negative(t, c(1, 2))
		assert.Zero(t, c(2, 2))
		assert.Positive(t, c(3, 2))
	})

	t.Run("strings", func(t *testing.T) {
		t.Parallel()

		c := compare.Natural[string]()
		assert.Negative(t, c("apple", "banana"))
		assert.Zero(t, c("kiwi", "kiwi"))
		assert.Positive(t, c("b", "a"))
	})
}

func TestReverse(t *testing.T) {
	t.Parallel()

	values := []int{3, 1, 2}
	slices.SortFunc(values, compare.Reverse(compare.Natural[int]()))

	assert.Equal(t, []int{3, 2, 1}, values)
}

func TestByAndThen(t *testing.T) {
	t.Parallel()

	people := []person{
		{Name: "carol", Age: 30},
		{Name: "alice", Age: 30},
		{Name: "bob", Age: 25},
	}

	byAge := compare.By(func(p person) int { return p.Age }, compare.Natural[int]())
	byName := compare.By(func(p person) string { return p.Name }, compare.Natural[string]())

	slices.SortFunc(people, compare.Then(byAge, byName))

	assert.Equal(t, []person{
		{Name: "bob", Age: 25},
		{Name: "alice", Age: 30},
		{Name: "carol", Age: 30},
	}, people)
}

func TestEqualAndLess(t *testing.T) {
	t.Parallel()

	c := compare.Natural[int]()

	assert.True(t, compare.Equal(c, 4, 4))
	assert.False(t, compare.Equal(c, 4, 5))
	assert.True(t, compare.Less(c, 4, 5))
	assert.False(t, compare.Less(c, 5, 5))
}
