package zero_test

import (
	"testing"

	"github.com/amp-labs/amp-flat/zero"
	"github.com/stretchr/testify/assert"
)

type testStruct struct {
	Field1 string
	Field2 int
}

func TestValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, zero.Value[int]())
	assert.Empty(t, zero.Value[string]())
	assert.Nil(t, zero.Value[*testStruct]())
	assert.Nil(t, zero.Value[[]int]())
	assert.Equal(t, testStruct{}, zero.Value[testStruct]())
}
