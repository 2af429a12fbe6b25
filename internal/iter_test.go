package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := maps.All(map[string]int{"A": 1})
	b := maps.All(map[string]int{"B": 2})

	var keys []string
	for key := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"A", "B"}, keys)

	// Early exit.
	for key := range IterSeq2Concat(a, b) {
		assert.Equal("A", key)
		break
	}
}

func TestIterSorted(t *testing.T) {
	assert := assert.New(t)

	m := map[string]int{"c": 3, "a": 1, "b": 2}

	var keys []string
	var values []int
	for key, value := range IterSorted(m) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]string{"a", "b", "c"}, keys)
	assert.Equal([]int{1, 2, 3}, values)
}
