package dct

import (
	"bytes"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMatrix(t *testing.T) {
	assert := assert.New(t)

	mat, err := ReadMatrix(strings.NewReader("2 3\n1 2 3\n-4.5 0.25 6e1\n"))
	require.NoError(t, err)

	assert.Equal(2, mat.Rows())
	assert.Equal(3, mat.Cols())
	assert.Equal(Matrix{{1, 2, 3}, {-4.5, 0.25, 60}}, mat)

	mat, err = ReadMatrix(strings.NewReader("0 0"))
	assert.NoError(err)
	assert.Equal(0, mat.Rows())
	assert.Equal(0, mat.Cols())
}

func TestReadMatrix_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "", ErrMatrixHeader},
		{"one dimension", "3", ErrMatrixHeader},
		{"bad rows", "x 3", ErrMatrixHeader},
		{"negative cols", "1 -3", ErrMatrixHeader},
		{"short", "2 2\n1 2 3", ErrMatrixShort},
		{"value", "1 2\n1 two", ErrMatrixValue},
	}

	for _, entry := range table {
		_, err := ReadMatrix(strings.NewReader(entry.input))
		assert.ErrorIs(err, entry.err, entry.name)
	}

	_, err := ReadMatrix(strings.NewReader("2 2\n1 2 3"))
	var short *ErrShort
	if assert.True(errors.As(err, &short)) {
		assert.Equal(3, short.Count)
	}

	_, err = ReadMatrix(strings.NewReader("1 2\n1 two"))
	var value *ErrValue
	if assert.True(errors.As(err, &value)) {
		assert.Equal(0, value.Row)
		assert.Equal(1, value.Col)
		assert.Equal("two", value.Word)
		assert.ErrorIs(err, strconv.ErrSyntax)
	}
}

func TestMatrix_Write(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	err := Matrix{{5, -2.2304223, 0}, {0.5, 1e-7, 100}, {0.70710677}}.Write(&buf)
	assert.NoError(err)
	assert.Equal("5 -2.2304223 0\n0.5 1e-07 100\n0.70710677\n", buf.String())
}

func TestMatrix_StoreLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "matrix.txt")
	mat := Matrix{{1, 2}, {3, 4}, {5, 6}}

	assert.NoError(mat.Store(path))

	got, err := LoadMatrix(path)
	assert.NoError(err)
	assert.Equal(mat, got)

	_, err = LoadMatrix(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(err)
}
