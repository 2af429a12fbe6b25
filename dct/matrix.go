package dct

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
)

// Matrix is a row-major matrix of samples.
type Matrix [][]float32

// NewMatrix allocates a zeroed rows x cols matrix.
func NewMatrix(rows, cols int) (mat Matrix) {
	mat = make(Matrix, rows)
	for i := range mat {
		mat[i] = make([]float32, cols)
	}
	return
}

// Rows returns the row count.
func (mat Matrix) Rows() int {
	return len(mat)
}

// Cols returns the column count.
func (mat Matrix) Cols() int {
	if len(mat) == 0 {
		return 0
	}
	return len(mat[0])
}

// ReadMatrix parses a "rows cols" header followed by rows*cols
// whitespace separated values.
func ReadMatrix(r io.Reader) (mat Matrix, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	next := func() (word string, ok bool) {
		ok = scanner.Scan()
		if ok {
			word = scanner.Text()
		}
		return
	}

	var dims [2]int
	for n := range dims {
		word, ok := next()
		if !ok {
			err = errors.Join(ErrMatrixHeader, scanner.Err())
			return
		}
		dims[n], err = strconv.Atoi(word)
		if err != nil || dims[n] < 0 {
			err = errors.Join(ErrMatrixHeader, err)
			return
		}
	}

	rows, cols := dims[0], dims[1]
	mat = NewMatrix(rows, cols)
	for i := range rows {
		for j := range cols {
			word, ok := next()
			if !ok {
				err = &ErrShort{Rows: rows, Cols: cols, Count: i*cols + j, Err: scanner.Err()}
				return
			}
			var value float64
			value, err = strconv.ParseFloat(word, 32)
			if err != nil {
				err = &ErrValue{Row: i, Col: j, Word: word, Err: err}
				return
			}
			mat[i][j] = float32(value)
		}
	}

	return
}

// Write stores one line per row, values separated by single spaces. Each
// value is the shortest decimal that reads back as the same float32.
func (mat Matrix) Write(w io.Writer) (err error) {
	out := bufio.NewWriter(w)
	for _, row := range mat {
		for j, value := range row {
			if j > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(strconv.FormatFloat(float64(value), 'g', -1, 32))
		}
		out.WriteByte('\n')
	}
	err = out.Flush()
	return
}

// LoadMatrix reads a matrix file.
func LoadMatrix(path string) (mat Matrix, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	mat, err = ReadMatrix(inf)
	return
}

// Store writes mat to a file, replacing any previous content.
func (mat Matrix) Store(path string) (err error) {
	outf, err := os.Create(path)
	if err != nil {
		return
	}

	err = mat.Write(outf)
	if cerr := outf.Close(); err == nil {
		err = cerr
	}
	return
}
