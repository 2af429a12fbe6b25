package dct

import (
	"math"
)

// Reference computes the orthonormal DCT-II of each row of input in
// double precision.
func Reference(input Matrix) (output Matrix) {
	rows, cols := input.Rows(), input.Cols()
	output = NewMatrix(rows, cols)

	for i, row := range input {
		for j := range cols {
			var sum float64
			for k, x := range row {
				angle := math.Pi * (float64(k) + 0.5) * float64(j) / float64(cols)
				sum += float64(x) * math.Cos(angle)
			}
			output[i][j] = float32(sum * Scale(j, cols))
		}
	}

	return
}
