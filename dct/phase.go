package dct

import (
	"math"
)

// PhaseCorrection folds an angle in degrees into (-180, 180].
func PhaseCorrection(phase float32) float32 {
	if math.IsInf(float64(phase), 0) || math.IsNaN(float64(phase)) {
		return phase
	}

	folded := float32(math.Mod(float64(phase), 360))
	if folded > 180 {
		folded -= 360
	} else if folded <= -180 {
		folded += 360
	}

	return folded
}

// Phase is the angle, in degrees, of sample k for coefficient j of an
// m point DCT-II.
func Phase(k, j, m int) float32 {
	return float32(180.0 * (float64(k) + 0.5) * float64(j) / float64(m))
}

// Scale returns the orthonormal scale of coefficient j of an m point
// DCT-II.
func Scale(j, m int) float64 {
	if j == 0 {
		return 1 / math.Sqrt(float64(m))
	}
	return math.Sqrt(2.0 / float64(m))
}
