package dct

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseCorrection(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		phase    float32
		expected float32
	}{
		{0, 0},
		{90, 90},
		{180, 180},
		{-180, 180},
		{181, -179},
		{-181, 179},
		{540, 180},
		{675, -45},
		{-400, -40},
		{360, 0},
		{720, 0},
		{-720, 0},
		{1e6 + 45, -35},
		{3.6e7 + 90, 88}, // 36000090 rounds to 36000088 in float32.
		{1e10, -80},
		{-1e10, 80},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, PhaseCorrection(entry.phase), "%v", entry.phase)
	}
}

func TestPhase(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(float32(0), Phase(3, 0, 4))
	assert.Equal(float32(22.5), Phase(0, 1, 4))
	assert.Equal(float32(157.5), Phase(3, 1, 4))
	assert.Equal(float32(472.5), Phase(3, 3, 4))
}

func TestScale(t *testing.T) {
	assert := assert.New(t)

	assert.InDelta(0.5, Scale(0, 4), 1e-12)
	assert.InDelta(0.70710678, Scale(1, 4), 1e-8)
	assert.InDelta(0.70710678, Scale(3, 4), 1e-8)
}
