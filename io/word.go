package io

import (
	"encoding/binary"
	"math"
)

const (
	// WORD_SIZE is the size in bytes of a bus word.
	WORD_SIZE = 4
)

// PutFloat32 encodes value into the first WORD_SIZE bytes of p as a
// little-endian IEEE-754 single.
func PutFloat32(p []byte, value float32) {
	binary.LittleEndian.PutUint32(p, math.Float32bits(value))
}

// Float32 decodes a little-endian IEEE-754 single from the first
// WORD_SIZE bytes of p.
func Float32(p []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(p))
}

// PackFloat32 encodes values into consecutive words.
func PackFloat32(values ...float32) (p []byte) {
	p = make([]byte, len(values)*WORD_SIZE)
	for n, value := range values {
		PutFloat32(p[n*WORD_SIZE:], value)
	}
	return
}

// UnpackFloat32 decodes consecutive words. A trailing partial word is
// ignored.
func UnpackFloat32(p []byte) (values []float32) {
	for len(p) >= WORD_SIZE {
		values = append(values, Float32(p))
		p = p[WORD_SIZE:]
	}
	return
}
