// Package fixed provides the signed 16-bit fixed-point types used by the
// CORDIC accelerator.
//
// Conversions from floating point truncate toward negative infinity and
// wrap on overflow. No operation checks for overflow; results silently
// wrap to 16 bits.
package fixed

import (
	"math"
	"strconv"
)

// Int8_8 is a signed 16-bit value with 8 integer and 8 fractional bits.
// It carries the CORDIC vector components.
type Int8_8 int16

// Int9_7 is a signed 16-bit value with 9 integer and 7 fractional bits.
// It carries CORDIC angles, in degrees.
type Int9_7 int16

const (
	INT8_8_FRAC = 8 // Fractional bits of Int8_8.
	INT9_7_FRAC = 7 // Fractional bits of Int9_7.
)

// quantize scales f by 2^frac, truncates toward negative infinity and
// wraps to 16 bits.
func quantize(f float64, frac uint) int16 {
	v := math.Floor(f * float64(uint32(1)<<frac))
	if math.IsNaN(v) || v >= math.MaxInt64 || v <= math.MinInt64 {
		return 0
	}
	return int16(int64(v))
}

// Int8_8U converts an integer to Int8_8.
func Int8_8U(i int) Int8_8 {
	return Int8_8(i << INT8_8_FRAC)
}

// Int8_8F converts a float to Int8_8.
func Int8_8F(f float64) Int8_8 {
	return Int8_8(quantize(f, INT8_8_FRAC))
}

// Float32 widens x; the conversion is exact.
func (x Int8_8) Float32() float32 {
	return float32(x) / (1 << INT8_8_FRAC)
}

func (x Int8_8) Add(y Int8_8) Int8_8 {
	return x + y
}

func (x Int8_8) Sub(y Int8_8) Int8_8 {
	return x - y
}

func (x Int8_8) Neg() Int8_8 {
	return -x
}

// Shr is an arithmetic shift; it rounds toward negative infinity.
func (x Int8_8) Shr(n uint) Int8_8 {
	return x >> n
}

// Mul computes the full product and truncates it back to Int8_8.
func (x Int8_8) Mul(y Int8_8) Int8_8 {
	return Int8_8((int32(x) * int32(y)) >> INT8_8_FRAC)
}

func (x Int8_8) String() string {
	return strconv.FormatFloat(float64(x.Float32()), 'g', -1, 32)
}

// Int9_7U converts an integer to Int9_7.
func Int9_7U(i int) Int9_7 {
	return Int9_7(i << INT9_7_FRAC)
}

// Int9_7F converts a float to Int9_7.
func Int9_7F(f float64) Int9_7 {
	return Int9_7(quantize(f, INT9_7_FRAC))
}

// Float32 widens x; the conversion is exact.
func (x Int9_7) Float32() float32 {
	return float32(x) / (1 << INT9_7_FRAC)
}

func (x Int9_7) Add(y Int9_7) Int9_7 {
	return x + y
}

func (x Int9_7) Sub(y Int9_7) Int9_7 {
	return x - y
}

func (x Int9_7) Neg() Int9_7 {
	return -x
}

// Shr is an arithmetic shift; it rounds toward negative infinity.
func (x Int9_7) Shr(n uint) Int9_7 {
	return x >> n
}

// Mul computes the full product and truncates it back to Int9_7.
func (x Int9_7) Mul(y Int9_7) Int9_7 {
	return Int9_7((int32(x) * int32(y)) >> INT9_7_FRAC)
}

func (x Int9_7) String() string {
	return strconv.FormatFloat(float64(x.Float32()), 'g', -1, 32)
}
