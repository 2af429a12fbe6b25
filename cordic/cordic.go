// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package cordic implements a fixed-point CORDIC rotation engine.
//
// The engine evaluates rotations with additions and shifts only. Inputs
// are pre-rotated by ±90 degrees so the seven micro-rotations, which
// converge for angles within about ±99.7 degrees, cover the full circle.
package cordic

import (
	"github.com/ezrec/mcacc/fixed"
)

// Mode selects the CORDIC operating mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	ROTATION  = Mode(0) // rotation
	VECTORING = Mode(1) // vectoring
)

const (
	ITERATIONS = 7            // Number of micro-rotations.
	GAIN       = 0.6072776441 // Compensation for the accumulated CORDIC gain.
)

// ANGLE is the elementary angle table, atan(2^-i) in degrees.
var ANGLE = [ITERATIONS]fixed.Int9_7{
	fixed.Int9_7F(45.0),
	fixed.Int9_7F(26.565051177077990),
	fixed.Int9_7F(14.036243467926479),
	fixed.Int9_7F(7.125016348901798),
	fixed.Int9_7F(3.576334374997351),
	fixed.Int9_7F(1.789910608246069),
	fixed.Int9_7F(0.895173710211074),
}

var (
	right  = fixed.Int9_7U(90)
	factor = fixed.Int8_8F(GAIN)
)

// Result of a CORDIC evaluation.
type Result struct {
	X     fixed.Int8_8
	Y     fixed.Int8_8
	Theta fixed.Int9_7
}

// step performs the micro-rotation for iteration i.
func step(in Result, mode Mode, i int) (out Result) {
	tmp_x := in.X.Shr(uint(i))
	tmp_y := in.Y.Shr(uint(i))

	var tmp_theta fixed.Int9_7
	var positive bool
	if mode == VECTORING {
		// Rotate negative while y is above the axis.
		positive = in.Y <= 0
	} else {
		positive = in.Theta > 0
	}

	if positive {
		tmp_y = tmp_y.Neg()
		tmp_theta = ANGLE[i].Neg()
	} else {
		tmp_x = tmp_x.Neg()
		tmp_theta = ANGLE[i]
	}

	out.X = in.X.Add(tmp_y)
	out.Y = tmp_x.Add(in.Y)
	out.Theta = in.Theta.Add(tmp_theta)
	return
}

// correct applies the ±90 degree pre-rotation.
func correct(x, y fixed.Int8_8, theta fixed.Int9_7, mode Mode) (out Result) {
	var positive bool
	if mode == VECTORING {
		positive = y <= 0
	} else {
		positive = theta > 0
	}

	if positive {
		out = Result{X: y.Neg(), Y: x, Theta: theta.Sub(right)}
	} else {
		out = Result{X: y, Y: x.Neg(), Theta: theta.Add(right)}
	}
	return
}

// Rotate runs a full CORDIC evaluation of (x, y, theta).
//
// In ROTATION mode the vector is rotated by theta degrees and the
// residual angle is returned in Theta. In VECTORING mode the vector is
// rotated onto the positive x axis; X holds its magnitude and Theta
// accumulates its angle.
//
// Out of range inputs wrap according to the fixed-point rules.
func Rotate(x, y fixed.Int8_8, theta fixed.Int9_7, mode Mode) (out Result) {
	out = correct(x, y, theta, mode)
	for i := range ITERATIONS {
		out = step(out, mode, i)
	}

	out.X = out.X.Mul(factor)
	out.Y = out.Y.Mul(factor)
	return
}

// Cos evaluates cos(theta) for theta in degrees.
func Cos(theta fixed.Int9_7) fixed.Int8_8 {
	return Rotate(fixed.Int8_8U(1), 0, theta, ROTATION).X
}

// Sin evaluates sin(theta) for theta in degrees.
func Sin(theta fixed.Int9_7) fixed.Int8_8 {
	return Rotate(fixed.Int8_8U(1), 0, theta, ROTATION).Y
}
