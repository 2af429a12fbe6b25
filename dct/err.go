package dct

import (
	"errors"

	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

var (
	// Input file errors
	ErrMatrixHeader = errors.New(f("matrix header must be 'rows cols'"))
	ErrMatrixShort  = errors.New(f("matrix short"))
	ErrMatrixValue  = errors.New(f("matrix value invalid"))

	// Offload protocol errors
	ErrSetup  = errors.New(f("setup failed"))
	ErrHartId = errors.New(f("hart id out of range"))
)

// ErrShort reports an input with fewer values than its header promises.
type ErrShort struct {
	Rows  int
	Cols  int
	Count int
	Err   error // Read error, if any.
}

func (err *ErrShort) Error() string {
	if err.Err != nil {
		return f("%v: %vx%v needs %v values, read %v: %v", ErrMatrixShort, err.Rows, err.Cols, err.Rows*err.Cols, err.Count, err.Err)
	}
	return f("%v: %vx%v needs %v values, read %v", ErrMatrixShort, err.Rows, err.Cols, err.Rows*err.Cols, err.Count)
}

func (err *ErrShort) Unwrap() error {
	return ErrMatrixShort
}

// ErrValue reports a value that is not a number.
type ErrValue struct {
	Row  int
	Col  int
	Word string
	Err  error
}

func (err *ErrValue) Error() string {
	return f("%v: [%v][%v] '%v': %v", ErrMatrixValue, err.Row, err.Col, err.Word, err.Err)
}

func (err *ErrValue) Unwrap() []error {
	return []error{ErrMatrixValue, err.Err}
}

// ErrHart reports the failure of one hart.
type ErrHart struct {
	Id  int
	Err error
}

func (err *ErrHart) Error() string {
	return f("core%v: %v", err.Id, err.Err)
}

func (err *ErrHart) Unwrap() error {
	return err.Err
}
