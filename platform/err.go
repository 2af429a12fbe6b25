package platform

import (
	"errors"

	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

var (
	ErrScratch = errors.New(f("memory too small for scratch buffers"))
)

// ErrLayout reports a device that could not be placed on the bus.
type ErrLayout struct {
	Device string
	Err    error
}

func (err *ErrLayout) Error() string {
	return f("%v: %v", err.Device, err.Err)
}

func (err *ErrLayout) Unwrap() error {
	return err.Err
}
