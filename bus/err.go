package bus

import (
	"errors"

	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

var (
	// Mapping errors
	ErrMappingInvalid = errors.New(f("mapping invalid"))
	ErrMappingOverlap = errors.New(f("mapping overlap"))

	// Transaction errors
	ErrAddress = errors.New(f("address error"))
	ErrGeneric = errors.New(f("generic error"))
)

// ErrMapping reports a target that could not be mapped.
type ErrMapping struct {
	Name  string
	Start uint64
	End   uint64
	Err   error
}

func (err *ErrMapping) Error() string {
	return f("%v [0x%08x, 0x%08x] %v", err.Name, err.Start, err.End, err.Err)
}

func (err *ErrMapping) Unwrap() error {
	return err.Err
}

// ErrTransaction reports a transaction that did not complete with
// OK_RESPONSE.
type ErrTransaction struct {
	Command Command
	Address uint64
	Status  Status
}

func (err *ErrTransaction) Error() string {
	return f("%v 0x%08x %v", err.Command, err.Address, err.Status)
}

func (err *ErrTransaction) Unwrap() error {
	if err.Status == ADDRESS_ERROR_RESPONSE {
		return ErrAddress
	}
	return ErrGeneric
}
