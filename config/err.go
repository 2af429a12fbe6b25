package config

import (
	"errors"

	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

var (
	ErrConfigKey     = errors.New(f("unknown configuration key"))
	ErrConfigType    = errors.New(f("configuration value has wrong type"))
	ErrConfigValue   = errors.New(f("configuration value out of range"))
	ErrConfigOverlap = errors.New(f("configuration windows overlap"))
)

// ErrOption reports a problem with one configuration key.
type ErrOption struct {
	Name string
	Err  error
}

func (err *ErrOption) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrOption) Unwrap() error {
	return err.Err
}
