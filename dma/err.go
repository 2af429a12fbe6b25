package dma

import (
	"errors"
)

var (
	ErrTransferFailed = errors.New(f("transfer failed"))
)

// ErrTransfer reports a DMA transfer that set the error status.
type ErrTransfer struct {
	Source      uint64
	Destination uint64
	Length      int
}

func (err *ErrTransfer) Error() string {
	return f("dma 0x%08x -> 0x%08x (%v bytes): %v", err.Source, err.Destination, err.Length, ErrTransferFailed)
}

func (err *ErrTransfer) Unwrap() error {
	return ErrTransferFailed
}
