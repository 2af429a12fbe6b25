// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package pe implements the CORDIC processing element: a memory-mapped
// register window in front of an always-running CORDIC pipeline.
//
// Operand writes are queued onto input FIFOs and never block. The
// pipeline consumes one operand from each input FIFO, evaluates the
// rotation, and queues the three results. Result reads block until the
// pipeline has produced a value.
package pe

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/cordic"
	"github.com/ezrec/mcacc/fixed"
	"github.com/ezrec/mcacc/io"
	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

// Register offsets within the PE window.
const (
	PE_INPUT_A_ADDR  = 0x00 // Operand A, write only.
	PE_INPUT_B_ADDR  = 0x04 // Operand B, write only.
	PE_INPUT_Z_ADDR  = 0x08 // Angle Z, write only.
	PE_OUTPUT_A_ADDR = 0x0c // Result A, read only.
	PE_OUTPUT_B_ADDR = 0x10 // Result B, read only.
	PE_OUTPUT_Z_ADDR = 0x14 // Result Z, read only.

	PE_INPUT_SIZE  = 3 * io.WORD_SIZE // Bytes of one operand triple.
	PE_OUTPUT_SIZE = 3 * io.WORD_SIZE // Bytes of one result triple.
)

var _pe_defines = map[string]string{
	"PE_INPUT_A_ADDR":  fmt.Sprintf("0x%02x", PE_INPUT_A_ADDR),
	"PE_INPUT_B_ADDR":  fmt.Sprintf("0x%02x", PE_INPUT_B_ADDR),
	"PE_INPUT_Z_ADDR":  fmt.Sprintf("0x%02x", PE_INPUT_Z_ADDR),
	"PE_OUTPUT_A_ADDR": fmt.Sprintf("0x%02x", PE_OUTPUT_A_ADDR),
	"PE_OUTPUT_B_ADDR": fmt.Sprintf("0x%02x", PE_OUTPUT_B_ADDR),
	"PE_OUTPUT_Z_ADDR": fmt.Sprintf("0x%02x", PE_OUTPUT_Z_ADDR),
}

// Defines returns an iterator over the PE register map.
func Defines() iter.Seq2[string, string] {
	return maps.All(_pe_defines)
}

// PE is one CORDIC accelerator instance.
type PE struct {
	Name    string      // Name used in diagnostics.
	Verbose bool        // If set, logs every transaction.
	Log     *log.Logger // Diagnostic stream; log.Default() if nil.

	inputA  *io.Fifo[fixed.Int8_8]
	inputB  *io.Fifo[fixed.Int8_8]
	inputZ  *io.Fifo[fixed.Int9_7]
	outputA *io.Fifo[fixed.Int8_8]
	outputB *io.Fifo[fixed.Int8_8]
	outputZ *io.Fifo[fixed.Int9_7]
}

var _ bus.Target = (*PE)(nil)

// NewPE creates a PE and starts its pipeline. The pipeline runs for the
// life of the process.
func NewPE(name string) (pe *PE) {
	pe = &PE{
		Name:    name,
		inputA:  io.NewFifo[fixed.Int8_8](),
		inputB:  io.NewFifo[fixed.Int8_8](),
		inputZ:  io.NewFifo[fixed.Int9_7](),
		outputA: io.NewFifo[fixed.Int8_8](),
		outputB: io.NewFifo[fixed.Int8_8](),
		outputZ: io.NewFifo[fixed.Int9_7](),
	}

	go pe.compute()

	return
}

func (pe *PE) logger() *log.Logger {
	if pe.Log == nil {
		return log.Default()
	}
	return pe.Log
}

// compute is the pipeline process.
func (pe *PE) compute() {
	for {
		a := pe.inputA.Receive()
		b := pe.inputB.Receive()
		z := pe.inputZ.Receive()

		out := cordic.Rotate(a, b, z, cordic.ROTATION)

		pe.outputA.Send(out.X)
		pe.outputB.Send(out.Y)
		pe.outputZ.Send(out.Theta)
	}
}

// Transport handles one register transaction, after waiting for delay.
//
// Accesses to an undefined register, or in the wrong direction, are
// reported on the diagnostic stream and complete with OK_RESPONSE and a
// zero word.
func (pe *PE) Transport(payload *bus.Payload, delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}

	addr := payload.Address
	var word [io.WORD_SIZE]byte

	switch payload.Command {
	case bus.READ_COMMAND:
		var value float32
		switch addr {
		case PE_OUTPUT_A_ADDR:
			value = pe.outputA.Receive().Float32()
		case PE_OUTPUT_B_ADDR:
			value = pe.outputB.Receive().Float32()
		case PE_OUTPUT_Z_ADDR:
			value = pe.outputZ.Receive().Float32()
		default:
			pe.logger().Print(f("%v: read error: address 0x%08x is not valid", pe.Name, addr))
		}
		io.PutFloat32(word[:], value)
		copy(payload.Data, word[:])
		if pe.Verbose {
			pe.logger().Printf("%v: read 0x%02x %v", pe.Name, addr, value)
		}
	case bus.WRITE_COMMAND:
		copy(word[:], payload.Data)
		value := io.Float32(word[:])
		switch addr {
		case PE_INPUT_A_ADDR:
			pe.inputA.Send(fixed.Int8_8F(float64(value)))
		case PE_INPUT_B_ADDR:
			pe.inputB.Send(fixed.Int8_8F(float64(value)))
		case PE_INPUT_Z_ADDR:
			pe.inputZ.Send(fixed.Int9_7F(float64(value)))
		default:
			pe.logger().Print(f("%v: write error: address 0x%08x is not valid", pe.Name, addr))
		}
		if pe.Verbose {
			pe.logger().Printf("%v: write 0x%02x %v", pe.Name, addr, value)
		}
	default:
		payload.Status = bus.GENERIC_ERROR_RESPONSE
		return
	}

	payload.Status = bus.OK_RESPONSE
}
