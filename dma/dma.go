// Package dma implements the register-triggered bulk transfer engine and
// the host side helper that drives it.
//
// A transfer is programmed by writing the source, destination and length
// registers, then the operation register. The copy runs to completion
// within the operation register write; there is no completion interrupt.
package dma

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log"
	"maps"
	"sync"
	"time"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/io"
	"github.com/ezrec/mcacc/translate"
)

var f = translate.From

// Register offsets within the DMA window.
const (
	DMA_SRC_ADDR  = 0x00 // Source address.
	DMA_DST_ADDR  = 0x04 // Destination address.
	DMA_LEN_ADDR  = 0x08 // Length in bytes.
	DMA_OP_ADDR   = 0x0c // Operation; writing starts the transfer.
	DMA_STAT_ADDR = 0x10 // Status, read only.
)

// Operations.
const (
	DMA_OP_NOP    = 0
	DMA_OP_MEMCPY = 1
)

// Status register bits.
const (
	DMA_STAT_BUSY  = 1 << 0 // A transfer is in progress.
	DMA_STAT_ERROR = 1 << 1 // The last transfer failed.
)

var _dma_defines = map[string]string{
	"DMA_SRC_ADDR":   fmt.Sprintf("0x%02x", DMA_SRC_ADDR),
	"DMA_DST_ADDR":   fmt.Sprintf("0x%02x", DMA_DST_ADDR),
	"DMA_LEN_ADDR":   fmt.Sprintf("0x%02x", DMA_LEN_ADDR),
	"DMA_OP_ADDR":    fmt.Sprintf("0x%02x", DMA_OP_ADDR),
	"DMA_STAT_ADDR":  fmt.Sprintf("0x%02x", DMA_STAT_ADDR),
	"DMA_OP_NOP":     fmt.Sprintf("%d", DMA_OP_NOP),
	"DMA_OP_MEMCPY":  fmt.Sprintf("%d", DMA_OP_MEMCPY),
	"DMA_STAT_BUSY":  fmt.Sprintf("%d", DMA_STAT_BUSY),
	"DMA_STAT_ERROR": fmt.Sprintf("%d", DMA_STAT_ERROR),
}

// Defines returns an iterator over the DMA register map.
func Defines() iter.Seq2[string, string] {
	return maps.All(_dma_defines)
}

// Request is one programmed transfer.
type Request struct {
	Source      uint32
	Destination uint32
	Length      uint32
	Op          uint32
}

// DMA is the transfer engine. It masters transactions on Bus.
type DMA struct {
	Verbose bool          // If set, logs every transfer.
	Log     *log.Logger   // Diagnostic stream; log.Default() if nil.
	Bus     bus.Target    // Bus the engine copies over.
	Delay   time.Duration // Latency of each copy transaction.

	mutex   sync.Mutex
	request Request
	status  uint32
}

var _ bus.Target = (*DMA)(nil)

// NewDMA creates a DMA engine mastering target.
func NewDMA(target bus.Target) (dma *DMA) {
	dma = &DMA{
		Bus: target,
	}
	return
}

func (dma *DMA) logger() *log.Logger {
	if dma.Log == nil {
		return log.Default()
	}
	return dma.Log
}

// Status returns the status register.
func (dma *DMA) Status() uint32 {
	dma.mutex.Lock()
	defer dma.mutex.Unlock()

	return dma.status
}

// start runs the programmed request. Called with the mutex held; the
// mutex is released while the copy is on the bus, so the status register
// stays readable.
func (dma *DMA) start() {
	req := dma.request

	switch req.Op {
	case DMA_OP_NOP:
		return
	case DMA_OP_MEMCPY:
		// Handled below.
	default:
		dma.logger().Print(f("dma: op %d is not valid", req.Op))
		dma.status |= DMA_STAT_ERROR
		return
	}

	if dma.Verbose {
		dma.logger().Printf("dma: copy 0x%08x -> 0x%08x (%d bytes)", req.Source, req.Destination, req.Length)
	}

	dma.status = DMA_STAT_BUSY
	dma.mutex.Unlock()
	err := bus.Copy(dma.Bus, uint64(req.Destination), uint64(req.Source), int(req.Length), dma.Delay)
	dma.mutex.Lock()
	dma.status &^= DMA_STAT_BUSY
	if err != nil {
		dma.logger().Print(f("dma: copy 0x%08x -> 0x%08x: %v", req.Source, req.Destination, err))
		dma.status |= DMA_STAT_ERROR
	}
}

// Transport handles one register transaction. Undefined registers are
// reported on the diagnostic stream and read as zero.
func (dma *DMA) Transport(payload *bus.Payload, delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}

	var word [io.WORD_SIZE]byte

	dma.mutex.Lock()
	defer dma.mutex.Unlock()

	addr := payload.Address
	switch payload.Command {
	case bus.READ_COMMAND:
		var value uint32
		switch addr {
		case DMA_SRC_ADDR:
			value = dma.request.Source
		case DMA_DST_ADDR:
			value = dma.request.Destination
		case DMA_LEN_ADDR:
			value = dma.request.Length
		case DMA_OP_ADDR:
			value = dma.request.Op
		case DMA_STAT_ADDR:
			value = dma.status
		default:
			dma.logger().Print(f("dma: read error: address 0x%08x is not valid", addr))
		}
		binary.LittleEndian.PutUint32(word[:], value)
		copy(payload.Data, word[:])
	case bus.WRITE_COMMAND:
		copy(word[:], payload.Data)
		value := binary.LittleEndian.Uint32(word[:])
		switch addr {
		case DMA_SRC_ADDR:
			dma.request.Source = value
		case DMA_DST_ADDR:
			dma.request.Destination = value
		case DMA_LEN_ADDR:
			dma.request.Length = value
		case DMA_OP_ADDR:
			dma.request.Op = value
			dma.status = 0
			dma.start()
		default:
			dma.logger().Print(f("dma: write error: address 0x%08x is not valid", addr))
		}
	default:
		payload.Status = bus.GENERIC_ERROR_RESPONSE
		return
	}

	payload.Status = bus.OK_RESPONSE
}
