package dma

import (
	"time"

	"github.com/ezrec/mcacc/bus"
)

// Transfer moves buffers between memory and device windows on behalf of
// a hart, either by programming the DMA engine or, when Direct is set,
// by copying word by word itself.
//
// Transfer does not serialize access to the shared trigger registers;
// callers that share an engine must hold a lock around Copy.
type Transfer struct {
	Bus    bus.Target    // Bus the hart issues transactions on.
	Base   uint64        // Bus address of the DMA register window.
	Direct bool          // If set, bypass the DMA engine.
	Delay  time.Duration // Latency of each transaction issued by the hart.
}

// Submit programs the engine with req. The transfer has completed when
// Submit returns.
func (xfer *Transfer) Submit(req Request) (err error) {
	regs := []struct {
		offset uint64
		value  uint32
	}{
		{DMA_SRC_ADDR, req.Source},
		{DMA_DST_ADDR, req.Destination},
		{DMA_LEN_ADDR, req.Length},
		{DMA_OP_ADDR, req.Op},
	}

	for _, reg := range regs {
		err = bus.Store32(xfer.Bus, xfer.Base+reg.offset, reg.value, xfer.Delay)
		if err != nil {
			return
		}
	}

	return
}

// Copy moves length bytes from src to dst.
func (xfer *Transfer) Copy(dst, src uint64, length int) (err error) {
	if xfer.Direct {
		err = bus.Copy(xfer.Bus, dst, src, length, xfer.Delay)
		return
	}

	err = xfer.Submit(Request{
		Source:      uint32(src),
		Destination: uint32(dst),
		Length:      uint32(length),
		Op:          DMA_OP_MEMCPY,
	})
	if err != nil {
		return
	}

	// The engine reports failures only through its status register.
	status, err := bus.Load32(xfer.Bus, xfer.Base+DMA_STAT_ADDR, xfer.Delay)
	if err != nil {
		return
	}
	if status&DMA_STAT_ERROR != 0 {
		err = &ErrTransfer{Source: src, Destination: dst, Length: length}
	}

	return
}
