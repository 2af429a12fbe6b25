package dma

import (
	"bytes"
	"log"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/io"
	"github.com/ezrec/mcacc/pe"
)

const (
	MEM_BASE = 0x00000000
	PE_BASE  = 0x03000000
	DMA_BASE = 0x70000000
)

type rig struct {
	bus  *bus.Bus
	mem  *bus.Memory
	pe   *pe.PE
	dma  *DMA
	diag *bytes.Buffer
}

func newRig(t *testing.T) (r *rig) {
	r = &rig{
		bus:  &bus.Bus{},
		mem:  bus.NewMemory(0x1000),
		pe:   pe.NewPE("pe1"),
		diag: &bytes.Buffer{},
	}
	r.dma = NewDMA(r.bus)
	r.dma.Log = log.New(r.diag, "", 0)

	require.NoError(t, r.bus.Map("MEM", MEM_BASE, MEM_BASE+0xfff, r.mem))
	require.NoError(t, r.bus.Map("PE1", PE_BASE, PE_BASE+0xfffff, r.pe))
	require.NoError(t, r.bus.Map("DMA", DMA_BASE, DMA_BASE+0xfff, r.dma))
	return
}

func TestDMA_Registers(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)

	assert.NoError(bus.Store32(r.bus, DMA_BASE+DMA_SRC_ADDR, 0x100, 0))
	assert.NoError(bus.Store32(r.bus, DMA_BASE+DMA_DST_ADDR, 0x200, 0))
	assert.NoError(bus.Store32(r.bus, DMA_BASE+DMA_LEN_ADDR, 8, 0))

	for addr, expected := range map[uint64]uint32{
		DMA_SRC_ADDR:  0x100,
		DMA_DST_ADDR:  0x200,
		DMA_LEN_ADDR:  8,
		DMA_OP_ADDR:   DMA_OP_NOP,
		DMA_STAT_ADDR: 0,
	} {
		value, err := bus.Load32(r.bus, DMA_BASE+addr, 0)
		assert.NoError(err)
		assert.Equal(expected, value, "register 0x%02x", addr)
	}
}

func TestDMA_MemoryCopy(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)

	src := []byte("bulk transfer!")
	assert.NoError(bus.Write(r.bus, 0x100, src, 0))

	xfer := &Transfer{Bus: r.bus, Base: DMA_BASE}
	assert.NoError(xfer.Copy(0x200, 0x100, len(src)))

	dst := make([]byte, len(src))
	assert.NoError(bus.Read(r.bus, 0x200, dst, 0))
	assert.Equal(src, dst)
	assert.Equal(uint32(0), r.dma.Status())
	assert.Empty(r.diag.String())
}

func TestDMA_Verbose(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)
	r.dma.Verbose = true

	xfer := &Transfer{Bus: r.bus, Base: DMA_BASE}
	assert.NoError(xfer.Copy(0x200, 0x100, 8))
	assert.Contains(r.diag.String(), "dma: copy 0x00000100 -> 0x00000200 (8 bytes)")
}

func TestDMA_Accelerator(t *testing.T) {
	assert := assert.New(t)

	for _, direct := range []bool{false, true} {
		r := newRig(t)
		xfer := &Transfer{Bus: r.bus, Base: DMA_BASE, Direct: direct}

		operands := io.PackFloat32(1.0, 0.0, 90.0)
		assert.NoError(bus.Write(r.bus, 0x40, operands, 0))

		assert.NoError(xfer.Copy(PE_BASE+pe.PE_INPUT_A_ADDR, 0x40, pe.PE_INPUT_SIZE))
		assert.NoError(xfer.Copy(0x80, PE_BASE+pe.PE_OUTPUT_A_ADDR, pe.PE_OUTPUT_SIZE))

		result := make([]byte, pe.PE_OUTPUT_SIZE)
		assert.NoError(bus.Read(r.bus, 0x80, result, 0))

		values := io.UnpackFloat32(result)
		assert.InDelta(0.0, values[0], 6.0/256, "direct %v", direct)
		assert.InDelta(1.0, values[1], 6.0/256, "direct %v", direct)
		assert.Empty(r.diag.String())
	}
}

func TestDMA_Error(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)
	xfer := &Transfer{Bus: r.bus, Base: DMA_BASE}

	err := xfer.Copy(0x50000000, 0x100, 4)
	assert.ErrorIs(err, ErrTransferFailed)
	assert.Equal(uint32(DMA_STAT_ERROR), r.dma.Status())
	assert.Contains(r.diag.String(), "dma: copy")

	// A new transfer clears the error.
	assert.NoError(xfer.Copy(0x200, 0x100, 4))
	assert.Equal(uint32(0), r.dma.Status())
}

func TestDMA_InvalidOp(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)
	xfer := &Transfer{Bus: r.bus, Base: DMA_BASE}

	assert.NoError(xfer.Submit(Request{Source: 0, Destination: 0x10, Length: 4, Op: 7}))
	assert.Equal(uint32(DMA_STAT_ERROR), r.dma.Status())
	assert.Contains(r.diag.String(), "dma: op 7 is not valid")
}

func TestDMA_InvalidAddress(t *testing.T) {
	assert := assert.New(t)

	r := newRig(t)

	assert.NoError(bus.Store32(r.bus, DMA_BASE+0x40, 1, 0))
	assert.Contains(r.diag.String(), "dma: write error: address 0x00000040 is not valid")

	value, err := bus.Load32(r.bus, DMA_BASE+0x44, 0)
	assert.NoError(err)
	assert.Equal(uint32(0), value)
	assert.Contains(r.diag.String(), "dma: read error: address 0x00000044 is not valid")
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(Defines())
	assert.Equal("0x0c", defines["DMA_OP_ADDR"])
	assert.Equal("1", defines["DMA_OP_MEMCPY"])
}
