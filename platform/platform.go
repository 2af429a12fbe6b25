// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package platform wires memory, accelerators and the DMA engine onto a
// bus and runs one hart per accelerator.
package platform

import (
	"fmt"
	"io"
	"iter"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/config"
	"github.com/ezrec/mcacc/dct"
	"github.com/ezrec/mcacc/dma"
	"github.com/ezrec/mcacc/internal"
	"github.com/ezrec/mcacc/pe"
)

const (
	SCRATCH_SIZE = 0x10 // Bytes reserved per hart at the top of memory.
)

var _platform_defines = map[string]string{
	"SCRATCH_SIZE": fmt.Sprintf("%v", SCRATCH_SIZE),
}

// Platform state. Memory + accelerators + DMA + harts.
type Platform struct {
	Options config.Options // Layout the platform was built from.

	Bus    *bus.Bus    // System bus.
	Memory *bus.Memory // Main memory.
	PE     []*pe.PE    // Accelerators, one per hart.
	DMA    *dma.DMA    // Transfer engine.
	Harts  []*dct.Hart
}

// NewPlatform builds and maps every device of opts. The layout is
// validated before any accelerator pipeline is started.
func NewPlatform(opts config.Options) (plat *Platform, err error) {
	err = opts.Validate()
	if err != nil {
		return
	}

	workers := opts.Workers()
	if opts.MemorySize < uint64(workers*SCRATCH_SIZE) {
		err = &ErrLayout{Device: "MEM", Err: ErrScratch}
		return
	}

	plat = &Platform{
		Options: opts,
		Bus:     &bus.Bus{Verbose: opts.Verbose},
		Memory:  bus.NewMemory(opts.MemorySize),
	}

	plat.Memory.Verbose = opts.Verbose

	plat.DMA = dma.NewDMA(plat.Bus)
	plat.DMA.Verbose = opts.Verbose
	plat.DMA.Delay = opts.Delay

	mapDevice := func(name string, start, size uint64, target bus.Target) {
		if err == nil {
			err = plat.Bus.Map(name, start, start+size-1, target)
		}
	}

	mapDevice("MEM", opts.MemoryStart, opts.MemorySize, plat.Memory)
	mapDevice("DMA", opts.DmaBase, opts.DmaSize, plat.DMA)

	memEnd := opts.MemoryStart + opts.MemorySize
	for w, base := range opts.PeBases {
		name := fmt.Sprintf("PE%d", w+1)
		accel := pe.NewPE(name)
		accel.Verbose = opts.Verbose
		mapDevice(name, base, opts.PeSize, accel)
		plat.PE = append(plat.PE, accel)

		plat.Harts = append(plat.Harts, &dct.Hart{
			Id:      w,
			Verbose: opts.Verbose,
			Bus:     plat.Bus,
			PE:      base,
			Scratch: memEnd - uint64(w+1)*SCRATCH_SIZE,
			Transfer: &dma.Transfer{
				Bus:    plat.Bus,
				Base:   opts.DmaBase,
				Direct: !opts.UseDma,
				Delay:  opts.Delay,
			},
			Delay: opts.Delay,
		})
	}

	if err != nil {
		plat = nil
	}

	return
}

// Defines returns an iterator over all of the defines.
func (plat *Platform) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_platform_defines),
		plat.Options.Defines(),
		plat.Bus.Defines(),
		pe.Defines(),
		dma.Defines(),
	)
}

// Run executes the offload on every hart and returns the output matrix.
// Completion lines are written to console.
func (plat *Platform) Run(console io.Writer) (output dct.Matrix, err error) {
	shared := dct.NewShared(len(plat.Harts), plat.Options.Input, plat.Options.Output)
	shared.Console = console

	var group errgroup.Group
	for _, hart := range plat.Harts {
		group.Go(func() error {
			return hart.Run(shared)
		})
	}

	err = group.Wait()
	if err != nil {
		return
	}

	output = shared.Result()
	return
}
