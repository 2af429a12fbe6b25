// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config describes the platform layout and the offload run, and
// loads both from Starlark configuration files.
package config

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/ezrec/mcacc/internal"
)

const (
	DEFAULT_MEMORY_START = 0x00000000
	DEFAULT_MEMORY_SIZE  = 32 << 20 // 32 MiB
	DEFAULT_PE1_BASE     = 0x03000000
	DEFAULT_PE2_BASE     = 0x03100000
	DEFAULT_PE_SIZE      = 1 << 20 // 1 MiB window per accelerator
	DEFAULT_DMA_BASE     = 0x70000000
	DEFAULT_DMA_SIZE     = 0x1000
	DEFAULT_INPUT        = "dct_testcase.txt"
	DEFAULT_OUTPUT       = "dct_out.txt"
)

// Options is the platform layout and run configuration. Each accelerator
// in PeBases gets one hart.
type Options struct {
	MemoryStart uint64        // Bus address of main memory.
	MemorySize  uint64        // Bytes of main memory.
	PeBases     []uint64      // Bus address of each accelerator window.
	PeSize      uint64        // Bytes of each accelerator window.
	DmaBase     uint64        // Bus address of the DMA register window.
	DmaSize     uint64        // Bytes of the DMA register window.
	UseDma      bool          // If set, harts move data with the DMA engine.
	Delay       time.Duration // Latency of each bus transaction.
	Input       string        // Input matrix file.
	Output      string        // Output matrix file.
	Verbose     bool
}

// Default returns the two hart, two accelerator layout.
func Default() (opts Options) {
	opts = Options{
		MemoryStart: DEFAULT_MEMORY_START,
		MemorySize:  DEFAULT_MEMORY_SIZE,
		PeBases:     []uint64{DEFAULT_PE1_BASE, DEFAULT_PE2_BASE},
		PeSize:      DEFAULT_PE_SIZE,
		DmaBase:     DEFAULT_DMA_BASE,
		DmaSize:     DEFAULT_DMA_SIZE,
		UseDma:      true,
		Input:       DEFAULT_INPUT,
		Output:      DEFAULT_OUTPUT,
	}
	return
}

// Workers returns the number of harts.
func (opts *Options) Workers() int {
	return len(opts.PeBases)
}

// Validate checks that the layout can be built.
func (opts *Options) Validate() (err error) {
	check := func(name string, ok bool) {
		if err == nil && !ok {
			err = &ErrOption{Name: name, Err: ErrConfigValue}
		}
	}

	check("MEMORY_SIZE", opts.MemorySize > 0)
	check("PE_BASES", len(opts.PeBases) > 0)
	check("PE_SIZE", opts.PeSize > 0)
	check("DMA_SIZE", opts.DmaSize > 0)
	check("DELAY_NS", opts.Delay >= 0)
	check("INPUT", opts.Input != "")
	if err != nil {
		return
	}

	// Harts and the DMA engine use 32-bit bus addresses.
	wins := opts.windows()
	for n, win := range wins {
		if win.end < win.start || win.end > math.MaxUint32 {
			err = &ErrOption{Name: win.key, Err: ErrConfigValue}
			return
		}
		for _, other := range wins[:n] {
			if win.start <= other.end && other.start <= win.end {
				err = &ErrOption{Name: win.key, Err: ErrConfigOverlap}
				return
			}
		}
	}

	return
}

// window is an inclusive bus address range.
type window struct {
	key   string
	start uint64
	end   uint64
}

func (opts *Options) windows() (wins []window) {
	span := func(key string, start, size uint64) window {
		return window{key: key, start: start, end: start + size - 1}
	}

	wins = append(wins, span("MEMORY_START", opts.MemoryStart, opts.MemorySize))
	wins = append(wins, span("DMA_BASE", opts.DmaBase, opts.DmaSize))
	for _, base := range opts.PeBases {
		wins = append(wins, span("PE_BASES", base, opts.PeSize))
	}
	return
}

// Defines returns the configuration as defines.
func (opts *Options) Defines() iter.Seq2[string, string] {
	hex := func(value uint64) string {
		return fmt.Sprintf("0x%08x", value)
	}

	defines := map[string]string{
		"MEMORY_START": hex(opts.MemoryStart),
		"MEMORY_SIZE":  hex(opts.MemorySize),
		"PE_SIZE":      hex(opts.PeSize),
		"DMA_BASE":     hex(opts.DmaBase),
		"DMA_SIZE":     hex(opts.DmaSize),
		"USE_DMA":      fmt.Sprintf("%v", opts.UseDma),
		"DELAY_NS":     fmt.Sprintf("%v", opts.Delay.Nanoseconds()),
		"WORKERS":      fmt.Sprintf("%v", opts.Workers()),
	}

	return internal.IterSorted(defines)
}
