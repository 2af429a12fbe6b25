// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/ezrec/mcacc/config"
	"github.com/ezrec/mcacc/dct"
	"github.com/ezrec/mcacc/dma"
	"github.com/ezrec/mcacc/internal"
	"github.com/ezrec/mcacc/pe"
	"github.com/ezrec/mcacc/platform"
)

// CHECK_TOLERANCE is the largest accepted deviation from the double
// precision transform.
const CHECK_TOLERANCE = 0.1

// maxError returns the largest absolute difference between two matrices
// of the same shape.
func maxError(a, b dct.Matrix) (worst float64) {
	for i := range a {
		for j := range a[i] {
			worst = max(worst, math.Abs(float64(a[i][j])-float64(b[i][j])))
		}
	}
	return
}

func main() {
	var script string
	var input string
	var output string
	var useDma bool
	var delay time.Duration
	var verbose bool
	var check bool
	var defines bool

	flag.StringVar(&script, "f", "", "Starlark platform configuration")
	flag.StringVar(&input, "i", config.DEFAULT_INPUT, "Input matrix")
	flag.StringVar(&output, "o", config.DEFAULT_OUTPUT, "Output matrix")
	flag.BoolVar(&useDma, "dma", true, "Move data with the DMA engine")
	flag.DurationVar(&delay, "delay", 0, "Latency of each bus transaction")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&check, "check", false, "Compare the output with a double precision DCT")
	flag.BoolVar(&defines, "defines", false, "Print the platform defines, do not execute")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	opts := config.Default()
	if len(script) != 0 {
		var err error
		opts, err = config.Load(script, nil, internal.IterSeq2Concat(pe.Defines(), dma.Defines()))
		if err != nil {
			log.Fatalf("%v: %v", script, err)
		}
	}

	// Flags given on the command line override the configuration.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "i":
			opts.Input = input
		case "o":
			opts.Output = output
		case "dma":
			opts.UseDma = useDma
		case "delay":
			opts.Delay = delay
		case "v":
			opts.Verbose = verbose
		}
	})

	plat, err := platform.NewPlatform(opts)
	if err != nil {
		log.Fatal(err)
	}

	if defines {
		for key, value := range plat.Defines() {
			fmt.Printf("%v=%v\n", key, value)
		}
		return
	}

	result, err := plat.Run(os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	if check {
		mat, err := dct.LoadMatrix(opts.Input)
		if err != nil {
			log.Fatalf("%v: %v", opts.Input, err)
		}
		worst := maxError(dct.Reference(mat), result)
		if worst > CHECK_TOLERANCE {
			log.Fatalf("check: max error %g exceeds %g", worst, CHECK_TOLERANCE)
		}
		log.Printf("check: max error %g", worst)
	}
}
