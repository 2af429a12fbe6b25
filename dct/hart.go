// Package dct computes the row-wise DCT-II of a matrix on several harts,
// each evaluating its cosines on its own CORDIC accelerator.
package dct

import (
	"errors"
	"log"
	"time"

	"github.com/ezrec/mcacc/bus"
	"github.com/ezrec/mcacc/dma"
	"github.com/ezrec/mcacc/io"
	"github.com/ezrec/mcacc/pe"
)

// Hart is one host worker. Each hart owns one accelerator and one
// scratch buffer in memory.
type Hart struct {
	Id       int
	Verbose  bool
	Bus      bus.Target    // Bus for scratch buffer accesses.
	PE       uint64        // Bus address of the hart's accelerator window.
	Scratch  uint64        // Bus address of a pe.PE_INPUT_SIZE byte buffer.
	Transfer *dma.Transfer // Moves the scratch buffer to and from the accelerator.
	Delay    time.Duration // Latency of each scratch buffer access.
}

// Run performs the hart's share of the row-wise DCT-II in shared.
//
// A hart that fails after setup still enters the barrier and takes its
// turn finishing, so that its peers complete.
func (hart *Hart) Run(shared *Shared) (err error) {
	if hart.Id < 0 || hart.Id >= shared.workers {
		err = &ErrHart{Id: hart.Id, Err: ErrHartId}
		return
	}

	if hart.Id == 0 {
		shared.setupErr = shared.setup()
		shared.release()
	} else {
		shared.ready.Wait()
	}

	if shared.setupErr != nil {
		err = &ErrHart{Id: hart.Id, Err: errors.Join(ErrSetup, shared.setupErr)}
		return
	}

	err = hart.compute(shared)

	shared.barrier.Enter()

	ferr := shared.finish(hart.Id)
	if err == nil {
		err = ferr
	}

	if err != nil {
		err = &ErrHart{Id: hart.Id, Err: err}
	}

	return
}

// compute adds the hart's partial sums to the shared output.
func (hart *Hart) compute(shared *Shared) (err error) {
	input := shared.input
	m := input.Cols()

	for i := range input.Rows() {
		for j := range m {
			var sum float32
			for k := hart.Id; k < m; k += shared.workers {
				var cos float32
				cos, err = hart.cosine(shared, Phase(k, j, m))
				if err != nil {
					return
				}
				sum += input[i][k] * cos
			}
			sum = float32(float64(sum) * Scale(j, m))

			shared.lock.Lock()
			shared.output[i][j] += sum
			shared.lock.Unlock()

			if hart.Verbose {
				log.Printf("core%d: [%d][%d] += %g", hart.Id, i, j, sum)
			}
		}
	}

	return
}

// cosine evaluates cos(phase) on the hart's accelerator.
func (hart *Hart) cosine(shared *Shared, phase float32) (cos float32, err error) {
	buffer := io.PackFloat32(1.0, 0.0, PhaseCorrection(phase))

	err = bus.Write(hart.Bus, hart.Scratch, buffer, hart.Delay)
	if err != nil {
		return
	}

	// The write and the read back form one accelerator transaction.
	shared.lock.Lock()
	err = hart.Transfer.Copy(hart.PE+pe.PE_INPUT_A_ADDR, hart.Scratch, pe.PE_INPUT_SIZE)
	if err == nil {
		err = hart.Transfer.Copy(hart.Scratch, hart.PE+pe.PE_OUTPUT_A_ADDR, pe.PE_OUTPUT_SIZE)
	}
	shared.lock.Unlock()
	if err != nil {
		return
	}

	err = bus.Read(hart.Bus, hart.Scratch, buffer, hart.Delay)
	if err != nil {
		return
	}

	cos = io.Float32(buffer)
	return
}
