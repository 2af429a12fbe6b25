package dct

import (
	"fmt"
	"io"
	"os"

	"github.com/ezrec/mcacc/sema"
)

// Shared is the state every hart of one offload run sees.
type Shared struct {
	Input   string    // Input matrix file, read by hart 0.
	Output  string    // Output matrix file, written by the last hart.
	Console io.Writer // Completion messages; os.Stdout if nil.

	workers int
	lock    *sema.Mutex       // Serializes accelerator access and output updates.
	ready   *sema.Semaphore   // Posted once per other hart after setup.
	order   []*sema.Semaphore // order[w] allows hart w to finish.
	barrier *sema.Barrier

	setupErr error // Written by hart 0 before ready is posted.
	input    Matrix
	output   Matrix
}

// NewShared prepares the synchronization objects for workers harts.
func NewShared(workers int, input, output string) (shared *Shared) {
	workers = max(workers, 1)

	shared = &Shared{
		Input:   input,
		Output:  output,
		workers: workers,
		lock:    sema.NewMutex(),
		ready:   sema.NewSemaphore(0),
		order:   make([]*sema.Semaphore, workers),
		barrier: sema.NewBarrier(uint32(workers)),
	}

	for w := range shared.order {
		shared.order[w] = sema.NewSemaphore(0)
	}

	return
}

// Workers returns the number of harts taking part.
func (shared *Shared) Workers() int {
	return shared.workers
}

// Result returns the output matrix. It is complete once every hart has
// returned.
func (shared *Shared) Result() Matrix {
	return shared.output
}

func (shared *Shared) console() io.Writer {
	if shared.Console == nil {
		return os.Stdout
	}
	return shared.Console
}

// setup loads the input and allocates the zeroed output.
func (shared *Shared) setup() (err error) {
	shared.input, err = LoadMatrix(shared.Input)
	if err != nil {
		return
	}

	shared.output = NewMatrix(shared.input.Rows(), shared.input.Cols())
	return
}

// release lets the other harts past setup.
func (shared *Shared) release() {
	for range shared.workers - 1 {
		shared.ready.Post()
	}
}

// finish prints the completion line of hart id in hart order. The last
// hart stores the output.
func (shared *Shared) finish(id int) (err error) {
	if id > 0 {
		shared.order[id].Wait()
	}

	fmt.Fprintf(shared.console(), "core%d is finished\n", id)

	if id+1 < shared.workers {
		shared.order[id+1].Post()
		return
	}

	if shared.Output != "" {
		err = shared.output.Store(shared.Output)
	}
	return
}
