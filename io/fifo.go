// Package io provides the blocking queues and word codecs used by bus
// devices.
package io

import (
	"sync"
)

const (
	// FIFO_DEFAULT_CAPACITY is the initial element capacity of a Fifo.
	FIFO_DEFAULT_CAPACITY = 16
)

// Fifo is an unbounded, blocking first-in first-out queue.
//
// Send never blocks; the buffer grows as needed. Receive blocks until
// an element is available. There is no close, and no timeout: a
// Receive on a Fifo that is never sent to blocks forever.
type Fifo[T any] struct {
	mutex sync.Mutex
	ready sync.Cond

	readIndex  int
	writeIndex int
	size       int
	data       []T
}

// NewFifo creates an empty Fifo.
func NewFifo[T any]() (fifo *Fifo[T]) {
	fifo = &Fifo[T]{
		data: make([]T, FIFO_DEFAULT_CAPACITY),
	}
	fifo.ready.L = &fifo.mutex
	return
}

// grow doubles the ring, unwrapping it so that the oldest element is
// at index 0.
func (fifo *Fifo[T]) grow() {
	data := make([]T, 2*len(fifo.data))
	n := copy(data, fifo.data[fifo.readIndex:])
	copy(data[n:], fifo.data[:fifo.readIndex])
	fifo.data = data
	fifo.readIndex = 0
	fifo.writeIndex = fifo.size
}

// Send appends a value to the queue, waking one blocked receiver.
func (fifo *Fifo[T]) Send(value T) {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	if fifo.size == len(fifo.data) {
		fifo.grow()
	}

	fifo.data[fifo.writeIndex] = value
	fifo.writeIndex++
	if fifo.writeIndex == len(fifo.data) {
		fifo.writeIndex = 0
	}
	fifo.size++

	fifo.ready.Signal()
}

// Receive removes and returns the oldest value, blocking while the
// queue is empty.
func (fifo *Fifo[T]) Receive() (value T) {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	for fifo.size == 0 {
		fifo.ready.Wait()
	}

	var zero T
	value = fifo.data[fifo.readIndex]
	fifo.data[fifo.readIndex] = zero
	fifo.readIndex++
	if fifo.readIndex == len(fifo.data) {
		fifo.readIndex = 0
	}
	fifo.size--

	return
}

// Len returns the number of queued elements.
func (fifo *Fifo[T]) Len() int {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	return fifo.size
}
