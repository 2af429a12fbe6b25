// Package sema provides counting semaphores, mutexes and barriers built
// from compare-and-swap retry loops.
//
// None of the primitives are fair, and none of them time out: a waiter
// whose condition never becomes true spins forever.
package sema

import (
	"runtime"
	"sync/atomic"
)

// Semaphore is a counting semaphore. The count is never negative.
type Semaphore struct {
	count atomic.Uint32
}

// NewSemaphore creates a semaphore with an initial count.
func NewSemaphore(count uint32) (sem *Semaphore) {
	sem = &Semaphore{}
	sem.Init(count)
	return
}

// Init sets the count. It must not race with Wait or Post.
func (sem *Semaphore) Init(count uint32) {
	sem.count.Store(count)
}

// Value returns the current count.
func (sem *Semaphore) Value() uint32 {
	return sem.count.Load()
}

// Wait spins until the count is non-zero, then decrements it.
func (sem *Semaphore) Wait() {
	for !sem.TryWait() {
		runtime.Gosched()
	}
}

// TryWait decrements the count if it is non-zero, without spinning on
// an empty semaphore.
func (sem *Semaphore) TryWait() (ok bool) {
	for {
		value := sem.count.Load()
		if value == 0 {
			return
		}
		if sem.count.CompareAndSwap(value, value-1) {
			ok = true
			return
		}
	}
}

// Post increments the count.
func (sem *Semaphore) Post() {
	for {
		value := sem.count.Load()
		if sem.count.CompareAndSwap(value, value+1) {
			return
		}
	}
}

// Mutex is a binary semaphore guarding a critical section.
type Mutex struct {
	sem Semaphore
}

// NewMutex creates an unlocked mutex.
func NewMutex() (mutex *Mutex) {
	mutex = &Mutex{}
	mutex.sem.Init(1)
	return
}

// Lock waits for the mutex.
func (mutex *Mutex) Lock() {
	mutex.sem.Wait()
}

// Unlock releases the mutex.
func (mutex *Mutex) Unlock() {
	mutex.sem.Post()
}

// Barrier blocks callers of Enter until capacity callers have arrived.
type Barrier struct {
	capacity uint32
	counter  uint32 // Guarded by lock.
	lock     *Mutex
	release  *Semaphore
}

// NewBarrier creates a barrier for capacity participants.
func NewBarrier(capacity uint32) (barrier *Barrier) {
	barrier = &Barrier{
		capacity: max(capacity, 1),
		lock:     NewMutex(),
		release:  NewSemaphore(0),
	}
	return
}

// Capacity returns the number of participants.
func (barrier *Barrier) Capacity() uint32 {
	return barrier.capacity
}

// Enter waits until all participants have entered. The last arrival
// resets the counter before releasing the others.
func (barrier *Barrier) Enter() {
	barrier.lock.Lock()
	if barrier.counter+1 >= barrier.capacity {
		barrier.counter = 0
		barrier.lock.Unlock()
		for range barrier.capacity - 1 {
			barrier.release.Post()
		}
	} else {
		barrier.counter++
		barrier.lock.Unlock()
		barrier.release.Wait()
	}
}
