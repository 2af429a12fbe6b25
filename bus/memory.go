package bus

import (
	"log"
	"sync"
	"time"
)

// Memory is a flat byte-addressed RAM target.
type Memory struct {
	Verbose bool

	mutex sync.RWMutex
	data  []byte
}

var _ Target = (*Memory)(nil)

// NewMemory creates a zeroed memory of size bytes.
func NewMemory(size uint64) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, size),
	}
	return
}

// Size returns the memory size in bytes.
func (mem *Memory) Size() uint64 {
	return uint64(len(mem.data))
}

// Transport copies between the payload and memory. Accesses that do not
// fit in the memory complete with ADDRESS_ERROR_RESPONSE.
func (mem *Memory) Transport(payload *Payload, delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}

	length := uint64(len(payload.Data))
	if payload.Address >= mem.Size() || length > mem.Size()-payload.Address {
		if mem.Verbose {
			log.Printf("memory: %v 0x%08x+%d out of range", payload.Command, payload.Address, length)
		}
		payload.Status = ADDRESS_ERROR_RESPONSE
		return
	}

	window := mem.data[payload.Address : payload.Address+length]
	switch payload.Command {
	case READ_COMMAND:
		mem.mutex.RLock()
		copy(payload.Data, window)
		mem.mutex.RUnlock()
	case WRITE_COMMAND:
		mem.mutex.Lock()
		copy(window, payload.Data)
		mem.mutex.Unlock()
	default:
		payload.Status = GENERIC_ERROR_RESPONSE
		return
	}

	payload.Status = OK_RESPONSE
}
