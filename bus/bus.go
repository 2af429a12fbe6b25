// Package bus models the address-decoded system bus that connects the
// harts, memory and the memory-mapped devices.
//
// A transaction is a Payload carried to a Target. The Bus routes each
// transaction to the target mapped at its address, rebasing the address
// to the start of the target's window.
package bus

import (
	"encoding/binary"
	"fmt"
	"iter"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/ezrec/mcacc/io"
)

// Command is the direction of a transaction.
type Command int

//go:generate go tool stringer -linecomment -type=Command
const (
	READ_COMMAND   = Command(0) // read
	WRITE_COMMAND  = Command(1) // write
	IGNORE_COMMAND = Command(2) // ignore
)

// Status is the completion status of a transaction.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	INCOMPLETE_RESPONSE    = Status(0) // incomplete
	OK_RESPONSE            = Status(1) // ok
	GENERIC_ERROR_RESPONSE = Status(2) // generic error
	ADDRESS_ERROR_RESPONSE = Status(3) // address error
)

// Payload is a single bus transaction.
type Payload struct {
	Command Command
	Address uint64
	Data    []byte
	Status  Status
}

// Target is a device that accepts transactions.
//
// Transport may block the caller; delay is the latency to model before
// the transaction is processed.
type Target interface {
	Transport(payload *Payload, delay time.Duration)
}

// Mapping is an inclusive address range routed to a target.
type Mapping struct {
	Name   string
	Start  uint64
	End    uint64
	Target Target
}

// Bus routes transactions to mapped targets.
type Bus struct {
	Verbose bool // If set, logs every routed transaction.

	mutex sync.RWMutex
	ports []Mapping
}

var _ Target = (*Bus)(nil)

// Map attaches a target to the inclusive range [start, end].
func (bus *Bus) Map(name string, start, end uint64, target Target) (err error) {
	if end < start || target == nil {
		err = &ErrMapping{Name: name, Start: start, End: end, Err: ErrMappingInvalid}
		return
	}

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	for _, port := range bus.ports {
		if start <= port.End && port.Start <= end {
			err = &ErrMapping{Name: name, Start: start, End: end, Err: ErrMappingOverlap}
			return
		}
	}

	bus.ports = append(bus.ports, Mapping{Name: name, Start: start, End: end, Target: target})
	slices.SortFunc(bus.ports, func(a, b Mapping) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})

	return
}

// Mappings returns an iterator over the mapped ranges, in address order.
func (bus *Bus) Mappings() iter.Seq[Mapping] {
	bus.mutex.RLock()
	ports := slices.Clone(bus.ports)
	bus.mutex.RUnlock()

	return slices.Values(ports)
}

// Defines returns the mapped ranges as NAME_START/NAME_END defines.
func (bus *Bus) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for port := range bus.Mappings() {
			if !yield(port.Name+"_START", fmt.Sprintf("0x%08x", port.Start)) {
				return
			}
			if !yield(port.Name+"_END", fmt.Sprintf("0x%08x", port.End)) {
				return
			}
		}
	}
}

func (bus *Bus) decode(address uint64) (port Mapping, ok bool) {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	n, found := slices.BinarySearchFunc(bus.ports, address, func(m Mapping, addr uint64) int {
		switch {
		case m.End < addr:
			return -1
		case m.Start > addr:
			return 1
		}
		return 0
	})
	if found {
		port = bus.ports[n]
		ok = true
	}
	return
}

// Transport routes the payload to the target mapped at its address.
// Unmapped addresses complete with ADDRESS_ERROR_RESPONSE.
func (bus *Bus) Transport(payload *Payload, delay time.Duration) {
	port, ok := bus.decode(payload.Address)
	if !ok {
		if bus.Verbose {
			log.Printf("bus: %v 0x%08x unmapped", payload.Command, payload.Address)
		}
		payload.Status = ADDRESS_ERROR_RESPONSE
		return
	}

	if bus.Verbose {
		log.Printf("bus: %v 0x%08x -> %v", payload.Command, payload.Address, port.Name)
	}

	address := payload.Address
	payload.Address -= port.Start
	port.Target.Transport(payload, delay)
	payload.Address = address
}

// transact issues one transaction and checks its status.
func transact(target Target, command Command, address uint64, data []byte, delay time.Duration) (err error) {
	payload := &Payload{
		Command: command,
		Address: address,
		Data:    data,
		Status:  INCOMPLETE_RESPONSE,
	}
	target.Transport(payload, delay)
	if payload.Status != OK_RESPONSE {
		err = &ErrTransaction{Command: command, Address: address, Status: payload.Status}
	}
	return
}

// Read fills p from the target, one word per transaction.
func Read(target Target, address uint64, p []byte, delay time.Duration) (err error) {
	for offset := 0; offset < len(p); offset += io.WORD_SIZE {
		end := min(offset+io.WORD_SIZE, len(p))
		err = transact(target, READ_COMMAND, address+uint64(offset), p[offset:end], delay)
		if err != nil {
			return
		}
	}
	return
}

// Write stores p to the target, one word per transaction.
func Write(target Target, address uint64, p []byte, delay time.Duration) (err error) {
	for offset := 0; offset < len(p); offset += io.WORD_SIZE {
		end := min(offset+io.WORD_SIZE, len(p))
		err = transact(target, WRITE_COMMAND, address+uint64(offset), p[offset:end], delay)
		if err != nil {
			return
		}
	}
	return
}

// Copy moves length bytes from src to dst, one word at a time: each word
// is read completely before it is written.
func Copy(target Target, dst, src uint64, length int, delay time.Duration) (err error) {
	var word [io.WORD_SIZE]byte
	for offset := 0; offset < length; offset += io.WORD_SIZE {
		chunk := word[:min(io.WORD_SIZE, length-offset)]
		err = transact(target, READ_COMMAND, src+uint64(offset), chunk, delay)
		if err != nil {
			return
		}
		err = transact(target, WRITE_COMMAND, dst+uint64(offset), chunk, delay)
		if err != nil {
			return
		}
	}
	return
}

// Load32 reads a 32-bit little-endian word.
func Load32(target Target, address uint64, delay time.Duration) (value uint32, err error) {
	var word [io.WORD_SIZE]byte
	err = transact(target, READ_COMMAND, address, word[:], delay)
	if err != nil {
		return
	}
	value = binary.LittleEndian.Uint32(word[:])
	return
}

// Store32 writes a 32-bit little-endian word.
func Store32(target Target, address uint64, value uint32, delay time.Duration) (err error) {
	var word [io.WORD_SIZE]byte
	binary.LittleEndian.PutUint32(word[:], value)
	err = transact(target, WRITE_COMMAND, address, word[:], delay)
	return
}
