// memory_bus.go - Emulated memory bus for texture data

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
Buy me a coffee: https://ko-fi.com/intuition/tip

License: GPLv3 or later
*/

/*
memory_bus.go - Emulated Memory Bus for the Texture Cache

This module implements the emulated machine's main memory as seen by the texture cache. Texture data and palettes live in it, the trace tool and tests write into it, and the cache resolves descriptor addresses against it at bind time.

Core Features:

    A contiguous block of main memory, 16MB by default.
    Memory-mapped I/O via an I/O region mapping table keyed by 256-byte pages, used by the texture unit registers.
    Little-endian 8-bit and 32-bit access plus bulk writes and fills.
    Bounds-checked address resolution returning a view of memory for hashing and upload.

Technical Details:

    Register and byte accesses outside memory behave like an open bus: writes are dropped and reads return zero.
    Resolve never wraps around the end of memory; a range that does not fit returns a MemoryError.
    The slice returned by Resolve aliases main memory. It stays valid until the next write to that range, which on the render thread means for the whole bind.

Concurrency:

    A sync.RWMutex protects all memory operations. I/O callbacks run with the write lock held and must not call back into the bus.

*/

package texcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
)

const (
	DEFAULT_MEMORY_SIZE = 16 * 1024 * 1024
	PAGE_SIZE           = 0x100
	PAGE_MASK           = 0xFFFFFF00
	WORD_SIZE           = 4
)

var ErrAddressOutOfRange = errors.New("address out of range")

// MemoryError reports an access that does not fit in main memory
type MemoryError struct {
	Addr       uint32
	Size       int
	MemorySize int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory range 0x%08X+%d outside %d bytes of memory", e.Addr, e.Size, e.MemorySize)
}

func (e *MemoryError) Unwrap() error {
	return ErrAddressOutOfRange
}

type MemoryBus interface {
	/*
		MemoryBus is the view of emulated memory shared by the CPU side
		(register and byte access, I/O mapping) and the texture cache
		(Resolve).
	*/

	TextureMemory

	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	WriteBytes(addr uint32, data []byte) error
	Fill(addr uint32, size int, value uint8) error
	MapIO(start, end uint32, onRead func(addr uint32) uint32, onWrite func(addr uint32, value uint32))
	Reset()
}

var _ MemoryBus = (*SystemBus)(nil)

type SystemBus struct {
	/*
		SystemBus implements MemoryBus and TextureMemory.

		It maintains a contiguous block of main memory and a
		mapping of memory-mapped I/O regions.
	*/

	memory  []byte
	mutex   sync.RWMutex
	mapping map[uint32][]IORegion
}

type IORegion struct {
	/*
		IORegion represents a memory-mapped I/O region. Callbacks are
		invoked when a 32-bit access falls within start..end inclusive.
	*/
	start   uint32
	end     uint32
	onRead  func(addr uint32) uint32
	onWrite func(addr uint32, value uint32)
}

func NewSystemBus(size int) *SystemBus {
	/*
		NewSystemBus allocates size bytes of main memory.
		A size of zero or less selects DEFAULT_MEMORY_SIZE.
	*/

	if size <= 0 {
		size = DEFAULT_MEMORY_SIZE
	}
	return &SystemBus{
		memory:  make([]byte, size),
		mapping: make(map[uint32][]IORegion),
	}
}

func (bus *SystemBus) Size() int {
	return len(bus.memory)
}

func (bus *SystemBus) MapIO(start, end uint32, onRead func(addr uint32) uint32, onWrite func(addr uint32, value uint32)) {
	/*
		MapIO registers a memory-mapped I/O region and appends it to the
		mapping for every page it spans.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	region := IORegion{
		start:   start,
		end:     end,
		onRead:  onRead,
		onWrite: onWrite,
	}
	firstPage := start & PAGE_MASK
	lastPage := end & PAGE_MASK
	for page := firstPage; ; page += PAGE_SIZE {
		bus.mapping[page] = append(bus.mapping[page], region)
		if page >= lastPage {
			break
		}
	}
}

// inRange reports whether size bytes at addr fit in memory
func (bus *SystemBus) inRange(addr uint32, size int) bool {
	return size >= 0 && uint64(addr)+uint64(size) <= uint64(len(bus.memory))
}

func (bus *SystemBus) Write32(addr uint32, value uint32) {
	/*
		Write32 performs a 32-bit little-endian write. Registered I/O
		regions see the write first; the value is then stored in memory.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end {
				if region.onWrite != nil {
					region.onWrite(addr, value)
				}
				break
			}
		}
	}

	if !bus.inRange(addr, WORD_SIZE) {
		return
	}
	binary.LittleEndian.PutUint32(bus.memory[addr:addr+WORD_SIZE], value)
}

func (bus *SystemBus) Read32(addr uint32) uint32 {
	/*
		Read32 performs a 32-bit little-endian read. A registered I/O
		region with a read callback supplies the value, which is also
		mirrored into memory.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if regions, exists := bus.mapping[addr&PAGE_MASK]; exists {
		for _, region := range regions {
			if addr >= region.start && addr <= region.end && region.onRead != nil {
				value := region.onRead(addr)
				if bus.inRange(addr, WORD_SIZE) {
					binary.LittleEndian.PutUint32(bus.memory[addr:addr+WORD_SIZE], value)
				}
				return value
			}
		}
	}

	if !bus.inRange(addr, WORD_SIZE) {
		return 0
	}
	return binary.LittleEndian.Uint32(bus.memory[addr : addr+WORD_SIZE])
}

// Write8 stores one byte. I/O regions are not consulted.
func (bus *SystemBus) Write8(addr uint32, value uint8) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if bus.inRange(addr, 1) {
		bus.memory[addr] = value
	}
}

func (bus *SystemBus) Read8(addr uint32) uint8 {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	if !bus.inRange(addr, 1) {
		return 0
	}
	return bus.memory[addr]
}

// WriteBytes copies data into memory at addr
func (bus *SystemBus) WriteBytes(addr uint32, data []byte) error {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if !bus.inRange(addr, len(data)) {
		return &MemoryError{Addr: addr, Size: len(data), MemorySize: len(bus.memory)}
	}
	copy(bus.memory[addr:], data)
	return nil
}

// Fill sets size bytes at addr to value
func (bus *SystemBus) Fill(addr uint32, size int, value uint8) error {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	if !bus.inRange(addr, size) {
		return &MemoryError{Addr: addr, Size: size, MemorySize: len(bus.memory)}
	}
	region := bus.memory[addr : int(addr)+size]
	for i := range region {
		region[i] = value
	}
	return nil
}

// Resolve returns the size bytes at addr as a view of main memory
func (bus *SystemBus) Resolve(addr uint32, size int) ([]byte, error) {
	bus.mutex.RLock()
	defer bus.mutex.RUnlock()

	if !bus.inRange(addr, size) {
		return nil, &MemoryError{Addr: addr, Size: size, MemorySize: len(bus.memory)}
	}
	end := int(addr) + size
	return bus.memory[addr:end:end], nil
}

func (bus *SystemBus) Reset() {
	/*
		Reset clears main memory. I/O mappings are kept.
	*/

	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	for i := range bus.memory {
		bus.memory[i] = 0
	}
}
