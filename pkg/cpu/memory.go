package cpu

import (
	"errors"
	"fmt"
)

// MemorySize covers the whole 16-bit address space.
const MemorySize = 0x10000

// ResetFill is the byte every location holds after a reset.
const ResetFill uint8 = 0x01

const (
	romBankSize   = 0x4000
	upperROMStart = 0xC000
)

// ErrROMSize is returned when a ROM image is neither 16 KiB nor 32 KiB.
var ErrROMSize = errors.New("cpu: unexpected ROM size")

// Memory is a flat 64 KiB byte store addressed by 16-bit addresses.
type Memory struct {
	locations [MemorySize]uint8
}

// Reset fills every location with ResetFill.
func (m *Memory) Reset() {
	for i := range m.locations {
		m.locations[i] = ResetFill
	}
}

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) uint8 {
	return m.locations[addr]
}

// Write stores v at addr.
func (m *Memory) Write(addr uint16, v uint8) {
	m.locations[addr] = v
}

// ReadWord reads a little-endian word; the second byte wraps to 0x0000 past 0xFFFF.
func (m *Memory) ReadWord(addr uint16) uint16 {
	return Word(m.locations[addr+1], m.locations[addr])
}

// WriteWord stores a little-endian word, low byte first.
func (m *Memory) WriteWord(addr uint16, v uint16) {
	hi, lo := Split(v)
	m.locations[addr] = lo
	m.locations[addr+1] = hi
}

// Load copies data into memory starting at addr, stopping at the end of the
// address space. It returns the number of bytes copied.
func (m *Memory) Load(addr uint16, data []byte) int {
	return copy(m.locations[addr:], data)
}

// Bytes exposes the backing store. Callers must not retain it across instructions.
func (m *Memory) Bytes() []byte {
	return m.locations[:]
}

// LoadROM maps a ROM image: 16 KiB goes to 0000-3FFF; a 32 KiB image also
// maps its second half to C000-FFFF.
func (m *Memory) LoadROM(rom []byte) error {
	switch len(rom) {
	case romBankSize:
		m.Load(0, rom)
	case 2 * romBankSize:
		m.Load(0, rom[:romBankSize])
		m.Load(upperROMStart, rom[romBankSize:])
	default:
		return fmt.Errorf("%w: %d bytes", ErrROMSize, len(rom))
	}
	return nil
}
