// Package mmu provides a flat 64 KiB memory for the CPU. It owns all
// storage; the CPU only reads and writes through it.
package mmu

import (
	"github.com/thelolagemann/lr35902/internal/types"
	"github.com/thelolagemann/lr35902/pkg/log"
)

const (
	// Size is the size of the address space.
	Size = 0x10000
	// ROMSize is the size of the region a ROM image is loaded into
	// (0x0000 - 0x7FFF).
	ROMSize = 0x8000
)

// MMU is a byte addressable 64 KiB memory. Every address is independently
// readable and writable; there is no banking or memory mapped I/O.
type MMU struct {
	raw [Size]uint8

	Log log.Logger
}

// NewMMU returns a new, zeroed MMU.
func NewMMU() *MMU {
	return &MMU{
		Log: log.NewNullLogger(),
	}
}

// Read returns the byte at addr.
func (m *MMU) Read(addr uint16) uint8 {
	return m.raw[addr]
}

// Write stores value at addr.
func (m *MMU) Write(addr uint16, value uint8) {
	m.raw[addr] = value
}

// LoadROM copies a ROM image into 0x0000 - 0x7FFF. Images larger than
// 32 KiB are truncated. It returns the number of bytes loaded.
func (m *MMU) LoadROM(rom []byte) int {
	if len(rom) > ROMSize {
		m.Log.Errorf("rom is %d bytes, only the first %d are loaded", len(rom), ROMSize)
		rom = rom[:ROMSize]
	}
	return copy(m.raw[:ROMSize], rom)
}

// LoadAt copies data starting at addr, wrapping at the end of the
// address space.
func (m *MMU) LoadAt(addr uint16, data []byte) {
	for i, b := range data {
		m.raw[addr+uint16(i)] = b
	}
}

// Dump returns a copy of n bytes starting at addr, wrapping at the end of
// the address space.
func (m *MMU) Dump(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.raw[addr+uint16(i)]
	}
	return out
}

// Reset zeroes the whole address space.
func (m *MMU) Reset() {
	m.raw = [Size]uint8{}
}

var _ types.Stater = (*MMU)(nil)

// Load restores all 64 KiB of memory, starting at address 0x0000.
func (m *MMU) Load(s *types.State) {
	s.ReadData(m.raw[:])
}

// Save writes all 64 KiB of memory, starting at address 0x0000.
func (m *MMU) Save(s *types.State) {
	s.WriteData(m.raw[:])
}
