package cpu

import (
	"fmt"
	"testing"

	"github.com/thelolagemann/lr35902/internal/mmu"
)

// testInstruction runs fn against a fresh CPU with opcode at PC.
func testInstruction(t *testing.T, name string, opcode uint8, fn func(t *testing.T, c *CPU, m *mmu.MMU)) {
	t.Helper()
	t.Run(fmt.Sprintf("0x%02X %s", opcode, name), func(t *testing.T) {
		c, m := newTestCPU(opcode)
		fn(t, c, m)
	})
}

// expectCost steps c and checks the cycles and PC advance.
func expectCost(t *testing.T, c *CPU, cycles uint64, length uint16) {
	t.Helper()
	pc, before := c.PC, c.Cycles()
	if err := c.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Cycles() - before; got != cycles {
		t.Errorf("expected %d cycles, got %d", cycles, got)
	}
	if c.PC != pc+length {
		t.Errorf("expected PC 0x%04X, got 0x%04X", pc+length, c.PC)
	}
}

func TestInstruction_Load(t *testing.T) {
	// 0x40 - 0x7F - LD r, r'
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == hlIndex || src == hlIndex {
				continue
			}
			name := "LD " + registerNames[dst] + ", " + registerNames[src]
			testInstruction(t, name, 0x40+dst<<3+src, func(t *testing.T, c *CPU, m *mmu.MMU) {
				*c.registerIndex(src) = 0x5A
				c.F = 0x50
				expectCost(t, c, 4, 1)

				if *c.registerIndex(dst) != 0x5A {
					t.Errorf("expected %s to be 0x5A, got 0x%02X", registerNames[dst], *c.registerIndex(dst))
				}
				if c.F != 0x50 {
					t.Errorf("expected flags to be unchanged, got 0x%02X", c.F)
				}
			})
		}
	}

	// LD r, d8
	for dst := uint8(0); dst < 8; dst++ {
		if dst == hlIndex {
			continue
		}
		testInstruction(t, "LD "+registerNames[dst]+", d8", 0x06+dst<<3, func(t *testing.T, c *CPU, m *mmu.MMU) {
			m.Write(0x0101, 0x42)
			flags := c.F
			expectCost(t, c, 8, 2)

			if *c.registerIndex(dst) != 0x42 {
				t.Errorf("expected %s to be 0x42, got 0x%02X", registerNames[dst], *c.registerIndex(dst))
			}
			if c.F != flags {
				t.Errorf("expected flags to be unchanged, got 0x%02X", c.F)
			}
		})
	}

	// LD r, (HL)
	for dst := uint8(0); dst < 8; dst++ {
		if dst == hlIndex {
			continue
		}
		testInstruction(t, "LD "+registerNames[dst]+", (HL)", 0x46+dst<<3, func(t *testing.T, c *CPU, m *mmu.MMU) {
			c.HL.SetUint16(0xC234)
			m.Write(0xC234, 0x42)
			expectCost(t, c, 8, 1)

			if *c.registerIndex(dst) != 0x42 {
				t.Errorf("expected %s to be 0x42, got 0x%02X", registerNames[dst], *c.registerIndex(dst))
			}
		})
	}

	// LD (HL), r
	for src := uint8(0); src < 8; src++ {
		if src == hlIndex {
			continue
		}
		testInstruction(t, "LD (HL), "+registerNames[src], 0x70+src, func(t *testing.T, c *CPU, m *mmu.MMU) {
			*c.registerIndex(src) = 0x42
			if src != 4 && src != 5 {
				c.HL.SetUint16(0xC234)
			}
			address, want := c.HL.Uint16(), *c.registerIndex(src)
			expectCost(t, c, 8, 1)

			if got := m.Read(address); got != want {
				t.Errorf("expected 0x%02X to be written to 0x%04X, got 0x%02X", want, address, got)
			}
		})
	}

	// 0x36 - LD (HL), d8
	testInstruction(t, "LD (HL), d8", 0x36, func(t *testing.T, c *CPU, m *mmu.MMU) {
		c.HL.SetUint16(0xC000)
		m.Write(0x0101, 0x99)
		expectCost(t, c, 12, 2)

		if m.Read(0xC000) != 0x99 {
			t.Errorf("expected 0x99 at 0xC000, got 0x%02X", m.Read(0xC000))
		}
	})

	// LD rr, d16
	pairs := []struct {
		name   string
		opcode uint8
		get    func(c *CPU) uint16
	}{
		{"BC", 0x01, func(c *CPU) uint16 { return c.BC.Uint16() }},
		{"DE", 0x11, func(c *CPU) uint16 { return c.DE.Uint16() }},
		{"HL", 0x21, func(c *CPU) uint16 { return c.HL.Uint16() }},
		{"SP", 0x31, func(c *CPU) uint16 { return c.SP }},
	}
	for _, pair := range pairs {
		testInstruction(t, "LD "+pair.name+", d16", pair.opcode, func(t *testing.T, c *CPU, m *mmu.MMU) {
			m.Write(0x0101, 0x34)
			m.Write(0x0102, 0x12)
			expectCost(t, c, 12, 3)

			if got := pair.get(c); got != 0x1234 {
				t.Errorf("expected %s to be 0x1234, got 0x%04X", pair.name, got)
			}
		})
	}
}

func TestInstruction_LoadSelf(t *testing.T) {
	// LD B, B / LD C, C ... are legal no-ops that still cost 4 cycles
	for r := uint8(0); r < 8; r++ {
		if r == hlIndex {
			continue
		}
		testInstruction(t, "LD "+registerNames[r]+", "+registerNames[r], 0x40+r<<3+r, func(t *testing.T, c *CPU, m *mmu.MMU) {
			before := c.Snapshot()
			expectCost(t, c, 4, 1)

			after := c.Snapshot()
			after.PC, after.Cycles = before.PC, before.Cycles
			if after != before {
				t.Errorf("expected registers to be unchanged, got %+v", after)
			}
		})
	}
}

func TestInstruction_Stack(t *testing.T) {
	// PUSH BC, POP DE
	c, m := newTestCPU(0xC5, 0xD1)
	c.BC.SetUint16(0xABCD)
	c.SP = 0xD000

	expectCost(t, c, 16, 1)
	if c.SP != 0xCFFE {
		t.Fatalf("expected SP 0xCFFE, got 0x%04X", c.SP)
	}
	if m.Read(0xCFFE) != 0xCD || m.Read(0xCFFF) != 0xAB {
		t.Errorf("expected low byte at SP and high byte at SP+1, got %02X %02X", m.Read(0xCFFE), m.Read(0xCFFF))
	}

	expectCost(t, c, 12, 1)
	if c.DE.Uint16() != 0xABCD {
		t.Errorf("expected DE 0xABCD, got 0x%04X", c.DE.Uint16())
	}
	if c.SP != 0xD000 {
		t.Errorf("expected SP 0xD000, got 0x%04X", c.SP)
	}

	// POP AF never sets the low nibble of F
	c, m = newTestCPU(0xF1)
	c.SP = 0xC000
	m.Write(0xC000, 0xFF)
	m.Write(0xC001, 0x12)
	expectCost(t, c, 12, 1)
	if c.A != 0x12 || c.F != 0xF0 {
		t.Errorf("expected AF 0x12F0, got 0x%04X", c.AF.Uint16())
	}

	// the stack pointer wraps
	c, m = newTestCPU(0xE5)
	c.SP = 0x0001
	c.HL.SetUint16(0x1234)
	expectCost(t, c, 16, 1)
	if c.SP != 0xFFFF || m.Read(0xFFFF) != 0x34 || m.Read(0x0000) != 0x12 {
		t.Errorf("expected push to wrap around 0xFFFF, SP=0x%04X", c.SP)
	}
}
