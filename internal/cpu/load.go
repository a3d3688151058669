package cpu

import "github.com/thelolagemann/lr35902/internal/types"

// loadRegisterToRegister copies one Register into another. Copying a
// register into itself is legal and still costs a full cycle.
//
//	LD r, r'
//	r, r' = A, B, C, D, E, H, L
func (c *CPU) loadRegisterToRegister(dst, src uint8) {
	*c.registerIndex(dst) = *c.registerIndex(src)
}

// loadRegister8 loads the immediate operand into the given Register.
//
//	LD r, d8
//	r = A, B, C, D, E, H, L
//	d8 = 8-bit immediate value
func (c *CPU) loadRegister8(dst uint8) {
	*c.registerIndex(dst) = c.readOperand()
}

// loadMemoryToRegister loads the byte addressed by HL into the given
// Register.
//
//	LD r, (HL)
func (c *CPU) loadMemoryToRegister(dst uint8) {
	*c.registerIndex(dst) = c.b.Read(c.HL.Uint16())
}

// loadRegisterToMemory writes the given Register to the byte addressed
// by HL.
//
//	LD (HL), r
func (c *CPU) loadRegisterToMemory(src uint8) {
	c.b.Write(c.HL.Uint16(), *c.registerIndex(src))
}

// push writes a 16-bit value below SP, low byte at the new SP.
func (c *CPU) push(value uint16) {
	low, high := types.Split(value)
	c.SP -= 2
	c.b.Write(c.SP, low)
	c.b.Write(c.SP+1, high)
}

// pop reads a 16-bit value at SP, low byte first, and releases it.
func (c *CPU) pop() uint16 {
	low := c.b.Read(c.SP)
	high := c.b.Read(c.SP + 1)
	c.SP += 2
	return types.Uint16(low, high)
}

func (s *InstructionSet) defineLoad() {
	// 0x06, 0x0E ... 0x3E - LD r, d8
	// 0x46, 0x4E ... 0x7E - LD r, (HL)
	for dst := uint8(0); dst < 8; dst++ {
		dst := dst
		if dst == hlIndex {
			continue
		}
		s.define(0x06+dst<<3, "LD "+registerNames[dst]+", d8", 8, func(c *CPU) {
			c.loadRegister8(dst)
		})
		s.define(0x46+dst<<3, "LD "+registerNames[dst]+", (HL)", 8, func(c *CPU) {
			c.loadMemoryToRegister(dst)
		})
	}

	// 0x40 - 0x7F - LD r, r' (except the (HL) rows and columns)
	for dst := uint8(0); dst < 8; dst++ {
		dst := dst
		for src := uint8(0); src < 8; src++ {
			src := src
			if dst == hlIndex || src == hlIndex {
				continue
			}
			s.define(0x40+dst<<3+src, "LD "+registerNames[dst]+", "+registerNames[src], 4, func(c *CPU) {
				c.loadRegisterToRegister(dst, src)
			})
		}
	}

	// 0x70 - 0x77 - LD (HL), r (0x76 is HALT)
	for src := uint8(0); src < 8; src++ {
		src := src
		if src == hlIndex {
			continue
		}
		s.define(0x70+src, "LD (HL), "+registerNames[src], 8, func(c *CPU) {
			c.loadRegisterToMemory(src)
		})
	}

	s.define(0x36, "LD (HL), d8", 12, func(c *CPU) {
		c.b.Write(c.HL.Uint16(), c.readOperand())
	})

	// 16-bit loads
	s.define(0x01, "LD BC, d16", 12, func(c *CPU) { c.BC.SetUint16(c.readOperand16()) })
	s.define(0x11, "LD DE, d16", 12, func(c *CPU) { c.DE.SetUint16(c.readOperand16()) })
	s.define(0x21, "LD HL, d16", 12, func(c *CPU) { c.HL.SetUint16(c.readOperand16()) })
	s.define(0x31, "LD SP, d16", 12, func(c *CPU) { c.SP = c.readOperand16() })

	// stack
	s.define(0xC5, "PUSH BC", 16, func(c *CPU) { c.push(c.BC.Uint16()) })
	s.define(0xD5, "PUSH DE", 16, func(c *CPU) { c.push(c.DE.Uint16()) })
	s.define(0xE5, "PUSH HL", 16, func(c *CPU) { c.push(c.HL.Uint16()) })
	s.define(0xF5, "PUSH AF", 16, func(c *CPU) { c.push(c.AF.Uint16()) })
	s.define(0xC1, "POP BC", 12, func(c *CPU) { c.BC.SetUint16(c.pop()) })
	s.define(0xD1, "POP DE", 12, func(c *CPU) { c.DE.SetUint16(c.pop()) })
	s.define(0xE1, "POP HL", 12, func(c *CPU) { c.HL.SetUint16(c.pop()) })
	s.define(0xF1, "POP AF", 12, func(c *CPU) { c.AF.SetUint16(c.pop()) })
}
