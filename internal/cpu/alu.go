package cpu

// add is a helper function for adding n (and optionally the carry flag)
// to the A Register and setting the flags accordingly. The sum is widened
// so the carry out of bit 7 is visible before truncation.
//
//	ADD A, n
//	ADC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set if carry from bit 3.
//	C - Set if carry from bit 7.
func (c *CPU) add(n uint8, withCarry bool) {
	var carry uint8
	if withCarry {
		carry = c.carryIn()
	}
	sum := uint16(c.A) + uint16(n) + uint16(carry)
	half := c.A&0xF + n&0xF + carry
	c.setFlags(uint8(sum) == 0, false, half > 0xF, sum > 0xFF)
	c.A = uint8(sum)
}

// sub is a helper function for subtracting n (and optionally the carry
// flag) from the A Register and setting the flags accordingly.
//
//	SUB A, n
//	SBC A, n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if borrow.
func (c *CPU) sub(n uint8, withCarry bool) {
	var carry int16
	if withCarry {
		carry = int16(c.carryIn())
	}
	diff := int16(c.A) - int16(n) - carry
	half := int16(c.A&0xF) - int16(n&0xF) - carry
	c.setFlags(uint8(diff) == 0, true, half < 0, diff < 0)
	c.A = uint8(diff)
}

// compare compares n to the A Register. The flags are those of A - n; the
// A Register is never modified.
//
//	CP n
//	n = d8, B, C, D, E, H, L, (HL), A
//
// Flags affected:
//
//	Z - Set if A == n.
//	N - Set.
//	H - Set if borrow from bit 4.
//	C - Set if A < n.
func (c *CPU) compare(n uint8) {
	c.setFlags(c.A-n == 0, true, n&0xF > c.A&0xF, n > c.A)
}

// and performs a bitwise AND operation on n and the A Register.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Set.
//	C - Reset.
func (c *CPU) and(n uint8) {
	c.A &= n
	c.setFlags(c.A == 0, false, true, false)
}

// or performs a bitwise OR operation on n and the A Register.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) or(n uint8) {
	c.A |= n
	c.setFlags(c.A == 0, false, false, false)
}

// xor performs a bitwise XOR operation on n and the A Register.
//
// Flags affected:
//
//	Z - Set if result is zero.
//	N - Reset.
//	H - Reset.
//	C - Reset.
func (c *CPU) xor(n uint8) {
	c.A ^= n
	c.setFlags(c.A == 0, false, false, false)
}

// aluOperations in encoding order: 0x80 + op<<3 + operand for the register
// and (HL) forms, 0xC6 + op<<3 for the immediate forms.
var aluOperations = [8]struct {
	name string
	fn   func(c *CPU, n uint8)
}{
	{"ADD A,", func(c *CPU, n uint8) { c.add(n, false) }},
	{"ADC A,", func(c *CPU, n uint8) { c.add(n, true) }},
	{"SUB", func(c *CPU, n uint8) { c.sub(n, false) }},
	{"SBC A,", func(c *CPU, n uint8) { c.sub(n, true) }},
	{"AND", (*CPU).and},
	{"XOR", (*CPU).xor},
	{"OR", (*CPU).or},
	{"CP", (*CPU).compare},
}

func (s *InstructionSet) defineALU() {
	for op := uint8(0); op < 8; op++ {
		operation := aluOperations[op]

		// 0x80 - 0xBF - OP r / OP (HL)
		for src := uint8(0); src < 8; src++ {
			src := src
			name := operation.name + " " + registerNames[src]
			if src == hlIndex {
				s.define(0x80+op<<3+src, name, 8, func(c *CPU) {
					operation.fn(c, c.b.Read(c.HL.Uint16()))
				})
				continue
			}
			s.define(0x80+op<<3+src, name, 4, func(c *CPU) {
				operation.fn(c, *c.registerIndex(src))
			})
		}

		// 0xC6, 0xCE ... 0xFE - OP d8
		s.define(0xC6+op<<3, operation.name+" d8", 8, func(c *CPU) {
			operation.fn(c, c.readOperand())
		})
	}
}
