package cpu

// condition is a branch condition encoded in bits 3-4 of the conditional
// control transfer opcodes.
type condition struct {
	name string
	flag Flag
	set  bool
}

var conditions = [4]condition{
	{"NZ", FlagZero, false},
	{"Z", FlagZero, true},
	{"NC", FlagCarry, false},
	{"C", FlagCarry, true},
}

func (c *CPU) satisfies(cc condition) bool {
	return c.isFlagSet(cc.flag) == cc.set
}

// jumpAbsolute reads a 16-bit address and jumps to it.
//
//	JP nn
//	nn = 16-bit immediate value
func (c *CPU) jumpAbsolute() {
	c.PC = c.readOperand16()
}

// jumpAbsoluteConditional reads a 16-bit address and jumps to it if the
// given condition is satisfied.
//
//	JP cc, nn
//	cc = NZ, Z, NC, C
func (c *CPU) jumpAbsoluteConditional(cc condition) {
	address := c.readOperand16()
	if c.satisfies(cc) {
		c.PC = address
		c.tick(4)
	}
}

// jumpRelative reads a signed 8-bit offset and adds it to the already
// advanced PC.
//
//	JR e
//	e = 8-bit signed immediate value
func (c *CPU) jumpRelative() {
	offset := int8(c.readOperand())
	c.PC = uint16(int32(c.PC) + int32(offset))
}

// jumpRelativeConditional reads a signed 8-bit offset and adds it to the
// already advanced PC if the given condition is satisfied. A taken branch
// costs 4 more cycles.
//
//	JR cc, e
//	cc = NZ, Z, NC, C
func (c *CPU) jumpRelativeConditional(cc condition) {
	offset := int8(c.readOperand())
	if c.satisfies(cc) {
		c.PC = uint16(int32(c.PC) + int32(offset))
		c.tick(4)
	}
}

// call reads a 16-bit address, pushes the address of the next instruction
// onto the stack and jumps to it.
//
//	CALL nn
func (c *CPU) call() {
	address := c.readOperand16()
	c.push(c.PC)
	c.PC = address
}

// callConditional is call, taken only if the condition is satisfied.
//
//	CALL cc, nn
func (c *CPU) callConditional(cc condition) {
	address := c.readOperand16()
	if c.satisfies(cc) {
		c.push(c.PC)
		c.PC = address
		c.tick(12)
	}
}

// ret pops the top two bytes off the stack and jumps to that address.
//
//	RET
func (c *CPU) ret() {
	c.PC = c.pop()
}

// retConditional returns only if the given condition is satisfied.
//
//	RET cc
func (c *CPU) retConditional(cc condition) {
	if c.satisfies(cc) {
		c.ret()
		c.tick(12)
	}
}

func (s *InstructionSet) defineJump() {
	s.define(0xC3, "JP a16", 16, (*CPU).jumpAbsolute)
	s.define(0xE9, "JP HL", 4, func(c *CPU) { c.PC = c.HL.Uint16() })
	s.define(0x18, "JR r8", 12, (*CPU).jumpRelative)
	s.define(0xCD, "CALL a16", 24, (*CPU).call)
	s.define(0xC9, "RET", 16, (*CPU).ret)

	for i, cc := range conditions {
		cc := cc
		offset := uint8(i) << 3
		s.define(0x20+offset, "JR "+cc.name+", r8", 8, func(c *CPU) { c.jumpRelativeConditional(cc) })
		s.define(0xC2+offset, "JP "+cc.name+", a16", 12, func(c *CPU) { c.jumpAbsoluteConditional(cc) })
		s.define(0xC4+offset, "CALL "+cc.name+", a16", 12, func(c *CPU) { c.callConditional(cc) })
		s.define(0xC0+offset, "RET "+cc.name, 8, func(c *CPU) { c.retConditional(cc) })
	}
}
