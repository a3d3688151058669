// Package cpu implements the instruction core of the Sharp LR35902: the
// register file, the flags, and a decode-execute step over a byte
// addressable Bus.
package cpu

import (
	"github.com/thelolagemann/lr35902/internal/types"
	"github.com/thelolagemann/lr35902/pkg/log"
)

const (
	// ClockSpeed is the clock speed of the CPU in T-cycles per second.
	ClockSpeed = 4194304

	// haltedCycles is the cost of a step taken while halted.
	haltedCycles = 4
)

// Bus is the memory contract the CPU executes against. The CPU holds no
// private copy of memory; every access goes through the Bus.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// InterruptLine is the extension point for a future interrupt controller.
// When attached, a halted CPU polls Pending once per step and resumes
// fetching as soon as it returns true. No interrupt vector is dispatched.
type InterruptLine interface {
	Pending() bool
}

// CPU represents the LR35902 CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16

	A, F types.Register
	B, C types.Register
	D, E types.Register
	H, L types.Register

	// AF, BC, DE and HL are 16-bit views over the 8-bit registers.
	AF *types.RegisterPair
	BC *types.RegisterPair
	DE *types.RegisterPair
	HL *types.RegisterPair

	halted bool
	ime    bool
	cycles uint64
	fault  error

	b            Bus
	irq          InterruptLine
	instructions *InstructionSet
	hook         func(pc uint16, ins Instruction)
	log          log.Logger
}

// Opt is a function that modifies a CPU during construction.
type Opt func(c *CPU)

// WithLogger sets the logger used for diagnostics. The CPU never writes
// to stdout itself.
func WithLogger(l log.Logger) Opt {
	return func(c *CPU) {
		c.log = l
	}
}

// WithInterruptLine attaches an InterruptLine that can wake a halted CPU.
func WithInterruptLine(irq InterruptLine) Opt {
	return func(c *CPU) {
		c.irq = irq
	}
}

// WithInstructionHook registers fn to be called after every executed
// instruction with the address it was fetched from.
func WithInstructionHook(fn func(pc uint16, ins Instruction)) Opt {
	return func(c *CPU) {
		c.hook = fn
	}
}

// New creates a new CPU executing against b, initialised to the state the
// DMG boot ROM leaves behind, with its instruction table populated.
func New(b Bus, opts ...Opt) *CPU {
	c := &CPU{
		b:            b,
		instructions: newInstructionSet(),
		log:          log.NewNullLogger(),
	}
	// create register pairs
	c.AF = types.NewMaskedRegisterPair(&c.A, &c.F, types.HighNibble)
	c.BC = types.NewRegisterPair(&c.B, &c.C)
	c.DE = types.NewRegisterPair(&c.D, &c.E)
	c.HL = types.NewRegisterPair(&c.H, &c.L)

	for _, opt := range opts {
		opt(c)
	}

	c.Reset()
	return c
}

// Reset restores the post-boot register values and clears the halted
// state, the interrupt master enable, the cycle counter and any fault.
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100

	c.halted = false
	c.ime = false
	c.cycles = 0
	c.fault = nil
}

// Step executes a single instruction. A halted CPU only consumes cycles.
// An opcode without a registered instruction returns an
// *UnimplementedOpcodeError, after which every further Step returns the
// same error without fetching.
func (c *CPU) Step() error {
	if c.fault != nil {
		return c.fault
	}

	if c.halted {
		c.tick(haltedCycles)
		if c.irq != nil && c.irq.Pending() {
			c.halted = false
		}
		return nil
	}

	pc := c.PC
	opcode := c.readOperand()
	ins := c.instructions[opcode]
	if ins == unimplemented {
		c.fault = &UnimplementedOpcodeError{Opcode: opcode, Address: pc}
		c.log.Debugf("%s", c.fault)
		return c.fault
	}

	ins.fn(c)
	c.tick(ins.cycles)

	if c.hook != nil {
		c.hook(pc, *ins)
	}
	return nil
}

// tick advances the cycle counter.
func (c *CPU) tick(cycles uint8) {
	c.cycles += uint64(cycles)
}

// readOperand reads the byte at PC and advances PC.
func (c *CPU) readOperand() uint8 {
	value := c.b.Read(c.PC)
	c.PC++
	return value
}

// readOperand16 reads a little-endian 16-bit operand at PC, low byte first.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	high := c.readOperand()
	return types.Uint16(low, high)
}

// Cycles returns the number of T-cycles executed since the last Reset.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Halted reports whether a HALT instruction has executed.
func (c *CPU) Halted() bool {
	return c.halted
}

// IME returns the interrupt master enable. Execution never changes it.
func (c *CPU) IME() bool {
	return c.ime
}

// Lookup returns the instruction registered for opcode, and whether one is.
func (c *CPU) Lookup(opcode uint8) (Instruction, bool) {
	ins := c.instructions[opcode]
	if ins == unimplemented {
		return Instruction{}, false
	}
	return *ins, true
}

var _ types.Stater = (*CPU)(nil)

// Load restores the registers in the order Save writes them: A, F, B, C,
// D, E, H, L, SP, PC, halted, IME and the cycle counter. The low nibble of
// F is masked and any latched fault is cleared.
func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8() & types.HighNibble
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.halted = s.ReadBool()
	c.ime = s.ReadBool()
	c.cycles = s.Read64()
	c.fault = nil
}

// Save writes the registers as A, F, B, C, D, E, H, L (one byte each), SP
// and PC (two bytes, little-endian), halted and IME (one byte each) and
// the cycle counter (eight bytes, little-endian).
func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.WriteBool(c.halted)
	s.WriteBool(c.ime)
	s.Write64(c.cycles)
}
