package cpu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/lr35902/internal/types"
)

// ErrUnimplementedOpcode is matched by every *UnimplementedOpcodeError.
var ErrUnimplementedOpcode = errors.New("unimplemented opcode")

// UnimplementedOpcodeError is returned by Step when the fetched byte has no
// registered instruction. Address is where the opcode byte was fetched from.
type UnimplementedOpcodeError struct {
	Opcode  uint8
	Address uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%02X at 0x%04X", e.Opcode, e.Address)
}

func (e *UnimplementedOpcodeError) Is(target error) bool {
	return target == ErrUnimplementedOpcode
}

// Instruction is a decoded opcode: its mnemonic, base cost in T-cycles, and
// the function that executes it. Instructions with a conditional branch
// add the cost of a taken branch themselves.
type Instruction struct {
	name   string
	cycles uint8
	fn     func(*CPU)
}

// Name returns the mnemonic of the instruction.
func (i Instruction) Name() string {
	return i.name
}

// Cycles returns the base cost of the instruction in T-cycles.
func (i Instruction) Cycles() uint8 {
	return i.cycles
}

// InstructionSet maps every opcode to an instruction. Slots without an
// instruction hold the unimplemented sentinel, never nil.
type InstructionSet [256]*Instruction

// unimplemented marks an empty slot of an InstructionSet. It is compared
// by pointer and never executed.
var unimplemented = &Instruction{name: "unimplemented"}

// define registers an instruction for opcode. Defining the same opcode
// twice is a programming error.
func (s *InstructionSet) define(opcode uint8, name string, cycles uint8, fn func(*CPU)) {
	if s[opcode] != unimplemented {
		panic(fmt.Sprintf("opcode 0x%02X already defined as %s", opcode, s[opcode].name))
	}
	s[opcode] = &Instruction{name: name, cycles: cycles, fn: fn}
}

// newInstructionSet returns a fully populated InstructionSet.
func newInstructionSet() *InstructionSet {
	s := &InstructionSet{}
	for i := range s {
		s[i] = unimplemented
	}

	s.define(0x00, "NOP", 4, func(c *CPU) {})
	s.define(0x76, "HALT", 4, func(c *CPU) { c.halted = true })

	s.defineLoad()
	s.defineALU()
	s.defineJump()

	return s
}

// registerNames holds the operand names in encoding order. Index 6 is the
// memory operand (HL).
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// hlIndex is the operand index that addresses memory through HL.
const hlIndex = 6

// registerIndex returns a Register pointer for the given operand index.
func (c *CPU) registerIndex(index uint8) *types.Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("invalid register index: %d", index))
}
