package cpu

import "fmt"

// Registers is a copy of the architectural state of a CPU at one point in
// time, used by tooling to diff consecutive steps.
type Registers struct {
	A, F, B, C, D, E, H, L uint8
	SP, PC                 uint16
	Halted                 bool
	Cycles                 uint64
}

// Snapshot returns a copy of the current register state.
func (c *CPU) Snapshot() Registers {
	return Registers{
		A: c.A, F: c.F, B: c.B, C: c.C,
		D: c.D, E: c.E, H: c.H, L: c.L,
		SP: c.SP, PC: c.PC,
		Halted: c.halted,
		Cycles: c.cycles,
	}
}

// String renders the program counter, stack pointer and register pairs
// in a fixed hexadecimal layout, e.g.
//
//	PC=0100 SP=FFFE AF=01B0 BC=0013 DE=00D8 HL=014D
func (c *CPU) String() string {
	return fmt.Sprintf("PC=%04X SP=%04X AF=%04X BC=%04X DE=%04X HL=%04X",
		c.PC, c.SP, c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16())
}
