package cpu

import "github.com/thelolagemann/lr35902/internal/types"

// Flag is the bit index of a condition flag in the F register.
type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F &^= 1 << flag
}

// setFlag sets a flag in the F register.
func (c *CPU) setFlag(flag Flag) {
	c.F |= 1 << flag
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return c.F&(1<<flag) != 0
}

// Flag reports whether the given flag is set.
func (c *CPU) Flag(flag Flag) bool {
	return c.isFlagSet(flag)
}

// setFlags rebuilds F from all four condition bits. The low nibble of F
// is always left zero.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	var f uint8
	if zero {
		f |= types.Bit7
	}
	if subtract {
		f |= types.Bit6
	}
	if halfCarry {
		f |= types.Bit5
	}
	if carry {
		f |= types.Bit4
	}
	c.F = f
}

// carryIn returns the carry flag as 0 or 1.
func (c *CPU) carryIn() uint8 {
	return c.F >> FlagCarry & 1
}
