package types

// Register represents an LR35902 register which is used to hold an 8-bit
// value. The CPU has 8 registers: A, F, B, C, D, E, H and L. The F register
// is special in that it is used to hold the flags.
type Register = uint8

// RegisterPair is a 16-bit view over two Registers. It has no storage of its
// own: reading composes High and Low, writing decomposes the value into both.
type RegisterPair struct {
	High *Register
	Low  *Register

	// lowMask is applied to every write of the low register, so that bits
	// which don't exist in hardware (the low nibble of F) always read as 0.
	lowMask uint8
}

// NewRegisterPair returns a RegisterPair viewing high and low.
func NewRegisterPair(high, low *Register) *RegisterPair {
	return &RegisterPair{High: high, Low: low, lowMask: 0xFF}
}

// NewMaskedRegisterPair returns a RegisterPair whose low register only
// accepts the bits set in mask.
func NewMaskedRegisterPair(high, low *Register, mask uint8) *RegisterPair {
	return &RegisterPair{High: high, Low: low, lowMask: mask}
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value) & r.lowMask
}
