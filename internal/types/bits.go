package types

const (
	Bit0 = 1 << iota // 0b0000_0001
	Bit1             // 0b0000_0010
	Bit2             // 0b0000_0100
	Bit3             // 0b0000_1000
	Bit4             // 0b0001_0000
	Bit5             // 0b0010_0000
	Bit6             // 0b0100_0000
	Bit7             // 0b1000_0000
)

// HighNibble masks the upper four bits of a byte.
const HighNibble = 0xF0

// Uint16 assembles a little-endian 16-bit value.
func Uint16(low, high uint8) uint16 {
	return uint16(low) | uint16(high)<<8
}

// Split returns the low and high bytes of v.
func Split(v uint16) (low, high uint8) {
	return uint8(v), uint8(v >> 8)
}
