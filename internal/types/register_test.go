package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPair(t *testing.T) {
	var h, l Register
	pair := NewRegisterPair(&h, &l)

	pair.SetUint16(0x1234)
	assert.Equal(t, Register(0x12), h)
	assert.Equal(t, Register(0x34), l)

	h, l = 0xAB, 0xCD
	assert.Equal(t, uint16(0xABCD), pair.Uint16())
}

func TestRegisterPair_Masked(t *testing.T) {
	var a, f Register
	pair := NewMaskedRegisterPair(&a, &f, HighNibble)

	pair.SetUint16(0x01FF)
	assert.Equal(t, Register(0x01), a)
	assert.Equal(t, Register(0xF0), f)
	assert.Equal(t, uint16(0x01F0), pair.Uint16())
}

func TestSplit(t *testing.T) {
	low, high := Split(0xBEEF)
	assert.Equal(t, uint8(0xEF), low)
	assert.Equal(t, uint8(0xBE), high)
	assert.Equal(t, uint16(0xBEEF), Uint16(low, high))
}
