package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_RoundTrip(t *testing.T) {
	s := NewState()
	s.Write8(0x42)
	s.Write16(0xFFFE)
	s.Write64(0x0102030405060708)
	s.WriteBool(true)
	s.WriteData([]byte{1, 2, 3})

	r := StateFromBytes(s.Bytes())
	assert.Equal(t, uint8(0x42), r.Read8())
	assert.Equal(t, uint16(0xFFFE), r.Read16())
	assert.Equal(t, uint64(0x0102030405060708), r.Read64())
	assert.True(t, r.ReadBool())

	data := make([]byte, 3)
	r.ReadData(data)
	assert.Equal(t, []byte{1, 2, 3}, data)
	require.NoError(t, r.Err())
}

func TestState_Short(t *testing.T) {
	r := StateFromBytes([]byte{0x01})
	assert.Equal(t, uint16(0), r.Read16())
	assert.ErrorIs(t, r.Err(), ErrShortState)

	// once exhausted, every further read yields zero values
	assert.Equal(t, uint8(0), r.Read8())
}
