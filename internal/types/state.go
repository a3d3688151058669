package types

import (
	"errors"
)

// ErrShortState is returned by State.Err when a read ran past the end of
// the underlying data.
var ErrShortState = errors.New("state: unexpected end of data")

// Resettable is an interface that allows an object to be reset.
type Resettable interface {
	Reset() // Reset the state of the object
}

// State is a little-endian byte stream used to save and restore the
// emulator between runs.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position
	err          error
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new, empty state.
func NewState() *State {
	return &State{
		raw: make([]byte, 0, 64),
	}
}

// StateFromBytes creates a new state from the given bytes.
func StateFromBytes(raw []byte) *State {
	return &State{
		raw: raw,
	}
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) Write64(value uint64) {
	for i := 0; i < 8; i++ {
		s.raw = append(s.raw, byte(value>>(8*i)))
	}
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

// take returns the next n bytes, or nil once the stream is exhausted.
func (s *State) take(n int) []byte {
	if s.err != nil {
		return nil
	}
	if s.readPosition+n > len(s.raw) {
		s.err = ErrShortState
		return nil
	}
	b := s.raw[s.readPosition : s.readPosition+n]
	s.readPosition += n
	return b
}

func (s *State) Read8() uint8 {
	b := s.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (s *State) Read16() uint16 {
	b := s.take(2)
	if b == nil {
		return 0
	}
	return Uint16(b[0], b[1])
}

func (s *State) Read64() uint64 {
	b := s.take(8)
	if b == nil {
		return 0
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

func (s *State) ReadData(p []byte) {
	b := s.take(len(p))
	if b == nil {
		return
	}
	copy(p, b)
}

// Err reports the first read past the end of the state, if any.
func (s *State) Err() error {
	return s.err
}

func (s *State) Bytes() []byte {
	return s.raw
}
