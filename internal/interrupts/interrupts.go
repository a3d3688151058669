// Package interrupts provides a minimal interrupt controller: request and
// enable bits whose overlap wakes a halted CPU. Requests are never
// dispatched to a vector.
package interrupts

import (
	"github.com/thelolagemann/lr35902/internal/types"
)

const (
	// VBlankFlag is the VBlank interrupt flag (bit 0).
	VBlankFlag = types.Bit0
	// LCDFlag is the LCD interrupt flag (bit 1).
	LCDFlag = types.Bit1
	// TimerFlag is the Timer interrupt flag (bit 2).
	TimerFlag = types.Bit2
	// SerialFlag is the Serial interrupt flag (bit 3).
	SerialFlag = types.Bit3
	// JoypadFlag is the Joypad interrupt Flag (bit 4).
	JoypadFlag = types.Bit4

	// mask covers the five interrupt sources.
	mask = 0x1F
)

// Service is the interrupt service. A requested interrupt sets its bit in
// Flag; an interrupt is pending while its bit is set in both Flag and
// Enable. Pending interrupts wake a halted CPU and stay requested until
// cleared.
type Service struct {
	Flag   uint8 // interrupt Flag (IF)
	Enable uint8 // interrupt Enable (IE)
}

// NewService returns a new Service with every interrupt enabled.
func NewService() *Service {
	return &Service{Enable: mask}
}

// Pending returns true if there are any interrupts
// that are requested and enabled.
func (s *Service) Pending() bool {
	return s.Enable&s.Flag&mask != 0
}

// Request requests the specified interrupt, by setting
// the corresponding bit in the Flag register.
func (s *Service) Request(flag uint8) {
	s.Flag |= flag & mask
}

// Clear acknowledges the specified interrupt.
func (s *Service) Clear(flag uint8) {
	s.Flag &^= flag
}

var _ types.Stater = (*Service)(nil)

// Load implements the types.Stater interface.
//
// The values are loaded in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8() & mask
	s.Enable = st.Read8()
}

// Save implements the types.Stater interface.
//
// The values are saved in the following order:
//   - Flag (uint8)
//   - Enable (uint8)
func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
}
