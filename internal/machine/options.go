package machine

import (
	"github.com/thelolagemann/lr35902/internal/cpu"
	"github.com/thelolagemann/lr35902/pkg/log"
)

// Opt is a function that modifies a Machine
// instance.
type Opt func(m *Machine)

func WithLogger(log log.Logger) Opt {
	return func(m *Machine) {
		m.Logger = log
	}
}

// WithEntry sets the address execution starts from.
func WithEntry(pc uint16) Opt {
	return func(m *Machine) {
		m.entry = pc
	}
}

// WithTrace calls fn with the state dump before every step of Run.
func WithTrace(fn func(dump string)) Opt {
	return func(m *Machine) {
		m.trace = fn
	}
}

// WithInstructionHook is passed through to the CPU, see
// cpu.WithInstructionHook.
func WithInstructionHook(fn func(pc uint16, ins cpu.Instruction)) Opt {
	return func(m *Machine) {
		m.hook = fn
	}
}

// WithInterruptLine attaches an interrupt line to the CPU. With a line
// attached Run keeps stepping a halted CPU, waiting for it to wake.
func WithInterruptLine(irq cpu.InterruptLine) Opt {
	return func(m *Machine) {
		m.irq = irq
	}
}

// WithMaxSteps limits Run to n steps. Zero or less removes the limit.
func WithMaxSteps(n int) Opt {
	return func(m *Machine) {
		m.maxSteps = n
	}
}
