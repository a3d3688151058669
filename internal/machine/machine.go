// Package machine drives the CPU core: it wires a CPU to a flat memory,
// loads a ROM image and steps until the program halts, faults or runs out
// of budget.
package machine

import (
	"bytes"
	"context"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/thelolagemann/lr35902/internal/cpu"
	"github.com/thelolagemann/lr35902/internal/mmu"
	"github.com/thelolagemann/lr35902/internal/types"
	"github.com/thelolagemann/lr35902/pkg/log"
)

// DefaultSteps is the step budget used when none is given, matching the
// length of the reference smoke run.
const DefaultSteps = 20

// Machine represents a CPU attached to 64 KiB of memory with a ROM loaded.
// It is the main entry point for running programs.
type Machine struct {
	CPU *cpu.CPU
	MMU *mmu.MMU

	log.Logger

	entry    uint16
	maxSteps int
	trace    func(dump string)
	hook     func(pc uint16, ins cpu.Instruction)
	irq      cpu.InterruptLine
	checksum uint64
}

// Result summarises a call to Run.
type Result struct {
	Steps  int
	Cycles uint64
	Halted bool
}

// New returns a new Machine with rom loaded at 0x0000.
func New(rom []byte, opts ...Opt) *Machine {
	m := &Machine{
		MMU:      mmu.NewMMU(),
		Logger:   log.NewNullLogger(),
		entry:    0x0100,
		maxSteps: DefaultSteps,
		checksum: xxhash.Sum64(rom),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.MMU.Log = m.Logger
	m.MMU.LoadROM(rom)

	cpuOpts := []cpu.Opt{cpu.WithLogger(m.Logger)}
	if m.hook != nil {
		cpuOpts = append(cpuOpts, cpu.WithInstructionHook(m.hook))
	}
	if m.irq != nil {
		cpuOpts = append(cpuOpts, cpu.WithInterruptLine(m.irq))
	}
	m.CPU = cpu.New(m.MMU, cpuOpts...)
	m.CPU.PC = m.entry

	m.Debugf("loaded %d byte rom (xxhash %016x), entry 0x%04X", len(rom), m.checksum, m.entry)
	return m
}

// Checksum returns the xxhash of the ROM image the machine was built with.
func (m *Machine) Checksum() uint64 {
	return m.checksum
}

// Step executes a single instruction.
func (m *Machine) Step() error {
	return m.CPU.Step()
}

// Reset restores the CPU to its post-boot state at the configured entry
// point. Memory is left as is.
func (m *Machine) Reset() {
	m.CPU.Reset()
	m.CPU.PC = m.entry
}

// Run steps the CPU until it halts, the step budget is spent, ctx is
// cancelled or an instruction fails. The trace function, if any, receives
// the state dump before every step. A budget of zero or less runs without
// a step limit.
func (m *Machine) Run(ctx context.Context) (Result, error) {
	var res Result
	for m.maxSteps <= 0 || res.Steps < m.maxSteps {
		if err := ctx.Err(); err != nil {
			return m.result(res), err
		}
		if m.CPU.Halted() && m.irq == nil {
			break
		}

		if m.trace != nil {
			m.trace(m.CPU.String())
		}
		if err := m.CPU.Step(); err != nil {
			return m.result(res), errors.Wrapf(err, "step %d", res.Steps+1)
		}
		res.Steps++
	}
	return m.result(res), nil
}

func (m *Machine) result(res Result) Result {
	res.Cycles = m.CPU.Cycles()
	res.Halted = m.CPU.Halted()
	return res
}

// SaveState serialises the CPU and memory and compresses the result.
func (m *Machine) SaveState() ([]byte, error) {
	s := m.state()

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(s.Bytes()); err != nil {
		return nil, errors.Wrap(err, "compressing state")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "compressing state")
	}
	return buf.Bytes(), nil
}

// LoadState restores a state produced by SaveState.
func (m *Machine) LoadState(b []byte) error {
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
	if err != nil {
		return errors.Wrap(err, "decompressing state")
	}

	// checked up front so a short state leaves the machine untouched
	if want := len(m.state().Bytes()); len(raw) < want {
		return errors.Wrapf(types.ErrShortState, "loading state: %d of %d bytes", len(raw), want)
	}

	s := types.StateFromBytes(raw)
	m.CPU.Load(s)
	m.MMU.Load(s)
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "loading state")
	}
	return nil
}

// state serialises the CPU followed by the memory.
func (m *Machine) state() *types.State {
	s := types.NewState()
	m.CPU.Save(s)
	m.MMU.Save(s)
	return s
}
