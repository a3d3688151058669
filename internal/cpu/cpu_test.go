package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thelolagemann/lr35902/internal/mmu"
	"github.com/thelolagemann/lr35902/internal/types"
)

// newTestCPU returns a CPU in its post-boot state with program loaded at
// the reset PC (0x0100).
func newTestCPU(program ...uint8) (*CPU, *mmu.MMU) {
	m := mmu.NewMMU()
	m.LoadAt(0x0100, program)
	return New(m), m
}

// step executes a single instruction, failing the test on error.
func step(t *testing.T, c *CPU) {
	t.Helper()
	require.NoError(t, c.Step())
}

func TestNew(t *testing.T) {
	c, _ := newTestCPU()

	assert.Equal(t, uint16(0x01B0), c.AF.Uint16())
	assert.Equal(t, uint16(0x0013), c.BC.Uint16())
	assert.Equal(t, uint16(0x00D8), c.DE.Uint16())
	assert.Equal(t, uint16(0x014D), c.HL.Uint16())
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint16(0x0100), c.PC)
	assert.False(t, c.Halted())
	assert.False(t, c.IME())
	assert.Equal(t, uint64(0), c.Cycles())
}

func TestNew_IndependentInstances(t *testing.T) {
	a, _ := newTestCPU(0x3E, 0x11)
	b, _ := newTestCPU(0x3E, 0x22)

	step(t, a)
	step(t, b)

	assert.Equal(t, uint8(0x11), a.A)
	assert.Equal(t, uint8(0x22), b.A)
	assert.NotSame(t, a.instructions, b.instructions)
}

func TestRegisterPairs(t *testing.T) {
	c, _ := newTestCPU()

	for name, pair := range map[string]*types.RegisterPair{"BC": c.BC, "DE": c.DE, "HL": c.HL} {
		pair.SetUint16(0xBEEF)
		assert.Equal(t, uint8(0xBE), *pair.High, name)
		assert.Equal(t, uint8(0xEF), *pair.Low, name)
		*pair.Low = 0x01
		assert.Equal(t, uint16(0xBE01), pair.Uint16(), name)
	}

	c.AF.SetUint16(0x12FF)
	assert.Equal(t, uint8(0x12), c.A)
	assert.Equal(t, uint8(0xF0), c.F, "low nibble of F must stay zero")
}

func TestStep_Unimplemented(t *testing.T) {
	c, _ := newTestCPU(0x00, 0xD3, 0x00)
	step(t, c)

	err := c.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnimplementedOpcode))

	var opErr *UnimplementedOpcodeError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, uint8(0xD3), opErr.Opcode)
	assert.Equal(t, uint16(0x0101), opErr.Address)
	assert.Equal(t, c.PC-1, opErr.Address)
	assert.Equal(t, "unimplemented opcode 0xD3 at 0x0101", err.Error())

	// no further instruction is executed
	pc, cycles := c.PC, c.Cycles()
	assert.Equal(t, err, c.Step())
	assert.Equal(t, pc, c.PC)
	assert.Equal(t, cycles, c.Cycles())

	c.Reset()
	assert.NoError(t, c.Step())
}

func TestStep_Halted(t *testing.T) {
	c, _ := newTestCPU(0x76, 0x3E, 0x42)
	step(t, c)
	require.True(t, c.Halted())
	assert.Equal(t, uint16(0x0101), c.PC)
	assert.Equal(t, uint64(4), c.Cycles())

	before := c.Snapshot()
	for i := 0; i < 3; i++ {
		step(t, c)
	}
	after := c.Snapshot()

	assert.True(t, c.Halted())
	assert.Equal(t, before.PC, after.PC, "a halted CPU must not fetch")
	assert.Equal(t, before.A, after.A)
	assert.Equal(t, uint64(16), c.Cycles())
}

type interruptLine bool

func (i *interruptLine) Pending() bool { return bool(*i) }

func TestStep_InterruptLineWakesHalt(t *testing.T) {
	var irq interruptLine
	m := mmu.NewMMU()
	m.LoadAt(0x0100, []byte{0x76, 0x3E, 0x42})
	c := New(m, WithInterruptLine(&irq))

	step(t, c)
	step(t, c)
	require.True(t, c.Halted())

	irq = true
	step(t, c)
	assert.False(t, c.Halted())
	assert.False(t, c.IME(), "waking must not touch IME")

	step(t, c)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestStep_Hook(t *testing.T) {
	var seen []string
	var addrs []uint16
	m := mmu.NewMMU()
	m.LoadAt(0x0100, []byte{0x00, 0x3E, 0x01, 0xAF})
	c := New(m, WithInstructionHook(func(pc uint16, ins Instruction) {
		addrs = append(addrs, pc)
		seen = append(seen, ins.Name())
	}))

	for i := 0; i < 3; i++ {
		step(t, c)
	}
	assert.Equal(t, []string{"NOP", "LD A, d8", "XOR A"}, seen)
	assert.Equal(t, []uint16{0x0100, 0x0101, 0x0103}, addrs)
}

func TestString(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, "PC=0100 SP=FFFE AF=01B0 BC=0013 DE=00D8 HL=014D", c.String())

	before := c.Snapshot()
	_ = c.String()
	assert.Equal(t, before, c.Snapshot())
}

func TestSaveLoad(t *testing.T) {
	c, _ := newTestCPU(0x3E, 0x99, 0x76)
	step(t, c)
	step(t, c)

	s := types.NewState()
	c.Save(s)

	restored, _ := newTestCPU()
	rs := types.StateFromBytes(s.Bytes())
	restored.Load(rs)
	require.NoError(t, rs.Err())

	assert.Equal(t, c.Snapshot(), restored.Snapshot())
	assert.Equal(t, c.String(), restored.String())
}

func TestSave_Layout(t *testing.T) {
	c, _ := newTestCPU()
	c.SP, c.PC = 0xCFFE, 0x0123
	c.halted = true
	c.cycles = 0x0102030405060708

	s := types.NewState()
	c.Save(s)
	assert.Equal(t, []byte{
		0x01, 0xB0, 0x00, 0x13, 0x00, 0xD8, 0x01, 0x4D, // A F B C D E H L
		0xFE, 0xCF, // SP
		0x23, 0x01, // PC
		0x01, 0x00, // halted, IME
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, // cycles
	}, s.Bytes())
}

func TestInstruction_Timing(t *testing.T) {
	// base cost of every opcode in T-cycles, 0 marks an unimplemented opcode
	timings := []uint8{
		4, 12, 0, 0, 0, 0, 8, 0, 0, 0, 0, 0, 0, 0, 8, 0,
		0, 12, 0, 0, 0, 0, 8, 0, 12, 0, 0, 0, 0, 0, 8, 0,
		8, 12, 0, 0, 0, 0, 8, 0, 8, 0, 0, 0, 0, 0, 8, 0,
		8, 12, 0, 0, 0, 0, 12, 0, 8, 0, 0, 0, 0, 0, 8, 0,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		8, 8, 8, 8, 8, 8, 4, 8, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		4, 4, 4, 4, 4, 4, 8, 4, 4, 4, 4, 4, 4, 4, 8, 4,
		8, 12, 12, 16, 12, 16, 8, 0, 8, 16, 12, 0, 12, 24, 8, 0,
		8, 12, 12, 0, 12, 16, 8, 0, 8, 0, 12, 0, 12, 0, 8, 0,
		0, 12, 0, 0, 0, 16, 8, 0, 0, 4, 0, 0, 0, 0, 8, 0,
		0, 12, 0, 0, 0, 16, 8, 0, 0, 0, 0, 0, 0, 0, 8, 0,
	}
	require.Len(t, timings, 256)

	c, _ := newTestCPU()
	for i, timing := range timings {
		ins, ok := c.Lookup(uint8(i))
		if timing == 0 {
			assert.False(t, ok, "opcode 0x%02X should be unimplemented, got %s", i, ins.Name())
			continue
		}
		if assert.True(t, ok, "opcode 0x%02X should be implemented", i) {
			assert.Equal(t, timing, ins.Cycles(), "opcode 0x%02X (%s)", i, ins.Name())
		}
	}
}

func TestInstruction_UnimplementedStep(t *testing.T) {
	c, _ := newTestCPU()
	for i := 0; i < 256; i++ {
		if _, ok := c.Lookup(uint8(i)); ok {
			continue
		}
		t.Run(fmt.Sprintf("0x%02X", i), func(t *testing.T) {
			c, _ := newTestCPU(uint8(i))
			err := c.Step()
			var opErr *UnimplementedOpcodeError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, uint8(i), opErr.Opcode)
			assert.Equal(t, uint16(0x0100), opErr.Address)
		})
	}
}
