package debugger

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/thelolagemann/lr35902/internal/cpu"
	"github.com/thelolagemann/lr35902/pkg/utils"
)

var (
	chSame = ansi.ColorCode("default:default")
	chNew  = ansi.ColorCode("default+bu:default")
)

// field renders name=value, highlighted when the value changed.
func (d *Debugger) field(name, value string, changed bool) string {
	s := name + "=" + value
	if !d.color {
		return s
	}
	color := chSame
	if changed {
		color = chNew
	}
	return color + s + ansi.Reset
}

// printRegisters prints the register file, highlighting everything that
// changed since the previous print.
func (d *Debugger) printRegisters() {
	r, prev := d.m.CPU.Snapshot(), d.prev
	d.prev = r

	fields := []string{
		d.field("PC", fmt.Sprintf("%04X", r.PC), r.PC != prev.PC),
		d.field("SP", fmt.Sprintf("%04X", r.SP), r.SP != prev.SP),
	}
	for _, reg := range []struct {
		name      string
		val, prev uint8
	}{
		{"A", r.A, prev.A}, {"F", r.F, prev.F},
		{"B", r.B, prev.B}, {"C", r.C, prev.C},
		{"D", r.D, prev.D}, {"E", r.E, prev.E},
		{"H", r.H, prev.H}, {"L", r.L, prev.L},
	} {
		fields = append(fields, d.field(reg.name, fmt.Sprintf("%02X", reg.val), reg.val != reg.prev))
	}
	for _, flag := range []struct {
		name string
		bit  cpu.Flag
	}{
		{"Z", cpu.FlagZero}, {"N", cpu.FlagSubtract}, {"H", cpu.FlagHalfCarry}, {"C", cpu.FlagCarry},
	} {
		set, was := r.F&(1<<flag.bit) != 0, prev.F&(1<<flag.bit) != 0
		fields = append(fields, d.field(flag.name, utils.BoolToString(set), set != was))
	}
	fields = append(fields, fmt.Sprintf("cycles=%d", r.Cycles))
	if r.Halted {
		fields = append(fields, "halted")
	}

	fmt.Fprintln(d.out, strings.Join(fields, " "))
}
