package debugger

import (
	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/thelolagemann/lr35902/internal/cpu"
)

// breakpoint is a Starlark expression evaluated after every step of a
// continue, e.g. "pc == 0x0117 and not zero".
type breakpoint struct {
	expr string
}

func newBreakpoint(expr string) (*breakpoint, error) {
	opts := syntax.FileOptions{}
	if _, err := opts.ParseExpr("break", expr, 0); err != nil {
		return nil, errors.Wrap(err, "parsing breakpoint")
	}
	return &breakpoint{expr: expr}, nil
}

// hit evaluates the expression against c and reports its truth value.
func (b *breakpoint) hit(c *cpu.CPU) (bool, error) {
	thread := starlark.Thread{Name: "break"}
	opts := syntax.FileOptions{}
	prog := "rc = " + b.expr + "\n"

	dict, err := starlark.ExecFileOptions(&opts, &thread, "break", prog, predeclared(c))
	if err != nil {
		return false, err
	}
	rc, ok := dict["rc"]
	if !ok {
		return false, errors.Errorf("breakpoint %q has no value", b.expr)
	}
	return bool(rc.Truth()), nil
}

// predeclared exposes the register file to breakpoint expressions.
func predeclared(c *cpu.CPU) starlark.StringDict {
	r := c.Snapshot()
	return starlark.StringDict{
		"a":          starlark.MakeInt(int(r.A)),
		"f":          starlark.MakeInt(int(r.F)),
		"b":          starlark.MakeInt(int(r.B)),
		"c":          starlark.MakeInt(int(r.C)),
		"d":          starlark.MakeInt(int(r.D)),
		"e":          starlark.MakeInt(int(r.E)),
		"h":          starlark.MakeInt(int(r.H)),
		"l":          starlark.MakeInt(int(r.L)),
		"af":         starlark.MakeInt(int(c.AF.Uint16())),
		"bc":         starlark.MakeInt(int(c.BC.Uint16())),
		"de":         starlark.MakeInt(int(c.DE.Uint16())),
		"hl":         starlark.MakeInt(int(c.HL.Uint16())),
		"sp":         starlark.MakeInt(int(r.SP)),
		"pc":         starlark.MakeInt(int(r.PC)),
		"cycles":     starlark.MakeUint64(r.Cycles),
		"halted":     starlark.Bool(r.Halted),
		"zero":       starlark.Bool(c.Flag(cpu.FlagZero)),
		"subtract":   starlark.Bool(c.Flag(cpu.FlagSubtract)),
		"half_carry": starlark.Bool(c.Flag(cpu.FlagHalfCarry)),
		"carry":      starlark.Bool(c.Flag(cpu.FlagCarry)),
	}
}
