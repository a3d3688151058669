// Package debugger implements an interactive stepping debugger on top of a
// machine. Breakpoints are Starlark expressions over the register file.
package debugger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"

	"github.com/thelolagemann/lr35902/internal/cpu"
	"github.com/thelolagemann/lr35902/internal/interrupts"
	"github.com/thelolagemann/lr35902/internal/machine"
)

// maxContinue bounds a single continue, so a program looping forever
// without hitting a breakpoint hands control back.
const maxContinue = 1 << 20

// Debugger drives a machine one command at a time.
type Debugger struct {
	m      *machine.Machine
	out    io.Writer
	breaks []*breakpoint
	prev   cpu.Registers
	last   string
	color  bool
	irq    *interrupts.Service
}

// Opt configures a Debugger.
type Opt func(d *Debugger)

// WithOutput sets where command output is written, stdout by default.
func WithOutput(w io.Writer) Opt {
	return func(d *Debugger) {
		d.out = w
	}
}

// WithInterrupts enables the irq command, requesting interrupts on s. s
// should be the interrupt line attached to the machine's CPU.
func WithInterrupts(s *interrupts.Service) Opt {
	return func(d *Debugger) {
		d.irq = s
	}
}

// WithoutColor disables highlighting of changed registers.
func WithoutColor() Opt {
	return func(d *Debugger) {
		d.color = false
	}
}

// New returns a Debugger for m.
func New(m *machine.Machine, opts ...Opt) *Debugger {
	d := &Debugger{
		m:     m,
		out:   os.Stdout,
		prev:  m.CPU.Snapshot(),
		color: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run reads commands until quit, EOF or an interrupt on an empty line.
// History is kept in the user's cache folder.
func (d *Debugger) Run() error {
	historyPath := ""
	cacheDir := configdir.New("thelolagemann", "lr35902").QueryCacheFolder()
	if err := cacheDir.MkdirAll(); err == nil {
		historyPath = filepath.Join(cacheDir.Path, "history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          d.prompt(),
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return errors.Wrap(err, "starting readline")
	}
	defer rl.Close()
	d.out = rl.Stdout()

	d.printRegisters()
	for {
		rl.SetPrompt(d.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		quit, err := d.Exec(line)
		if err != nil {
			fmt.Fprintf(d.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (d *Debugger) prompt() string {
	return fmt.Sprintf("%04X> ", d.m.CPU.PC)
}

// Exec runs a single command line. An empty line repeats the previous
// command. It reports whether the debugger should exit.
func (d *Debugger) Exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.last
	}
	if line == "" {
		return false, nil
	}
	d.last = line

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "s", "step":
		n, err := count(args, 1)
		if err != nil {
			return false, err
		}
		for i := 0; i < n; i++ {
			if err := d.m.Step(); err != nil {
				d.printRegisters()
				return false, err
			}
		}
		d.printRegisters()
	case "c", "continue":
		n, err := count(args, maxContinue)
		if err != nil {
			return false, err
		}
		return false, d.cont(n)
	case "r", "regs":
		d.printRegisters()
	case "m", "mem":
		return false, d.mem(args)
	case "b", "break":
		if rest == "" {
			d.listBreakpoints()
			return false, nil
		}
		bp, err := newBreakpoint(rest)
		if err != nil {
			return false, err
		}
		if _, err := bp.hit(d.m.CPU); err != nil {
			return false, err
		}
		d.breaks = append(d.breaks, bp)
		fmt.Fprintf(d.out, "breakpoint %d: %s\n", len(d.breaks)-1, bp.expr)
	case "d", "delete":
		return false, d.delete(args)
	case "reset":
		d.m.Reset()
		d.printRegisters()
	case "save", "load":
		if len(args) != 1 {
			return false, errors.Errorf("usage: %s <path>", cmd)
		}
		if cmd == "save" {
			return false, d.save(args[0])
		}
		return false, d.load(args[0])
	case "i", "irq":
		return false, d.interrupt(args)
	case "h", "help":
		fmt.Fprint(d.out, help)
	case "q", "quit":
		return true, nil
	default:
		return false, errors.Errorf("unknown command %q, try help", cmd)
	}
	return false, nil
}

const help = `step [n]         execute n instructions (default 1)
continue [n]     run until a breakpoint, halt or error
regs             print the registers
mem <addr> [n]   dump n bytes from addr (hex)
break [expr]     break when expr is true, or list breakpoints
delete [i]       delete breakpoint i, or all
irq [n]          request interrupt n (0-4), or show the request bits
reset            reset the CPU to the entry point
save <path>      save the machine state
load <path>      load a machine state
quit             exit
`

// cont steps until a breakpoint is hit, the CPU halts or errors, or n
// steps have run.
func (d *Debugger) cont(n int) error {
	for i := 0; i < n; i++ {
		if d.m.CPU.Halted() {
			fmt.Fprintln(d.out, "halted")
			break
		}
		if err := d.m.Step(); err != nil {
			d.printRegisters()
			return err
		}
		for j, bp := range d.breaks {
			hit, err := bp.hit(d.m.CPU)
			if err != nil {
				return errors.Wrapf(err, "breakpoint %d", j)
			}
			if hit {
				fmt.Fprintf(d.out, "breakpoint %d: %s\n", j, bp.expr)
				d.printRegisters()
				return nil
			}
		}
		if i == n-1 {
			fmt.Fprintf(d.out, "stopped after %d steps\n", n)
		}
	}
	d.printRegisters()
	return nil
}

func (d *Debugger) mem(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: mem <addr> [n]")
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	n, err := count(args[1:], 16)
	if err != nil {
		return err
	}

	data := d.m.MMU.Dump(addr, n)
	for i := 0; i < len(data); i += 16 {
		end := min(i+16, len(data))
		hex := make([]string, 0, 16)
		for _, b := range data[i:end] {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		fmt.Fprintf(d.out, "%04X: %s\n", addr+uint16(i), strings.Join(hex, " "))
	}
	return nil
}

func (d *Debugger) interrupt(args []string) error {
	if d.irq == nil {
		return errors.New("no interrupt line attached")
	}
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > 4 {
			return errors.Errorf("invalid interrupt %q", args[0])
		}
		d.irq.Request(1 << n)
	}
	fmt.Fprintf(d.out, "IF=%05b IE=%05b pending=%v\n", d.irq.Flag, d.irq.Enable&0x1F, d.irq.Pending())
	return nil
}

func (d *Debugger) delete(args []string) error {
	if len(args) == 0 {
		d.breaks = nil
		return nil
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 0 || i >= len(d.breaks) {
		return errors.Errorf("no breakpoint %s", args[0])
	}
	d.breaks = append(d.breaks[:i], d.breaks[i+1:]...)
	return nil
}

func (d *Debugger) listBreakpoints() {
	if len(d.breaks) == 0 {
		fmt.Fprintln(d.out, "no breakpoints")
	}
	for i, bp := range d.breaks {
		fmt.Fprintf(d.out, "%d: %s\n", i, bp.expr)
	}
}

func (d *Debugger) save(path string) error {
	state, err := d.m.SaveState()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, state, 0o644); err != nil {
		return errors.Wrap(err, "writing state")
	}
	fmt.Fprintf(d.out, "saved %d bytes to %s\n", len(state), path)
	return nil
}

func (d *Debugger) load(path string) error {
	state, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading state")
	}
	if err := d.m.LoadState(state); err != nil {
		return err
	}
	d.printRegisters()
	return nil
}

// count parses the optional count in args, returning def if there is none.
func count(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, errors.Errorf("invalid count %q", args[0])
	}
	return n, nil
}

// parseAddress parses a hexadecimal address with an optional 0x or $
// prefix.
func parseAddress(s string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "0x"), "$")
	v, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, errors.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}
