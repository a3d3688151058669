// Package profile counts how often each instruction executes and how many
// cycles it accounts for, and charts the result.
package profile

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/thelolagemann/lr35902/internal/cpu"
)

// Entry is the profile of a single instruction.
type Entry struct {
	Name   string
	Count  uint64
	Cycles uint64
}

// Profile accumulates Entries through its Hook.
type Profile struct {
	entries map[string]*Entry
	clock   func() uint64
	last    uint64
	mu      sync.Mutex
}

// New returns an empty Profile. clock returns the cycle counter of the
// profiled CPU; the cycles charged to an instruction are the difference
// since the previous instruction, so taken branches are counted in full.
// With a nil clock, or when the clock has moved backwards, only base cycles
// are counted.
func New(clock func() uint64) *Profile {
	return &Profile{
		entries: make(map[string]*Entry),
		clock:   clock,
	}
}

// Hook records an executed instruction. It matches the signature of
// cpu.WithInstructionHook.
func (p *Profile) Hook(pc uint16, ins cpu.Instruction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	cycles := uint64(ins.Cycles())
	if p.clock != nil {
		// the counter runs backwards after a reset or a state load
		now := p.clock()
		if now >= p.last {
			cycles = now - p.last
		}
		p.last = now
	}

	e, ok := p.entries[ins.Name()]
	if !ok {
		e = &Entry{Name: ins.Name()}
		p.entries[ins.Name()] = e
	}
	e.Count++
	e.Cycles += cycles
}

// Top returns the n entries with the most cycles, ties broken by name. A
// non-positive n returns every entry.
func (p *Profile) Top(n int) []Entry {
	p.mu.Lock()
	entries := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		entries = append(entries, *e)
	}
	p.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Cycles != entries[j].Cycles {
			return entries[i].Cycles > entries[j].Cycles
		}
		return entries[i].Name < entries[j].Name
	})
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// Render draws a bar chart of the cycles spent per instruction to path.
// The image format follows the file extension (png, svg, pdf, ...).
func (p *Profile) Render(path string) error {
	entries := p.Top(0)
	if len(entries) == 0 {
		return errors.New("profile is empty")
	}

	values := make(plotter.Values, len(entries))
	names := make([]string, len(entries))
	for i, e := range entries {
		values[i] = float64(e.Cycles)
		names[i] = e.Name
	}

	chart := plot.New()
	chart.Title.Text = "Cycles per instruction"
	chart.Y.Label.Text = "T-cycles"

	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return errors.Wrap(err, "creating bar chart")
	}
	chart.Add(bars)
	chart.NominalX(names...)

	width := vg.Length(len(entries))*vg.Points(24) + vg.Centimeter*4
	if err := chart.Save(width, 10*vg.Centimeter, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}
