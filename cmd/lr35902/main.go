package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/thelolagemann/lr35902/internal/config"
	"github.com/thelolagemann/lr35902/internal/debugger"
	"github.com/thelolagemann/lr35902/internal/interrupts"
	"github.com/thelolagemann/lr35902/internal/machine"
	"github.com/thelolagemann/lr35902/pkg/log"
	"github.com/thelolagemann/lr35902/pkg/profile"
	"github.com/thelolagemann/lr35902/pkg/trace"
	"github.com/thelolagemann/lr35902/pkg/utils"
)

func main() {
	cfg, err := config.Parse("lr35902", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.New().Fatal(err.Error())
	}

	logger := log.NewWithLevel(os.Stderr, cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Fatal(err.Error())
	}
}

func run(cfg *config.Config, logger log.Logger) error {
	rom, err := utils.LoadFile(cfg.ROM)
	if err != nil {
		return err
	}

	var m *machine.Machine
	opts := []machine.Opt{
		machine.WithLogger(logger),
		machine.WithEntry(cfg.Entry),
		machine.WithMaxSteps(cfg.Steps),
	}

	// the debugger can wake a halted CPU by requesting an interrupt
	irq := interrupts.NewService()
	if cfg.Debug {
		opts = append(opts, machine.WithInterruptLine(irq))
	}

	var prof *profile.Profile
	if cfg.Profile != "" {
		prof = profile.New(func() uint64 { return m.CPU.Cycles() })
		opts = append(opts, machine.WithInstructionHook(prof.Hook))
	}

	var tracer *trace.Server
	if cfg.TraceAddr != "" {
		traceOpts := []trace.Opt{trace.WithLogger(logger)}
		if cfg.Compression >= 0 {
			traceOpts = append(traceOpts, trace.WithCompression(cfg.Compression))
		}
		tracer = trace.NewServer(traceOpts...)
		defer tracer.Close()

		go func() {
			if err := tracer.ListenAndServe(cfg.TraceAddr); err != nil {
				logger.Errorf("trace server: %v", err)
			}
		}()
	}

	opts = append(opts, machine.WithTrace(func(dump string) {
		if !cfg.Quiet {
			fmt.Println(dump)
		}
		if tracer != nil {
			tracer.Publish(dump)
		}
	}))

	m = machine.New(rom, opts...)
	logger.Infof("loaded %s: %d bytes, xxhash %016x", cfg.ROM, len(rom), m.Checksum())

	var runErr error
	if cfg.Debug {
		runErr = debugger.New(m, debugger.WithInterrupts(irq)).Run()
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var res machine.Result
		res, runErr = m.Run(ctx)
		logger.Infof("ran %d steps in %d cycles, halted: %v", res.Steps, res.Cycles, res.Halted)
	}

	// the profile and state are still written when the run fails, they
	// are most useful then
	if prof != nil {
		if err := prof.Render(cfg.Profile); err != nil {
			logger.Errorf("profile: %v", err)
		}
		for _, e := range prof.Top(5) {
			logger.Infof("%-12s %6d executions %8d cycles", e.Name, e.Count, e.Cycles)
		}
	}
	if cfg.State != "" {
		state, err := m.SaveState()
		if err == nil {
			err = os.WriteFile(cfg.State, state, 0o644)
		}
		if err != nil {
			logger.Errorf("saving state: %v", err)
		}
	}

	return runErr
}
