// Package engine runs the fetch-decode-execute loop over a cpu.Machine.
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/inst"
)

// haltTStates is the cost of one step spent halted (an internal NOP).
const haltTStates = 4

// checkEvery is how many instructions run between context checks. Power of two.
const checkEvery = 1024

// Config holds engine configuration.
type Config struct {
	ClockHz     int            // Nominal CPU clock (defaults to 4 MHz)
	Unthrottled bool           // Run as fast as possible instead of pacing to ClockHz
	Logger      *logrus.Logger // Defaults to the logrus standard logger
	Clock       Clock          // Pacing time source (defaults to the wall clock)
}

// Stats counts the work done by an engine.
type Stats struct {
	Instructions uint64
	Cycles       uint64
}

// StepError reports a failed fetch together with the address it started at.
type StepError struct {
	Addr uint16
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step at %04X: %v", e.Addr, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Engine executes instructions against one machine. It is not safe for
// concurrent use except for RequestInterrupt, RequestNMI and Stats.
type Engine struct {
	m      *cpu.Machine
	cfg    Config
	logger *logrus.Logger
	log    *logrus.Entry
	pacer  *Pacer
	next   func() uint8

	irq     interruptLine
	eiDelay bool

	instructions atomic.Uint64
	cycles       atomic.Uint64
}

// New returns an engine driving m.
func New(m *cpu.Machine, cfg Config) *Engine {
	if cfg.ClockHz <= 0 {
		cfg.ClockHz = DefaultClockHz
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	e := &Engine{
		m:      m,
		cfg:    cfg,
		logger: cfg.Logger,
		log:    cfg.Logger.WithField("component", "engine"),
	}
	if !cfg.Unthrottled {
		e.pacer = NewPacer(cfg.ClockHz, cfg.Clock)
	}
	e.next = e.fetch
	return e
}

// Machine returns the machine the engine drives.
func (e *Engine) Machine() *cpu.Machine {
	return e.m
}

// Stats returns the instruction and cycle counters. Safe for concurrent use.
func (e *Engine) Stats() Stats {
	return Stats{
		Instructions: e.instructions.Load(),
		Cycles:       e.cycles.Load(),
	}
}

// Restore sets the counters, e.g. when resuming from a snapshot.
func (e *Engine) Restore(s Stats) {
	e.instructions.Store(s.Instructions)
	e.cycles.Store(s.Cycles)
}

func (e *Engine) fetch() uint8 {
	r := &e.m.Regs
	v := e.m.Mem.Read(r.PC)
	r.PC++
	return v
}

// fetchOpcode is an M1 cycle: it also advances the refresh register.
func (e *Engine) fetchOpcode() uint8 {
	e.m.Regs.Refresh()
	return e.fetch()
}

// decode reads an optional prefix and the opcode, leaving PC on the first operand.
func (e *Engine) decode() (*inst.Instruction, error) {
	op := e.fetchOpcode()
	ns := inst.Basic
	if p, ok := inst.PrefixNamespace(op); ok {
		ns = p
		op = e.fetchOpcode()
	}
	return inst.Lookup(ns, op)
}

func isEI(in *inst.Instruction) bool {
	return in.Namespace == inst.Basic && in.Opcode == 0xFB
}

// Step executes one instruction, or services an interrupt, or idles one
// halted cycle. It returns the cycles consumed. On an unmapped opcode PC is
// left on the failing instruction and the error is a *StepError.
func (e *Engine) Step() (int, error) {
	r := &e.m.Regs
	if cycles, ok := e.acceptInterrupt(); ok {
		e.eiDelay = false
		e.account(cycles)
		e.log.WithFields(logrus.Fields{"pc": hex16(r.PC), "im": r.IM, "cycles": cycles}).Debug("interrupt accepted")
		return cycles, nil
	}
	if r.Halted {
		r.Refresh()
		e.eiDelay = false
		e.account(haltTStates)
		return haltTStates, nil
	}

	start := r.PC
	in, err := e.decode()
	if err != nil {
		r.PC = start
		return 0, &StepError{Addr: start, Err: err}
	}
	cycles := in.Run(e.m, e.next)
	e.eiDelay = isEI(in)
	e.account(cycles)
	if r.Halted {
		e.log.WithField("pc", hex16(start)).Debug("halt")
	}

	if e.logger.IsLevelEnabled(logrus.TraceLevel) {
		e.log.WithFields(logrus.Fields{
			"pc":     hex16(start),
			"ns":     in.Namespace.String(),
			"op":     fmt.Sprintf("%02X", in.Opcode),
			"cycles": cycles,
		}).Trace(in.Mnemonic)
	}
	return cycles, nil
}

func (e *Engine) account(cycles int) {
	e.instructions.Add(1)
	e.cycles.Add(uint64(cycles))
}

// Run sets PC to start and executes until ctx is cancelled or a step fails.
func (e *Engine) Run(ctx context.Context, start uint16) error {
	e.m.Regs.PC = start
	return e.Resume(ctx)
}

// Resume continues from the current PC. It returns ctx.Err() on cancellation
// and a *StepError on an unmapped opcode; it never returns nil.
func (e *Engine) Resume(ctx context.Context) error {
	e.log.WithFields(logrus.Fields{
		"pc":       hex16(e.m.Regs.PC),
		"clock_hz": e.cfg.ClockHz,
		"throttle": e.pacer != nil,
	}).Info("run")
	if e.pacer != nil {
		e.pacer.Reset()
	}
	began := time.Now()
	before := e.Stats()

	err := e.loop(ctx)

	s := e.Stats()
	fields := logrus.Fields{
		"pc":           hex16(e.m.Regs.PC),
		"instructions": s.Instructions - before.Instructions,
		"cycles":       s.Cycles - before.Cycles,
		"elapsed":      time.Since(began).Round(time.Millisecond),
	}
	if e.pacer != nil {
		fields["slept"] = e.pacer.Slept().Round(time.Millisecond)
	}
	e.log.WithFields(fields).WithError(err).Info("run stopped")
	return err
}

func (e *Engine) loop(ctx context.Context) error {
	for n := 0; ; n++ {
		if n&(checkEvery-1) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		cycles, err := e.Step()
		if err != nil {
			return err
		}
		if e.pacer != nil {
			e.pacer.Pace(cycles)
		}
	}
}

func hex16(v uint16) string {
	return fmt.Sprintf("%04X", v)
}
