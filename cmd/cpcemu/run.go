package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/dsk"
	"github.com/oisee/cpc-z80/pkg/engine"
	"github.com/oisee/cpc-z80/pkg/inst"
	"github.com/oisee/cpc-z80/pkg/snapshot"
)

// irqData is what the CPC gate array leaves on the bus when it interrupts.
const irqData = 0xFF

func newRunCmd() *cobra.Command {
	opts := defaultRunOptions()
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load a ROM and/or disk image and execute until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fc, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				opts.merge(fc, cmd.Flags())
				lvl, err := logrus.ParseLevel(opts.logLevel)
				if err != nil {
					return err
				}
				logger.SetLevel(lvl)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML machine description")
	f.StringVar(&opts.rom, "rom", "", "ROM image (16 KiB or 32 KiB)")
	f.StringVar(&opts.dsk, "dsk", "", "CPCEMU disk image; track 0 is copied into memory")
	f.Var(&opts.dskLoad, "dsk-load", "Address track 0 of the disk image is copied to")
	f.Var(&opts.start, "start", "Address execution starts at")
	f.IntVar(&opts.clockHz, "clock-hz", opts.clockHz, "Nominal CPU clock in Hz")
	f.BoolVar(&opts.throttle, "throttle", opts.throttle, "Pace execution to the nominal clock")
	f.IntVar(&opts.irqHz, "irq-hz", 0, "Raise a maskable interrupt at this rate (CPC: 300; 0 = never)")
	f.StringVar(&opts.snapshot, "snapshot", "", "Write a snapshot to this file when the run stops")
	f.StringVar(&opts.resume, "resume", "", "Resume from a snapshot instead of resetting")
	f.StringVar(&opts.statsview, "statsview", "", "Serve runtime statistics on this address, e.g. localhost:12600")
	return cmd
}

// newMachine builds a machine from the ROM and disk options.
func newMachine(opts runOptions) (*cpu.Machine, error) {
	m := cpu.NewMachine(newLoggingPorts(nil, logger))
	if opts.rom != "" {
		rom, err := os.ReadFile(opts.rom)
		if err != nil {
			return nil, err
		}
		if err := m.Mem.LoadROM(rom); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.rom, err)
		}
		logger.WithFields(logrus.Fields{"rom": opts.rom, "size": len(rom)}).Info("rom loaded")
	}
	if opts.dsk != "" {
		img, err := dsk.Load(opts.dsk)
		if err != nil {
			return nil, err
		}
		if len(img.Tracks) == 0 {
			return nil, fmt.Errorf("%s: %w: no tracks", opts.dsk, dsk.ErrFormat)
		}
		addr := uint16(opts.dskLoad)
		n, complete := loadTrack(&m.Mem, addr, img.Tracks[0])
		if !complete {
			logger.WithFields(logrus.Fields{"load": fmt.Sprintf("%04X", addr), "loaded": n}).
				Warn("track 0 truncated at the end of memory")
		}
		logger.WithFields(logrus.Fields{
			"dsk":     opts.dsk,
			"kind":    img.Kind.String(),
			"tracks":  len(img.Tracks),
			"load":    fmt.Sprintf("%04X", addr),
			"loaded":  n,
			"creator": img.Creator,
		}).Info("disk image loaded")
	}
	return m, nil
}

// loadTrack copies the sectors of t to addr in sector table order. Loading
// stops at FFFF rather than wrapping onto low memory; complete is false when
// some sector data did not fit.
func loadTrack(mem *cpu.Memory, addr uint16, t dsk.Track) (n int, complete bool) {
	for _, s := range t.Sectors {
		if len(s.Data) == 0 {
			continue
		}
		if int(addr)+n >= cpu.MemorySize {
			return n, false
		}
		c := mem.Load(addr+uint16(n), s.Data)
		n += c
		if c < len(s.Data) {
			return n, false
		}
	}
	return n, true
}

func run(ctx context.Context, opts runOptions) error {
	m, err := newMachine(opts)
	if err != nil {
		return err
	}
	e := engine.New(m, engine.Config{
		ClockHz:     opts.clockHz,
		Unthrottled: !opts.throttle,
		Logger:      logger,
	})

	if opts.statsview != "" {
		viewer.SetConfiguration(viewer.WithAddr(opts.statsview))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		logger.WithField("addr", opts.statsview).Info("statsview at /debug/statsview")
	}
	if opts.irqHz > 0 {
		go raiseInterrupts(ctx, e, opts.irqHz)
	}

	if opts.resume != "" {
		s, err := snapshot.Load(opts.resume)
		if err != nil {
			return err
		}
		s.Apply(e)
		logger.WithField("snapshot", opts.resume).Info("resuming")
		err = e.Resume(ctx)
		return finish(e, opts, err)
	}
	err = e.Run(ctx, uint16(opts.start))
	return finish(e, opts, err)
}

// finish writes the exit snapshot and turns the run error into the
// command's result. An unmapped opcode is fatal.
func finish(e *engine.Engine, opts runOptions, err error) error {
	if opts.snapshot != "" {
		if serr := snapshot.Save(opts.snapshot, snapshot.Capture(e)); serr != nil {
			logger.WithError(serr).Error("snapshot not written")
		} else {
			logger.WithField("snapshot", opts.snapshot).Info("snapshot written")
		}
	}

	var se *engine.StepError
	var ue *inst.UnmappedOpcodeError
	if errors.As(err, &se) && errors.As(err, &ue) {
		logger.WithFields(logrus.Fields{
			"pc": fmt.Sprintf("%04X", se.Addr),
			"ns": ue.Namespace.String(),
			"op": fmt.Sprintf("%02X", ue.Opcode),
		}).Fatal("unmapped opcode")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// raiseInterrupts requests a maskable interrupt hz times a second until ctx is done.
func raiseInterrupts(ctx context.Context, e *engine.Engine, hz int) {
	period := time.Second / time.Duration(hz)
	if period <= 0 {
		period = time.Nanosecond
	}
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.RequestInterrupt(irqData)
		}
	}
}
