package engine

import "time"

const (
	// DefaultClockHz is the nominal clock of the CPC's Z80.
	DefaultClockHz = 4_000_000

	// maxAhead is how far emulated time may run ahead of the wall clock
	// before the pacer sleeps.
	maxAhead = time.Millisecond
	// maxLag is how far emulated time may fall behind before the pacer gives
	// up catching up and restarts from now.
	maxLag = 50 * time.Millisecond
)

// Clock is the time source of a Pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }

// Pacer holds emulated time to the wall clock. Each instruction adds
// cycles × 1e9/hz nanoseconds to a running deadline; the pacer sleeps once
// the deadline is more than maxAhead in the future.
type Pacer struct {
	clock    Clock
	hz       int64
	deadline time.Time
	rem      int64 // nanosecond remainder, in units of 1/hz
	slept    time.Duration
}

// NewPacer returns a pacer for a clock rate in Hz. A nil clock uses the wall clock.
func NewPacer(hz int, clock Clock) *Pacer {
	if hz <= 0 {
		hz = DefaultClockHz
	}
	if clock == nil {
		clock = wallClock{}
	}
	return &Pacer{clock: clock, hz: int64(hz)}
}

// CycleDuration returns the wall time of n cycles, rounded down.
func (p *Pacer) CycleDuration(n int) time.Duration {
	return time.Duration(int64(n) * int64(time.Second) / p.hz)
}

// Pace accounts for cycles just executed and blocks if emulation is ahead.
func (p *Pacer) Pace(cycles int) {
	now := p.clock.Now()
	if p.deadline.IsZero() {
		p.deadline = now
	}
	ns := int64(cycles)*int64(time.Second) + p.rem
	p.deadline = p.deadline.Add(time.Duration(ns / p.hz))
	p.rem = ns % p.hz

	ahead := p.deadline.Sub(now)
	switch {
	case ahead > maxAhead:
		p.clock.Sleep(ahead)
		p.slept += ahead
	case ahead < -maxLag:
		p.deadline = now
		p.rem = 0
	}
}

// Slept returns the total time spent sleeping.
func (p *Pacer) Slept() time.Duration {
	return p.slept
}

// Reset forgets the deadline, e.g. after the run loop was paused.
func (p *Pacer) Reset() {
	p.deadline = time.Time{}
	p.rem = 0
}
