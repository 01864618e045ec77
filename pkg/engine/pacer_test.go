package engine

import (
	"testing"
	"time"
)

// fakeClock advances only when slept on.
type fakeClock struct {
	now     time.Time
	sleeps  []time.Duration
	onSleep func()
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if c.onSleep != nil {
		c.onSleep()
	}
}

func TestCycleDuration(t *testing.T) {
	p := NewPacer(4_000_000, newFakeClock())
	if got := p.CycleDuration(1); got != 250*time.Nanosecond {
		t.Errorf("1 cycle at 4 MHz = %v, want 250ns", got)
	}
	if got := p.CycleDuration(4_000_000); got != time.Second {
		t.Errorf("4M cycles = %v, want 1s", got)
	}
	if NewPacer(0, nil).hz != DefaultClockHz {
		t.Error("zero clock rate should default")
	}
}

func TestPacerSleepsWhenAhead(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer(4_000_000, clock)

	p.Pace(4000) // exactly 1ms ahead: within tolerance
	if len(clock.sleeps) != 0 {
		t.Fatalf("slept %v at 1ms ahead", clock.sleeps)
	}
	p.Pace(4) // 1ms + 1µs
	if len(clock.sleeps) != 1 || clock.sleeps[0] != time.Millisecond+time.Microsecond {
		t.Fatalf("sleeps = %v, want [1.001ms]", clock.sleeps)
	}
	if p.Slept() != time.Millisecond+time.Microsecond {
		t.Errorf("Slept() = %v", p.Slept())
	}
}

func TestPacerResetsWhenBehind(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer(4_000_000, clock)
	p.Pace(4)
	clock.now = clock.now.Add(time.Second) // host stalled

	p.Pace(40_000) // 10ms of work
	if len(clock.sleeps) != 0 {
		t.Fatalf("slept %v right after falling behind", clock.sleeps)
	}
	p.Pace(40_000)
	if len(clock.sleeps) != 1 || clock.sleeps[0] != 10*time.Millisecond {
		t.Errorf("sleeps = %v, want [10ms] measured from the reset", clock.sleeps)
	}
}

func TestPacerKeepsRemainder(t *testing.T) {
	clock := newFakeClock()
	start := clock.now
	p := NewPacer(3, clock)
	for i := 0; i < 3; i++ {
		p.Pace(1)
	}
	if got := clock.now.Sub(start); got != time.Second {
		t.Errorf("3 cycles at 3 Hz took %v, want exactly 1s", got)
	}
}

func TestPacerReset(t *testing.T) {
	clock := newFakeClock()
	p := NewPacer(4_000_000, clock)
	p.Pace(3999)
	p.Reset()
	p.Pace(3999)
	if len(clock.sleeps) != 0 {
		t.Errorf("reset pacer still carried the old deadline: %v", clock.sleeps)
	}
}
