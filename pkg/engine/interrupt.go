package engine

import (
	"sync/atomic"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// Interrupt vectors and acknowledge costs.
const (
	nmiVector = 0x0066
	rst38     = 0x0038

	nmiTStates  = 11
	im01TStates = 13
	im2TStates  = 19
)

// interruptLine carries requests from other goroutines to the fetch loop.
type interruptLine struct {
	pending atomic.Bool
	data    atomic.Uint32
	nmi     atomic.Bool
}

// RequestInterrupt raises the maskable interrupt line with the byte a device
// would place on the data bus. The request stays pending until accepted.
// Safe for concurrent use.
func (e *Engine) RequestInterrupt(data uint8) {
	e.irq.data.Store(uint32(data))
	e.irq.pending.Store(true)
}

// RequestNMI raises the non-maskable interrupt. Safe for concurrent use.
func (e *Engine) RequestNMI() {
	e.irq.nmi.Store(true)
}

// InterruptPending reports whether a maskable request is waiting.
func (e *Engine) InterruptPending() bool {
	return e.irq.pending.Load()
}

// acceptInterrupt services a pending request at an instruction boundary and
// returns the acknowledge cost. A maskable request is held while IFF1 is clear
// and for one instruction after EI.
func (e *Engine) acceptInterrupt() (int, bool) {
	r := &e.m.Regs
	if e.irq.nmi.CompareAndSwap(true, false) {
		r.Halted = false
		r.Refresh()
		r.IFF1 = false
		e.m.Call(nmiVector)
		return nmiTStates, true
	}
	if !r.IFF1 || e.eiDelay || !e.irq.pending.Load() {
		return 0, false
	}
	data := uint8(e.irq.data.Load())
	e.irq.pending.Store(false)

	r.Halted = false
	r.Refresh()
	r.IFF1, r.IFF2 = false, false
	switch r.IM {
	case 0:
		// Only RST opcodes are meaningful on the bus; anything else runs RST 38h.
		if data&0xC7 == 0xC7 {
			e.m.Call(uint16(data & 0x38))
		} else {
			e.m.Call(rst38)
		}
		return im01TStates, true
	case 1:
		e.m.Call(rst38)
		return im01TStates, true
	default:
		vector := cpu.Word(r.I, data&0xFE)
		e.m.Call(e.m.Mem.ReadWord(vector))
		return im2TStates, true
	}
}
