package crosscheck

import (
	"github.com/koron-go/z80"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// maxRepeats bounds the reference core on repeating block instructions,
// which it executes one iteration per step.
const maxRepeats = 1 << 17

// refMemory is the reference core's view of memory.
type refMemory [cpu.MemorySize]uint8

func (m *refMemory) Get(addr uint16) uint8    { return m[addr] }
func (m *refMemory) Set(addr uint16, v uint8) { m[addr] = v }

// refIO answers every read with FF, like an unconnected bus.
type refIO struct{}

func (refIO) In(addr uint8) uint8     { return 0xFF }
func (refIO) Out(addr uint8, v uint8) {}

func toRef(r *cpu.Registers) z80.States {
	var s z80.States
	s.AF = z80.Register{Hi: r.A, Lo: r.F}
	s.BC = z80.Register{Hi: r.B, Lo: r.C}
	s.DE = z80.Register{Hi: r.D, Lo: r.E}
	s.HL = z80.Register{Hi: r.H, Lo: r.L}
	s.Alternate.AF = z80.Register{Hi: r.Shadow.A, Lo: r.Shadow.F}
	s.Alternate.BC = z80.Register{Hi: r.Shadow.B, Lo: r.Shadow.C}
	s.Alternate.DE = z80.Register{Hi: r.Shadow.D, Lo: r.Shadow.E}
	s.Alternate.HL = z80.Register{Hi: r.Shadow.H, Lo: r.Shadow.L}
	s.IR = z80.Register{Hi: r.I, Lo: r.R}
	s.IX, s.IY = r.IX, r.IY
	s.SP, s.PC = r.SP, r.PC
	return s
}

// fromRef copies the registers the reference core models back into a
// register file. Interrupt state is left as it was.
func fromRef(s *z80.States, r *cpu.Registers) {
	r.A, r.F = s.AF.Hi, s.AF.Lo
	r.B, r.C = s.BC.Hi, s.BC.Lo
	r.D, r.E = s.DE.Hi, s.DE.Lo
	r.H, r.L = s.HL.Hi, s.HL.Lo
	r.Shadow = cpu.Bank{
		A: s.Alternate.AF.Hi, F: s.Alternate.AF.Lo,
		B: s.Alternate.BC.Hi, C: s.Alternate.BC.Lo,
		D: s.Alternate.DE.Hi, E: s.Alternate.DE.Lo,
		H: s.Alternate.HL.Hi, L: s.Alternate.HL.Lo,
	}
	r.I, r.R = s.IR.Hi, s.IR.Lo
	r.IX, r.IY = s.IX, s.IY
	r.SP, r.PC = s.SP, s.PC
}

// reference runs the instruction at r.PC on the reference core. A repeating
// instruction is stepped until it moves past its own address.
func reference(mem *refMemory, r cpu.Registers, repeats bool) cpu.Registers {
	c := &z80.CPU{
		States: toRef(&r),
		Memory: mem,
		IO:     refIO{},
	}
	start := r.PC
	c.Step()
	for n := 0; repeats && c.PC == start && n < maxRepeats; n++ {
		c.Step()
	}
	fromRef(&c.States, &r)
	return r
}
