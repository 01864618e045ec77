package inst

import (
	"fmt"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// ED-prefixed instructions: port I/O through C, 16-bit arithmetic with
// carry, interrupt control and the block transfer family. Only documented
// opcodes are mapped.

const (
	blockTStates       = 16 // single iteration
	blockRepeatTStates = 21 // each further iteration of a repeating form
)

// defBlock registers a block instruction and its repeating form. The
// repeating form runs every iteration inside one execution.
func defBlock(code uint8, mnemonic, repeating string, step func(m *cpu.Machine) bool) {
	def0(Extended, code, mnemonic, blockTStates, func(m *cpu.Machine) { step(m) })
	register(&Instruction{
		Namespace: Extended, Opcode: code | 0x10, Mnemonic: repeating,
		TStates: blockRepeatTStates, TStatesNotTaken: blockTStates,
		Exec: Exec0(func(m *cpu.Machine) int {
			t := blockTStates
			for step(m) {
				t += blockRepeatTStates
			}
			return t
		}),
	})
}

func init() {
	e := Extended

	for p, rp := range pairs {
		code := uint8(p << 4)
		def0(e, 0x42|code, "SBC HL, "+rp.String(), 15, func(m *cpu.Machine) { m.Regs.SbcHL(m.Regs.Pair(rp)) })
		def0(e, 0x4A|code, "ADC HL, "+rp.String(), 15, func(m *cpu.Machine) { m.Regs.AdcHL(m.Regs.Pair(rp)) })
		defNN(e, 0x43|code, fmt.Sprintf("LD (nn), %s", rp), 20, func(m *cpu.Machine, nn uint16) {
			m.Mem.WriteWord(nn, m.Regs.Pair(rp))
		})
		defNN(e, 0x4B|code, fmt.Sprintf("LD %s, (nn)", rp), 20, func(m *cpu.Machine, nn uint16) {
			m.Regs.SetPair(rp, m.Mem.ReadWord(nn))
		})
	}

	// IN r, (C) and OUT (C), r. The port address is BC.
	for i, r := range regs {
		if r == cpu.RegM {
			continue
		}
		code := uint8(i << 3)
		def0(e, 0x40|code, fmt.Sprintf("IN %s, (C)", r), 12, func(m *cpu.Machine) {
			v := m.In(m.Regs.Pair(cpu.BC))
			m.Set8(r, v)
			m.Regs.InFlags(v)
		})
		def0(e, 0x41|code, fmt.Sprintf("OUT (C), %s", r), 12, func(m *cpu.Machine) {
			m.Out(m.Regs.Pair(cpu.BC), m.Get8(r))
		})
	}

	def0(e, 0x44, "NEG", 8, func(m *cpu.Machine) { m.Regs.Neg() })

	// RETN and RETI both copy IFF2 back into IFF1.
	def0(e, 0x45, "RETN", 14, func(m *cpu.Machine) {
		m.Ret()
		m.Regs.IFF1 = m.Regs.IFF2
	})
	def0(e, 0x4D, "RETI", 14, func(m *cpu.Machine) {
		m.Ret()
		m.Regs.IFF1 = m.Regs.IFF2
	})

	for mode, code := range [3]uint8{0x46, 0x56, 0x5E} {
		im := uint8(mode)
		def0(e, code, fmt.Sprintf("IM %d", im), 8, func(m *cpu.Machine) { m.Regs.IM = im })
	}

	def0(e, 0x47, "LD I, A", 9, func(m *cpu.Machine) { m.Regs.I = m.Regs.A })
	def0(e, 0x4F, "LD R, A", 9, func(m *cpu.Machine) { m.Regs.R = m.Regs.A })
	def0(e, 0x57, "LD A, I", 9, func(m *cpu.Machine) { m.Regs.LdAIR(m.Regs.I) })
	def0(e, 0x5F, "LD A, R", 9, func(m *cpu.Machine) { m.Regs.LdAIR(m.Regs.R) })

	def0(e, 0x67, "RRD", 18, func(m *cpu.Machine) {
		hl := m.Regs.Pair(cpu.HL)
		m.Mem.Write(hl, m.Regs.Rrd(m.Mem.Read(hl)))
	})
	def0(e, 0x6F, "RLD", 18, func(m *cpu.Machine) {
		hl := m.Regs.Pair(cpu.HL)
		m.Mem.Write(hl, m.Regs.Rld(m.Mem.Read(hl)))
	})

	defBlock(0xA0, "LDI", "LDIR", (*cpu.Machine).Ldi)
	defBlock(0xA1, "CPI", "CPIR", (*cpu.Machine).Cpi)
	defBlock(0xA2, "INI", "INIR", (*cpu.Machine).Ini)
	defBlock(0xA3, "OUTI", "OTIR", (*cpu.Machine).Outi)
	defBlock(0xA8, "LDD", "LDDR", (*cpu.Machine).Ldd)
	defBlock(0xA9, "CPD", "CPDR", (*cpu.Machine).Cpd)
	defBlock(0xAA, "IND", "INDR", (*cpu.Machine).Ind)
	defBlock(0xAB, "OUTD", "OTDR", (*cpu.Machine).Outd)
}
