package inst

import (
	"fmt"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// Unprefixed instructions. All 256 opcode bytes are mapped except the four
// prefixes CB, DD, ED and FD.

func init() {
	b := Basic

	def0(b, 0x00, "NOP", 4, func(m *cpu.Machine) {})

	// 16-bit loads and arithmetic on BC, DE, HL, SP.
	for p, rp := range pairs {
		code := uint8(p << 4)
		defNN(b, 0x01|code, fmt.Sprintf("LD %s, nn", rp), 10, func(m *cpu.Machine, nn uint16) {
			m.Regs.SetPair(rp, nn)
		})
		def0(b, 0x03|code, "INC "+rp.String(), 6, func(m *cpu.Machine) { m.Regs.IncPair(rp) })
		def0(b, 0x0B|code, "DEC "+rp.String(), 6, func(m *cpu.Machine) { m.Regs.DecPair(rp) })
		def0(b, 0x09|code, "ADD HL, "+rp.String(), 11, func(m *cpu.Machine) {
			m.Regs.AddPair(cpu.HL, m.Regs.Pair(rp))
		})
	}
	for p, rp := range pairsAF {
		code := uint8(p << 4)
		def0(b, 0xC1|code, "POP "+rp.String(), 10, func(m *cpu.Machine) { m.PopPair(rp) })
		def0(b, 0xC5|code, "PUSH "+rp.String(), 11, func(m *cpu.Machine) { m.PushPair(rp) })
	}

	// 8-bit INC, DEC and immediate loads.
	for i, r := range regs {
		code := uint8(i << 3)
		t, tn := 4, 7
		if r == cpu.RegM {
			t, tn = 11, 10
		}
		def0(b, 0x04|code, "INC "+r.String(), t, func(m *cpu.Machine) { m.Modify8(r, m.Regs.Inc8) })
		def0(b, 0x05|code, "DEC "+r.String(), t, func(m *cpu.Machine) { m.Modify8(r, m.Regs.Dec8) })
		def1(b, 0x06|code, fmt.Sprintf("LD %s, n", r), OperandN, tn, func(m *cpu.Machine, n uint8) {
			m.Set8(r, n)
		})
	}

	// LD r, r' fills 40-7F; the (HL),(HL) slot is HALT.
	for d, dst := range regs {
		for s, src := range regs {
			code := uint8(0x40 | d<<3 | s)
			if dst == cpu.RegM && src == cpu.RegM {
				continue
			}
			t := 4
			if dst == cpu.RegM || src == cpu.RegM {
				t = 7
			}
			def0(b, code, fmt.Sprintf("LD %s, %s", dst, src), t, func(m *cpu.Machine) {
				m.Set8(dst, m.Get8(src))
			})
		}
	}
	def0(b, 0x76, "HALT", 4, func(m *cpu.Machine) { m.Regs.Halted = true })

	// Accumulator arithmetic: 80-BF on registers, C6-FE on immediates.
	for k := cpu.AluAdd; k <= cpu.AluCp; k++ {
		for s, src := range regs {
			t := 4
			if src == cpu.RegM {
				t = 7
			}
			def0(b, uint8(0x80|int(k)<<3|s), aluMnemonic(k, src.String()), t, func(m *cpu.Machine) {
				k.Apply(&m.Regs, m.Get8(src))
			})
		}
		def1(b, uint8(0xC6|int(k)<<3), aluMnemonic(k, "n"), OperandN, 7, func(m *cpu.Machine, n uint8) {
			k.Apply(&m.Regs, n)
		})
	}

	// Accumulator loads through BC, DE and absolute addresses.
	def0(b, 0x02, "LD (BC), A", 7, func(m *cpu.Machine) { m.Mem.Write(m.Regs.Pair(cpu.BC), m.Regs.A) })
	def0(b, 0x12, "LD (DE), A", 7, func(m *cpu.Machine) { m.Mem.Write(m.Regs.Pair(cpu.DE), m.Regs.A) })
	def0(b, 0x0A, "LD A, (BC)", 7, func(m *cpu.Machine) { m.Regs.A = m.Mem.Read(m.Regs.Pair(cpu.BC)) })
	def0(b, 0x1A, "LD A, (DE)", 7, func(m *cpu.Machine) { m.Regs.A = m.Mem.Read(m.Regs.Pair(cpu.DE)) })
	defNN(b, 0x22, "LD (nn), HL", 16, func(m *cpu.Machine, nn uint16) { m.Mem.WriteWord(nn, m.Regs.Pair(cpu.HL)) })
	defNN(b, 0x2A, "LD HL, (nn)", 16, func(m *cpu.Machine, nn uint16) { m.Regs.SetPair(cpu.HL, m.Mem.ReadWord(nn)) })
	defNN(b, 0x32, "LD (nn), A", 13, func(m *cpu.Machine, nn uint16) { m.Mem.Write(nn, m.Regs.A) })
	defNN(b, 0x3A, "LD A, (nn)", 13, func(m *cpu.Machine, nn uint16) { m.Regs.A = m.Mem.Read(nn) })

	// Accumulator and flag specials.
	def0(b, 0x07, "RLCA", 4, func(m *cpu.Machine) { m.Regs.Rlca() })
	def0(b, 0x0F, "RRCA", 4, func(m *cpu.Machine) { m.Regs.Rrca() })
	def0(b, 0x17, "RLA", 4, func(m *cpu.Machine) { m.Regs.Rla() })
	def0(b, 0x1F, "RRA", 4, func(m *cpu.Machine) { m.Regs.Rra() })
	def0(b, 0x27, "DAA", 4, func(m *cpu.Machine) { m.Regs.Daa() })
	def0(b, 0x2F, "CPL", 4, func(m *cpu.Machine) { m.Regs.Cpl() })
	def0(b, 0x37, "SCF", 4, func(m *cpu.Machine) { m.Regs.Scf() })
	def0(b, 0x3F, "CCF", 4, func(m *cpu.Machine) { m.Regs.Ccf() })

	// Exchanges.
	def0(b, 0x08, "EX AF, AF'", 4, func(m *cpu.Machine) { m.Regs.ExAF() })
	def0(b, 0xD9, "EXX", 4, func(m *cpu.Machine) { m.Regs.Exx() })
	def0(b, 0xEB, "EX DE, HL", 4, func(m *cpu.Machine) { m.Regs.ExDEHL() })
	def0(b, 0xE3, "EX (SP), HL", 19, func(m *cpu.Machine) { m.ExSP(cpu.HL) })
	def0(b, 0xF9, "LD SP, HL", 6, func(m *cpu.Machine) { m.Regs.SP = m.Regs.Pair(cpu.HL) })

	// Relative jumps. PC already points past the operand.
	register(&Instruction{
		Namespace: b, Opcode: 0x10, Mnemonic: "DJNZ e", Kind: OperandE,
		TStates: 13, TStatesNotTaken: 8,
		Exec: Exec1(func(m *cpu.Machine, e uint8) int {
			m.Regs.B--
			if m.Regs.B != 0 {
				m.Jump(e)
			}
			return branch(m.Regs.B != 0, 13, 8)
		}),
	})
	def1(b, 0x18, "JR e", OperandE, 12, func(m *cpu.Machine, e uint8) { m.Jump(e) })
	for c := cpu.CondNZ; c <= cpu.CondC; c++ {
		register(&Instruction{
			Namespace: b, Opcode: 0x20 | uint8(c)<<3, Mnemonic: fmt.Sprintf("JR %s, e", c), Kind: OperandE,
			TStates: 12, TStatesNotTaken: 7,
			Exec: Exec1(func(m *cpu.Machine, e uint8) int {
				taken := c.Holds(m.Regs.F)
				if taken {
					m.Jump(e)
				}
				return branch(taken, 12, 7)
			}),
		})
	}

	// Absolute jumps, calls, returns and restarts.
	defNN(b, 0xC3, "JP nn", 10, func(m *cpu.Machine, nn uint16) { m.Regs.PC = nn })
	defNN(b, 0xCD, "CALL nn", 17, func(m *cpu.Machine, nn uint16) { m.Call(nn) })
	def0(b, 0xC9, "RET", 10, func(m *cpu.Machine) { m.Ret() })
	def0(b, 0xE9, "JP (HL)", 4, func(m *cpu.Machine) { m.Regs.PC = m.Regs.Pair(cpu.HL) })
	for c := cpu.CondNZ; c <= cpu.CondM; c++ {
		code := uint8(c) << 3
		register(&Instruction{
			Namespace: b, Opcode: 0xC0 | code, Mnemonic: "RET " + c.String(),
			TStates: 11, TStatesNotTaken: 5,
			Exec: Exec0(func(m *cpu.Machine) int {
				taken := c.Holds(m.Regs.F)
				if taken {
					m.Ret()
				}
				return branch(taken, 11, 5)
			}),
		})
		// JP cc costs the same either way; it is still recorded as conditional.
		register(&Instruction{
			Namespace: b, Opcode: 0xC2 | code, Mnemonic: fmt.Sprintf("JP %s, nn", c), Kind: OperandNN,
			TStates: 10, TStatesNotTaken: 10,
			Exec: Exec2(func(m *cpu.Machine, lo, hi uint8) int {
				if c.Holds(m.Regs.F) {
					m.Regs.PC = cpu.Word(hi, lo)
				}
				return 10
			}),
		})
		register(&Instruction{
			Namespace: b, Opcode: 0xC4 | code, Mnemonic: fmt.Sprintf("CALL %s, nn", c), Kind: OperandNN,
			TStates: 17, TStatesNotTaken: 10,
			Exec: Exec2(func(m *cpu.Machine, lo, hi uint8) int {
				taken := c.Holds(m.Regs.F)
				if taken {
					m.Call(cpu.Word(hi, lo))
				}
				return branch(taken, 17, 10)
			}),
		})
	}
	for k := 0; k < 8; k++ {
		target := uint16(k << 3)
		def0(b, 0xC7|uint8(k<<3), fmt.Sprintf("RST %02Xh", target), 11, func(m *cpu.Machine) { m.Call(target) })
	}

	// Port I/O with an 8-bit port number; A supplies the high address byte.
	def1(b, 0xD3, "OUT (n), A", OperandN, 11, func(m *cpu.Machine, n uint8) {
		m.Out(cpu.Word(m.Regs.A, n), m.Regs.A)
	})
	def1(b, 0xDB, "IN A, (n)", OperandN, 11, func(m *cpu.Machine, n uint8) {
		m.Regs.A = m.In(cpu.Word(m.Regs.A, n))
	})

	// Interrupt enable. EI takes effect after the following instruction; the
	// engine enforces the delay.
	def0(b, 0xF3, "DI", 4, func(m *cpu.Machine) { m.Regs.IFF1, m.Regs.IFF2 = false, false })
	def0(b, 0xFB, "EI", 4, func(m *cpu.Machine) { m.Regs.IFF1, m.Regs.IFF2 = true, true })
}
