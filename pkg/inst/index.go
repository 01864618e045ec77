package inst

import (
	"fmt"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// DD and FD prefixed instructions. Both namespaces are built from the same
// table; they differ only in the index register the HL forms are redirected to.

func init() {
	buildIndex(IndexIX, cpu.IX)
	buildIndex(IndexIY, cpu.IY)
}

// indexed returns the effective address of (IX+d) or (IY+d).
func indexed(m *cpu.Machine, x cpu.Pair, d uint8) uint16 {
	return m.Regs.Pair(x) + uint16(int8(d))
}

// ddcbMnemonic names an indexed CB sub-opcode. Register fields other than 6
// also copy the result into that register.
func ddcbMnemonic(op uint8, operand string) string {
	r := regs[op&7]
	if r == cpu.RegM || op>>6 == 1 {
		return cbMnemonic(op, operand)
	}
	return cbMnemonic(op, operand) + ", " + r.String()
}

func buildIndex(ns Namespace, x cpu.Pair) {
	name := x.String()
	mem := "(" + name + "+d)"

	for p, rp := range pairs {
		if rp == cpu.HL {
			rp = x
		}
		def0(ns, 0x09|uint8(p<<4), fmt.Sprintf("ADD %s, %s", name, rp), 15, func(m *cpu.Machine) {
			m.Regs.AddPair(x, m.Regs.Pair(rp))
		})
	}

	defNN(ns, 0x21, fmt.Sprintf("LD %s, nn", name), 14, func(m *cpu.Machine, nn uint16) { m.Regs.SetPair(x, nn) })
	defNN(ns, 0x22, fmt.Sprintf("LD (nn), %s", name), 20, func(m *cpu.Machine, nn uint16) {
		m.Mem.WriteWord(nn, m.Regs.Pair(x))
	})
	defNN(ns, 0x2A, fmt.Sprintf("LD %s, (nn)", name), 20, func(m *cpu.Machine, nn uint16) {
		m.Regs.SetPair(x, m.Mem.ReadWord(nn))
	})
	def0(ns, 0x23, "INC "+name, 10, func(m *cpu.Machine) { m.Regs.IncPair(x) })
	def0(ns, 0x2B, "DEC "+name, 10, func(m *cpu.Machine) { m.Regs.DecPair(x) })

	def1(ns, 0x34, "INC "+mem, OperandD, 23, func(m *cpu.Machine, d uint8) {
		addr := indexed(m, x, d)
		v := m.Mem.Read(addr)
		m.Regs.Inc8(&v)
		m.Mem.Write(addr, v)
	})
	def1(ns, 0x35, "DEC "+mem, OperandD, 23, func(m *cpu.Machine, d uint8) {
		addr := indexed(m, x, d)
		v := m.Mem.Read(addr)
		m.Regs.Dec8(&v)
		m.Mem.Write(addr, v)
	})
	def2(ns, 0x36, fmt.Sprintf("LD %s, n", mem), OperandDN, 19, func(m *cpu.Machine, d, n uint8) {
		m.Mem.Write(indexed(m, x, d), n)
	})

	for i, r := range regs {
		if r == cpu.RegM {
			continue
		}
		code := uint8(i)
		def1(ns, 0x46|code<<3, fmt.Sprintf("LD %s, %s", r, mem), OperandD, 19, func(m *cpu.Machine, d uint8) {
			m.Set8(r, m.Mem.Read(indexed(m, x, d)))
		})
		def1(ns, 0x70|code, fmt.Sprintf("LD %s, %s", mem, r), OperandD, 19, func(m *cpu.Machine, d uint8) {
			m.Mem.Write(indexed(m, x, d), m.Get8(r))
		})
	}

	for k := cpu.AluAdd; k <= cpu.AluCp; k++ {
		def1(ns, 0x86|uint8(k)<<3, aluMnemonic(k, mem), OperandD, 19, func(m *cpu.Machine, d uint8) {
			k.Apply(&m.Regs, m.Mem.Read(indexed(m, x, d)))
		})
	}

	def0(ns, 0xE1, "POP "+name, 14, func(m *cpu.Machine) { m.PopPair(x) })
	def0(ns, 0xE5, "PUSH "+name, 15, func(m *cpu.Machine) { m.PushPair(x) })
	def0(ns, 0xE3, fmt.Sprintf("EX (SP), %s", name), 23, func(m *cpu.Machine) { m.ExSP(x) })
	def0(ns, 0xE9, fmt.Sprintf("JP (%s)", name), 8, func(m *cpu.Machine) { m.Regs.PC = m.Regs.Pair(x) })
	def0(ns, 0xF9, fmt.Sprintf("LD SP, %s", name), 10, func(m *cpu.Machine) { m.Regs.SP = m.Regs.Pair(x) })

	// DD CB d op: the displacement precedes the sub-opcode in memory.
	register(&Instruction{
		Namespace: ns, Opcode: 0xCB, Mnemonic: "op " + mem, Kind: OperandDOp,
		TStates: 23,
		Exec: Exec2(func(m *cpu.Machine, d, op uint8) int {
			addr := indexed(m, x, d)
			v, write := cbApply(&m.Regs, op, m.Mem.Read(addr))
			if !write {
				return 20
			}
			m.Mem.Write(addr, v)
			if r := regs[op&7]; r != cpu.RegM {
				m.Set8(r, v)
			}
			return 23
		}),
	})
}
