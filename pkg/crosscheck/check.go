// Package crosscheck compares the instruction catalog against an independent
// Z80 core. Every eligible instruction is run from a set of fixed register
// vectors with representative operands, once on each core, and the
// resulting registers and memory are compared.
package crosscheck

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oisee/cpc-z80/pkg/cpu"
	"github.com/oisee/cpc-z80/pkg/engine"
	"github.com/oisee/cpc-z80/pkg/inst"
	"github.com/oisee/cpc-z80/pkg/report"
)

// maxMemDiffs caps the memory cells reported per case.
const maxMemDiffs = 8

// Case is one instruction with concrete operands, run from one vector.
type Case struct {
	Inst     *inst.Instruction
	Operands []uint8
	Vector   int
}

func (c Case) String() string {
	return fmt.Sprintf("%s [%s] vector %d", c.Inst.Encoding(), hexBytes(c.Operands), c.Vector)
}

// Skip reports why an instruction cannot be compared, if it cannot. Port
// I/O depends on the bus and interrupt control on state the reference core
// models differently; HALT never completes.
func Skip(in *inst.Instruction) (string, bool) {
	op := in.Opcode
	switch in.Namespace {
	case inst.Basic:
		switch op {
		case 0x76:
			return "halt", true
		case 0xF3, 0xFB:
			return "interrupt enable", true
		case 0xD3, 0xDB:
			return "port i/o", true
		}
	case inst.Extended:
		switch {
		case op&0xC6 == 0x40, op&0xE6 == 0xA2:
			return "port i/o", true
		case op == 0x45 || op == 0x4D:
			return "interrupt return", true
		case op == 0x46 || op == 0x56 || op == 0x5E:
			return "interrupt mode", true
		case op == 0x57 || op == 0x5F:
			return "reads IFF2", true
		}
	}
	return "", false
}

// repeats reports whether in is one of LDIR, CPIR, LDDR, CPDR and friends.
func repeats(in *inst.Instruction) bool {
	return in.Namespace == inst.Extended && in.Opcode&0xF4 == 0xB0
}

// operandSets returns the operand bytes each case of in is run with.
func operandSets(in *inst.Instruction) [][]uint8 {
	var sets [][]uint8
	switch in.Kind {
	case inst.OperandNone:
		sets = append(sets, nil)
	case inst.OperandN, inst.OperandE, inst.OperandD:
		for _, v := range Imm8 {
			sets = append(sets, []uint8{v})
		}
	case inst.OperandNN:
		for _, v := range Imm16 {
			hi, lo := cpu.Split(v)
			sets = append(sets, []uint8{lo, hi})
		}
	case inst.OperandDN:
		for i, d := range Imm8 {
			sets = append(sets, []uint8{d, Imm8[len(Imm8)-1-i]})
		}
	case inst.OperandDOp:
		// Only the (IX+d) forms are documented. The reference core rejects
		// the ones that also copy the result into a register.
		for _, d := range Imm8 {
			for op := 0x06; op < 256; op += 8 {
				sets = append(sets, []uint8{d, uint8(op)})
			}
		}
	}
	return sets
}

// Cases expands an instruction into every operand set and vector.
func Cases(in *inst.Instruction) []Case {
	var cases []Case
	for _, ops := range operandSets(in) {
		for v := range Vectors {
			cases = append(cases, Case{Inst: in, Operands: ops, Vector: v})
		}
	}
	return cases
}

// checker holds the scratch state of one worker.
type checker struct {
	base []byte
	m    *cpu.Machine
	e    *engine.Engine
	ref  refMemory
}

func newChecker(base []byte, logger *logrus.Logger) *checker {
	m := cpu.NewMachine(nil)
	return &checker{
		base: base,
		m:    m,
		e:    engine.New(m, engine.Config{Unthrottled: true, Logger: logger}),
	}
}

// run executes c on both cores and returns the differences.
func (k *checker) run(c Case) ([]report.Diff, error) {
	regs := Vectors[c.Vector]
	regs.PC = CodeAddr
	rep := repeats(c.Inst)
	if rep {
		regs.SetPair(cpu.BC, 3)
	}

	k.m.Mem.Load(0, k.base)
	k.m.Mem.Load(CodeAddr, append(c.Inst.Bytes(), c.Operands...))
	k.m.Regs = regs
	copy(k.ref[:], k.m.Mem.Bytes())

	want := reference(&k.ref, regs, rep)
	if _, err := k.e.Step(); err != nil {
		return nil, err
	}
	return compare(&k.m.Regs, &want, k.m.Mem.Bytes(), k.ref[:]), nil
}

// compare lists every register and memory cell that differs, ignoring
// DeadFlags, R and interrupt state.
func compare(got, want *cpu.Registers, gotMem, wantMem []byte) []report.Diff {
	var diffs []report.Diff
	add := func(field string, g, w uint16) {
		if g != w {
			diffs = append(diffs, report.Diff{Field: field, Got: g, Want: w})
		}
	}
	bank := func(suffix string, g, w *cpu.Bank) {
		add("A"+suffix, uint16(g.A), uint16(w.A))
		add("F"+suffix, uint16(g.F&^DeadFlags), uint16(w.F&^DeadFlags))
		add("B"+suffix, uint16(g.B), uint16(w.B))
		add("C"+suffix, uint16(g.C), uint16(w.C))
		add("D"+suffix, uint16(g.D), uint16(w.D))
		add("E"+suffix, uint16(g.E), uint16(w.E))
		add("H"+suffix, uint16(g.H), uint16(w.H))
		add("L"+suffix, uint16(g.L), uint16(w.L))
	}
	bank("", &got.Bank, &want.Bank)
	bank("'", &got.Shadow, &want.Shadow)
	add("IX", got.IX, want.IX)
	add("IY", got.IY, want.IY)
	add("SP", got.SP, want.SP)
	add("PC", got.PC, want.PC)
	add("I", uint16(got.I), uint16(want.I))

	n := 0
	for i := range gotMem {
		if gotMem[i] != wantMem[i] {
			add(fmt.Sprintf("(%04X)", i), uint16(gotMem[i]), uint16(wantMem[i]))
			if n++; n == maxMemDiffs {
				break
			}
		}
	}
	return diffs
}

func hexBytes(b []uint8) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}
