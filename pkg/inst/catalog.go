package inst

import (
	"errors"
	"fmt"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// ErrUnmapped matches every UnmappedOpcodeError.
var ErrUnmapped = errors.New("unmapped opcode")

// UnmappedOpcodeError is returned by Lookup for an opcode byte with no
// instruction in its namespace.
type UnmappedOpcodeError struct {
	Namespace Namespace
	Opcode    uint8
}

func (e *UnmappedOpcodeError) Error() string {
	return fmt.Sprintf("inst: unmapped opcode %02X in %s namespace", e.Opcode, e.Namespace)
}

func (e *UnmappedOpcodeError) Is(target error) bool {
	return target == ErrUnmapped
}

// tables is the dispatch table, one slot per opcode byte per namespace.
// It is filled by the init functions of this package and read-only afterwards.
var tables [namespaceCount][256]*Instruction

// Lookup returns the instruction for an opcode byte within a namespace.
func Lookup(ns Namespace, op uint8) (*Instruction, error) {
	if ns >= namespaceCount {
		return nil, fmt.Errorf("inst: unknown namespace %d", ns)
	}
	if in := tables[ns][op]; in != nil {
		return in, nil
	}
	return nil, &UnmappedOpcodeError{Namespace: ns, Opcode: op}
}

// Count returns the number of mapped opcodes in a namespace.
func Count(ns Namespace) int {
	n := 0
	for _, in := range tables[ns] {
		if in != nil {
			n++
		}
	}
	return n
}

// All returns every registered instruction ordered by namespace and opcode.
func All() []*Instruction {
	var all []*Instruction
	for ns := Namespace(0); ns < namespaceCount; ns++ {
		for _, in := range tables[ns] {
			if in != nil {
				all = append(all, in)
			}
		}
	}
	return all
}

func register(in *Instruction) {
	if in.Kind.Count() != in.Exec.operands() {
		panic(fmt.Sprintf("inst: %s %02X %q: operand kind needs %d bytes, executor takes %d",
			in.Namespace, in.Opcode, in.Mnemonic, in.Kind.Count(), in.Exec.operands()))
	}
	if tables[in.Namespace][in.Opcode] != nil {
		panic(fmt.Sprintf("inst: %s %02X registered twice (%q, %q)",
			in.Namespace, in.Opcode, tables[in.Namespace][in.Opcode].Mnemonic, in.Mnemonic))
	}
	tables[in.Namespace][in.Opcode] = in
}

// def0 registers an operand-less instruction with a fixed cost.
func def0(ns Namespace, op uint8, mnemonic string, t int, f func(m *cpu.Machine)) {
	register(&Instruction{
		Namespace: ns, Opcode: op, Mnemonic: mnemonic, TStates: t,
		Exec: Exec0(func(m *cpu.Machine) int {
			f(m)
			return t
		}),
	})
}

// def1 registers a one-operand instruction with a fixed cost.
func def1(ns Namespace, op uint8, mnemonic string, k Kind, t int, f func(m *cpu.Machine, n uint8)) {
	register(&Instruction{
		Namespace: ns, Opcode: op, Mnemonic: mnemonic, Kind: k, TStates: t,
		Exec: Exec1(func(m *cpu.Machine, n uint8) int {
			f(m, n)
			return t
		}),
	})
}

// def2 registers a two-operand instruction with a fixed cost.
func def2(ns Namespace, op uint8, mnemonic string, k Kind, t int, f func(m *cpu.Machine, b1, b2 uint8)) {
	register(&Instruction{
		Namespace: ns, Opcode: op, Mnemonic: mnemonic, Kind: k, TStates: t,
		Exec: Exec2(func(m *cpu.Machine, b1, b2 uint8) int {
			f(m, b1, b2)
			return t
		}),
	})
}

// defNN registers an instruction taking a 16-bit immediate. The operand bytes
// arrive in memory order, low byte first, and are combined as (high, low), so
// C2 FF AA jumps to AAFF. This is the little-endian reading real ROMs rely on,
// not a big-endian join of the bytes as they appear.
func defNN(ns Namespace, op uint8, mnemonic string, t int, f func(m *cpu.Machine, nn uint16)) {
	def2(ns, op, mnemonic, OperandNN, t, func(m *cpu.Machine, lo, hi uint8) {
		f(m, cpu.Word(hi, lo))
	})
}

// branch picks the taken or not-taken cost.
func branch(taken bool, t, notTaken int) int {
	if taken {
		return t
	}
	return notTaken
}

// pairs in the order of the two-bit pair field; pairsAF is the PUSH/POP variant.
var (
	pairs   = [4]cpu.Pair{cpu.BC, cpu.DE, cpu.HL, cpu.SP}
	pairsAF = [4]cpu.Pair{cpu.BC, cpu.DE, cpu.HL, cpu.AF}
)

// regs in the order of the three-bit register field.
var regs = [8]cpu.Reg8{cpu.RegB, cpu.RegC, cpu.RegD, cpu.RegE, cpu.RegH, cpu.RegL, cpu.RegM, cpu.RegA}

func aluMnemonic(op cpu.ALU, operand string) string {
	return op.String() + " " + operand
}
