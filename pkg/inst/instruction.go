package inst

import (
	"strings"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// Namespace selects one of the decode tables. Every namespace but Basic is
// entered through a prefix byte.
type Namespace uint8

const (
	Basic    Namespace = iota // no prefix
	Bit                       // CB
	Extended                  // ED
	IndexIX                   // DD
	IndexIY                   // FD

	namespaceCount
)

var namespaceNames = [namespaceCount]string{"basic", "bit", "extended", "index-ix", "index-iy"}

var namespacePrefixes = [namespaceCount]uint8{0, 0xCB, 0xED, 0xDD, 0xFD}

func (ns Namespace) String() string {
	if ns < namespaceCount {
		return namespaceNames[ns]
	}
	return "?"
}

// Prefix returns the lead-in byte of the namespace; Basic has none.
func (ns Namespace) Prefix() (uint8, bool) {
	if ns == Basic || ns >= namespaceCount {
		return 0, false
	}
	return namespacePrefixes[ns], true
}

// PrefixNamespace maps a prefix byte to the namespace it selects.
func PrefixNamespace(b uint8) (Namespace, bool) {
	switch b {
	case 0xCB:
		return Bit, true
	case 0xED:
		return Extended, true
	case 0xDD:
		return IndexIX, true
	case 0xFD:
		return IndexIY, true
	}
	return Basic, false
}

// Kind describes the operand bytes that follow an opcode in memory.
type Kind uint8

const (
	OperandNone Kind = iota
	OperandN         // 8-bit immediate
	OperandNN        // 16-bit immediate, low byte first
	OperandE         // signed relative displacement
	OperandD         // signed index displacement
	OperandDN        // index displacement then 8-bit immediate
	OperandDOp       // index displacement then CB sub-opcode
)

var kindOperands = [...]int{0, 1, 2, 1, 1, 2, 2}

var kindTemplates = [...]string{"", "n", "lo hi", "e", "d", "d n", "d op"}

// Count returns the number of operand bytes.
func (k Kind) Count() int { return kindOperands[k] }

// Executor is the execute operation of an instruction. Only Exec0, Exec1 and
// Exec2 implement it, so the number of operand bytes an instruction receives
// is fixed by the shape of its executor.
type Executor interface {
	operands() int
}

// Exec0 executes an instruction without operands and returns its cycle cost.
type Exec0 func(m *cpu.Machine) int

// Exec1 executes an instruction with one operand byte.
type Exec1 func(m *cpu.Machine, n uint8) int

// Exec2 executes an instruction with two operand bytes, passed in memory order.
type Exec2 func(m *cpu.Machine, b1, b2 uint8) int

func (Exec0) operands() int { return 0 }
func (Exec1) operands() int { return 1 }
func (Exec2) operands() int { return 2 }

// Instruction is the immutable descriptor of one opcode in one namespace.
//
// Mnemonic is an assembly template. Lower-case words are placeholders:
// n and nn for immediates, e for a relative target, d for an index
// displacement.
type Instruction struct {
	Namespace Namespace
	Opcode    uint8
	Mnemonic  string
	Kind      Kind

	// TStates is the cost when a conditional instruction takes its branch
	// (or repeats), and the only cost otherwise. TStatesNotTaken is zero for
	// unconditional instructions.
	TStates         int
	TStatesNotTaken int

	Exec Executor
}

// Operands returns the number of operand bytes following the opcode.
func (in *Instruction) Operands() int {
	return in.Exec.operands()
}

// Bytes returns the fixed part of the encoding: prefix (if any) and opcode.
func (in *Instruction) Bytes() []uint8 {
	if p, ok := in.Namespace.Prefix(); ok {
		return []uint8{p, in.Opcode}
	}
	return []uint8{in.Opcode}
}

// Size returns the full length of the instruction in bytes.
func (in *Instruction) Size() int {
	return len(in.Bytes()) + in.Operands()
}

// Encoding returns the machine-code template, e.g. "DD 36 d n".
func (in *Instruction) Encoding() string {
	var sb strings.Builder
	for i, b := range in.Bytes() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.Write(appendHexByte(nil, b))
	}
	if t := kindTemplates[in.Kind]; t != "" {
		sb.WriteByte(' ')
		sb.WriteString(t)
	}
	return sb.String()
}

// Conditional reports whether the instruction has distinct taken and
// not-taken costs.
func (in *Instruction) Conditional() bool {
	return in.TStatesNotTaken != 0
}

// Run reads the operand bytes the executor needs from next, in memory order,
// and executes the instruction. It returns the cycle cost.
func (in *Instruction) Run(m *cpu.Machine, next func() uint8) int {
	switch x := in.Exec.(type) {
	case Exec0:
		return x(m)
	case Exec1:
		return x(m, next())
	case Exec2:
		b1 := next()
		b2 := next()
		return x(m, b1, b2)
	}
	panic("inst: unknown executor shape")
}

func (in *Instruction) String() string {
	return in.Mnemonic
}
