package inst

import (
	"fmt"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// CB-prefixed rotates, shifts and single-bit operations. The opcode byte is
// split as gg nnn rrr: group, shift kind or bit number, operand register.

// cbApply performs the operation selected by code on v and returns the new
// value. BIT only sets flags and reports write == false.
func cbApply(r *cpu.Registers, code, v uint8) (result uint8, write bool) {
	n := (code >> 3) & 7
	switch code >> 6 {
	case 0:
		return cpu.Shift(n).Apply(r, v), true
	case 1:
		r.Bit(n, v)
		return v, false
	case 2:
		return v &^ (1 << n), true
	default:
		return v | (1 << n), true
	}
}

func cbMnemonic(code uint8, operand string) string {
	n := (code >> 3) & 7
	switch code >> 6 {
	case 0:
		return cpu.Shift(n).String() + " " + operand
	case 1:
		return fmt.Sprintf("BIT %d, %s", n, operand)
	case 2:
		return fmt.Sprintf("RES %d, %s", n, operand)
	default:
		return fmt.Sprintf("SET %d, %s", n, operand)
	}
}

func init() {
	for i := 0; i < 256; i++ {
		code := uint8(i)
		r := regs[code&7]
		t := 8
		if r == cpu.RegM {
			t = 15
			if code>>6 == 1 {
				t = 12
			}
		}
		def0(Bit, code, cbMnemonic(code, r.String()), t, func(m *cpu.Machine) {
			if v, write := cbApply(&m.Regs, code, m.Get8(r)); write {
				m.Set8(r, v)
			}
		})
	}
}
