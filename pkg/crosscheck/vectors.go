package crosscheck

import "github.com/oisee/cpc-z80/pkg/cpu"

// CodeAddr is where the instruction under test is placed. No vector points
// a register pair within a page of it, so nothing the instruction does can
// overwrite its own encoding.
const CodeAddr = 0x6000

// DeadFlags are the flag bits this core never writes.
const DeadFlags uint8 = ^cpu.Documented

// Vectors are fixed register files every instruction is run from.
var Vectors = []cpu.Registers{
	vector(0x00, 0x00, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000, 0x0000),
	vector(0xFF, 0xFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF),
	vector(0x01, 0x00, 0x0203, 0x0405, 0x0607, 0x1234, 0x2345, 0x1234),
	vector(0x80, 0x01, 0x4020, 0x1008, 0x0402, 0x8000, 0x7F80, 0x8000),
	vector(0x55, 0x00, 0xAA55, 0xAA55, 0xAA55, 0x5555, 0xAAAA, 0x5555),
	vector(0xAA, 0x01, 0x55AA, 0x55AA, 0x55AA, 0xAAAA, 0x5555, 0xAAAA),
	vector(0x0F, 0x00, 0xF00F, 0xF00F, 0xF00F, 0x00F0, 0x0F00, 0xFFFE),
	vector(0x7F, 0x01, 0x807F, 0x807F, 0x807F, 0x7FF0, 0x8010, 0x7FFF),
}

func vector(a, f uint8, bc, de, hl, ix, iy, sp uint16) cpu.Registers {
	var r cpu.Registers
	r.A, r.F = a, f
	r.SetPair(cpu.BC, bc)
	r.SetPair(cpu.DE, de)
	r.SetPair(cpu.HL, hl)
	r.IX, r.IY, r.SP = ix, iy, sp
	r.Shadow = cpu.Bank{A: ^a, F: f ^ 0x01, B: 0x11, C: 0x22, D: 0x33, E: 0x44, H: 0x55, L: 0x66}
	r.I = 0x3F
	r.IM = 1
	return r
}

// Immediates are the representative operand values. Each case uses the
// same index into both lists.
var (
	Imm8  = []uint8{0x00, 0x42, 0xFF}
	Imm16 = []uint16{0x0000, 0x1234, 0xFFFF}
)

// pattern fills memory with bytes that differ from their neighbours so
// loads from the wrong address are caught.
func pattern(mem []byte) {
	for i := range mem {
		mem[i] = uint8(i*37 + i>>8)
	}
}
