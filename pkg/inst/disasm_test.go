package inst

import (
	"errors"
	"testing"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// TestDisassemble verifies operand substitution in mnemonics.
func TestDisassemble(t *testing.T) {
	tests := []struct {
		addr     uint16
		code     []uint8
		want     string
		wantSize int
	}{
		{0x0000, []uint8{0x00}, "NOP", 1},
		{0x0000, []uint8{0x3E, 0x00}, "LD A, 00h", 2},
		{0x0000, []uint8{0x3E, 0xFF}, "LD A, 0FFh", 2},
		{0x0000, []uint8{0xAF}, "XOR A", 1},
		{0x0000, []uint8{0xC2, 0xFF, 0xAA}, "JP NZ, 0AAFFh", 3},
		{0x1000, []uint8{0x18, 0xFE}, "JR 1000h", 2},
		{0x1000, []uint8{0x20, 0x05}, "JR NZ, 1007h", 2},
		{0x0000, []uint8{0xDD, 0x36, 0xFB, 0x42}, "LD (IX-05h), 42h", 4},
		{0x0000, []uint8{0xFD, 0x7E, 0x03}, "LD A, (IY+03h)", 3},
		{0x0000, []uint8{0xDD, 0xCB, 0x02, 0x46}, "BIT 0, (IX+02h)", 4},
		{0x0000, []uint8{0xFD, 0xCB, 0x01, 0x16}, "RL (IY+01h)", 4},
		{0x0000, []uint8{0xDD, 0xCB, 0x80, 0xC0}, "SET 0, (IX-80h), B", 4},
		{0x0000, []uint8{0xED, 0xB0}, "LDIR", 2},
		{0x0000, []uint8{0xCB, 0x38}, "SRL B", 2},
		{0x0000, []uint8{0xFF}, "RST 38h", 1},
		{0x0000, []uint8{0xED, 0x43, 0x34, 0x12}, "LD (1234h), BC", 4},
		{0x0000, []uint8{0xD3, 0xBC}, "OUT (0BCh), A", 2},
		{0x0000, []uint8{0x08}, "EX AF, AF'", 1},
	}

	for _, tc := range tests {
		var mem cpu.Memory
		mem.Load(tc.addr, tc.code)
		got, size, err := Disassemble(tc.addr, &mem)
		if err != nil {
			t.Errorf("% X: %v", tc.code, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Disassemble(% X): got %q want %q", tc.code, got, tc.want)
		}
		if size != tc.wantSize {
			t.Errorf("Disassemble(% X): size %d want %d", tc.code, size, tc.wantSize)
		}
	}
}

func TestDisassembleUnmapped(t *testing.T) {
	var mem cpu.Memory
	mem.Load(0, []uint8{0xED, 0x00})
	if _, _, err := Disassemble(0, &mem); !errors.Is(err, ErrUnmapped) {
		t.Errorf("err = %v, want ErrUnmapped", err)
	}
}

func TestDecodeOperands(t *testing.T) {
	var mem cpu.Memory
	mem.Load(0x8000, []uint8{0xDD, 0x21, 0x34, 0x12})
	d, err := Decode(0x8000, &mem)
	if err != nil {
		t.Fatal(err)
	}
	if d.Inst.Namespace != IndexIX || d.Inst.Opcode != 0x21 {
		t.Errorf("decoded %s %02X", d.Inst.Namespace, d.Inst.Opcode)
	}
	if len(d.Operands) != 2 || d.Operands[0] != 0x34 || d.Operands[1] != 0x12 {
		t.Errorf("operands = % X, want 34 12", d.Operands)
	}
}
