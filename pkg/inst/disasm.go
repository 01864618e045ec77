package inst

import (
	"strings"

	"github.com/oisee/cpc-z80/pkg/cpu"
)

// Reader is the byte source the decoder walks. *cpu.Memory satisfies it.
type Reader interface {
	Read(addr uint16) uint8
}

// Decoded is one instruction located in memory with its operand bytes.
type Decoded struct {
	Addr     uint16
	Inst     *Instruction
	Operands []uint8
}

// Size returns the number of bytes the instruction occupies.
func (d Decoded) Size() int {
	return d.Inst.Size()
}

// Decode reads the instruction at addr: an optional prefix, the opcode, and
// as many operand bytes as the instruction declares.
func Decode(addr uint16, r Reader) (Decoded, error) {
	pc := addr
	op := r.Read(pc)
	pc++
	ns := Basic
	if p, ok := PrefixNamespace(op); ok {
		ns = p
		op = r.Read(pc)
		pc++
	}
	in, err := Lookup(ns, op)
	if err != nil {
		return Decoded{Addr: addr}, err
	}
	d := Decoded{Addr: addr, Inst: in}
	for i := 0; i < in.Operands(); i++ {
		d.Operands = append(d.Operands, r.Read(pc))
		pc++
	}
	return d, nil
}

// Disassemble decodes the instruction at addr and returns its assembly text
// and size in bytes.
func Disassemble(addr uint16, r Reader) (string, int, error) {
	d, err := Decode(addr, r)
	if err != nil {
		return "", 0, err
	}
	return d.String(), d.Size(), nil
}

// String renders the mnemonic with operands substituted, e.g. "JP NZ, 0AAFFh".
func (d Decoded) String() string {
	in := d.Inst
	if in == nil {
		return "?"
	}
	tmpl := in.Mnemonic
	if in.Kind == OperandDOp {
		tmpl = ddcbMnemonic(d.Operands[1], strings.TrimPrefix(tmpl, "op "))
	}

	buf := make([]byte, 0, len(tmpl)+8)
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if !isLower(c) || (i > 0 && isAlnum(tmpl[i-1])) {
			buf = append(buf, c)
			i++
			continue
		}
		j := i
		for j < len(tmpl) && isLower(tmpl[j]) {
			j++
		}
		buf = d.appendPlaceholder(buf, tmpl[i:j])
		i = j
	}
	return string(buf)
}

func (d Decoded) appendPlaceholder(buf []byte, word string) []byte {
	ops := d.Operands
	switch word {
	case "nn":
		return appendHex16(buf, cpu.Word(ops[1], ops[0]))
	case "n":
		return appendHex8(buf, ops[len(ops)-1])
	case "e":
		target := d.Addr + uint16(d.Size()) + uint16(int8(ops[0]))
		return appendHex16(buf, target)
	case "d":
		disp := int8(ops[0])
		if disp < 0 && len(buf) > 0 && buf[len(buf)-1] == '+' {
			buf[len(buf)-1] = '-'
			return appendHex8(buf, uint8(-int(disp)))
		}
		return appendHex8(buf, uint8(disp))
	}
	return append(buf, word...)
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || isLower(c)
}

func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>4], hex[v&0x0F], 'h')
	return buf
}

func appendHex16(buf []byte, v uint16) []byte {
	const hex = "0123456789ABCDEF"
	if v>>12 >= 0xA {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>12], hex[(v>>8)&0x0F], hex[(v>>4)&0x0F], hex[v&0x0F], 'h')
	return buf
}

// appendHexByte writes a bare two-digit hex byte, as used in encodings.
func appendHexByte(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	return append(buf, hex[v>>4], hex[v&0x0F])
}
