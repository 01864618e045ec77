package cpu

// Accumulator operations. Each one updates F only through updateFlags, so the
// unused bits 3 and 5 keep whatever they held.
// --- ported from remogatto/z80 ---

// Add implements ADD A, v.
func (r *Registers) Add(v uint8) {
	sum := uint16(r.A) + uint16(v)
	lookup := ((r.A & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((sum&0x88)>>1)
	r.A = uint8(sum)
	r.updateFlags(Documented, bsel(sum&0x100 != 0, FlagC, 0)|
		HalfcarryAddTable[lookup&0x07]|
		OverflowAddTable[lookup>>4]|
		SzTable[r.A])
}

// Adc implements ADC A, v.
func (r *Registers) Adc(v uint8) {
	sum := uint16(r.A) + uint16(v) + uint16(r.F&FlagC)
	lookup := ((r.A & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((sum&0x88)>>1)
	r.A = uint8(sum)
	r.updateFlags(Documented, bsel(sum&0x100 != 0, FlagC, 0)|
		HalfcarryAddTable[lookup&0x07]|
		OverflowAddTable[lookup>>4]|
		SzTable[r.A])
}

// Sub implements SUB v.
func (r *Registers) Sub(v uint8) {
	diff := uint16(r.A) - uint16(v)
	lookup := ((r.A & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((diff&0x88)>>1)
	r.A = uint8(diff)
	r.updateFlags(Documented, bsel(diff&0x100 != 0, FlagC, 0)|FlagN|
		HalfcarrySubTable[lookup&0x07]|
		OverflowSubTable[lookup>>4]|
		SzTable[r.A])
}

// Sbc implements SBC A, v.
func (r *Registers) Sbc(v uint8) {
	diff := uint16(r.A) - uint16(v) - uint16(r.F&FlagC)
	lookup := ((r.A & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((diff&0x88)>>1)
	r.A = uint8(diff)
	r.updateFlags(Documented, bsel(diff&0x100 != 0, FlagC, 0)|FlagN|
		HalfcarrySubTable[lookup&0x07]|
		OverflowSubTable[lookup>>4]|
		SzTable[r.A])
}

// And implements AND v: H set, N and C cleared.
func (r *Registers) And(v uint8) {
	r.A &= v
	r.updateFlags(Documented, FlagH|SzpTable[r.A])
}

// Or implements OR v: H, N and C cleared.
func (r *Registers) Or(v uint8) {
	r.A |= v
	r.updateFlags(Documented, SzpTable[r.A])
}

// Xor implements XOR v: H, N and C cleared.
func (r *Registers) Xor(v uint8) {
	r.A ^= v
	r.updateFlags(Documented, SzpTable[r.A])
}

// Cp implements CP v: flags as for SUB, A unchanged.
func (r *Registers) Cp(v uint8) {
	diff := uint16(r.A) - uint16(v)
	lookup := ((r.A & 0x88) >> 3) | ((v & 0x88) >> 2) | uint8((diff&0x88)>>1)
	r.updateFlags(Documented, bsel(diff&0x100 != 0, FlagC, 0)|FlagN|
		HalfcarrySubTable[lookup&0x07]|
		OverflowSubTable[lookup>>4]|
		SzTable[uint8(diff)])
}

// Neg implements NEG: A = 0 - A.
func (r *Registers) Neg() {
	old := r.A
	r.A = 0
	r.Sub(old)
}

// Cpl implements CPL: A inverted, H and N set.
func (r *Registers) Cpl() {
	r.A ^= 0xFF
	r.updateFlags(FlagH|FlagN, FlagH|FlagN)
}

// Scf implements SCF.
func (r *Registers) Scf() {
	r.updateFlags(FlagH|FlagN|FlagC, FlagC)
}

// Ccf implements CCF: H takes the old carry, carry is inverted.
func (r *Registers) Ccf() {
	oldC := r.F & FlagC
	r.updateFlags(FlagH|FlagN|FlagC, bsel(oldC != 0, FlagH, FlagC))
}

// Daa implements DAA, adjusting A after a BCD addition or subtraction.
func (r *Registers) Daa() {
	var add uint8
	carry := r.F & FlagC
	n := r.F & FlagN
	if r.F&FlagH != 0 || r.A&0x0F > 9 {
		add = 6
	}
	if carry != 0 || r.A > 0x99 {
		add |= 0x60
	}
	if r.A > 0x99 {
		carry = FlagC
	}
	if n != 0 {
		r.Sub(add)
	} else {
		r.Add(add)
	}
	r.updateFlags(FlagC|FlagP|FlagN, carry|ParityTable[r.A]|n)
}

// Rlca rotates A left; bit 7 goes to carry and bit 0.
func (r *Registers) Rlca() {
	r.A = (r.A << 1) | (r.A >> 7)
	r.updateFlags(FlagH|FlagN|FlagC, r.A&FlagC)
}

// Rrca rotates A right; bit 0 goes to carry and bit 7.
func (r *Registers) Rrca() {
	c := r.A & FlagC
	r.A = (r.A >> 1) | (r.A << 7)
	r.updateFlags(FlagH|FlagN|FlagC, c)
}

// Rla rotates A left through carry.
func (r *Registers) Rla() {
	old := r.A
	r.A = (r.A << 1) | (r.F & FlagC)
	r.updateFlags(FlagH|FlagN|FlagC, old>>7)
}

// Rra rotates A right through carry.
func (r *Registers) Rra() {
	old := r.A
	r.A = (r.A >> 1) | (r.F << 7)
	r.updateFlags(FlagH|FlagN|FlagC, old&FlagC)
}

// Rld rotates the low nibble of A and the byte m left as one 12-bit value,
// returning the new memory byte.
func (r *Registers) Rld(m uint8) uint8 {
	out := (m << 4) | (r.A & 0x0F)
	r.A = (r.A & 0xF0) | (m >> 4)
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN, SzpTable[r.A])
	return out
}

// Rrd is the right-rotating counterpart of Rld.
func (r *Registers) Rrd(m uint8) uint8 {
	out := (r.A << 4) | (m >> 4)
	r.A = (r.A & 0xF0) | (m & 0x0F)
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN, SzpTable[r.A])
	return out
}

// ALU selects one of the eight accumulator operations in encoding order.
type ALU uint8

const (
	AluAdd ALU = iota
	AluAdc
	AluSub
	AluSbc
	AluAnd
	AluXor
	AluOr
	AluCp
)

var aluNames = [...]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}

func (op ALU) String() string {
	if int(op) < len(aluNames) {
		return aluNames[op]
	}
	return "?"
}

// Apply runs the operation against A with operand v.
func (op ALU) Apply(r *Registers, v uint8) {
	switch op {
	case AluAdd:
		r.Add(v)
	case AluAdc:
		r.Adc(v)
	case AluSub:
		r.Sub(v)
	case AluSbc:
		r.Sbc(v)
	case AluAnd:
		r.And(v)
	case AluXor:
		r.Xor(v)
	case AluOr:
		r.Or(v)
	case AluCp:
		r.Cp(v)
	}
}
