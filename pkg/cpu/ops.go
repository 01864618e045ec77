package cpu

// Register operations shared by the instruction catalog. All arithmetic wraps.

// Inc8 increments *v. S, Z, H, P/V and N are updated; carry is kept.
func (r *Registers) Inc8(v *uint8) {
	*v++
	r.updateFlags(FlagS|FlagZ|FlagH|FlagV|FlagN,
		bsel(*v == 0x80, FlagV, 0)|
			bsel(*v&0x0F != 0, 0, FlagH)|
			SzTable[*v])
}

// Dec8 decrements *v. S, Z, H, P/V and N are updated; carry is kept.
func (r *Registers) Dec8(v *uint8) {
	h := bsel(*v&0x0F != 0, 0, FlagH)
	*v--
	r.updateFlags(FlagS|FlagZ|FlagH|FlagV|FlagN,
		h|FlagN|bsel(*v == 0x7F, FlagV, 0)|SzTable[*v])
}

// IncPair adds one to a register pair. No flags change.
func (r *Registers) IncPair(p Pair) {
	r.SetPair(p, r.Pair(p)+1)
}

// DecPair subtracts one from a register pair. No flags change.
func (r *Registers) DecPair(p Pair) {
	r.SetPair(p, r.Pair(p)-1)
}

// AddPair implements ADD HL/IX/IY, rr: H from bit 11, C from bit 15, N cleared.
// S, Z and P/V are preserved.
func (r *Registers) AddPair(dst Pair, value uint16) {
	a := r.Pair(dst)
	sum := uint32(a) + uint32(value)
	hc := (a & 0x0FFF) + (value & 0x0FFF)
	r.updateFlags(FlagH|FlagN|FlagC,
		bsel(hc&0x1000 != 0, FlagH, 0)|
			bsel(sum&0x10000 != 0, FlagC, 0))
	r.SetPair(dst, uint16(sum))
}

// AdcHL implements ADC HL, rr with full flag computation.
func (r *Registers) AdcHL(value uint16) {
	hl := r.Pair(HL)
	result := uint32(hl) + uint32(value) + uint32(r.F&FlagC)
	// bits 11 and 15 of hl, value, result give the half-carry and overflow indices
	lookup := uint8(((uint32(hl) & 0x8800) >> 11) | ((uint32(value) & 0x8800) >> 10) | ((result & 0x8800) >> 9))
	r.SetPair(HL, uint16(result))
	r.updateFlags(Documented, bsel(result&0x10000 != 0, FlagC, 0)|
		OverflowAddTable[lookup>>4]|
		HalfcarryAddTable[lookup&0x07]|
		(r.H&FlagS)|
		bsel(uint16(result) != 0, 0, FlagZ))
}

// SbcHL implements SBC HL, rr with full flag computation.
func (r *Registers) SbcHL(value uint16) {
	hl := r.Pair(HL)
	result := uint32(hl) - uint32(value) - uint32(r.F&FlagC)
	lookup := uint8(((uint32(hl) & 0x8800) >> 11) | ((uint32(value) & 0x8800) >> 10) | ((result & 0x8800) >> 9))
	r.SetPair(HL, uint16(result))
	r.updateFlags(Documented, bsel(result&0x10000 != 0, FlagC, 0)|FlagN|
		OverflowSubTable[lookup>>4]|
		HalfcarrySubTable[lookup&0x07]|
		(r.H&FlagS)|
		bsel(uint16(result) != 0, 0, FlagZ))
}

// Shift selects one of the CB-prefix rotate/shift operations in encoding order.
type Shift uint8

const (
	ShiftRlc Shift = iota
	ShiftRrc
	ShiftRl
	ShiftRr
	ShiftSla
	ShiftSra
	ShiftSll // undocumented: shift left, bit 0 set
	ShiftSrl
)

var shiftNames = [...]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

func (s Shift) String() string {
	if int(s) < len(shiftNames) {
		return shiftNames[s]
	}
	return "?"
}

// Apply runs the shift on v and returns the result. Carry receives the bit
// shifted out; S, Z and P come from the result; H and N are cleared.
func (s Shift) Apply(r *Registers, v uint8) uint8 {
	var c uint8
	switch s {
	case ShiftRlc:
		c = v >> 7
		v = (v << 1) | c
	case ShiftRrc:
		c = v & 0x01
		v = (v >> 1) | (c << 7)
	case ShiftRl:
		c = v >> 7
		v = (v << 1) | (r.F & FlagC)
	case ShiftRr:
		c = v & 0x01
		v = (v >> 1) | (r.F << 7)
	case ShiftSla:
		c = v >> 7
		v <<= 1
	case ShiftSra:
		c = v & 0x01
		v = (v & 0x80) | (v >> 1)
	case ShiftSll:
		c = v >> 7
		v = (v << 1) | 0x01
	case ShiftSrl:
		c = v & 0x01
		v >>= 1
	}
	r.updateFlags(Documented, c|SzpTable[v])
	return v
}

// Srl shifts v right logically: bit 0 to carry, bit 7 cleared.
func (r *Registers) Srl(v uint8) uint8 {
	return ShiftSrl.Apply(r, v)
}

// Bit implements BIT n, v: Z and P/V set when the bit is clear, H set, N cleared,
// S set only for a set bit 7. Carry is kept.
func (r *Registers) Bit(n uint8, v uint8) {
	f := FlagH
	if v&(1<<n) == 0 {
		f |= FlagZ | FlagP
	}
	if n == 7 && v&0x80 != 0 {
		f |= FlagS
	}
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN, f)
}

// InFlags sets the flags of IN r,(C) for the value read.
func (r *Registers) InFlags(v uint8) {
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN, SzpTable[v])
}

// LdAIR loads A from I or R; P/V reflects IFF2.
func (r *Registers) LdAIR(v uint8) {
	r.A = v
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN, SzTable[v]|bsel(r.IFF2, FlagP, 0))
}

// Block transfer steps. Each performs one iteration and reports whether a
// repeating form should go round again.

func (m *Machine) ldStep(delta uint16) bool {
	r := &m.Regs
	hl, de := r.Pair(HL), r.Pair(DE)
	m.Mem.Write(de, m.Mem.Read(hl))
	r.SetPair(HL, hl+delta)
	r.SetPair(DE, de+delta)
	bc := r.Pair(BC) - 1
	r.SetPair(BC, bc)
	r.updateFlags(FlagH|FlagP|FlagN, bsel(bc != 0, FlagP, 0))
	return bc != 0
}

// Ldi copies (HL) to (DE), increments HL and DE, decrements BC.
func (m *Machine) Ldi() bool { return m.ldStep(1) }

// Ldd copies (HL) to (DE), decrements HL, DE and BC.
func (m *Machine) Ldd() bool { return m.ldStep(0xFFFF) }

func (m *Machine) cpStep(delta uint16) bool {
	r := &m.Regs
	hl := r.Pair(HL)
	v := m.Mem.Read(hl)
	diff := r.A - v
	lookup := ((r.A & 0x08) >> 3) | ((v & 0x08) >> 2) | ((diff & 0x08) >> 1)
	r.SetPair(HL, hl+delta)
	bc := r.Pair(BC) - 1
	r.SetPair(BC, bc)
	r.updateFlags(FlagS|FlagZ|FlagH|FlagP|FlagN,
		SzTable[diff]|HalfcarrySubTable[lookup]|bsel(bc != 0, FlagP, 0)|FlagN)
	return bc != 0 && diff != 0
}

// Cpi compares A with (HL), increments HL, decrements BC.
func (m *Machine) Cpi() bool { return m.cpStep(1) }

// Cpd compares A with (HL), decrements HL and BC.
func (m *Machine) Cpd() bool { return m.cpStep(0xFFFF) }

func (m *Machine) inStep(delta uint16) bool {
	r := &m.Regs
	v := m.In(r.Pair(BC))
	hl := r.Pair(HL)
	m.Mem.Write(hl, v)
	r.SetPair(HL, hl+delta)
	r.B--
	r.updateFlags(FlagZ|FlagN, bsel(r.B == 0, FlagZ, 0)|FlagN)
	return r.B != 0
}

// Ini reads port BC into (HL), increments HL, decrements B.
func (m *Machine) Ini() bool { return m.inStep(1) }

// Ind reads port BC into (HL), decrements HL and B.
func (m *Machine) Ind() bool { return m.inStep(0xFFFF) }

func (m *Machine) outStep(delta uint16) bool {
	r := &m.Regs
	hl := r.Pair(HL)
	v := m.Mem.Read(hl)
	r.B--
	m.Out(r.Pair(BC), v)
	r.SetPair(HL, hl+delta)
	r.updateFlags(FlagZ|FlagN, bsel(r.B == 0, FlagZ, 0)|FlagN)
	return r.B != 0
}

// Outi writes (HL) to port BC after decrementing B, then increments HL.
func (m *Machine) Outi() bool { return m.outStep(1) }

// Outd writes (HL) to port BC after decrementing B, then decrements HL.
func (m *Machine) Outd() bool { return m.outStep(0xFFFF) }
