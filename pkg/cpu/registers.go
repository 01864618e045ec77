package cpu

// Reg8 names an 8-bit operand in Z80 encoding order (the r field of an opcode).
// RegM is the memory byte addressed by HL, not a register of the file.
type Reg8 uint8

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM
	RegA
)

var reg8Names = [...]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

func (r Reg8) String() string {
	if int(r) < len(reg8Names) {
		return reg8Names[r]
	}
	return "?"
}

// Pair names a 16-bit register or register pair.
type Pair uint8

const (
	BC Pair = iota
	DE
	HL
	SP
	AF
	IX
	IY
)

var pairNames = [...]string{"BC", "DE", "HL", "SP", "AF", "IX", "IY"}

func (p Pair) String() string {
	if int(p) < len(pairNames) {
		return pairNames[p]
	}
	return "?"
}

// Cond is a branch condition in Z80 encoding order (the cc field of an opcode).
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

var condNames = [...]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

func (c Cond) String() string {
	if int(c) < len(condNames) {
		return condNames[c]
	}
	return "?"
}

var condFlags = [4]uint8{FlagZ, FlagC, FlagP, FlagS}

// Holds reports whether the condition is true for flag register value f.
// Even conditions test for a clear bit, odd ones for a set bit.
func (c Cond) Holds(f uint8) bool {
	set := f&condFlags[(c>>1)&3] != 0
	return set == (c&1 == 1)
}

// Bank is one set of general purpose registers.
type Bank struct {
	A, F, B, C, D, E, H, L uint8
}

// Registers is the complete Z80 register file.
// The main bank is embedded so r.A, r.F ... address it directly.
type Registers struct {
	Bank
	Shadow Bank

	IX, IY uint16
	I, R   uint8
	PC, SP uint16

	IFF1, IFF2 bool
	IM         uint8 // interrupt mode 0, 1 or 2
	Halted     bool
}

// Reset puts the register file into its power-on state: everything zero,
// SP at the top of the address space, interrupts disabled, mode 0.
func (r *Registers) Reset() {
	*r = Registers{SP: 0xFFFF}
}

// Equal returns true if two register files are identical.
func (r Registers) Equal(o Registers) bool {
	return r == o
}

// Ptr returns a handle to an 8-bit register. RegM has no register behind it.
func (r *Registers) Ptr(x Reg8) *uint8 {
	switch x {
	case RegB:
		return &r.B
	case RegC:
		return &r.C
	case RegD:
		return &r.D
	case RegE:
		return &r.E
	case RegH:
		return &r.H
	case RegL:
		return &r.L
	case RegA:
		return &r.A
	}
	panic("cpu: no register behind " + x.String())
}

// Pair returns the value of a 16-bit register pair.
func (r *Registers) Pair(p Pair) uint16 {
	switch p {
	case BC:
		return Word(r.B, r.C)
	case DE:
		return Word(r.D, r.E)
	case HL:
		return Word(r.H, r.L)
	case SP:
		return r.SP
	case AF:
		return Word(r.A, r.F)
	case IX:
		return r.IX
	case IY:
		return r.IY
	}
	panic("cpu: unknown pair " + p.String())
}

// SetPair stores v into a 16-bit register pair, high byte into the first register.
func (r *Registers) SetPair(p Pair, v uint16) {
	switch p {
	case BC:
		r.B, r.C = Split(v)
	case DE:
		r.D, r.E = Split(v)
	case HL:
		r.H, r.L = Split(v)
	case SP:
		r.SP = v
	case AF:
		r.A, r.F = Split(v)
	case IX:
		r.IX = v
	case IY:
		r.IY = v
	default:
		panic("cpu: unknown pair " + p.String())
	}
}

// ExAF exchanges AF with AF'.
func (r *Registers) ExAF() {
	r.A, r.Shadow.A = r.Shadow.A, r.A
	r.F, r.Shadow.F = r.Shadow.F, r.F
}

// Exx exchanges BC, DE and HL with their shadows in one step.
func (r *Registers) Exx() {
	a, f := r.A, r.F
	r.Bank, r.Shadow = r.Shadow, r.Bank
	r.Shadow.A, r.Shadow.F = r.A, r.F
	r.A, r.F = a, f
}

// ExDEHL exchanges DE and HL.
func (r *Registers) ExDEHL() {
	r.D, r.H = r.H, r.D
	r.E, r.L = r.L, r.E
}

// Refresh advances the low 7 bits of R, as every opcode fetch does.
func (r *Registers) Refresh() {
	r.R = r.R&0x80 | (r.R+1)&0x7F
}

// Word combines two bytes into a big-endian 16-bit value.
func Word(hi, lo uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// Split returns the high and low bytes of v.
func Split(v uint16) (hi, lo uint8) {
	return uint8(v >> 8), uint8(v)
}
