package cpu

import (
	"testing"
)

// TestIncDecRoundTrip verifies inc then dec restores every value of every register.
func TestIncDecRoundTrip(t *testing.T) {
	for _, x := range []Reg8{RegB, RegC, RegD, RegE, RegH, RegL, RegA} {
		for v := 0; v < 256; v++ {
			r := Registers{}
			p := r.Ptr(x)
			*p = uint8(v)
			r.Inc8(p)
			r.Dec8(p)
			if *p != uint8(v) {
				t.Fatalf("%s: inc/dec of %02X gave %02X", x, v, *p)
			}
		}
	}
}

func TestIncDecFlags(t *testing.T) {
	tests := []struct {
		name   string
		inc    bool
		in     uint8
		want   uint8
		wantF  uint8
		startF uint8
	}{
		{"INC FF", true, 0xFF, 0x00, FlagZ | FlagH | FlagC, FlagC},
		{"INC 7F", true, 0x7F, 0x80, FlagS | FlagH | FlagV, 0},
		{"INC 0F", true, 0x0F, 0x10, FlagH, FlagN},
		{"INC 00", true, 0x00, 0x01, 0, 0},
		{"DEC 01", false, 0x01, 0x00, FlagZ | FlagN, 0},
		{"DEC 80", false, 0x80, 0x7F, FlagH | FlagV | FlagN, 0},
		{"DEC 00", false, 0x00, 0xFF, FlagS | FlagH | FlagN | FlagC, FlagC},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Registers{}
			r.B = tc.in
			r.F = tc.startF
			if tc.inc {
				r.Inc8(&r.B)
			} else {
				r.Dec8(&r.B)
			}
			if r.B != tc.want {
				t.Errorf("B = %02X, want %02X", r.B, tc.want)
			}
			if r.F != tc.wantF {
				t.Errorf("F = %02X, want %02X", r.F, tc.wantF)
			}
		})
	}
}

func TestPairIncDecNoFlags(t *testing.T) {
	r := Registers{}
	r.F = 0xD7
	r.SetPair(BC, 0xFFFF)
	r.IncPair(BC)
	if r.Pair(BC) != 0 {
		t.Errorf("INC BC from FFFF: %04X", r.Pair(BC))
	}
	r.DecPair(BC)
	if r.Pair(BC) != 0xFFFF {
		t.Errorf("DEC BC from 0000: %04X", r.Pair(BC))
	}
	r.IX = 0x1234
	r.IncPair(IX)
	if r.IX != 0x1235 {
		t.Errorf("INC IX: %04X", r.IX)
	}
	if r.F != 0xD7 {
		t.Errorf("16-bit inc/dec touched flags: F = %02X", r.F)
	}
}

func TestAddPair(t *testing.T) {
	tests := []struct {
		name      string
		hl, v     uint16
		want      uint16
		wantHalf  bool
		wantCarry bool
	}{
		{"no carry", 0x1000, 0x0234, 0x1234, false, false},
		{"half carry", 0x0FFF, 0x0001, 0x1000, true, false},
		{"full carry", 0xFFFF, 0x0001, 0x0000, true, true},
		{"carry no half", 0x8000, 0x8000, 0x0000, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Registers{}
			r.F = FlagZ | FlagS | FlagN
			r.SetPair(HL, tc.hl)
			r.AddPair(HL, tc.v)
			if got := r.Pair(HL); got != tc.want {
				t.Errorf("HL = %04X, want %04X", got, tc.want)
			}
			if r.Flag(FlagH) != tc.wantHalf {
				t.Errorf("H = %v, want %v", r.Flag(FlagH), tc.wantHalf)
			}
			if r.Flag(FlagC) != tc.wantCarry {
				t.Errorf("C = %v, want %v", r.Flag(FlagC), tc.wantCarry)
			}
			if r.Flag(FlagN) {
				t.Error("ADD HL should clear N")
			}
			if !r.Flag(FlagZ | FlagS) {
				t.Errorf("ADD HL should keep S and Z: F = %02X", r.F)
			}
		})
	}
}

func TestAdcSbcHL(t *testing.T) {
	tests := []struct {
		name  string
		sbc   bool
		hl, v uint16
		carry uint8
		want  uint16
		wantF uint8
	}{
		{"ADC simple", false, 0x1000, 0x2000, 0, 0x3000, 0},
		{"ADC carry in", false, 0x10FF, 0x2000, FlagC, 0x3100, 0},
		{"ADC overflow", false, 0x7FFF, 0x0001, 0, 0x8000, FlagS | FlagH | FlagV},
		{"ADC to zero", false, 0xFFFF, 0x0001, 0, 0x0000, FlagZ | FlagH | FlagC},
		{"SBC simple", true, 0x3000, 0x1000, 0, 0x2000, FlagN},
		{"SBC borrow", true, 0x0000, 0x0001, 0, 0xFFFF, FlagS | FlagH | FlagN | FlagC},
		{"SBC carry in to zero", true, 0x1001, 0x1000, FlagC, 0x0000, FlagZ | FlagN},
		{"SBC overflow", true, 0x8000, 0x0001, 0, 0x7FFF, FlagH | FlagV | FlagN},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := Registers{}
			r.F = tc.carry
			r.SetPair(HL, tc.hl)
			if tc.sbc {
				r.SbcHL(tc.v)
			} else {
				r.AdcHL(tc.v)
			}
			if got := r.Pair(HL); got != tc.want {
				t.Errorf("HL = %04X, want %04X", got, tc.want)
			}
			if r.F != tc.wantF {
				t.Errorf("F = %02X, want %02X", r.F, tc.wantF)
			}
		})
	}
}

func TestShifts(t *testing.T) {
	tests := []struct {
		op        Shift
		in, f     uint8
		want      uint8
		wantCarry bool
	}{
		{ShiftRlc, 0x80, 0, 0x01, true},
		{ShiftRrc, 0x01, 0, 0x80, true},
		{ShiftRl, 0x80, FlagC, 0x01, true},
		{ShiftRr, 0x02, FlagC, 0x81, false},
		{ShiftSla, 0x81, 0, 0x02, true},
		{ShiftSra, 0x81, 0, 0xC0, true},
		{ShiftSll, 0x00, 0, 0x01, false},
		{ShiftSrl, 0x81, 0, 0x40, true},
	}
	for _, tc := range tests {
		t.Run(tc.op.String(), func(t *testing.T) {
			r := Registers{}
			r.F = tc.f | FlagH | FlagN
			got := tc.op.Apply(&r, tc.in)
			if got != tc.want {
				t.Errorf("%s %02X = %02X, want %02X", tc.op, tc.in, got, tc.want)
			}
			if r.Flag(FlagC) != tc.wantCarry {
				t.Errorf("C = %v, want %v", r.Flag(FlagC), tc.wantCarry)
			}
			if r.F&(FlagH|FlagN) != 0 {
				t.Errorf("H/N not cleared: F = %02X", r.F)
			}
		})
	}
}

func TestSrl(t *testing.T) {
	r := Registers{}
	if got := r.Srl(0x01); got != 0 || !r.Flag(FlagC) || !r.Flag(FlagZ) {
		t.Errorf("SRL 01: %02X F=%02X", got, r.F)
	}
	if got := r.Srl(0xFE); got != 0x7F || r.Flag(FlagC) || r.Flag(FlagS) {
		t.Errorf("SRL FE: %02X F=%02X", got, r.F)
	}
}

func TestBit(t *testing.T) {
	tests := []struct {
		n, v  uint8
		wantF uint8
	}{
		{0, 0x00, FlagZ | FlagP | FlagH | FlagC},
		{0, 0x01, FlagH | FlagC},
		{7, 0x80, FlagS | FlagH | FlagC},
		{7, 0x7F, FlagZ | FlagP | FlagH | FlagC},
		{3, 0x08, FlagH | FlagC},
	}
	for _, tc := range tests {
		r := Registers{}
		r.F = FlagC | FlagN
		r.Bit(tc.n, tc.v)
		if r.F != tc.wantF {
			t.Errorf("BIT %d,%02X: F = %02X, want %02X", tc.n, tc.v, r.F, tc.wantF)
		}
	}
}

func TestLdAIR(t *testing.T) {
	r := Registers{}
	r.IFF2 = true
	r.F = FlagC
	r.LdAIR(0x00)
	if r.F != FlagZ|FlagP|FlagC {
		t.Errorf("LD A,I with IFF2: F = %02X", r.F)
	}
	r.IFF2 = false
	r.LdAIR(0x80)
	if r.A != 0x80 || r.F != FlagS|FlagC {
		t.Errorf("LD A,I without IFF2: A=%02X F=%02X", r.A, r.F)
	}
}

func TestLdiLdd(t *testing.T) {
	m := NewMachine(nil)
	m.Mem.Write(0x4000, 0xAA)
	m.Mem.Write(0x4001, 0xBB)
	m.Regs.SetPair(HL, 0x4000)
	m.Regs.SetPair(DE, 0x5000)
	m.Regs.SetPair(BC, 2)

	if !m.Ldi() {
		t.Fatal("LDI with BC=2 should report repeat")
	}
	if !m.Regs.Flag(FlagP) {
		t.Error("P/V should be set while BC != 0")
	}
	if m.Ldi() {
		t.Fatal("LDI reaching BC=0 should stop")
	}
	if m.Regs.Flag(FlagP) {
		t.Error("P/V should clear when BC reaches 0")
	}
	if m.Mem.Read(0x5000) != 0xAA || m.Mem.Read(0x5001) != 0xBB {
		t.Errorf("copy: %02X %02X", m.Mem.Read(0x5000), m.Mem.Read(0x5001))
	}
	if m.Regs.Pair(HL) != 0x4002 || m.Regs.Pair(DE) != 0x5002 {
		t.Errorf("HL=%04X DE=%04X", m.Regs.Pair(HL), m.Regs.Pair(DE))
	}

	m.Regs.SetPair(BC, 1)
	m.Ldd()
	if m.Regs.Pair(HL) != 0x4001 || m.Regs.Pair(DE) != 0x5001 {
		t.Errorf("LDD: HL=%04X DE=%04X", m.Regs.Pair(HL), m.Regs.Pair(DE))
	}
}

func TestCpi(t *testing.T) {
	m := NewMachine(nil)
	m.Mem.Load(0x4000, []byte{0x10, 0x42, 0x99})
	m.Regs.A = 0x42
	m.Regs.SetPair(HL, 0x4000)
	m.Regs.SetPair(BC, 5)

	if !m.Cpi() {
		t.Fatal("CPI on mismatch with BC left should repeat")
	}
	if m.Cpi() {
		t.Fatal("CPI on match should stop")
	}
	if !m.Regs.Flag(FlagZ) || !m.Regs.Flag(FlagN) {
		t.Errorf("match flags: F = %02X", m.Regs.F)
	}
	if m.Regs.Pair(HL) != 0x4002 || m.Regs.Pair(BC) != 3 {
		t.Errorf("HL=%04X BC=%04X", m.Regs.Pair(HL), m.Regs.Pair(BC))
	}
}

type recordPorts struct {
	in   map[uint16]uint8
	outs []portWrite
}

type portWrite struct {
	port uint16
	v    uint8
}

func (p *recordPorts) In(port uint16) uint8 { return p.in[port] }

func (p *recordPorts) Out(port uint16, v uint8) {
	p.outs = append(p.outs, portWrite{port, v})
}

func TestIniOuti(t *testing.T) {
	ports := &recordPorts{in: map[uint16]uint8{0x02FE: 0x5A}}
	m := NewMachine(ports)
	m.Regs.SetPair(BC, 0x02FE)
	m.Regs.SetPair(HL, 0x8000)

	if !m.Ini() {
		t.Fatal("INI with B=2 should repeat")
	}
	if m.Mem.Read(0x8000) != 0x5A || m.Regs.B != 1 || m.Regs.Pair(HL) != 0x8001 {
		t.Errorf("INI: (8000)=%02X B=%02X HL=%04X", m.Mem.Read(0x8000), m.Regs.B, m.Regs.Pair(HL))
	}

	m.Regs.SetPair(HL, 0x8000)
	if m.Outi() {
		t.Fatal("OUTI reaching B=0 should stop")
	}
	if !m.Regs.Flag(FlagZ) {
		t.Error("Z should be set when B reaches 0")
	}
	// B is decremented before the port address is formed.
	want := portWrite{0x00FE, 0x5A}
	if len(ports.outs) != 1 || ports.outs[0] != want {
		t.Errorf("OUTI writes = %+v, want %+v", ports.outs, want)
	}
}
