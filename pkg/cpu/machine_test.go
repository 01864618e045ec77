package cpu

import (
	"errors"
	"testing"
)

func TestResetState(t *testing.T) {
	m := NewMachine(nil)
	r := m.Regs
	if r.PC != 0 || r.SP != 0xFFFF {
		t.Errorf("PC=%04X SP=%04X, want 0000 FFFF", r.PC, r.SP)
	}
	if r.IFF1 || r.IFF2 || r.IM != 0 || r.Halted {
		t.Errorf("interrupt state not reset: %+v", r)
	}
	if r.Bank != (Bank{}) || r.Shadow != (Bank{}) {
		t.Errorf("banks not zero: %+v %+v", r.Bank, r.Shadow)
	}
	for _, addr := range []uint16{0x0000, 0x4000, 0xFFFF} {
		if got := m.Mem.Read(addr); got != ResetFill {
			t.Errorf("mem[%04X] = %02X, want %02X", addr, got, ResetFill)
		}
	}
	if _, ok := m.Ports.(NullPorts); !ok {
		t.Errorf("nil ports should become NullPorts, got %T", m.Ports)
	}
}

func TestStackRoundTrip(t *testing.T) {
	m := NewMachine(nil)
	sp := m.Regs.SP

	m.Push(0xABEF)
	if m.Regs.SP != sp-2 {
		t.Errorf("SP after push = %04X, want %04X", m.Regs.SP, sp-2)
	}
	// High byte goes to the higher address.
	if m.Mem.Read(sp-1) != 0xAB || m.Mem.Read(sp-2) != 0xEF {
		t.Errorf("stack bytes = %02X %02X, want AB EF", m.Mem.Read(sp-1), m.Mem.Read(sp-2))
	}
	if got := m.Pop(); got != 0xABEF {
		t.Errorf("pop = %04X, want ABEF", got)
	}
	if m.Regs.SP != sp {
		t.Errorf("SP after pop = %04X, want %04X", m.Regs.SP, sp)
	}

	m.Push(0xABEF)
	m.Push(0xCD89)
	if got := m.Pop(); got != 0xCD89 {
		t.Errorf("first pop = %04X, want CD89", got)
	}
	if got := m.Pop(); got != 0xABEF {
		t.Errorf("second pop = %04X, want ABEF", got)
	}
	if m.Regs.SP != sp {
		t.Errorf("SP = %04X, want %04X", m.Regs.SP, sp)
	}
}

func TestPushPopPair(t *testing.T) {
	m := NewMachine(nil)
	m.Regs.SetPair(BC, 0x1234)
	m.Regs.SetPair(AF, 0x56D7)
	m.PushPair(BC)
	m.PushPair(AF)
	m.PopPair(DE)
	m.PopPair(IX)
	if m.Regs.Pair(DE) != 0x56D7 || m.Regs.IX != 0x1234 {
		t.Errorf("DE=%04X IX=%04X", m.Regs.Pair(DE), m.Regs.IX)
	}
}

func TestCallRet(t *testing.T) {
	m := NewMachine(nil)
	m.Regs.PC = 0x1003
	m.Call(0x2000)
	if m.Regs.PC != 0x2000 {
		t.Errorf("PC after call = %04X", m.Regs.PC)
	}
	m.Ret()
	if m.Regs.PC != 0x1003 || m.Regs.SP != 0xFFFF {
		t.Errorf("after ret PC=%04X SP=%04X", m.Regs.PC, m.Regs.SP)
	}
}

func TestJumpWraps(t *testing.T) {
	tests := []struct {
		pc   uint16
		e    uint8
		want uint16
	}{
		{0x1000, 0x05, 0x1005},
		{0x1000, 0xFE, 0x0FFE},
		{0x0000, 0xFE, 0xFFFE},
		{0xFFFF, 0x02, 0x0001},
	}
	for _, tc := range tests {
		m := Machine{}
		m.Regs.PC = tc.pc
		m.Jump(tc.e)
		if m.Regs.PC != tc.want {
			t.Errorf("PC %04X + %02X = %04X, want %04X", tc.pc, tc.e, m.Regs.PC, tc.want)
		}
	}
}

func TestExSP(t *testing.T) {
	m := NewMachine(nil)
	m.Regs.SP = 0x8000
	m.Mem.WriteWord(0x8000, 0x1234)
	m.Regs.SetPair(HL, 0xABCD)
	m.ExSP(HL)
	if m.Regs.Pair(HL) != 0x1234 || m.Mem.ReadWord(0x8000) != 0xABCD {
		t.Errorf("HL=%04X (SP)=%04X", m.Regs.Pair(HL), m.Mem.ReadWord(0x8000))
	}
}

func TestGetSet8Memory(t *testing.T) {
	m := NewMachine(nil)
	m.Regs.SetPair(HL, 0x4000)
	m.Set8(RegM, 0x7E)
	if m.Mem.Read(0x4000) != 0x7E || m.Get8(RegM) != 0x7E {
		t.Errorf("(HL) = %02X", m.Mem.Read(0x4000))
	}
	m.Modify8(RegM, m.Regs.Inc8)
	if m.Mem.Read(0x4000) != 0x7F {
		t.Errorf("INC (HL) = %02X, want 7F", m.Mem.Read(0x4000))
	}
	m.Set8(RegE, 0x11)
	if m.Regs.E != 0x11 || m.Get8(RegE) != 0x11 {
		t.Errorf("E = %02X", m.Regs.E)
	}
}

func TestPortsPassThrough(t *testing.T) {
	ports := &recordPorts{in: map[uint16]uint8{0x7F00: 0x33}}
	m := NewMachine(ports)
	if got := m.In(0x7F00); got != 0x33 {
		t.Errorf("In = %02X", got)
	}
	m.Out(0xBC00, 0x0C)
	if len(ports.outs) != 1 || ports.outs[0] != (portWrite{0xBC00, 0x0C}) {
		t.Errorf("outs = %+v", ports.outs)
	}
	if (NullPorts{}).In(0) != 0xFF {
		t.Error("NullPorts should read FF")
	}
}

func TestMemoryWords(t *testing.T) {
	var mem Memory
	mem.WriteWord(0x1000, 0xAAFF)
	if mem.Read(0x1000) != 0xFF || mem.Read(0x1001) != 0xAA {
		t.Errorf("little-endian store: %02X %02X", mem.Read(0x1000), mem.Read(0x1001))
	}
	mem.WriteWord(0xFFFF, 0x1234)
	if mem.Read(0xFFFF) != 0x34 || mem.Read(0x0000) != 0x12 {
		t.Errorf("wrapped store: %02X %02X", mem.Read(0xFFFF), mem.Read(0x0000))
	}
	if got := mem.ReadWord(0xFFFF); got != 0x1234 {
		t.Errorf("wrapped read = %04X", got)
	}
	if n := mem.Load(0xFFFE, []byte{1, 2, 3, 4}); n != 2 {
		t.Errorf("Load past end copied %d bytes, want 2", n)
	}
}

func TestLoadROM(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"16K", 0x4000, false},
		{"32K", 0x8000, false},
		{"short", 100, true},
		{"48K", 0xC000, true},
		{"empty", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var mem Memory
			mem.Reset()
			rom := make([]byte, tc.size)
			for i := range rom {
				rom[i] = uint8(i >> 8)
			}
			err := mem.LoadROM(rom)
			if tc.wantErr {
				if !errors.Is(err, ErrROMSize) {
					t.Fatalf("err = %v, want ErrROMSize", err)
				}
				if mem.Read(0) != ResetFill {
					t.Error("rejected ROM must not be mapped")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if mem.Read(0x3F00) != 0x3F {
				t.Errorf("mem[3F00] = %02X, want 3F", mem.Read(0x3F00))
			}
			if tc.size == 0x8000 {
				if mem.Read(0xC000) != 0x40 || mem.Read(0xFF00) != 0x7F {
					t.Errorf("upper ROM: %02X %02X", mem.Read(0xC000), mem.Read(0xFF00))
				}
				if mem.Read(0x4000) != ResetFill {
					t.Error("32K ROM must not touch 4000-BFFF")
				}
			} else if mem.Read(0xC000) != ResetFill {
				t.Error("16K ROM must not touch C000")
			}
		})
	}
}

func TestExchanges(t *testing.T) {
	r := Registers{}
	r.Bank = Bank{A: 1, F: 2, B: 3, C: 4, D: 5, E: 6, H: 7, L: 8}
	r.Shadow = Bank{A: 11, F: 12, B: 13, C: 14, D: 15, E: 16, H: 17, L: 18}

	r.Exx()
	want := Bank{A: 1, F: 2, B: 13, C: 14, D: 15, E: 16, H: 17, L: 18}
	if r.Bank != want {
		t.Errorf("EXX main = %+v, want %+v", r.Bank, want)
	}
	if r.Shadow.B != 3 || r.Shadow.L != 8 || r.Shadow.A != 11 {
		t.Errorf("EXX shadow = %+v", r.Shadow)
	}

	r.ExAF()
	if r.A != 11 || r.F != 12 || r.Shadow.A != 1 || r.Shadow.F != 2 {
		t.Errorf("EX AF,AF': A=%d F=%d A'=%d F'=%d", r.A, r.F, r.Shadow.A, r.Shadow.F)
	}

	r.ExDEHL()
	if r.Pair(DE) != Word(17, 18) || r.Pair(HL) != Word(15, 16) {
		t.Errorf("EX DE,HL: DE=%04X HL=%04X", r.Pair(DE), r.Pair(HL))
	}
}

func TestRefresh(t *testing.T) {
	r := Registers{R: 0x7F}
	r.Refresh()
	if r.R != 0x00 {
		t.Errorf("R = %02X, want 00", r.R)
	}
	r.R = 0xFF
	r.Refresh()
	if r.R != 0x80 {
		t.Errorf("R = %02X, want 80 (bit 7 kept)", r.R)
	}
}

func TestCondHolds(t *testing.T) {
	tests := []struct {
		c    Cond
		f    uint8
		want bool
	}{
		{CondNZ, 0, true},
		{CondNZ, FlagZ, false},
		{CondZ, FlagZ, true},
		{CondNC, FlagC, false},
		{CondC, FlagC, true},
		{CondPO, 0, true},
		{CondPE, FlagP, true},
		{CondP, FlagS, false},
		{CondM, FlagS, true},
		{CondM, FlagZ | FlagC | FlagP, false},
	}
	for _, tc := range tests {
		if got := tc.c.Holds(tc.f); got != tc.want {
			t.Errorf("%s with F=%02X: %v, want %v", tc.c, tc.f, got, tc.want)
		}
	}
}

func TestPairs(t *testing.T) {
	r := Registers{}
	for _, p := range []Pair{BC, DE, HL, SP, AF, IX, IY} {
		r.SetPair(p, 0xBEEF)
		if got := r.Pair(p); got != 0xBEEF {
			t.Errorf("%s = %04X, want BEEF", p, got)
		}
	}
	r.SetPair(BC, 0x1234)
	if r.B != 0x12 || r.C != 0x34 {
		t.Errorf("B=%02X C=%02X", r.B, r.C)
	}
	if Word(0xAA, 0xFF) != 0xAAFF {
		t.Error("Word(AA, FF) != AAFF")
	}
	if hi, lo := Split(0xAAFF); hi != 0xAA || lo != 0xFF {
		t.Errorf("Split = %02X %02X", hi, lo)
	}
}

func TestRegisterNames(t *testing.T) {
	if RegM.String() != "(HL)" || RegA.String() != "A" {
		t.Errorf("Reg8 names: %s %s", RegM, RegA)
	}
	if IY.String() != "IY" || CondPE.String() != "PE" {
		t.Errorf("names: %s %s", IY, CondPE)
	}
}
