package cpu

// Machine bundles everything an instruction may touch: registers, memory and
// the port bus. Instructions receive it by pointer for the duration of one
// execution and keep nothing from it afterwards.
type Machine struct {
	Regs  Registers
	Mem   Memory
	Ports Ports
}

// NewMachine returns a machine in its reset state. A nil ports uses NullPorts.
func NewMachine(ports Ports) *Machine {
	if ports == nil {
		ports = NullPorts{}
	}
	m := &Machine{Ports: ports}
	m.Reset()
	return m
}

// Reset restores the documented power-on values of registers and memory.
func (m *Machine) Reset() {
	m.Regs.Reset()
	m.Mem.Reset()
}

// Get8 reads an 8-bit operand; RegM reads the byte at (HL).
func (m *Machine) Get8(x Reg8) uint8 {
	if x == RegM {
		return m.Mem.Read(m.Regs.Pair(HL))
	}
	return *m.Regs.Ptr(x)
}

// Set8 writes an 8-bit operand; RegM writes the byte at (HL).
func (m *Machine) Set8(x Reg8, v uint8) {
	if x == RegM {
		m.Mem.Write(m.Regs.Pair(HL), v)
		return
	}
	*m.Regs.Ptr(x) = v
}

// Modify8 applies f to an 8-bit operand in place, going through memory for RegM.
func (m *Machine) Modify8(x Reg8, f func(v *uint8)) {
	if x == RegM {
		addr := m.Regs.Pair(HL)
		v := m.Mem.Read(addr)
		f(&v)
		m.Mem.Write(addr, v)
		return
	}
	f(m.Regs.Ptr(x))
}

// Push stores v on the stack: SP is decremented before each write, high byte first.
func (m *Machine) Push(v uint16) {
	hi, lo := Split(v)
	m.Regs.SP--
	m.Mem.Write(m.Regs.SP, hi)
	m.Regs.SP--
	m.Mem.Write(m.Regs.SP, lo)
}

// Pop reads a word from the stack: low byte first, SP incremented after each read.
func (m *Machine) Pop() uint16 {
	lo := m.Mem.Read(m.Regs.SP)
	m.Regs.SP++
	hi := m.Mem.Read(m.Regs.SP)
	m.Regs.SP++
	return Word(hi, lo)
}

// PushPair pushes a register pair.
func (m *Machine) PushPair(p Pair) {
	m.Push(m.Regs.Pair(p))
}

// PopPair pops into a register pair.
func (m *Machine) PopPair(p Pair) {
	m.Regs.SetPair(p, m.Pop())
}

// Call pushes the current PC and continues at target.
func (m *Machine) Call(target uint16) {
	m.Push(m.Regs.PC)
	m.Regs.PC = target
}

// Ret pops the return address into PC.
func (m *Machine) Ret() {
	m.Regs.PC = m.Pop()
}

// Jump adds a signed displacement to PC, wrapping at 16 bits.
func (m *Machine) Jump(e uint8) {
	m.Regs.PC += uint16(int8(e))
}

// ExSP exchanges the word on top of the stack with a register pair.
func (m *Machine) ExSP(p Pair) {
	top := m.Mem.ReadWord(m.Regs.SP)
	m.Mem.WriteWord(m.Regs.SP, m.Regs.Pair(p))
	m.Regs.SetPair(p, top)
}

// In reads a port and returns the value.
func (m *Machine) In(port uint16) uint8 {
	return m.Ports.In(port)
}

// Out writes a port.
func (m *Machine) Out(port uint16, v uint8) {
	m.Ports.Out(port, v)
}
