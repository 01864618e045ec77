package cpu

// Ports is the I/O data bus seen by IN and OUT. The 16-bit port address
// carries B (or A for the immediate forms) in its high byte.
type Ports interface {
	In(port uint16) uint8
	Out(port uint16, v uint8)
}

// NullPorts is a bus with nothing attached: reads float high, writes vanish.
type NullPorts struct{}

func (NullPorts) In(port uint16) uint8 { return 0xFF }

func (NullPorts) Out(port uint16, v uint8) {}
