package cpu

// Z80 flag bit positions in the F register.
const (
	FlagC uint8 = 0x01  // Carry
	FlagN uint8 = 0x02  // Add/Subtract
	FlagP uint8 = 0x04  // Parity/Overflow
	FlagV       = FlagP // Overflow (same bit as Parity)
	Flag3 uint8 = 0x08  // unused, never written
	FlagH uint8 = 0x10  // Half-carry
	Flag5 uint8 = 0x20  // unused, never written
	FlagZ uint8 = 0x40  // Zero
	FlagS uint8 = 0x80  // Sign
)

// Documented is the set of flag bits instructions are allowed to change.
const Documented = FlagS | FlagZ | FlagH | FlagP | FlagN | FlagC

// Precomputed flag tables, ported from remogatto/z80 with bits 3 and 5 dropped.
var (
	// SzTable holds S and Z for each byte value.
	SzTable [256]uint8
	// SzpTable is SzTable with the parity flag included.
	SzpTable [256]uint8
	// ParityTable holds P for each byte value (set on even parity).
	ParityTable [256]uint8

	// Half-carry and overflow lookup tables.
	// For 8-bit ops: index from bits 3 (and 7) of {result, arg1, arg2}.
	// For 16-bit ops (ADC/SBC HL): index from bits 11 and 15, same tables.
	HalfcarryAddTable = [8]uint8{0, FlagH, FlagH, FlagH, 0, 0, 0, FlagH}
	HalfcarrySubTable = [8]uint8{0, 0, FlagH, 0, FlagH, 0, FlagH, FlagH}
	OverflowAddTable  = [8]uint8{0, 0, 0, FlagV, FlagV, 0, 0, 0}
	OverflowSubTable  = [8]uint8{0, FlagV, 0, 0, 0, 0, FlagV, 0}
)

func init() {
	for i := 0; i < 256; i++ {
		SzTable[i] = uint8(i) & FlagS

		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		if parity == 0 {
			ParityTable[i] = FlagP
		}
		SzpTable[i] = SzTable[i] | ParityTable[i]
	}
	SzTable[0] |= FlagZ
	SzpTable[0] |= FlagZ
}

// Flag reports whether every bit of f is set in F.
func (r *Registers) Flag(f uint8) bool {
	return r.F&f == f
}

// SetFlag sets or clears the named flag bits. Bits outside Documented are ignored.
func (r *Registers) SetFlag(f uint8, on bool) {
	if on {
		r.updateFlags(f, f)
	} else {
		r.updateFlags(f, 0)
	}
}

// updateFlags replaces the bits of F selected by mask with those of bits.
// The mask is clipped to the documented flags so bits 3 and 5 survive every operation.
func (r *Registers) updateFlags(mask, bits uint8) {
	mask &= Documented
	r.F = r.F&^mask | bits&mask
}

// bsel returns a if cond is true, else b. Branchless flag selection.
func bsel(cond bool, a, b uint8) uint8 {
	if cond {
		return a
	}
	return b
}
