// Package cpu implements the m68k/CPU32 instruction interpreter: register
// file, condition codes, effective-address resolution, and the per-family
// execute routines. It is grounded on the teacher's cpuState/stepInfo split
// (one struct holding architectural state, one struct holding the decoded
// operands for the instruction currently executing) but generalized from
// the S/370's 16 general registers to the m68k split data/address file.
package cpu

// Size is the operand width carried by every data-touching m68k operation.
type Size uint8

const (
	Byte Size = iota
	Word
	Long
)

// SizeInfo is the set of masks/widths derived from a Size, used throughout
// the ALU and bit-field primitives so they never hard-code width logic.
type SizeInfo struct {
	Mask    uint32
	SignBit uint32
	Bits    uint32
	Bytes   uint32
}

var sizeInfoTable = [3]SizeInfo{
	Byte: {Mask: 0xff, SignBit: 0x80, Bits: 8, Bytes: 1},
	Word: {Mask: 0xffff, SignBit: 0x8000, Bits: 16, Bytes: 2},
	Long: {Mask: 0xffffffff, SignBit: 0x80000000, Bits: 32, Bytes: 4},
}

func (s Size) Info() SizeInfo { return sizeInfoTable[s] }

func (s Size) String() string {
	switch s {
	case Byte:
		return "byte"
	case Word:
		return "word"
	default:
		return "long"
	}
}

// flag bit positions within the CCR (spec §3).
const (
	flagC = 1 << 0
	flagV = 1 << 1
	flagZ = 1 << 2
	flagN = 1 << 3
	flagX = 1 << 4
)

// SR is the 16-bit status register; its low byte is the CCR.
type SR uint16

func (sr SR) C() bool { return sr&flagC != 0 }
func (sr SR) V() bool { return sr&flagV != 0 }
func (sr SR) Z() bool { return sr&flagZ != 0 }
func (sr SR) N() bool { return sr&flagN != 0 }
func (sr SR) X() bool { return sr&flagX != 0 }

func setFlag(sr *SR, bit uint16, v bool) {
	if v {
		*sr |= SR(bit)
	} else {
		*sr &^= SR(bit)
	}
}

func (sr *SR) SetC(v bool) { setFlag(sr, flagC, v) }
func (sr *SR) SetV(v bool) { setFlag(sr, flagV, v) }
func (sr *SR) SetZ(v bool) { setFlag(sr, flagZ, v) }
func (sr *SR) SetN(v bool) { setFlag(sr, flagN, v) }
func (sr *SR) SetX(v bool) { setFlag(sr, flagX, v) }

// Flags bundles the five results every ALU primitive computes.
type Flags struct {
	N, Z, V, C, X bool
}

// Apply writes f's N/Z/V/C bits into sr, leaving X untouched (callers that
// also own X, such as add/sub, set it separately since several
// instructions - CMP chief among them - must not touch it).
func (f Flags) Apply(sr *SR) {
	sr.SetN(f.N)
	sr.SetZ(f.Z)
	sr.SetV(f.V)
	sr.SetC(f.C)
}

// Registers is the programmer-visible m68k register file (spec §3).
type Registers struct {
	D  [8]uint32
	A  [8]uint32
	SR SR
	PC uint32
}

// GetData reads register n at the given size, the low bits only.
func (r *Registers) GetData(n int, size Size) uint32 {
	return r.D[n] & size.Info().Mask
}

// SetData writes value into register n's low size bits, leaving the rest of
// the register untouched (spec §3: "Writing a sized value to a data
// register updates only the low byte/word").
func (r *Registers) SetData(n int, size Size, value uint32) {
	info := size.Info()
	r.D[n] = (r.D[n] &^ info.Mask) | (value & info.Mask)
}

// SetAddrSized writes a sized value into address register n. Per spec §3,
// address-register writes always replace the full 32 bits, sign-extending
// word-sized sources first.
func (r *Registers) SetAddrSized(n int, size Size, value uint32) {
	r.A[n] = SignExtend(value, size)
}

// SignExtend widens a sized value to 32 bits preserving its sign.
func SignExtend(v uint32, size Size) uint32 {
	info := size.Info()
	if info.Bits == 32 {
		return v
	}
	v &= info.Mask
	if v&info.SignBit != 0 {
		return v | ^info.Mask
	}
	return v
}

// Truncate masks v down to size's width without sign extension.
func Truncate(v uint32, size Size) uint32 {
	return v & size.Info().Mask
}
