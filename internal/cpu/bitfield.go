package cpu

import "github.com/kbrown/emu68k/internal/memory"

// Bit-field primitives (spec §4.2). Bit 0 of a field offset is the MSB.
// width==0 denotes 32, per spec.

func normalizeWidth(width uint32) uint32 {
	if width == 0 {
		return 32
	}
	return width
}

// RegisterField extracts a width-bit field starting at offset (mod 32) from
// a 32-bit register value, right-justified.
func RegisterField(v uint32, offset, width uint32) uint32 {
	width = normalizeWidth(width)
	offset %= 32
	rotated := (v << offset) | (v >> (32 - offset))
	if offset == 0 {
		rotated = v
	}
	return rotated >> (32 - width)
}

// RegisterFieldInsert writes the low width bits of value into the field at
// offset (mod 32) of v, returning the updated register value.
func RegisterFieldInsert(v uint32, offset, width uint32, value uint32) uint32 {
	width = normalizeWidth(width)
	offset %= 32
	mask := uint32(0xffffffff)
	if width < 32 {
		mask = (uint32(1) << width) - 1
	}
	fieldMask := mask << (32 - width)
	// Rotate the field-aligned mask and value back to their true position.
	rot := func(x uint32) uint32 {
		if offset == 0 {
			return x
		}
		return (x >> offset) | (x << (32 - offset))
	}
	positionedMask := rot(fieldMask)
	positioned := rot((value & mask) << (32 - width))
	return (v &^ positionedMask) | positioned
}

// MemoryFieldOp describes the byte span a memory-form bit-field instruction
// touches: base is the byte address the bit offset is relative to, and the
// field may span up to 5 bytes once the (possibly negative) bit offset is
// folded in.
type MemoryFieldOp struct {
	Base   uint32
	Offset int32
	Width  uint32
}

// resolveBytes returns the first byte address and the bit offset within it
// (0-7) after folding a signed bit offset into the byte address.
func (m MemoryFieldOp) resolveBytes() (firstByte uint32, bitOffset uint32) {
	byteDelta := m.Offset / 8
	bit := m.Offset % 8
	if bit < 0 {
		bit += 8
		byteDelta--
	}
	return uint32(int64(m.Base) + int64(byteDelta)), uint32(bit)
}

// spanLen returns how many bytes must be read/written to cover the field.
func (m MemoryFieldOp) spanLen() uint32 {
	width := normalizeWidth(m.Width)
	_, bitOffset := m.resolveBytes()
	return (bitOffset + width + 7) / 8
}

// ReadField assembles the big-endian operand spanning up to 5 bytes and
// right-justifies the requested field.
func ReadField(mem *memory.Image, op MemoryFieldOp) (uint32, error) {
	width := normalizeWidth(op.Width)
	firstByte, bitOffset := op.resolveBytes()
	span := op.spanLen()

	var wide uint64
	for i := uint32(0); i < span; i++ {
		b, err := mem.ReadByte(firstByte + i)
		if err != nil {
			return 0, err
		}
		wide = (wide << 8) | uint64(b)
	}
	totalBits := span * 8
	shift := totalBits - bitOffset - width
	mask := uint64(1)<<width - 1
	return uint32((wide >> shift) & mask), nil
}

// WriteField inserts value's low width bits into the field described by op,
// read-modify-writing the covering bytes.
func WriteField(mem *memory.Image, op MemoryFieldOp, value uint32) error {
	width := normalizeWidth(op.Width)
	firstByte, bitOffset := op.resolveBytes()
	span := op.spanLen()

	var wide uint64
	for i := uint32(0); i < span; i++ {
		b, err := mem.ReadByte(firstByte + i)
		if err != nil {
			return err
		}
		wide = (wide << 8) | uint64(b)
	}
	totalBits := span * 8
	shift := totalBits - bitOffset - width
	mask := (uint64(1)<<width - 1) << shift
	wide = (wide &^ mask) | ((uint64(value) << shift) & mask)

	buf := make([]byte, span)
	for i := int(span) - 1; i >= 0; i-- {
		buf[i] = byte(wide)
		wide >>= 8
	}
	return mem.WriteData(firstByte, buf)
}

// FieldMSBAndZero reports the original field's sign bit (for N) and whether
// it was entirely zero (for Z), used by BFTST/BFCHG/BFCLR/BFSET.
func FieldMSBAndZero(field uint32, width uint32) (msb, isZero bool) {
	width = normalizeWidth(width)
	return field&(1<<(width-1)) != 0, field == 0
}

// FindFirstSetFromMSB returns the bit position (0-based from the field's
// MSB) of the first set bit, or width if none is set (spec's BFFFO).
func FindFirstSetFromMSB(field uint32, width uint32) uint32 {
	width = normalizeWidth(width)
	for i := uint32(0); i < width; i++ {
		if field&(1<<(width-1-i)) != 0 {
			return i
		}
	}
	return width
}
