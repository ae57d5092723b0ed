package cpu

// Sized arithmetic primitives (spec §4.2). Every primitive pre-masks its
// operands through SizeInfo and returns both the masked result and the
// flags a caller should apply to the CCR.

// AddWithFlags computes (src+dst)&mask and the flags ADD/ADDI/ADDQ/ADDA use.
func AddWithFlags(src, dst uint32, size Size) (uint32, Flags) {
	info := size.Info()
	src &= info.Mask
	dst &= info.Mask
	wide := uint64(src) + uint64(dst)
	result := uint32(wide) & info.Mask

	srcSign := src&info.SignBit != 0
	dstSign := dst&info.SignBit != 0
	resSign := result&info.SignBit != 0

	carry := wide > uint64(info.Mask)
	return result, Flags{
		N: resSign,
		Z: result == 0,
		V: srcSign == dstSign && resSign != srcSign,
		C: carry,
		X: carry,
	}
}

// SubWithFlags computes (dst-src)&mask and the flags SUB/SUBI/SUBQ/SUBA use.
func SubWithFlags(dst, src uint32, size Size) (uint32, Flags) {
	info := size.Info()
	src &= info.Mask
	dst &= info.Mask
	result := (dst - src) & info.Mask

	srcSign := src&info.SignBit != 0
	dstSign := dst&info.SignBit != 0
	resSign := result&info.SignBit != 0

	borrow := src > dst
	return result, Flags{
		N: resSign,
		Z: result == 0,
		V: srcSign != dstSign && resSign != dstSign,
		C: borrow,
		X: borrow,
	}
}

// CmpWithFlags is SubWithFlags but never asked to update X (CMP family).
func CmpWithFlags(dst, src uint32, size Size) Flags {
	_, f := SubWithFlags(dst, src, size)
	f.X = false
	return f
}

// AddXWithFlags folds the incoming X flag into the sum. Per spec, Z is only
// ever cleared here, never set, so a multi-limb ADDX chain preserves a
// earlier limb's "all zero so far" result.
func AddXWithFlags(src, dst uint32, x bool, size Size, zSoFar bool) (uint32, Flags) {
	info := size.Info()
	carryIn := uint32(0)
	if x {
		carryIn = 1
	}
	wide := uint64(src&info.Mask) + uint64(dst&info.Mask) + uint64(carryIn)
	result := uint32(wide) & info.Mask

	srcSign := src&info.SignBit != 0
	dstSign := dst&info.SignBit != 0
	resSign := result&info.SignBit != 0

	carry := wide > uint64(info.Mask)
	z := zSoFar && result == 0
	return result, Flags{
		N: resSign,
		Z: z,
		V: srcSign == dstSign && resSign != srcSign,
		C: carry,
		X: carry,
	}
}

// SubXWithFlags is AddXWithFlags' subtract counterpart.
func SubXWithFlags(dst, src uint32, x bool, size Size, zSoFar bool) (uint32, Flags) {
	info := size.Info()
	borrowIn := uint32(0)
	if x {
		borrowIn = 1
	}
	srcM := src & info.Mask
	dstM := dst & info.Mask
	result := (dstM - srcM - borrowIn) & info.Mask

	srcSign := srcM&info.SignBit != 0
	dstSign := dstM&info.SignBit != 0
	resSign := result&info.SignBit != 0

	borrow := uint64(srcM)+uint64(borrowIn) > uint64(dstM)
	z := zSoFar && result == 0
	return result, Flags{
		N: resSign,
		Z: z,
		V: srcSign != dstSign && resSign != dstSign,
		C: borrow,
		X: borrow,
	}
}

// AddBCD adds two packed-BCD bytes with X carry-in, producing the decimal
// sum and the outgoing X/C (spec §4.2: "+6/-6 adjustment").
func AddBCD(src, dst uint8, x bool) (result uint8, carryOut bool) {
	carry := uint16(0)
	if x {
		carry = 1
	}
	lo := uint16(dst&0xf) + uint16(src&0xf) + carry
	loCarry := uint16(0)
	if lo > 9 {
		lo += 6
		loCarry = 1
	}
	hi := uint16(dst>>4) + uint16(src>>4) + loCarry
	hiCarry := false
	if hi > 9 {
		hi += 6
		hiCarry = true
	}
	return uint8((hi<<4)&0xf0) | uint8(lo&0x0f), hiCarry
}

// SubBCD subtracts packed-BCD src from dst with X borrow-in.
func SubBCD(dst, src uint8, x bool) (result uint8, borrowOut bool) {
	borrow := int16(0)
	if x {
		borrow = 1
	}
	lo := int16(dst&0xf) - int16(src&0xf) - borrow
	loBorrow := int16(0)
	if lo < 0 {
		lo -= 6
		loBorrow = 1
	}
	hi := int16(dst>>4) - int16(src>>4) - loBorrow
	hiBorrow := false
	if hi < 0 {
		hi -= 6
		hiBorrow = true
	}
	return uint8(hi<<4) | uint8(lo&0xf), hiBorrow
}
