package decoder

import "fmt"

// Fetcher is the minimal memory access the decoder needs to pull extension
// words and immediates following an opcode word. internal/memory.Image
// satisfies this without the decoder importing that package, keeping the
// decoder -> executor dependency strictly one-directional.
type Fetcher interface {
	ReadWord(addr uint32) (uint16, error)
	ReadLong(addr uint32) (uint32, error)
}

// DecodeError reports a bit pattern this decoder does not recognize.
type DecodeError struct {
	Address uint32
	Word    uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: unsupported opcode %#04x at %#08x", e.Word, e.Address)
}

type cursor struct {
	mem  Fetcher
	pc   uint32
	addr uint32
}

func (c *cursor) word() (uint16, error) {
	w, err := c.mem.ReadWord(c.addr)
	if err != nil {
		return 0, err
	}
	c.addr += 2
	return w, nil
}

func (c *cursor) long() (uint32, error) {
	v, err := c.mem.ReadLong(c.addr)
	if err != nil {
		return 0, err
	}
	c.addr += 4
	return v, nil
}

// moveSizeFromBits decodes the common 2-bit size field (01=byte,11=word,10=long)
// used by move; the 2-bit 00/01/10 field used elsewhere is decoded inline.
func moveSizeFromBits(bits uint16) (Size, bool) {
	switch bits {
	case 1:
		return Byte, true
	case 3:
		return Word, true
	case 2:
		return Long, true
	}
	return 0, false
}

func opSizeFromBits(bits uint16) (Size, bool) {
	switch bits {
	case 0:
		return Byte, true
	case 1:
		return Word, true
	case 2:
		return Long, true
	}
	return 0, false
}

// Decode reads one instruction starting at addr. The returned instruction's
// Len field holds its total encoded length in bytes.
func Decode(mem Fetcher, addr uint32) (Instruction, error) {
	c := &cursor{mem: mem, pc: addr, addr: addr}
	w, err := c.word()
	if err != nil {
		return Instruction{}, err
	}

	inst, err := decodeWord(c, addr, w)
	if err != nil {
		return Instruction{}, err
	}
	inst.Address = addr
	inst.Len = c.addr - addr
	return inst, nil
}

func decodeWord(c *cursor, addr uint32, w uint16) (Instruction, error) {
	switch w >> 12 {
	case 0x0:
		return decodeGroup0(c, addr, w)
	case 0x1, 0x2, 0x3:
		return decodeMove(c, addr, w)
	case 0x4:
		return decodeGroup4(c, addr, w)
	case 0x5:
		return decodeGroup5(c, addr, w)
	case 0x6:
		return decodeBranch(c, addr, w)
	case 0x7:
		return decodeMoveQ(c, addr, w)
	case 0x8:
		return decodeGroup8(c, addr, w)
	case 0x9:
		return decodeAddSubFamily(c, addr, w, OpSub, OpSubA, OpSubX)
	case 0xb:
		return decodeGroupB(c, addr, w)
	case 0xc:
		return decodeGroupC(c, addr, w)
	case 0xd:
		return decodeAddSubFamily(c, addr, w, OpAdd, OpAddA, OpAddX)
	case 0xe:
		return decodeGroupE(c, addr, w)
	}
	return Instruction{}, &DecodeError{Address: addr, Word: w}
}

// --- effective address decode -------------------------------------------

func decodeEA(c *cursor, mode, reg int, size Size) (EA, error) {
	switch mode {
	case 0:
		return EA{Mode: ModeDataReg, Reg: reg}, nil
	case 1:
		return EA{Mode: ModeAddrReg, Reg: reg}, nil
	case 2:
		return EA{Mode: ModeIndirect, Reg: reg}, nil
	case 3:
		return EA{Mode: ModePostInc, Reg: reg}, nil
	case 4:
		return EA{Mode: ModePreDec, Reg: reg}, nil
	case 5:
		disp, err := c.word()
		if err != nil {
			return EA{}, err
		}
		return EA{Mode: ModeDisp, Reg: reg, Disp: int32(int16(disp))}, nil
	case 6:
		return decodeIndexedEA(c, reg, false)
	case 7:
		switch reg {
		case 0:
			v, err := c.word()
			if err != nil {
				return EA{}, err
			}
			return EA{Mode: ModeAbsW, AbsAddr: uint32(int32(int16(v)))}, nil
		case 1:
			v, err := c.long()
			if err != nil {
				return EA{}, err
			}
			return EA{Mode: ModeAbsL, AbsAddr: v}, nil
		case 2:
			disp, err := c.word()
			if err != nil {
				return EA{}, err
			}
			return EA{Mode: ModePCDisp, Disp: int32(int16(disp))}, nil
		case 3:
			return decodeIndexedEA(c, reg, true)
		case 4:
			return decodeImmediate(c, size)
		}
	}
	return EA{}, &DecodeError{Address: c.pc, Word: 0}
}

// decodeIndexedEA handles mode 110 (An + index) and mode 111 reg 011
// (PC + index), including the 68020 full-format extension word.
func decodeIndexedEA(c *cursor, reg int, pcRelative bool) (EA, error) {
	ext, err := c.word()
	if err != nil {
		return EA{}, err
	}
	idx := Index{
		IsAddr:    ext&0x8000 != 0,
		Reg:       int(ext>>12) & 7,
		LongIndex: ext&0x0800 != 0,
		Scale:     uint8(ext>>9) & 3,
	}

	mode := ModeIndexed
	if pcRelative {
		mode = ModePCIndexed
	}
	ea := EA{Mode: mode, Reg: reg, Index: idx}

	if ext&0x0100 == 0 {
		// Brief format: 8-bit displacement in the low byte of ext.
		ea.Disp = int32(int8(ext & 0xff))
		return ea, nil
	}

	// Full format extension word.
	full := FullExt{
		Present:       true,
		BaseSuppress:  ext&0x0080 != 0,
		IndexSuppress: ext&0x0040 != 0,
		IndirectSel:   uint8(ext & 0x7),
	}
	full.Preindexed = full.IndirectSel != 0 && full.IndirectSel < 4
	if full.IndexSuppress {
		idx.Suppressed = true
		ea.Index = idx
	}
	ea.Full = full

	switch uint8(ext>>4) & 3 {
	case 2:
		disp, err := c.word()
		if err != nil {
			return EA{}, err
		}
		ea.Disp = int32(int16(disp))
	case 3:
		disp, err := c.long()
		if err != nil {
			return EA{}, err
		}
		ea.Disp = int32(disp)
	}
	return ea, nil
}

func decodeImmediate(c *cursor, size Size) (EA, error) {
	switch size {
	case Byte:
		v, err := c.word()
		if err != nil {
			return EA{}, err
		}
		return EA{Mode: ModeImmediate, Imm: uint32(v & 0xff)}, nil
	case Word:
		v, err := c.word()
		if err != nil {
			return EA{}, err
		}
		return EA{Mode: ModeImmediate, Imm: uint32(v)}, nil
	default:
		v, err := c.long()
		if err != nil {
			return EA{}, err
		}
		return EA{Mode: ModeImmediate, Imm: v}, nil
	}
}

// --- group 0: bit ops, MOVEP, immediate ALU, CAS/CAS2, CHK2 --------------

func decodeGroup0(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)

	// Dynamic bit ops: 0000 rrr1 ooMMM rrr (BTST/BCHG/BCLR/BSET, Dn count)
	if w&0x0138 != 0x0108 && w&0x01c0 == 0x0100 {
		op := [4]Op{OpBTST, OpBCHG, OpBCLR, OpBSET}[(w>>6)&3]
		countReg := int(w>>9) & 7
		ea, err := decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		sz := Long
		if ea.Mode != ModeDataReg {
			sz = Byte
		}
		return Instruction{Op: op, Size: sz, Dst: ea, UseCountReg: true, CountReg: countReg}, nil
	}

	// Static bit ops / immediate ALU: 0000 ssss 00MMM rrr with imm word.
	topNibble := w >> 8
	if topNibble == 0x08 {
		op := [4]Op{OpBTST, OpBCHG, OpBCLR, OpBSET}[(w>>6)&3]
		imm, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		ea, err := decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		sz := Long
		if ea.Mode != ModeDataReg {
			sz = Byte
		}
		return Instruction{Op: op, Size: sz, Dst: ea, Count: uint32(imm) & 31}, nil
	}

	immOpBits := (w >> 9) & 7
	var immOp Op
	switch immOpBits {
	case 0:
		immOp = OpOrI
	case 1:
		immOp = OpAndI
	case 2:
		immOp = OpSubI
	case 3:
		immOp = OpAddI
	case 5:
		immOp = OpEorI
	case 6:
		immOp = OpCmpI
	default:
		immOp = OpIllegal
	}
	if immOp != OpIllegal && w&0x0038 != 0 || (immOp != OpIllegal && w&0x00c0 != 0x00c0) {
		sizeBits := (w >> 6) & 3
		sz, ok := opSizeFromBits(sizeBits)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		if mode == 7 && reg == 4 {
			// ORI/ANDI/EORI to CCR/SR special forms.
			imm, err := c.word()
			if err != nil {
				return Instruction{}, err
			}
			switch immOp {
			case OpOrI:
				if sz == Byte {
					return Instruction{Op: OpOriToCCR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm) & 0xff}}, nil
				}
				return Instruction{Op: OpOriToSR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm)}}, nil
			case OpAndI:
				if sz == Byte {
					return Instruction{Op: OpAndiToCCR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm) & 0xff}}, nil
				}
				return Instruction{Op: OpAndiToSR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm)}}, nil
			case OpEorI:
				if sz == Byte {
					return Instruction{Op: OpEoriToCCR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm) & 0xff}}, nil
				}
				return Instruction{Op: OpEoriToSR, Src: EA{Mode: ModeImmediate, Imm: uint32(imm)}}, nil
			}
		}
		src, err := decodeImmediate(c, sz)
		if err != nil {
			return Instruction{}, err
		}
		dst, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: immOp, Size: sz, Src: src, Dst: dst}, nil
	}

	if w == 0x0cfc || w == 0x0efc {
		ext1, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		ext2, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		sz := Word
		if w == 0x0efc {
			sz = Long
		}
		return Instruction{Op: OpCas2, Size: sz, Count: uint32(ext1), Mask: ext2}, nil
	}
	if w&0xffc0 == 0x0cc0 || w&0xffc0 == 0x0dc0 || w&0xffc0 == 0x0ec0 {
		sz := Byte
		switch {
		case w&0xffc0 == 0x0dc0:
			sz = Word
		case w&0xffc0 == 0x0ec0:
			sz = Long
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		ext, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpCas, Size: sz, Dst: ea, Reg: int(ext & 7), Reg2: int(ext>>9) & 7}, nil
	}

	if w&0xf9c0 == 0xe8c0 {
		// CHK2/CMPI2: 0000 sszz1 11MMMrrr + extension word with register.
		sz := opSizeForChk2(w)
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		ext, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		isChk2 := ext&0x0800 != 0
		op := OpChk2
		if !isChk2 {
			op = OpCmpI
		}
		return Instruction{Op: op, Size: sz, Src: ea, Reg: int(ext>>12) & 7, Long: ext&0x8000 != 0}, nil
	}

	return Instruction{}, &DecodeError{Address: addr, Word: w}
}

func opSizeForChk2(w uint16) Size {
	switch (w >> 9) & 3 {
	case 0:
		return Byte
	case 1:
		return Word
	default:
		return Long
	}
}

// --- MOVE / MOVEA (0x1/0x2/0x3 top nibble) -------------------------------

func decodeMove(c *cursor, addr uint32, w uint16) (Instruction, error) {
	szBits := w >> 12
	sz, ok := moveSizeFromBits(szBits)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	srcMode := int(w>>3) & 7
	srcReg := int(w & 7)
	dstReg := int(w>>9) & 7
	dstMode := int(w>>6) & 7

	src, err := decodeEA(c, srcMode, srcReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	dst, err := decodeEA(c, dstMode, dstReg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if dstMode == 1 {
		return Instruction{Op: OpMoveA, Size: sz, Src: src, Dst: dst}, nil
	}
	return Instruction{Op: OpMove, Size: sz, Src: src, Dst: dst}, nil
}

// --- group 4: misc (LEA, CLR, NEG, NOT, TST, EXT, SWAP, JSR, JMP, ...) ---

func decodeGroup4(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)

	switch {
	case w == 0x4e70:
		return Instruction{Op: OpReset}, nil
	case w == 0x4e71:
		return Instruction{Op: OpNop}, nil
	case w == 0x4e73:
		return Instruction{Op: OpIllegal}, nil // RTE: no supervisor mode, fatal
	case w == 0x4e75:
		return Instruction{Op: OpRts}, nil
	case w == 0x4e76:
		return Instruction{Op: OpIllegal}, nil // TRAPV
	case w == 0x4e77:
		return Instruction{Op: OpIllegal}, nil // RTR
	case w&0xfff0 == 0x4e60:
		return Instruction{Op: OpMoveUSP, Reg: int(w & 7), Long: w&8 == 0}, nil
	case w&0xfff8 == 0x4e50:
		disp, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpLink, Reg: int(w & 7), Disp: int32(int16(disp)), Size: Word}, nil
	case w&0xfff0 == 0x4e58:
		return Instruction{Op: OpUnlk, Reg: int(w & 7)}, nil
	case w&0xfff0 == 0x4e40:
		return Instruction{Op: OpTrap, Count: uint32(w & 0xf)}, nil
	case w == 0x4e72:
		imm, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpStop, Count: uint32(imm)}, nil
	case w&0xffc0 == 0x4e80:
		ea, err := decodeEA(c, mode, reg, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpJsr, Src: ea}, nil
	case w&0xffc0 == 0x4ec0:
		ea, err := decodeEA(c, mode, reg, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpJmp, Src: ea}, nil
	}

	switch {
	case w&0xf1c0 == 0x41c0 && w&0xfff8 != 0x49c0:
		ea, err := decodeEA(c, mode, reg, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpLea, Src: ea, Reg: int(w>>9) & 7}, nil
	case w&0xf1c0 == 0x4840 && (w>>6)&7 == 1:
		ea, err := decodeEA(c, mode, reg, Long)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpPea, Src: ea}, nil
	case w&0xfff8 == 0x4840:
		return Instruction{Op: OpSwap, Reg: int(w & 7)}, nil
	case w&0xfff8 == 0x4880 || w&0xfff8 == 0x48c0 || w&0xfff8 == 0x49c0:
		// EXT/EXTB: 0100 100 opmode 000 rrr
		opmode := (w >> 6) & 7
		sz := Word
		long := false
		switch opmode {
		case 2:
			sz = Word
		case 3:
			sz = Long
		case 7:
			sz = Long
			long = true
		}
		return Instruction{Op: OpExt, Reg: int(w & 7), Size: sz, Long: long}, nil
	case w&0xff00 == 0x4200:
		sz, ok := opSizeFromBits((w >> 6) & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpClr, Size: sz, Dst: ea}, nil
	case w&0xff00 == 0x4400:
		sz, ok := opSizeFromBits((w >> 6) & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpNeg, Size: sz, Dst: ea}, nil
	case w&0xff00 == 0x4000:
		sz, ok := opSizeFromBits((w >> 6) & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpNegX, Size: sz, Dst: ea}, nil
	case w&0xff00 == 0x4600:
		sz, ok := opSizeFromBits((w >> 6) & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpNot, Size: sz, Dst: ea}, nil
	case w&0xff00 == 0x4a00 && w&0xffc0 != 0x4ac0:
		sz, ok := opSizeFromBits((w >> 6) & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpTst, Size: sz, Dst: ea}, nil
	case w&0xffc0 == 0x4ac0:
		ea, err := decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		if ea.Mode == ModeDataReg && w&0xfff8 == 0x4afc {
			return Instruction{Op: OpIllegal}, nil
		}
		return Instruction{Op: OpIllegal}, nil // TAS: atomic RMW not modeled; fatal
	case w&0xff80 == 0x4880:
		return decodeMovem(c, w, mode, reg, true)
	case w&0xff80 == 0x4c80:
		return decodeMovem(c, w, mode, reg, false)
	case w&0xf1c0 == 0x40c0:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMoveFromSR, Dst: ea}, nil
	case w&0xf1c0 == 0x44c0:
		ea, err := decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMoveToCCR, Src: ea}, nil
	case w&0xf1c0 == 0x46c0:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMoveToSR, Src: ea}, nil
	case w&0xf140 == 0x4100 && w&0xf1c0 != 0x41c0:
		sz := Word
		if w&0x0080 != 0 {
			sz = Long
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpChk, Size: sz, Src: ea, Reg: int(w>>9) & 7}, nil
	case w&0xffc0 == 0x4c00:
		return decodeMulL(c, addr, mode, reg)
	case w&0xffc0 == 0x4c40:
		return decodeDivL(c, addr, mode, reg)
	}

	return Instruction{}, &DecodeError{Address: addr, Word: w}
}

// decodeMulL handles the 68020 32x32 MULU.L/MULS.L long-multiply extension
// word: bits 14-12 select Dh (the high 32 bits of a 64-bit product), bit 10
// is the is_64bit flag, bit 11 selects signed vs unsigned, bits 2-0 select Dl
// (the low 32 bits / sole destination when is_64bit is false).
func decodeMulL(c *cursor, addr uint32, mode, reg int) (Instruction, error) {
	ext, err := c.word()
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, mode, reg, Long)
	if err != nil {
		return Instruction{}, err
	}
	op := OpMulUL
	if ext&0x0800 != 0 {
		op = OpMulSL
	}
	dh := int(ext>>12) & 7
	dl := int(ext & 7)
	return Instruction{
		Op: op, Size: Long, Src: ea,
		Reg: dl, Reg2: dh,
		Long: ext&0x0400 != 0,
	}, nil
}

// decodeDivL mirrors decodeMulL for DIVU.L/DIVS.L: Dr (remainder/high
// dividend half) in bits 14-12, Dq (quotient) in bits 2-0.
func decodeDivL(c *cursor, addr uint32, mode, reg int) (Instruction, error) {
	ext, err := c.word()
	if err != nil {
		return Instruction{}, err
	}
	ea, err := decodeEA(c, mode, reg, Long)
	if err != nil {
		return Instruction{}, err
	}
	op := OpDivUL
	if ext&0x0800 != 0 {
		op = OpDivSL
	}
	dr := int(ext>>12) & 7
	dq := int(ext & 7)
	return Instruction{
		Op: op, Size: Long, Src: ea,
		Reg: dq, Reg2: dr,
		Long: ext&0x0400 != 0,
	}, nil
}

func decodeMovem(c *cursor, w uint16, mode, reg int, regToMem bool) (Instruction, error) {
	mask, err := c.word()
	if err != nil {
		return Instruction{}, err
	}
	sz := Word
	if w&0x0040 != 0 {
		sz = Long
	}
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	op := OpMovem
	if regToMem {
		return Instruction{Op: op, Size: sz, Dst: ea, Mask: mask, Long: false}, nil
	}
	return Instruction{Op: op, Size: sz, Src: ea, Mask: mask, Long: true}, nil
}

// --- group 5: ADDQ/SUBQ/Scc/DBcc ------------------------------------------

func decodeGroup5(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)
	sizeBits := (w >> 6) & 3

	if sizeBits == 3 {
		cond := uint8(w>>8) & 0xf
		if mode == 1 {
			disp, err := c.word()
			if err != nil {
				return Instruction{}, err
			}
			return Instruction{Op: OpDBcc, Cond: cond, Reg: reg, Disp: int32(int16(disp))}, nil
		}
		ea, err := decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpScc, Cond: cond, Dst: ea}, nil
	}

	sz, ok := opSizeFromBits(sizeBits)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	data := uint32(w>>9) & 7
	if data == 0 {
		data = 8
	}
	op := OpAddQ
	if w&0x0100 != 0 {
		op = OpSubQ
	}
	return Instruction{Op: op, Size: sz, Dst: ea, Count: data}, nil
}

// --- group 6: Bcc/BRA/BSR --------------------------------------------------

func decodeBranch(c *cursor, addr uint32, w uint16) (Instruction, error) {
	cond := uint8(w>>8) & 0xf
	disp := int32(int8(w & 0xff))
	if disp == 0 {
		v, err := c.word()
		if err != nil {
			return Instruction{}, err
		}
		disp = int32(int16(v))
	} else if disp == -1 {
		v, err := c.long()
		if err != nil {
			return Instruction{}, err
		}
		disp = int32(v)
	}
	switch cond {
	case 0:
		return Instruction{Op: OpBra, Disp: disp}, nil
	case 1:
		return Instruction{Op: OpBsr, Disp: disp}, nil
	default:
		return Instruction{Op: OpBcc, Cond: cond, Disp: disp}, nil
	}
}

// --- group 7: MOVEQ --------------------------------------------------------

func decodeMoveQ(c *cursor, addr uint32, w uint16) (Instruction, error) {
	if w&0x0100 != 0 {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	reg := int(w>>9) & 7
	data := int32(int8(w & 0xff))
	return Instruction{Op: OpMoveQ, Reg: reg, Disp: data, Size: Long}, nil
}

// --- group 8: OR / DIVU / DIVS / SBCD --------------------------------------

func decodeGroup8(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)
	dreg := int(w>>9) & 7
	opmode := (w >> 6) & 7

	switch opmode {
	case 3:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpDivU, Size: Word, Src: ea, Reg: dreg}, nil
	case 7:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpDivS, Size: Word, Src: ea, Reg: dreg}, nil
	}

	if w&0x01f0 == 0x0100 {
		return Instruction{Op: OpSbcd, Reg: dreg, Reg2: reg, Long: w&0x0008 != 0}, nil
	}

	sz, ok := opSizeFromBits(opmode & 3)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	toMemory := opmode&4 != 0
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if toMemory {
		return Instruction{Op: OpOr, Size: sz, Src: EA{Mode: ModeDataReg, Reg: dreg}, Dst: ea}, nil
	}
	return Instruction{Op: OpOr, Size: sz, Src: ea, Dst: EA{Mode: ModeDataReg, Reg: dreg}}, nil
}

// --- shared ADD/SUB family (groups 9/D) -----------------------------------

func decodeAddSubFamily(c *cursor, addr uint32, w uint16, plain, addr68, extended Op) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)
	dreg := int(w>>9) & 7
	opmode := (w >> 6) & 7

	if opmode == 3 || opmode == 7 {
		sz := Word
		if opmode == 7 {
			sz = Long
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: addr68, Size: sz, Src: ea, Reg: dreg}, nil
	}

	if (mode == 0 || mode == 1) && opmode&4 != 0 {
		if isExtendedForm(w) {
			sz, ok := opSizeFromBits(opmode & 3)
			if !ok {
				return Instruction{}, &DecodeError{Address: addr, Word: w}
			}
			preDec := mode == 1
			srcMode := ModeDataReg
			if preDec {
				srcMode = ModePreDec
			}
			return Instruction{
				Op:   extended,
				Size: sz,
				Src:  EA{Mode: srcMode, Reg: reg},
				Dst:  EA{Mode: srcMode, Reg: dreg},
			}, nil
		}
	}

	sz, ok := opSizeFromBits(opmode & 3)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	toMemory := opmode&4 != 0
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if toMemory {
		return Instruction{Op: plain, Size: sz, Src: EA{Mode: ModeDataReg, Reg: dreg}, Dst: ea}, nil
	}
	return Instruction{Op: plain, Size: sz, Src: ea, Dst: EA{Mode: ModeDataReg, Reg: dreg}}, nil
}

// isExtendedForm distinguishes ADDX/SUBX's Dn,Dn and -(Ay),-(Ax) forms from
// the plain memory-destination forms, both of which share mode bits 000/001.
func isExtendedForm(w uint16) bool {
	return w&0x0030 == 0
}

// --- group 9 handled via decodeAddSubFamily(OpSub,...) in decodeWord ----

// --- group B: CMP/CMPA/CMPM/EOR --------------------------------------------

func decodeGroupB(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)
	dreg := int(w>>9) & 7
	opmode := (w >> 6) & 7

	if opmode == 3 || opmode == 7 {
		sz := Word
		if opmode == 7 {
			sz = Long
		}
		ea, err := decodeEA(c, mode, reg, sz)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpCmpA, Size: sz, Src: ea, Reg: dreg}, nil
	}

	if opmode&4 != 0 && mode == 1 {
		sz, ok := opSizeFromBits(opmode & 3)
		if !ok {
			return Instruction{}, &DecodeError{Address: addr, Word: w}
		}
		return Instruction{
			Op:   OpCmpM,
			Size: sz,
			Src:  EA{Mode: ModePostInc, Reg: reg},
			Dst:  EA{Mode: ModePostInc, Reg: dreg},
		}, nil
	}

	sz, ok := opSizeFromBits(opmode & 3)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if opmode&4 != 0 {
		return Instruction{Op: OpEor, Size: sz, Src: EA{Mode: ModeDataReg, Reg: dreg}, Dst: ea}, nil
	}
	return Instruction{Op: OpCmp, Size: sz, Src: ea, Dst: EA{Mode: ModeDataReg, Reg: dreg}}, nil
}

// --- group C: AND / MULU / MULS / ABCD / EXG / CAS / CAS2 ------------------

func decodeGroupC(c *cursor, addr uint32, w uint16) (Instruction, error) {
	mode := int(w>>3) & 7
	reg := int(w & 7)
	dreg := int(w>>9) & 7
	opmode := (w >> 6) & 7

	switch opmode {
	case 3:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMulU, Size: Word, Src: ea, Reg: dreg}, nil
	case 7:
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpMulS, Size: Word, Src: ea, Reg: dreg}, nil
	}

	if w&0x01f0 == 0x0100 {
		return Instruction{Op: OpAbcd, Reg: dreg, Reg2: reg, Long: w&0x0008 != 0}, nil
	}
	if w&0x01f8 == 0x0140 {
		return Instruction{Op: OpExg, Reg: dreg, Reg2: reg}, nil // Dx,Dy
	}
	if w&0x01f8 == 0x0148 {
		return Instruction{Op: OpExg, Reg: dreg, Reg2: reg, Long: true}, nil // Ax,Ay
	}
	if w&0x01f8 == 0x0188 {
		return Instruction{Op: OpExg, Reg: dreg, Reg2: reg, Mask: 1}, nil // Dx,Ay

	}

	sz, ok := opSizeFromBits(opmode & 3)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	toMemory := opmode&4 != 0
	ea, err := decodeEA(c, mode, reg, sz)
	if err != nil {
		return Instruction{}, err
	}
	if toMemory {
		return Instruction{Op: OpAnd, Size: sz, Src: EA{Mode: ModeDataReg, Reg: dreg}, Dst: ea}, nil
	}
	return Instruction{Op: OpAnd, Size: sz, Src: ea, Dst: EA{Mode: ModeDataReg, Reg: dreg}}, nil
}

// --- group E: shift/rotate --------------------------------------------------

func decodeGroupE(c *cursor, addr uint32, w uint16) (Instruction, error) {
	if w&0x00c0 == 0x00c0 {
		mode := int(w>>3) & 7
		reg := int(w & 7)

		if mode == 0 || mode >= 2 {
			return decodeBitField(c, addr, w, mode, reg)
		}

		// Memory shift form: 1110 ooo1 11MMM rrr, single-bit count, word size.
		opField := (w >> 9) & 3
		dir := w&0x0100 != 0
		ea, err := decodeEA(c, mode, reg, Word)
		if err != nil {
			return Instruction{}, err
		}
		op := memShiftOp(opField, dir)
		return Instruction{Op: op, Size: Word, Dst: ea, Count: 1}, nil
	}

	reg := int(w & 7)
	sizeBits := (w >> 6) & 3
	sz, ok := opSizeFromBits(sizeBits)
	if !ok {
		return Instruction{}, &DecodeError{Address: addr, Word: w}
	}
	opField := (w >> 3) & 3
	dir := w&0x0100 != 0
	op := memShiftOp(opField, dir)

	inst := Instruction{Op: op, Size: sz, Dst: EA{Mode: ModeDataReg, Reg: reg}}
	if w&0x0020 != 0 {
		inst.UseCountReg = true
		inst.CountReg = int(w>>9) & 7
	} else {
		count := uint32(w>>9) & 7
		if count == 0 {
			count = 8
		}
		inst.Count = count
	}
	return inst, nil
}

var bitFieldOps = [8]Op{OpBFTST, OpBFEXTU, OpBFCHG, OpBFEXTS, OpBFCLR, OpBFFFO, OpBFSET, OpBFINS}

// decodeBitField decodes a 68020 bit-field instruction. The EA (mode/reg)
// selects a data register (mode 0) or a memory base address; the following
// extension word carries the offset/width fields, each either a 5-bit
// immediate or a register number (spec §4.2's "bit 0 is the MSB" family).
func decodeBitField(c *cursor, addr uint32, w uint16, mode, reg int) (Instruction, error) {
	opIdx := (w >> 8) & 7
	op := bitFieldOps[opIdx]

	var dst EA
	if mode == 0 {
		dst = EA{Mode: ModeDataReg, Reg: reg}
	} else {
		var err error
		dst, err = decodeEA(c, mode, reg, Byte)
		if err != nil {
			return Instruction{}, err
		}
	}

	ext, err := c.word()
	if err != nil {
		return Instruction{}, err
	}

	inst := Instruction{Op: op, Dst: dst}
	if ext&0x0800 != 0 {
		inst.UseOffsetReg = true
		inst.OffsetReg = int(ext>>8) & 7
	} else {
		inst.Offset = int32(ext>>6) & 0x1f
	}
	if ext&0x0020 != 0 {
		inst.UseWidthReg = true
		inst.WidthReg = int(ext) & 7
	} else {
		inst.Width = uint32(ext) & 0x1f
	}

	// bits 14-12 of the extension word name the Dn used as BFINS's source or
	// as BFEXTU/BFEXTS/BFFFO's destination; BFTST/BFCHG/BFCLR/BFSET ignore it.
	inst.Reg = int(ext>>12) & 7
	_ = addr
	return inst, nil
}

func memShiftOp(opField uint16, left bool) Op {
	switch opField {
	case 0:
		if left {
			return OpASL
		}
		return OpASR
	case 1:
		if left {
			return OpLSL
		}
		return OpLSR
	case 2:
		if left {
			return OpROXL
		}
		return OpROXR
	default:
		if left {
			return OpROL
		}
		return OpROR
	}
}
