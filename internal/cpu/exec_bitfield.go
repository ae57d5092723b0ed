package cpu

import "github.com/kbrown/emu68k/internal/decoder"

// bitFieldTarget resolves a decoded bit-field EA (register or memory form)
// into either a register-operand path or a MemoryFieldOp, folding dynamic
// offset/width registers in along the way.
func (c *CPU) bitFieldTarget(inst decoder.Instruction) (isReg bool, reg int, mem MemoryFieldOp, err error) {
	offset := inst.Offset
	if inst.UseOffsetReg {
		offset = int32(c.Regs.D[inst.OffsetReg])
	}
	width := inst.Width
	if inst.UseWidthReg {
		width = c.Regs.D[inst.WidthReg] & 0x1f
	}

	if inst.Dst.Mode == decoder.ModeDataReg {
		return true, inst.Dst.Reg, MemoryFieldOp{}, nil
	}

	op, e := c.resolve(inst.Dst, Byte, inst.Address)
	if e != nil {
		return false, 0, MemoryFieldOp{}, e
	}
	addr, ok := op.Addr()
	if !ok {
		return false, 0, MemoryFieldOp{}, newFault(FaultDecodeError, inst.Address, c.Regs, "bit field on non-memory, non-register EA", nil)
	}
	return false, 0, MemoryFieldOp{Base: addr, Offset: offset, Width: width}, nil
}

func (c *CPU) execBitField(inst decoder.Instruction) error {
	isReg, reg, mem, err := c.bitFieldTarget(inst)
	if err != nil {
		return err
	}

	offset := inst.Offset
	if inst.UseOffsetReg {
		offset = int32(c.Regs.D[inst.OffsetReg])
	}
	width := inst.Width
	if inst.UseWidthReg {
		width = c.Regs.D[inst.WidthReg] & 0x1f
	}

	readField := func() (uint32, error) {
		if isReg {
			return RegisterField(c.Regs.D[reg], uint32(offset), width), nil
		}
		return ReadField(c.Mem, mem)
	}
	writeField := func(value uint32) error {
		if isReg {
			c.Regs.D[reg] = RegisterFieldInsert(c.Regs.D[reg], uint32(offset), width, value)
			return nil
		}
		return WriteField(c.Mem, mem, value)
	}

	switch inst.Op {
	case decoder.OpBFTST, decoder.OpBFCHG, decoder.OpBFCLR, decoder.OpBFSET:
		field, err := readField()
		if err != nil {
			return err
		}
		msb, isZero := FieldMSBAndZero(field, width)
		Flags{N: msb, Z: isZero, V: false, C: false}.Apply(&c.Regs.SR)
		switch inst.Op {
		case decoder.OpBFTST:
			return nil
		case decoder.OpBFCHG:
			return writeField(^field & fieldMask(width))
		case decoder.OpBFCLR:
			return writeField(0)
		case decoder.OpBFSET:
			return writeField(fieldMask(width))
		}
		return nil

	case decoder.OpBFEXTU:
		field, err := readField()
		if err != nil {
			return err
		}
		c.Regs.D[inst.Reg] = field
		msb, isZero := FieldMSBAndZero(field, width)
		Flags{N: msb, Z: isZero, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpBFEXTS:
		field, err := readField()
		if err != nil {
			return err
		}
		w := normalizeWidth(width)
		extended := field
		if field&(1<<(w-1)) != 0 {
			extended |= ^fieldMask(width)
		}
		c.Regs.D[inst.Reg] = extended
		Flags{N: int32(extended) < 0, Z: extended == 0, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpBFFFO:
		field, err := readField()
		if err != nil {
			return err
		}
		msb, isZero := FieldMSBAndZero(field, width)
		Flags{N: msb, Z: isZero, V: false, C: false}.Apply(&c.Regs.SR)
		pos := FindFirstSetFromMSB(field, width)
		c.Regs.D[inst.Reg] = uint32(offset) + pos
		return nil

	case decoder.OpBFINS:
		value := c.Regs.D[inst.Reg] & fieldMask(width)
		if err := writeField(value); err != nil {
			return err
		}
		msb, isZero := FieldMSBAndZero(value, width)
		Flags{N: msb, Z: isZero, V: false, C: false}.Apply(&c.Regs.SR)
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execBitField: unreachable op", nil)
}

func fieldMask(width uint32) uint32 {
	w := normalizeWidth(width)
	if w == 32 {
		return 0xffffffff
	}
	return (uint32(1) << w) - 1
}
