package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execLogic(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	switch inst.Op {
	case decoder.OpAnd, decoder.OpAndI:
		return c.logicRMW(inst, sz, func(a, b uint32) uint32 { return a & b })
	case decoder.OpOr, decoder.OpOrI:
		return c.logicRMW(inst, sz, func(a, b uint32) uint32 { return a | b })
	case decoder.OpEor, decoder.OpEorI:
		return c.logicRMW(inst, sz, func(a, b uint32) uint32 { return a ^ b })

	case decoder.OpNot:
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, sz)
		if err != nil {
			return err
		}
		result := (^v) & sz.Info().Mask
		if err := dst.Write(c, sz, result); err != nil {
			return err
		}
		Flags{N: int32(SignExtend(result, sz)) < 0, Z: result == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpAndiToCCR:
		c.Regs.SR = (c.Regs.SR &^ 0x1f) | (c.Regs.SR & SR(inst.Src.Imm) & 0x1f)
		return nil
	case decoder.OpOriToCCR:
		c.Regs.SR |= SR(inst.Src.Imm) & 0x1f
		return nil
	case decoder.OpEoriToCCR:
		c.Regs.SR ^= SR(inst.Src.Imm) & 0x1f
		return nil
	case decoder.OpAndiToSR:
		c.Regs.SR &= SR(inst.Src.Imm)
		return nil
	case decoder.OpOriToSR:
		c.Regs.SR |= SR(inst.Src.Imm)
		return nil
	case decoder.OpEoriToSR:
		c.Regs.SR ^= SR(inst.Src.Imm)
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execLogic: unreachable op", nil)
}

func (c *CPU) logicRMW(inst decoder.Instruction, sz Size, op func(a, b uint32) uint32) error {
	src, err := c.resolve(inst.Src, sz, inst.Address)
	if err != nil {
		return err
	}
	sv, err := src.Read(c, sz)
	if err != nil {
		return err
	}
	dst, err := c.resolve(inst.Dst, sz, inst.Address)
	if err != nil {
		return err
	}
	dv, err := dst.Read(c, sz)
	if err != nil {
		return err
	}
	result := op(sv, dv) & sz.Info().Mask
	if err := dst.Write(c, sz, result); err != nil {
		return err
	}
	Flags{N: int32(SignExtend(result, sz)) < 0, Z: result == 0}.Apply(&c.Regs.SR)
	return nil
}
