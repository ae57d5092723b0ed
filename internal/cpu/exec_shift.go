package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execShift(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	count := inst.Count
	if inst.UseCountReg {
		count = c.Regs.D[inst.CountReg] % 64
	}

	dst, err := c.resolve(inst.Dst, sz, inst.Address)
	if err != nil {
		return err
	}
	v, err := dst.Read(c, sz)
	if err != nil {
		return err
	}

	var result uint32
	var carry, overflow bool
	var touchesX, isExtend bool

	switch inst.Op {
	case decoder.OpASL:
		result, carry, overflow = ShiftLeftArithmetic(v, count, sz)
		touchesX = true
	case decoder.OpASR:
		result, carry = ShiftRightArithmetic(v, count, sz)
		touchesX = true
	case decoder.OpLSL:
		result, carry = ShiftLeftLogical(v, count, sz)
		touchesX = true
	case decoder.OpLSR:
		result, carry = ShiftRightLogical(v, count, sz)
		touchesX = true
	case decoder.OpROL:
		result, carry = RotateLeft(v, count, sz)
	case decoder.OpROR:
		result, carry = RotateRight(v, count, sz)
	case decoder.OpROXL:
		result, carry = RotateLeftExtend(v, count, c.Regs.SR.X(), sz)
		isExtend = true
	case decoder.OpROXR:
		result, carry = RotateRightExtend(v, count, c.Regs.SR.X(), sz)
		isExtend = true
	default:
		return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execShift: unreachable op", nil)
	}

	if err := dst.Write(c, sz, result); err != nil {
		return err
	}

	if count == 0 && touchesX {
		Flags{N: int32(SignExtend(result, sz)) < 0, Z: result == 0, V: false, C: false}.Apply(&c.Regs.SR)
		return nil
	}

	Flags{N: int32(SignExtend(result, sz)) < 0, Z: result == 0, V: overflow, C: carry}.Apply(&c.Regs.SR)
	if touchesX || isExtend {
		c.Regs.SR.SetX(carry)
	}
	return nil
}
