package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execArith(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	switch inst.Op {
	case decoder.OpAdd, decoder.OpAddI:
		return c.binaryRMW(inst, sz, AddWithFlags)
	case decoder.OpSub, decoder.OpSubI:
		return c.binaryRMWSub(inst, sz, SubWithFlags)

	case decoder.OpAddQ:
		qsz := sz
		if inst.Dst.Mode == decoder.ModeAddrReg {
			qsz = Long
		}
		dst, err := c.resolve(inst.Dst, qsz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, qsz)
		if err != nil {
			return err
		}
		result, flags := AddWithFlags(inst.Count, v, qsz)
		if err := dst.Write(c, qsz, result); err != nil {
			return err
		}
		if inst.Dst.Mode != decoder.ModeAddrReg {
			flags.Apply(&c.Regs.SR)
			c.Regs.SR.SetX(flags.X)
		}
		return nil

	case decoder.OpSubQ:
		qsz := sz
		if inst.Dst.Mode == decoder.ModeAddrReg {
			qsz = Long
		}
		dst, err := c.resolve(inst.Dst, qsz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, qsz)
		if err != nil {
			return err
		}
		result, flags := SubWithFlags(v, inst.Count, qsz)
		if err := dst.Write(c, qsz, result); err != nil {
			return err
		}
		if inst.Dst.Mode != decoder.ModeAddrReg {
			flags.Apply(&c.Regs.SR)
			c.Regs.SR.SetX(flags.X)
		}
		return nil

	case decoder.OpAddA:
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		c.Regs.A[inst.Reg] += SignExtend(v, sz)
		return nil

	case decoder.OpSubA:
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		c.Regs.A[inst.Reg] -= SignExtend(v, sz)
		return nil

	case decoder.OpAddX:
		return c.execAddX(inst, sz)
	case decoder.OpSubX:
		return c.execSubX(inst, sz)

	case decoder.OpNeg:
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, sz)
		if err != nil {
			return err
		}
		result, flags := SubWithFlags(0, v, sz)
		if err := dst.Write(c, sz, result); err != nil {
			return err
		}
		flags.Apply(&c.Regs.SR)
		c.Regs.SR.SetX(flags.X)
		return nil

	case decoder.OpNegX:
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, sz)
		if err != nil {
			return err
		}
		result, flags := SubXWithFlags(0, v, c.Regs.SR.X(), sz, c.Regs.SR.Z())
		if err := dst.Write(c, sz, result); err != nil {
			return err
		}
		flags.Apply(&c.Regs.SR)
		c.Regs.SR.SetX(flags.X)
		return nil

	case decoder.OpCmp, decoder.OpCmpI:
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
		CmpWithFlags(dv, sv, sz).Apply(&c.Regs.SR)
		return nil

	case decoder.OpCmpA:
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		sv, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		CmpWithFlags(c.Regs.A[inst.Reg], SignExtend(sv, sz), Long).Apply(&c.Regs.SR)
		return nil

	case decoder.OpCmpM:
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
		CmpWithFlags(dv, sv, sz).Apply(&c.Regs.SR)
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execArith: unreachable op", nil)
}

// binaryRMW implements ADD/ADDI: dst = dst + src, flags applied including X.
func (c *CPU) binaryRMW(inst decoder.Instruction, sz Size, op func(a, b uint32, s Size) (uint32, Flags)) error {
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
	result, flags := op(sv, dv, sz)
	if err := dst.Write(c, sz, result); err != nil {
		return err
	}
	flags.Apply(&c.Regs.SR)
	c.Regs.SR.SetX(flags.X)
	return nil
}

// binaryRMWSub implements SUB/SUBI: dst = dst - src.
func (c *CPU) binaryRMWSub(inst decoder.Instruction, sz Size, op func(a, b uint32, s Size) (uint32, Flags)) error {
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
	result, flags := op(dv, sv, sz)
	if err := dst.Write(c, sz, result); err != nil {
		return err
	}
	flags.Apply(&c.Regs.SR)
	c.Regs.SR.SetX(flags.X)
	return nil
}

func (c *CPU) execAddX(inst decoder.Instruction, sz Size) error {
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
	result, flags := AddXWithFlags(sv, dv, c.Regs.SR.X(), sz, c.Regs.SR.Z())
	if err := dst.Write(c, sz, result); err != nil {
		return err
	}
	flags.Apply(&c.Regs.SR)
	c.Regs.SR.SetX(flags.X)
	return nil
}

func (c *CPU) execSubX(inst decoder.Instruction, sz Size) error {
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
	result, flags := SubXWithFlags(dv, sv, c.Regs.SR.X(), sz, c.Regs.SR.Z())
	if err := dst.Write(c, sz, result); err != nil {
		return err
	}
	flags.Apply(&c.Regs.SR)
	c.Regs.SR.SetX(flags.X)
	return nil
}
