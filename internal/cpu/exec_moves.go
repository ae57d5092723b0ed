package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execMoves(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	switch inst.Op {
	case decoder.OpMove:
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		if err := dst.Write(c, sz, v); err != nil {
			return err
		}
		Flags{N: int32(SignExtend(v, sz)) < 0, Z: v == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpMoveA:
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		c.Regs.SetAddrSized(inst.Dst.Reg, sz, v)
		return nil

	case decoder.OpMoveQ:
		v := uint32(inst.Disp)
		c.Regs.SetData(inst.Reg, Long, v)
		Flags{N: int32(v) < 0, Z: v == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpClr:
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		if err := dst.Write(c, sz, 0); err != nil {
			return err
		}
		Flags{N: false, Z: true, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpTst:
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		v, err := dst.Read(c, sz)
		if err != nil {
			return err
		}
		Flags{N: int32(SignExtend(v, sz)) < 0, Z: v == 0, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpLea:
		op, err := c.resolve(inst.Src, Long, inst.Address)
		if err != nil {
			return err
		}
		addr, ok := op.Addr()
		if !ok {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "LEA on non-memory operand", nil)
		}
		c.Regs.A[inst.Reg] = addr
		return nil

	case decoder.OpPea:
		op, err := c.resolve(inst.Src, Long, inst.Address)
		if err != nil {
			return err
		}
		addr, ok := op.Addr()
		if !ok {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "PEA on non-memory operand", nil)
		}
		c.Regs.A[7] -= 4
		return wrapMemErr(c, c.Regs.A[7], c.Mem.WriteLong(c.Regs.A[7], addr))

	case decoder.OpExg:
		a, b := inst.Reg, inst.Reg2
		switch {
		case inst.Mask == 1: // Dx,Ay
			c.Regs.D[a], c.Regs.A[b] = c.Regs.A[b], c.Regs.D[a]
		case inst.Long: // Ax,Ay
			c.Regs.A[a], c.Regs.A[b] = c.Regs.A[b], c.Regs.A[a]
		default: // Dx,Dy
			c.Regs.D[a], c.Regs.D[b] = c.Regs.D[b], c.Regs.D[a]
		}
		return nil

	case decoder.OpSwap:
		v := c.Regs.D[inst.Reg]
		v = (v << 16) | (v >> 16)
		c.Regs.D[inst.Reg] = v
		Flags{N: int32(v) < 0, Z: v == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpExt:
		if inst.Long {
			v := SignExtend(c.Regs.D[inst.Reg]&0xff, Byte)
			c.Regs.SetData(inst.Reg, Long, v)
			Flags{N: int32(v) < 0, Z: v == 0}.Apply(&c.Regs.SR)
			return nil
		}
		if inst.Size == decoder.Word {
			v := SignExtend(c.Regs.D[inst.Reg]&0xff, Byte)
			c.Regs.SetData(inst.Reg, Word, v)
			Flags{N: int16(v) < 0, Z: v&0xffff == 0}.Apply(&c.Regs.SR)
			return nil
		}
		v := SignExtend(c.Regs.D[inst.Reg]&0xffff, Word)
		c.Regs.SetData(inst.Reg, Long, v)
		Flags{N: int32(v) < 0, Z: v == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpMoveToCCR:
		src, err := c.resolve(inst.Src, Byte, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, Byte)
		if err != nil {
			return err
		}
		c.Regs.SR = (c.Regs.SR &^ 0x1f) | SR(v&0x1f)
		return nil

	case decoder.OpMoveToSR:
		src, err := c.resolve(inst.Src, Word, inst.Address)
		if err != nil {
			return err
		}
		v, err := src.Read(c, Word)
		if err != nil {
			return err
		}
		c.Regs.SR = SR(v)
		return nil

	case decoder.OpMoveFromSR:
		dst, err := c.resolve(inst.Dst, Word, inst.Address)
		if err != nil {
			return err
		}
		return dst.Write(c, Word, uint32(c.Regs.SR))

	case decoder.OpMoveUSP:
		// No supervisor/user split is modeled; USP reads/writes alias A7.
		if inst.Long {
			c.Regs.A[inst.Reg] = c.Regs.A[7]
		} else {
			c.Regs.A[7] = c.Regs.A[inst.Reg]
		}
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execMoves: unreachable op", nil)
}
