package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execControl(inst decoder.Instruction) error {
	switch inst.Op {
	case decoder.OpBra:
		c.Regs.PC = uint32(int64(inst.Address) + 2 + int64(inst.Disp))
		return nil

	case decoder.OpBsr:
		target := uint32(int64(inst.Address) + 2 + int64(inst.Disp))
		c.Regs.A[7] -= 4
		if err := wrapMemErr(c, c.Regs.A[7], c.Mem.WriteLong(c.Regs.A[7], c.Regs.PC)); err != nil {
			return err
		}
		c.Regs.PC = target
		return nil

	case decoder.OpBcc:
		if conditionTrue(c.Regs.SR, inst.Cond) {
			c.Regs.PC = uint32(int64(inst.Address) + 2 + int64(inst.Disp))
		}
		return nil

	case decoder.OpDBcc:
		if conditionTrue(c.Regs.SR, inst.Cond) {
			return nil
		}
		v := c.Regs.GetData(inst.Reg, Word)
		v = (v - 1) & 0xffff
		c.Regs.SetData(inst.Reg, Word, v)
		if int16(v) != -1 {
			c.Regs.PC = uint32(int64(inst.Address) + 2 + int64(inst.Disp))
		}
		return nil

	case decoder.OpScc:
		dst, err := c.resolve(inst.Dst, Byte, inst.Address)
		if err != nil {
			return err
		}
		if conditionTrue(c.Regs.SR, inst.Cond) {
			return dst.Write(c, Byte, 0xff)
		}
		return dst.Write(c, Byte, 0)

	case decoder.OpJsr:
		op, err := c.resolve(inst.Src, Long, inst.Address)
		if err != nil {
			return err
		}
		target, ok := op.Addr()
		if !ok {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "JSR on non-memory operand", nil)
		}
		c.Regs.A[7] -= 4
		if err := wrapMemErr(c, c.Regs.A[7], c.Mem.WriteLong(c.Regs.A[7], c.Regs.PC)); err != nil {
			return err
		}
		c.Regs.PC = target
		return nil

	case decoder.OpJmp:
		op, err := c.resolve(inst.Src, Long, inst.Address)
		if err != nil {
			return err
		}
		target, ok := op.Addr()
		if !ok {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "JMP on non-memory operand", nil)
		}
		c.Regs.PC = target
		return nil

	case decoder.OpRts:
		v, err := c.Mem.ReadLong(c.Regs.A[7])
		if err != nil {
			return wrapMemErr(c, c.Regs.A[7], err)
		}
		c.Regs.A[7] += 4
		c.Regs.PC = v
		return nil

	case decoder.OpRtd:
		v, err := c.Mem.ReadLong(c.Regs.A[7])
		if err != nil {
			return wrapMemErr(c, c.Regs.A[7], err)
		}
		c.Regs.A[7] += 4 + uint32(inst.Disp)
		c.Regs.PC = v
		return nil

	case decoder.OpLink:
		c.Regs.A[7] -= 4
		if err := wrapMemErr(c, c.Regs.A[7], c.Mem.WriteLong(c.Regs.A[7], c.Regs.A[inst.Reg])); err != nil {
			return err
		}
		c.Regs.A[inst.Reg] = c.Regs.A[7]
		c.Regs.A[7] = uint32(int64(c.Regs.A[7]) + int64(inst.Disp))
		return nil

	case decoder.OpUnlk:
		c.Regs.A[7] = c.Regs.A[inst.Reg]
		v, err := c.Mem.ReadLong(c.Regs.A[7])
		if err != nil {
			return wrapMemErr(c, c.Regs.A[7], err)
		}
		c.Regs.A[7] += 4
		c.Regs.A[inst.Reg] = v
		return nil

	case decoder.OpChk:
		sz := toSize(inst.Size)
		src, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		bound, err := src.Read(c, sz)
		if err != nil {
			return err
		}
		v := int32(SignExtend(c.Regs.GetData(inst.Reg, sz), sz))
		if v < 0 || v > int32(SignExtend(bound, sz)) {
			return newFault(FaultBoundsCheck, inst.Address, c.Regs, "CHK bounds exceeded", nil)
		}
		return nil

	case decoder.OpChk2:
		sz := toSize(inst.Size)
		op, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		addr, ok := op.Addr()
		if !ok {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "CHK2 on non-memory operand", nil)
		}
		lo, err := c.readMem(addr, sz)
		if err != nil {
			return err
		}
		hi, err := c.readMem(addr+sz.Info().Bytes, sz)
		if err != nil {
			return err
		}
		var v int64
		if inst.Long {
			v = int64(c.Regs.A[inst.Reg])
		} else {
			v = int64(int32(SignExtend(c.Regs.GetData(inst.Reg, sz), sz)))
		}
		loS := int64(int32(SignExtend(lo, sz)))
		hiS := int64(int32(SignExtend(hi, sz)))
		inRange := v >= loS && v <= hiS
		c.Regs.SR.SetC(!inRange)
		if !inRange {
			return newFault(FaultBoundsCheck, inst.Address, c.Regs, "CHK2 bounds exceeded", nil)
		}
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execControl: unreachable op", nil)
}
