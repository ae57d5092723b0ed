package cpu

import "github.com/kbrown/emu68k/internal/decoder"

// execMovem implements MOVEM. Register-to-memory stores walk D0..D7,A0..A7
// in that order except when the destination is predecrement, in which case
// the mask is bit-reversed (bit 0 = A7, bit 15 = D0), registers are stored
// A7..D0, and the effective address walks downward, matching the 68000's
// documented predecrement quirk. Memory-to-
// register loads always walk D0..D7,A0..A7 low bit first.
func (c *CPU) execMovem(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	step := sz.Info().Bytes

	if inst.Long {
		// Memory -> registers.
		op, err := c.resolve(inst.Src, sz, inst.Address)
		if err != nil {
			return err
		}
		addr, hasAddr := op.Addr()
		if !hasAddr {
			return newFault(FaultDecodeError, inst.Address, c.Regs, "MOVEM load on non-memory operand", nil)
		}
		for i := 0; i < 16; i++ {
			if inst.Mask&(1<<uint(i)) == 0 {
				continue
			}
			v, err := c.readMem(addr, sz)
			if err != nil {
				return err
			}
			if i < 8 {
				c.Regs.D[i] = SignExtend(v, sz)
			} else {
				c.Regs.A[i-8] = SignExtend(v, sz)
			}
			addr += step
		}
		if inst.Src.Mode == decoder.ModePostInc {
			c.Regs.A[inst.Src.Reg] = addr
		}
		return nil
	}

	// Registers -> memory.
	if inst.Dst.Mode == decoder.ModePreDec {
		addr := c.Regs.A[inst.Dst.Reg]
		for i := 15; i >= 0; i-- {
			if inst.Mask&(1<<uint(15-i)) == 0 {
				continue
			}
			addr -= step
			var v uint32
			if i < 8 {
				v = c.Regs.D[i]
			} else {
				v = c.Regs.A[i-8]
			}
			if err := c.writeMem(addr, sz, v); err != nil {
				return err
			}
		}
		c.Regs.A[inst.Dst.Reg] = addr
		return nil
	}

	op, err := c.resolve(inst.Dst, sz, inst.Address)
	if err != nil {
		return err
	}
	addr, hasAddr := op.Addr()
	if !hasAddr {
		return newFault(FaultDecodeError, inst.Address, c.Regs, "MOVEM store on non-memory operand", nil)
	}
	for i := 0; i < 16; i++ {
		if inst.Mask&(1<<uint(i)) == 0 {
			continue
		}
		var v uint32
		if i < 8 {
			v = c.Regs.D[i]
		} else {
			v = c.Regs.A[i-8]
		}
		if err := c.writeMem(addr, sz, v); err != nil {
			return err
		}
		addr += step
	}
	return nil
}
