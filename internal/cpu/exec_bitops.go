package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execBitOps(inst decoder.Instruction) error {
	sz := toSize(inst.Size)
	dst, err := c.resolve(inst.Dst, sz, inst.Address)
	if err != nil {
		return err
	}
	v, err := dst.Read(c, sz)
	if err != nil {
		return err
	}

	bitNum := inst.Count
	if inst.UseCountReg {
		bitNum = c.Regs.D[inst.CountReg]
	}
	bitNum %= sz.Info().Bits

	bit := (v >> bitNum) & 1
	c.Regs.SR.SetZ(bit == 0)

	var newV uint32
	switch inst.Op {
	case decoder.OpBTST:
		return nil
	case decoder.OpBCHG:
		newV = v ^ (1 << bitNum)
	case decoder.OpBCLR:
		newV = v &^ (1 << bitNum)
	case decoder.OpBSET:
		newV = v | (1 << bitNum)
	default:
		return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execBitOps: unreachable op", nil)
	}
	return dst.Write(c, sz, newV)
}
