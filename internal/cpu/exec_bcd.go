package cpu

import "github.com/kbrown/emu68k/internal/decoder"

// execBCD implements ABCD/SBCD. Both forms read and write a single byte,
// either Dn,Dn or -(Ax),-(Ay) depending on inst.Long (reused here as the
// predecrement-form flag; decode sets it from the instruction's R/M bit).
func (c *CPU) execBCD(inst decoder.Instruction) error {
	srcMode := decoder.EA{Mode: decoder.ModeDataReg, Reg: inst.Reg2}
	dstMode := decoder.EA{Mode: decoder.ModeDataReg, Reg: inst.Reg}
	if inst.Long {
		srcMode = decoder.EA{Mode: decoder.ModePreDec, Reg: inst.Reg2}
		dstMode = decoder.EA{Mode: decoder.ModePreDec, Reg: inst.Reg}
	}

	src, err := c.resolve(srcMode, Byte, inst.Address)
	if err != nil {
		return err
	}
	sv, err := src.Read(c, Byte)
	if err != nil {
		return err
	}
	dst, err := c.resolve(dstMode, Byte, inst.Address)
	if err != nil {
		return err
	}
	dv, err := dst.Read(c, Byte)
	if err != nil {
		return err
	}

	var result uint8
	var carry bool
	switch inst.Op {
	case decoder.OpAbcd:
		result, carry = AddBCD(uint8(sv), uint8(dv), c.Regs.SR.X())
	case decoder.OpSbcd:
		result, carry = SubBCD(uint8(dv), uint8(sv), c.Regs.SR.X())
	default:
		return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execBCD: unreachable op", nil)
	}

	if err := dst.Write(c, Byte, uint32(result)); err != nil {
		return err
	}
	c.Regs.SR.SetX(carry)
	c.Regs.SR.SetC(carry)
	if result != 0 {
		c.Regs.SR.SetZ(false)
	}
	return nil
}
