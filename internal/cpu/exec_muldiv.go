package cpu

import "github.com/kbrown/emu68k/internal/decoder"

func (c *CPU) execMulDiv(inst decoder.Instruction) error {
	switch inst.Op {
	case decoder.OpMulU:
		src, err := c.resolve(inst.Src, Word, inst.Address)
		if err != nil {
			return err
		}
		sv, err := src.Read(c, Word)
		if err != nil {
			return err
		}
		dv := c.Regs.GetData(inst.Reg, Word)
		result := sv * dv
		c.Regs.SetData(inst.Reg, Long, result)
		Flags{N: int32(result) < 0, Z: result == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpMulS:
		src, err := c.resolve(inst.Src, Word, inst.Address)
		if err != nil {
			return err
		}
		sv, err := src.Read(c, Word)
		if err != nil {
			return err
		}
		dv := c.Regs.GetData(inst.Reg, Word)
		result := uint32(int32(int16(sv)) * int32(int16(dv)))
		c.Regs.SetData(inst.Reg, Long, result)
		Flags{N: int32(result) < 0, Z: result == 0}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpDivU:
		src, err := c.resolve(inst.Src, Word, inst.Address)
		if err != nil {
			return err
		}
		divisor, err := src.Read(c, Word)
		if err != nil {
			return err
		}
		if divisor == 0 {
			return newFault(FaultDivisionByZero, inst.Address, c.Regs, "DIVU by zero", nil)
		}
		dividend := c.Regs.D[inst.Reg]
		quotient := dividend / divisor
		if quotient > 0xffff {
			c.Regs.SR.SetV(true)
			return nil
		}
		remainder := dividend % divisor
		c.Regs.D[inst.Reg] = (remainder << 16) | (quotient & 0xffff)
		Flags{N: int16(quotient) < 0, Z: quotient == 0, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpDivS:
		src, err := c.resolve(inst.Src, Word, inst.Address)
		if err != nil {
			return err
		}
		divisorW, err := src.Read(c, Word)
		if err != nil {
			return err
		}
		divisor := int32(int16(divisorW))
		if divisor == 0 {
			return newFault(FaultDivisionByZero, inst.Address, c.Regs, "DIVS by zero", nil)
		}
		dividend := int32(c.Regs.D[inst.Reg])
		quotient := dividend / divisor
		if quotient > 32767 || quotient < -32768 {
			c.Regs.SR.SetV(true)
			return nil
		}
		remainder := dividend % divisor
		c.Regs.D[inst.Reg] = (uint32(remainder) << 16) | (uint32(quotient) & 0xffff)
		Flags{N: quotient < 0, Z: quotient == 0, V: false, C: false}.Apply(&c.Regs.SR)
		return nil

	case decoder.OpMulUL:
		return c.execMulL(inst, false)
	case decoder.OpMulSL:
		return c.execMulL(inst, true)
	case decoder.OpDivUL:
		return c.execDivL(inst, false)
	case decoder.OpDivSL:
		return c.execDivL(inst, true)
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execMulDiv: unreachable op", nil)
}

// execMulL implements MULU.L/MULS.L. inst.Reg is Dl (the low/sole result
// register), inst.Reg2 is Dh (the high half of a 64-bit product), and
// inst.Long is the is_64bit flag selecting the 64-bit Dh:Dl form.
func (c *CPU) execMulL(inst decoder.Instruction, signed bool) error {
	src, err := c.resolve(inst.Src, Long, inst.Address)
	if err != nil {
		return err
	}
	sv, err := src.Read(c, Long)
	if err != nil {
		return err
	}
	dv := c.Regs.D[inst.Reg]

	if signed {
		product := int64(int32(sv)) * int64(int32(dv))
		if inst.Long {
			hi := uint32(product >> 32)
			lo := uint32(product)
			c.Regs.D[inst.Reg2] = hi
			c.Regs.D[inst.Reg] = lo
			Flags{N: int32(hi) < 0, Z: product == 0}.Apply(&c.Regs.SR)
			return nil
		}
		overflow := product > 2147483647 || product < -2147483648
		if overflow {
			c.Regs.SR.SetV(true)
			return nil
		}
		result := uint32(product)
		c.Regs.D[inst.Reg] = result
		Flags{N: int32(result) < 0, Z: result == 0}.Apply(&c.Regs.SR)
		return nil
	}

	product := uint64(sv) * uint64(dv)
	if inst.Long {
		hi := uint32(product >> 32)
		lo := uint32(product)
		c.Regs.D[inst.Reg2] = hi
		c.Regs.D[inst.Reg] = lo
		Flags{N: int32(hi) < 0, Z: product == 0}.Apply(&c.Regs.SR)
		return nil
	}
	result := uint32(product)
	c.Regs.D[inst.Reg] = result
	Flags{N: int32(result) < 0, Z: result == 0}.Apply(&c.Regs.SR)
	return nil
}

// execDivL implements DIVU.L/DIVS.L. inst.Reg is Dq (the quotient register),
// inst.Reg2 is Dr (the remainder, or high half of the 64-bit dividend when
// inst.Long is set). With inst.Long clear and Dq==Dr the remainder is
// discarded rather than written back.
func (c *CPU) execDivL(inst decoder.Instruction, signed bool) error {
	src, err := c.resolve(inst.Src, Long, inst.Address)
	if err != nil {
		return err
	}
	sv, err := src.Read(c, Long)
	if err != nil {
		return err
	}

	if signed {
		divisor := int64(int32(sv))
		if divisor == 0 {
			return newFault(FaultDivisionByZero, inst.Address, c.Regs, "DIVS.L by zero", nil)
		}
		var dividend int64
		if inst.Long {
			dividend = int64(c.Regs.D[inst.Reg2])<<32 | int64(c.Regs.D[inst.Reg])
		} else {
			dividend = int64(int32(c.Regs.D[inst.Reg]))
		}
		quotient := dividend / divisor
		remainder := dividend % divisor
		if quotient > 2147483647 || quotient < -2147483648 {
			c.Regs.SR.SetV(true)
			return nil
		}
		c.Regs.D[inst.Reg] = uint32(quotient)
		if inst.Long || inst.Reg2 != inst.Reg {
			c.Regs.D[inst.Reg2] = uint32(remainder)
		}
		Flags{N: quotient < 0, Z: quotient == 0}.Apply(&c.Regs.SR)
		return nil
	}

	divisor := uint64(sv)
	if divisor == 0 {
		return newFault(FaultDivisionByZero, inst.Address, c.Regs, "DIVU.L by zero", nil)
	}
	var dividend uint64
	if inst.Long {
		dividend = uint64(c.Regs.D[inst.Reg2])<<32 | uint64(c.Regs.D[inst.Reg])
	} else {
		dividend = uint64(c.Regs.D[inst.Reg])
	}
	quotient := dividend / divisor
	remainder := dividend % divisor
	if quotient > 0xffffffff {
		c.Regs.SR.SetV(true)
		return nil
	}
	c.Regs.D[inst.Reg] = uint32(quotient)
	if inst.Long || inst.Reg2 != inst.Reg {
		c.Regs.D[inst.Reg2] = uint32(remainder)
	}
	Flags{N: int32(quotient) < 0, Z: quotient == 0}.Apply(&c.Regs.SR)
	return nil
}
