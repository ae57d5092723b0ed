package cpu

import "github.com/kbrown/emu68k/internal/decoder"

// execCas implements CAS and CAS2. Single-threaded execution means these
// never race with another core, but guest code written for SMP still
// expects the documented compare-and-swap data flow: on mismatch, the
// compare register is loaded with the current memory value.
func (c *CPU) execCas(inst decoder.Instruction) error {
	switch inst.Op {
	case decoder.OpCas:
		sz := toSize(inst.Size)
		dst, err := c.resolve(inst.Dst, sz, inst.Address)
		if err != nil {
			return err
		}
		current, err := dst.Read(c, sz)
		if err != nil {
			return err
		}
		dc := c.Regs.GetData(inst.Reg, sz)
		CmpWithFlags(current, dc, sz).Apply(&c.Regs.SR)
		if current == dc {
			return dst.Write(c, sz, c.Regs.GetData(inst.Reg2, sz))
		}
		c.Regs.SetData(inst.Reg, sz, current)
		return nil

	case decoder.OpCas2:
		sz := toSize(inst.Size)
		a, err := c.cas2Decode(inst.Count, sz)
		if err != nil {
			return err
		}
		b, err := c.cas2Decode(uint32(inst.Mask), sz)
		if err != nil {
			return err
		}
		both := a.current == a.compare && b.current == b.compare
		c.Regs.SR.SetZ(both)
		if both {
			if err := c.writeMem(a.addr, sz, c.Regs.GetData(a.update, sz)); err != nil {
				return err
			}
			return c.writeMem(b.addr, sz, c.Regs.GetData(b.update, sz))
		}
		c.Regs.SetData(a.compareReg, sz, a.current)
		c.Regs.SetData(b.compareReg, sz, b.current)
		return nil
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execCas: unreachable op", nil)
}

type cas2Operand struct {
	addr                   uint32
	current, compare       uint32
	update, compareReg     int
}

func (c *CPU) cas2Decode(ext uint32, sz Size) (cas2Operand, error) {
	du := int(ext>>12) & 7
	dc := int(ext>>6) & 7
	rn := int(ext) & 7
	var addr uint32
	if ext&0x8000 != 0 {
		addr = c.Regs.A[rn]
	} else {
		addr = c.Regs.D[rn]
	}
	current, err := c.readMem(addr, sz)
	if err != nil {
		return cas2Operand{}, err
	}
	return cas2Operand{
		addr:       addr,
		current:    current,
		compare:    c.Regs.GetData(dc, sz),
		update:     du,
		compareReg: dc,
	}, nil
}
