package cpu

import (
	"github.com/kbrown/emu68k/internal/decoder"
	"github.com/kbrown/emu68k/internal/memory"
)

// Operand is a resolved effective address: either a register or a memory
// location. The executor reads/writes through it uniformly so every
// instruction's execute routine is written once regardless of addressing
// mode, matching the teacher's stepInfo pattern of resolving operands ahead
// of the actual op logic.
type Operand struct {
	isReg   bool
	isAddr  bool
	reg     int
	addr    uint32
	isImm   bool
	imm     uint32
	hasAddr bool // true when Addr() is meaningful (memory operands)
}

func toSize(s decoder.Size) Size { return Size(s) }

// Addr returns the effective memory address for LEA/PEA/JMP/JSR/bit-field
// instructions. It is only valid when the operand resolved to memory.
func (o Operand) Addr() (uint32, bool) { return o.addr, o.hasAddr }

// Read loads the operand's value at the given size.
func (o Operand) Read(c *CPU, size Size) (uint32, error) {
	switch {
	case o.isImm:
		return o.imm & size.Info().Mask, nil
	case o.isReg:
		if o.isAddr {
			return c.Regs.A[o.reg] & size.Info().Mask, nil
		}
		return c.Regs.GetData(o.reg, size), nil
	default:
		return c.readMem(o.addr, size)
	}
}

// Write stores value into the operand at the given size.
func (o Operand) Write(c *CPU, size Size, value uint32) error {
	switch {
	case o.isImm:
		return newFault(FaultInternalInvariant, c.Regs.PC, c.Regs, "write to immediate operand", nil)
	case o.isReg:
		if o.isAddr {
			c.Regs.SetAddrSized(o.reg, size, value)
		} else {
			c.Regs.SetData(o.reg, size, value)
		}
		return nil
	default:
		return c.writeMem(o.addr, size, value)
	}
}

func (c *CPU) readMem(addr uint32, size Size) (uint32, error) {
	switch size {
	case Byte:
		v, err := c.Mem.ReadByte(addr)
		return uint32(v), wrapMemErr(c, addr, err)
	case Word:
		v, err := c.Mem.ReadWord(addr)
		return uint32(v), wrapMemErr(c, addr, err)
	default:
		v, err := c.Mem.ReadLong(addr)
		return v, wrapMemErr(c, addr, err)
	}
}

func (c *CPU) writeMem(addr uint32, size Size, value uint32) error {
	switch size {
	case Byte:
		return wrapMemErr(c, addr, c.Mem.WriteByte(addr, uint8(value)))
	case Word:
		return wrapMemErr(c, addr, c.Mem.WriteWord(addr, uint16(value)))
	default:
		return wrapMemErr(c, addr, c.Mem.WriteLong(addr, value))
	}
}

func wrapMemErr(c *CPU, addr uint32, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*memory.InvalidAddressError); ok {
		return newFault(FaultInvalidAddress, c.Regs.PC, c.Regs, "memory access", err)
	}
	return newFault(FaultInternalInvariant, c.Regs.PC, c.Regs, "memory access", err)
}

// ResolveEA turns a decoded effective address into an Operand, performing
// the side effects (post-increment, pre-decrement, index scaling, and
// memory-indirect dereference) addressing modes require. instAddr is the
// address of the instruction word, needed for PC-relative modes.
func (c *CPU) ResolveEA(ea decoder.EA, size Size, instAddr uint32, eaWordsEnd uint32) (Operand, error) {
	switch ea.Mode {
	case decoder.ModeDataReg:
		return Operand{isReg: true, reg: ea.Reg}, nil
	case decoder.ModeAddrReg:
		return Operand{isReg: true, isAddr: true, reg: ea.Reg}, nil
	case decoder.ModeIndirect:
		return Operand{addr: c.Regs.A[ea.Reg], hasAddr: true}, nil
	case decoder.ModePostInc:
		addr := c.Regs.A[ea.Reg]
		step := size.Info().Bytes
		if ea.Reg == 7 && size == Byte {
			step = 2 // stack pointer stays word-aligned
		}
		c.Regs.A[ea.Reg] += step
		return Operand{addr: addr, hasAddr: true}, nil
	case decoder.ModePreDec:
		step := size.Info().Bytes
		if ea.Reg == 7 && size == Byte {
			step = 2
		}
		c.Regs.A[ea.Reg] -= step
		return Operand{addr: c.Regs.A[ea.Reg], hasAddr: true}, nil
	case decoder.ModeDisp:
		addr := uint32(int64(c.Regs.A[ea.Reg]) + int64(ea.Disp))
		return Operand{addr: addr, hasAddr: true}, nil
	case decoder.ModeIndexed:
		addr, err := c.resolveIndexed(c.Regs.A[ea.Reg], ea)
		if err != nil {
			return Operand{}, err
		}
		return Operand{addr: addr, hasAddr: true}, nil
	case decoder.ModePCDisp:
		addr := uint32(int64(instAddr) + 2 + int64(ea.Disp))
		return Operand{addr: addr, hasAddr: true}, nil
	case decoder.ModePCIndexed:
		addr, err := c.resolveIndexed(instAddr+2, ea)
		if err != nil {
			return Operand{}, err
		}
		return Operand{addr: addr, hasAddr: true}, nil
	case decoder.ModeAbsW, decoder.ModeAbsL:
		return Operand{addr: ea.AbsAddr, hasAddr: true}, nil
	case decoder.ModeImmediate:
		return Operand{isImm: true, imm: ea.Imm}, nil
	}
	return Operand{}, newFault(FaultDecodeError, c.Regs.PC, c.Regs, "unknown effective address mode", nil)
}

// resolveIndexed computes the address for brief- and full-format indexed
// modes, including 68020 memory-indirect pre/post-indexing. base is either
// An's value (mode 110) or the extension word's own address (PC-relative).
func (c *CPU) resolveIndexed(base uint32, ea decoder.EA) (uint32, error) {
	var indexVal int64
	if !ea.Index.Suppressed {
		if ea.Index.IsAddr {
			indexVal = int64(c.Regs.A[ea.Index.Reg])
		} else {
			indexVal = int64(c.Regs.D[ea.Index.Reg])
		}
		if !ea.Index.LongIndex {
			indexVal = int64(int16(indexVal))
		}
		indexVal *= int64(1) << ea.Index.Scale
	}

	if !ea.Full.Present {
		// Brief format: base + disp8 + scaled index.
		return uint32(int64(base) + int64(ea.Disp) + indexVal), nil
	}

	effBase := int64(base)
	if ea.Full.BaseSuppress {
		effBase = 0
	}

	if ea.Full.IndirectSel == 0 {
		// No memory indirection: base + outer-disp-as-disp + index.
		return uint32(effBase + int64(ea.Disp) + indexVal), nil
	}

	if ea.Full.Preindexed {
		// (bd, An, Xn) then indirect through memory, outer displacement 0.
		addr := uint32(effBase + int64(ea.Disp) + indexVal)
		v, err := c.Mem.ReadLong(addr)
		if err != nil {
			return 0, wrapMemErr(c, addr, err)
		}
		return v, nil
	}

	// Postindexed: (bd, An) indirect, then add index, outer displacement 0.
	addr := uint32(effBase + int64(ea.Disp))
	v, err := c.Mem.ReadLong(addr)
	if err != nil {
		return 0, wrapMemErr(c, addr, err)
	}
	return uint32(int64(v) + indexVal), nil
}
