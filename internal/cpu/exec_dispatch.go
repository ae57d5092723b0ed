package cpu

import (
	"github.com/kbrown/emu68k/internal/decoder"
)

// execute runs one decoded instruction. It is a flat switch over Op rather
// than a vtable-per-opcode, per the tagged-union shape decoder.Instruction
// is built around.
func (c *CPU) execute(inst decoder.Instruction) error {
	switch inst.Op {
	case decoder.OpNop:
		return nil
	case decoder.OpIllegal:
		return newFault(FaultUnsupportedInstruction, inst.Address, c.Regs, "illegal or privileged instruction", nil)
	case decoder.OpReset:
		return nil
	case decoder.OpStop:
		return newFault(FaultUnsupportedInstruction, inst.Address, c.Regs, "STOP requires supervisor state", nil)

	case decoder.OpMove, decoder.OpMoveA, decoder.OpMoveQ, decoder.OpClr, decoder.OpLea, decoder.OpPea,
		decoder.OpExg, decoder.OpSwap, decoder.OpExt, decoder.OpTst,
		decoder.OpMoveToCCR, decoder.OpMoveToSR, decoder.OpMoveFromSR, decoder.OpMoveUSP:
		return c.execMoves(inst)

	case decoder.OpAdd, decoder.OpAddA, decoder.OpAddI, decoder.OpAddQ, decoder.OpAddX,
		decoder.OpSub, decoder.OpSubA, decoder.OpSubI, decoder.OpSubQ, decoder.OpSubX,
		decoder.OpNeg, decoder.OpNegX,
		decoder.OpCmp, decoder.OpCmpA, decoder.OpCmpI, decoder.OpCmpM:
		return c.execArith(inst)

	case decoder.OpAbcd, decoder.OpSbcd:
		return c.execBCD(inst)

	case decoder.OpAnd, decoder.OpAndI, decoder.OpOr, decoder.OpOrI, decoder.OpEor, decoder.OpEorI, decoder.OpNot,
		decoder.OpAndiToCCR, decoder.OpAndiToSR, decoder.OpOriToCCR, decoder.OpOriToSR,
		decoder.OpEoriToCCR, decoder.OpEoriToSR:
		return c.execLogic(inst)

	case decoder.OpMulU, decoder.OpMulS, decoder.OpMulUL, decoder.OpMulSL,
		decoder.OpDivU, decoder.OpDivS, decoder.OpDivUL, decoder.OpDivSL:
		return c.execMulDiv(inst)

	case decoder.OpASL, decoder.OpASR, decoder.OpLSL, decoder.OpLSR,
		decoder.OpROL, decoder.OpROR, decoder.OpROXL, decoder.OpROXR:
		return c.execShift(inst)

	case decoder.OpBTST, decoder.OpBCHG, decoder.OpBCLR, decoder.OpBSET:
		return c.execBitOps(inst)

	case decoder.OpBFEXTU, decoder.OpBFEXTS, decoder.OpBFINS, decoder.OpBFTST,
		decoder.OpBFCHG, decoder.OpBFCLR, decoder.OpBFSET, decoder.OpBFFFO:
		return c.execBitField(inst)

	case decoder.OpBcc, decoder.OpBra, decoder.OpBsr, decoder.OpDBcc, decoder.OpScc,
		decoder.OpJsr, decoder.OpJmp, decoder.OpRts, decoder.OpRtd,
		decoder.OpLink, decoder.OpUnlk, decoder.OpChk, decoder.OpChk2:
		return c.execControl(inst)

	case decoder.OpMovem:
		return c.execMovem(inst)

	case decoder.OpCas, decoder.OpCas2:
		return c.execCas(inst)

	case decoder.OpTrap, decoder.OpTrapCC, decoder.OpBkpt:
		return c.execSystem(inst)
	}
	return newFault(FaultUnsupportedInstruction, inst.Address, c.Regs, "unimplemented operation", nil)
}

// resolve is a convenience wrapper for the common case where the extension
// words for an EA end right where the next field (if any) would begin;
// since every EA is fully consumed by decode time, instAddr is all that is
// needed for PC-relative modes.
func (c *CPU) resolve(ea decoder.EA, size Size, instAddr uint32) (Operand, error) {
	return c.ResolveEA(ea, size, instAddr, 0)
}

// conditionTrue evaluates one of the 16 m68k condition codes against SR.
func conditionTrue(sr SR, cond uint8) bool {
	c, v, z, n, x := sr.C(), sr.V(), sr.Z(), sr.N(), sr.X()
	switch cond {
	case 0x0: // T
		return true
	case 0x1: // F
		return false
	case 0x2: // HI
		return !c && !z
	case 0x3: // LS
		return c || z
	case 0x4: // CC/HS
		return !c
	case 0x5: // CS/LO
		return c
	case 0x6: // NE
		return !z
	case 0x7: // EQ
		return z
	case 0x8: // VC
		return !v
	case 0x9: // VS
		return v
	case 0xa: // PL
		return !n
	case 0xb: // MI
		return n
	case 0xc: // GE
		return n == v
	case 0xd: // LT
		return n != v
	case 0xe: // GT
		return !z && n == v
	case 0xf: // LE
		return z || n != v
	}
	_ = x
	return false
}
