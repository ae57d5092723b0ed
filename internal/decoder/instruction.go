// Package decoder turns a guest program-counter value into a structured
// Instruction the executor can dispatch on. Per spec it is a black-box
// collaborator; this implementation covers the instruction families the
// executor (internal/cpu) knows how to run and is built the way the
// teacher's opcode-map/disassembler pair is: a flat table keyed on opcode
// bit patterns rather than a tree of per-opcode types.
package decoder

// Size mirrors cpu.Size but is kept independent so this package has no
// dependency on the executor it feeds (the executor depends on this
// package, not the other way around).
type Size uint8

const (
	Byte Size = iota
	Word
	Long
)

// Op identifies an instruction family the executor knows how to run.
type Op int

const (
	OpIllegal Op = iota
	OpNop
	OpMove
	OpMoveA
	OpMoveQ
	OpLea
	OpPea
	OpClr
	OpExg
	OpSwap
	OpExt
	OpTst
	OpMoveToCCR
	OpMoveToSR
	OpMoveFromSR
	OpMoveUSP

	OpAdd
	OpAddA
	OpAddI
	OpAddQ
	OpAddX
	OpSub
	OpSubA
	OpSubI
	OpSubQ
	OpSubX
	OpNeg
	OpNegX
	OpAbcd
	OpSbcd

	OpCmp
	OpCmpA
	OpCmpI
	OpCmpM

	OpAnd
	OpAndI
	OpOr
	OpOrI
	OpEor
	OpEorI
	OpNot
	OpAndiToCCR
	OpAndiToSR
	OpOriToCCR
	OpOriToSR
	OpEoriToCCR
	OpEoriToSR

	OpMulU
	OpMulS
	OpMulUL
	OpMulSL
	OpDivU
	OpDivS
	OpDivUL
	OpDivSL

	OpASL
	OpASR
	OpLSL
	OpLSR
	OpROL
	OpROR
	OpROXL
	OpROXR

	OpBTST
	OpBCHG
	OpBCLR
	OpBSET

	OpBFEXTU
	OpBFEXTS
	OpBFINS
	OpBFTST
	OpBFCHG
	OpBFCLR
	OpBFSET
	OpBFFFO

	OpBcc
	OpBra
	OpBsr
	OpDBcc
	OpScc
	OpJsr
	OpJmp
	OpRts
	OpRtd
	OpLink
	OpUnlk
	OpChk
	OpChk2

	OpMovem

	OpCas
	OpCas2

	OpTrap
	OpTrapCC
	OpBkpt
	OpReset
	OpStop
)

// Mode is an m68k effective-addressing mode.
type Mode uint8

const (
	ModeDataReg Mode = iota
	ModeAddrReg
	ModeIndirect
	ModePostInc
	ModePreDec
	ModeDisp
	ModeIndexed
	ModePCDisp
	ModePCIndexed
	ModeAbsW
	ModeAbsL
	ModeImmediate
)

// Index describes a scaled index register contribution to an indexed EA.
type Index struct {
	IsAddr     bool
	Reg        int
	LongIndex  bool // false = sign-extended word, true = full long
	Scale      uint8
	Suppressed bool
}

// FullExt carries the 68020 full-format extension-word fields for
// memory-indirect addressing; Present is false for brief-format indexed EAs.
type FullExt struct {
	Present       bool
	BaseSuppress  bool
	IndexSuppress bool
	// IndirectSel is the I/IS field: 0 = no memory indirection, 1 or 5 =
	// preindexed/postindexed with a null outer displacement (spec says
	// outer displacement is zero throughout), per the I/IS encoding table.
	IndirectSel uint8
	Preindexed  bool
}

// EA is a decoded effective-address operand.
type EA struct {
	Mode    Mode
	Reg     int
	Disp    int32
	Index   Index
	Full    FullExt
	AbsAddr uint32
	Imm     uint32
}

// Instruction is the decoded record the executor consumes.
type Instruction struct {
	Address uint32
	Len     uint32
	Op      Op
	Size    Size

	Src EA
	Dst EA

	Reg  int // primary register operand (Dn in moveq, shift count reg, etc.)
	Reg2 int // secondary register operand (CAS Du, MUL.L Dh, DIV.L Dr, ABCD/SBCD/EXG second register)

	Cond uint8 // 4-bit condition code for Bcc/DBcc/Scc/TRAPcc
	Disp int32 // branch/RTD/LINK displacement

	Count    uint32 // immediate shift/bit count, or vector number for TRAP
	CountReg int    // register holding shift count, when not immediate
	UseCountReg bool

	Width   uint32 // bit-field width (0 means 32, per spec)
	Offset  int32  // bit-field offset (signed; register form taken mod 32)
	OffsetReg int  // register holding bit-field offset, when dynamic
	UseOffsetReg bool
	WidthReg  int
	UseWidthReg bool

	Mask uint16 // MOVEM register mask; CAS2 second extension word; 1 for EXG Dx,Ay

	Long bool // per-op flag: MUL.L/DIV.L 64-bit form, CHK2/CMP2 register is An, MOVEM memory-to-register, ABCD/SBCD -(An) form, EXTB, EXG Ax,Ay
}
