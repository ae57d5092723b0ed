package decoder

var mnemonics = map[Op]string{
	OpIllegal: "illegal", OpNop: "nop",
	OpMove: "move", OpMoveA: "movea", OpMoveQ: "moveq", OpLea: "lea", OpPea: "pea",
	OpClr: "clr", OpExg: "exg", OpSwap: "swap", OpExt: "ext", OpTst: "tst",
	OpMoveToCCR: "move>ccr", OpMoveToSR: "move>sr", OpMoveFromSR: "move<sr", OpMoveUSP: "move usp",
	OpAdd: "add", OpAddA: "adda", OpAddI: "addi", OpAddQ: "addq", OpAddX: "addx",
	OpSub: "sub", OpSubA: "suba", OpSubI: "subi", OpSubQ: "subq", OpSubX: "subx",
	OpNeg: "neg", OpNegX: "negx", OpAbcd: "abcd", OpSbcd: "sbcd",
	OpCmp: "cmp", OpCmpA: "cmpa", OpCmpI: "cmpi", OpCmpM: "cmpm",
	OpAnd: "and", OpAndI: "andi", OpOr: "or", OpOrI: "ori", OpEor: "eor", OpEorI: "eori", OpNot: "not",
	OpAndiToCCR: "andi>ccr", OpAndiToSR: "andi>sr", OpOriToCCR: "ori>ccr", OpOriToSR: "ori>sr",
	OpEoriToCCR: "eori>ccr", OpEoriToSR: "eori>sr",
	OpMulU: "mulu", OpMulS: "muls", OpMulUL: "mulu.l", OpMulSL: "muls.l",
	OpDivU: "divu", OpDivS: "divs", OpDivUL: "divu.l", OpDivSL: "divs.l",
	OpASL: "asl", OpASR: "asr", OpLSL: "lsl", OpLSR: "lsr", OpROL: "rol", OpROR: "ror", OpROXL: "roxl", OpROXR: "roxr",
	OpBTST: "btst", OpBCHG: "bchg", OpBCLR: "bclr", OpBSET: "bset",
	OpBFEXTU: "bfextu", OpBFEXTS: "bfexts", OpBFINS: "bfins", OpBFTST: "bftst",
	OpBFCHG: "bfchg", OpBFCLR: "bfclr", OpBFSET: "bfset", OpBFFFO: "bfffo",
	OpBcc: "bcc", OpBra: "bra", OpBsr: "bsr", OpDBcc: "dbcc", OpScc: "scc",
	OpJsr: "jsr", OpJmp: "jmp", OpRts: "rts", OpRtd: "rtd", OpLink: "link", OpUnlk: "unlk",
	OpChk: "chk", OpChk2: "chk2",
	OpMovem: "movem", OpCas: "cas", OpCas2: "cas2",
	OpTrap: "trap", OpTrapCC: "trapcc", OpBkpt: "bkpt", OpReset: "reset", OpStop: "stop",
}

// String returns the instruction's mnemonic for disassembly/trace output.
func (op Op) String() string {
	if s, ok := mnemonics[op]; ok {
		return s
	}
	return "?"
}

func (s Size) sizeSuffix() string {
	switch s {
	case Byte:
		return ".b"
	case Word:
		return ".w"
	default:
		return ".l"
	}
}

// String renders a one-line disassembly of the instruction, used by the
// debug monitor's "dis" command and by trace logging.
func (i Instruction) String() string {
	return i.Op.String() + i.Size.sizeSuffix()
}
