package cpu

import "github.com/kbrown/emu68k/internal/memory"

// ElfInfo is the subset of the loaded binary's ELF header the initial stack
// needs.
type ElfInfo struct {
	EntryPoint uint32
	PhdrAddr   uint32
	PhentSize  uint32
	PhNum      uint32
}

// auxRandomSeed is the fixed AT_RANDOM payload; bit-exact reproducibility
// across runs matters more here than actual entropy.
var auxRandomSeed = [16]byte{0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}

const (
	auxNull   = 0
	auxPhdr   = 3
	auxPhent  = 4
	auxPhnum  = 5
	auxPagesz = 6
	auxBase   = 7
	auxFlags  = 8
	auxEntry  = 9
	auxUID    = 11
	auxEUID   = 12
	auxGID    = 13
	auxEGID   = 14
	auxSecure = 23
	auxRandom = 25
)

// BuildInitialStack lays out argv/envp/auxv at the top of the stack segment
// per spec §4.5 and returns the final stack pointer to install into A7.
func BuildInitialStack(mem *memory.Image, stackTop uint32, argv, envp []string, elf ElfInfo) (uint32, error) {
	sp := stackTop - 64

	writeStrings := func(strs []string) ([]uint32, error) {
		ptrs := make([]uint32, len(strs))
		for i := len(strs) - 1; i >= 0; i-- {
			s := strs[i]
			sp -= uint32(len(s) + 1)
			if err := mem.WriteData(sp, append([]byte(s), 0)); err != nil {
				return nil, err
			}
			ptrs[i] = sp
		}
		return ptrs, nil
	}

	argvPtrs, err := writeStrings(argv)
	if err != nil {
		return 0, err
	}
	envpPtrs, err := writeStrings(envp)
	if err != nil {
		return 0, err
	}

	sp &^= 3

	sp -= 16
	randomAddr := sp
	if err := mem.WriteData(sp, auxRandomSeed[:]); err != nil {
		return 0, err
	}

	type auxEntryT struct{ tag, val uint32 }
	auxv := []auxEntryT{
		{auxPhdr, elf.PhdrAddr},
		{auxPhent, elf.PhentSize},
		{auxPhnum, elf.PhNum},
		{auxPagesz, memory.PageSize},
		{auxBase, 0},
		{auxFlags, 0},
		{auxEntry, elf.EntryPoint},
		{auxUID, 1000},
		{auxEUID, 1000},
		{auxGID, 1000},
		{auxEGID, 1000},
		{auxSecure, 0},
		{auxRandom, randomAddr},
		{auxNull, 0},
	}
	for i := len(auxv) - 1; i >= 0; i-- {
		sp -= 8
		if err := mem.WriteLong(sp, auxv[i].tag); err != nil {
			return 0, err
		}
		if err := mem.WriteLong(sp+4, auxv[i].val); err != nil {
			return 0, err
		}
	}

	sp -= 4
	if err := mem.WriteLong(sp, 0); err != nil {
		return 0, err
	}
	for i := len(envpPtrs) - 1; i >= 0; i-- {
		sp -= 4
		if err := mem.WriteLong(sp, envpPtrs[i]); err != nil {
			return 0, err
		}
	}

	sp -= 4
	if err := mem.WriteLong(sp, 0); err != nil {
		return 0, err
	}
	for i := len(argvPtrs) - 1; i >= 0; i-- {
		sp -= 4
		if err := mem.WriteLong(sp, argvPtrs[i]); err != nil {
			return 0, err
		}
	}

	sp -= 4
	if err := mem.WriteLong(sp, uint32(len(argv))); err != nil {
		return 0, err
	}

	return sp, nil
}
