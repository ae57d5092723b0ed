// Package loader reads an m68k ELF32 big-endian executable into a guest
// memory image. The teacher boots from punch cards; this is the first
// component with no structural analogue in it, so it is built directly on
// the standard library's debug/elf, which natively understands the
// ELFCLASS32/ELFDATA2MSB/EM_68K combination.
package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
	"io"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/memory"
)

// Loaded describes the memory image and CPU-visible facts the run loop and
// initial-stack builder need after loading an executable.
type Loaded struct {
	Info       cpu.ElfInfo
	HeapStart  uint32
	TLSVaddr   uint32
	TLSMemsz   uint32
	StackBase  uint32
	StackTop   uint32
}

const (
	defaultStackSize = 8 * 1024 * 1024
	defaultLoadGap   = 0x1000
)

// Load parses an ELF32 big-endian m68k executable from r and populates mem
// with its PT_LOAD segments.
func Load(mem *memory.Image, r io.ReaderAt) (Loaded, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return Loaded{}, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Data != elf.ELFDATA2MSB || f.Machine != elf.EM_68K {
		return Loaded{}, fmt.Errorf("loader: not an ELF32 big-endian m68k binary (class=%v data=%v machine=%v)", f.Class, f.Data, f.Machine)
	}

	var maxEnd uint32
	var tlsVaddr, tlsMemsz uint32

	for _, prog := range f.Progs {
		switch prog.Type {
		case elf.PT_LOAD:
			base := uint32(prog.Vaddr) &^ (memory.PageSize - 1)
			end := uint32(prog.Vaddr+prog.Memsz+memory.PageSize-1) &^ (memory.PageSize - 1)
			length := end - base

			prot := memory.Prot(0)
			if prog.Flags&elf.PF_R != 0 {
				prot |= memory.ProtRead
			}
			if prog.Flags&elf.PF_W != 0 {
				prot |= memory.ProtWrite
			}
			if prog.Flags&elf.PF_X != 0 {
				prot |= memory.ProtExec
			}

			seg := memory.NewOwnedSegment(base, length, prot|memory.ProtWrite, "load")
			if err := mem.AddSegment(seg); err != nil {
				return Loaded{}, fmt.Errorf("loader: %w", err)
			}

			data := make([]byte, prog.Filesz)
			sr := io.NewSectionReader(r, int64(prog.Off), int64(prog.Filesz))
			if _, err := io.ReadFull(sr, data); err != nil {
				return Loaded{}, fmt.Errorf("loader: reading segment data: %w", err)
			}
			if err := mem.WriteData(uint32(prog.Vaddr), data); err != nil {
				return Loaded{}, fmt.Errorf("loader: writing segment data: %w", err)
			}
			seg.Prot = prot

			if end > maxEnd {
				maxEnd = end
			}

		case elf.PT_TLS:
			tlsVaddr = uint32(prog.Vaddr)
			tlsMemsz = uint32(prog.Memsz)
		}
	}

	phdrAddr, phentSize, phNum, err := locatePhdr(f, r)
	if err != nil {
		return Loaded{}, err
	}

	heapStart := alignUp(maxEnd+defaultLoadGap, memory.PageSize)

	stackTop := uint32(0xc0000000)
	stackBase := stackTop - defaultStackSize
	stackSeg := memory.NewOwnedSegment(stackBase, defaultStackSize, memory.ProtRead|memory.ProtWrite, "stack")
	if err := mem.AddSegment(stackSeg); err != nil {
		return Loaded{}, fmt.Errorf("loader: %w", err)
	}

	return Loaded{
		Info: cpu.ElfInfo{
			EntryPoint: uint32(f.Entry),
			PhdrAddr:   phdrAddr,
			PhentSize:  phentSize,
			PhNum:      phNum,
		},
		HeapStart: heapStart,
		TLSVaddr:  tlsVaddr,
		TLSMemsz:  tlsMemsz,
		StackBase: stackBase,
		StackTop:  stackTop,
	}, nil
}

// locatePhdr reads e_phoff, e_phentsize and e_phnum from the raw ELF header
// and finds the in-memory address of the program header table through the
// PT_LOAD segment whose file range contains e_phoff (matching how the real
// kernel maps it). When no PT_LOAD covers e_phoff, the address is 0.
func locatePhdr(f *elf.File, r io.ReaderAt) (addr, entsize, num uint32, err error) {
	var ident [16]byte
	if _, err := r.ReadAt(ident[:], 0); err != nil {
		return 0, 0, 0, fmt.Errorf("loader: reading ident: %w", err)
	}
	if !bytes.Equal(ident[:4], []byte{0x7f, 'E', 'L', 'F'}) {
		return 0, 0, 0, fmt.Errorf("loader: bad ELF magic")
	}

	var phoff uint32
	var hdr [52]byte
	if _, err := r.ReadAt(hdr[:], 0); err != nil {
		return 0, 0, 0, fmt.Errorf("loader: reading header: %w", err)
	}
	phoff = be32(hdr[28:32])
	entsize = uint32(be16(hdr[42:44]))
	num = uint32(be16(hdr[44:46]))

	for _, prog := range f.Progs {
		if prog.Type == elf.PT_LOAD && uint64(phoff) >= prog.Off && uint64(phoff) < prog.Off+prog.Filesz {
			addr = uint32(prog.Vaddr) + (phoff - uint32(prog.Off))
			return addr, entsize, num, nil
		}
	}
	// No PT_LOAD covers it (e.g. a minimal static binary); callers treat 0
	// as "no auxv phdr information available", which is harmless since
	// glibc only consults AT_PHDR for TLS setup we already handle directly.
	return 0, entsize, num, nil
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }
func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func alignUp(v, align uint32) uint32 { return (v + align - 1) &^ (align - 1) }
