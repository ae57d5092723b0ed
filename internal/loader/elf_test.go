package loader

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/kbrown/emu68k/internal/memory"
)

const (
	elfEhSize  = 52
	elfPhSize  = 32
	testEntry  = 0x10000
	ptLoad     = 1
	pfR        = 4
	pfX        = 1
)

// buildMinimalELF assembles a single-PT_LOAD ELF32 big-endian m68k image
// containing code at vaddr testEntry, since debug/elf offers a reader but no
// writer to build fixtures with.
func buildMinimalELF(code []byte) []byte {
	var b bytes.Buffer

	ident := [16]byte{0x7f, 'E', 'L', 'F', 1 /* ELFCLASS32 */, 2 /* ELFDATA2MSB */, 1, 0}
	b.Write(ident[:])
	binary.Write(&b, binary.BigEndian, uint16(2))               // e_type = ET_EXEC
	binary.Write(&b, binary.BigEndian, uint16(4))                // e_machine = EM_68K
	binary.Write(&b, binary.BigEndian, uint32(1))                // e_version
	binary.Write(&b, binary.BigEndian, uint32(testEntry))        // e_entry
	binary.Write(&b, binary.BigEndian, uint32(elfEhSize))        // e_phoff
	binary.Write(&b, binary.BigEndian, uint32(0))                // e_shoff
	binary.Write(&b, binary.BigEndian, uint32(0))                // e_flags
	binary.Write(&b, binary.BigEndian, uint16(elfEhSize))        // e_ehsize
	binary.Write(&b, binary.BigEndian, uint16(elfPhSize))        // e_phentsize
	binary.Write(&b, binary.BigEndian, uint16(1))                // e_phnum
	binary.Write(&b, binary.BigEndian, uint16(0))                // e_shentsize
	binary.Write(&b, binary.BigEndian, uint16(0))                // e_shnum
	binary.Write(&b, binary.BigEndian, uint16(0))                // e_shstrndx

	dataOff := uint32(elfEhSize + elfPhSize)
	binary.Write(&b, binary.BigEndian, uint32(ptLoad))        // p_type
	binary.Write(&b, binary.BigEndian, dataOff)                // p_offset
	binary.Write(&b, binary.BigEndian, uint32(testEntry))      // p_vaddr
	binary.Write(&b, binary.BigEndian, uint32(testEntry))      // p_paddr
	binary.Write(&b, binary.BigEndian, uint32(len(code)))      // p_filesz
	binary.Write(&b, binary.BigEndian, uint32(len(code)))      // p_memsz
	binary.Write(&b, binary.BigEndian, uint32(pfR|pfX))        // p_flags
	binary.Write(&b, binary.BigEndian, uint32(memory.PageSize)) // p_align

	b.Write(code)
	return b.Bytes()
}

func TestLoadMinimalELF(t *testing.T) {
	code := []byte{0x4e, 0x71, 0x4e, 0x40} // NOP; TRAP #0
	raw := buildMinimalELF(code)

	mem := memory.NewImage()
	loaded, err := Load(mem, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Info.EntryPoint != testEntry {
		t.Fatalf("EntryPoint = %#x, want %#x", loaded.Info.EntryPoint, testEntry)
	}
	got, err := mem.GuestToHost(testEntry, uint32(len(code)))
	if err != nil {
		t.Fatalf("GuestToHost: %v", err)
	}
	if !bytes.Equal(got, code) {
		t.Fatalf("loaded code = %x, want %x", got, code)
	}
	if loaded.HeapStart <= testEntry {
		t.Fatalf("HeapStart = %#x, want something past the load segment", loaded.HeapStart)
	}
	if loaded.StackTop == 0 || loaded.StackBase >= loaded.StackTop {
		t.Fatalf("stack range invalid: base=%#x top=%#x", loaded.StackBase, loaded.StackTop)
	}
}

func TestLoadRejectsWrongMachine(t *testing.T) {
	code := []byte{0x90}
	raw := buildMinimalELF(code)
	raw[18] = 0 // e_machine high byte stays 0, low byte zeroed -> not EM_68K
	raw[19] = 0
	mem := memory.NewImage()
	if _, err := Load(mem, bytes.NewReader(raw)); err == nil {
		t.Fatal("expected rejection of non-m68k ELF")
	}
}
