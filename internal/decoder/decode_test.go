package decoder

import "testing"

// fakeFetcher backs the decoder with a flat big-endian byte buffer, mimicking
// the relevant slice of memory.Image without importing it.
type fakeFetcher struct {
	base uint32
	buf  []byte
}

func (f *fakeFetcher) ReadWord(addr uint32) (uint16, error) {
	off := addr - f.base
	return uint16(f.buf[off])<<8 | uint16(f.buf[off+1]), nil
}

func (f *fakeFetcher) ReadLong(addr uint32) (uint32, error) {
	hi, _ := f.ReadWord(addr)
	lo, _ := f.ReadWord(addr + 2)
	return uint32(hi)<<16 | uint32(lo), nil
}

func TestDecodeNop(t *testing.T) {
	f := &fakeFetcher{base: 0x1000, buf: []byte{0x4e, 0x71}}
	inst, err := Decode(f, 0x1000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Op != OpNop {
		t.Fatalf("Op = %v, want OpNop", inst.Op)
	}
	if inst.Len != 2 {
		t.Fatalf("Len = %d, want 2", inst.Len)
	}
}

func TestDecodeRts(t *testing.T) {
	f := &fakeFetcher{base: 0x2000, buf: []byte{0x4e, 0x75}}
	inst, err := Decode(f, 0x2000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Op != OpRts {
		t.Fatalf("Op = %v, want OpRts", inst.Op)
	}
}

func TestDecodeTrap(t *testing.T) {
	// TRAP #0: 0x4e40
	f := &fakeFetcher{base: 0x3000, buf: []byte{0x4e, 0x40}}
	inst, err := Decode(f, 0x3000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Op != OpTrap || inst.Count != 0 {
		t.Fatalf("inst = %+v, want OpTrap count 0", inst)
	}
}

func TestDecodeMoveQ(t *testing.T) {
	// MOVEQ #5,D0: 0111 000 0 00000101 = 0x7005
	f := &fakeFetcher{base: 0x4000, buf: []byte{0x70, 0x05}}
	inst, err := Decode(f, 0x4000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Op != OpMoveQ {
		t.Fatalf("Op = %v, want OpMoveQ", inst.Op)
	}
	if inst.Reg != 0 {
		t.Fatalf("Reg = %d, want 0", inst.Reg)
	}
	if inst.Disp != 5 {
		t.Fatalf("Disp = %d, want 5", inst.Disp)
	}
}

func TestDecodeLink(t *testing.T) {
	// LINK A6,#-16: 0x4e56, 0xFFF0
	f := &fakeFetcher{base: 0x5000, buf: []byte{0x4e, 0x56, 0xff, 0xf0}}
	inst, err := Decode(f, 0x5000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Op != OpLink || inst.Reg != 6 {
		t.Fatalf("inst = %+v, want OpLink reg 6", inst)
	}
	if inst.Disp != -16 {
		t.Fatalf("Disp = %d, want -16", inst.Disp)
	}
	if inst.Len != 4 {
		t.Fatalf("Len = %d, want 4", inst.Len)
	}
}

func TestOpStringAndInstructionString(t *testing.T) {
	inst := Instruction{Op: OpAdd, Size: Long}
	if inst.Op.String() != "add" {
		t.Fatalf("Op.String() = %q, want %q", inst.Op.String(), "add")
	}
	if inst.String() != "add.l" {
		t.Fatalf("Instruction.String() = %q, want %q", inst.String(), "add.l")
	}
}
