package memory

import "testing"

func TestReadWriteBigEndian(t *testing.T) {
	m := NewImage()
	if err := m.AddSegment(NewOwnedSegment(0x1000, PageSize, ProtRead|ProtWrite, "test")); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if err := m.WriteLong(0x1000, 0x01020304); err != nil {
		t.Fatalf("WriteLong: %v", err)
	}
	b, err := m.GuestToHost(0x1000, 4)
	if err != nil {
		t.Fatalf("GuestToHost: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, b[i], want[i])
		}
	}
	v, err := m.ReadLong(0x1000)
	if err != nil {
		t.Fatalf("ReadLong: %v", err)
	}
	if v != 0x01020304 {
		t.Fatalf("ReadLong = %#x, want %#x", v, 0x01020304)
	}
}

func TestWriteReadOnlyFails(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x2000, PageSize, ProtRead, "rodata"))
	if err := m.WriteByte(0x2000, 1); err == nil {
		t.Fatal("expected error writing to read-only segment")
	}
}

func TestOutOfRangeAccessFails(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x3000, PageSize, ProtRead|ProtWrite, "seg"))
	if _, err := m.ReadByte(0x3000 + PageSize); err == nil {
		t.Fatal("expected error reading past segment end")
	}
	if _, err := m.ReadByte(0x2fff); err == nil {
		t.Fatal("expected error reading before segment start")
	}
}

func TestAddSegmentOverlapRejected(t *testing.T) {
	m := NewImage()
	if err := m.AddSegment(NewOwnedSegment(0x1000, 0x1000, ProtRead, "a")); err != nil {
		t.Fatalf("AddSegment a: %v", err)
	}
	if err := m.AddSegment(NewOwnedSegment(0x1800, 0x1000, ProtRead, "b")); err == nil {
		t.Fatal("expected overlap rejection")
	}
}

func TestResizeSegmentGrows(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x4000, PageSize, ProtRead|ProtWrite, "heap"))
	if err := m.ResizeSegment(0x4000, PageSize*2); err != nil {
		t.Fatalf("ResizeSegment: %v", err)
	}
	if err := m.WriteByte(0x4000+PageSize, 0xAA); err != nil {
		t.Fatalf("write into grown region: %v", err)
	}
}

func TestResizeSegmentCollision(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x5000, PageSize, ProtRead|ProtWrite, "heap"))
	_ = m.AddSegment(NewOwnedSegment(0x5000+PageSize, PageSize, ProtRead|ProtWrite, "next"))
	if err := m.ResizeSegment(0x5000, PageSize*2); err == nil {
		t.Fatal("expected collision error")
	}
}

func TestFindFreeRange(t *testing.T) {
	m := NewImage()
	addr, ok := m.FindFreeRange(PageSize)
	if !ok || addr == 0 {
		t.Fatalf("FindFreeRange on empty image: addr=%#x ok=%v", addr, ok)
	}
	_ = m.AddSegment(NewOwnedSegment(addr, PageSize, ProtRead|ProtWrite, "a"))
	addr2, ok := m.FindFreeRange(PageSize)
	if !ok {
		t.Fatal("FindFreeRange failed to find a gap")
	}
	if addr2 < addr+PageSize {
		t.Fatalf("new range %#x overlaps existing segment ending at %#x", addr2, addr+PageSize)
	}
}

func TestReadCString(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x6000, PageSize, ProtRead|ProtWrite, "seg"))
	_ = m.WriteData(0x6000, []byte("hello\x00"))
	s, err := m.ReadCString(0x6000)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	if s != "hello" {
		t.Fatalf("ReadCString = %q, want %q", s, "hello")
	}
}

func TestRemoveSegmentAt(t *testing.T) {
	m := NewImage()
	_ = m.AddSegment(NewOwnedSegment(0x7000, PageSize, ProtRead|ProtWrite, "seg"))
	if !m.RemoveSegmentAt(0x7000) {
		t.Fatal("RemoveSegmentAt should have found the segment")
	}
	if m.CoversRange(0x7000, 1) {
		t.Fatal("segment should be gone")
	}
}

type fakeForeign struct {
	buf      []byte
	released bool
}

func (f *fakeForeign) Bytes() []byte   { return f.buf }
func (f *fakeForeign) Release() error  { f.released = true; return nil }

func TestForeignSegmentReleasedOnRemove(t *testing.T) {
	m := NewImage()
	fr := &fakeForeign{buf: make([]byte, PageSize)}
	seg := NewForeignSegment(0x8000, ProtRead|ProtWrite, "shm", fr)
	if err := m.AddSegment(seg); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if !m.RemoveSegmentAt(0x8000) {
		t.Fatal("expected removal to succeed")
	}
	if !fr.released {
		t.Fatal("expected foreign region to be released")
	}
}
