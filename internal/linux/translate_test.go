package linux

import (
	"testing"

	"github.com/kbrown/emu68k/internal/memory"
)

func newScratchMem(t *testing.T) *memory.Image {
	t.Helper()
	mem := memory.NewImage()
	if err := mem.AddSegment(memory.NewOwnedSegment(0x9000, memory.PageSize, memory.ProtRead|memory.ProtWrite, "scratch")); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	return mem
}

func TestTimespecRoundTrip(t *testing.T) {
	mem := newScratchMem(t)
	const sec, nsec = int64(0x1_0000_0001), int64(500)
	if err := writeTimespec(mem, 0x9000, sec, nsec); err != nil {
		t.Fatalf("writeTimespec: %v", err)
	}
	gotSec, gotNsec, err := readTimespec(mem, 0x9000)
	if err != nil {
		t.Fatalf("readTimespec: %v", err)
	}
	if gotSec != sec || gotNsec != nsec {
		t.Fatalf("round trip = (%d, %d), want (%d, %d)", gotSec, gotNsec, sec, nsec)
	}
}

func TestTimevalRoundTrip(t *testing.T) {
	mem := newScratchMem(t)
	const sec, usec = int64(42), int64(999999)
	if err := writeTimeval(mem, 0x9000, sec, usec); err != nil {
		t.Fatalf("writeTimeval: %v", err)
	}
	gotSec, gotUsec, err := readTimeval(mem, 0x9000)
	if err != nil {
		t.Fatalf("readTimeval: %v", err)
	}
	if gotSec != sec || gotUsec != usec {
		t.Fatalf("round trip = (%d, %d), want (%d, %d)", gotSec, gotUsec, sec, usec)
	}
}

func TestRlimitRoundTrip(t *testing.T) {
	mem := newScratchMem(t)
	const cur, max = uint64(1024), uint64(0xffffffffffffffff)
	if err := writeRlimit(mem, 0x9000, cur, max); err != nil {
		t.Fatalf("writeRlimit: %v", err)
	}
	gotCur, gotMax, err := readRlimit(mem, 0x9000)
	if err != nil {
		t.Fatalf("readRlimit: %v", err)
	}
	if gotCur != cur || gotMax != max {
		t.Fatalf("round trip = (%d, %d), want (%d, %d)", gotCur, gotMax, cur, max)
	}
}

func TestWriteStatLayout(t *testing.T) {
	mem := newScratchMem(t)
	s := hostStat{Dev: 1, Ino: 2, Mode: 0100644, Nlink: 1, Uid: 1000, Gid: 1000, Rdev: 0, Size: 4096, Blksize: 512, Blocks: 8, Atime: 111, Mtime: 222, Ctime: 333}
	if err := writeStat(mem, 0x9000, s); err != nil {
		t.Fatalf("writeStat: %v", err)
	}
	b, err := mem.GuestToHost(0x9000, statSize)
	if err != nil {
		t.Fatalf("GuestToHost: %v", err)
	}
	if be32(b[0:4]) != 1 {
		t.Fatalf("dev field = %d, want 1", be32(b[0:4]))
	}
	if be32(b[4:8]) != 2 {
		t.Fatalf("ino field = %d, want 2", be32(b[4:8]))
	}
	if be32(b[28:32]) != 4096 {
		t.Fatalf("size field = %d, want 4096", be32(b[28:32]))
	}
	if len(b) != statSize {
		t.Fatalf("len = %d, want %d", len(b), statSize)
	}
}

func TestReadIOVec(t *testing.T) {
	mem := newScratchMem(t)
	// Put the iovec array at 0x9000, pointing at data just after it.
	dataAddr := uint32(0x9020)
	if err := mem.WriteLong(0x9000, dataAddr); err != nil {
		t.Fatalf("WriteLong base: %v", err)
	}
	if err := mem.WriteLong(0x9004, 4); err != nil {
		t.Fatalf("WriteLong len: %v", err)
	}
	if err := mem.WriteData(dataAddr, []byte("abcd")); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	vecs, err := readIOVec(mem, 0x9000, 1)
	if err != nil {
		t.Fatalf("readIOVec: %v", err)
	}
	if string(vecs[0]) != "abcd" {
		t.Fatalf("iovec data = %q, want %q", vecs[0], "abcd")
	}
}

func TestOpenFlagFromGuestRemapsBits(t *testing.T) {
	const guestDirectory = 0040000
	const guestLargefile = 0400000
	const hostDirectory = 0200000
	const hostLargefile = 0100000

	got := openFlagFromGuest(guestDirectory | guestLargefile | 0x1 /* O_WRONLY */)
	if got&hostDirectory == 0 {
		t.Fatalf("expected O_DIRECTORY remapped into host bit, got %#o", got)
	}
	if got&hostLargefile == 0 {
		t.Fatalf("expected O_LARGEFILE remapped into host bit, got %#o", got)
	}
	if got&0x1 == 0 {
		t.Fatalf("expected low access-mode bits preserved, got %#o", got)
	}
}
