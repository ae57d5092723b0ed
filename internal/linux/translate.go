package linux

import (
	"encoding/binary"

	"github.com/kbrown/emu68k/internal/memory"
)

// Guest-side struct sizes, all fields big-endian per spec §4.6.
const (
	timespecSize = 12 // 8-byte sec (uclibc's 64-bit time_t) + 4-byte nsec
	timevalSize  = 12 // 8-byte sec + 4-byte usec
	statSize     = 56
	iovecSize    = 8
	rlimitSize   = 16 // two (high32, low32) pairs
	fdSetSize    = 128
)

func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func putBE32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func be64pair(hi, lo []byte) uint64 {
	return uint64(be32(hi))<<32 | uint64(be32(lo))
}

// readTimespec decodes a guest struct timespec (64-bit seconds, split as two
// big-endian 32-bit halves, plus a 32-bit nanosecond field).
func readTimespec(mem *memory.Image, addr uint32) (sec int64, nsec int64, err error) {
	b, err := mem.GuestToHost(addr, timespecSize)
	if err != nil {
		return 0, 0, err
	}
	sec = int64(be64pair(b[0:4], b[4:8]))
	nsec = int64(be32(b[8:12]))
	return sec, nsec, nil
}

func writeTimespec(mem *memory.Image, addr uint32, sec, nsec int64) error {
	b, err := mem.GuestToHostMut(addr, timespecSize)
	if err != nil {
		return err
	}
	putBE32(b[0:4], uint32(uint64(sec)>>32))
	putBE32(b[4:8], uint32(sec))
	putBE32(b[8:12], uint32(nsec))
	return nil
}

func readTimeval(mem *memory.Image, addr uint32) (sec int64, usec int64, err error) {
	b, err := mem.GuestToHost(addr, timevalSize)
	if err != nil {
		return 0, 0, err
	}
	sec = int64(be64pair(b[0:4], b[4:8]))
	usec = int64(be32(b[8:12]))
	return sec, usec, nil
}

func writeTimeval(mem *memory.Image, addr uint32, sec, usec int64) error {
	b, err := mem.GuestToHostMut(addr, timevalSize)
	if err != nil {
		return err
	}
	putBE32(b[0:4], uint32(uint64(sec)>>32))
	putBE32(b[4:8], uint32(sec))
	putBE32(b[8:12], uint32(usec))
	return nil
}

// hostStat is the subset of unix.Stat_t the m68k layout carries.
type hostStat struct {
	Dev, Ino, Mode, Nlink, Uid, Gid, Rdev uint32
	Size, Blksize, Blocks                 uint32
	Atime, Mtime, Ctime                   uint32
}

// writeStat packs a host stat result into the 56-byte m68k layout: thirteen
// big-endian 32-bit fields (dev, ino, mode, nlink, uid, gid, rdev, size,
// blksize, blocks, atime, mtime, ctime) followed by 4 bytes of padding.
func writeStat(mem *memory.Image, addr uint32, s hostStat) error {
	b, err := mem.GuestToHostMut(addr, statSize)
	if err != nil {
		return err
	}
	fields := []uint32{s.Dev, s.Ino, s.Mode, s.Nlink, s.Uid, s.Gid, s.Rdev, s.Size, s.Blksize, s.Blocks, s.Atime, s.Mtime, s.Ctime}
	for i, f := range fields {
		putBE32(b[i*4:i*4+4], f)
	}
	for i := len(fields) * 4; i < statSize; i++ {
		b[i] = 0
	}
	return nil
}

// readIOVec decodes an array of n guest iovec entries ((u32 base, u32 len)
// pairs) starting at addr into host-addressable byte slices.
func readIOVec(mem *memory.Image, addr uint32, n int) ([][]byte, error) {
	out := make([][]byte, n)
	for i := 0; i < n; i++ {
		b, err := mem.GuestToHost(addr+uint32(i*iovecSize), iovecSize)
		if err != nil {
			return nil, err
		}
		base, length := be32(b[0:4]), be32(b[4:8])
		host, err := mem.GuestToHostMut(base, length)
		if err != nil {
			return nil, err
		}
		out[i] = host
	}
	return out, nil
}

// readRlimit decodes the two 64-bit (high32, low32 big-endian pair) values
// of a guest rlimit64.
func readRlimit(mem *memory.Image, addr uint32) (cur, max uint64, err error) {
	b, err := mem.GuestToHost(addr, rlimitSize)
	if err != nil {
		return 0, 0, err
	}
	cur = be64pair(b[0:4], b[4:8])
	max = be64pair(b[8:12], b[12:16])
	return cur, max, nil
}

func writeRlimit(mem *memory.Image, addr uint32, cur, max uint64) error {
	b, err := mem.GuestToHostMut(addr, rlimitSize)
	if err != nil {
		return err
	}
	putBE32(b[0:4], uint32(cur>>32))
	putBE32(b[4:8], uint32(cur))
	putBE32(b[8:12], uint32(max>>32))
	putBE32(b[12:16], uint32(max))
	return nil
}

// openFlagFromGuest remaps the m68k open(2) flag bits that differ from the
// host's x86-64 values (O_DIRECTORY/O_NOFOLLOW/O_DIRECT/O_LARGEFILE); the
// low 15 octal bits and O_CLOEXEC are bitwise-compatible and pass through.
func openFlagFromGuest(guest uint32) uint32 {
	const (
		guestDirectory = 0040000
		guestNoFollow  = 0100000
		guestDirect    = 0200000
		guestLargefile = 0400000

		hostDirect    = 0040000
		hostLargefile = 0100000
		hostDirectory = 0200000
		hostNoFollow  = 0400000
	)
	host := guest &^ uint32(guestDirectory|guestNoFollow|guestDirect|guestLargefile)
	if guest&guestDirectory != 0 {
		host |= hostDirectory
	}
	if guest&guestNoFollow != 0 {
		host |= hostNoFollow
	}
	if guest&guestDirect != 0 {
		host |= hostDirect
	}
	if guest&guestLargefile != 0 {
		host |= hostLargefile
	}
	return host
}
