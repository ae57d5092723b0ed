package linux

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
)

// hostDirent is one decoded struct linux_dirent64 entry from the host.
type hostDirent struct {
	ino  uint64
	off  int64
	typ  uint8
	name string
}

// parseHostDirents walks a buffer of native struct linux_dirent64 records
// (u64 ino, s64 off, u16 reclen, u8 type, name[]) as returned by the host
// getdents64 syscall.
func parseHostDirents(buf []byte) []hostDirent {
	var out []hostDirent
	off := 0
	for off < len(buf) {
		reclen := int(binary.LittleEndian.Uint16(buf[off+16 : off+18]))
		if reclen == 0 {
			break
		}
		ino := binary.LittleEndian.Uint64(buf[off : off+8])
		doff := int64(binary.LittleEndian.Uint64(buf[off+8 : off+16]))
		typ := buf[off+18]
		nameStart := off + 19
		nameEnd := nameStart
		for nameEnd < off+reclen && buf[nameEnd] != 0 {
			nameEnd++
		}
		out = append(out, hostDirent{ino: ino, off: doff, typ: typ, name: string(buf[nameStart:nameEnd])})
		off += reclen
	}
	return out
}

func hGetdents64(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	scratch := make([]byte, r.D[3])
	n, err := unix.Getdents(int(r.D[1]), scratch)
	if err != nil {
		return errnoToGuest(err), nil
	}
	entries := parseHostDirents(scratch[:n])

	out := make([]byte, 0, n)
	for _, e := range entries {
		nameBytes := append([]byte(e.name), 0)
		reclen := alignUp8(19 + len(nameBytes))
		rec := make([]byte, reclen)
		binary.BigEndian.PutUint64(rec[0:8], e.ino)
		binary.BigEndian.PutUint64(rec[8:16], uint64(e.off))
		binary.BigEndian.PutUint16(rec[16:18], uint16(reclen))
		rec[18] = e.typ
		copy(rec[19:], nameBytes)
		out = append(out, rec...)
	}
	if len(out) > int(r.D[3]) {
		return errnoToGuest(unix.EINVAL), nil
	}
	if err := c.Mem.WriteData(r.D[2], out); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return int64(len(out)), nil
}

// hGetdents repacks host entries into the legacy 32-bit linux_dirent layout:
// u32 d_ino; i32 d_off; u16 d_reclen; char d_name[]\0; pad; u8 d_type, with
// d_type occupying the record's final byte and d_reclen aligned to 2.
func hGetdents(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	scratch := make([]byte, r.D[3])
	n, err := unix.Getdents(int(r.D[1]), scratch)
	if err != nil {
		return errnoToGuest(err), nil
	}
	entries := parseHostDirents(scratch[:n])

	out := make([]byte, 0, n)
	for _, e := range entries {
		nameBytes := append([]byte(e.name), 0)
		base := 4 + 4 + 2 + len(nameBytes)
		reclen := alignUp2(base + 1)
		rec := make([]byte, reclen)
		binary.BigEndian.PutUint32(rec[0:4], uint32(e.ino))
		binary.BigEndian.PutUint32(rec[4:8], uint32(e.off))
		binary.BigEndian.PutUint16(rec[8:10], uint16(reclen))
		copy(rec[10:], nameBytes)
		rec[reclen-1] = e.typ
		out = append(out, rec...)
	}
	if len(out) > int(r.D[3]) {
		return errnoToGuest(unix.EINVAL), nil
	}
	if err := c.Mem.WriteData(r.D[2], out); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return int64(len(out)), nil
}

func alignUp8(n int) int { return (n + 7) &^ 7 }
func alignUp2(n int) int { return (n + 1) &^ 1 }
