package linux

import (
	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
)

func hRead(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	buf, err := c.Mem.GuestToHostMut(r.D[2], r.D[3])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	n, err := unix.Read(int(r.D[1]), buf)
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}

func hWrite(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	buf, err := c.Mem.GuestToHost(r.D[2], r.D[3])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	n, err := unix.Write(int(r.D[1]), buf)
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}

func hReadv(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	bufs, err := readIOVec(c.Mem, r.D[2], int(r.D[3]))
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	total := int64(0)
	for _, b := range bufs {
		n, err := unix.Read(int(r.D[1]), b)
		if err != nil {
			if total > 0 {
				return total, nil
			}
			return errnoToGuest(err), nil
		}
		total += int64(n)
		if n < len(b) {
			break
		}
	}
	return total, nil
}

func hWritev(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	bufs, err := readIOVec(c.Mem, r.D[2], int(r.D[3]))
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	total := int64(0)
	for _, b := range bufs {
		n, err := unix.Write(int(r.D[1]), b)
		if err != nil {
			if total > 0 {
				return total, nil
			}
			return errnoToGuest(err), nil
		}
		total += int64(n)
	}
	return total, nil
}

func hOpen(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	fd, err := unix.Open(path, int(openFlagFromGuest(r.D[2])), uint32(r.D[3]))
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(fd), nil
}

func hOpenat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[2])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	fd, err := unix.Openat(int(int32(r.D[1])), path, int(openFlagFromGuest(r.D[3])), uint32(r.D[4]))
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(fd), nil
}

func toHostStat(st *unix.Stat_t) hostStat {
	return hostStat{
		Dev: uint32(st.Dev), Ino: uint32(st.Ino), Mode: uint32(st.Mode), Nlink: uint32(st.Nlink),
		Uid: st.Uid, Gid: st.Gid, Rdev: uint32(st.Rdev), Size: uint32(st.Size),
		Blksize: uint32(st.Blksize), Blocks: uint32(st.Blocks),
		Atime: uint32(st.Atim.Sec), Mtime: uint32(st.Mtim.Sec), Ctime: uint32(st.Ctim.Sec),
	}
}

func hStat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return errnoToGuest(err), nil
	}
	if err := writeStat(c.Mem, r.D[2], toHostStat(&st)); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return 0, nil
}

func hLstat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return errnoToGuest(err), nil
	}
	if err := writeStat(c.Mem, r.D[2], toHostStat(&st)); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return 0, nil
}

func hFstat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var st unix.Stat_t
	if err := unix.Fstat(int(r.D[1]), &st); err != nil {
		return errnoToGuest(err), nil
	}
	if err := writeStat(c.Mem, r.D[2], toHostStat(&st)); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return 0, nil
}

func hReadlink(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	target := path
	isSelfExe := path == "/proc/self/exe"
	var n int
	buf, err := c.Mem.GuestToHostMut(r.D[2], r.D[3])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	if isSelfExe {
		n = copy(buf, d.ExePath)
		return int64(n), nil
	}
	n, err = unix.Readlink(target, buf)
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}

func hReadlinkat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[2])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	buf, err := c.Mem.GuestToHostMut(r.D[3], r.D[4])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	if path == "/proc/self/exe" {
		return int64(copy(buf, d.ExePath)), nil
	}
	n, err := unix.Readlinkat(int(int32(r.D[1])), path, buf)
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}
