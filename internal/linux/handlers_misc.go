package linux

import (
	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
)

func hExit(d *Dispatcher, c *cpu.CPU) (int64, error) {
	c.Halted = true
	c.ExitCode = int(int32(c.Regs.D[1]))
	return 0, nil
}

func hExitGroup(d *Dispatcher, c *cpu.CPU) (int64, error) {
	c.Halted = true
	c.ExitCode = int(int32(c.Regs.D[1]))
	return 0, nil
}

const utsFieldLen = 65

// hUname fills the six 65-byte name fields of struct new_utsname. These are
// plain char arrays, not integers, so no endian translation applies; only
// the machine field is overridden to advertise the guest architecture.
func hUname(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return errnoToGuest(err), nil
	}
	buf, err := c.Mem.GuestToHostMut(r.D[1], utsFieldLen*6)
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	fields := [][]byte{uts.Sysname[:], uts.Nodename[:], uts.Release[:], uts.Version[:], uts.Machine[:], uts.Domainname[:]}
	for i, f := range fields {
		dst := buf[i*utsFieldLen : (i+1)*utsFieldLen]
		n := copy(dst, cstr(f))
		for j := n; j < utsFieldLen; j++ {
			dst[j] = 0
		}
	}
	copy(buf[4*utsFieldLen:5*utsFieldLen], "m68k\x00")
	return 0, nil
}

func cstr(b []byte) []byte {
	for i, c := range b {
		if c == 0 {
			return b[:i]
		}
	}
	return b
}

// hSysinfo packs the host sysinfo result into the 32-bit-field m68k layout:
// uptime, loads[3], totalram, freeram, sharedram, bufferram, totalswap,
// freeswap, procs (u16, then 2 bytes padding), totalhigh, freehigh, mem_unit.
func hSysinfo(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err != nil {
		return errnoToGuest(err), nil
	}
	const size = 4 + 4*3 + 4*6 + 4 + 4 + 4 + 4
	buf, err := c.Mem.GuestToHostMut(r.D[1], size)
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	put32 := func(off int, v uint64) { putBE32(buf[off:off+4], uint32(v)) }
	put32(0, uint64(si.Uptime))
	put32(4, uint64(si.Loads[0]))
	put32(8, uint64(si.Loads[1]))
	put32(12, uint64(si.Loads[2]))
	put32(16, si.Totalram)
	put32(20, si.Freeram)
	put32(24, si.Sharedram)
	put32(28, si.Bufferram)
	put32(32, si.Totalswap)
	put32(36, si.Freeswap)
	buf[40], buf[41] = byte(si.Procs>>8), byte(si.Procs)
	buf[42], buf[43] = 0, 0
	put32(44, si.Totalhigh)
	put32(48, si.Freehigh)
	put32(52, uint64(si.Unit))
	return 0, nil
}

func hGetrandom(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	buf, err := c.Mem.GuestToHostMut(r.D[1], r.D[2])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	n, err := unix.Getrandom(buf, int(r.D[3]))
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}

// hGetThreadArea/hSetThreadArea manage the m68k thread pointer, defined as
// tls_vaddr + 0x7000. Changing it copies the old 4KB TCB window forward so
// any state glibc stashed there (stack guard, dtv) survives the move.
func hGetThreadArea(d *Dispatcher, c *cpu.CPU) (int64, error) {
	return int64(d.TLS.TPBase), nil
}

func hSetThreadArea(d *Dispatcher, c *cpu.CPU) (int64, error) {
	newTP := c.Regs.D[1]
	oldTP := d.TLS.TPBase
	if oldTP != 0 && newTP != oldTP {
		old, err := c.Mem.GuestToHost(oldTP, 0x1000)
		if err == nil {
			_ = c.Mem.WriteData(newTP, old)
		}
	}
	d.TLS.TPBase = newTP
	return 0, nil
}

func hAtomicCmpxchg32(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	old, err := c.Mem.ReadLong(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	if old == r.D[2] {
		if err := c.Mem.WriteLong(r.D[1], r.D[3]); err != nil {
			return errnoToGuest(unix.EFAULT), nil
		}
	}
	return int64(old), nil
}

// hAtomicBarrier is a no-op: the interpreter is single-threaded and
// memory operations already happen in program order.
func hAtomicBarrier(d *Dispatcher, c *cpu.CPU) (int64, error) {
	return 0, nil
}
