package linux

import (
	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
)

func hGettimeofday(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return errnoToGuest(err), nil
	}
	if r.D[1] != 0 {
		if err := writeTimeval(c.Mem, r.D[1], int64(tv.Sec), int64(tv.Usec)); err != nil {
			return errnoToGuest(unix.EFAULT), nil
		}
	}
	return 0, nil
}

func hClockGettime(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var ts unix.Timespec
	if err := unix.ClockGettime(int32(r.D[1]), &ts); err != nil {
		return errnoToGuest(err), nil
	}
	if err := writeTimespec(c.Mem, r.D[2], int64(ts.Sec), int64(ts.Nsec)); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return 0, nil
}

func hTime(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return errnoToGuest(err), nil
	}
	if r.D[1] != 0 {
		b, err := c.Mem.GuestToHostMut(r.D[1], 8)
		if err != nil {
			return errnoToGuest(unix.EFAULT), nil
		}
		putBE32(b[0:4], uint32(uint64(ts.Sec)>>32))
		putBE32(b[4:8], uint32(ts.Sec))
	}
	return int64(ts.Sec), nil
}

func hNanosleep(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	sec, nsec, err := readTimespec(c.Mem, r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	req := unix.Timespec{Sec: sec, Nsec: nsec}
	var rem unix.Timespec
	if err := unix.Nanosleep(&req, &rem); err != nil {
		if r.D[2] != 0 {
			_ = writeTimespec(c.Mem, r.D[2], int64(rem.Sec), int64(rem.Nsec))
		}
		return errnoToGuest(err), nil
	}
	return 0, nil
}

func hGetrlimit(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	var rl unix.Rlimit
	if err := unix.Getrlimit(int(r.D[1]), &rl); err != nil {
		return errnoToGuest(err), nil
	}
	if err := writeRlimit(c.Mem, r.D[2], rl.Cur, rl.Max); err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	return 0, nil
}

func hSetrlimit(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	cur, max, err := readRlimit(c.Mem, r.D[2])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	if err := unix.Setrlimit(int(r.D[1]), &unix.Rlimit{Cur: cur, Max: max}); err != nil {
		return errnoToGuest(err), nil
	}
	return 0, nil
}
