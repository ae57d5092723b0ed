package linux

import (
	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/memory"
)

const pageSize = memory.PageSize

func alignUpPage(v uint32) uint32 { return (v + pageSize - 1) &^ (pageSize - 1) }

// hBrk grows the heap segment in place. D1 holds the requested break (0
// queries the current one). Per spec the returned/recorded value is the
// exact requested address, not the page-rounded segment length, so glibc's
// own heap bookkeeping sees the break it asked for.
func hBrk(d *Dispatcher, c *cpu.CPU) (int64, error) {
	req := c.Regs.D[1]
	if req == 0 {
		return int64(d.Heap.Brk), nil
	}
	if d.Heap.StackLimit != 0 && req >= d.Heap.StackLimit {
		return int64(d.Heap.Brk), nil
	}
	newLen := alignUpPage(req - d.Heap.SegBase)
	if err := c.Mem.ResizeSegment(d.Heap.SegBase, newLen); err != nil {
		return int64(d.Heap.Brk), nil
	}
	d.Heap.Brk = req
	return int64(req), nil
}

// hMmap supports anonymous mappings only, per spec: a fresh owned segment
// sized to the requested length rounded up to a page, placed in a free gap
// the memory image picks. File-backed mmap is not required.
func hMmap(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	length := alignUpPage(r.D[2])
	prot := memory.Prot(0)
	if r.D[3]&unix.PROT_READ != 0 {
		prot |= memory.ProtRead
	}
	if r.D[3]&unix.PROT_WRITE != 0 {
		prot |= memory.ProtWrite
	}
	if r.D[3]&unix.PROT_EXEC != 0 {
		prot |= memory.ProtExec
	}
	flags := r.D[4]
	fd := int32(r.D[5])
	if flags&unix.MAP_ANONYMOUS == 0 && fd != -1 {
		return errnoToGuest(unix.ENOSYS), nil
	}
	base, ok := c.Mem.FindFreeRange(length)
	if !ok {
		return errnoToGuest(unix.ENOMEM), nil
	}
	seg := memory.NewOwnedSegment(base, length, prot, "mmap")
	if err := c.Mem.AddSegment(seg); err != nil {
		return errnoToGuest(unix.ENOMEM), nil
	}
	return int64(base), nil
}

func hMunmap(d *Dispatcher, c *cpu.CPU) (int64, error) {
	if !c.Mem.RemoveSegmentAt(c.Regs.D[1]) {
		return errnoToGuest(unix.EINVAL), nil
	}
	return 0, nil
}

// hMprotect validates the range and reports success without enforcing
// protection, per spec.
func hMprotect(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	if !c.Mem.CoversRange(r.D[1], r.D[2]) {
		return errnoToGuest(unix.ENOMEM), nil
	}
	return 0, nil
}
