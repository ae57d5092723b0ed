package linux

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
)

// handlerFunc implements one syscall whose arguments or return value need
// guest<->host translation. It returns the value to place in D0 (already in
// kernel -errno convention) and any emulator-fatal error.
type handlerFunc func(d *Dispatcher, c *cpu.CPU) (int64, error)

// Dispatcher implements cpu.Syscaller, translating m68k TRAP #0 calls onto
// the host x86-64 Linux ABI per the numbers table and the handlers in
// handlers_*.go. It is grounded on the teacher's device-dispatch table
// (opcode/unit number -> handler func) generalized from device units to
// syscall numbers.
type Dispatcher struct {
	ExePath string
	Heap    *HeapState
	TLS     TLSState

	handlers map[uint32]handlerFunc
}

// HeapState tracks the brk boundary, owned by the emulator rather than the
// host (the host has no notion of the guest's heap segment).
type HeapState struct {
	SegBase    uint32
	Brk        uint32
	StackLimit uint32
}

// TLSState records the thread pointer placement computed at load time.
type TLSState struct {
	Vaddr  uint32
	Memsz  uint32
	TPBase uint32 // tls_vaddr + 0x7000, per m68k ABI
}

// NewDispatcher builds the number->handler table. Most entries are left
// unset and fall through to genericPassthrough; only syscalls that touch
// guest pointers or differ structurally from the host ABI get a dedicated
// entry, per spec's "attach behavior only to the numbers that require
// marshalling" guidance.
func NewDispatcher(exePath string, heap HeapState, tls TLSState) *Dispatcher {
	d := &Dispatcher{ExePath: exePath, Heap: &heap, TLS: tls}
	eperm := func(*Dispatcher, *cpu.CPU) (int64, error) { return errnoToGuest(unix.EPERM), nil }
	d.handlers = map[uint32]handlerFunc{
		1:   hExit,
		247: hExitGroup,
		3:   hRead,
		4:   hWrite,
		145: hReadv,
		146: hWritev,
		5:   hOpen,
		288: hOpenat,
		106: hStat,
		195: hStat,
		107: hLstat,
		196: hLstat,
		108: hFstat,
		197: hFstat,
		220: hGetdents64,
		141: hGetdents,
		85:  hReadlink,
		298: hReadlinkat,
		45:  hBrk,
		90:  hMmap,
		192: hMmap,
		91:  hMunmap,
		125: hMprotect,
		381: hMprotect,
		78:  hGettimeofday,
		260: hClockGettime,
		403: hClockGettime,
		13:  hTime,
		162: hNanosleep,
		76:  hGetrlimit,
		191: hGetrlimit,
		75:  hSetrlimit,
		122: hUname,
		116: hSysinfo,
		352: hGetrandom,
		333: hGetThreadArea,
		334: hSetThreadArea,
		335: hAtomicCmpxchg32,
		336: hAtomicBarrier,
		117: hIpc,
		397: hShmat,
		398: hShmdt,
		11:  hExecve,
		124: eperm, // adjtimex
		342: eperm, // clock_adjtime
		405: eperm, // clock_adjtime64
		174: hNotImplemented("rt_sigaction"),
		175: hNotImplemented("rt_sigprocmask"),
		173: hNotImplemented("rt_sigreturn"),
	}
	return d
}

// HandleSyscall implements cpu.Syscaller.
func (d *Dispatcher) HandleSyscall(c *cpu.CPU) error {
	num := c.Regs.D[0]
	if h, ok := d.handlers[num]; ok {
		result, err := h(d, c)
		if err != nil {
			return err
		}
		c.Regs.D[0] = uint32(result)
		return nil
	}

	ent, ok := table[num]
	if !ok || !ent.hasHost {
		c.Regs.D[0] = uint32(errnoToGuest(unix.ENOSYS))
		return nil
	}
	result, err := genericPassthrough(c, ent.host)
	if err != nil {
		return err
	}
	c.Regs.D[0] = uint32(result)
	return nil
}

// genericPassthrough forwards D1..D5 (and D6, for the rare six-arg call)
// directly to the host syscall. This covers the bulk of the table: syscalls
// whose arguments are plain integers or whose pointed-to structures happen
// to be bit-compatible between m68k and x86-64 (none are, in practice, but
// a passthrough call that touches no guest memory - e.g. getpid, close,
// kill - never needs translation).
func genericPassthrough(c *cpu.CPU, hostNum int64) (int64, error) {
	r := &c.Regs
	a1, a2, a3 := uintptr(r.D[1]), uintptr(r.D[2]), uintptr(r.D[3])
	res, _, errno := unix.Syscall6(uintptr(hostNum), a1, a2, a3, uintptr(r.D[4]), uintptr(r.D[5]), uintptr(r.D[6]))
	if errno != 0 {
		return -int64(errno), nil
	}
	return int64(res), nil
}

func hNotImplemented(name string) handlerFunc {
	return func(d *Dispatcher, c *cpu.CPU) (int64, error) {
		return 0, fmt.Errorf("linux: syscall %s has no signal-delivery model in this emulator", name)
	}
}
