package linux

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/memory"
)

// shmHostRegion wraps a host shmat() attachment as a memory.ForeignRegion so
// the guest's shared-memory segment can be released via shmdt on removal.
type shmHostRegion struct {
	ptr  uintptr
	size uintptr
}

func (r *shmHostRegion) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(r.ptr)), r.size)
}

func (r *shmHostRegion) Release() error {
	return unix.SysvShmDetach(r.ptr)
}

func hShmat(d *Dispatcher, c *cpu.CPU) (int64, error) {
	rg := &c.Regs
	ptr, err := unix.SysvShmAttach(int(int32(rg.D[1])), 0, int(rg.D[3]))
	if err != nil {
		return errnoToGuest(err), nil
	}
	var ds unix.SysvShmDesc
	if _, err := unix.SysvShmCtl(int(int32(rg.D[1])), unix.IPC_STAT, &ds); err != nil {
		_ = unix.SysvShmDetach(ptr)
		return errnoToGuest(err), nil
	}
	size := uintptr(ds.Segsz)
	base, ok := c.Mem.FindFreeRange(uint32(size))
	if !ok {
		_ = unix.SysvShmDetach(ptr)
		return errnoToGuest(unix.ENOMEM), nil
	}
	region := &shmHostRegion{ptr: ptr, size: size}
	seg := memory.NewForeignSegment(base, memory.ProtRead|memory.ProtWrite, "shm", region)
	if err := c.Mem.AddSegment(seg); err != nil {
		_ = unix.SysvShmDetach(ptr)
		return errnoToGuest(unix.ENOMEM), nil
	}
	return int64(base), nil
}

func hShmdt(d *Dispatcher, c *cpu.CPU) (int64, error) {
	if !c.Mem.RemoveSegmentAt(c.Regs.D[1]) {
		return errnoToGuest(unix.EINVAL), nil
	}
	return 0, nil
}

// ipc multiplex call numbers, per the classic SysV ipc(2) syscall.
const (
	ipcSemOp      = 1
	ipcSemGet     = 2
	ipcSemCtl     = 3
	ipcSemTimedOp = 4
	ipcMsgSnd     = 11
	ipcMsgRcv     = 12
	ipcMsgGet     = 13
	ipcMsgCtl     = 14
	ipcShmAt      = 21
	ipcShmDt      = 22
	ipcShmGet     = 23
	ipcShmCtl     = 24
)

// hIpc is the m68k-specific multiplexer syscall: a sub-call number in D1
// selects the real operation and the remaining arguments are reshuffled to
// match that operation's own calling convention before delegation. semctl
// and msgctl's union/struct payloads are passed through as raw pointers
// without layout translation - the union arg varies by cmd and a full
// per-cmd translation table is out of scope for this pass.
func hIpc(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	call, first, second, third, ptr := r.D[1], r.D[2], r.D[3], r.D[4], r.D[5]

	switch call {
	case ipcShmAt:
		r.D[1], r.D[2], r.D[3] = first, ptr, second
		return hShmat(d, c)
	case ipcShmDt:
		r.D[1] = ptr
		return hShmdt(d, c)
	case ipcShmGet:
		id, err := unix.SysvShmGet(int(first), int(second), int(third))
		return wrapIpc(id, err)
	case ipcShmCtl:
		n, _, errno := unix.Syscall(unix.SYS_SHMCTL, uintptr(first), uintptr(second), uintptr(ptr))
		return wrapIpcRaw(n, errno)
	case ipcSemGet:
		n, _, errno := unix.Syscall(unix.SYS_SEMGET, uintptr(first), uintptr(second), uintptr(third))
		return wrapIpcRaw(n, errno)
	case ipcSemCtl:
		n, _, errno := unix.Syscall6(unix.SYS_SEMCTL, uintptr(first), uintptr(second), uintptr(third), uintptr(ptr), 0, 0)
		return wrapIpcRaw(n, errno)
	case ipcSemOp, ipcSemTimedOp:
		n, _, errno := unix.Syscall(unix.SYS_SEMOP, uintptr(first), uintptr(ptr), uintptr(second))
		return wrapIpcRaw(n, errno)
	case ipcMsgGet:
		n, _, errno := unix.Syscall(unix.SYS_MSGGET, uintptr(first), uintptr(second), 0)
		return wrapIpcRaw(n, errno)
	case ipcMsgSnd:
		n, _, errno := unix.Syscall6(unix.SYS_MSGSND, uintptr(first), uintptr(ptr), uintptr(second), uintptr(third), 0, 0)
		return wrapIpcRaw(n, errno)
	case ipcMsgRcv:
		n, _, errno := unix.Syscall6(unix.SYS_MSGRCV, uintptr(first), uintptr(ptr), uintptr(second), uintptr(r.D[6]), uintptr(third), 0)
		return wrapIpcRaw(n, errno)
	case ipcMsgCtl:
		n, _, errno := unix.Syscall(unix.SYS_MSGCTL, uintptr(first), uintptr(second), uintptr(ptr))
		return wrapIpcRaw(n, errno)
	default:
		return errnoToGuest(unix.ENOSYS), nil
	}
}

func wrapIpc(n int, err error) (int64, error) {
	if err != nil {
		return errnoToGuest(err), nil
	}
	return int64(n), nil
}

func wrapIpcRaw(n uintptr, errno unix.Errno) (int64, error) {
	if errno != 0 {
		return -int64(errno), nil
	}
	return int64(n), nil
}
