package linux

import (
	"testing"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/memory"
)

func newTestCPU() *cpu.CPU {
	mem := memory.NewImage()
	_ = mem.AddSegment(memory.NewOwnedSegment(0x10000, memory.PageSize, memory.ProtRead|memory.ProtWrite, "test"))
	return cpu.New(mem)
}

func TestHandleSyscallUnknownReturnsENOSYS(t *testing.T) {
	d := NewDispatcher("/bin/test", HeapState{}, TLSState{})
	c := newTestCPU()
	c.Syscalls = d
	c.Regs.D[0] = 0xffffff // not in the table at all
	if err := d.HandleSyscall(c); err != nil {
		t.Fatalf("HandleSyscall: %v", err)
	}
	if int32(c.Regs.D[0]) >= 0 {
		t.Fatalf("D0 = %d, want negative errno", int32(c.Regs.D[0]))
	}
}

func TestHExitSetsHaltedAndExitCode(t *testing.T) {
	d := NewDispatcher("/bin/test", HeapState{}, TLSState{})
	c := newTestCPU()
	c.Regs.D[0] = 1
	c.Regs.D[1] = 7
	if err := d.HandleSyscall(c); err != nil {
		t.Fatalf("HandleSyscall: %v", err)
	}
	if !c.Halted {
		t.Fatal("expected c.Halted")
	}
	if c.ExitCode != 7 {
		t.Fatalf("ExitCode = %d, want 7", c.ExitCode)
	}
}

func TestHUnameOverridesMachine(t *testing.T) {
	d := NewDispatcher("/bin/test", HeapState{}, TLSState{})
	c := newTestCPU()
	c.Regs.D[0] = 122
	c.Regs.D[1] = 0x10000
	if err := d.HandleSyscall(c); err != nil {
		t.Fatalf("HandleSyscall: %v", err)
	}
	if c.Regs.D[0] != 0 {
		t.Fatalf("D0 = %d, want 0", int32(c.Regs.D[0]))
	}
	buf, err := c.Mem.GuestToHost(0x10000+4*utsFieldLen, utsFieldLen)
	if err != nil {
		t.Fatalf("GuestToHost: %v", err)
	}
	got := string(cstr(buf))
	if got != "m68k" {
		t.Fatalf("machine field = %q, want %q", got, "m68k")
	}
}

func TestAtomicBarrierIsNoop(t *testing.T) {
	d := NewDispatcher("/bin/test", HeapState{}, TLSState{})
	c := newTestCPU()
	c.Regs.D[0] = 336
	if err := d.HandleSyscall(c); err != nil {
		t.Fatalf("HandleSyscall: %v", err)
	}
	if c.Regs.D[0] != 0 {
		t.Fatalf("D0 = %d, want 0", int32(c.Regs.D[0]))
	}
}

func TestAtomicCmpxchg32(t *testing.T) {
	d := NewDispatcher("/bin/test", HeapState{}, TLSState{})
	c := newTestCPU()
	if err := c.Mem.WriteLong(0x10000, 42); err != nil {
		t.Fatalf("WriteLong: %v", err)
	}
	c.Regs.D[0] = 335
	c.Regs.D[1] = 0x10000
	c.Regs.D[2] = 42
	c.Regs.D[3] = 99
	if err := d.HandleSyscall(c); err != nil {
		t.Fatalf("HandleSyscall: %v", err)
	}
	if c.Regs.D[0] != 42 {
		t.Fatalf("D0 = %d, want old value 42", int32(c.Regs.D[0]))
	}
	v, err := c.Mem.ReadLong(0x10000)
	if err != nil {
		t.Fatalf("ReadLong: %v", err)
	}
	if v != 99 {
		t.Fatalf("memory = %d, want 99 after successful cmpxchg", v)
	}
}
