package cpu

import (
	"testing"

	"github.com/kbrown/emu68k/internal/memory"
)

type fakeSyscaller struct {
	calls []uint32
}

func (f *fakeSyscaller) HandleSyscall(c *CPU) error {
	f.calls = append(f.calls, c.Regs.D[0])
	c.Halted = true
	c.ExitCode = int(int32(c.Regs.D[0]))
	return nil
}

func TestStepMoveQThenTrap(t *testing.T) {
	mem := memory.NewImage()
	if err := mem.AddSegment(memory.NewOwnedSegment(0x1000, memory.PageSize, memory.ProtRead|memory.ProtWrite|memory.ProtExec, "code")); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	// MOVEQ #5,D0 (0x7005), TRAP #0 (0x4e40)
	if err := mem.WriteData(0x1000, []byte{0x70, 0x05, 0x4e, 0x40}); err != nil {
		t.Fatalf("WriteData: %v", err)
	}

	c := New(mem)
	c.Regs.PC = 0x1000
	fs := &fakeSyscaller{}
	c.Syscalls = fs

	if err := c.Step(); err != nil {
		t.Fatalf("Step (moveq): %v", err)
	}
	if c.Regs.D[0] != 5 {
		t.Fatalf("D0 = %d, want 5", c.Regs.D[0])
	}
	if c.Regs.PC != 0x1002 {
		t.Fatalf("PC = %#x, want 0x1002", c.Regs.PC)
	}

	if err := c.Step(); err != nil {
		t.Fatalf("Step (trap): %v", err)
	}
	if !c.Halted {
		t.Fatal("expected Halted after trap handler")
	}
	if len(fs.calls) != 1 || fs.calls[0] != 5 {
		t.Fatalf("syscaller calls = %v, want [5]", fs.calls)
	}
}

func TestRunStopsAtBreakpoint(t *testing.T) {
	mem := memory.NewImage()
	_ = mem.AddSegment(memory.NewOwnedSegment(0x2000, memory.PageSize, memory.ProtRead|memory.ProtWrite|memory.ProtExec, "code"))
	// NOP, NOP, TRAP #0
	_ = mem.WriteData(0x2000, []byte{0x4e, 0x71, 0x4e, 0x71, 0x4e, 0x40})

	c := New(mem)
	c.Regs.PC = 0x2000
	c.Syscalls = &fakeSyscaller{}

	stopped := false
	err := c.Run(func(pc uint32) bool {
		if pc == 0x2002 {
			stopped = true
			return true
		}
		return false
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !stopped {
		t.Fatal("expected Run to stop at the breakpoint")
	}
	if c.Regs.PC != 0x2002 {
		t.Fatalf("PC = %#x, want 0x2002", c.Regs.PC)
	}
	if c.Halted {
		t.Fatal("should not have reached the trap yet")
	}
}
