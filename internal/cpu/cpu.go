package cpu

import (
	"fmt"

	"github.com/kbrown/emu68k/internal/decoder"
	"github.com/kbrown/emu68k/internal/memory"
)

// Syscaller handles a guest TRAP #0. It is implemented by internal/linux's
// dispatcher and injected at construction time so this package never
// imports the syscall layer (syscalls need the register file and memory,
// not the other way around). A handler sets c.Halted/c.ExitCode itself for
// exit and exit_group.
type Syscaller interface {
	HandleSyscall(c *CPU) error
}

// Tracer receives per-instruction and per-trap trace events when enabled,
// implemented by internal/obslog.
type Tracer interface {
	TraceInsn(pc uint32, inst decoder.Instruction)
	TraceTrap(pc uint32, number uint32)
}

// CPU is the complete emulator state: the architectural register file, the
// guest address space, and the bookkeeping the run loop and debug monitor
// need. It mirrors the teacher's split between a small immutable-shaped
// state struct and a stateless set of exec routines operating on it.
type CPU struct {
	Regs Registers
	Mem  *memory.Image

	Syscalls Syscaller
	Trace    Tracer

	decodeCache map[uint32]decoder.Instruction

	Breakpoints map[uint32]bool

	InsnCount  uint64
	Halted     bool
	ExitCode   int
}

// New constructs a CPU with its decode cache initialized and PC/SP set by
// the caller afterward (loader and initial-stack builder own that).
func New(mem *memory.Image) *CPU {
	return &CPU{
		Mem:         mem,
		decodeCache: make(map[uint32]decoder.Instruction),
		Breakpoints: make(map[uint32]bool),
	}
}

// decode fetches and decodes the instruction at pc, consulting the decode
// cache first. Per spec, self-modifying code is out of scope so the cache
// is never invalidated.
func (c *CPU) decode(pc uint32) (decoder.Instruction, error) {
	if inst, ok := c.decodeCache[pc]; ok {
		return inst, nil
	}
	inst, err := decoder.Decode(c.Mem, pc)
	if err != nil {
		return decoder.Instruction{}, newFault(FaultDecodeError, pc, c.Regs, "decode", err)
	}
	c.decodeCache[pc] = inst
	return inst, nil
}

// Step decodes and executes exactly one instruction.
func (c *CPU) Step() error {
	pc := c.Regs.PC
	inst, err := c.decode(pc)
	if err != nil {
		return err
	}
	if c.Trace != nil {
		c.Trace.TraceInsn(pc, inst)
	}
	c.Regs.PC = pc + inst.Len
	if err := c.execute(inst); err != nil {
		return err
	}
	c.InsnCount++
	return nil
}

// Run steps until the guest calls exit/exit_group (Halted) or a fault
// occurs. shouldBreak, when non-nil, is consulted before each instruction and
// lets a debug monitor interrupt execution at a breakpoint.
func (c *CPU) Run(shouldBreak func(pc uint32) bool) error {
	for !c.Halted {
		if shouldBreak != nil && shouldBreak(c.Regs.PC) {
			return nil
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// DumpDiagnostic renders the fatal-fault dump: the fault kind, the faulting
// PC, the fault message, and the data, address and status registers. It
// does not include the previous PC or the decoded instruction kind.
func DumpDiagnostic(f *Fault) string {
	s := fmt.Sprintf("fault: %s\npc=%#010x msg=%s\n", f.Kind, f.PC, f.Msg)
	for i := 0; i < 8; i++ {
		s += fmt.Sprintf("d%d=%#010x ", i, f.Regs.D[i])
	}
	s += "\n"
	for i := 0; i < 8; i++ {
		s += fmt.Sprintf("a%d=%#010x ", i, f.Regs.A[i])
	}
	s += fmt.Sprintf("\nsr=%#06x\n", uint16(f.Regs.SR))
	return s
}
