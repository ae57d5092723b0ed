package cpu

import "github.com/kbrown/emu68k/internal/decoder"

// execSystem handles TRAP, TRAPcc, and BKPT. Only TRAP #0 is wired to
// anything: m68k Linux userspace places the syscall number in D0 and enters
// the kernel exclusively through vector 0.
func (c *CPU) execSystem(inst decoder.Instruction) error {
	switch inst.Op {
	case decoder.OpTrap:
		if inst.Count != 0 {
			return newFault(FaultUnsupportedInstruction, inst.Address, c.Regs, "TRAP vector other than #0 is unsupported", nil)
		}
		if c.Syscalls == nil {
			return newFault(FaultInternalInvariant, inst.Address, c.Regs, "no syscall handler installed", nil)
		}
		if c.Trace != nil {
			c.Trace.TraceTrap(inst.Address, c.Regs.D[0])
		}
		return c.Syscalls.HandleSyscall(c)

	case decoder.OpTrapCC, decoder.OpBkpt:
		return newFault(FaultUnsupportedInstruction, inst.Address, c.Regs, "TRAPcc/BKPT unsupported", nil)
	}
	return newFault(FaultInternalInvariant, inst.Address, c.Regs, "execSystem: unreachable op", nil)
}
