package cpu

import "fmt"

// FaultKind classifies the emulator-side failures that stop the guest dead,
// as distinct from a guest-observable -errno syscall return.
type FaultKind int

const (
	FaultInvalidAddress FaultKind = iota
	FaultDivisionByZero
	FaultBoundsCheck
	FaultUnsupportedInstruction
	FaultDecodeError
	FaultSegmentCollision
	FaultInternalInvariant
)

func (k FaultKind) String() string {
	switch k {
	case FaultInvalidAddress:
		return "invalid_address"
	case FaultDivisionByZero:
		return "division_by_zero"
	case FaultBoundsCheck:
		return "bounds_check"
	case FaultUnsupportedInstruction:
		return "unsupported_instruction"
	case FaultDecodeError:
		return "decode_error"
	case FaultSegmentCollision:
		return "segment_collision"
	default:
		return "internal_invariant"
	}
}

// Fault is the emulator's only fatal error type. Every fault carries the
// state DumpDiagnostic prints: its kind, the faulting PC, a message, and the
// register file, plus the underlying error when there is one.
type Fault struct {
	Kind FaultKind
	PC   uint32
	Msg  string
	Regs Registers
	Err  error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("fault(%s) at %#08x: %s: %v", f.Kind, f.PC, f.Msg, f.Err)
	}
	return fmt.Sprintf("fault(%s) at %#08x: %s", f.Kind, f.PC, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

func newFault(kind FaultKind, pc uint32, regs Registers, msg string, err error) *Fault {
	return &Fault{Kind: kind, PC: pc, Msg: msg, Regs: regs, Err: err}
}
