package cpu

import (
	"testing"

	"github.com/kbrown/emu68k/internal/memory"
)

// scenarioSyscaller is a small hand-rolled Syscaller mocking the handful of
// Linux syscall numbers the six end-to-end scenarios below exercise. It
// plays the same role as fakeSyscaller in cpu_test.go but accumulates
// written bytes and tracks a fake brk/clone boundary instead of just
// halting, so a full guest program can run to exit_group and be checked
// against its observable output.
type scenarioSyscaller struct {
	output []byte
	brk    uint32
	shared uint32 // address the mocked clone() writes 42 into
	cloned bool
}

const (
	sysExit      = 1
	sysWrite     = 4
	sysBrk       = 45
	sysWait4     = 114
	sysClone     = 120
	sysExitGroup = 247
)

func (s *scenarioSyscaller) HandleSyscall(c *CPU) error {
	r := &c.Regs
	switch r.D[0] {
	case sysExit, sysExitGroup:
		c.Halted = true
		c.ExitCode = int(int32(r.D[1]))
	case sysWrite:
		buf, err := c.Mem.GuestToHost(r.D[2], r.D[3])
		if err != nil {
			return err
		}
		s.output = append(s.output, buf...)
		r.D[0] = r.D[3]
	case sysBrk:
		if r.D[1] > s.brk {
			heap := memory.NewOwnedSegment(s.brk, r.D[1]-s.brk, memory.ProtRead|memory.ProtWrite, "heap")
			if err := c.Mem.AddSegment(heap); err != nil {
				return err
			}
		}
		if r.D[1] != 0 {
			s.brk = r.D[1]
		}
		r.D[0] = s.brk
	case sysClone:
		s.cloned = true
		if err := c.Mem.WriteLong(s.shared, 42); err != nil {
			return err
		}
		r.D[0] = 4242 // fake child pid
	case sysWait4:
		r.D[0] = 0
	default:
		return newFault(FaultUnsupportedInstruction, c.Regs.PC, c.Regs, "scenarioSyscaller: unhandled syscall", nil)
	}
	return nil
}

// asm is a tiny m68k instruction assembler used to hand-build the scenario
// programs below without running the Go toolchain's own assembler. Each
// method appends the bytes for exactly one instruction, matching the
// bit-layouts in internal/decoder/decode.go word for word.
type asm struct {
	base uint32
	buf  []byte

	// pendingNLPatches collects MOVE.L #0,Dn immediate offsets that all
	// need patching to the same forward-referenced data label once it's
	// known (TestScenarioArgvEcho's shared newline byte).
	pendingNLPatches []int
}

func (a *asm) pos() uint32 { return a.base + uint32(len(a.buf)) }

func (a *asm) w16(v uint16) { a.buf = append(a.buf, byte(v>>8), byte(v)) }

func (a *asm) w32(v uint32) {
	a.buf = append(a.buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func (a *asm) bytes(b []byte) { a.buf = append(a.buf, b...) }

// moveImmLDn: MOVE.L #imm,Dn
func (a *asm) moveImmLDn(dn int, imm uint32) {
	a.w16(uint16(0x203c + dn*0x200))
	a.w32(imm)
}

// moveImmLDnPatch emits MOVE.L #0,Dn and returns the buffer offset of the
// immediate so the caller can patch it once a forward-referenced address is
// known (e.g. a data label placed after the rest of the program).
func (a *asm) moveImmLDnPatch(dn int) int {
	a.w16(uint16(0x203c + dn*0x200))
	off := len(a.buf)
	a.w32(0)
	return off
}

func (a *asm) patchLong(off int, v uint32) {
	a.buf[off] = byte(v >> 24)
	a.buf[off+1] = byte(v >> 16)
	a.buf[off+2] = byte(v >> 8)
	a.buf[off+3] = byte(v)
}

// moveLDnDn: MOVE.L Dsrc,Ddst
func (a *asm) moveLDnDn(dst, src int) { a.w16(uint16(0x2000 + dst*0x200 + src)) }

// moveLAnDn: MOVE.L An,Dn
func (a *asm) moveLAnDn(an, dn int) { a.w16(uint16(0x2000 + dn*0x200 + 0x08 + an)) }

// moveaLDnAn: MOVEA.L Dn,An
func (a *asm) moveaLDnAn(dn, an int) { a.w16(uint16(0x2000 + an*0x200 + 0x40 + dn)) }

// moveaDispAnAm: MOVEA.L (disp,An),Am
func (a *asm) moveaDispAnAm(an, am int, disp int16) {
	a.w16(uint16(0x2000 + am*0x200 + 0x68 + an))
	a.w16(uint16(disp))
}

// moveImmIndAn: MOVE.L #imm,(An)
func (a *asm) moveImmIndAn(an int, imm uint32) {
	a.w16(uint16(0x20bc + an*0x200))
	a.w32(imm)
}

// moveImmDispAn: MOVE.L #imm,(disp,An). The source's 4-byte immediate
// extension is decoded before the destination's 2-byte displacement
// extension (decodeMove resolves Src then Dst), so imm32 precedes disp16.
func (a *asm) moveImmDispAn(an int, disp int16, imm uint32) {
	a.w16(uint16(0x217c + an*0x200))
	a.w32(imm)
	a.w16(uint16(disp))
}

// moveAbsLDn: MOVE.L addr.L,Dn
func (a *asm) moveAbsLDn(dn int, addr uint32) {
	a.w16(uint16(0x2039 + dn*0x200))
	a.w32(addr)
}

// addiLDn: ADDI.L #imm,Dn
func (a *asm) addiLDn(dn int, imm uint32) {
	a.w16(uint16(0x0680 + dn))
	a.w32(imm)
}

// cmpLDnDn: CMP.L Dsrc,Ddst
func (a *asm) cmpLDnDn(dst, src int) { a.w16(uint16(0xb080 + dst*0x200 + src)) }

// cmpiLDn: CMPI.L #imm,Dn
func (a *asm) cmpiLDn(dn int, imm uint32) {
	a.w16(uint16(0x0c80 + dn))
	a.w32(imm)
}

func (a *asm) trap0() { a.w16(0x4e40) }

// casL: CAS.L Dc,Du,(An)
func (a *asm) casL(dc, du, an int) {
	a.w16(uint16(0x0ed0 + an))
	a.w16(uint16(du<<9 | dc))
}

// bfins: BFINS Dsrc,D0{offset:width}
func (a *asm) bfins(srcReg int, offset, width uint32) {
	a.w16(0xe7c0)
	a.w16(uint16(srcReg<<12) | uint16(offset<<6) | uint16(width&0x1f))
}

// bfextu: BFEXTU D0{offset:width},Ddst
func (a *asm) bfextu(dstReg int, offset, width uint32) {
	a.w16(0xe1c0)
	a.w16(uint16(dstReg<<12) | uint16(offset<<6) | uint16(width&0x1f))
}

// bne emits BNE with a placeholder 16-bit displacement and returns the
// instruction's own address plus the buffer offset of the displacement
// word, so the caller can patch it once the fail label's address is known.
func (a *asm) bne() (instrAddr uint32, dispOff int) {
	instrAddr = a.pos()
	a.w16(0x6600)
	dispOff = len(a.buf)
	a.w16(0)
	return
}

func (a *asm) patchBranch(instrAddr uint32, dispOff int, target uint32) {
	disp := int16(int64(target) - int64(instrAddr) - 2)
	a.buf[dispOff] = byte(uint16(disp) >> 8)
	a.buf[dispOff+1] = byte(uint16(disp))
}

func newScenarioCPU(t *testing.T, base uint32, code []byte, sharedPage uint32) (*CPU, *scenarioSyscaller) {
	t.Helper()
	mem := memory.NewImage()
	if err := mem.AddSegment(memory.NewOwnedSegment(base, memory.PageSize*4, memory.ProtRead|memory.ProtWrite|memory.ProtExec, "code")); err != nil {
		t.Fatalf("AddSegment code: %v", err)
	}
	if sharedPage != 0 {
		if err := mem.AddSegment(memory.NewOwnedSegment(sharedPage, memory.PageSize, memory.ProtRead|memory.ProtWrite, "shared")); err != nil {
			t.Fatalf("AddSegment shared: %v", err)
		}
	}
	if err := mem.WriteData(base, code); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	c := New(mem)
	c.Regs.PC = base
	sc := &scenarioSyscaller{brk: 0x20000, shared: sharedPage}
	c.Syscalls = sc
	return c, sc
}

func runScenario(t *testing.T, c *CPU) {
	t.Helper()
	const maxSteps = 10000
	for i := 0; !c.Halted; i++ {
		if i >= maxSteps {
			t.Fatalf("scenario did not halt within %d steps (PC=%#x)", maxSteps, c.Regs.PC)
		}
		if err := c.Step(); err != nil {
			t.Fatalf("Step at PC=%#x: %v", c.Regs.PC, err)
		}
	}
}

// TestScenarioHello writes "hello\n" to fd 1 and exits 0.
func TestScenarioHello(t *testing.T) {
	const base = 0x1000
	a := &asm{base: base}
	a.moveImmLDn(0, sysWrite)
	a.moveImmLDn(1, 1)
	strOff := a.moveImmLDnPatch(2)
	a.moveImmLDn(3, 6)
	a.trap0()
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 0)
	a.trap0()

	strAddr := a.pos()
	a.bytes([]byte("hello\n"))
	a.patchLong(strOff, strAddr)

	c, sc := newScenarioCPU(t, base, a.buf, 0)
	runScenario(t, c)

	if c.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", c.ExitCode)
	}
	if string(sc.output) != "hello\n" {
		t.Fatalf("output = %q, want %q", sc.output, "hello\n")
	}
}

// TestScenarioArgvEcho builds a real initial stack via BuildInitialStack and
// has the guest program walk argv writing each argument followed by a
// newline, mirroring the standard "for i in argv: write(argv[i]); write(nl)"
// echo loop.
func TestScenarioArgvEcho(t *testing.T) {
	const base = 0x1000
	const stackTop = 0x9000
	argv := []string{"p", "A", "BB", "CCC"}

	a := &asm{base: base}
	for i, s := range argv {
		a.moveaDispAnAm(7, 1, int16(4+i*4)) // MOVEA.L (4+4i,A7),A1 -> argv[i]
		a.moveLAnDn(1, 2)                   // D2 = argv[i] pointer
		a.moveImmLDn(3, uint32(len(s)))
		a.moveImmLDn(0, sysWrite)
		a.moveImmLDn(1, 1)
		a.trap0()

		nlOff := a.moveImmLDnPatch(2)
		a.moveImmLDn(3, 1)
		a.moveImmLDn(0, sysWrite)
		a.moveImmLDn(1, 1)
		a.trap0()
		a.pendingNLPatches = append(a.pendingNLPatches, nlOff)
	}
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 0)
	a.trap0()

	nlAddr := a.pos()
	a.bytes([]byte{'\n'})
	for _, off := range a.pendingNLPatches {
		a.patchLong(off, nlAddr)
	}

	mem := memory.NewImage()
	if err := mem.AddSegment(memory.NewOwnedSegment(base, memory.PageSize*4, memory.ProtRead|memory.ProtWrite|memory.ProtExec, "code")); err != nil {
		t.Fatalf("AddSegment code: %v", err)
	}
	if err := mem.AddSegment(memory.NewOwnedSegment(stackTop-memory.PageSize, memory.PageSize, memory.ProtRead|memory.ProtWrite, "stack")); err != nil {
		t.Fatalf("AddSegment stack: %v", err)
	}
	if err := mem.WriteData(base, a.buf); err != nil {
		t.Fatalf("WriteData: %v", err)
	}

	sp, err := BuildInitialStack(mem, stackTop, argv, nil, ElfInfo{EntryPoint: base})
	if err != nil {
		t.Fatalf("BuildInitialStack: %v", err)
	}

	c := New(mem)
	c.Regs.PC = base
	c.Regs.A[7] = sp
	sc := &scenarioSyscaller{brk: 0x20000}
	c.Syscalls = sc

	runScenario(t, c)

	if c.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", c.ExitCode)
	}
	want := ""
	for _, s := range argv {
		want += s + "\n"
	}
	if string(sc.output) != want {
		t.Fatalf("output = %q, want %q", sc.output, want)
	}
}

// TestScenarioBrkGrow queries the current brk, grows it by one page's worth,
// writes a recognizable pattern into the new region, and reports it back
// through write so the test can confirm both the brk bookkeeping and the
// freshly grown memory are usable.
func TestScenarioBrkGrow(t *testing.T) {
	const base = 0x1000
	a := &asm{base: base}

	a.moveImmLDn(0, sysBrk)
	a.moveImmLDn(1, 0) // query current brk
	a.trap0()          // D0 = p

	a.moveaLDnAn(0, 0) // A0 = p

	a.addiLDn(0, 8192) // D0 = p + 8192
	a.moveLDnDn(1, 0)  // D1 = p + 8192
	a.moveImmLDn(0, sysBrk)
	a.trap0() // brk(p+8192)

	a.moveImmIndAn(0, 0xaaaaaaaa)     // (p)   = 0xaaaaaaaa
	a.moveImmDispAn(0, 4, 0xaaaaaaaa) // (p+4) = 0xaaaaaaaa

	a.moveImmLDn(0, sysWrite)
	a.moveImmLDn(1, 1)
	a.moveLAnDn(0, 2) // D2 = p
	a.moveImmLDn(3, 8)
	a.trap0()

	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 0)
	a.trap0()

	c, sc := newScenarioCPU(t, base, a.buf, 0)
	runScenario(t, c)

	if c.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", c.ExitCode)
	}
	if len(sc.output) != 8 {
		t.Fatalf("output len = %d, want 8", len(sc.output))
	}
	for i, b := range sc.output {
		if b != 0xaa {
			t.Fatalf("output[%d] = %#x, want 0xaa", i, b)
		}
	}
}

// TestScenarioFutexPingpong mocks clone()/wait4() (real clone() is not safe
// to issue from inside a Go test process) and has the guest read the value
// the mocked clone wrote into a shared page, acting as a stand-in for the
// wake side of a futex handshake.
func TestScenarioFutexPingpong(t *testing.T) {
	const base = 0x1000
	const sharedPage = 0x9000
	a := &asm{base: base}

	a.moveImmLDn(0, sysClone)
	a.trap0()
	a.moveImmLDn(0, sysWait4)
	a.moveImmLDn(1, 0)
	a.trap0()

	a.moveAbsLDn(1, sharedPage) // D1 = *shared
	a.cmpiLDn(1, 42)
	failAddr, failOff := a.bne()

	okOff := a.moveImmLDnPatch(2)
	a.moveImmLDn(3, 3)
	a.moveImmLDn(0, sysWrite)
	a.moveImmLDn(1, 1)
	a.trap0()
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 0)
	a.trap0()

	failLabel := a.pos()
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 1)
	a.trap0()

	a.patchBranch(failAddr, failOff, failLabel)

	okAddr := a.pos()
	a.bytes([]byte("42\n"))
	a.patchLong(okOff, okAddr)

	c, sc := newScenarioCPU(t, base, a.buf, sharedPage)
	runScenario(t, c)

	if !sc.cloned {
		t.Fatal("expected the mocked clone() to have run")
	}
	if c.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", c.ExitCode)
	}
	if string(sc.output) != "42\n" {
		t.Fatalf("output = %q, want %q", sc.output, "42\n")
	}
}

// TestScenarioBitfieldRoundTrip exercises BFINS/BFEXTU (and, via the BNE
// used to check each round trip, the PC-relative branch fix) across a
// spread of offsets and widths, using width-exact bit masks so the
// extracted value should equal the inserted value with no extra masking.
func TestScenarioBitfieldRoundTrip(t *testing.T) {
	type fieldCase struct {
		offset, width uint32
		mask          uint32
	}
	cases := []fieldCase{
		{0, 1, 0x1},
		{3, 5, 0x1f},
		{7, 9, 0x1ff},
		{15, 16, 0xffff},
		{0, 32, 0xffffffff},
	}

	const base = 0x1000
	a := &asm{base: base}

	type pendingBranch struct {
		addr uint32
		off  int
	}
	var branches []pendingBranch
	for _, fc := range cases {
		a.moveImmLDn(1, fc.mask)
		a.bfins(1, fc.offset, fc.width)
		a.bfextu(2, fc.offset, fc.width)
		a.cmpLDnDn(2, 1)
		addr, off := a.bne()
		branches = append(branches, pendingBranch{addr, off})
	}

	okOff := a.moveImmLDnPatch(2)
	a.moveImmLDn(3, 3)
	a.moveImmLDn(0, sysWrite)
	a.moveImmLDn(1, 1)
	a.trap0()
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 0)
	a.trap0()

	failLabel := a.pos()
	a.moveImmLDn(0, sysExitGroup)
	a.moveImmLDn(1, 1)
	a.trap0()

	for _, b := range branches {
		a.patchBranch(b.addr, b.off, failLabel)
	}

	okAddr := a.pos()
	a.bytes([]byte("ok\n"))
	a.patchLong(okOff, okAddr)

	c, sc := newScenarioCPU(t, base, a.buf, 0)
	runScenario(t, c)

	if c.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", c.ExitCode)
	}
	if string(sc.output) != "ok\n" {
		t.Fatalf("output = %q, want %q", sc.output, "ok\n")
	}
}

// TestScenarioCasSpin exercises CAS.L directly against CPU/memory state,
// matching the classic spin-lock idiom: a matching compare swaps in the
// update value and leaves the compare register untouched, a mismatching
// compare leaves memory alone and reloads the compare register with the
// current value.
func TestScenarioCasSpin(t *testing.T) {
	const base = 0x1000
	const cell = 0x2000
	a := &asm{base: base}
	a.casL(0, 1, 0) // CAS.L D0,D1,(A0)
	a.casL(0, 1, 0) // CAS.L D0,D1,(A0), run again after the cell changed

	mem := memory.NewImage()
	if err := mem.AddSegment(memory.NewOwnedSegment(base, memory.PageSize, memory.ProtRead|memory.ProtWrite|memory.ProtExec, "code")); err != nil {
		t.Fatalf("AddSegment code: %v", err)
	}
	if err := mem.AddSegment(memory.NewOwnedSegment(cell, memory.PageSize, memory.ProtRead|memory.ProtWrite, "cell")); err != nil {
		t.Fatalf("AddSegment cell: %v", err)
	}
	if err := mem.WriteData(base, a.buf); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if err := mem.WriteLong(cell, 1); err != nil {
		t.Fatalf("WriteLong: %v", err)
	}

	c := New(mem)
	c.Regs.PC = base
	c.Regs.A[0] = cell
	c.Regs.D[0] = 1 // Dc: expected current value
	c.Regs.D[1] = 2 // Du: update value

	if err := c.Step(); err != nil {
		t.Fatalf("Step (matching CAS): %v", err)
	}
	if !c.Regs.SR.Z() {
		t.Fatal("expected Z set after a matching CAS")
	}
	if c.Regs.D[0] != 1 {
		t.Fatalf("D0 = %d, want 1 (compare register untouched on match)", c.Regs.D[0])
	}
	v, err := mem.ReadLong(cell)
	if err != nil {
		t.Fatalf("ReadLong: %v", err)
	}
	if v != 2 {
		t.Fatalf("cell = %d, want 2 after a matching CAS", v)
	}

	if err := c.Step(); err != nil {
		t.Fatalf("Step (mismatching CAS): %v", err)
	}
	if c.Regs.SR.Z() {
		t.Fatal("expected Z clear after a mismatching CAS")
	}
	if c.Regs.D[0] != 2 {
		t.Fatalf("D0 = %d, want 2 (compare register reloaded on mismatch)", c.Regs.D[0])
	}
	v, err = mem.ReadLong(cell)
	if err != nil {
		t.Fatalf("ReadLong: %v", err)
	}
	if v != 2 {
		t.Fatalf("cell = %d, want unchanged 2 after a mismatching CAS", v)
	}
}
