package linux

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/loader"
	"github.com/kbrown/emu68k/internal/memory"
)

// hExecve reparses the referenced ELF into a fresh memory image, rebuilds
// the register file and heap/TLS/brk bookkeeping, and reseeds the initial
// stack, matching what execve does to a real process's address space. No
// host process boundary exists here, so the caller's run loop simply keeps
// going with the CPU mutated in place; on failure (can't open or parse the
// new image) it returns a guest -errno rather than an emulator fault, since
// a real execve failure is observable to the caller exactly that way.
func hExecve(d *Dispatcher, c *cpu.CPU) (int64, error) {
	r := &c.Regs
	path, err := c.Mem.ReadCString(r.D[1])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	argv, err := readCStringArray(c.Mem, r.D[2])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}
	envp, err := readCStringArray(c.Mem, r.D[3])
	if err != nil {
		return errnoToGuest(unix.EFAULT), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return errnoToGuest(unix.ENOENT), nil
	}
	defer f.Close()

	newMem := memory.NewImage()
	loaded, err := loader.Load(newMem, f)
	if err != nil {
		return errnoToGuest(unix.ENOEXEC), nil
	}

	sp, err := cpu.BuildInitialStack(newMem, loaded.StackTop, argv, envp, loaded.Info)
	if err != nil {
		return errnoToGuest(unix.ENOMEM), nil
	}

	*c.Mem = *newMem
	c.Regs = cpu.Registers{}
	c.Regs.PC = loaded.Info.EntryPoint
	c.Regs.A[7] = sp

	d.ExePath = path
	d.Heap.SegBase = loaded.HeapStart
	d.Heap.Brk = loaded.HeapStart
	d.Heap.StackLimit = loaded.StackBase
	d.TLS = TLSState{Vaddr: loaded.TLSVaddr, Memsz: loaded.TLSMemsz, TPBase: loaded.TLSVaddr + 0x7000}

	return 0, nil
}

func readCStringArray(mem *memory.Image, addr uint32) ([]string, error) {
	var out []string
	for {
		ptr, err := mem.ReadLong(addr)
		if err != nil {
			return nil, err
		}
		if ptr == 0 {
			return out, nil
		}
		s, err := mem.ReadCString(ptr)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		addr += 4
	}
}
