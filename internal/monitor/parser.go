// Package monitor implements the debug REPL: regs/mem/step/break/delete/
// continue/dis/quit commands over a running *cpu.CPU. Adapted from the
// teacher's command/reader + command/parser split (liner front end, a
// prefix-matched command table, a hand-rolled line tokenizer) with the
// teacher's IPL/attach/detach device vocabulary replaced by register/
// memory/breakpoint vocabulary appropriate to a single guest process.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/decoder"
	"github.com/kbrown/emu68k/internal/hexfmt"
)

type cmdLine struct {
	line string
	pos  int
}

type command struct {
	name    string
	min     int
	process func(*cmdLine, *cpu.CPU) (bool, error)
}

var cmdList = []command{
	{name: "regs", min: 1, process: cmdRegs},
	{name: "mem", min: 1, process: cmdMem},
	{name: "step", min: 2, process: cmdStep},
	{name: "break", min: 3, process: cmdBreak},
	{name: "delete", min: 3, process: cmdDelete},
	{name: "continue", min: 1, process: cmdContinue},
	{name: "dis", min: 1, process: cmdDis},
	{name: "quit", min: 1, process: cmdQuit},
}

// ProcessCommand parses and runs one monitor command line against c. The
// bool return reports whether the monitor should exit.
func ProcessCommand(line string, c *cpu.CPU) (bool, error) {
	cl := cmdLine{line: line}
	name := cl.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}
	return match[0].process(&cl, c)
}

// CompleteCmd offers prefix completions of the top-level command names,
// matching the teacher's liner.SetCompleter hookup.
func CompleteCmd(line string) []string {
	cl := cmdLine{line: line}
	name := cl.getWord()
	var out []string
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			out = append(out, m.name)
		}
	}
	return out
}

func matchCommand(m command, name string) bool {
	if len(name) == 0 || len(name) > len(m.name) {
		return false
	}
	return strings.HasPrefix(m.name, name) && len(name) >= m.min
}

func matchList(name string) []command {
	if name == "" {
		return nil
	}
	var out []command
	for _, m := range cmdList {
		if matchCommand(m, name) {
			out = append(out, m)
		}
	}
	return out
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool { return l.pos >= len(l.line) }

func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

func (l *cmdLine) getHex(def uint64) uint64 {
	w := l.getWord()
	if w == "" {
		return def
	}
	w = strings.TrimPrefix(w, "0x")
	v, err := strconv.ParseUint(w, 16, 64)
	if err != nil {
		return def
	}
	return v
}

func cmdRegs(_ *cmdLine, c *cpu.CPU) (bool, error) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "D%d=", i)
		hexfmt.Long(&b, c.Regs.D[i])
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "A%d=", i)
		hexfmt.Long(&b, c.Regs.A[i])
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "\nPC=%08x SR=%04x\n", c.Regs.PC, uint16(c.Regs.SR))
	fmt.Print(b.String())
	return false, nil
}

func cmdMem(l *cmdLine, c *cpu.CPU) (bool, error) {
	addr := uint32(l.getHex(uint64(c.Regs.PC)))
	length := uint32(l.getHex(64))
	data, err := c.Mem.GuestToHost(addr, length)
	if err != nil {
		return false, err
	}
	fmt.Print(hexfmt.Dump(addr, data))
	return false, nil
}

func cmdStep(l *cmdLine, c *cpu.CPU) (bool, error) {
	n := l.getHex(1)
	for i := uint64(0); i < n; i++ {
		if err := c.Step(); err != nil {
			return false, err
		}
	}
	return false, nil
}

func cmdBreak(l *cmdLine, c *cpu.CPU) (bool, error) {
	addr := uint32(l.getHex(uint64(c.Regs.PC)))
	c.Breakpoints[addr] = true
	return false, nil
}

func cmdDelete(l *cmdLine, c *cpu.CPU) (bool, error) {
	addr := uint32(l.getHex(uint64(c.Regs.PC)))
	delete(c.Breakpoints, addr)
	return false, nil
}

func cmdContinue(_ *cmdLine, c *cpu.CPU) (bool, error) {
	err := c.Run(func(pc uint32) bool { return c.Breakpoints[pc] })
	return false, err
}

func cmdDis(l *cmdLine, c *cpu.CPU) (bool, error) {
	addr := uint32(l.getHex(uint64(c.Regs.PC)))
	n := l.getHex(10)
	for i := uint64(0); i < n; i++ {
		inst, err := decoder.Decode(c.Mem, addr)
		if err != nil {
			return false, err
		}
		fmt.Printf("%08x  %s\n", addr, inst.String())
		addr += inst.Len
	}
	return false, nil
}

func cmdQuit(_ *cmdLine, _ *cpu.CPU) (bool, error) {
	return true, nil
}
