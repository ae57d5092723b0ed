// Command emu68k loads a statically linked m68k Linux ELF binary and runs
// it, translating its instructions and syscalls onto the host x86-64 Linux
// kernel. Flag handling follows the teacher's main.go: github.com/pborman/
// getopt/v2 long/short pairs and a usage banner.
package main

import (
	"log/slog"
	"os"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/linux"
	"github.com/kbrown/emu68k/internal/loader"
	"github.com/kbrown/emu68k/internal/memory"
	"github.com/kbrown/emu68k/internal/monitor"
	"github.com/kbrown/emu68k/internal/obslog"
)

func main() {
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optInsnTrace := getopt.BoolLong("insn-trace", 0, "Trace every decoded instruction")
	optTrapTrace := getopt.BoolLong("trap-trace", 0, "Trace every TRAP #0 syscall")
	optMonitor := getopt.BoolLong("monitor", 'm', "Drop into the debug monitor instead of free-running")
	optEnv := getopt.ListLong("env", 'e', "Guest environment variable KEY=VALUE (repeatable)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("<elf> [guest-argv...]")
	getopt.Parse()
	args := getopt.Args()

	if *optHelp || len(args) == 0 {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		var err error
		logFile, err = os.Create(*optLogFile)
		if err != nil {
			os.Exit(1)
		}
	} else {
		logFile = os.Stdout
	}
	level := slog.LevelInfo
	if *optInsnTrace || *optTrapTrace {
		level = slog.LevelDebug
	}
	log := slog.New(obslog.NewHandler(logFile, level))
	slog.SetDefault(log)

	elfPath := args[0]
	guestArgv := args

	guestEnvp := os.Environ()
	if optEnv != nil && len(*optEnv) > 0 {
		guestEnvp = []string(*optEnv)
	}

	f, err := os.Open(elfPath)
	if err != nil {
		log.Error("open", "path", elfPath, "err", err.Error())
		os.Exit(1)
	}
	defer f.Close()

	mem := memory.NewImage()
	loaded, err := loader.Load(mem, f)
	if err != nil {
		log.Error("load", "err", err.Error())
		os.Exit(1)
	}

	sp, err := cpu.BuildInitialStack(mem, loaded.StackTop, guestArgv, guestEnvp, loaded.Info)
	if err != nil {
		log.Error("build_stack", "err", err.Error())
		os.Exit(1)
	}

	c := cpu.New(mem)
	c.Regs.PC = loaded.Info.EntryPoint
	c.Regs.A[7] = sp

	if *optInsnTrace || *optTrapTrace {
		c.Trace = obslog.NewTrace(log)
	}

	tls := linux.TLSState{Vaddr: loaded.TLSVaddr, Memsz: loaded.TLSMemsz, TPBase: loaded.TLSVaddr + 0x7000}
	heap := linux.HeapState{SegBase: loaded.HeapStart, Brk: loaded.HeapStart, StackLimit: loaded.StackBase}
	c.Syscalls = linux.NewDispatcher(absPath(elfPath), heap, tls)

	if *optMonitor {
		monitor.Run(c)
		return
	}

	if err := c.Run(nil); err != nil {
		if f, ok := err.(*cpu.Fault); ok {
			log.Error("fault", "kind", f.Kind.String())
			os.Stderr.WriteString(cpu.DumpDiagnostic(f))
			os.Exit(1)
		}
		log.Error("run", "err", err.Error())
		os.Exit(1)
	}
	os.Exit(c.ExitCode)
}

func absPath(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return p
	}
	return wd + "/" + p
}
