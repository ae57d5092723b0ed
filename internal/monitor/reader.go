package monitor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/peterh/liner"

	"github.com/kbrown/emu68k/internal/cpu"
)

// Run drives the interactive debug REPL against c until "quit" or the
// prompt is aborted (Ctrl-D), mirroring the teacher's ConsoleReader.
func Run(c *cpu.CPU) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(l string) []string { return CompleteCmd(l) })

	for {
		input, err := line.Prompt("m68k> ")
		if err == nil {
			line.AppendHistory(input)
			quit, perr := ProcessCommand(input, c)
			if perr != nil {
				fmt.Println("error: " + perr.Error())
			}
			if quit {
				return
			}
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) {
			return
		}
		slog.Error("monitor: error reading line: " + err.Error())
		return
	}
}
