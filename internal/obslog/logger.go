// Package obslog implements cpu.Tracer and wraps log/slog the way the
// teacher's util/logger package does: a slog.Handler that always writes to
// a trace file and mirrors warnings/errors to stderr, so CPU faults and
// unsupported-syscall events reach the operator even when the trace file is
// the only thing being watched.
package obslog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/kbrown/emu68k/internal/cpu"
	"github.com/kbrown/emu68k/internal/decoder"
)

// Handler is a slog.Handler that always writes to its trace file and
// mirrors Warn/Error records to stderr.
type Handler struct {
	out io.Writer
	h   slog.Handler
	mu  *sync.Mutex
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithAttrs(attrs), mu: h.mu}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, h: h.h.WithGroup(name), mu: h.mu}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	ts := r.Time.Format("2006/01/02 15:04:05")
	strs := []string{ts, level, r.Message}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Value.String())
		return true
	})
	line := strings.Join(strs, " ") + "\n"
	b := []byte(line)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(b)
	}
	return err
}

// NewHandler wraps file (the --log target) in a Handler at the given level.
func NewHandler(file io.Writer, level slog.Level) *Handler {
	return &Handler{
		out: file,
		h:   slog.NewTextHandler(file, &slog.HandlerOptions{Level: level}),
		mu:  &sync.Mutex{},
	}
}

// Trace implements cpu.Tracer on top of log/slog, so --insn-trace and
// --trap-trace share the same sink and formatting as every other log line.
type Trace struct {
	log *slog.Logger
}

func NewTrace(log *slog.Logger) *Trace { return &Trace{log: log} }

func (t *Trace) TraceInsn(pc uint32, inst decoder.Instruction) {
	t.log.Debug(fmt.Sprintf("insn pc=%#08x op=%d len=%d", pc, inst.Op, inst.Len))
}

func (t *Trace) TraceTrap(pc uint32, number uint32) {
	t.log.Debug(fmt.Sprintf("trap pc=%#08x nr=%d", pc, number))
}

var _ cpu.Tracer = (*Trace)(nil)
