package obslog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))
	log.Info("hello", "key", "value")
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("log output = %q, want it to contain %q", buf.String(), "hello")
	}
	if !strings.Contains(buf.String(), "value") {
		t.Fatalf("log output = %q, want it to contain attr value", buf.String())
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))
	log.Debug("should not appear")
	if strings.Contains(buf.String(), "should not appear") {
		t.Fatal("debug record should have been filtered out at Info level")
	}
}

func TestTraceEmitsDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))
	tr := NewTrace(log)
	tr.TraceTrap(0x1000, 5)
	if !strings.Contains(buf.String(), "trap") || !strings.Contains(buf.String(), "nr=5") {
		t.Fatalf("trace output = %q, want a trap record with nr=5", buf.String())
	}
}
