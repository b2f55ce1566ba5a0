package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerWritesConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "monitor.log")

	l, err := New(Options{Console: &buf, File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Warn("consecutive failures", map[string]interface{}{"count": 1})
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, out := range []string{buf.String(), string(data)} {
		if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "count=1") || !strings.Contains(out, "time=") {
			t.Fatalf("unexpected log output: %q", out)
		}
	}
}

func TestLoggerDebugRequiresVerbose(t *testing.T) {
	var quiet, loud bytes.Buffer
	q, _ := New(Options{Console: &quiet})
	v, _ := New(Options{Console: &loud, Verbose: true})

	q.Debug("polling", nil)
	v.Debug("polling", nil)

	if quiet.Len() != 0 {
		t.Fatalf("debug should be suppressed, got %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "polling") {
		t.Fatalf("debug should be written in verbose mode, got %q", loud.String())
	}
}

func TestLoggerErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Options{Console: &buf})
	l.Error("restart failed", errors.New("AWS Error"), map[string]interface{}{"instance": "i-1"})

	out := buf.String()
	if !strings.Contains(out, `error="AWS Error"`) || !strings.Contains(out, "instance=i-1") {
		t.Fatalf("unexpected output: %q", out)
	}
}
