package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebug_VerboseGating(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output when verbose is off, got %q", buf.String())
	}

	SetVerbose(true)
	defer SetVerbose(false)
	Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "[DEBUG] shown 2") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Warn("ledger unreadable: %s", "boom")
	if !strings.Contains(buf.String(), "[WARN] ledger unreadable: boom") {
		t.Errorf("expected warning output, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(true)
	defer SetVerbose(false)
	Section("Upload")
	if !strings.Contains(buf.String(), "=== Upload ===") {
		t.Errorf("expected section header, got %q", buf.String())
	}
}
