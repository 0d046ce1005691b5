package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsoleLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Info("created task %s", "deploy")

	if got := buf.String(); got != "created task deploy\n" {
		t.Errorf("Expected plain info line, got %q", got)
	}
}

func TestConsoleLogger_ErrorPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Error("store unavailable")

	if got := buf.String(); got != "[ERROR] store unavailable\n" {
		t.Errorf("Expected [ERROR] prefix, got %q", got)
	}
}

func TestConsoleLogger_VerboseSuppressed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Verbose("retry attempt %d", 2)

	if buf.Len() != 0 {
		t.Errorf("Expected verbose output suppressed, got %q", buf.String())
	}
}

func TestConsoleLogger_VerboseEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	logger.Verbose("retry attempt %d", 2)

	got := buf.String()
	if !strings.HasPrefix(got, "[VERBOSE] ") || !strings.Contains(got, "retry attempt 2") {
		t.Errorf("Expected verbose line, got %q", got)
	}
}

func TestConsoleLogger_LiteralPercentWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	// No args: format is printed literally, % signs intact
	logger.Info("progress 50%")

	if got := buf.String(); got != "progress 50%\n" {
		t.Errorf("Expected literal %% preserved, got %q", got)
	}
}
