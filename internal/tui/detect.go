// Package tui holds the terminal UI pieces: interactivity detection, shared
// styles, and the connection progress display.
package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode selects between styled terminal output and plain lines.
type Mode int

const (
	// ModeNonInteractive emits plain output for scripts and pipes.
	ModeNonInteractive Mode = iota
	// ModeInteractive enables spinners and lipgloss styling.
	ModeInteractive
)

// DetectMode decides whether mauflow may draw spinners and styled output.
// Any of MAUFLOW_NON_INTERACTIVE=1, a non-empty CI or NO_COLOR, or a
// non-terminal stdin/stdout forces plain output.
func DetectMode() Mode {
	if os.Getenv("MAUFLOW_NON_INTERACTIVE") == "1" {
		return ModeNonInteractive
	}
	for _, v := range []string{"CI", "NO_COLOR"} {
		if os.Getenv(v) != "" {
			return ModeNonInteractive
		}
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether styled output is allowed.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
