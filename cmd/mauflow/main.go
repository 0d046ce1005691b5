package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mauflow/mauflow/internal/cli"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(mauflow.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(mauflow.ExitCodeForError(err))
	}
}
