package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mauflow/mauflow/internal/tui/components"
	"github.com/mauflow/mauflow/pkg/mauflow"
)

type progressModel struct {
	spinner components.Spinner
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Init()
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(components.SpinnerDoneMsg); ok {
		m.spinner, _ = m.spinner.Update(done)
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m progressModel) View() string {
	return m.spinner.View() + "\n"
}

// RunWithSpinner executes op while showing a spinner with retry progress.
// In non-interactive mode the operation runs without any display. reader may
// be nil.
func RunWithSpinner(message, successMsg string, reader mauflow.RetryStateReader, op func() error) error {
	if !IsInteractive() {
		return op()
	}

	spin := components.NewSpinner(message)
	if reader != nil {
		spin = spin.WithRetryState(reader)
	}
	program := tea.NewProgram(progressModel{spinner: spin})

	var opErr error
	go func() {
		opErr = op()
		if opErr != nil {
			program.Send(components.SpinnerFailed(opErr))
			return
		}
		program.Send(components.SpinnerDone(successMsg))
	}()

	if _, err := program.Run(); err != nil {
		// The display failing must not mask the operation result.
		return opErr
	}
	return opErr
}
