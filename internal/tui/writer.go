package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LineWriter prints each write above a running program's view, so log output
// does not tear the progress display.
type LineWriter struct {
	Program *tea.Program
}

func (w LineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line != "" {
		w.Program.Send(logLineMsg(line))
	}
	return len(p), nil
}
