package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vconv/internal/report"
)

// RenderSummary draws rows as a two-column table.
func RenderSummary(rows []report.Row) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderDone formats the closing line of a run.
func RenderDone(msg string) string {
	return doneStyle.Render(msg)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
