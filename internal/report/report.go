// Package report turns batch statistics and single-file outcomes into the
// label/value rows printed at the end of a run.
package report

import (
	"fmt"
	"time"

	"vconv/internal/converter"
)

// Row is one line of a rendered summary.
type Row struct {
	Label string
	Value string
}

// Summary is the end-of-batch report.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Deleted   int
	Elapsed   string
}

// FormatElapsed renders d as HH:MM:SS using whole seconds, truncating any
// fraction. Hours keep growing past 99.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// New builds a Summary from raw counters.
func New(processed, skipped, failed, deleted int, elapsed time.Duration) Summary {
	return Summary{
		Processed: processed,
		Skipped:   skipped,
		Failed:    failed,
		Deleted:   deleted,
		Elapsed:   FormatElapsed(elapsed),
	}
}

// Rows lists the summary in display order.
func (s Summary) Rows() []Row {
	return []Row{
		{Label: "Total files processed", Value: fmt.Sprintf("%d", s.Processed)},
		{Label: "Total files skipped", Value: fmt.Sprintf("%d", s.Skipped)},
		{Label: "Failed conversions", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Sources deleted", Value: fmt.Sprintf("%d", s.Deleted)},
		{Label: "Total time elapsed", Value: s.Elapsed},
	}
}

// KeyVals flattens the summary for a structured log event.
func (s Summary) KeyVals() []interface{} {
	return []interface{}{
		"processed", s.Processed,
		"skipped", s.Skipped,
		"failed", s.Failed,
		"deleted", s.Deleted,
		"elapsed", s.Elapsed,
	}
}

// OutcomeRows describes a single-file conversion.
func OutcomeRows(out converter.Outcome) []Row {
	rows := []Row{{Label: "MP4", Value: stageValue(out.VideoPath, out.VideoProduced, out.VideoExisted)}}
	if out.AudioPath != "" {
		rows = append(rows, Row{Label: "MP3", Value: stageValue(out.AudioPath, out.AudioProduced, out.AudioExisted)})
	}
	result := "failed"
	if out.Success {
		result = "ok"
	}
	rows = append(rows, Row{Label: "Result", Value: result})
	if out.SourceDeleted {
		rows = append(rows, Row{Label: "Source", Value: "deleted"})
	}
	return rows
}

func stageValue(path string, produced, existed bool) string {
	switch {
	case existed:
		return path + " (already present)"
	case produced:
		return path
	default:
		return "not produced"
	}
}
