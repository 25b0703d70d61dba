package processor

import (
	"errors"
	"time"

	"vconv/internal/policy"
	"vconv/internal/report"
)

// Options configures a batch. It is shared read-only by every item.
type Options struct {
	OutputDir    string
	Audio        bool
	DeleteSource bool
	Policy       policy.Policy

	// StableInterval, when non-zero, makes Run confirm that each candidate's
	// size holds still over this interval before handling it. Files still
	// growing are left for the watcher.
	StableInterval time.Duration
}

// ErrNotRegular marks a candidate name that is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// Job is one directory entry that passed the extension filter.
type Job struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	Err     error // set for entries skipped because they could not be read or are not files
}

// Discovery is the result of listing an input directory.
type Discovery struct {
	Jobs    []Job // accepted, in listing order
	Skipped []Job // candidate extension but below the size threshold, unreadable or not a file
	Ignored int   // names without a candidate extension
	Entries int
}

// Stats accumulates the counters of one run. Failed is a subset of Processed.
// Deferred counts files the first pass left to the watcher; each is counted
// again once it settles.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
	Deleted   int
	Ignored   int
	Deferred  int
	Start     time.Time
	Elapsed   time.Duration
}

// Summary converts the counters into a printable report.
func (s Stats) Summary() report.Summary {
	return report.New(s.Processed, s.Skipped, s.Failed, s.Deleted, s.Elapsed)
}

// ProgressUpdate carries counter deltas to a progress display.
type ProgressUpdate struct {
	TotalDelta     int
	ProcessedDelta int
	SkippedDelta   int
	FailedDelta    int
	Current        string
}
