package processor

import (
	"os"
	"path/filepath"

	"vconv/internal/policy"
)

type verdict int

const (
	ignore verdict = iota
	skip
	accept
)

// Discover lists the direct children of dir and sorts them into accepted
// jobs, skipped entries, and ignored entries. Subdirectories are never
// descended into. Listing order is preserved.
func Discover(dir string, p policy.Policy) (Discovery, error) {
	var d Discovery

	entries, err := os.ReadDir(dir)
	if err != nil {
		return d, err
	}

	for _, entry := range entries {
		d.Entries++
		job, v := inspect(filepath.Join(dir, entry.Name()), p)
		switch v {
		case ignore:
			d.Ignored++
		case skip:
			d.Skipped = append(d.Skipped, job)
		case accept:
			d.Jobs = append(d.Jobs, job)
		}
	}
	return d, nil
}

// inspect classifies one path. Only the extension decides whether a name is
// ignored; a candidate that is unreadable, not a regular file, or too small
// is skipped. Stat follows symlinks, so a link to a regular file is accepted.
func inspect(path string, p policy.Policy) (Job, verdict) {
	job := Job{Path: path, Name: filepath.Base(path)}
	if !p.IsCandidate(job.Name) {
		return job, ignore
	}

	fi, err := os.Stat(path)
	if err != nil {
		job.Err = err
		return job, skip
	}
	if !fi.Mode().IsRegular() {
		job.Err = ErrNotRegular
		return job, skip
	}

	job.Size = fi.Size()
	job.ModTime = fi.ModTime()
	if !p.MeetsSizeThreshold(job.Size) {
		return job, skip
	}
	return job, accept
}
