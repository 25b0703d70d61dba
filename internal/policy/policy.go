// Package policy decides which source files a run is allowed to convert.
package policy

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"vconv/internal/fsutil"
)

// DefaultMinSize is the smallest source accepted by default (100 MiB).
const DefaultMinSize int64 = 100 * 1024 * 1024

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrBelowThreshold    = errors.New("file below minimum size")
)

// Policy is the per-run filter. It is not modified once a batch starts.
type Policy struct {
	Extensions map[string]bool // lowercase, with leading dot
	MinSize    int64
}

// Default accepts .flv and .ts files of at least DefaultMinSize bytes.
func Default() Policy {
	return Policy{
		Extensions: map[string]bool{".flv": true, ".ts": true},
		MinSize:    DefaultMinSize,
	}
}

// ParseExtensions normalizes user input such as "ts, .FLV" into a lookup set.
// Entries may be given in separate strings or comma-separated.
func ParseExtensions(list []string) (map[string]bool, error) {
	exts := make(map[string]bool)
	for _, item := range list {
		for _, raw := range strings.Split(item, ",") {
			ext := strings.ToLower(strings.TrimSpace(raw))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if ext == "." || strings.ContainsAny(ext[1:], `./\`) {
				return nil, fmt.Errorf("invalid extension %q", raw)
			}
			exts[ext] = true
		}
	}
	if len(exts) == 0 {
		return nil, errors.New("at least one extension is required")
	}
	return exts, nil
}

// IsCandidate reports whether name carries an allowed extension.
func (p Policy) IsCandidate(name string) bool {
	return p.Extensions[strings.ToLower(fsutil.Ext(name))]
}

// MeetsSizeThreshold reports whether size is at least the configured minimum.
func (p Policy) MeetsSizeThreshold(size int64) bool {
	return size >= p.MinSize
}

// CheckFile applies both predicates to an explicitly requested file.
func (p Policy) CheckFile(path string, size int64) error {
	if !p.IsCandidate(path) {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, filepath.Base(path), p.ExtensionList())
	}
	if !p.MeetsSizeThreshold(size) {
		return fmt.Errorf("%w: %s is %s, minimum is %s", ErrBelowThreshold,
			filepath.Base(path), humanize.IBytes(uint64(size)), humanize.IBytes(uint64(p.MinSize)))
	}
	return nil
}

// ExtensionList returns the allowed extensions sorted and comma-joined.
func (p Policy) ExtensionList() string {
	exts := make([]string, 0, len(p.Extensions))
	for ext := range p.Extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
