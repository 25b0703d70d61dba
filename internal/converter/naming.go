package converter

import (
	"path/filepath"
	"strings"

	"vconv/internal/fsutil"
)

// BaseName returns the file name of path without its final extension.
// A dotfile such as ".ts" keeps its whole name.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, fsutil.Ext(name))
}

// VideoPath is the MP4 location for src inside outputDir.
func VideoPath(src, outputDir string) string {
	return filepath.Join(outputDir, BaseName(src)+".mp4")
}

// AudioPath is the MP3 location for src inside outputDir.
func AudioPath(src, outputDir string) string {
	return filepath.Join(outputDir, BaseName(src)+".mp3")
}
