package ffmpeg

// Stage names one ffmpeg invocation within a file's conversion.
type Stage string

const (
	StageVideo Stage = "video"
	StageAudio Stage = "audio"
)

// commonArgs keeps ffmpeg quiet and non-interactive. -y only ever applies to
// the .part file; the final path is checked by the caller beforehand.
func commonArgs(src string) []string {
	return []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y", "-i", src}
}

// VideoArgs copies every stream into an MP4 container without re-encoding.
func VideoArgs(src, dst string) []string {
	args := commonArgs(src)
	return append(args, "-c", "copy", "-f", "mp4", dst)
}

// AudioArgs extracts the audio streams as best-quality VBR MP3.
func AudioArgs(src, dst string) []string {
	args := commonArgs(src)
	return append(args, "-q:a", "0", "-map", "a", "-f", "mp3", dst)
}
