// Package ffmpeg runs the external ffmpeg binary for the two conversions this
// tool performs: a stream-copy remux into MP4 and an audio-only MP3 extraction.
//
// Output is written to "<dst>.part" and renamed onto dst only after ffmpeg
// exits with status zero, so a file at the final path is always complete.
// Success is decided by exit status alone; stderr is kept for diagnostics.
package ffmpeg
