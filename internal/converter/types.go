package converter

import "context"

// Transcoder performs the two media operations a conversion may need. Both
// must leave nothing at dst when they fail.
type Transcoder interface {
	Remux(ctx context.Context, src, dst string) error
	ExtractAudio(ctx context.Context, src, dst string) error
}

// Logger is the event sink the converter and the batch driver report to.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Request describes one source file to convert.
type Request struct {
	SourcePath   string
	OutputDir    string
	Audio        bool
	DeleteSource bool
}

// Outcome records what happened to each requested stage. Stage failures are
// reported here rather than returned as errors.
type Outcome struct {
	VideoPath string
	AudioPath string // empty unless audio was requested

	VideoProduced bool
	VideoExisted  bool
	AudioProduced bool
	AudioExisted  bool

	Success       bool
	SourceDeleted bool

	VideoErr  error
	AudioErr  error
	DeleteErr error
}
