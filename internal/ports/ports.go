package ports

import (
	"context"
	"io"

	"gramscore/internal/domain"
)

// AudioConfig describes how the microphone should be captured.
type AudioConfig struct {
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

// AudioSession is a live capture session.
type AudioSession interface {
	io.ReadCloser
	Stop() error
}

// AudioCapture creates microphone capture sessions.
type AudioCapture interface {
	Start(ctx context.Context, cfg AudioConfig) (AudioSession, error)
}

// Materializer turns captured s16le PCM into an uploadable sample.
type Materializer interface {
	Materialize(pcm []byte, cfg AudioConfig) (domain.AudioSample, error)
}

// SampleLoader reads a user-selected file.
type SampleLoader interface {
	Load(path string) (domain.AudioSample, error)
}

// Scorer submits one sample to the scoring endpoint.
type Scorer interface {
	Score(ctx context.Context, sample domain.AudioSample) (domain.AnalysisResult, error)
}

// EventSink emits view state and errors to the UI.
type EventSink interface {
	ViewChanged(view domain.View, reason domain.ViewReason)
	SessionError(code domain.ErrorCode, detail string)
}
