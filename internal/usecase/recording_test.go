package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
)

func TestActiveRecordingFinishReturnsBufferedAudio(t *testing.T) {
	t.Parallel()

	session := &fakeAudioSession{chunks: [][]byte{[]byte("ab"), []byte("cd")}}
	ctx, cancel := context.WithCancel(context.Background())
	active := newActiveRecording(session, cancel)

	go active.pump(256)
	captured := active.finish()

	if string(captured.pcm) != "abcd" {
		t.Fatalf("unexpected pcm: %q", captured.pcm)
	}
	if captured.stopErr != nil || captured.readErr != nil {
		t.Fatalf("unexpected errors: %+v", captured)
	}
	if ctx.Err() == nil {
		t.Fatalf("expected capture context to be cancelled")
	}
}

func TestActiveRecordingKeepsStopError(t *testing.T) {
	t.Parallel()

	stopErr := errors.New("stop failed")
	session := &fakeAudioSession{stopErr: stopErr}
	active := newActiveRecording(session, func() {})

	go active.pump(256)
	captured := active.finish()
	if !errors.Is(captured.stopErr, stopErr) {
		t.Fatalf("expected stop error, got %v", captured.stopErr)
	}
}

func TestActiveRecordingPumpReportsReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("read failed")
	active := newActiveRecording(&errorAudioSession{err: readErr}, func() {})

	go active.pump(256)
	captured := active.finish()
	if !errors.Is(captured.readErr, readErr) {
		t.Fatalf("expected read error, got %v", captured.readErr)
	}
}

func TestActiveRecordingPumpIgnoresClosedPipe(t *testing.T) {
	t.Parallel()

	for _, err := range []error{io.EOF, io.ErrClosedPipe, os.ErrClosed} {
		active := newActiveRecording(&errorAudioSession{err: err}, func() {})
		go active.pump(0)
		if captured := active.finish(); captured.readErr != nil {
			t.Fatalf("expected %v to be ignored, got %v", err, captured.readErr)
		}
	}
}

func TestActiveRecordingDiscardStopsSession(t *testing.T) {
	t.Parallel()

	session := &fakeAudioSession{chunks: [][]byte{[]byte("x")}}
	cancelled := false
	active := newActiveRecording(session, func() { cancelled = true })

	go active.pump(256)
	active.discard()

	if session.stopCalls != 1 || !cancelled {
		t.Fatalf("expected stop and cancel, got stops=%d cancelled=%v", session.stopCalls, cancelled)
	}
}

type errorAudioSession struct {
	err error
}

func (s *errorAudioSession) Read(_ []byte) (int, error) { return 0, s.err }
func (s *errorAudioSession) Close() error               { return nil }
func (s *errorAudioSession) Stop() error                { return nil }
