package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"gramscore/internal/ports"
)

// activeRecording buffers one capture session in memory.
type activeRecording struct {
	session ports.AudioSession
	cancel  context.CancelFunc

	// buf and readErr belong to the pump goroutine until done is closed.
	buf     bytes.Buffer
	readErr error
	done    chan struct{}
}

type capturedAudio struct {
	pcm     []byte
	stopErr error
	readErr error
}

func newActiveRecording(session ports.AudioSession, cancel context.CancelFunc) *activeRecording {
	return &activeRecording{
		session: session,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (r *activeRecording) pump(chunkSize int) {
	defer close(r.done)

	if chunkSize < 256 {
		chunkSize = 4096
	}

	chunk := make([]byte, chunkSize)
	for {
		n, err := r.session.Read(chunk)
		if n > 0 {
			r.buf.Write(chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, os.ErrClosed) {
				r.readErr = err
			}
			return
		}
	}
}

// finish stops the capture and hands back everything buffered so far.
func (r *activeRecording) finish() capturedAudio {
	stopErr := r.session.Stop()
	<-r.done
	r.cancel()
	return capturedAudio{pcm: r.buf.Bytes(), stopErr: stopErr, readErr: r.readErr}
}

func (r *activeRecording) discard() {
	r.cancel()
	_ = r.session.Stop()
	<-r.done
}
