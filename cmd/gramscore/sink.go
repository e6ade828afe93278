package main

import (
	"fmt"
	"io"
	"sync"

	"gramscore/internal/domain"
	"gramscore/internal/render"
)

const barCells = 20

// terminalSink prints controller events: status lines and errors to stderr,
// the score card to stdout.
type terminalSink struct {
	mu       sync.Mutex
	out      io.Writer
	errOut   io.Writer
	reported bool
}

func newTerminalSink(out, errOut io.Writer) *terminalSink {
	return &terminalSink{out: out, errOut: errOut}
}

func (s *terminalSink) ViewChanged(view domain.View, reason domain.ViewReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch reason {
	case domain.ViewReasonScored:
		_ = render.Terminal(s.out, view, barCells)
	case domain.ViewReasonReady, domain.ViewReasonAnalysisFailed:
		// Failures arrive through SessionError.
	default:
		if msg := render.ReasonMessage(reason); msg != "" {
			fmt.Fprintln(s.errOut, msg)
		}
	}
}

func (s *terminalSink) SessionError(code domain.ErrorCode, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if render.AlertsUser(code) {
		s.reported = true
	}
	fmt.Fprintf(s.errOut, "%s (%s: %s)\n", render.ErrorMessage(code, detail), code, detail)
}

// result tags err as already printed when the sink has shown an error for it.
func (s *terminalSink) result(err error) error {
	if err == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reported {
		return fmt.Errorf("%w: %w", errReported, err)
	}
	return err
}
