package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"gramscore/internal/domain"
	"gramscore/internal/ports"
)

func TestFFmpegRecorderStartReadAndStop(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "capture.sh", "#!/usr/bin/env bash\nprintf 'pcm!'\nexec sleep 2\n")
	recorder := NewFFmpegRecorder(script, zerolog.Nop())

	session, err := recorder.Start(context.Background(), ports.AudioConfig{})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	buf := make([]byte, 8)
	n, readErr := session.Read(buf)
	if n <= 0 {
		t.Fatalf("expected audio bytes, got n=%d err=%v", n, readErr)
	}
	if !strings.Contains(string(buf[:n]), "pcm!") {
		t.Fatalf("unexpected bytes: %q", string(buf[:n]))
	}

	if err := session.Stop(); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	// Stop is idempotent.
	if err := session.Close(); err != nil {
		t.Fatalf("second stop failed: %v", err)
	}
}

func TestFFmpegRecorderStartEarlyExit(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "denied.sh", "#!/usr/bin/env bash\necho 'Permission denied' 1>&2\nexit 1\n")
	recorder := NewFFmpegRecorder(script, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := recorder.Start(ctx, ports.AudioConfig{})
	if err == nil {
		t.Fatalf("expected early exit error")
	}
	if !strings.Contains(err.Error(), "exited before capture started") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "Permission denied") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestFFmpegRecorderMissingBinary(t *testing.T) {
	t.Parallel()

	for _, command := range []string{filepath.Join(t.TempDir(), "nope"), "gramscore-no-such-recorder"} {
		recorder := NewFFmpegRecorder(command, zerolog.Nop())
		_, err := recorder.Start(context.Background(), ports.AudioConfig{})
		if !errors.Is(err, domain.ErrRecorderUnavailable) {
			t.Fatalf("expected recorder unavailable for %q, got %v", command, err)
		}
	}
}

func TestFFmpegRecorderStartFailureIsNotMissingRecorder(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "denied.sh", "#!/usr/bin/env bash\necho 'Permission denied' 1>&2\nexit 1\n")
	recorder := NewFFmpegRecorder(script, zerolog.Nop())

	_, err := recorder.Start(context.Background(), ports.AudioConfig{})
	if err == nil || errors.Is(err, domain.ErrRecorderUnavailable) {
		t.Fatalf("expected an ordinary start failure, got %v", err)
	}
}

func TestCaptureArgsAppliesDefaults(t *testing.T) {
	t.Parallel()

	args := strings.Join(captureArgs(withCaptureDefaults(ports.AudioConfig{})), " ")
	for _, want := range []string{"-f pulse", "-i default", "-ac 1", "-ar 16000", "-f s16le -"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in %q", want, args)
		}
	}

	args = strings.Join(captureArgs(withCaptureDefaults(ports.AudioConfig{
		SampleRate:  44100,
		Channels:    2,
		InputFormat: "alsa",
		InputDevice: "hw:1",
	})), " ")
	for _, want := range []string{"-f alsa", "-i hw:1", "-ac 2", "-ar 44100"} {
		if !strings.Contains(args, want) {
			t.Fatalf("expected %q in %q", want, args)
		}
	}
}

func TestNormalizeStopErrExitErrorIsIgnored(t *testing.T) {
	t.Parallel()

	err := exec.Command("bash", "-c", "exit 1").Run()
	if err == nil {
		t.Fatalf("expected command to fail")
	}
	if got := normalizeStopErr(err); got != nil {
		t.Fatalf("expected nil for exit error, got %v", got)
	}
}

func TestTrimOutput(t *testing.T) {
	t.Parallel()

	if got := trimOutput("  hi\n"); got != "hi" {
		t.Fatalf("unexpected trim result: %q", got)
	}
}

func writeScript(t *testing.T, name string, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o700); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
