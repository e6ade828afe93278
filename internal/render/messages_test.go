package render

import (
	"testing"

	"gramscore/internal/domain"
)

func TestReasonMessage(t *testing.T) {
	t.Parallel()

	cases := map[domain.ViewReason]string{
		domain.ViewReasonReady:              "Record or upload audio to analyze your grammar",
		domain.ViewReasonRecordingStarted:   "Recording...",
		domain.ViewReasonRecordingRestarted: "Recording restarted; previous capture discarded",
		domain.ViewReasonRecordingStopped:   "Recording stopped",
		domain.ViewReasonRecordingDiscarded: "Recording discarded",
		domain.ViewReasonAnalyzing:          "Analyzing your audio...",
		domain.ViewReasonScored:             "Analysis complete",
		domain.ViewReasonAnalysisFailed:     "Failed to analyze audio. Please try again.",
	}

	for reason, want := range cases {
		reason := reason
		want := want
		t.Run(string(reason), func(t *testing.T) {
			t.Parallel()
			if got := ReasonMessage(reason); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := ReasonMessage("unknown"); got != "" {
		t.Fatalf("expected empty unknown reason message, got %q", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	generic := "Failed to analyze audio. Please try again."
	cases := map[domain.ErrorCode]string{
		domain.ErrorCodeStartup:           "Startup failed",
		domain.ErrorCodePermission:        "Could not start recording. Check microphone access.",
		domain.ErrorCodeRecorderMissing:   "Could not start recording. ffmpeg was not found.",
		domain.ErrorCodeAudioStop:         "Audio stop issue",
		domain.ErrorCodeCapture:           generic,
		domain.ErrorCodeFile:              generic,
		domain.ErrorCodeTransport:         generic,
		domain.ErrorCodeServer:            generic,
		domain.ErrorCodeMalformedResponse: generic,
	}
	for code, want := range cases {
		code := code
		want := want
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			if got := ErrorMessage(code, "ignored"); got != want {
				t.Fatalf("unexpected message: %q", got)
			}
		})
	}

	if got := ErrorMessage("unknown", "detail"); got != "detail" {
		t.Fatalf("expected detail fallback, got %q", got)
	}
	if got := ErrorMessage("unknown", ""); got != "Unknown error" {
		t.Fatalf("expected unknown fallback, got %q", got)
	}
}

func TestAlertsUser(t *testing.T) {
	t.Parallel()

	if AlertsUser(domain.ErrorCodeAudioStop) {
		t.Fatalf("audio stop issues should not block the user")
	}
	if !AlertsUser(domain.ErrorCodeServer) {
		t.Fatalf("server errors must alert")
	}
}
