package render

import "gramscore/internal/domain"

// AnalysisFailedMessage is the alert shown for any failed analysis.
const AnalysisFailedMessage = "Failed to analyze audio. Please try again."

// ReasonMessage is the status line for a view change.
func ReasonMessage(reason domain.ViewReason) string {
	switch reason {
	case domain.ViewReasonReady:
		return "Record or upload audio to analyze your grammar"
	case domain.ViewReasonRecordingStarted:
		return "Recording..."
	case domain.ViewReasonRecordingRestarted:
		return "Recording restarted; previous capture discarded"
	case domain.ViewReasonRecordingStopped:
		return "Recording stopped"
	case domain.ViewReasonRecordingDiscarded:
		return "Recording discarded"
	case domain.ViewReasonAnalyzing:
		return "Analyzing your audio..."
	case domain.ViewReasonScored:
		return "Analysis complete"
	case domain.ViewReasonAnalysisFailed:
		return AnalysisFailedMessage
	default:
		return ""
	}
}

// ErrorMessage is the user-facing text for a session error.
func ErrorMessage(code domain.ErrorCode, detail string) string {
	switch code {
	case domain.ErrorCodeStartup:
		return "Startup failed"
	case domain.ErrorCodePermission:
		return "Could not start recording. Check microphone access."
	case domain.ErrorCodeRecorderMissing:
		return "Could not start recording. ffmpeg was not found."
	case domain.ErrorCodeAudioStop:
		return "Audio stop issue"
	case domain.ErrorCodeCapture,
		domain.ErrorCodeFile,
		domain.ErrorCodeTransport,
		domain.ErrorCodeServer,
		domain.ErrorCodeMalformedResponse:
		return AnalysisFailedMessage
	default:
		if detail == "" {
			return "Unknown error"
		}
		return detail
	}
}

// AlertsUser reports whether the error warrants a blocking alert.
// A capture that did not stop cleanly is only logged.
func AlertsUser(code domain.ErrorCode) bool {
	return code != domain.ErrorCodeAudioStop
}
