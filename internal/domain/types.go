package domain

import "errors"

// RecorderStatus models the microphone side of the view.
type RecorderStatus string

const (
	RecorderStatusIdle      RecorderStatus = "idle"
	RecorderStatusRecording RecorderStatus = "recording"
)

// ViewReason provides a structured reason for view transitions.
type ViewReason string

const (
	ViewReasonReady              ViewReason = "ready"
	ViewReasonRecordingStarted   ViewReason = "recording_started"
	ViewReasonRecordingRestarted ViewReason = "recording_restarted"
	ViewReasonRecordingStopped   ViewReason = "recording_stopped"
	ViewReasonRecordingDiscarded ViewReason = "recording_discarded"
	ViewReasonAnalyzing          ViewReason = "analyzing"
	ViewReasonScored             ViewReason = "scored"
	ViewReasonAnalysisFailed     ViewReason = "analysis_failed"
)

// ErrorCode identifies the failure shown to the user.
type ErrorCode string

const (
	ErrorCodeStartup           ErrorCode = "startup"
	ErrorCodePermission        ErrorCode = "permission"
	ErrorCodeRecorderMissing   ErrorCode = "recorder_missing"
	ErrorCodeAudioStop         ErrorCode = "audio_stop"
	ErrorCodeCapture           ErrorCode = "capture"
	ErrorCodeFile              ErrorCode = "file"
	ErrorCodeTransport         ErrorCode = "transport"
	ErrorCodeServer            ErrorCode = "server"
	ErrorCodeMalformedResponse ErrorCode = "malformed_response"
)

var (
	ErrTransport         = errors.New("scoring endpoint unreachable")
	ErrServer            = errors.New("scoring endpoint returned an error status")
	ErrMalformedResponse = errors.New("scoring endpoint returned a malformed response")

	// ErrRecorderUnavailable means the capture program could not be found.
	ErrRecorderUnavailable = errors.New("audio recorder not found")
)

// AudioSample is one clip on its way to the scoring endpoint.
type AudioSample struct {
	Name        string
	ContentType string
	Data        []byte
}

// AnalysisResult is the decoded scoring response.
type AnalysisResult struct {
	GrammarScore float64 `json:"grammar_score"`
}

// View is the state record rendered by the frontends.
type View struct {
	Recorder   RecorderStatus  `json:"recorder"`
	Analyzing  bool            `json:"analyzing"`
	Result     *AnalysisResult `json:"result,omitempty"`
	AnalysisID string          `json:"analysisId,omitempty"`
}
