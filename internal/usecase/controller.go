package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gramscore/internal/domain"
	"gramscore/internal/ports"
)

var (
	ErrNoActiveRecording = errors.New("no active recording")
	ErrSuperseded        = errors.New("analysis superseded by a newer request")
)

// Config controls capture behavior.
type Config struct {
	Audio     ports.AudioConfig
	ChunkSize int
}

// AnalysisController owns the view state: recorder status, busy flag and the
// last committed result. Every user action goes through it.
type AnalysisController struct {
	audio        ports.AudioCapture
	materializer ports.Materializer
	loader       ports.SampleLoader
	scorer       ports.Scorer
	events       ports.EventSink
	cfg          Config
	log          zerolog.Logger

	mu        sync.Mutex
	startGen  uint64
	recording *activeRecording
	pending   *pendingAnalysis
	result    *domain.AnalysisResult
	lastID    string
}

func NewAnalysisController(
	audio ports.AudioCapture,
	materializer ports.Materializer,
	loader ports.SampleLoader,
	scorer ports.Scorer,
	events ports.EventSink,
	cfg Config,
	log zerolog.Logger,
) *AnalysisController {
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	return &AnalysisController{
		audio:        audio,
		materializer: materializer,
		loader:       loader,
		scorer:       scorer,
		events:       events,
		cfg:          cfg,
		log:          log,
	}
}

// StartRecording begins buffering microphone audio. A capture already in
// progress is discarded first. Only the most recent start may install its
// session; an older start still waiting on the capture backend discards
// what it gets and returns ErrSuperseded.
func (c *AnalysisController) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	c.startGen++
	gen := c.startGen
	previous := c.recording
	c.recording = nil
	c.mu.Unlock()

	if previous != nil {
		previous.discard()
	}

	recCtx, cancel := context.WithCancel(ctx)
	session, err := c.audio.Start(recCtx, c.cfg.Audio)
	if err != nil {
		cancel()
		if !c.currentStart(gen) {
			return fmt.Errorf("start recording: %w", ErrSuperseded)
		}
		c.log.Error().Err(err).Msg("failed to start recording")
		c.events.SessionError(startErrorCode(err), err.Error())
		if previous != nil {
			c.emit(domain.ViewReasonRecordingDiscarded)
		}
		return fmt.Errorf("start recording: %w", err)
	}

	active := newActiveRecording(session, cancel)
	go active.pump(c.cfg.ChunkSize)

	c.mu.Lock()
	if c.startGen != gen {
		c.mu.Unlock()
		active.discard()
		c.log.Debug().Msg("capture start superseded")
		return fmt.Errorf("start recording: %w", ErrSuperseded)
	}
	c.recording = active
	c.mu.Unlock()

	reason := domain.ViewReasonRecordingStarted
	if previous != nil {
		reason = domain.ViewReasonRecordingRestarted
	}
	c.emit(reason)
	return nil
}

func (c *AnalysisController) currentStart(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startGen == gen
}

// StopRecording ends the capture and submits it as recording.wav. A stop
// that arrives while a start is still pending cancels that start.
func (c *AnalysisController) StopRecording(ctx context.Context) (domain.AnalysisResult, error) {
	c.mu.Lock()
	active := c.recording
	c.recording = nil
	if active == nil {
		c.startGen++
	}
	c.mu.Unlock()

	if active == nil {
		return domain.AnalysisResult{}, ErrNoActiveRecording
	}

	captured := active.finish()
	if captured.stopErr != nil {
		c.log.Warn().Err(captured.stopErr).Msg("audio capture did not stop cleanly")
		c.events.SessionError(domain.ErrorCodeAudioStop, "failed to stop audio capture cleanly")
	}
	if captured.readErr != nil {
		c.log.Warn().Err(captured.readErr).Msg("audio capture read error")
	}
	c.emit(domain.ViewReasonRecordingStopped)

	sample, err := c.materializer.Materialize(captured.pcm, c.cfg.Audio)
	if err != nil {
		c.log.Error().Err(err).Int("bytes", len(captured.pcm)).Msg("failed to materialize recording")
		c.events.SessionError(domain.ErrorCodeCapture, err.Error())
		return domain.AnalysisResult{}, fmt.Errorf("materialize recording: %w", err)
	}

	return c.Analyze(ctx, sample)
}

// AbortRecording discards the capture without analysis, including one
// whose start is still pending.
func (c *AnalysisController) AbortRecording() error {
	c.mu.Lock()
	c.startGen++
	active := c.recording
	c.recording = nil
	c.mu.Unlock()

	if active == nil {
		return ErrNoActiveRecording
	}
	active.discard()
	c.emit(domain.ViewReasonRecordingDiscarded)
	return nil
}

// SelectFile submits a file from disk as-is.
func (c *AnalysisController) SelectFile(ctx context.Context, path string) (domain.AnalysisResult, error) {
	sample, err := c.loader.Load(path)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("failed to read selected file")
		c.events.SessionError(domain.ErrorCodeFile, err.Error())
		return domain.AnalysisResult{}, err
	}
	return c.Analyze(ctx, sample)
}

// Analyze submits one sample. Only the most recently issued analysis may
// commit; an older one still in flight is cancelled and its outcome dropped.
func (c *AnalysisController) Analyze(ctx context.Context, sample domain.AudioSample) (domain.AnalysisResult, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	current := &pendingAnalysis{id: uuid.NewString(), cancel: cancel}

	c.mu.Lock()
	superseded := c.pending
	c.pending = current
	c.lastID = current.id
	c.mu.Unlock()

	if superseded != nil {
		superseded.cancel()
	}

	log := c.log.With().Str("analysis_id", current.id).Str("file", sample.Name).Logger()
	log.Info().Str("type", sample.ContentType).Int("bytes", len(sample.Data)).Msg("analysis started")
	c.emit(domain.ViewReasonAnalyzing)

	result, err := c.scorer.Score(reqCtx, sample)

	c.mu.Lock()
	if c.pending != current {
		c.mu.Unlock()
		log.Debug().Msg("analysis superseded")
		return domain.AnalysisResult{}, ErrSuperseded
	}
	c.pending = nil
	if err == nil {
		committed := result
		c.result = &committed
	}
	c.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("error analyzing audio")
		c.emit(domain.ViewReasonAnalysisFailed)
		c.events.SessionError(classify(err), err.Error())
		return domain.AnalysisResult{}, err
	}

	log.Info().Float64("grammar_score", result.GrammarScore).Msg("analysis finished")
	c.emit(domain.ViewReasonScored)
	return result, nil
}

// View returns a snapshot of the state record.
func (c *AnalysisController) View() domain.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *AnalysisController) viewLocked() domain.View {
	view := domain.View{
		Recorder:   domain.RecorderStatusIdle,
		Analyzing:  c.pending != nil,
		AnalysisID: c.lastID,
	}
	if c.recording != nil {
		view.Recorder = domain.RecorderStatusRecording
	}
	if c.result != nil {
		committed := *c.result
		view.Result = &committed
	}
	return view
}

func (c *AnalysisController) emit(reason domain.ViewReason) {
	c.events.ViewChanged(c.View(), reason)
}

func startErrorCode(err error) domain.ErrorCode {
	if errors.Is(err, domain.ErrRecorderUnavailable) {
		return domain.ErrorCodeRecorderMissing
	}
	return domain.ErrorCodePermission
}

func classify(err error) domain.ErrorCode {
	switch {
	case errors.Is(err, domain.ErrServer):
		return domain.ErrorCodeServer
	case errors.Is(err, domain.ErrMalformedResponse):
		return domain.ErrorCodeMalformedResponse
	default:
		return domain.ErrorCodeTransport
	}
}

type pendingAnalysis struct {
	id     string
	cancel context.CancelFunc
}
