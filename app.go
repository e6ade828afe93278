package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"gramscore/internal/bootstrap"
	"gramscore/internal/config"
	"gramscore/internal/domain"
	"gramscore/internal/logging"
	"gramscore/internal/render"
	"gramscore/internal/usecase"
)

const (
	eventView  = "gramscore:view"
	eventError = "gramscore:error"
)

// ViewPayload is what the frontend paints: the state record plus the rendered score.
type ViewPayload struct {
	View    domain.View      `json:"view"`
	Score   render.ScoreView `json:"score"`
	Reason  string           `json:"reason,omitempty"`
	Message string           `json:"message,omitempty"`
}

// App is the Wails application root.
type App struct {
	ctx context.Context
	log zerolog.Logger

	controller *usecase.AnalysisController
	cfg        config.Config
	bootErr    error
}

func NewApp() *App {
	return &App{log: zerolog.Nop()}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	cfg, err := config.Load(config.Overrides{})
	if err != nil {
		a.log = logging.New(os.Stderr, "info")
		a.log.Error().Err(err).Msg("startup failed")
		a.bootErr = err
		a.SessionError(domain.ErrorCodeStartup, err.Error())
		return
	}

	a.log = logging.New(os.Stderr, cfg.LogLevel)
	services := bootstrap.Build(cfg, a, a.log)

	a.cfg = services.Config
	a.controller = services.Controller
	a.log.Info().Str("endpoint", a.cfg.Scoring.Endpoint).Msg("gramscore ready")
	a.ViewChanged(a.controller.View(), domain.ViewReasonReady)
}

func (a *App) shutdown(_ context.Context) {
	if a.controller == nil {
		return
	}
	if err := a.controller.AbortRecording(); err == nil {
		a.log.Info().Msg("discarded in-progress recording on shutdown")
	}
}

// StartRecording starts microphone capture.
func (a *App) StartRecording() (domain.View, error) {
	if err := a.requireReady(); err != nil {
		return domain.View{}, err
	}
	if err := a.controller.StartRecording(a.ctx); err != nil && !errors.Is(err, usecase.ErrSuperseded) {
		return domain.View{}, err
	}
	return a.controller.View(), nil
}

// StopRecording stops capture and scores the recording.
func (a *App) StopRecording() (domain.AnalysisResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.AnalysisResult{}, err
	}
	result, err := a.controller.StopRecording(a.ctx)
	if errors.Is(err, usecase.ErrSuperseded) {
		return domain.AnalysisResult{}, nil
	}
	return result, err
}

// AbortRecording discards an in-progress recording.
func (a *App) AbortRecording() error {
	if err := a.requireReady(); err != nil {
		return err
	}
	if err := a.controller.AbortRecording(); err != nil && !errors.Is(err, usecase.ErrNoActiveRecording) {
		return err
	}
	return nil
}

// UploadFile opens the native file picker and scores the chosen file.
// Cancelling the dialog is a no-op.
func (a *App) UploadFile() (domain.AnalysisResult, error) {
	if err := a.requireReady(); err != nil {
		return domain.AnalysisResult{}, err
	}

	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Upload Audio File",
		Filters: []runtime.FileFilter{
			{DisplayName: "WAV audio (*.wav)", Pattern: "*.wav"},
		},
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("open file dialog: %w", err)
	}
	if path == "" {
		return domain.AnalysisResult{}, nil
	}

	result, err := a.controller.SelectFile(a.ctx, path)
	if errors.Is(err, usecase.ErrSuperseded) {
		return domain.AnalysisResult{}, nil
	}
	return result, err
}

// GetView returns the current view for the initial paint.
func (a *App) GetView() ViewPayload {
	if a.controller == nil {
		return payload(domain.View{Recorder: domain.RecorderStatusIdle}, "")
	}
	return payload(a.controller.View(), "")
}

// GetRuntimeInfo returns non-sensitive config for the UI.
func (a *App) GetRuntimeInfo() map[string]string {
	if a.bootErr != nil {
		return map[string]string{"error": a.bootErr.Error()}
	}

	return map[string]string{
		"endpoint":         a.cfg.Scoring.Endpoint,
		"audioInput":       a.cfg.Audio.InputDevice,
		"audioInputFormat": a.cfg.Audio.InputFormat,
	}
}

func (a *App) requireReady() error {
	if a.bootErr != nil {
		return a.bootErr
	}
	if a.controller == nil {
		return fmt.Errorf("application is not initialized")
	}
	return nil
}

// ViewChanged emits view updates to the frontend.
func (a *App) ViewChanged(view domain.View, reason domain.ViewReason) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventView, payload(view, reason))
}

// SessionError emits the error and shows a blocking alert for user-facing failures.
func (a *App) SessionError(code domain.ErrorCode, detail string) {
	if a.ctx == nil {
		return
	}
	message := render.ErrorMessage(code, detail)
	runtime.EventsEmit(a.ctx, eventError, map[string]string{
		"code":    string(code),
		"message": message,
		"detail":  detail,
	})

	if !render.AlertsUser(code) {
		return
	}
	if _, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:    runtime.ErrorDialog,
		Title:   "Grammar Scoring Engine",
		Message: message,
	}); err != nil {
		a.log.Warn().Err(err).Msg("failed to show alert")
	}
}

func payload(view domain.View, reason domain.ViewReason) ViewPayload {
	return ViewPayload{
		View:    view,
		Score:   render.Score(view.Result),
		Reason:  string(reason),
		Message: render.ReasonMessage(reason),
	}
}
