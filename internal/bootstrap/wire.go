package bootstrap

import (
	"github.com/rs/zerolog"

	"gramscore/internal/audio"
	"gramscore/internal/config"
	"gramscore/internal/logging"
	"gramscore/internal/ports"
	"gramscore/internal/scoring"
	"gramscore/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.AnalysisController
	Config     config.Config
}

// Build wires all backend dependencies around the given event sink.
func Build(cfg config.Config, eventSink ports.EventSink, log zerolog.Logger) Services {
	audioCfg := ports.AudioConfig{
		SampleRate:  cfg.Audio.SampleRate,
		Channels:    cfg.Audio.Channels,
		InputFormat: cfg.Audio.InputFormat,
		InputDevice: cfg.Audio.InputDevice,
	}

	controller := usecase.NewAnalysisController(
		audio.NewFFmpegRecorder(cfg.Audio.RecorderCommand, logging.Component(log, "capture")),
		audio.NewWAVMaterializer(audio.RecordingName),
		audio.NewFileLoader(logging.Component(log, "files")),
		scoring.NewClient(scoring.Config{
			Endpoint: cfg.Scoring.Endpoint,
			Timeout:  cfg.Scoring.RequestTimeout,
		}, logging.Component(log, "scoring")),
		eventSink,
		usecase.Config{
			Audio:     audioCfg,
			ChunkSize: cfg.Audio.ChunkSize,
		},
		logging.Component(log, "controller"),
	)

	return Services{Controller: controller, Config: cfg}
}
