package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config stores runtime configuration for both frontends.
type Config struct {
	Scoring ScoringConfig
	Audio   AudioConfig

	LogLevel string `env:"GRAMSCORE_LOG_LEVEL" envDefault:"info"`
}

type ScoringConfig struct {
	Endpoint string `env:"GRAMSCORE_ENDPOINT" envDefault:"http://localhost:8000/predict/"`
	// Zero disables the request timeout.
	RequestTimeout time.Duration `env:"GRAMSCORE_REQUEST_TIMEOUT" envDefault:"0s"`
}

type AudioConfig struct {
	RecorderCommand string `env:"GRAMSCORE_FFMPEG_COMMAND" envDefault:"ffmpeg"`
	InputFormat     string `env:"GRAMSCORE_AUDIO_INPUT_FORMAT" envDefault:"pulse"`
	InputDevice     string `env:"GRAMSCORE_AUDIO_INPUT_DEVICE" envDefault:"default"`
	SampleRate      int    `env:"GRAMSCORE_SAMPLE_RATE" envDefault:"16000"`
	Channels        int    `env:"GRAMSCORE_CHANNELS" envDefault:"1"`
	ChunkSize       int    `env:"GRAMSCORE_CHUNK_SIZE" envDefault:"4096"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile  string
	Endpoint string
	LogLevel string
}

// Load reads configuration from a .env file, environment variables and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		// godotenv.Load never overwrites variables that are already set.
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	if overrides.Endpoint != "" {
		cfg.Scoring.Endpoint = overrides.Endpoint
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.ChunkSize < 256 {
		cfg.Audio.ChunkSize = 4096
	}
	if cfg.Scoring.RequestTimeout < 0 {
		cfg.Scoring.RequestTimeout = 0
	}

	// Recordings are encoded through a stereo sample pipeline.
	if cfg.Audio.Channels > 2 {
		return Config{}, fmt.Errorf("invalid GRAMSCORE_CHANNELS %d: must be 1 or 2", cfg.Audio.Channels)
	}
	if err := validateEndpoint(cfg.Scoring.Endpoint); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid scoring endpoint %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid scoring endpoint %q: must be an absolute http(s) URL", raw)
	}
	return nil
}
