package main

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gramscore/internal/bootstrap"
	"gramscore/internal/config"
	"gramscore/internal/logging"
	"gramscore/internal/usecase"
)

// errReported marks a failure the terminal sink already printed.
var errReported = errors.New("reported")

type rootOptions struct {
	envFile  string
	endpoint string
	logLevel string
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gramscore",
		Short:         "Score the grammar of spoken English audio",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "path to .env file")
	flags.StringVar(&opts.endpoint, "endpoint", "", "scoring endpoint URL (overrides GRAMSCORE_ENDPOINT)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides GRAMSCORE_LOG_LEVEL)")

	root.AddCommand(newScoreCommand(opts), newRecordCommand(opts))
	return root
}

func newScoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <file>",
		Short: "Upload an audio file and print its grammar score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, sink, _, err := opts.build(cmd)
			if err != nil {
				return err
			}
			_, err = services.Controller.SelectFile(cmd.Context(), args[0])
			return sink.result(err)
		},
	}
}

func newRecordCommand(opts *rootOptions) *cobra.Command {
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the microphone, then score the recording",
		Long:  "Record from the microphone until the duration elapses or Ctrl+C is pressed, then score the recording.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, sink, log, err := opts.build(cmd)
			if err != nil {
				return err
			}

			// The interrupt ends the take; capture itself runs on the command context.
			interrupted, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := services.Controller.StartRecording(cmd.Context()); err != nil {
				return sink.result(err)
			}

			var timeout <-chan time.Time
			if duration > 0 {
				timer := time.NewTimer(duration)
				defer timer.Stop()
				timeout = timer.C
			}
			select {
			case <-timeout:
				log.Debug().Dur("duration", duration).Msg("recording duration elapsed")
			case <-interrupted.Done():
				log.Debug().Msg("recording interrupted")
			}
			stop()

			_, err = services.Controller.StopRecording(cmd.Context())
			if errors.Is(err, usecase.ErrSuperseded) {
				return nil
			}
			return sink.result(err)
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 5*time.Second, "recording length; 0 records until interrupted")
	return cmd
}

func (o *rootOptions) build(cmd *cobra.Command) (bootstrap.Services, *terminalSink, zerolog.Logger, error) {
	cfg, err := config.Load(config.Overrides{
		EnvFile:  o.envFile,
		Endpoint: o.endpoint,
		LogLevel: o.logLevel,
	})
	if err != nil {
		return bootstrap.Services{}, nil, zerolog.Nop(), err
	}

	log := logging.NewConsole(cfg.LogLevel)
	sink := newTerminalSink(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return bootstrap.Build(cfg, sink, log), sink, log, nil
}
