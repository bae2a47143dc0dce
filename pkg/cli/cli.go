package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/cli/config"
	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/types"
)

type options struct {
	out io.Writer
}

// Option is a functional option for Run
type Option func(*options)

// WithOutput sets the writer receiving workflow commands. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// globalConfig holds settings shared by all commands
type globalConfig struct {
	out      io.Writer
	reported bool

	logger  config.Logger
	github  config.GitHub
	actions config.Actions
	sentry  config.Sentry
	slack   config.Slack
}

// failureRecorder marks the run as annotated once a command reports its failure
type failureRecorder struct {
	interfaces.Reporter
	reported *bool
}

func (r *failureRecorder) Fail(msg string) {
	*r.reported = true
	r.Reporter.Fail(msg)
}

func (g *globalConfig) flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, g.logger.Flags()...)
	flags = append(flags, g.github.Flags()...)
	flags = append(flags, g.actions.Flags()...)
	flags = append(flags, g.sentry.Flags()...)
	flags = append(flags, g.slack.Flags()...)
	return flags
}

// reporter builds the workflow command writer for a command run
func (g *globalConfig) reporter() interfaces.Reporter {
	return &failureRecorder{
		Reporter: g.actions.Reporter(g.out),
		reported: &g.reported,
	}
}

// Run runs the CLI application
func Run(ctx context.Context, args []string, opts ...Option) error {
	o := &options{out: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	cfg := globalConfig{out: o.out}
	var logger *slog.Logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:    "artifact-release",
		Usage:   "Attach a workflow run artifact to a GitHub release",
		Version: types.Version,
		Flags:   cfg.flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = cfg.logger.Configure()
			if err != nil {
				return nil, err
			}
			logger = logger.With("invocation_id", uuid.NewString())

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := cfg.sentry.Configure(); err != nil {
				return nil, err
			}

			logger.Debug("Configuration loaded",
				"github", cfg.github,
				"actions", cfg.actions,
				"sentry", cfg.sentry,
				"slack", cfg.slack,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdPublish(&cfg),
			cmdUpload(&cfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		if !cfg.reported {
			cfg.actions.Reporter(o.out).Fail(err.Error())
		}
		cfg.sentry.Capture(err)
		return err
	}

	return nil
}
