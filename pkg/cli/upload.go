package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/cli/config"
	"github.com/m-mizutani/artifact-release/pkg/controller/action"
	"github.com/m-mizutani/artifact-release/pkg/usecase"
)

func cmdUpload(cfg *globalConfig) *cli.Command {
	var releaseCfg config.Release

	return &cli.Command{
		Name:    "upload",
		Aliases: []string{"u"},
		Usage:   "Replace the release assets with a local file",
		Flags:   releaseCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.github.Repo()
			if err != nil {
				return err
			}
			input, err := releaseCfg.Input(repo)
			if err != nil {
				return err
			}
			client, err := cfg.github.NewClient()
			if err != nil {
				return err
			}

			runner := action.NewRunner(nil, nil, usecase.NewReplacer(client), cfg.reporter(), runnerOptions(cfg)...)
			return runner.PublishLocalArtifact(ctx, input)
		},
	}
}

func runnerOptions(cfg *globalConfig) []action.Option {
	var opts []action.Option
	if notifier := cfg.slack.Notifier(); notifier != nil {
		opts = append(opts, action.WithNotifier(notifier))
	}
	return opts
}
