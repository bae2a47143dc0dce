package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/cli/config"
	"github.com/m-mizutani/artifact-release/pkg/controller/action"
	"github.com/m-mizutani/artifact-release/pkg/usecase"
)

func cmdPublish(cfg *globalConfig) *cli.Command {
	var workflowCfg config.Workflow

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Find the artifact built for a commit and replace the release assets with it",
		Flags:   workflowCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.github.Repo()
			if err != nil {
				return err
			}
			input, err := workflowCfg.Input(repo)
			if err != nil {
				return err
			}
			client, err := cfg.github.NewClient()
			if err != nil {
				return err
			}

			runner := action.NewRunner(
				usecase.NewLocator(client, usecase.WithPollInterval(workflowCfg.PollInterval)),
				usecase.NewFetcher(client, input.ArtifactDir),
				usecase.NewReplacer(client),
				cfg.reporter(),
				runnerOptions(cfg)...,
			)
			return runner.PublishWorkflowArtifact(ctx, input)
		},
	}
}
