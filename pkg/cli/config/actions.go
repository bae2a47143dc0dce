package config

import (
	"io"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/infra/actions"
)

// Actions holds GitHub Actions runner configuration
type Actions struct {
	OutputPath string
}

// Flags returns CLI flags for the Actions runner
func (c *Actions) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-output",
			Usage:       "File receiving step outputs",
			Destination: &c.OutputPath,
			Sources:     cli.EnvVars("GITHUB_OUTPUT"),
		},
	}
}

// Reporter creates a workflow command writer on w
func (c *Actions) Reporter(w io.Writer) *actions.Workflow {
	return actions.New(w, c.OutputPath)
}
