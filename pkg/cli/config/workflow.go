package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// Workflow holds inputs for publishing an artifact built by a workflow run
type Workflow struct {
	Workflow     string
	Commit       string
	ArtifactName string
	ReleaseID    string
	Attempts     int
	PollInterval time.Duration
	ArtifactDir  string
}

// Flags returns CLI flags for workflow artifact inputs
func (c *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow",
			Usage:       "Workflow ID or file name (e.g. build.yml)",
			Required:    true,
			Destination: &c.Workflow,
			Sources:     cli.EnvVars("INPUT_WORKFLOW"),
		},
		&cli.StringFlag{
			Name:        "workflow-commit",
			Usage:       "Commit SHA the workflow run was built from",
			Required:    true,
			Destination: &c.Commit,
			Sources:     cli.EnvVars("INPUT_WORKFLOW_COMMIT"),
		},
		&cli.StringFlag{
			Name:        "artifact-name",
			Usage:       "Name of the workflow run artifact",
			Required:    true,
			Destination: &c.ArtifactName,
			Sources:     cli.EnvVars("INPUT_ARTIFACT_NAME"),
		},
		&cli.StringFlag{
			Name:        "release-id",
			Usage:       "ID of the release to update",
			Required:    true,
			Destination: &c.ReleaseID,
			Sources:     cli.EnvVars("INPUT_RELEASE_ID"),
		},
		&cli.IntFlag{
			Name:        "attempts",
			Usage:       "Number of scans of the workflow runs before giving up",
			Value:       model.DefaultAttempts,
			Destination: &c.Attempts,
			Sources:     cli.EnvVars("INPUT_ATTEMPTS"),
		},
		&cli.DurationFlag{
			Name:        "poll-interval",
			Usage:       "Wait between two scans",
			Value:       time.Second,
			Destination: &c.PollInterval,
			Sources:     cli.EnvVars("INPUT_POLL_INTERVAL"),
		},
		&cli.StringFlag{
			Name:        "artifact-dir",
			Usage:       "Directory the artifact archive is extracted to",
			Value:       model.DefaultArtifactDir,
			Destination: &c.ArtifactDir,
			Sources:     cli.EnvVars("INPUT_ARTIFACT_DIR"),
		},
	}
}

// Input builds a WorkflowArtifactInput for repo
func (c *Workflow) Input(repo model.Repository) (*model.WorkflowArtifactInput, error) {
	releaseID, err := model.ParseReleaseID(c.ReleaseID)
	if err != nil {
		return nil, err
	}

	return &model.WorkflowArtifactInput{
		Repo:         repo,
		Workflow:     c.Workflow,
		Commit:       c.Commit,
		ArtifactName: c.ArtifactName,
		ReleaseID:    releaseID,
		Attempts:     c.Attempts,
		ArtifactDir:  c.ArtifactDir,
	}, nil
}
