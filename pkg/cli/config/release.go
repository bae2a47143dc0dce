package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// Release holds inputs for publishing a local file
type Release struct {
	ArtifactPath string
	ReleaseID    string
}

// Flags returns CLI flags for local artifact inputs
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "artifact-path",
			Usage:       "Path of the file to attach to the release",
			Required:    true,
			Destination: &c.ArtifactPath,
			Sources:     cli.EnvVars("INPUT_ARTIFACT_PATH"),
		},
		&cli.StringFlag{
			Name:        "release-id",
			Usage:       "ID of the release to update",
			Required:    true,
			Destination: &c.ReleaseID,
			Sources:     cli.EnvVars("INPUT_RELEASE_ID"),
		},
	}
}

// Input builds a LocalArtifactInput for repo
func (c *Release) Input(repo model.Repository) (*model.LocalArtifactInput, error) {
	releaseID, err := model.ParseReleaseID(c.ReleaseID)
	if err != nil {
		return nil, err
	}

	return &model.LocalArtifactInput{
		Repo:      repo,
		Path:      c.ArtifactPath,
		ReleaseID: releaseID,
	}, nil
}
