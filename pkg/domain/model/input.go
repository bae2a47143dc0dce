package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultAttempts is the number of scans the locator performs before giving up
	DefaultAttempts = 60

	// DefaultArtifactDir is where downloaded artifacts are extracted
	DefaultArtifactDir = "artifact"
)

// WorkflowArtifactInput holds inputs for publishing an artifact built by a workflow run
type WorkflowArtifactInput struct {
	Repo         Repository
	Workflow     string
	Commit       string
	ArtifactName string
	ReleaseID    int64
	Attempts     int
	ArtifactDir  string
}

// Validate checks required fields
func (x *WorkflowArtifactInput) Validate() error {
	if x.Workflow == "" {
		return goerr.New("workflow is required")
	}
	if x.Commit == "" {
		return goerr.New("workflow commit is required")
	}
	if x.ArtifactName == "" {
		return goerr.New("artifact name is required")
	}
	if x.ReleaseID <= 0 {
		return goerr.New("release id must be positive", goerr.V("release_id", x.ReleaseID))
	}
	if x.ArtifactDir == "" {
		return goerr.New("artifact directory is required")
	}
	return nil
}

// Query builds the locator query for this input
func (x *WorkflowArtifactInput) Query() *ArtifactQuery {
	return &ArtifactQuery{
		Repo:         x.Repo,
		Workflow:     x.Workflow,
		Commit:       x.Commit,
		ArtifactName: x.ArtifactName,
		Attempts:     x.Attempts,
	}
}

// LocalArtifactInput holds inputs for publishing a file that already exists on disk
type LocalArtifactInput struct {
	Repo      Repository
	Path      string
	ReleaseID int64
}

// Validate checks required fields
func (x *LocalArtifactInput) Validate() error {
	if x.Path == "" {
		return goerr.New("artifact path is required")
	}
	if x.ReleaseID <= 0 {
		return goerr.New("release id must be positive", goerr.V("release_id", x.ReleaseID))
	}
	return nil
}

// ParseReleaseID parses a release identifier given as a decimal string
func ParseReleaseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid release id", goerr.V("release_id", s))
	}
	if id <= 0 {
		return 0, goerr.New("release id must be positive", goerr.V("release_id", s))
	}
	return id, nil
}
