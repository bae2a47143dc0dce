package interfaces

import (
	"context"
	"os"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// ListWorkflowRuns returns one page of runs of a workflow and the number of the next page.
	// nextPage is zero when page is the last one.
	ListWorkflowRuns(ctx context.Context, repo model.Repository, workflow string, page int) (runs []*model.WorkflowRun, nextPage int, err error)

	// ListRunArtifacts returns all artifacts of a workflow run
	ListRunArtifacts(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error)

	// DownloadArtifact downloads an artifact as a zip archive
	DownloadArtifact(ctx context.Context, repo model.Repository, artifactID int64) ([]byte, error)

	// ListReleaseAssets returns all assets attached to a release
	ListReleaseAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]*model.ReleaseAsset, error)

	// DeleteReleaseAsset deletes a release asset
	DeleteReleaseAsset(ctx context.Context, repo model.Repository, assetID int64) error

	// UploadReleaseAsset uploads file to a release as an asset called name
	UploadReleaseAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.ReleaseAsset, error)
}
