package interfaces

import (
	"context"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// ArtifactLocator finds the artifact built for a commit
type ArtifactLocator interface {
	// FindArtifactID polls workflow runs until the named artifact of a successful run appears
	FindArtifactID(ctx context.Context, query *model.ArtifactQuery) (int64, error)
}

// ArtifactFetcher downloads artifacts to the local filesystem
type ArtifactFetcher interface {
	// FetchArtifact downloads and extracts an artifact
	FetchArtifact(ctx context.Context, repo model.Repository, artifactID int64, name string) (*model.FetchResult, error)
}

// AssetReplacer replaces release assets
type AssetReplacer interface {
	// ReplaceAssets deletes every asset of a release and uploads the file at path
	ReplaceAssets(ctx context.Context, repo model.Repository, releaseID int64, path string) (*model.ReplaceResult, error)
}
