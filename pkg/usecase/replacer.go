package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

type replacer struct {
	githubClient interfaces.GitHubClient
}

// NewReplacer creates a new AssetReplacer
func NewReplacer(githubClient interfaces.GitHubClient) interfaces.AssetReplacer {
	return &replacer{
		githubClient: githubClient,
	}
}

// ReplaceAssets deletes every asset of the release one by one, then uploads the file at path
// named after its base name. There is no rollback: if the upload fails after the deletions,
// the release is left without assets.
func (uc *replacer) ReplaceAssets(ctx context.Context, repo model.Repository, releaseID int64, path string) (*model.ReplaceResult, error) {
	logger := ctxlog.From(ctx)

	file, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open artifact file", goerr.V("path", path))
	}
	defer file.Close()

	assets, err := uc.githubClient.ListReleaseAssets(ctx, repo, releaseID)
	if err != nil {
		return nil, err
	}

	result := &model.ReplaceResult{}
	for _, asset := range assets {
		if err := uc.githubClient.DeleteReleaseAsset(ctx, repo, asset.ID); err != nil {
			return nil, err
		}
		result.Removed = append(result.Removed, asset)
		logger.Info(fmt.Sprintf("- Removed %s from release", asset.Name),
			"asset_id", asset.ID,
			"release_id", releaseID,
		)
	}

	name := filepath.Base(path)
	uploaded, err := uc.githubClient.UploadReleaseAsset(ctx, repo, releaseID, name, file)
	if err != nil {
		if len(result.Removed) > 0 {
			logger.Error("Upload failed after existing assets were removed",
				"release_id", releaseID,
				"removed_count", len(result.Removed),
			)
		}
		return nil, err
	}
	result.Uploaded = uploaded

	logger.Info("Uploaded release asset",
		"release_id", releaseID,
		"asset_id", uploaded.ID,
		"name", uploaded.Name,
	)

	return result, nil
}
