package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

type fetcher struct {
	githubClient interfaces.GitHubClient
	dir          string
}

// NewFetcher creates an ArtifactFetcher extracting archives into dir
func NewFetcher(githubClient interfaces.GitHubClient, dir string) interfaces.ArtifactFetcher {
	return &fetcher{
		githubClient: githubClient,
		dir:          dir,
	}
}

// FetchArtifact downloads an artifact archive and extracts it into the artifact directory.
// Existing files are overwritten. The returned Path points at the entry named after the artifact.
func (uc *fetcher) FetchArtifact(ctx context.Context, repo model.Repository, artifactID int64, name string) (*model.FetchResult, error) {
	logger := ctxlog.From(ctx)

	zipData, err := uc.githubClient.DownloadArtifact(ctx, repo, artifactID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download artifact",
			goerr.V("artifact_id", artifactID),
			goerr.V("artifact_name", name),
		)
	}

	logger.Info("Downloaded artifact archive",
		"artifact_id", artifactID,
		"size_bytes", len(zipData),
	)

	result, err := uc.extractZip(zipData)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract artifact", goerr.V("artifact_id", artifactID))
	}
	result.Path = filepath.Join(uc.dir, name)

	logger.Info("Extracted artifact archive",
		"dir", result.Dir,
		"path", result.Path,
		"file_count", len(result.Files),
		"total_size_bytes", result.Size,
	)

	return result, nil
}

// extractZip extracts ZIP data into the artifact directory
func (uc *fetcher) extractZip(zipData []byte) (*model.FetchResult, error) {
	if err := os.MkdirAll(uc.dir, 0755); err != nil {
		return nil, goerr.Wrap(err, "failed to create artifact directory", goerr.V("dir", uc.dir))
	}

	zipReader, err := zip.NewReader(bytes.NewReader(zipData), int64(len(zipData)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create zip reader")
	}

	result := &model.FetchResult{Dir: uc.dir}
	for _, file := range zipReader.File {
		if err := extractFile(file, uc.dir); err != nil {
			return nil, goerr.Wrap(err, "failed to extract file", goerr.V("file", file.Name))
		}

		result.Files = append(result.Files, file.Name)
		result.Size += int64(file.UncompressedSize64)
	}

	return result, nil
}

// extractFile extracts a single file from ZIP to the destination directory
func extractFile(file *zip.File, destDir string) error {
	destPath := filepath.Join(destDir, file.Name)
	if !withinDir(destDir, destPath) {
		return goerr.New("invalid file path detected", goerr.V("file", file.Name), goerr.V("dest", destPath))
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0755)
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(destPath)))
	}

	mode := file.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("path", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy file content", goerr.V("path", destPath))
	}

	return nil
}

// withinDir reports whether path stays inside dir once both are cleaned
func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
