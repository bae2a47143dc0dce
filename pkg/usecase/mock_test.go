package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// MockGitHubClient is a mock implementation of GitHubClient recording every call in order
type MockGitHubClient struct {
	listWorkflowRunsFunc   func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error)
	listRunArtifactsFunc   func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error)
	downloadArtifactFunc   func(ctx context.Context, repo model.Repository, artifactID int64) ([]byte, error)
	listReleaseAssetsFunc  func(ctx context.Context, repo model.Repository, releaseID int64) ([]*model.ReleaseAsset, error)
	deleteReleaseAssetFunc func(ctx context.Context, repo model.Repository, assetID int64) error
	uploadReleaseAssetFunc func(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.ReleaseAsset, error)

	calls []string
}

var errNotConfigured = errors.New("mock not configured")

func (m *MockGitHubClient) record(format string, args ...any) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *MockGitHubClient) countCalls(prefix string) int {
	n := 0
	for _, c := range m.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (m *MockGitHubClient) ListWorkflowRuns(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
	m.record("ListWorkflowRuns:%d", page)
	if m.listWorkflowRunsFunc != nil {
		return m.listWorkflowRunsFunc(ctx, repo, workflow, page)
	}
	return nil, 0, errNotConfigured
}

func (m *MockGitHubClient) ListRunArtifacts(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
	m.record("ListRunArtifacts:%d", runID)
	if m.listRunArtifactsFunc != nil {
		return m.listRunArtifactsFunc(ctx, repo, runID)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) DownloadArtifact(ctx context.Context, repo model.Repository, artifactID int64) ([]byte, error) {
	m.record("DownloadArtifact:%d", artifactID)
	if m.downloadArtifactFunc != nil {
		return m.downloadArtifactFunc(ctx, repo, artifactID)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) ListReleaseAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]*model.ReleaseAsset, error) {
	m.record("ListReleaseAssets:%d", releaseID)
	if m.listReleaseAssetsFunc != nil {
		return m.listReleaseAssetsFunc(ctx, repo, releaseID)
	}
	return nil, errNotConfigured
}

func (m *MockGitHubClient) DeleteReleaseAsset(ctx context.Context, repo model.Repository, assetID int64) error {
	m.record("DeleteReleaseAsset:%d", assetID)
	if m.deleteReleaseAssetFunc != nil {
		return m.deleteReleaseAssetFunc(ctx, repo, assetID)
	}
	return errNotConfigured
}

func (m *MockGitHubClient) UploadReleaseAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.ReleaseAsset, error) {
	m.record("UploadReleaseAsset:%s", name)
	if m.uploadReleaseAssetFunc != nil {
		return m.uploadReleaseAssetFunc(ctx, repo, releaseID, name, file)
	}
	return nil, errNotConfigured
}

var testRepo = model.Repository{Owner: "owner", Name: "repo"}
