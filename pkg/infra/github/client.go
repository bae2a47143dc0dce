package github

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

const (
	perPage      = 100
	maxRedirects = 3
)

type client struct {
	githubClient *github.Client
	downloader   *http.Client
}

// config holds optional client settings
type config struct {
	apiURL     string
	uploadURL  string
	downloader *http.Client
}

// Option is a functional option for the GitHub client
type Option func(*config)

// WithBaseURL overrides the REST API and upload endpoints (GitHub Enterprise or tests).
// An empty uploadURL uses apiURL for uploads too.
func WithBaseURL(apiURL, uploadURL string) Option {
	return func(c *config) {
		c.apiURL = apiURL
		c.uploadURL = uploadURL
	}
}

// WithDownloadClient sets the HTTP client used to fetch artifact archives from their signed URL
func WithDownloadClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.downloader = httpClient
	}
}

// NewClient creates a new GitHub client authenticated with a token
func NewClient(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is required")
	}
	httpClient := &http.Client{Transport: newLoggingTransport(http.DefaultTransport)}
	c, err := newClient(github.NewClient(httpClient).WithAuthToken(token), opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewAppClient creates a new GitHub client with App authentication
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	itr, err := ghinstallation.New(newLoggingTransport(http.DefaultTransport), appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID),
		)
	}

	c, err := newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
	if err != nil {
		return nil, err
	}

	// Installation tokens must be minted against the same API host
	itr.BaseURL = strings.TrimSuffix(c.githubClient.BaseURL.String(), "/")
	return c, nil
}

func newClient(githubClient *github.Client, opts ...Option) (*client, error) {
	cfg := &config{
		downloader: &http.Client{
			Timeout:   10 * time.Minute,
			Transport: newLoggingTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.apiURL != "" {
		baseURL, err := parseEndpoint(cfg.apiURL)
		if err != nil {
			return nil, err
		}
		githubClient.BaseURL = baseURL
		githubClient.UploadURL = baseURL
	}
	if cfg.uploadURL != "" {
		uploadURL, err := parseEndpoint(cfg.uploadURL)
		if err != nil {
			return nil, err
		}
		githubClient.UploadURL = uploadURL
	}

	return &client{
		githubClient: githubClient,
		downloader:   cfg.downloader,
	}, nil
}

// parseEndpoint parses an API endpoint, ensuring the trailing slash go-github requires
func parseEndpoint(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid GitHub endpoint", goerr.V("url", raw))
	}
	return u, nil
}

// ListWorkflowRuns returns one page of workflow runs.
// A numeric workflow is treated as a workflow ID, anything else as a workflow file name.
func (c *client) ListWorkflowRuns(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
	opts := &github.ListWorkflowRunsOptions{
		ListOptions: github.ListOptions{Page: page, PerPage: perPage},
	}

	var (
		runs *github.WorkflowRuns
		resp *github.Response
		err  error
	)
	if workflowID, convErr := strconv.ParseInt(workflow, 10, 64); convErr == nil {
		runs, resp, err = c.githubClient.Actions.ListWorkflowRunsByID(ctx, repo.Owner, repo.Name, workflowID, opts)
	} else {
		runs, resp, err = c.githubClient.Actions.ListWorkflowRunsByFileName(ctx, repo.Owner, repo.Name, workflow, opts)
	}
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list workflow runs",
			goerr.V("repo", repo.String()),
			goerr.V("workflow", workflow),
			goerr.V("page", page),
		)
	}

	result := make([]*model.WorkflowRun, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		result = append(result, &model.WorkflowRun{
			ID:         run.GetID(),
			HeadSHA:    run.GetHeadSHA(),
			Conclusion: run.GetConclusion(),
		})
	}

	return result, resp.NextPage, nil
}

// ListRunArtifacts returns all artifacts of a workflow run
func (c *client) ListRunArtifacts(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
	var result []*model.Artifact
	opts := &github.ListOptions{PerPage: perPage}

	for {
		list, resp, err := c.githubClient.Actions.ListWorkflowRunArtifacts(ctx, repo.Owner, repo.Name, runID, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list workflow run artifacts",
				goerr.V("repo", repo.String()),
				goerr.V("run_id", runID),
			)
		}

		for _, artifact := range list.Artifacts {
			result = append(result, &model.Artifact{
				ID:          artifact.GetID(),
				Name:        artifact.GetName(),
				SizeInBytes: artifact.GetSizeInBytes(),
				Expired:     artifact.GetExpired(),
			})
		}

		if resp.NextPage == 0 {
			return result, nil
		}
		opts.Page = resp.NextPage
	}
}

// DownloadArtifact downloads the zip archive of an artifact
func (c *client) DownloadArtifact(ctx context.Context, repo model.Repository, artifactID int64) ([]byte, error) {
	// Get download URL for the archive
	url, _, err := c.githubClient.Actions.DownloadArtifact(ctx, repo.Owner, repo.Name, artifactID, maxRedirects)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get artifact download URL",
			goerr.V("repo", repo.String()),
			goerr.V("artifact_id", artifactID),
		)
	}

	// The URL is pre-signed, so the request goes out without GitHub credentials
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create download request", goerr.V("artifact_id", artifactID))
	}

	resp, err := c.downloader.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download artifact", goerr.V("artifact_id", artifactID))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code for artifact download",
			goerr.V("status", resp.StatusCode),
			goerr.V("artifact_id", artifactID),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact archive", goerr.V("artifact_id", artifactID))
	}

	return data, nil
}

// ListReleaseAssets returns all assets attached to a release
func (c *client) ListReleaseAssets(ctx context.Context, repo model.Repository, releaseID int64) ([]*model.ReleaseAsset, error) {
	var result []*model.ReleaseAsset
	opts := &github.ListOptions{PerPage: perPage}

	for {
		assets, resp, err := c.githubClient.Repositories.ListReleaseAssets(ctx, repo.Owner, repo.Name, releaseID, opts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list release assets",
				goerr.V("repo", repo.String()),
				goerr.V("release_id", releaseID),
			)
		}

		for _, asset := range assets {
			result = append(result, toReleaseAsset(asset))
		}

		if resp.NextPage == 0 {
			return result, nil
		}
		opts.Page = resp.NextPage
	}
}

// DeleteReleaseAsset deletes a release asset
func (c *client) DeleteReleaseAsset(ctx context.Context, repo model.Repository, assetID int64) error {
	if _, err := c.githubClient.Repositories.DeleteReleaseAsset(ctx, repo.Owner, repo.Name, assetID); err != nil {
		return goerr.Wrap(err, "failed to delete release asset",
			goerr.V("repo", repo.String()),
			goerr.V("asset_id", assetID),
		)
	}
	return nil
}

// UploadReleaseAsset uploads file as a release asset
func (c *client) UploadReleaseAsset(ctx context.Context, repo model.Repository, releaseID int64, name string, file *os.File) (*model.ReleaseAsset, error) {
	asset, _, err := c.githubClient.Repositories.UploadReleaseAsset(ctx, repo.Owner, repo.Name, releaseID, &github.UploadOptions{
		Name: name,
	}, file)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload release asset",
			goerr.V("repo", repo.String()),
			goerr.V("release_id", releaseID),
			goerr.V("name", name),
		)
	}

	return toReleaseAsset(asset), nil
}

func toReleaseAsset(asset *github.ReleaseAsset) *model.ReleaseAsset {
	return &model.ReleaseAsset{
		ID:                 asset.GetID(),
		Name:               asset.GetName(),
		Size:               int64(asset.GetSize()),
		BrowserDownloadURL: asset.GetBrowserDownloadURL(),
	}
}
