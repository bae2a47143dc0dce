package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
	githubinfra "github.com/m-mizutani/artifact-release/pkg/infra/github"
)

const defaultAPIURL = "https://api.github.com"

// GitHub holds GitHub configuration
type GitHub struct {
	Repository     string
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	APIURL         string
	UploadURL      string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Repository in owner/repo format",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token (ignored when GitHub App credentials are given)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("INPUT_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("ARTIFACT_RELEASE_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("ARTIFACT_RELEASE_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("ARTIFACT_RELEASE_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint",
			Value:       defaultAPIURL,
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-upload-url",
			Usage:       "GitHub upload endpoint for release assets (derived from the API URL when empty)",
			Destination: &c.UploadURL,
			Sources:     cli.EnvVars("ARTIFACT_RELEASE_GITHUB_UPLOAD_URL"),
		},
	}
}

// Repo parses the configured repository
func (c *GitHub) Repo() (model.Repository, error) {
	return model.ParseRepository(c.Repository)
}

// NewClient creates a GitHub client, preferring App authentication when configured
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	opts := c.endpointOptions()

	if c.AppID != 0 || c.InstallationID != 0 || c.PrivateKey != "" {
		if c.AppID == 0 || c.InstallationID == 0 || c.PrivateKey == "" {
			return nil, goerr.New("GitHub App authentication requires app id, installation id and private key")
		}
		return githubinfra.NewAppClient(c.AppID, c.InstallationID, []byte(c.PrivateKey), opts...)
	}

	if c.Token == "" {
		return nil, goerr.New("either a GitHub token or GitHub App credentials are required")
	}
	return githubinfra.NewClient(c.Token, opts...)
}

// endpointOptions overrides endpoints for GitHub Enterprise Server, whose uploads live under
// /api/uploads next to /api/v3
func (c *GitHub) endpointOptions() []githubinfra.Option {
	apiURL := strings.TrimSuffix(c.APIURL, "/")
	uploadURL := c.UploadURL

	if apiURL == "" || apiURL == defaultAPIURL {
		if uploadURL == "" {
			return nil
		}
		return []githubinfra.Option{githubinfra.WithBaseURL("", uploadURL)}
	}

	if uploadURL == "" && strings.HasSuffix(apiURL, "/api/v3") {
		uploadURL = strings.TrimSuffix(apiURL, "/v3") + "/uploads"
	}
	return []githubinfra.Option{githubinfra.WithBaseURL(apiURL, uploadURL)}
}
