package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// ErrArtifactNotFound is returned when polling exhausts its attempts without a match
var ErrArtifactNotFound = goerr.New("Failed to find workflow run... exceeded attempts")

// DefaultPollInterval is the wait between two scans of the workflow runs
const DefaultPollInterval = time.Second

type locator struct {
	githubClient interfaces.GitHubClient
	interval     time.Duration
	wait         func(ctx context.Context, d time.Duration) error
}

// LocatorOption is a functional option for the artifact locator
type LocatorOption func(*locator)

// WithPollInterval sets the wait between scans
func WithPollInterval(d time.Duration) LocatorOption {
	return func(l *locator) {
		l.interval = d
	}
}

// WithWaitFunc replaces the function used to wait between scans
func WithWaitFunc(wait func(ctx context.Context, d time.Duration) error) LocatorOption {
	return func(l *locator) {
		l.wait = wait
	}
}

// NewLocator creates a new ArtifactLocator
func NewLocator(githubClient interfaces.GitHubClient, opts ...LocatorOption) interfaces.ArtifactLocator {
	l := &locator{
		githubClient: githubClient,
		interval:     DefaultPollInterval,
		wait:         sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FindArtifactID scans the runs of a workflow until a successful run built from the query's
// commit carries the named artifact. Each miss waits one interval before the next scan;
// ErrArtifactNotFound is returned once the attempts are used up. API errors are not retried.
func (uc *locator) FindArtifactID(ctx context.Context, query *model.ArtifactQuery) (int64, error) {
	logger := ctxlog.From(ctx)

	for remaining := query.Attempts; ; remaining-- {
		if remaining < 1 {
			logger.Warn("Gave up polling workflow runs",
				"workflow", query.Workflow,
				"commit", query.Commit,
				"artifact_name", query.ArtifactName,
				"attempts", query.Attempts,
			)
			return 0, ErrArtifactNotFound
		}

		artifactID, found, err := uc.scan(ctx, query)
		if err != nil {
			return 0, err
		}
		if found {
			return artifactID, nil
		}

		if err := uc.wait(ctx, uc.interval); err != nil {
			return 0, goerr.Wrap(err, "interrupted while waiting for workflow run")
		}

		logger.Info("- Failed to find workflow run... retrying", "remaining", remaining-1)
	}
}

// scan walks every page of workflow runs once. Only the first matching run of each page is
// inspected; when it lacks the artifact the scan moves on to the next page.
func (uc *locator) scan(ctx context.Context, query *model.ArtifactQuery) (int64, bool, error) {
	logger := ctxlog.From(ctx)

	for page := 1; page != 0; {
		runs, nextPage, err := uc.githubClient.ListWorkflowRuns(ctx, query.Repo, query.Workflow, page)
		if err != nil {
			return 0, false, err
		}

		if run := findRun(runs, query.Commit); run != nil {
			logger.Debug("Found workflow run", "run_id", run.ID, "page", page)

			artifacts, err := uc.githubClient.ListRunArtifacts(ctx, query.Repo, run.ID)
			if err != nil {
				return 0, false, err
			}

			if artifact := findArtifact(artifacts, query.ArtifactName); artifact != nil {
				logger.Info("Found workflow run artifact",
					"run_id", run.ID,
					"artifact_id", artifact.ID,
					"artifact_name", artifact.Name,
				)
				return artifact.ID, true, nil
			}

			logger.Debug("Workflow run has no matching artifact", "run_id", run.ID)
		}

		page = nextPage
	}

	return 0, false, nil
}

func findRun(runs []*model.WorkflowRun, commit string) *model.WorkflowRun {
	for _, run := range runs {
		if run.Matches(commit) {
			return run
		}
	}
	return nil
}

func findArtifact(artifacts []*model.Artifact, name string) *model.Artifact {
	for _, artifact := range artifacts {
		if artifact.Name == name {
			return artifact
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
