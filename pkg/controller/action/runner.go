package action

import (
	"context"
	"strconv"

	"github.com/m-mizutani/ctxlog"

	"github.com/m-mizutani/artifact-release/pkg/domain/interfaces"
	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

const successMessage = "Successfully updated release artifact"

// Runner sequences locating, fetching and replacing, and reports the outcome to the CI runner
type Runner struct {
	locator  interfaces.ArtifactLocator
	fetcher  interfaces.ArtifactFetcher
	replacer interfaces.AssetReplacer
	reporter interfaces.Reporter
	notifier interfaces.Notifier
}

// Option is a functional option for Runner
type Option func(*Runner)

// WithNotifier sets a notifier receiving the outcome of every run
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(r *Runner) {
		r.notifier = notifier
	}
}

// NewRunner creates a new Runner. locator and fetcher may be nil when only local artifacts are published.
func NewRunner(
	locator interfaces.ArtifactLocator,
	fetcher interfaces.ArtifactFetcher,
	replacer interfaces.AssetReplacer,
	reporter interfaces.Reporter,
	opts ...Option,
) *Runner {
	r := &Runner{
		locator:  locator,
		fetcher:  fetcher,
		replacer: replacer,
		reporter: reporter,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PublishWorkflowArtifact finds the artifact built for a commit, downloads it and replaces the
// release assets with it. The first failing stage is reported and stops the sequence.
func (r *Runner) PublishWorkflowArtifact(ctx context.Context, input *model.WorkflowArtifactInput) error {
	logger := ctxlog.From(ctx)

	logger.Info("Publishing workflow artifact",
		"workflow", input.Workflow,
		"workflow_commit", input.Commit,
		"artifact_name", input.ArtifactName,
		"release_id", input.ReleaseID,
		"repository", input.Repo.String(),
	)

	report := &model.PublishReport{Repo: input.Repo, ReleaseID: input.ReleaseID}
	report.Err = r.publishWorkflowArtifact(ctx, input, report)
	return r.finish(ctx, report)
}

func (r *Runner) publishWorkflowArtifact(ctx context.Context, input *model.WorkflowArtifactInput, report *model.PublishReport) error {
	if err := input.Validate(); err != nil {
		return err
	}

	var artifactID int64
	if err := r.stage("Finding workflow run artifact", func() (err error) {
		artifactID, err = r.locator.FindArtifactID(ctx, input.Query())
		return err
	}); err != nil {
		return err
	}
	report.ArtifactID = artifactID

	var fetched *model.FetchResult
	if err := r.stage("Pulling workflow run artifact", func() (err error) {
		fetched, err = r.fetcher.FetchArtifact(ctx, input.Repo, artifactID, input.ArtifactName)
		return err
	}); err != nil {
		return err
	}

	if err := r.replace(ctx, input.Repo, input.ReleaseID, fetched.Path, report); err != nil {
		return err
	}

	r.reporter.SetOutput("artifact_id", strconv.FormatInt(artifactID, 10))
	return nil
}

// PublishLocalArtifact replaces the release assets with a file that already exists on disk
func (r *Runner) PublishLocalArtifact(ctx context.Context, input *model.LocalArtifactInput) error {
	logger := ctxlog.From(ctx)

	logger.Info("Publishing local artifact",
		"artifact_path", input.Path,
		"release_id", input.ReleaseID,
		"repository", input.Repo.String(),
	)

	report := &model.PublishReport{Repo: input.Repo, ReleaseID: input.ReleaseID}
	if err := input.Validate(); err != nil {
		report.Err = err
	} else {
		report.Err = r.replace(ctx, input.Repo, input.ReleaseID, input.Path, report)
	}
	return r.finish(ctx, report)
}

func (r *Runner) replace(ctx context.Context, repo model.Repository, releaseID int64, path string, report *model.PublishReport) error {
	var result *model.ReplaceResult
	if err := r.stage("Updating release artifact", func() (err error) {
		result, err = r.replacer.ReplaceAssets(ctx, repo, releaseID, path)
		return err
	}); err != nil {
		return err
	}
	report.Asset = result.Uploaded

	r.reporter.SetOutput("asset_id", strconv.FormatInt(result.Uploaded.ID, 10))
	r.reporter.SetOutput("asset_name", result.Uploaded.Name)
	r.reporter.SetOutput("asset_url", result.Uploaded.BrowserDownloadURL)
	return nil
}

// stage runs fn inside a log group named title
func (r *Runner) stage(title string, fn func() error) error {
	end := r.reporter.Group(title)
	defer end()
	return fn()
}

// finish reports the outcome and notifies. A notification failure never changes the outcome.
func (r *Runner) finish(ctx context.Context, report *model.PublishReport) error {
	logger := ctxlog.From(ctx)

	if report.Succeeded() {
		r.reporter.Succeed(successMessage)
		logger.Info(successMessage,
			"release_id", report.ReleaseID,
			"asset_id", report.Asset.ID,
		)
	} else {
		r.reporter.Fail(report.Err.Error())
	}

	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, report); err != nil {
			logger.Warn("Failed to send notification", "error", err)
		}
	}

	return report.Err
}
