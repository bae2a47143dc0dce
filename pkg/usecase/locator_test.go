package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
	"github.com/m-mizutani/artifact-release/pkg/usecase"
)

// waitRecorder counts waits instead of sleeping
type waitRecorder struct {
	durations []time.Duration
	err       error
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.durations = append(w.durations, d)
	return w.err
}

// singlePage serves runs as the only page of the listing
func singlePage(runs ...*model.WorkflowRun) func(context.Context, model.Repository, string, int) ([]*model.WorkflowRun, int, error) {
	return func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
		return runs, 0, nil
	}
}

func newQuery(attempts int) *model.ArtifactQuery {
	return &model.ArtifactQuery{
		Repo:         testRepo,
		Workflow:     "build.yml",
		Commit:       "abc123",
		ArtifactName: "build.zip",
		Attempts:     attempts,
	}
}

func TestLocator_FindArtifactID_FirstPage(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(
			&model.WorkflowRun{ID: 1, HeadSHA: "abc123", Conclusion: "success"},
		),
		listRunArtifactsFunc: func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
			gt.Value(t, runID).Equal(int64(1))
			return []*model.Artifact{{ID: 42, Name: "build.zip"}}, nil
		},
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	id, err := uc.FindArtifactID(context.Background(), newQuery(model.DefaultAttempts))

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(42))
	gt.A(t, waiter.durations).Length(0)
	gt.Value(t, mockClient.calls).Equal([]string{"ListWorkflowRuns:1", "ListRunArtifacts:1"})
}

func TestLocator_FindArtifactID_NeverFound(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(
			&model.WorkflowRun{ID: 1, HeadSHA: "other", Conclusion: "success"},
			&model.WorkflowRun{ID: 2, HeadSHA: "abc123", Conclusion: "failure"},
		),
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(3))

	gt.Error(t, err)
	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(true)
	gt.Value(t, err.Error()).Equal("Failed to find workflow run... exceeded attempts")
	gt.Number(t, mockClient.countCalls("ListWorkflowRuns")).Equal(3)
	gt.Number(t, mockClient.countCalls("ListRunArtifacts")).Equal(0)
	gt.Value(t, waiter.durations).Equal([]time.Duration{time.Second, time.Second, time.Second})
}

func TestLocator_FindArtifactID_SingleAttempt(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(),
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(1))

	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(true)
	gt.Number(t, mockClient.countCalls("ListWorkflowRuns")).Equal(1)
	gt.A(t, waiter.durations).Length(1)
}

func TestLocator_FindArtifactID_NoAttempts(t *testing.T) {
	mockClient := &MockGitHubClient{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc((&waitRecorder{}).wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(0))

	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(true)
	gt.A(t, mockClient.calls).Length(0)
}

func TestLocator_FindArtifactID_Pagination(t *testing.T) {
	pages := map[int][]*model.WorkflowRun{
		1: {
			{ID: 10, HeadSHA: "zzz", Conclusion: "success"},
			// Matches but carries no build.zip
			{ID: 11, HeadSHA: "abc123", Conclusion: "success"},
		},
		2: {
			{ID: 20, HeadSHA: "abc123", Conclusion: "success"},
		},
	}
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
			next := page + 1
			if next > len(pages) {
				next = 0
			}
			return pages[page], next, nil
		},
		listRunArtifactsFunc: func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
			if runID == 20 {
				return []*model.Artifact{{ID: 7, Name: "logs"}, {ID: 99, Name: "build.zip"}}, nil
			}
			return []*model.Artifact{{ID: 5, Name: "logs"}}, nil
		},
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	id, err := uc.FindArtifactID(context.Background(), newQuery(5))

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(99))
	gt.A(t, waiter.durations).Length(0)
	gt.Value(t, mockClient.calls).Equal([]string{
		"ListWorkflowRuns:1",
		"ListRunArtifacts:11",
		"ListWorkflowRuns:2",
		"ListRunArtifacts:20",
	})
}

func TestLocator_FindArtifactID_OnlyFirstMatchingRunPerPage(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(
			&model.WorkflowRun{ID: 1, HeadSHA: "abc123", Conclusion: "success"},
			&model.WorkflowRun{ID: 2, HeadSHA: "abc123", Conclusion: "success"},
		),
		listRunArtifactsFunc: func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
			if runID == 2 {
				return []*model.Artifact{{ID: 42, Name: "build.zip"}}, nil
			}
			return nil, nil
		},
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(2))

	// Run 2 is never inspected; the whole scan is retried instead
	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(true)
	gt.Value(t, mockClient.calls).Equal([]string{
		"ListWorkflowRuns:1",
		"ListRunArtifacts:1",
		"ListWorkflowRuns:1",
		"ListRunArtifacts:1",
	})
}

func TestLocator_FindArtifactID_AppearsLater(t *testing.T) {
	scans := 0
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
			scans++
			conclusion := ""
			if scans >= 3 {
				conclusion = "success"
			}
			return []*model.WorkflowRun{{ID: 1, HeadSHA: "abc123", Conclusion: conclusion}}, 0, nil
		},
		listRunArtifactsFunc: func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
			return []*model.Artifact{{ID: 42, Name: "build.zip"}}, nil
		},
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient,
		usecase.WithWaitFunc(waiter.wait),
		usecase.WithPollInterval(5*time.Second),
	)
	id, err := uc.FindArtifactID(context.Background(), newQuery(model.DefaultAttempts))

	gt.NoError(t, err)
	gt.Value(t, id).Equal(int64(42))
	gt.Value(t, waiter.durations).Equal([]time.Duration{5 * time.Second, 5 * time.Second})
}

func TestLocator_FindArtifactID_APIErrorIsNotRetried(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
			return nil, 0, errors.New("502 bad gateway")
		},
	}
	waiter := &waitRecorder{}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc(waiter.wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(model.DefaultAttempts))

	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("502 bad gateway")
	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(false)
	gt.Number(t, mockClient.countCalls("ListWorkflowRuns")).Equal(1)
	gt.A(t, waiter.durations).Length(0)
}

func TestLocator_FindArtifactID_ArtifactListError(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(
			&model.WorkflowRun{ID: 1, HeadSHA: "abc123", Conclusion: "success"},
		),
		listRunArtifactsFunc: func(ctx context.Context, repo model.Repository, runID int64) ([]*model.Artifact, error) {
			return nil, errors.New("artifact listing failed")
		},
	}

	uc := usecase.NewLocator(mockClient, usecase.WithWaitFunc((&waitRecorder{}).wait))
	_, err := uc.FindArtifactID(context.Background(), newQuery(model.DefaultAttempts))

	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("artifact listing failed")
}

func TestLocator_FindArtifactID_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: func(ctx context.Context, repo model.Repository, workflow string, page int) ([]*model.WorkflowRun, int, error) {
			cancel()
			return nil, 0, nil
		},
	}

	// Default wait honors context cancellation
	uc := usecase.NewLocator(mockClient, usecase.WithPollInterval(time.Hour))
	_, err := uc.FindArtifactID(ctx, newQuery(model.DefaultAttempts))

	gt.Error(t, err)
	gt.Value(t, errors.Is(err, context.Canceled)).Equal(true)
	gt.Number(t, mockClient.countCalls("ListWorkflowRuns")).Equal(1)
}

func TestLocator_FindArtifactID_RealWait(t *testing.T) {
	mockClient := &MockGitHubClient{
		listWorkflowRunsFunc: singlePage(),
	}

	uc := usecase.NewLocator(mockClient, usecase.WithPollInterval(time.Millisecond))
	_, err := uc.FindArtifactID(context.Background(), newQuery(2))

	gt.Value(t, errors.Is(err, usecase.ErrArtifactNotFound)).Equal(true)
	gt.Number(t, mockClient.countCalls("ListWorkflowRuns")).Equal(2)
}
