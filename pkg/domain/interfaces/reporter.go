package interfaces

import (
	"context"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// Reporter communicates progress and outcome to the CI runner
type Reporter interface {
	// Group starts a collapsible log section and returns a function closing it
	Group(title string) func()

	// SetOutput sets a step output
	SetOutput(name, value string)

	// Succeed reports successful completion
	Succeed(msg string)

	// Fail marks the step as failed with msg
	Fail(msg string)
}

// Notifier delivers the outcome of an invocation to an external channel
type Notifier interface {
	Notify(ctx context.Context, report *model.PublishReport) error
}
