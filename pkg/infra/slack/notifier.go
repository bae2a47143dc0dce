package slack

import (
	"context"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/artifact-release/pkg/domain/model"
)

// Notifier posts invocation results to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	channel    string
}

// Option is a functional option for Notifier
type Option func(*Notifier)

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(n *Notifier) {
		n.channel = channel
	}
}

// New creates a new Slack notifier
func New(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{webhookURL: webhookURL}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify posts a summary of report
func (n *Notifier) Notify(ctx context.Context, report *model.PublishReport) error {
	if err := slack.PostWebhookContext(ctx, n.webhookURL, buildMessage(report, n.channel)); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook", goerr.V("repo", report.Repo.String()))
	}
	return nil
}

func buildMessage(report *model.PublishReport, channel string) *slack.WebhookMessage {
	fields := []slack.AttachmentField{
		{Title: "Repository", Value: report.Repo.String(), Short: true},
		{Title: "Release", Value: strconv.FormatInt(report.ReleaseID, 10), Short: true},
	}
	if report.ArtifactID != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Artifact", Value: strconv.FormatInt(report.ArtifactID, 10), Short: true,
		})
	}
	if report.Asset != nil {
		fields = append(fields, slack.AttachmentField{
			Title: "Asset", Value: report.Asset.Name, Short: true,
		})
	}

	attachment := slack.Attachment{
		Color:  "good",
		Title:  "Release artifact updated",
		Fields: fields,
	}
	if !report.Succeeded() {
		attachment.Color = "danger"
		attachment.Title = "Release artifact update failed"
		attachment.Text = report.Err.Error()
	}

	return &slack.WebhookMessage{
		Channel:     channel,
		Text:        attachment.Title + ": " + report.Repo.String(),
		Attachments: []slack.Attachment{attachment},
	}
}
