// Package actions speaks the GitHub Actions runner protocol: workflow commands written to
// stdout and environment files such as GITHUB_OUTPUT.
package actions

import (
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/sethvargo/go-githubactions"
)

// Workflow writes workflow commands for the step running this process
type Workflow struct {
	action     *githubactions.Action
	out        io.Writer
	outputPath string
	success    *color.Color
	mu         sync.Mutex
}

// New creates a Workflow writing commands to out and step outputs to outputPath.
// An empty outputPath disables step outputs.
func New(out io.Writer, outputPath string) *Workflow {
	getenv := func(key string) string {
		if key == "GITHUB_OUTPUT" {
			return outputPath
		}
		return os.Getenv(key)
	}

	return &Workflow{
		action: githubactions.New(
			githubactions.WithWriter(out),
			githubactions.WithGetenv(getenv),
		),
		out:        out,
		outputPath: outputPath,
		success:    color.New(color.FgGreen, color.Bold),
	}
}

// Group opens a collapsible log group and returns the function closing it
func (x *Workflow) Group(title string) func() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.action.Group(title)

	return func() {
		x.mu.Lock()
		defer x.mu.Unlock()
		x.action.EndGroup()
	}
}

// Succeed prints msg as the final success line
func (x *Workflow) Succeed(msg string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, _ = x.success.Fprintln(x.out, msg)
}

// Fail emits an error annotation; the runner marks the step failed when the process exits non-zero
func (x *Workflow) Fail(msg string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.action.Errorf("%s", msg)
}

// SetOutput appends a step output to the GITHUB_OUTPUT file
func (x *Workflow) SetOutput(name, value string) {
	// without an output file the library falls back to the retired set-output command
	if x.outputPath == "" {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.action.SetOutput(name, value)
}
