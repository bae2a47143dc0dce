package model

// ConclusionSuccess is the conclusion of a workflow run that finished successfully
const ConclusionSuccess = "success"

// WorkflowRun represents one execution of a workflow
type WorkflowRun struct {
	ID         int64
	HeadSHA    string
	Conclusion string
}

// Matches reports whether the run was built from commit and succeeded.
// Both comparisons are exact and case-sensitive.
func (r *WorkflowRun) Matches(commit string) bool {
	return r.HeadSHA == commit && r.Conclusion == ConclusionSuccess
}

// Artifact represents a named bundle produced by a workflow run
type Artifact struct {
	ID          int64
	Name        string
	SizeInBytes int64
	Expired     bool
}

// ArtifactQuery describes the artifact the locator polls for
type ArtifactQuery struct {
	Repo         Repository
	Workflow     string // Workflow ID or workflow file name
	Commit       string // Expected head SHA of the run
	ArtifactName string
	Attempts     int // Number of full scans before giving up
}

// FetchResult represents the outcome of downloading and extracting an artifact
type FetchResult struct {
	Dir   string   // Directory the archive was extracted to
	Path  string   // Path of the entry named after the artifact
	Files []string // Extracted entry names
	Size  int64    // Total uncompressed size in bytes
}
