package model

// ReleaseAsset represents a file attached to a release
type ReleaseAsset struct {
	ID                 int64
	Name               string
	Size               int64
	BrowserDownloadURL string
}

// ReplaceResult holds the assets removed from a release and the one uploaded in their place
type ReplaceResult struct {
	Removed  []*ReleaseAsset
	Uploaded *ReleaseAsset
}

// PublishReport summarizes one invocation for notifications
type PublishReport struct {
	Repo       Repository
	ReleaseID  int64
	ArtifactID int64 // Zero when the artifact was supplied locally
	Asset      *ReleaseAsset
	Err        error
}

// Succeeded reports whether the invocation completed without error
func (r *PublishReport) Succeeded() bool {
	return r.Err == nil
}
