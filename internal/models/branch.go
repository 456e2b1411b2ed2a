package models

import (
	"strings"
	"time"
)

// Tracker identifies which issue-tracking system a branch or issue belongs to.
type Tracker string

const (
	TrackerNone     Tracker = ""
	TrackerBugzilla Tracker = "bugzilla"
	TrackerGitHub   Tracker = "github"
)

// String returns a display name for the tracker.
func (t Tracker) String() string {
	switch t {
	case TrackerBugzilla:
		return "Bugzilla"
	case TrackerGitHub:
		return "GitHub"
	default:
		return "none"
	}
}

// ClassifyTrackerURL classifies an issue URL by its host.
// Returns TrackerNone when the URL is empty or not recognized.
func ClassifyTrackerURL(rawURL string) Tracker {
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)

	switch {
	case strings.Contains(host, "github"):
		return TrackerGitHub
	case strings.Contains(host, "bugzilla"):
		return TrackerBugzilla
	default:
		return TrackerNone
	}
}

// BranchRecord is the persisted metadata of a topic branch created by "start".
// RepositoryName and BranchName form the key and are not part of the JSON value.
type BranchRecord struct {
	RepositoryName string    `json:"-"`
	BranchName     string    `json:"-"`
	Description    string    `json:"description"`
	IssueNumber    int       `json:"bugnumber,omitempty"`
	IssueURL       string    `json:"url,omitempty"`
	Tracker        Tracker   `json:"tracker,omitempty"`
	CreatedAt      time.Time `json:"date"`
}

// HasIssue reports whether the record is linked to an external issue.
func (r *BranchRecord) HasIssue() bool {
	return r.IssueNumber > 0
}

// BranchKey returns the state file key for a branch record: "repo:branch".
func BranchKey(repositoryName, branchName string) string {
	return repositoryName + ":" + branchName
}

// HeadRef is a local branch pointer and the commit at its tip.
type HeadRef struct {
	Name        string
	Hash        string
	LastUpdated time.Time
	LastMessage string
}

// BranchRef is a branch matched by the branch resolver: a local head, or a
// remote-tracking ref that was fetched on demand.
type BranchRef struct {
	Name       string // short branch name, without the remote prefix
	RemoteName string // empty for local branches
	Head       *HeadRef
}

// IsRemote reports whether the ref is a remote-tracking ref.
func (b BranchRef) IsRemote() bool {
	return b.RemoteName != ""
}

// DisplayName returns "remote/branch" for remote refs and the plain name otherwise.
func (b BranchRef) DisplayName() string {
	if b.IsRemote() {
		return b.RemoteName + "/" + b.Name
	}
	return b.Name
}
