package models

import "time"

// Issue is a resolved bug or GitHub issue.
type Issue struct {
	Summary string
	Number  int // 0 when the token was free text
	URL     string
	Tracker Tracker
}

// PullRequest is the subset of a GitHub pull request the tool displays.
type PullRequest struct {
	Number         int       `json:"number"`
	URL            string    `json:"html_url"`
	State          string    `json:"state"`
	Draft          bool      `json:"draft"`
	UpdatedAt      time.Time `json:"updated_at"`
	Mergeable      *bool     `json:"mergeable"`
	MergeableState string    `json:"mergeable_state"`
}
