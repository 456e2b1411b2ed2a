package models

import "strings"

// Remote is a configured remote of the working repository.
type Remote struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FetchedRef is one remote-tracking ref after a fetch, with how it changed.
type FetchedRef struct {
	RefName  string // fully-qualified local ref, e.g. refs/remotes/peterbe/1234-fix
	Forced   bool
	UpToDate bool
	New      bool
}

// ShortName returns the ref name without the refs/remotes/ prefix.
func (f FetchedRef) ShortName() string {
	return strings.TrimPrefix(f.RefName, "refs/remotes/")
}

// PushResult is the outcome of pushing one branch.
type PushResult struct {
	Rejected       bool
	RemoteRejected bool
	Forced         bool
	UpToDate       bool
	New            bool
	Summary        string
}

// WasRejected reports whether either side refused the update.
func (p *PushResult) WasRejected() bool {
	return p.Rejected || p.RemoteRejected
}

// Classification returns a one-word description of the push outcome.
func (p *PushResult) Classification() string {
	switch {
	case p.RemoteRejected:
		return "remote-rejected"
	case p.Rejected:
		return "rejected"
	case p.UpToDate:
		return "up-to-date"
	case p.Forced:
		return "force-updated"
	case p.New:
		return "new-branch"
	default:
		return "fast-forward"
	}
}
