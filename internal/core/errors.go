package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/prompt"
)

var (
	// ErrAborted means the user answered no at a confirmation prompt.
	ErrAborted = prompt.ErrAborted

	ErrBranchNotFound       = errors.New("no branches found")
	ErrIssueNotFound        = errors.New("ID could not be found on GitHub or Bugzilla")
	ErrDegenerateBranchName = errors.New("summary produces an empty branch name")
	ErrUnknownTracker       = errors.New("branch record has an issue number but no recognizable tracker URL")
	ErrNoPushRemote         = errors.New("can't help you push the commit, please run: gg config --help")
	ErrNoGitHubCredentials  = errors.New("can't help with GitHub pull requests, consider running: gg github --help")
	ErrUntrackedFiles       = errors.New("leaving it up to you to figure out what to do with those untracked files")
)

// InvalidRemoteNameError means a "remote:branch" search named a remote that
// is not configured. Callers may offer to add it and retry.
type InvalidRemoteNameError struct {
	Name string
}

func (e *InvalidRemoteNameError) Error() string {
	return fmt.Sprintf("there is no remote called %q", e.Name)
}

// RemoteNotFoundError means a configured remote name (origin or fork) has no
// matching remote in the repository.
type RemoteNotFoundError struct {
	Name string
}

func (e *RemoteNotFoundError) Error() string {
	return fmt.Sprintf("no remote called %q found", e.Name)
}

// AmbiguousBranchError lists every branch a search matched.
type AmbiguousBranchError struct {
	Search  string
	Matches []models.BranchRef
}

func (e *AmbiguousBranchError) Error() string {
	names := make([]string, len(e.Matches))
	for i, m := range e.Matches {
		names[i] = m.DisplayName()
	}
	return "more than one branch found:\n\t" + strings.Join(names, "\n\t")
}

// AmbiguousIssueError lists every tracker that knows a bare issue number.
type AmbiguousIssueError struct {
	Token      string
	Candidates []models.Issue
}

func (e *AmbiguousIssueError) Error() string {
	var b strings.Builder
	b.WriteString("input is ambiguous, multiple possibilities found. Please re-run with the full URL:")
	for _, c := range e.Candidates {
		fmt.Fprintf(&b, "\n\t%s\n\t%s\n", c.URL, c.Summary)
	}
	return b.String()
}

// DirtyWorkingTreeError lists the modified paths that block an operation.
type DirtyWorkingTreeError struct {
	Paths []string
}

func (e *DirtyWorkingTreeError) Error() string {
	quoted := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		quoted[i] = fmt.Sprintf("%q", p)
	}
	return fmt.Sprintf("repo is \"dirty\" (%s)", strings.Join(quoted, ", "))
}

// OnDefaultBranchError refuses an operation that needs a topic branch.
type OnDefaultBranchError struct {
	Branch string
}

func (e *OnDefaultBranchError) Error() string {
	return fmt.Sprintf("you're on the %s branch, you really ought to do work in branches", e.Branch)
}

// ActiveBranchError refuses to delete or re-check-out the checked-out branch.
type ActiveBranchError struct {
	Branch string
}

func (e *ActiveBranchError) Error() string {
	return fmt.Sprintf("you're already on %q", e.Branch)
}

// PushRejectedError is returned when a push was rejected and the user
// declined to force it.
type PushRejectedError struct {
	Remote string
	Branch string
	Result *models.PushResult
}

func (e *PushRejectedError) Error() string {
	return fmt.Sprintf("the push to %s was rejected (%q)", e.Remote, e.Result.Summary)
}

// RemoteDeleteWarning reports a failed best-effort remote branch deletion.
// It is carried on results and never returned as an error.
type RemoteDeleteWarning struct {
	Remote string
	Branch string
	Err    error
}

func (w *RemoteDeleteWarning) Error() string {
	return fmt.Sprintf("could not delete %s on %s: %v", w.Branch, w.Remote, w.Err)
}

func (w *RemoteDeleteWarning) Unwrap() error {
	return w.Err
}
