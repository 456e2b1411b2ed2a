// Package core implements gg's branch workflow: resolving issues and branch
// searches, classifying merge status, and the start/commit/push/merge/rebase/
// cleanup/pr operations built on them.
package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/prompt"
	"github.com/kilupskalvis/gg/internal/store"
	"github.com/kilupskalvis/gg/internal/tracker"
	"github.com/kilupskalvis/gg/internal/vcs"
)

// Env carries the collaborators every workflow operation needs. It is built
// once per command invocation.
type Env struct {
	Repo     vcs.Repository
	State    *store.Store
	Bugzilla tracker.BugTracker
	GitHub   tracker.IssueTracker
	// HasGitHubCredentials gates pull request lookups.
	HasGitHubCredentials bool
	Prompt               prompt.Prompter
	// Out receives notes shown before a question is asked.
	Out    io.Writer
	Logger *slog.Logger
	Now    func() time.Time
	// Username stands in for the fork remote name when none is configured.
	Username     string
	GitHubWebURL string
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

func (e *Env) printf(format string, args ...any) {
	if e.Out != nil {
		fmt.Fprintf(e.Out, format, args...)
	}
}

func (e *Env) webURL() string {
	if e.GitHubWebURL != "" {
		return e.GitHubWebURL
	}
	return "https://github.com"
}

// Settings reads the effective settings for the current repository.
func (e *Env) Settings() (models.Settings, error) {
	return e.State.Settings(e.Repo.Name())
}

// forkName returns the configured fork remote, or the OS user when unset.
func (e *Env) forkName(s models.Settings) string {
	if s.ForkRemoteName != "" {
		return s.ForkRemoteName
	}
	return e.Username
}

// DefaultBranch returns the settings override or the discovered default branch.
func (e *Env) DefaultBranch(ctx context.Context, s models.Settings) (string, error) {
	if s.DefaultBranchOverride != "" {
		return s.DefaultBranchOverride, nil
	}
	name, err := e.Repo.DefaultBranch(ctx, s.OriginRemoteName)
	if err != nil {
		return "", fmt.Errorf("discover default branch: %w", err)
	}
	return name, nil
}

// branchContext is what most operations establish first.
type branchContext struct {
	settings      models.Settings
	defaultBranch string
	active        string
}

// topicBranch loads settings and refuses when the default branch is checked out.
func (e *Env) topicBranch(ctx context.Context) (*branchContext, error) {
	settings, err := e.Settings()
	if err != nil {
		return nil, err
	}
	def, err := e.DefaultBranch(ctx, settings)
	if err != nil {
		return nil, err
	}
	active, err := e.Repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	if active == def {
		return nil, &OnDefaultBranchError{Branch: def}
	}
	e.logger().Debug("branch context", "active", active, "default", def, "origin", settings.OriginRemoteName)
	return &branchContext{settings: settings, defaultBranch: def, active: active}, nil
}

// requireClean fails with the modified paths when the tree has tracked changes.
func (e *Env) requireClean(ctx context.Context) error {
	dirty, err := e.Repo.IsDirty(ctx)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}

	var paths []string
	changes, err := e.Repo.DiffAgainstIndex(ctx)
	if err != nil {
		return err
	}
	staged, err := e.Repo.DiffAgainstHead(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, c := range append(changes, staged...) {
		if !seen[c.Path] {
			seen[c.Path] = true
			paths = append(paths, c.Path)
		}
	}
	return &DirtyWorkingTreeError{Paths: paths}
}

// requireRemote returns the named remote or RemoteNotFoundError.
func (e *Env) requireRemote(ctx context.Context, name string) (*models.Remote, error) {
	remote, err := e.findRemote(ctx, name)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return nil, &RemoteNotFoundError{Name: name}
	}
	return remote, nil
}

func (e *Env) findRemote(ctx context.Context, name string) (*models.Remote, error) {
	remotes, err := e.Repo.ListRemotes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range remotes {
		if remotes[i].Name == name {
			return &remotes[i], nil
		}
	}
	return nil, nil
}

// confirm asks a yes/no question and turns "no" into ErrAborted.
func (e *Env) confirm(question string, defaultYes bool) error {
	ok, err := e.Prompt.Confirm(question, defaultYes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
