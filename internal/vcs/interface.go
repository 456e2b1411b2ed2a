// Package vcs is the version-control capability gg drives: read-only queries
// through go-git and mutations and network operations through the git CLI.
package vcs

import (
	"context"

	"github.com/kilupskalvis/gg/internal/models"
)

// Repository defines the contract for version-control operations.
// This interface enables mocking for testing the core package.
type Repository interface {
	// Root returns the absolute path of the working tree.
	Root() string
	// Name returns the basename of the working tree root.
	Name() string

	// Refs and remotes
	ListLocalBranches(ctx context.Context) ([]models.HeadRef, error)
	ListRemotes(ctx context.Context) ([]models.Remote, error)
	AddRemote(ctx context.Context, name, url string) error
	CurrentBranch(ctx context.Context) (string, error)
	// DefaultBranch discovers the upstream integration branch from the origin
	// remote's HEAD, falling back to main/master.
	DefaultBranch(ctx context.Context, originName string) (string, error)

	// Working tree
	IsDirty(ctx context.Context) (bool, error)
	Checkout(ctx context.Context, branch string) error
	CheckoutTracking(ctx context.Context, remoteName, branch string) error
	CreateBranch(ctx context.Context, name string) error
	DeleteBranch(ctx context.Context, name string, force bool) error

	// Network
	Fetch(ctx context.Context, remoteName string) ([]models.FetchedRef, error)
	Pull(ctx context.Context, remoteName, branch string) error
	Push(ctx context.Context, remoteName, branch string, force bool) (*models.PushResult, error)
	DeleteRemoteBranch(ctx context.Context, remoteName, branch string) error

	// Integration
	Merge(ctx context.Context, branch string) error
	Rebase(ctx context.Context, branch string) error

	// Committing
	Stage(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string, noVerify bool) (string, error)

	// Status
	ListMergedBranches(ctx context.Context) ([]string, error)
	DiffAgainstIndex(ctx context.Context) ([]models.FileChange, error)
	DiffAgainstHead(ctx context.Context) ([]models.FileChange, error)
	UntrackedFiles(ctx context.Context) ([]models.UntrackedFile, error)
}

// Verify that *GitRepository implements Repository at compile time
var _ Repository = (*GitRepository)(nil)
