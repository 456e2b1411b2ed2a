package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo initializes a repository with one commit on master and a
// second branch "feature" at the same commit.
func newTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial commit\n", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature"), hash)
	require.NoError(t, repo.Storer.SetReference(ref))

	return dir, repo
}

func TestOpen_FromNestedDirectory(t *testing.T) {
	dir, _ := newTestRepo(t)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	g, err := Open(nested, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), g.Name())
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestGitRepository_ListLocalBranches(t *testing.T) {
	dir, _ := newTestRepo(t)
	g, err := Open(dir, nil)
	require.NoError(t, err)

	heads, err := g.ListLocalBranches(context.Background())
	require.NoError(t, err)
	require.Len(t, heads, 2)

	assert.Equal(t, "feature", heads[0].Name)
	assert.Equal(t, "master", heads[1].Name)
	assert.Equal(t, "initial commit", heads[1].LastMessage)
	assert.False(t, heads[1].LastUpdated.IsZero())
	assert.Equal(t, heads[0].Hash, heads[1].Hash)
}

func TestGitRepository_CurrentBranch(t *testing.T) {
	dir, _ := newTestRepo(t)
	g, err := Open(dir, nil)
	require.NoError(t, err)

	name, err := g.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", name)
}

func TestGitRepository_Remotes(t *testing.T) {
	dir, _ := newTestRepo(t)
	g, err := Open(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, g.AddRemote(ctx, "origin", "git@github.com:mozilla/gg.git"))
	require.NoError(t, g.AddRemote(ctx, "peterbe", "git@github.com:peterbe/gg.git"))
	assert.Error(t, g.AddRemote(ctx, "origin", "git@github.com:other/gg.git"))

	remotes, err := g.ListRemotes(ctx)
	require.NoError(t, err)
	require.Len(t, remotes, 2)
	assert.Equal(t, "origin", remotes[0].Name)
	assert.Equal(t, "git@github.com:peterbe/gg.git", remotes[1].URL)
}

func TestGitRepository_DefaultBranch(t *testing.T) {
	dir, repo := newTestRepo(t)
	g, err := Open(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	// only local branches: master
	name, err := g.DefaultBranch(ctx, "origin")
	require.NoError(t, err)
	assert.Equal(t, "master", name)

	head, err := repo.Head()
	require.NoError(t, err)

	// origin/main beats local master
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", "main"), head.Hash())))
	name, err = g.DefaultBranch(ctx, "origin")
	require.NoError(t, err)
	assert.Equal(t, "main", name)

	// origin HEAD beats everything
	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "develop"))))
	name, err = g.DefaultBranch(ctx, "origin")
	require.NoError(t, err)
	assert.Equal(t, "develop", name)
}

func TestGitRepository_DefaultBranchFallback(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	g, err := Open(dir, nil)
	require.NoError(t, err)

	name, err := g.DefaultBranch(context.Background(), "origin")
	require.NoError(t, err)
	assert.Equal(t, "main", name)
}
