package core

import (
	"context"
	"errors"
	"testing"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Merge Tests ====================

func TestMerge(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	te := newTestEnv(t, repo, "y")
	require.NoError(t, te.State.SaveBranch(&models.BranchRecord{RepositoryName: "gg", BranchName: "feature", Description: "f"}))

	result, err := Merge(context.Background(), te.Env)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"checkout main",
		"pull origin main",
		"merge feature",
		"branch -d feature",
		"push origin main",
	}, repo.Calls)
	assert.Equal(t, "main", repo.Current)
	assert.False(t, repo.HasBranch("feature"))
	assert.NotNil(t, result.Push)
	assert.Contains(t, te.out.String(), "Branch 'feature' deleted.")
	assert.Contains(t, te.out.String(), "git push origin main")

	_, err = te.State.LoadBranch("gg", "feature")
	assert.Error(t, err)
}

func TestMerge_DeclinePush(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	te := newTestEnv(t, repo, "n")

	result, err := Merge(context.Background(), te.Env)
	require.NoError(t, err)
	assert.Nil(t, result.Push)
	assert.NotContains(t, repo.Calls, "push origin main")
}

func TestMerge_RefusesDefaultBranch(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("main")))

	_, err := Merge(context.Background(), te.Env)
	var onDefault *OnDefaultBranchError
	require.ErrorAs(t, err, &onDefault)
	assert.Empty(t, te.repo.Calls)
}

func TestMerge_RefusesDirty(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	repo.Dirty = true
	repo.IndexChanges = []models.FileChange{{Path: "a"}, {Path: "b"}}
	te := newTestEnv(t, repo)

	_, err := Merge(context.Background(), te.Env)
	var dirty *DirtyWorkingTreeError
	require.ErrorAs(t, err, &dirty)
	assert.Equal(t, []string{"a", "b"}, dirty.Paths)
	assert.Empty(t, repo.Calls)
}

func TestMerge_NoOrigin(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("feature", "main"))

	_, err := Merge(context.Background(), te.Env)
	var notFound *RemoteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "origin", notFound.Name)
}

func TestMerge_CustomOrigin(t *testing.T) {
	repo := vcs.NewMockRepository("feature", "main")
	repo.Remotes = []models.Remote{{Name: "upstream", URL: testOriginURL}}
	te := newTestEnv(t, repo, "n")
	require.NoError(t, te.State.SetOriginName("upstream"))

	_, err := Merge(context.Background(), te.Env)
	require.NoError(t, err)
	assert.Contains(t, repo.Calls, "pull upstream main")
}

func TestMerge_MergeConflictStops(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	repo.Fail["Merge"] = errors.New("CONFLICT (content)")
	te := newTestEnv(t, repo)

	_, err := Merge(context.Background(), te.Env)
	assert.ErrorContains(t, err, "CONFLICT")
	assert.True(t, repo.HasBranch("feature"))
}

// ==================== MasterMerge and Rebase Tests ====================

func TestMasterMerge(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	te := newTestEnv(t, repo)

	result, err := MasterMerge(context.Background(), te.Env)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"checkout main",
		"pull origin main",
		"checkout feature",
		"merge main",
	}, repo.Calls)
	assert.Equal(t, "feature", repo.Current)
	assert.Equal(t, "main", result.DefaultBranch)
	assert.Equal(t, "origin", result.Origin)
}

func TestRebase(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	te := newTestEnv(t, repo)

	_, err := Rebase(context.Background(), te.Env)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"checkout main",
		"pull origin main",
		"checkout feature",
		"rebase main",
	}, repo.Calls)
	assert.Equal(t, "feature", repo.Current)
}

func TestRebase_RefusesDirty(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("feature", "main"))
	repo.Dirty = true
	te := newTestEnv(t, repo)

	_, err := Rebase(context.Background(), te.Env)
	var dirty *DirtyWorkingTreeError
	assert.ErrorAs(t, err, &dirty)
}

func TestMasterMerge_RefusesDefaultBranch(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("main")))

	_, err := MasterMerge(context.Background(), te.Env)
	var onDefault *OnDefaultBranchError
	assert.ErrorAs(t, err, &onDefault)
}
