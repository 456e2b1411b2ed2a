package core

import (
	"context"
	"testing"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func branchNames(refs []models.BranchRef) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.DisplayName()
	}
	return names
}

func TestFindBranches_Substring(t *testing.T) {
	repo := vcs.NewMockRepository("this-branch", "other-branch", "not-merged-branch")
	ctx := context.Background()

	refs, err := CollectBranches(FindBranches(ctx, repo, "other", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"other-branch"}, branchNames(refs))

	refs, err = CollectBranches(FindBranches(ctx, repo, "", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"this-branch", "other-branch", "not-merged-branch"}, branchNames(refs))

	refs, err = CollectBranches(FindBranches(ctx, repo, "zzz", false))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFindBranches_CaseInsensitive(t *testing.T) {
	repo := vcs.NewMockRepository("Bug-42-Fix")

	refs, err := CollectBranches(FindBranches(context.Background(), repo, "bug-42", false))
	require.NoError(t, err)
	assert.Equal(t, []string{"Bug-42-Fix"}, branchNames(refs))
}

func TestFindBranches_Exact(t *testing.T) {
	repo := vcs.NewMockRepository("other-branch", "other-branch-2")
	ctx := context.Background()

	refs, err := CollectBranches(FindBranches(ctx, repo, "OTHER-BRANCH", true))
	require.NoError(t, err)
	assert.Equal(t, []string{"other-branch"}, branchNames(refs))

	refs, err = CollectBranches(FindBranches(ctx, repo, "other", true))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestFindBranches_Restartable(t *testing.T) {
	repo := vcs.NewMockRepository("a", "b")
	seq := FindBranches(context.Background(), repo, "", false)

	first, err := CollectBranches(seq)
	require.NoError(t, err)
	second, err := CollectBranches(seq)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindBranches_EarlyStop(t *testing.T) {
	repo := vcs.NewMockRepository("a-1", "a-2", "a-3")

	var seen []string
	for ref, err := range FindBranches(context.Background(), repo, "a", false) {
		require.NoError(t, err)
		seen = append(seen, ref.Name)
		break
	}
	assert.Equal(t, []string{"a-1"}, seen)
}

// ==================== Remote Form Tests ====================

func TestFindBranches_RemoteFormFetchesOnce(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main"))
	repo.FetchResults["peterbe"] = []models.FetchedRef{
		{RefName: "refs/remotes/peterbe/other"},
		{RefName: "refs/remotes/peterbe/1234-fix", New: true},
	}

	refs, err := CollectBranches(FindBranches(context.Background(), repo, "peterbe:1234-fix", false))
	require.NoError(t, err)

	assert.Equal(t, 1, repo.FetchCalls["peterbe"])
	require.Len(t, refs, 1)
	assert.Equal(t, "1234-fix", refs[0].Name)
	assert.Equal(t, "peterbe", refs[0].RemoteName)
	assert.True(t, refs[0].IsRemote())
}

func TestFindBranches_RemoteFormNoMatch(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main"))

	refs, err := CollectBranches(FindBranches(context.Background(), repo, "peterbe:1234-fix", false))
	require.NoError(t, err)
	assert.Equal(t, 1, repo.FetchCalls["peterbe"])
	assert.Empty(t, refs)
}

func TestFindBranches_RemoteFormLocalWins(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main", "1234-fix"))

	refs, err := CollectBranches(FindBranches(context.Background(), repo, "peterbe:1234-fix", false))
	require.NoError(t, err)
	assert.Zero(t, repo.FetchCalls["peterbe"])
	assert.Equal(t, []string{"1234-fix"}, branchNames(refs))
}

func TestFindBranches_InvalidRemote(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main"))

	_, err := CollectBranches(FindBranches(context.Background(), repo, "nobody:fix", false))
	var invalid *InvalidRemoteNameError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "nobody", invalid.Name)
	assert.Empty(t, repo.FetchCalls)
}

func TestFindBranchesInteractive_AddsMissingRemote(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main"))
	repo.FetchResults["willkg"] = []models.FetchedRef{{RefName: "refs/remotes/willkg/fix"}}
	te := newTestEnv(t, repo, "y")

	refs, err := findBranchesInteractive(context.Background(), te.Env, "willkg:fix", false)
	require.NoError(t, err)

	assert.Contains(t, repo.Calls, "remote add willkg git@github.com:willkg/gg.git")
	assert.Equal(t, []string{"willkg/fix"}, branchNames(refs))
}

func TestFindBranchesInteractive_Declined(t *testing.T) {
	repo := withRemotes(vcs.NewMockRepository("main"))
	te := newTestEnv(t, repo, "n")

	_, err := findBranchesInteractive(context.Background(), te.Env, "willkg:fix", false)
	var invalid *InvalidRemoteNameError
	require.ErrorAs(t, err, &invalid)
	assert.NotContains(t, repo.Calls, "remote add willkg git@github.com:willkg/gg.git")
}

func TestForkRemoteURL(t *testing.T) {
	u, ok := forkRemoteURL("https://github.com/mozilla/gg.git", "peterbe")
	require.True(t, ok)
	assert.Equal(t, "https://github.com/peterbe/gg.git", u)

	u, ok = forkRemoteURL("git@github.com:mozilla/gg.git", "peterbe")
	require.True(t, ok)
	assert.Equal(t, "git@github.com:peterbe/gg.git", u)

	_, ok = forkRemoteURL("https://example.com/x.git", "peterbe")
	assert.False(t, ok)
}

func TestSingleBranch(t *testing.T) {
	_, err := singleBranch("x", nil)
	assert.ErrorIs(t, err, ErrBranchNotFound)

	ref, err := singleBranch("x", []models.BranchRef{{Name: "x-1"}})
	require.NoError(t, err)
	assert.Equal(t, "x-1", ref.Name)

	_, err = singleBranch("x", []models.BranchRef{{Name: "x-1"}, {Name: "x-2"}})
	var ambiguous *AmbiguousBranchError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "more than one branch found:\n\tx-1\n\tx-2", err.Error())
}
