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

func newPushEnv(t *testing.T, answers ...string) *testEnv {
	t.Helper()
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("feature", "main")), answers...)
	require.NoError(t, te.State.SetForkName("peterbe"))
	return te
}

func TestPush_RefusesDefaultBranch(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))

	_, err := Push(context.Background(), te.Env, PushOptions{})
	var onDefault *OnDefaultBranchError
	assert.ErrorAs(t, err, &onDefault)
}

func TestPush_NoPushRemote(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("feature", "main")))

	_, err := Push(context.Background(), te.Env, PushOptions{})
	assert.ErrorIs(t, err, ErrNoPushRemote)
}

func TestPush_MissingForkRemote(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("feature", "main"))
	require.NoError(t, te.State.SetForkName("peterbe"))

	_, err := Push(context.Background(), te.Env, PushOptions{})
	var notFound *RemoteNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "peterbe", notFound.Name)
}

func TestPush_FastForward(t *testing.T) {
	te := newPushEnv(t)
	te.repo.PushResults = []*models.PushResult{{Summary: "abc..def"}}

	out, err := Push(context.Background(), te.Env, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, "peterbe", out.Remote)
	assert.Equal(t, "feature", out.Branch)
	assert.Equal(t, "fast-forward", out.Result.Classification())
	assert.False(t, out.Retried)
	assert.Equal(t, []string{"push peterbe feature"}, te.repo.Calls)
	assert.Empty(t, te.prompt.Questions)
}

func TestPush_UpToDate(t *testing.T) {
	te := newPushEnv(t)
	te.repo.PushResults = []*models.PushResult{{UpToDate: true, Summary: "[up to date]"}}

	out, err := Push(context.Background(), te.Env, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, "up-to-date", out.Result.Classification())
}

func TestPush_RejectedRetryForced(t *testing.T) {
	te := newPushEnv(t, "y")
	te.repo.PushResults = []*models.PushResult{
		{Rejected: true, Summary: "[rejected] (fetch first)"},
		{Forced: true, Summary: "+ abc...def (forced update)"},
	}

	out, err := Push(context.Background(), te.Env, PushOptions{})
	require.NoError(t, err)
	assert.True(t, out.Retried)
	assert.Equal(t, "rejected", out.Rejected.Classification())
	assert.Equal(t, "force-updated", out.Result.Classification())
	assert.Equal(t, []string{"push peterbe feature", "push --force peterbe feature"}, te.repo.Calls)
	assert.Equal(t, []string{"Try to force push?"}, te.prompt.Questions)
}

func TestPush_RejectedDeclined(t *testing.T) {
	te := newPushEnv(t, "n")
	te.repo.PushResults = []*models.PushResult{{RemoteRejected: true, Summary: "[remote rejected] (hook declined)"}}

	_, err := Push(context.Background(), te.Env, PushOptions{})
	var rejected *PushRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "remote-rejected", rejected.Result.Classification())
	assert.Equal(t, []string{"push peterbe feature"}, te.repo.Calls)
}

func TestPush_ForceFlag(t *testing.T) {
	te := newPushEnv(t)

	out, err := Push(context.Background(), te.Env, PushOptions{Force: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"push --force peterbe feature"}, te.repo.Calls)
	assert.True(t, out.Result.Forced)
	assert.Empty(t, te.prompt.Questions)
}

func TestPush_Error(t *testing.T) {
	te := newPushEnv(t)
	te.repo.Fail["Push"] = errors.New("could not resolve host")

	_, err := Push(context.Background(), te.Env, PushOptions{})
	assert.ErrorContains(t, err, "could not resolve host")
}
