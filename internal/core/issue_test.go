package core

import (
	"context"
	"errors"
	"testing"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/tracker"
	"github.com/kilupskalvis/gg/internal/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubRemote(t *testing.T) {
	tests := []struct {
		url       string
		org, repo string
		ok        bool
	}{
		{"git@github.com:mozilla/gg.git", "mozilla", "gg", true},
		{"https://github.com/peterbe/gg.git", "peterbe", "gg", true},
		{"https://github.com/peterbe/gg", "peterbe", "gg", true},
		{"https://github.com/peterbe/gg/", "peterbe", "gg", true},
		{"ssh://git@github.com/org/name.git", "org", "name", true},
		{"git@github.com:peterbe/peterbe.github.io.git", "peterbe", "peterbe.github.io", true},
		{"https://github.com/org/name.git/", "org", "name", true},
		{"https://github.com/org/dotgit.gitlab", "org", "dotgit.gitlab", true},
		{"https://gitlab.com/a/b.git", "", "", false},
		{"git@github.com:lonely", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			org, repo, ok := ParseGitHubRemote(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.org, org)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestParseGitHubIssueURL(t *testing.T) {
	org, repo, number, ok := ParseGitHubIssueURL("https://github.com/mozilla/gg/issues/7#issuecomment-1")
	require.True(t, ok)
	assert.Equal(t, "mozilla", org)
	assert.Equal(t, "gg", repo)
	assert.Equal(t, 7, number)

	_, _, _, ok = ParseGitHubIssueURL("https://github.com/mozilla/gg/pull/7")
	assert.False(t, ok)
}

// ==================== ResolveIssue Tests ====================

func TestResolveIssue_Empty(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))

	issue, err := ResolveIssue(context.Background(), te.Env, "  ")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerNone, issue.Tracker)
	assert.Empty(t, issue.Summary)
}

func TestResolveIssue_FreeText(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))

	issue, err := ResolveIssue(context.Background(), te.Env, "Fix the flaky test")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerNone, issue.Tracker)
	assert.Equal(t, "Fix the flaky test", issue.Summary)
	assert.Zero(t, issue.Number)
}

func TestResolveIssue_BugzillaURL(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.bz.Bugs[123456] = "Crash when starting"

	token := "https://bugzilla.mozilla.org/show_bug.cgi?id=123456"
	issue, err := ResolveIssue(context.Background(), te.Env, token)
	require.NoError(t, err)
	assert.Equal(t, models.TrackerBugzilla, issue.Tracker)
	assert.Equal(t, 123456, issue.Number)
	assert.Equal(t, "Crash when starting", issue.Summary)
	assert.Equal(t, token, issue.URL)
	assert.Empty(t, te.gh.Queried)
}

func TestResolveIssue_GitHubURL(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.gh.AddIssue("org", "repo", 7, "prefix branch name differently for github issues")

	issue, err := ResolveIssue(context.Background(), te.Env, "https://github.com/org/repo/issues/7")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerGitHub, issue.Tracker)
	assert.Equal(t, 7, issue.Number)
	assert.Equal(t, "prefix branch name differently for github issues", issue.Summary)
	assert.Equal(t, []string{"org/repo#7"}, te.gh.Queried)
}

func TestResolveIssue_GitHubURLWithFragment(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.gh.AddIssue("org", "repo", 7, "title")

	issue, err := ResolveIssue(context.Background(), te.Env, "https://github.com/org/repo/issues/7#issuecomment-1")
	require.NoError(t, err)
	assert.Equal(t, 7, issue.Number)
	assert.Equal(t, "https://github.com/org/repo/issues/7", issue.URL)
}

func TestResolveIssue_KeepsTrackerURL(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.bz.Bugs[123456] = "Crash when starting"
	te.gh.AddIssue("org", "repo", 7, "title")

	issue, err := ResolveIssue(context.Background(), te.Env, "http://bugzilla.mozilla.org/show_bug.cgi?id=123456")
	require.NoError(t, err)
	assert.Equal(t, "https://bugzilla.mozilla.org/show_bug.cgi?id=123456", issue.URL)

	issue, err = ResolveIssue(context.Background(), te.Env, "https://github.com/org/repo/issues/7/")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/org/repo/issues/7", issue.URL)
}

// linklessBugTracker answers like the mock but without a URL.
type linklessBugTracker struct {
	*tracker.MockBugTracker
}

func (l linklessBugTracker) FetchSummary(ctx context.Context, id int) (*models.Issue, error) {
	issue, err := l.MockBugTracker.FetchSummary(ctx, id)
	if issue != nil {
		issue.URL = ""
	}
	return issue, err
}

func TestResolveIssue_FallsBackToTypedURL(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.bz.Bugs[42] = "answer"
	te.Env.Bugzilla = linklessBugTracker{te.bz}

	token := "https://bugzilla.mozilla.org/show_bug.cgi?id=42"
	issue, err := ResolveIssue(context.Background(), te.Env, token)
	require.NoError(t, err)
	assert.Equal(t, "answer", issue.Summary)
	assert.Equal(t, token, issue.URL)
}

func TestResolveIssue_URLNotFoundKeepsLink(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))

	issue, err := ResolveIssue(context.Background(), te.Env, "https://github.com/org/repo/issues/99")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerGitHub, issue.Tracker)
	assert.Equal(t, 99, issue.Number)
	assert.Empty(t, issue.Summary)
}

func TestResolveIssue_TrackerErrorPropagates(t *testing.T) {
	te := newTestEnv(t, vcs.NewMockRepository("main"))
	te.bz.Err = errors.New("connection refused")

	_, err := ResolveIssue(context.Background(), te.Env, "https://bugzilla.mozilla.org/show_bug.cgi?id=1")
	assert.ErrorContains(t, err, "connection refused")
}

func TestResolveIssue_BareNumberAmbiguous(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("main")))
	require.NoError(t, te.State.SetForkName("peterbe"))
	te.gh.AddIssue("mozilla", "gg", 1234, "GitHub title")
	te.bz.Bugs[1234] = "Bugzilla summary"

	_, err := ResolveIssue(context.Background(), te.Env, "1234")

	var ambiguous *AmbiguousIssueError
	require.ErrorAs(t, err, &ambiguous)
	require.Len(t, ambiguous.Candidates, 2)
	assert.Equal(t, models.TrackerGitHub, ambiguous.Candidates[0].Tracker)
	assert.Equal(t, models.TrackerBugzilla, ambiguous.Candidates[1].Tracker)
	assert.Contains(t, err.Error(), "GitHub title")
	assert.Contains(t, err.Error(), "Bugzilla summary")
	// The fork remote is never asked.
	assert.Equal(t, []string{"mozilla/gg#1234"}, te.gh.Queried)
}

func TestResolveIssue_BareNumberSingle(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("main")))
	require.NoError(t, te.State.SetForkName("peterbe"))
	te.bz.Bugs[1234] = "Only on Bugzilla"

	issue, err := ResolveIssue(context.Background(), te.Env, "1234")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerBugzilla, issue.Tracker)
	assert.Equal(t, "Only on Bugzilla", issue.Summary)
}

func TestResolveIssue_BareNumberNotFound(t *testing.T) {
	te := newTestEnv(t, withRemotes(vcs.NewMockRepository("main")))

	_, err := ResolveIssue(context.Background(), te.Env, "1234")
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

func TestResolveIssue_BareNumberSkipsNonGitHubRemotes(t *testing.T) {
	repo := vcs.NewMockRepository("main")
	repo.Remotes = []models.Remote{
		{Name: "origin", URL: "https://gitlab.com/mozilla/gg.git"},
		{Name: "mirror", URL: "git@github.com:mozilla/gg.git"},
		{Name: "other", URL: "https://github.com/mozilla/gg"},
	}
	te := newTestEnv(t, repo)
	te.gh.AddIssue("mozilla", "gg", 5, "Dedup me")

	issue, err := ResolveIssue(context.Background(), te.Env, "5")
	require.NoError(t, err)
	assert.Equal(t, "Dedup me", issue.Summary)
	assert.Equal(t, []string{"mozilla/gg#5"}, te.gh.Queried)
}
