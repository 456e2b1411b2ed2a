package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a state file in a temp directory for testing.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return st
}

func writeStateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// ==================== Store Tests ====================

func TestOpen_MissingFileCreatedOnFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	st, err := Open(path)
	require.NoError(t, err)
	assert.True(t, st.Dirty())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, st.Flush())
	assert.False(t, st.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestOpen_InvalidJSON(t *testing.T) {
	path := writeStateFile(t, "{not json")
	_, err := Open(path)
	assert.Error(t, err)
}

func TestStore_ReadUpdateEmptyIsIdempotent(t *testing.T) {
	path := writeStateFile(t, `{"FORK_NAME": "peterbe", "x:y": {"description": "d", "date": "2020-01-01T00:00:00"}}`)
	st, err := Open(path)
	require.NoError(t, err)

	before, err := st.Read()
	require.NoError(t, err)

	require.NoError(t, st.Update(map[string]any{}))

	after, err := st.Read()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.NoError(t, st.Flush())
	reopened, err := Open(path)
	require.NoError(t, err)
	again, err := reopened.Read()
	require.NoError(t, err)
	assert.Equal(t, before, again)
}

func TestStore_UpdateLastWriteWins(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.Update(map[string]any{"a": 1, "b": "two"}))
	require.NoError(t, st.Update(map[string]any{"a": 3}))

	var a int
	found, err := st.Get("a", &a)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, a)

	var b string
	_, err = st.Get("b", &b)
	require.NoError(t, err)
	assert.Equal(t, "two", b)
}

func TestStore_Remove(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Set("gone", true))

	require.NoError(t, st.Remove("gone"))
	assert.False(t, st.Has("gone"))

	err := st.Remove("gone")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestStore_FlushSortsKeysAndPreservesUnknown(t *testing.T) {
	path := writeStateFile(t, `{"zeta": {"custom": [1, 2, 3]}, "alpha": "kept"}`)
	st, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, st.Set("middle", map[string]any{"z": 1, "a": 2}))
	require.NoError(t, st.Flush())
	assert.False(t, st.Dirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Less(t, strings.Index(text, `"alpha"`), strings.Index(text, `"middle"`))
	assert.Less(t, strings.Index(text, `"middle"`), strings.Index(text, `"zeta"`))
	assert.Less(t, strings.Index(text, `"a": 2`), strings.Index(text, `"z": 1`))
	assert.Contains(t, text, "\n  \"alpha\": \"kept\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]any{"custom": []any{1.0, 2.0, 3.0}}, decoded["zeta"])
}

func TestStore_FlushSkipsWhenClean(t *testing.T) {
	path := writeStateFile(t, `{"a":1}`)
	st, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, st.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))
}

// ==================== Branch Record Tests ====================

func TestStore_SaveLoadBranch(t *testing.T) {
	st := newTestStore(t)
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	rec := &models.BranchRecord{
		RepositoryName: "gg",
		BranchName:     "issue-7-foo-bar",
		Description:    `foo "bar"`,
		IssueNumber:    7,
		IssueURL:       "https://github.com/peterbe/gg/issues/7",
		Tracker:        models.TrackerGitHub,
		CreatedAt:      created,
	}
	require.NoError(t, st.SaveBranch(rec))
	assert.True(t, st.Has("gg:issue-7-foo-bar"))

	loaded, err := st.LoadBranch("gg", "issue-7-foo-bar")
	require.NoError(t, err)
	assert.Equal(t, `foo "bar"`, loaded.Description)
	assert.Equal(t, 7, loaded.IssueNumber)
	assert.Equal(t, models.TrackerGitHub, loaded.Tracker)
	assert.True(t, created.Equal(loaded.CreatedAt))
}

func TestStore_LoadBranchMissing(t *testing.T) {
	st := newTestStore(t)
	_, err := st.LoadBranch("gg", "nope")
	assert.ErrorIs(t, err, ErrBranchRecordMissing)
}

func TestStore_LoadLegacyBranchRecord(t *testing.T) {
	path := writeStateFile(t, `{
  "gg:bug-123-fix": {
    "bugnumber": 123,
    "date": "2019-05-06T07:08:09.123456",
    "description": "fix",
    "url": "https://bugzilla.mozilla.org/show_bug.cgi?id=123"
  },
  "gg:plain": {"date": "2019-05-06T07:08:09", "description": "plain"}
}`)
	st, err := Open(path)
	require.NoError(t, err)

	rec, err := st.LoadBranch("gg", "bug-123-fix")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerBugzilla, rec.Tracker)
	assert.Equal(t, 2019, rec.CreatedAt.Year())

	plain, err := st.LoadBranch("gg", "plain")
	require.NoError(t, err)
	assert.Equal(t, models.TrackerNone, plain.Tracker)
	assert.False(t, plain.HasIssue())
}

func TestStore_ListBranches(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveBranch(&models.BranchRecord{RepositoryName: "a", BranchName: "one", Description: "1"}))
	require.NoError(t, st.SaveBranch(&models.BranchRecord{RepositoryName: "a", BranchName: "two", Description: "2"}))
	require.NoError(t, st.SaveBranch(&models.BranchRecord{RepositoryName: "b", BranchName: "three", Description: "3"}))

	recs, err := st.ListBranches("a")
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestStore_RemoveBranch(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SaveBranch(&models.BranchRecord{RepositoryName: "a", BranchName: "one", Description: "1"}))

	require.NoError(t, st.RemoveBranch("a", "one"))
	_, err := st.LoadBranch("a", "one")
	assert.ErrorIs(t, err, ErrBranchRecordMissing)

	// Removing again is fine.
	assert.NoError(t, st.RemoveBranch("a", "one"))
}

// ==================== Settings Tests ====================

func TestStore_SettingsDefaults(t *testing.T) {
	st := newTestStore(t)

	settings, err := st.Settings("gg")
	require.NoError(t, err)
	assert.Equal(t, "", settings.ForkRemoteName)
	assert.Equal(t, "origin", settings.OriginRemoteName)
	assert.Equal(t, "", settings.DefaultBranchOverride)
	assert.False(t, settings.PushToOrigin)
	assert.True(t, settings.FixesMessageEnabled)
}

func TestStore_SettingsFromState(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.SetForkName("peterbe"))
	require.NoError(t, st.SetOriginName("upstream"))
	require.NoError(t, st.SetDefaultBranch("develop"))

	yes, no := true, false
	require.NoError(t, st.SetRepoConfig("gg", models.RepoConfig{PushToOrigin: &yes, FixesMessage: &no}))

	settings, err := st.Settings("gg")
	require.NoError(t, err)
	assert.Equal(t, "peterbe", settings.ForkRemoteName)
	assert.Equal(t, "upstream", settings.OriginRemoteName)
	assert.Equal(t, "develop", settings.DefaultBranchOverride)
	assert.True(t, settings.PushToOrigin)
	assert.False(t, settings.FixesMessageEnabled)
	assert.Equal(t, "upstream", settings.PushRemoteName())

	other, err := st.Settings("other-repo")
	require.NoError(t, err)
	assert.False(t, other.PushToOrigin)
	assert.Equal(t, "peterbe", other.PushRemoteName())
}

// ==================== Credential Tests ====================

func TestStore_GitHubCredentials(t *testing.T) {
	st := newTestStore(t)

	creds, err := st.GitHubCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, st.SetGitHubCredentials(models.GitHubCredentials{
		GitHubURL: "https://api.github.com",
		Token:     "ghp_secret",
		Login:     "peterbe",
	}))

	creds, err = st.GitHubCredentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "peterbe", creds.Login)

	assert.True(t, st.ForgetGitHubCredentials())
	assert.False(t, st.ForgetGitHubCredentials())
}

func TestStore_BugzillaCredentials(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SetBugzillaCredentials(models.BugzillaCredentials{
		BugzillaURL: "https://bugzilla.mozilla.org",
		APIKey:      "key",
	}))

	creds, err := st.BugzillaCredentials()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "key", creds.APIKey)

	assert.True(t, st.ForgetBugzillaCredentials())
	creds, err = st.BugzillaCredentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}
