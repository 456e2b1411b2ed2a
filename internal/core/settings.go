package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/store"
	"github.com/kilupskalvis/gg/internal/tracker"
)

// GlobalSettings are the settings shared by every repository. Empty fields
// are unset.
type GlobalSettings struct {
	ForkName      string
	OriginName    string
	DefaultBranch string
}

// ReadGlobalSettings returns the stored global settings without defaults.
func ReadGlobalSettings(st *store.Store) (GlobalSettings, error) {
	var gs GlobalSettings
	for key, dst := range map[string]*string{
		store.KeyForkName:      &gs.ForkName,
		store.KeyOriginName:    &gs.OriginName,
		store.KeyDefaultBranch: &gs.DefaultBranch,
	} {
		if _, err := st.Get(key, dst); err != nil {
			return gs, fmt.Errorf("read %s: %w", key, err)
		}
	}
	return gs, nil
}

// UpdateGlobalSettings stores every non-empty field of changes. It reports
// whether anything was written.
func UpdateGlobalSettings(st *store.Store, changes GlobalSettings) (bool, error) {
	updated := false
	if changes.ForkName != "" {
		if err := st.SetForkName(changes.ForkName); err != nil {
			return false, err
		}
		updated = true
	}
	if changes.OriginName != "" {
		if err := st.SetOriginName(changes.OriginName); err != nil {
			return false, err
		}
		updated = true
	}
	if changes.DefaultBranch != "" {
		if err := st.SetDefaultBranch(changes.DefaultBranch); err != nil {
			return false, err
		}
		updated = true
	}
	return updated, nil
}

// LocalSettingChange reports a per-repository setting before and after.
type LocalSettingChange struct {
	Name   string
	Before bool
	After  bool
}

// SetPushToOrigin sets whether a repository pushes topic branches to origin
// instead of the fork.
func SetPushToOrigin(st *store.Store, repositoryName string, value bool) (LocalSettingChange, error) {
	rc, err := st.RepoConfig(repositoryName)
	if err != nil {
		return LocalSettingChange{}, err
	}
	change := LocalSettingChange{Name: "push_to_origin", Before: rc.PushToOrigin != nil && *rc.PushToOrigin, After: value}
	rc.PushToOrigin = &value
	if err := st.SetRepoConfig(repositoryName, rc); err != nil {
		return LocalSettingChange{}, err
	}
	return change, nil
}

// ToggleFixesMessage flips whether commit asks to add the "fixes" mention.
func ToggleFixesMessage(st *store.Store, repositoryName string) (LocalSettingChange, error) {
	rc, err := st.RepoConfig(repositoryName)
	if err != nil {
		return LocalSettingChange{}, err
	}
	before := rc.FixesMessage == nil || *rc.FixesMessage
	after := !before
	rc.FixesMessage = &after
	if err := st.SetRepoConfig(repositoryName, rc); err != nil {
		return LocalSettingChange{}, err
	}
	return LocalSettingChange{Name: "fixes_message", Before: before, After: after}, nil
}

// LoginGitHub verifies a token against the GitHub API and stores it.
func LoginGitHub(ctx context.Context, st *store.Store, gh tracker.IssueTracker, githubURL, token string) (*tracker.GitHubUser, error) {
	user, err := gh.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify token %s: %w", tracker.TruncateSecret(token), err)
	}
	creds := models.GitHubCredentials{GitHubURL: githubURL, Token: token, Login: user.Login}
	if err := st.SetGitHubCredentials(creds); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginBugzilla verifies an API key against Bugzilla and stores it.
func LoginBugzilla(ctx context.Context, st *store.Store, bz tracker.BugTracker, bugzillaURL, apiKey string) (*tracker.BugzillaUser, error) {
	user, err := bz.WhoAmI(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify API key %s: %w", tracker.TruncateSecret(apiKey), err)
	}
	creds := models.BugzillaCredentials{BugzillaURL: bugzillaURL, APIKey: apiKey}
	if err := st.SetBugzillaCredentials(creds); err != nil {
		return nil, err
	}
	return user, nil
}
