package store

import (
	"github.com/kilupskalvis/gg/internal/models"
)

// Top-level keys for global settings and credentials.
const (
	KeyForkName      = "FORK_NAME"
	KeyOriginName    = "ORIGIN_NAME"
	KeyDefaultBranch = "DEFAULT_BRANCH"
	KeyGitHub        = "GITHUB"
	KeyBugzilla      = "BUGZILLA"
)

// Settings returns the effective settings for a repository.
// ForkRemoteName is empty when unset; callers decide the fallback.
func (s *Store) Settings(repositoryName string) (models.Settings, error) {
	settings := models.Settings{
		OriginRemoteName:    models.DefaultOriginName,
		FixesMessageEnabled: true,
	}

	if _, err := s.Get(KeyForkName, &settings.ForkRemoteName); err != nil {
		return settings, err
	}

	var origin string
	if _, err := s.Get(KeyOriginName, &origin); err != nil {
		return settings, err
	}
	if origin != "" {
		settings.OriginRemoteName = origin
	}

	if _, err := s.Get(KeyDefaultBranch, &settings.DefaultBranchOverride); err != nil {
		return settings, err
	}

	rc, err := s.RepoConfig(repositoryName)
	if err != nil {
		return settings, err
	}
	if rc.PushToOrigin != nil {
		settings.PushToOrigin = *rc.PushToOrigin
	}
	if rc.FixesMessage != nil {
		settings.FixesMessageEnabled = *rc.FixesMessage
	}

	return settings, nil
}

// SetForkName sets the remote topic branches are pushed to.
func (s *Store) SetForkName(name string) error {
	return s.Set(KeyForkName, name)
}

// SetOriginName sets the upstream remote name.
func (s *Store) SetOriginName(name string) error {
	return s.Set(KeyOriginName, name)
}

// SetDefaultBranch overrides default branch discovery.
func (s *Store) SetDefaultBranch(name string) error {
	return s.Set(KeyDefaultBranch, name)
}

// RepoConfig returns the per-repository section, empty if never written.
// It lives under a key equal to the repository name, which cannot collide with
// branch keys because those always contain a colon.
func (s *Store) RepoConfig(repositoryName string) (models.RepoConfig, error) {
	var rc models.RepoConfig
	_, err := s.Get(repositoryName, &rc)
	return rc, err
}

// SetRepoConfig replaces the per-repository section.
func (s *Store) SetRepoConfig(repositoryName string, rc models.RepoConfig) error {
	return s.Set(repositoryName, rc)
}
