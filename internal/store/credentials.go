package store

import (
	"github.com/kilupskalvis/gg/internal/models"
)

// GitHubCredentials returns the saved GitHub token, or nil if none.
func (s *Store) GitHubCredentials() (*models.GitHubCredentials, error) {
	var creds models.GitHubCredentials
	found, err := s.Get(KeyGitHub, &creds)
	if err != nil || !found || creds.Token == "" {
		return nil, err
	}
	return &creds, nil
}

// SetGitHubCredentials saves a verified GitHub token.
func (s *Store) SetGitHubCredentials(creds models.GitHubCredentials) error {
	return s.Set(KeyGitHub, creds)
}

// ForgetGitHubCredentials removes the GitHub token. Returns false if none was saved.
func (s *Store) ForgetGitHubCredentials() bool {
	if !s.Has(KeyGitHub) {
		return false
	}
	return s.Remove(KeyGitHub) == nil
}

// BugzillaCredentials returns the saved Bugzilla API key, or nil if none.
func (s *Store) BugzillaCredentials() (*models.BugzillaCredentials, error) {
	var creds models.BugzillaCredentials
	found, err := s.Get(KeyBugzilla, &creds)
	if err != nil || !found || creds.APIKey == "" {
		return nil, err
	}
	return &creds, nil
}

// SetBugzillaCredentials saves a verified Bugzilla API key.
func (s *Store) SetBugzillaCredentials(creds models.BugzillaCredentials) error {
	return s.Set(KeyBugzilla, creds)
}

// ForgetBugzillaCredentials removes the Bugzilla API key. Returns false if none was saved.
func (s *Store) ForgetBugzillaCredentials() bool {
	if !s.Has(KeyBugzilla) {
		return false
	}
	return s.Remove(KeyBugzilla) == nil
}
