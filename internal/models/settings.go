package models

// DefaultOriginName is used when no origin remote name is configured.
const DefaultOriginName = "origin"

// Settings is the effective configuration for one repository, read from the
// state file at the start of every command.
type Settings struct {
	ForkRemoteName        string
	OriginRemoteName      string
	DefaultBranchOverride string
	PushToOrigin          bool
	FixesMessageEnabled   bool
}

// PushRemoteName returns the remote topic branches are pushed to.
// Empty when no fork is configured and pushing to origin is off.
func (s Settings) PushRemoteName() string {
	if s.PushToOrigin {
		return s.OriginRemoteName
	}
	return s.ForkRemoteName
}

// RepoConfig is the per-repository section of the state file.
// Nil fields are unset and fall back to defaults.
type RepoConfig struct {
	PushToOrigin *bool `json:"push_to_origin,omitempty"`
	FixesMessage *bool `json:"fixes_message,omitempty"`
}

// GitHubCredentials are stored under the GITHUB key.
type GitHubCredentials struct {
	GitHubURL string `json:"github_url"`
	Token     string `json:"token"`
	Login     string `json:"login"`
}

// BugzillaCredentials are stored under the BUGZILLA key.
type BugzillaCredentials struct {
	BugzillaURL string `json:"bugzilla_url"`
	APIKey      string `json:"api_key"`
}
