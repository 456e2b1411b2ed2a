// Package config manages the gg tool configuration and repository discovery.
// The tool config is a TOML file under the user config directory; the state the
// workflow commands share lives in a separate JSON file (see internal/store).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	AppDir           = "gg"
	ConfigFile       = "config.toml"
	DefaultStateFile = "~/.gg.json"
	GitDir           = ".git"
)

// Environment overrides.
const (
	EnvStateFile      = "GG_STATE_FILE"
	EnvGitHubToken    = "GG_GITHUB_TOKEN"
	EnvBugzillaAPIKey = "GG_BUGZILLA_API_KEY"
)

// ErrNotARepository is returned when no .git is found walking up from the working directory.
var ErrNotARepository = errors.New("not a git repository (or any of the parent directories)")

// Config represents the gg tool configuration
type Config struct {
	StateFile       string `toml:"state_file"`
	GitHubAPIURL    string `toml:"github_api_url"`
	GitHubWebURL    string `toml:"github_web_url"`
	BugzillaURL     string `toml:"bugzilla_url"`
	LogLevel        string `toml:"log_level"`
	HTTPTimeout     string `toml:"http_timeout,omitempty"`      // e.g. "30s"; empty means no timeout
	RetryMaxElapsed string `toml:"retry_max_elapsed,omitempty"` // e.g. "20s"; "0" disables retries

	GitHubToken    string `toml:"-"` // only from the environment
	BugzillaAPIKey string `toml:"-"`

	path string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		StateFile:       DefaultStateFile,
		GitHubAPIURL:    "https://api.github.com",
		GitHubWebURL:    "https://github.com",
		BugzillaURL:     "https://bugzilla.mozilla.org",
		LogLevel:        "info",
		RetryMaxElapsed: "20s",
	}
}

// DefaultPath returns the location of the tool config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppDir, ConfigFile), nil
}

// Load loads the configuration from the default location.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if _, err := cfg.HTTPTimeoutDuration(); err != nil {
		return nil, err
	}
	if _, err := cfg.RetryMaxElapsedDuration(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStateFile); v != "" {
		c.StateFile = v
	}
	if v := os.Getenv(EnvGitHubToken); v != "" {
		c.GitHubToken = v
	}
	if v := os.Getenv(EnvBugzillaAPIKey); v != "" {
		c.BugzillaAPIKey = v
	}
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(c.path, data, 0644)
}

// Path returns where the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// StatePath returns the state file path with a leading ~ expanded.
func (c *Config) StatePath() (string, error) {
	return ExpandHome(c.StateFile)
}

// HTTPTimeoutDuration parses http_timeout. Zero means no timeout.
func (c *Config) HTTPTimeoutDuration() (time.Duration, error) {
	return parseDuration("http_timeout", c.HTTPTimeout)
}

// RetryMaxElapsedDuration parses retry_max_elapsed. Zero disables retries.
func (c *Config) RetryMaxElapsedDuration() (time.Duration, error) {
	return parseDuration("retry_max_elapsed", c.RetryMaxElapsed)
}

func parseDuration(key, value string) (time.Duration, error) {
	if value == "" || value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, value)
	}
	return d, nil
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// FindRepoRoot finds the working tree root by walking up from dir until a
// directory containing .git (a directory, or a file for worktrees) is found.
func FindRepoRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, GitDir)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotARepository
		}
		dir = parent
	}
}
