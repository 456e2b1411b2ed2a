// Package cli implements the command-line interface for gg.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/config"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/kilupskalvis/gg/internal/prompt"
	"github.com/kilupskalvis/gg/internal/store"
	"github.com/kilupskalvis/gg/internal/tracker"
	"github.com/kilupskalvis/gg/internal/vcs"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
	// Env is only set by initRepoContext.
	Env *core.Env
}

// Close writes the state file back if anything changed. It is deferred by
// every command and skipped when a command exits with an error.
func (c *cmdContext) Close() {
	if c.Store == nil {
		return
	}
	if err := c.Store.Flush(); err != nil {
		exitError("failed to save state: %v", err)
	}
}

// initContext initializes config, logger and state store (no repository)
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}
	if configFile != "" {
		cfg.StateFile = configFile
	}

	logger := newLogger(cfg)

	path, err := cfg.StatePath()
	if err != nil {
		exitError("failed to resolve state file: %v", err)
	}
	st, err := store.Open(path)
	if err != nil {
		exitError("failed to open state: %v", err)
	}
	logger.Debug("state loaded", "path", path)

	return &cmdContext{Config: cfg, Store: st, Logger: logger}
}

// initRepoContext initializes everything a workflow command needs: the
// repository in the working directory, both trackers and the prompter.
func initRepoContext(autoYes bool) *cmdContext {
	c := initContext()

	cwd, err := os.Getwd()
	if err != nil {
		exitError("%v", err)
	}
	repo, err := vcs.Open(cwd, c.Logger)
	if err != nil {
		if errors.Is(err, vcs.ErrNotARepository) {
			exitError("%q is not a git repository", cwd)
		}
		exitError("%v", err)
	}

	var p prompt.Prompter = prompt.NewTerminal()
	if autoYes {
		p = prompt.AutoYes{Inner: p}
	}

	gh, hasGitHub := c.gitHub("", "")
	c.Env = &core.Env{
		Repo:                 repo,
		State:                c.Store,
		Bugzilla:             c.bugzilla("", ""),
		GitHub:               gh,
		HasGitHubCredentials: hasGitHub,
		Prompt:               p,
		Out:                  os.Stdout,
		Logger:               c.Logger,
		Username:             username(),
		GitHubWebURL:         c.Config.GitHubWebURL,
	}
	return c
}

// gitHub builds a GitHub client. Empty arguments fall back to the stored
// credentials, which GG_GITHUB_TOKEN overrides. The boolean reports whether
// the client carries a token.
func (c *cmdContext) gitHub(apiURL, token string) (tracker.IssueTracker, bool) {
	explicitURL := apiURL != ""
	if !explicitURL {
		apiURL = c.Config.GitHubAPIURL
	}
	if token == "" {
		creds, err := c.Store.GitHubCredentials()
		if err != nil {
			exitError("%v", err)
		}
		if creds != nil {
			token = creds.Token
			if creds.GitHubURL != "" && !explicitURL {
				apiURL = creds.GitHubURL
			}
		}
		if c.Config.GitHubToken != "" {
			token = c.Config.GitHubToken
		}
	}
	if token != "" {
		c.Logger.Debug("using GitHub API token", "token", tracker.TruncateSecret(token), "url", apiURL)
	}
	client := tracker.NewGitHub(apiURL, token, c.httpOptions()...)
	return tracker.NewRetryIssueTracker(client, c.retryConfig()), token != ""
}

// bugzilla builds a Bugzilla client the same way gitHub does.
func (c *cmdContext) bugzilla(baseURL, apiKey string) tracker.BugTracker {
	explicitURL := baseURL != ""
	if !explicitURL {
		baseURL = c.Config.BugzillaURL
	}
	if apiKey == "" {
		creds, err := c.Store.BugzillaCredentials()
		if err != nil {
			exitError("%v", err)
		}
		if creds != nil {
			apiKey = creds.APIKey
			if creds.BugzillaURL != "" && !explicitURL {
				baseURL = creds.BugzillaURL
			}
		}
		if c.Config.BugzillaAPIKey != "" {
			apiKey = c.Config.BugzillaAPIKey
		}
	}
	client := tracker.NewBugzilla(baseURL, apiKey, c.httpOptions()...)
	return tracker.NewRetryBugTracker(client, c.retryConfig())
}

func (c *cmdContext) httpOptions() []tracker.Option {
	opts := []tracker.Option{tracker.WithLogger(c.Logger)}
	// Already validated by config.Load.
	if timeout, _ := c.Config.HTTPTimeoutDuration(); timeout > 0 {
		opts = append(opts, tracker.WithTimeout(timeout))
	}
	return opts
}

func (c *cmdContext) retryConfig() *tracker.RetryConfig {
	cfg := tracker.DefaultRetryConfig()
	cfg.MaxElapsed, _ = c.Config.RetryMaxElapsedDuration()
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			exitError("invalid log_level %q", cfg.LogLevel)
		}
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// username is the fork remote name used when none is configured.
func username() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

var rootCmd = &cobra.Command{
	Use:   "gg",
	Short: "Git and GitHub/Bugzilla workflow helper",
	Long: `gg wraps the everyday topic-branch workflow: start a branch named after a
bug or issue, commit with a message built from it, push to your fork, find
the pull request, and merge or clean up once it landed.

Branch metadata and settings live in a JSON state file (default ~/.gg.json).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logging")
	rootCmd.PersistentFlags().StringVarP(&configFile, "configfile", "c", "", "Path to the state file (default "+config.DefaultStateFile+")")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(masterMergeCmd)
	rootCmd.AddCommand(rebaseCmd)
	rootCmd.AddCommand(getbackCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(localConfigCmd)
	rootCmd.AddCommand(githubCmd)
	rootCmd.AddCommand(bugzillaCmd)
	rootCmd.AddCommand(completionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, color.RedString("error: ")+format+"\n", args...)
	os.Exit(1)
}

// fail reports an error returned by a core operation and exits.
func fail(err error) {
	var hook *vcs.HookRejectedError
	switch {
	case errors.Is(err, core.ErrAborted):
		fmt.Fprintln(os.Stderr, color.YellowString("Aborted."))
		os.Exit(1)
	case errors.As(err, &hook):
		if out := strings.TrimSpace(hook.Stdout); out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
		if out := strings.TrimSpace(hook.Stderr); out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
		exitError("%v (use --no-verify to skip hooks)", err)
	}
	exitError("%v", err)
}

// shortID returns first 7 characters of a commit ID
func shortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
