package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/kilupskalvis/gg/internal/models"
)

// RetryConfig configures retry behavior for transient errors.
type RetryConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsed bounds the total time spent retrying. Zero disables retries.
	MaxElapsed time.Duration
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsed:      20 * time.Second,
	}
}

// newBackOff returns a fresh policy; BackOff implementations are stateful.
func (c *RetryConfig) newBackOff(ctx context.Context) backoff.BackOff {
	if c.MaxElapsed <= 0 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.InitialInterval
	bo.MaxInterval = c.MaxInterval
	bo.MaxElapsedTime = c.MaxElapsed
	return backoff.WithContext(bo, ctx)
}

// isTransient returns true for errors that are worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status >= 500 || ae.Status == http.StatusTooManyRequests
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true // network errors are transient
}

// retry executes fn, retrying transient errors with exponential backoff.
func retry(ctx context.Context, cfg *RetryConfig, operation string, fn func() error) error {
	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := fn()
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, cfg.newBackOff(ctx))
	if err != nil && attempts > 1 && isTransient(err) {
		return fmt.Errorf("%s: %w (after %d attempts)", operation, err, attempts)
	}
	return err
}

// RetryBugTracker wraps a BugTracker with automatic retry on transient errors.
type RetryBugTracker struct {
	inner  BugTracker
	config *RetryConfig
}

// NewRetryBugTracker creates a RetryBugTracker around inner.
func NewRetryBugTracker(inner BugTracker, cfg *RetryConfig) *RetryBugTracker {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	return &RetryBugTracker{inner: inner, config: cfg}
}

func (r *RetryBugTracker) FetchSummary(ctx context.Context, id int) (issue *models.Issue, err error) {
	err = retry(ctx, r.config, "fetch bug summary", func() error {
		issue, err = r.inner.FetchSummary(ctx, id)
		return err
	})
	return
}

func (r *RetryBugTracker) WhoAmI(ctx context.Context) (user *BugzillaUser, err error) {
	err = retry(ctx, r.config, "whoami", func() error {
		user, err = r.inner.WhoAmI(ctx)
		return err
	})
	return
}

// RetryIssueTracker wraps an IssueTracker with automatic retry on transient errors.
type RetryIssueTracker struct {
	inner  IssueTracker
	config *RetryConfig
}

// NewRetryIssueTracker creates a RetryIssueTracker around inner.
func NewRetryIssueTracker(inner IssueTracker, cfg *RetryConfig) *RetryIssueTracker {
	if cfg == nil {
		cfg = DefaultRetryConfig()
	}
	return &RetryIssueTracker{inner: inner, config: cfg}
}

func (r *RetryIssueTracker) FetchTitle(ctx context.Context, org, repo string, number int) (issue *models.Issue, err error) {
	err = retry(ctx, r.config, "fetch issue title", func() error {
		issue, err = r.inner.FetchTitle(ctx, org, repo, number)
		return err
	})
	return
}

func (r *RetryIssueTracker) ListOpenPullRequests(ctx context.Context, org, repo, head string) (prs []models.PullRequest, err error) {
	err = retry(ctx, r.config, "list pull requests", func() error {
		prs, err = r.inner.ListOpenPullRequests(ctx, org, repo, head)
		return err
	})
	return
}

func (r *RetryIssueTracker) GetPullRequest(ctx context.Context, org, repo string, number int) (pr *models.PullRequest, err error) {
	err = retry(ctx, r.config, "get pull request", func() error {
		pr, err = r.inner.GetPullRequest(ctx, org, repo, number)
		return err
	})
	return
}

func (r *RetryIssueTracker) CurrentUser(ctx context.Context) (user *GitHubUser, err error) {
	err = retry(ctx, r.config, "get user", func() error {
		user, err = r.inner.CurrentUser(ctx)
		return err
	})
	return
}

var (
	_ BugTracker   = (*RetryBugTracker)(nil)
	_ IssueTracker = (*RetryIssueTracker)(nil)
)
