package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/tracker"
)

var (
	bugzillaURLRe    = regexp.MustCompile(`^https?://[^/]*bugzilla[^/]*/show_bug\.cgi\?id=(\d+)$`)
	githubIssueURLRe = regexp.MustCompile(`^https?://[^/]*github[^/]*/([^/]+)/([^/]+)/issues/(\d+)/?$`)
	bareNumberRe     = regexp.MustCompile(`^\d+$`)
	githubRemoteRe   = regexp.MustCompile(`github\.com[:/]`)
)

// ParseGitHubRemote extracts the organization and repository from a GitHub
// remote URL in either https or ssh form.
func ParseGitHubRemote(remoteURL string) (org, repo string, ok bool) {
	parts := githubRemoteRe.Split(remoteURL, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	path := strings.TrimSuffix(strings.TrimSuffix(parts[1], "/"), ".git")
	org, repo, found := strings.Cut(path, "/")
	if !found || org == "" || repo == "" {
		return "", "", false
	}
	return org, repo, true
}

// ParseGitHubIssueURL extracts the organization, repository and number from
// a GitHub issue URL. A trailing "#fragment" is ignored.
func ParseGitHubIssueURL(rawURL string) (org, repo string, number int, ok bool) {
	target, _, _ := strings.Cut(strings.TrimSpace(rawURL), "#")
	m := githubIssueURLRe.FindStringSubmatch(target)
	if m == nil {
		return "", "", 0, false
	}
	number, _ = strconv.Atoi(m[3])
	return m[1], m[2], number, true
}

// ResolveIssue turns a user token into an issue. An empty token yields an
// issue with no tracker. A bug-tracker URL or GitHub issue URL is fetched
// directly. A bare number is looked up on every non-fork GitHub remote and
// on Bugzilla; more than one hit is ambiguous. Any other text is returned
// verbatim as the summary.
func ResolveIssue(ctx context.Context, env *Env, token string) (*models.Issue, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &models.Issue{}, nil
	}

	target, _, _ := strings.Cut(token, "#")
	if m := bugzillaURLRe.FindStringSubmatch(target); m != nil {
		id, _ := strconv.Atoi(m[1])
		return fetchBug(ctx, env, id, target)
	}
	if org, repo, number, ok := ParseGitHubIssueURL(target); ok {
		return fetchGitHubIssue(ctx, env, org, repo, number, target)
	}
	if bareNumberRe.MatchString(token) {
		id, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("parse issue number %q: %w", token, err)
		}
		return lookupBareNumber(ctx, env, token, id)
	}

	return &models.Issue{Summary: token}, nil
}

// fetchBug fetches a bug named by URL. The tracker's own link wins over the
// one typed in. A missing bug still yields the typed link with an empty summary.
func fetchBug(ctx context.Context, env *Env, id int, rawURL string) (*models.Issue, error) {
	issue, err := env.Bugzilla.FetchSummary(ctx, id)
	if errors.Is(err, tracker.ErrNotFound) {
		env.logger().Debug("bug not found", "id", id)
		return &models.Issue{Number: id, URL: rawURL, Tracker: models.TrackerBugzilla}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch bug %d: %w", id, err)
	}
	if issue.URL == "" {
		issue.URL = rawURL
	}
	return issue, nil
}

func fetchGitHubIssue(ctx context.Context, env *Env, org, repo string, number int, rawURL string) (*models.Issue, error) {
	issue, err := env.GitHub.FetchTitle(ctx, org, repo, number)
	if errors.Is(err, tracker.ErrNotFound) {
		env.logger().Debug("issue not found", "org", org, "repo", repo, "number", number)
		return &models.Issue{Number: number, URL: rawURL, Tracker: models.TrackerGitHub}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch issue %s/%s#%d: %w", org, repo, number, err)
	}
	if issue.URL == "" {
		issue.URL = rawURL
	}
	return issue, nil
}

func lookupBareNumber(ctx context.Context, env *Env, token string, id int) (*models.Issue, error) {
	settings, err := env.Settings()
	if err != nil {
		return nil, err
	}
	fork := env.forkName(settings)

	remotes, err := env.Repo.ListRemotes(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.Issue
	seen := make(map[string]bool)
	for _, r := range remotes {
		if r.Name == fork {
			continue
		}
		org, repo, ok := ParseGitHubRemote(r.URL)
		if !ok {
			continue
		}
		key := org + "/" + repo
		if seen[key] {
			continue
		}
		seen[key] = true

		issue, err := env.GitHub.FetchTitle(ctx, org, repo, id)
		if errors.Is(err, tracker.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("look up %s#%d: %w", key, id, err)
		}
		if issue.Summary != "" {
			candidates = append(candidates, *issue)
		}
	}

	bug, err := env.Bugzilla.FetchSummary(ctx, id)
	switch {
	case errors.Is(err, tracker.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("look up bug %d: %w", id, err)
	case bug.Summary != "":
		candidates = append(candidates, *bug)
	}

	switch len(candidates) {
	case 0:
		return nil, ErrIssueNotFound
	case 1:
		return &candidates[0], nil
	default:
		return nil, &AmbiguousIssueError{Token: token, Candidates: candidates}
	}
}
