package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kilupskalvis/gg/internal/models"
)

// DefaultGitHubAPIURL is the public GitHub REST endpoint.
const DefaultGitHubAPIURL = "https://api.github.com"

// IssueTracker is the query capability of a GitHub-style tracker.
type IssueTracker interface {
	FetchTitle(ctx context.Context, org, repo string, number int) (*models.Issue, error)
	ListOpenPullRequests(ctx context.Context, org, repo, head string) ([]models.PullRequest, error)
	GetPullRequest(ctx context.Context, org, repo string, number int) (*models.PullRequest, error)
	CurrentUser(ctx context.Context) (*GitHubUser, error)
}

// GitHubUser is the /user response.
type GitHubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// DisplayName returns the name, or the login when no name is set.
func (u *GitHubUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// GitHub implements IssueTracker over the GitHub REST API.
type GitHub struct {
	*httpClient
	token string
}

// NewGitHub creates a GitHub client. token may be empty for public repositories.
func NewGitHub(baseURL, token string, opts ...Option) *GitHub {
	g := &GitHub{httpClient: newHTTPClient(baseURL, opts), token: token}
	g.authorize = func(req *http.Request) {
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if g.token != "" {
			req.Header.Set("Authorization", "Bearer "+g.token)
		}
	}
	return g
}

// HasToken reports whether requests are authenticated.
func (g *GitHub) HasToken() bool {
	return g.token != ""
}

// FetchTitle returns an issue's title and html_url.
func (g *GitHub) FetchTitle(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	var resp struct {
		Number  int    `json:"number"`
		Title   string `json:"title"`
		HTMLURL string `json:"html_url"`
	}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(org), url.PathEscape(repo), number)
	if err := g.getJSON(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch issue %s/%s#%d: %w", org, repo, number, err)
	}
	return &models.Issue{
		Summary: resp.Title,
		Number:  number,
		URL:     resp.HTMLURL,
		Tracker: models.TrackerGitHub,
	}, nil
}

// ListOpenPullRequests lists open pull requests whose head is "owner:branch".
func (g *GitHub) ListOpenPullRequests(ctx context.Context, org, repo, head string) ([]models.PullRequest, error) {
	q := url.Values{}
	q.Set("head", head)
	q.Set("state", "open")

	var prs []models.PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls", url.PathEscape(org), url.PathEscape(repo))
	if err := g.getJSON(ctx, path, q, &prs); err != nil {
		return nil, fmt.Errorf("list pull requests for %s: %w", head, err)
	}
	return prs, nil
}

// GetPullRequest returns one pull request, including its mergeable state.
func (g *GitHub) GetPullRequest(ctx context.Context, org, repo string, number int) (*models.PullRequest, error) {
	var pr models.PullRequest
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", url.PathEscape(org), url.PathEscape(repo), number)
	if err := g.getJSON(ctx, path, nil, &pr); err != nil {
		return nil, fmt.Errorf("get pull request #%d: %w", number, err)
	}
	return &pr, nil
}

// CurrentUser returns the user the token belongs to.
func (g *GitHub) CurrentUser(ctx context.Context) (*GitHubUser, error) {
	var u GitHubUser
	if err := g.getJSON(ctx, "/user", nil, &u); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// Verify that the clients implement their interfaces at compile time
var (
	_ BugTracker   = (*Bugzilla)(nil)
	_ IssueTracker = (*GitHub)(nil)
)
