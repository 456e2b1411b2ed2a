package tracker

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// MockBugTracker is an in-memory BugTracker for testing.
type MockBugTracker struct {
	// Bugs maps a bug id to its summary.
	Bugs    map[int]string
	BaseURL string
	User    *BugzillaUser
	// Err can be set to make methods return an error
	Err error

	Queried []int
}

// NewMockBugTracker creates an empty MockBugTracker.
func NewMockBugTracker() *MockBugTracker {
	return &MockBugTracker{
		Bugs:    make(map[int]string),
		BaseURL: "https://bugzilla.mozilla.org",
		User:    &BugzillaUser{ID: 1, Name: "tester@example.com"},
	}
}

func (m *MockBugTracker) FetchSummary(ctx context.Context, id int) (*models.Issue, error) {
	m.Queried = append(m.Queried, id)
	if m.Err != nil {
		return nil, m.Err
	}
	summary, ok := m.Bugs[id]
	if !ok {
		return nil, fmt.Errorf("fetch bug %d: %w", id, ErrNotFound)
	}
	return &models.Issue{
		Summary: summary,
		Number:  id,
		URL:     fmt.Sprintf("%s/show_bug.cgi?id=%d", m.BaseURL, id),
		Tracker: models.TrackerBugzilla,
	}, nil
}

func (m *MockBugTracker) WhoAmI(ctx context.Context) (*BugzillaUser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

// MockIssueTracker is an in-memory IssueTracker for testing.
type MockIssueTracker struct {
	// Issues maps "org/repo#number" to a title.
	Issues map[string]string
	// PullRequests maps a head filter ("owner:branch") to open pull requests.
	PullRequests map[string][]models.PullRequest
	User         *GitHubUser
	// Err can be set to make methods return an error
	Err error

	Queried []string
}

// NewMockIssueTracker creates an empty MockIssueTracker.
func NewMockIssueTracker() *MockIssueTracker {
	return &MockIssueTracker{
		Issues:       make(map[string]string),
		PullRequests: make(map[string][]models.PullRequest),
		User:         &GitHubUser{Login: "tester"},
	}
}

// AddIssue registers an issue title.
func (m *MockIssueTracker) AddIssue(org, repo string, number int, title string) {
	m.Issues[fmt.Sprintf("%s/%s#%d", org, repo, number)] = title
}

func (m *MockIssueTracker) FetchTitle(ctx context.Context, org, repo string, number int) (*models.Issue, error) {
	key := fmt.Sprintf("%s/%s#%d", org, repo, number)
	m.Queried = append(m.Queried, key)
	if m.Err != nil {
		return nil, m.Err
	}
	title, ok := m.Issues[key]
	if !ok {
		return nil, fmt.Errorf("fetch issue %s: %w", key, ErrNotFound)
	}
	return &models.Issue{
		Summary: title,
		Number:  number,
		URL:     fmt.Sprintf("https://github.com/%s/%s/issues/%d", org, repo, number),
		Tracker: models.TrackerGitHub,
	}, nil
}

func (m *MockIssueTracker) ListOpenPullRequests(ctx context.Context, org, repo, head string) ([]models.PullRequest, error) {
	m.Queried = append(m.Queried, "pulls "+head)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PullRequests[head], nil
}

func (m *MockIssueTracker) GetPullRequest(ctx context.Context, org, repo string, number int) (*models.PullRequest, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, prs := range m.PullRequests {
		for i := range prs {
			if prs[i].Number == number {
				pr := prs[i]
				return &pr, nil
			}
		}
	}
	return nil, fmt.Errorf("get pull request #%d: %w", number, ErrNotFound)
}

func (m *MockIssueTracker) CurrentUser(ctx context.Context) (*GitHubUser, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

var (
	_ BugTracker   = (*MockBugTracker)(nil)
	_ IssueTracker = (*MockIssueTracker)(nil)
)
