package tracker

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kilupskalvis/gg/internal/models"
)

// BugTracker is the query capability of a Bugzilla-style tracker.
type BugTracker interface {
	FetchSummary(ctx context.Context, id int) (*models.Issue, error)
	WhoAmI(ctx context.Context) (*BugzillaUser, error)
}

// BugzillaUser is the /rest/whoami response.
type BugzillaUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
}

// Bugzilla implements BugTracker over the Bugzilla REST API.
type Bugzilla struct {
	*httpClient
	apiKey string
}

// NewBugzilla creates a client for the instance at baseURL. apiKey may be empty,
// in which case only public bugs are visible.
func NewBugzilla(baseURL, apiKey string, opts ...Option) *Bugzilla {
	return &Bugzilla{httpClient: newHTTPClient(baseURL, opts), apiKey: apiKey}
}

// BaseURL returns the instance URL without a trailing slash.
func (b *Bugzilla) BaseURL() string {
	return b.baseURL
}

func (b *Bugzilla) query() url.Values {
	q := url.Values{}
	if b.apiKey != "" {
		q.Set("api_key", b.apiKey)
	}
	return q
}

// ShowBugURL returns the canonical web URL of a bug.
func (b *Bugzilla) ShowBugURL(id int) string {
	return fmt.Sprintf("%s/show_bug.cgi?id=%d", b.baseURL, id)
}

// FetchSummary returns the bug summary and its canonical URL.
func (b *Bugzilla) FetchSummary(ctx context.Context, id int) (*models.Issue, error) {
	q := b.query()
	q.Set("ids", strconv.Itoa(id))
	q.Set("include_fields", "summary,id")

	var resp struct {
		Bugs []struct {
			ID      int    `json:"id"`
			Summary string `json:"summary"`
		} `json:"bugs"`
	}
	if err := b.getJSON(ctx, "/rest/bug/", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch bug %d: %w", id, err)
	}
	if len(resp.Bugs) == 0 {
		return nil, fmt.Errorf("fetch bug %d: %w", id, ErrNotFound)
	}

	bug := resp.Bugs[0]
	return &models.Issue{
		Summary: bug.Summary,
		Number:  bug.ID,
		URL:     b.ShowBugURL(bug.ID),
		Tracker: models.TrackerBugzilla,
	}, nil
}

// WhoAmI verifies the API key. Bugzilla can answer 200 with an error body.
func (b *Bugzilla) WhoAmI(ctx context.Context) (*BugzillaUser, error) {
	var resp struct {
		BugzillaUser
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	if err := b.getJSON(ctx, "/rest/whoami", b.query(), &resp); err != nil {
		return nil, fmt.Errorf("whoami: %w", err)
	}
	if resp.Error {
		return nil, fmt.Errorf("whoami: %w", &APIError{Status: 200, Message: resp.Message})
	}
	return &resp.BugzillaUser, nil
}
