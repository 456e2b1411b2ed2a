package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// PRResult describes the open pull request for the active topic branch.
type PRResult struct {
	Org  string
	Repo string
	// Head is the "owner:branch" filter that was searched.
	Head string
	// PullRequest is nil when no open pull request was found.
	PullRequest *models.PullRequest
}

// FindPullRequest looks up the open pull request for the active branch on
// the origin's GitHub repository.
func FindPullRequest(ctx context.Context, env *Env) (*PRResult, error) {
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}
	if !env.HasGitHubCredentials {
		return nil, ErrNoGitHubCredentials
	}

	origin, err := env.requireRemote(ctx, bc.settings.OriginRemoteName)
	if err != nil {
		return nil, err
	}
	org, repo, ok := ParseGitHubRemote(origin.URL)
	if !ok {
		return nil, fmt.Errorf("remote %s (%s) is not a GitHub repository", origin.Name, origin.URL)
	}

	head := prHeadOwner(env, bc.settings, org) + ":" + bc.active
	result := &PRResult{Org: org, Repo: repo, Head: head}

	prs, err := env.GitHub.ListOpenPullRequests(ctx, org, repo, head)
	if err != nil {
		return nil, fmt.Errorf("search pull requests: %w", err)
	}
	if len(prs) == 0 {
		return result, nil
	}

	// The list endpoint never reports mergeability.
	detail, err := env.GitHub.GetPullRequest(ctx, org, repo, prs[0].Number)
	if err != nil {
		return nil, fmt.Errorf("get pull request #%d: %w", prs[0].Number, err)
	}
	result.PullRequest = detail
	return result, nil
}
