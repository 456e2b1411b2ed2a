package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// StartOptions configures a start operation.
type StartOptions struct {
	// IssueToken is a tracker URL, a bare issue number or free text.
	IssueToken string
}

// StartResult contains the outcome of a start operation.
type StartResult struct {
	BranchName string
	Issue      *models.Issue
	Record     *models.BranchRecord
}

// Start creates and checks out a topic branch named after an issue and a
// description, then records it in the state file.
func Start(ctx context.Context, env *Env, opts StartOptions) (*StartResult, error) {
	issue, err := ResolveIssue(ctx, env, opts.IssueToken)
	if err != nil {
		return nil, err
	}

	description, err := env.Prompt.Input("Summary", issue.Summary)
	if err != nil {
		return nil, err
	}

	branchName, err := BranchNameFor(issue, description)
	if err != nil {
		return nil, err
	}
	env.logger().Debug("starting branch", "name", branchName, "tracker", issue.Tracker.String())

	if err := env.Repo.CreateBranch(ctx, branchName); err != nil {
		return nil, fmt.Errorf("create branch %s: %w", branchName, err)
	}

	rec := &models.BranchRecord{
		RepositoryName: env.Repo.Name(),
		BranchName:     branchName,
		Description:    description,
		IssueNumber:    issue.Number,
		IssueURL:       issue.URL,
		Tracker:        issue.Tracker,
		CreatedAt:      env.now(),
	}
	if err := env.State.SaveBranch(rec); err != nil {
		return nil, fmt.Errorf("save branch record: %w", err)
	}

	return &StartResult{BranchName: branchName, Issue: issue, Record: rec}, nil
}
