package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// MergeResult contains the outcome of merging a topic branch into the
// default branch.
type MergeResult struct {
	Branch        string
	DefaultBranch string
	Origin        string
	// Push is set when the updated default branch was pushed to origin.
	Push *models.PushResult
}

// Merge merges the active topic branch into the default branch, deletes the
// topic branch, and offers to push the default branch to origin.
func Merge(ctx context.Context, env *Env) (*MergeResult, error) {
	// Step 1: Validate we're on a clean topic branch
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.requireClean(ctx); err != nil {
		return nil, err
	}
	origin := bc.settings.OriginRemoteName
	if _, err := env.requireRemote(ctx, origin); err != nil {
		return nil, err
	}
	result := &MergeResult{Branch: bc.active, DefaultBranch: bc.defaultBranch, Origin: origin}

	// Step 2: Update the default branch
	if err := updateDefaultBranch(ctx, env, bc); err != nil {
		return nil, err
	}

	// Step 3: Merge and drop the topic branch
	if err := env.Repo.Merge(ctx, bc.active); err != nil {
		return nil, fmt.Errorf("merge %s into %s: %w", bc.active, bc.defaultBranch, err)
	}
	if err := env.Repo.DeleteBranch(ctx, bc.active, false); err != nil {
		return nil, fmt.Errorf("delete branch %s: %w", bc.active, err)
	}
	if err := env.State.RemoveBranch(env.Repo.Name(), bc.active); err != nil {
		return nil, err
	}
	env.printf("Branch '%s' deleted.\n", bc.active)

	// Step 4: Offer to push the result
	env.printf("NOW, you might want to run:\n\n\tgit push %s %s\n\n", origin, bc.defaultBranch)
	ok, err := env.Prompt.Confirm("Run that push?", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return result, nil
	}
	res, err := env.Repo.Push(ctx, origin, bc.defaultBranch, false)
	if err != nil {
		return nil, fmt.Errorf("push %s to %s: %w", bc.defaultBranch, origin, err)
	}
	if res.WasRejected() {
		return nil, &PushRejectedError{Remote: origin, Branch: bc.defaultBranch, Result: res}
	}
	result.Push = res
	return result, nil
}

// UpdateResult describes a topic branch brought up to date with the default
// branch by MasterMerge or Rebase.
type UpdateResult struct {
	Branch        string
	DefaultBranch string
	Origin        string
}

// MasterMerge pulls the default branch from origin and merges it into the
// active topic branch, leaving the topic branch checked out.
func MasterMerge(ctx context.Context, env *Env) (*UpdateResult, error) {
	bc, err := prepareTopicUpdate(ctx, env)
	if err != nil {
		return nil, err
	}
	if err := env.Repo.Merge(ctx, bc.defaultBranch); err != nil {
		return nil, fmt.Errorf("merge %s into %s: %w", bc.defaultBranch, bc.active, err)
	}
	return &UpdateResult{Branch: bc.active, DefaultBranch: bc.defaultBranch, Origin: bc.settings.OriginRemoteName}, nil
}

// Rebase pulls the default branch from origin and rebases the active topic
// branch onto it.
func Rebase(ctx context.Context, env *Env) (*UpdateResult, error) {
	bc, err := prepareTopicUpdate(ctx, env)
	if err != nil {
		return nil, err
	}
	if err := env.Repo.Rebase(ctx, bc.defaultBranch); err != nil {
		return nil, fmt.Errorf("rebase %s onto %s: %w", bc.active, bc.defaultBranch, err)
	}
	return &UpdateResult{Branch: bc.active, DefaultBranch: bc.defaultBranch, Origin: bc.settings.OriginRemoteName}, nil
}

// prepareTopicUpdate validates the tree, updates the default branch and
// checks the topic branch back out.
func prepareTopicUpdate(ctx context.Context, env *Env) (*branchContext, error) {
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.requireClean(ctx); err != nil {
		return nil, err
	}
	if _, err := env.requireRemote(ctx, bc.settings.OriginRemoteName); err != nil {
		return nil, err
	}
	if err := updateDefaultBranch(ctx, env, bc); err != nil {
		return nil, err
	}
	if err := env.Repo.Checkout(ctx, bc.active); err != nil {
		return nil, fmt.Errorf("checkout %s: %w", bc.active, err)
	}
	return bc, nil
}

// updateDefaultBranch checks out the default branch and pulls it from origin.
func updateDefaultBranch(ctx context.Context, env *Env, bc *branchContext) error {
	if err := env.Repo.Checkout(ctx, bc.defaultBranch); err != nil {
		return fmt.Errorf("checkout %s: %w", bc.defaultBranch, err)
	}
	if err := env.Repo.Pull(ctx, bc.settings.OriginRemoteName, bc.defaultBranch); err != nil {
		return fmt.Errorf("pull %s from %s: %w", bc.defaultBranch, bc.settings.OriginRemoteName, err)
	}
	return nil
}
