package core

import (
	"context"
	"fmt"
)

// CleanupOptions configures getback and cleanup.
type CleanupOptions struct {
	// Search selects the branch to clean up; unused by Getback.
	Search string
	// Force deletes an unmerged branch without asking.
	Force bool
}

// CleanupResult contains the outcome of deleting a finished topic branch.
type CleanupResult struct {
	Branch        string
	DefaultBranch string
	WasMerged     bool
	// RemoteName is the push destination the branch was deleted from, if any.
	RemoteName    string
	RemoteDeleted bool
	// Warning is set when the best-effort remote deletion failed.
	Warning *RemoteDeleteWarning
}

// Getback leaves the active topic branch: it updates the default branch,
// deletes the topic branch locally and on the push destination.
func Getback(ctx context.Context, env *Env, opts CleanupOptions) (*CleanupResult, error) {
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.requireClean(ctx); err != nil {
		return nil, err
	}
	return deleteTopicBranch(ctx, env, bc, bc.active, opts.Force)
}

// Cleanup deletes the one local branch matching opts.Search, which must not
// be checked out.
func Cleanup(ctx context.Context, env *Env, opts CleanupOptions) (*CleanupResult, error) {
	settings, err := env.Settings()
	if err != nil {
		return nil, err
	}
	def, err := env.DefaultBranch(ctx, settings)
	if err != nil {
		return nil, err
	}
	active, err := env.Repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	refs, err := findBranchesInteractive(ctx, env, opts.Search, false)
	if err != nil {
		return nil, err
	}
	ref, err := singleBranch(opts.Search, refs)
	if err != nil {
		return nil, err
	}
	if ref.IsRemote() {
		return nil, fmt.Errorf("%s is not a local branch", ref.DisplayName())
	}
	if ref.Name == def {
		return nil, &OnDefaultBranchError{Branch: def}
	}
	if ref.Name == active {
		return nil, &ActiveBranchError{Branch: ref.Name}
	}

	bc := &branchContext{settings: settings, defaultBranch: def, active: active}
	return deleteTopicBranch(ctx, env, bc, ref.Name, opts.Force)
}

// deleteTopicBranch updates the default branch, then deletes branch with a
// safe delete when merged and a forced delete otherwise.
func deleteTopicBranch(ctx context.Context, env *Env, bc *branchContext, branch string, force bool) (*CleanupResult, error) {
	if _, err := env.requireRemote(ctx, bc.settings.OriginRemoteName); err != nil {
		return nil, err
	}
	if err := updateDefaultBranch(ctx, env, bc); err != nil {
		return nil, err
	}

	merged, err := IsBranchMerged(ctx, env.Repo, branch)
	if err != nil {
		return nil, err
	}
	env.logger().Debug("merge status", "branch", branch, "merged", merged, "against", bc.defaultBranch)

	if !merged && !force {
		if err := env.confirm(fmt.Sprintf("Are you certain %s is actually merged?", branch), true); err != nil {
			return nil, err
		}
	}

	if err := env.Repo.DeleteBranch(ctx, branch, !merged); err != nil {
		return nil, fmt.Errorf("delete branch %s: %w", branch, err)
	}
	if err := env.State.RemoveBranch(env.Repo.Name(), branch); err != nil {
		return nil, err
	}

	result := &CleanupResult{Branch: branch, DefaultBranch: bc.defaultBranch, WasMerged: merged}

	remoteName := bc.settings.PushRemoteName()
	if remoteName == "" {
		return result, nil
	}
	remote, err := env.findRemote(ctx, remoteName)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return result, nil
	}

	result.RemoteName = remoteName
	if err := env.Repo.DeleteRemoteBranch(ctx, remoteName, branch); err != nil {
		result.Warning = &RemoteDeleteWarning{Remote: remoteName, Branch: branch, Err: err}
		env.logger().Debug("remote delete failed", "remote", remoteName, "branch", branch, "error", err)
		return result, nil
	}
	result.RemoteDeleted = true
	return result, nil
}
