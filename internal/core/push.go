package core

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// PushOptions configures a push operation.
type PushOptions struct {
	// Force pushes with --force straight away instead of offering a retry.
	Force bool
}

// PushOutcome contains the outcome of pushing the active branch.
type PushOutcome struct {
	Remote string
	Branch string
	Result *models.PushResult
	// Retried is set when a rejected push was retried with force.
	Retried bool
	// Rejected holds the first, rejected result when a retry happened.
	Rejected *models.PushResult
}

// Push pushes the active topic branch to the configured push destination.
func Push(ctx context.Context, env *Env, opts PushOptions) (*PushOutcome, error) {
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}

	remoteName := bc.settings.PushRemoteName()
	if remoteName == "" {
		return nil, ErrNoPushRemote
	}
	if _, err := env.requireRemote(ctx, remoteName); err != nil {
		return nil, err
	}

	if opts.Force {
		res, err := env.Repo.Push(ctx, remoteName, bc.active, true)
		if err != nil {
			return nil, fmt.Errorf("push %s to %s: %w", bc.active, remoteName, err)
		}
		if res.WasRejected() {
			return nil, &PushRejectedError{Remote: remoteName, Branch: bc.active, Result: res}
		}
		return &PushOutcome{Remote: remoteName, Branch: bc.active, Result: res}, nil
	}

	return pushWithRetry(ctx, env, remoteName, bc.active)
}

// pushWithRetry pushes once and, when the push is rejected, offers a single
// forced retry. Declining returns PushRejectedError.
func pushWithRetry(ctx context.Context, env *Env, remoteName, branch string) (*PushOutcome, error) {
	res, err := env.Repo.Push(ctx, remoteName, branch, false)
	if err != nil {
		return nil, fmt.Errorf("push %s to %s: %w", branch, remoteName, err)
	}
	env.logger().Debug("pushed", "remote", remoteName, "branch", branch, "result", res.Classification())

	out := &PushOutcome{Remote: remoteName, Branch: branch, Result: res}
	if !res.WasRejected() {
		return out, nil
	}

	rejected := &PushRejectedError{Remote: remoteName, Branch: branch, Result: res}
	env.printf("The push was rejected (%q)\n", res.Summary)
	ok, err := env.Prompt.Confirm("Try to force push?", true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rejected
	}

	forced, err := env.Repo.Push(ctx, remoteName, branch, true)
	if err != nil {
		return nil, fmt.Errorf("force push %s to %s: %w", branch, remoteName, err)
	}
	if forced.WasRejected() {
		return nil, &PushRejectedError{Remote: remoteName, Branch: branch, Result: forced}
	}
	out.Rejected = res
	out.Result = forced
	out.Retried = true
	return out, nil
}
