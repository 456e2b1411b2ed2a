package core

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
	"github.com/kilupskalvis/gg/internal/vcs"
)

// FindBranches yields the branches matching search. A "remote:branch" search
// first looks for a local branch named like the branch part and only fetches
// the remote when none exists. Every search also scans local branch names for
// the whole search string. Matching is case-insensitive; exact requires the
// whole name to match instead of a substring.
//
// The sequence is lazy and re-runs the lookup each time it is ranged over.
// A lookup failure is yielded as a single error and ends the sequence.
func FindBranches(ctx context.Context, repo vcs.Repository, search string, exact bool) iter.Seq2[models.BranchRef, error] {
	match := func(name, token string) bool {
		if exact {
			return strings.EqualFold(name, token)
		}
		return strings.Contains(strings.ToLower(name), strings.ToLower(token))
	}

	return func(yield func(models.BranchRef, error) bool) {
		heads, err := repo.ListLocalBranches(ctx)
		if err != nil {
			yield(models.BranchRef{}, fmt.Errorf("list branches: %w", err))
			return
		}

		if remoteName, branchToken, ok := strings.Cut(search, ":"); ok {
			remotes, err := repo.ListRemotes(ctx)
			if err != nil {
				yield(models.BranchRef{}, fmt.Errorf("list remotes: %w", err))
				return
			}
			known := false
			for _, r := range remotes {
				if r.Name == remoteName {
					known = true
					break
				}
			}
			if !known {
				yield(models.BranchRef{}, &InvalidRemoteNameError{Name: remoteName})
				return
			}

			foundLocal := false
			for i := range heads {
				if match(heads[i].Name, branchToken) {
					foundLocal = true
					if !yield(models.BranchRef{Name: heads[i].Name, Head: &heads[i]}, nil) {
						return
					}
					break
				}
			}

			if !foundLocal {
				refs, err := repo.Fetch(ctx, remoteName)
				if err != nil {
					yield(models.BranchRef{}, fmt.Errorf("fetch %s: %w", remoteName, err))
					return
				}
				want := remoteName + "/" + branchToken
				for _, ref := range refs {
					if strings.EqualFold(ref.ShortName(), want) {
						name := strings.TrimPrefix(ref.ShortName(), remoteName+"/")
						if !yield(models.BranchRef{Name: name, RemoteName: remoteName}, nil) {
							return
						}
						break
					}
				}
			}
		}

		for i := range heads {
			if match(heads[i].Name, search) {
				if !yield(models.BranchRef{Name: heads[i].Name, Head: &heads[i]}, nil) {
					return
				}
			}
		}
	}
}

// CollectBranches drains a FindBranches sequence.
func CollectBranches(seq iter.Seq2[models.BranchRef, error]) ([]models.BranchRef, error) {
	var refs []models.BranchRef
	for ref, err := range seq {
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// findBranchesInteractive collects matches and, when the search names an
// unknown remote, offers to add it as a fork of origin and retries once.
func findBranchesInteractive(ctx context.Context, env *Env, search string, exact bool) ([]models.BranchRef, error) {
	refs, err := CollectBranches(FindBranches(ctx, env.Repo, search, exact))
	var invalid *InvalidRemoteNameError
	if !errors.As(err, &invalid) {
		return refs, err
	}

	settings, serr := env.Settings()
	if serr != nil {
		return nil, serr
	}
	origin, serr := env.findRemote(ctx, settings.OriginRemoteName)
	if serr != nil {
		return nil, serr
	}
	if origin == nil {
		return nil, err
	}
	suggested, ok := forkRemoteURL(origin.URL, invalid.Name)
	if !ok {
		return nil, err
	}

	env.printf("There is no remote called %q.\n", invalid.Name)
	if cerr := env.confirm(fmt.Sprintf("Add remote %s (%s)?", invalid.Name, suggested), true); cerr != nil {
		return nil, err
	}
	if aerr := env.Repo.AddRemote(ctx, invalid.Name, suggested); aerr != nil {
		return nil, fmt.Errorf("add remote %s: %w", invalid.Name, aerr)
	}
	env.logger().Info("added remote", "name", invalid.Name, "url", suggested)

	return CollectBranches(FindBranches(ctx, env.Repo, search, exact))
}

// forkRemoteURL rewrites a GitHub origin URL to point at owner's fork.
func forkRemoteURL(originURL, owner string) (string, bool) {
	_, repo, ok := ParseGitHubRemote(originURL)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(originURL, "git@") {
		return fmt.Sprintf("git@github.com:%s/%s.git", owner, repo), true
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo), true
}

// singleBranch returns the only match or an error naming what went wrong.
func singleBranch(search string, refs []models.BranchRef) (models.BranchRef, error) {
	switch len(refs) {
	case 0:
		return models.BranchRef{}, ErrBranchNotFound
	case 1:
		return refs[0], nil
	default:
		return models.BranchRef{}, &AmbiguousBranchError{Search: search, Matches: refs}
	}
}
