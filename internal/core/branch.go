package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilupskalvis/gg/internal/models"
)

const (
	// MaxMessageDisplay is where branch listings cut commit messages.
	MaxMessageDisplay = 80
	// MaxBranchNameDisplay is where checkout questions cut branch names.
	MaxBranchNameDisplay = 50
)

// BranchListing is one branch in a "branches" listing.
type BranchListing struct {
	Ref    models.BranchRef
	Merged bool
	Active bool
	// Record is nil for branches not started with gg.
	Record *models.BranchRecord
}

// ListBranches returns the branches matching search, oldest tip first, with
// their merge status relative to the checked-out branch.
func ListBranches(ctx context.Context, env *Env, search string) ([]BranchListing, error) {
	refs, err := findBranchesInteractive(ctx, env, search, false)
	if err != nil {
		return nil, err
	}

	merged, err := MergedBranches(ctx, env.Repo)
	if err != nil {
		return nil, err
	}
	active, err := env.Repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	records, err := env.State.ListBranches(env.Repo.Name())
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*models.BranchRecord, len(records))
	for _, rec := range records {
		byName[rec.BranchName] = rec
	}

	listings := make([]BranchListing, 0, len(refs))
	for _, ref := range refs {
		listings = append(listings, BranchListing{
			Ref:    ref,
			Merged: !ref.IsRemote() && merged[ref.Name],
			Active: !ref.IsRemote() && ref.Name == active,
			Record: byName[ref.Name],
		})
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return lastUpdated(listings[i].Ref).Before(lastUpdated(listings[j].Ref))
	})
	return listings, nil
}

// OfferCheckout asks to check out a single listed branch. A remote match is
// checked out as a new local tracking branch. It returns false when the user
// declined.
func OfferCheckout(ctx context.Context, env *Env, listing BranchListing) (bool, error) {
	if listing.Active {
		return false, &ActiveBranchError{Branch: listing.Ref.Name}
	}

	question := fmt.Sprintf("Check out '%s'?", truncate(listing.Ref.DisplayName(), MaxBranchNameDisplay))
	ok, err := env.Prompt.Confirm(question, true)
	if err != nil || !ok {
		return false, err
	}

	if listing.Ref.IsRemote() {
		err = env.Repo.CheckoutTracking(ctx, listing.Ref.RemoteName, listing.Ref.Name)
	} else {
		err = env.Repo.Checkout(ctx, listing.Ref.Name)
	}
	if err != nil {
		return false, fmt.Errorf("checkout %s: %w", listing.Ref.DisplayName(), err)
	}
	return true, nil
}

// CommitSummary returns the tip commit message cut for display, or a
// placeholder when there is none.
func CommitSummary(ref models.BranchRef) string {
	if ref.Head == nil || ref.Head.LastMessage == "" {
		return "*no commit yet*"
	}
	return truncateMessage(ref.Head.LastMessage)
}

func truncateMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxMessageDisplay {
		return msg
	}
	return string(runes[:MaxMessageDisplay-4]) + "…"
}

func lastUpdated(ref models.BranchRef) time.Time {
	if ref.Head == nil {
		return time.Time{}
	}
	return ref.Head.LastUpdated
}
