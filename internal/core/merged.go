package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilupskalvis/gg/internal/vcs"
)

// ParseMergedBranches turns `git branch --merged` output into a set of branch
// names. The last whitespace-separated token of each line is the name, which
// drops the "*" and "+" markers.
func ParseMergedBranches(lines []string) map[string]bool {
	merged := make(map[string]bool, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		merged[fields[len(fields)-1]] = true
	}
	return merged
}

// MergedBranches returns the local branches already merged into HEAD.
func MergedBranches(ctx context.Context, repo vcs.Repository) (map[string]bool, error) {
	lines, err := repo.ListMergedBranches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list merged branches: %w", err)
	}
	return ParseMergedBranches(lines), nil
}

// IsBranchMerged reports whether name is merged into HEAD.
func IsBranchMerged(ctx context.Context, repo vcs.Repository, name string) (bool, error) {
	merged, err := MergedBranches(ctx, repo)
	if err != nil {
		return false, err
	}
	return merged[name], nil
}
