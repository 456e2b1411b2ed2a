package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	dashRunRe     = regexp.MustCompile(`-+`)
	arrowReplacer = strings.NewReplacer("->", "-", "=>", "-")
)

// Characters that are never allowed in a generated branch name.
const forbiddenBranchChars = "@%^&:'\"/(),[]{}!.?`$<>#*;="

// CleanBranchName turns free text into a branch-name fragment.
// It is idempotent: cleaning an already clean name returns it unchanged.
func CleanBranchName(s string) string {
	s = strings.TrimSpace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, " ", "-")
	s = arrowReplacer.Replace(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenBranchChars, r) {
			return -1
		}
		return r
	}, s)
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.ToLower(s)
	return strings.Trim(s, " \t\n-")
}

// BranchNameFor builds the branch name for a description, prefixed by the
// tracker-specific issue prefix when the issue has a number.
func BranchNameFor(issue *models.Issue, description string) (string, error) {
	suffix := CleanBranchName(description)
	if suffix == "" {
		return "", ErrDegenerateBranchName
	}
	if issue == nil || issue.Number <= 0 {
		return suffix, nil
	}
	switch issue.Tracker {
	case models.TrackerGitHub:
		return fmt.Sprintf("issue-%d-%s", issue.Number, suffix), nil
	case models.TrackerBugzilla:
		return fmt.Sprintf("bug-%d-%s", issue.Number, suffix), nil
	default:
		return suffix, nil
	}
}

// truncate shortens s to max runes, ending with an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "…"
}
