package core

import (
	"fmt"

	"github.com/kilupskalvis/gg/internal/models"
)

// CommitHeadline returns the suggested first line of a commit message for a
// branch record.
func CommitHeadline(rec *models.BranchRecord) (string, error) {
	if !rec.HasIssue() {
		return rec.Description, nil
	}
	switch rec.Tracker {
	case models.TrackerBugzilla:
		return fmt.Sprintf("bug %d - %s", rec.IssueNumber, rec.Description), nil
	case models.TrackerGitHub:
		return rec.Description, nil
	default:
		return "", ErrUnknownTracker
	}
}

// FormatCommitMessage assembles the final commit message. With fixes set a
// Bugzilla headline gains a "fixes " prefix and a GitHub reference reads
// "Fixes #N" instead of "Part of #N".
func FormatCommitMessage(rec *models.BranchRecord, headline string, fixes bool) (string, error) {
	if !rec.HasIssue() {
		return headline, nil
	}
	switch rec.Tracker {
	case models.TrackerBugzilla:
		if fixes {
			return "fixes " + headline, nil
		}
		return headline, nil
	case models.TrackerGitHub:
		ref := "Part of"
		if fixes {
			ref = "Fixes"
		}
		return fmt.Sprintf("%s\n\n%s #%d", headline, ref, rec.IssueNumber), nil
	default:
		return "", ErrUnknownTracker
	}
}
