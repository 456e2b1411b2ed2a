package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kilupskalvis/gg/internal/models"
)

// ErrBranchRecordMissing means the branch was not started with gg.
var ErrBranchRecordMissing = errors.New("branch not started with gg")

// Older records carry a naive local timestamp without a zone.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// branchRecordJSON is the stored shape of a branch record.
type branchRecordJSON struct {
	Description string         `json:"description"`
	BugNumber   int            `json:"bugnumber,omitempty"`
	URL         string         `json:"url,omitempty"`
	Tracker     models.Tracker `json:"tracker,omitempty"`
	Date        string         `json:"date"`
}

// SaveBranch stores a branch record under "repo:branch".
func (s *Store) SaveBranch(rec *models.BranchRecord) error {
	if rec.RepositoryName == "" || rec.BranchName == "" {
		return fmt.Errorf("branch record needs a repository and branch name")
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return s.Set(models.BranchKey(rec.RepositoryName, rec.BranchName), branchRecordJSON{
		Description: rec.Description,
		BugNumber:   rec.IssueNumber,
		URL:         rec.IssueURL,
		Tracker:     rec.Tracker,
		Date:        created.Format(time.RFC3339Nano),
	})
}

// LoadBranch returns the record for a branch, or ErrBranchRecordMissing.
// Records written before the tracker field existed are classified by URL.
func (s *Store) LoadBranch(repositoryName, branchName string) (*models.BranchRecord, error) {
	key := models.BranchKey(repositoryName, branchName)

	var raw branchRecordJSON
	found, err := s.Get(key, &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrBranchRecordMissing, key)
	}

	rec := &models.BranchRecord{
		RepositoryName: repositoryName,
		BranchName:     branchName,
		Description:    raw.Description,
		IssueNumber:    raw.BugNumber,
		IssueURL:       raw.URL,
		Tracker:        raw.Tracker,
		CreatedAt:      parseDate(raw.Date),
	}
	if rec.Tracker == models.TrackerNone && rec.IssueURL != "" {
		rec.Tracker = models.ClassifyTrackerURL(rec.IssueURL)
	}
	return rec, nil
}

// RemoveBranch drops the record of a deleted branch. A branch without a
// record is not an error.
func (s *Store) RemoveBranch(repositoryName, branchName string) error {
	err := s.Remove(models.BranchKey(repositoryName, branchName))
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	return err
}

// ListBranches returns every branch record of one repository.
func (s *Store) ListBranches(repositoryName string) ([]*models.BranchRecord, error) {
	prefix := repositoryName + ":"
	var records []*models.BranchRecord
	for key := range s.data {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rec, err := s.LoadBranch(repositoryName, strings.TrimPrefix(key, prefix))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
