package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kilupskalvis/gg/internal/models"
)

// MockRepository is an in-memory Repository for testing. It records every
// mutating call in Calls, in order, as "<method> <args>".
type MockRepository struct {
	RootDir  string
	Branches []models.HeadRef
	Remotes  []models.Remote
	Current  string
	// Default is returned by DefaultBranch; "main" when empty.
	Default string
	Dirty   bool

	// MergedLines is the raw `git branch --merged` output.
	MergedLines []string
	// FetchResults maps a remote name to the refs its next fetch reports.
	FetchResults map[string][]models.FetchedRef
	// PushResults are returned by successive Push calls; fast-forward when exhausted.
	PushResults []*models.PushResult

	IndexChanges []models.FileChange
	HeadChanges  []models.FileChange
	Untracked    []models.UntrackedFile
	CommitID     string

	// Err can be set to make every method return an error.
	Err error
	// Fail makes a single method, by name, return an error.
	Fail map[string]error

	Calls      []string
	FetchCalls map[string]int
	Commits    []string
	Staged     []string
}

// NewMockRepository creates a mock working tree with the given local branches,
// the first of which is checked out.
func NewMockRepository(branches ...string) *MockRepository {
	m := &MockRepository{
		RootDir:      "/work/gg",
		FetchResults: make(map[string][]models.FetchedRef),
		Fail:         make(map[string]error),
		FetchCalls:   make(map[string]int),
		CommitID:     "0123456789abcdef0123456789abcdef01234567",
	}
	for _, b := range branches {
		m.Branches = append(m.Branches, models.HeadRef{Name: b})
	}
	if len(branches) > 0 {
		m.Current = branches[0]
	}
	return m
}

func (m *MockRepository) err(method string) error {
	if m.Err != nil {
		return m.Err
	}
	return m.Fail[method]
}

func (m *MockRepository) record(method string, args ...string) {
	m.Calls = append(m.Calls, strings.TrimSpace(method+" "+strings.Join(args, " ")))
}

// HasBranch reports whether a local branch exists.
func (m *MockRepository) HasBranch(name string) bool {
	for _, b := range m.Branches {
		if b.Name == name {
			return true
		}
	}
	return false
}

func (m *MockRepository) Root() string { return m.RootDir }

func (m *MockRepository) Name() string { return filepath.Base(m.RootDir) }

func (m *MockRepository) ListLocalBranches(ctx context.Context) ([]models.HeadRef, error) {
	if err := m.err("ListLocalBranches"); err != nil {
		return nil, err
	}
	out := make([]models.HeadRef, len(m.Branches))
	copy(out, m.Branches)
	return out, nil
}

func (m *MockRepository) ListRemotes(ctx context.Context) ([]models.Remote, error) {
	if err := m.err("ListRemotes"); err != nil {
		return nil, err
	}
	out := make([]models.Remote, len(m.Remotes))
	copy(out, m.Remotes)
	return out, nil
}

func (m *MockRepository) AddRemote(ctx context.Context, name, url string) error {
	m.record("remote add", name, url)
	if err := m.err("AddRemote"); err != nil {
		return err
	}
	m.Remotes = append(m.Remotes, models.Remote{Name: name, URL: url})
	return nil
}

func (m *MockRepository) CurrentBranch(ctx context.Context) (string, error) {
	if err := m.err("CurrentBranch"); err != nil {
		return "", err
	}
	return m.Current, nil
}

func (m *MockRepository) DefaultBranch(ctx context.Context, originName string) (string, error) {
	if err := m.err("DefaultBranch"); err != nil {
		return "", err
	}
	if m.Default == "" {
		return "main", nil
	}
	return m.Default, nil
}

func (m *MockRepository) IsDirty(ctx context.Context) (bool, error) {
	if err := m.err("IsDirty"); err != nil {
		return false, err
	}
	return m.Dirty, nil
}

func (m *MockRepository) Checkout(ctx context.Context, branch string) error {
	m.record("checkout", branch)
	if err := m.err("Checkout"); err != nil {
		return err
	}
	if !m.HasBranch(branch) {
		return fmt.Errorf("pathspec '%s' did not match any file(s) known to git", branch)
	}
	m.Current = branch
	return nil
}

func (m *MockRepository) CheckoutTracking(ctx context.Context, remoteName, branch string) error {
	m.record("checkout --track", remoteName+"/"+branch)
	if err := m.err("CheckoutTracking"); err != nil {
		return err
	}
	m.Branches = append(m.Branches, models.HeadRef{Name: branch})
	m.Current = branch
	return nil
}

func (m *MockRepository) CreateBranch(ctx context.Context, name string) error {
	m.record("checkout -b", name)
	if err := m.err("CreateBranch"); err != nil {
		return err
	}
	if m.HasBranch(name) {
		return &GitError{Args: []string{"checkout", "-b", name}, ExitCode: 128,
			Stderr: fmt.Sprintf("fatal: a branch named '%s' already exists", name)}
	}
	m.Branches = append(m.Branches, models.HeadRef{Name: name})
	m.Current = name
	return nil
}

func (m *MockRepository) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	m.record("branch "+flag, name)
	if err := m.err("DeleteBranch"); err != nil {
		return err
	}
	for i, b := range m.Branches {
		if b.Name == name {
			m.Branches = append(m.Branches[:i], m.Branches[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("branch '%s' not found", name)
}

func (m *MockRepository) Fetch(ctx context.Context, remoteName string) ([]models.FetchedRef, error) {
	m.record("fetch", remoteName)
	m.FetchCalls[remoteName]++
	if err := m.err("Fetch"); err != nil {
		return nil, err
	}
	return m.FetchResults[remoteName], nil
}

func (m *MockRepository) Pull(ctx context.Context, remoteName, branch string) error {
	m.record("pull", remoteName, branch)
	return m.err("Pull")
}

func (m *MockRepository) Push(ctx context.Context, remoteName, branch string, force bool) (*models.PushResult, error) {
	if force {
		m.record("push --force", remoteName, branch)
	} else {
		m.record("push", remoteName, branch)
	}
	if err := m.err("Push"); err != nil {
		return nil, err
	}
	if len(m.PushResults) == 0 {
		return &models.PushResult{Forced: force}, nil
	}
	res := m.PushResults[0]
	m.PushResults = m.PushResults[1:]
	return res, nil
}

func (m *MockRepository) DeleteRemoteBranch(ctx context.Context, remoteName, branch string) error {
	m.record("push --delete", remoteName, branch)
	return m.err("DeleteRemoteBranch")
}

func (m *MockRepository) Merge(ctx context.Context, branch string) error {
	m.record("merge", branch)
	return m.err("Merge")
}

func (m *MockRepository) Rebase(ctx context.Context, branch string) error {
	m.record("rebase", branch)
	return m.err("Rebase")
}

func (m *MockRepository) Stage(ctx context.Context, paths []string) error {
	m.record("add", paths...)
	if err := m.err("Stage"); err != nil {
		return err
	}
	m.Staged = append(m.Staged, paths...)
	return nil
}

func (m *MockRepository) Commit(ctx context.Context, message string, noVerify bool) (string, error) {
	m.record("commit")
	if err := m.err("Commit"); err != nil {
		return "", err
	}
	m.Commits = append(m.Commits, message)
	m.IndexChanges = nil
	m.HeadChanges = nil
	m.Dirty = false
	return m.CommitID, nil
}

func (m *MockRepository) ListMergedBranches(ctx context.Context) ([]string, error) {
	if err := m.err("ListMergedBranches"); err != nil {
		return nil, err
	}
	return m.MergedLines, nil
}

func (m *MockRepository) DiffAgainstIndex(ctx context.Context) ([]models.FileChange, error) {
	if err := m.err("DiffAgainstIndex"); err != nil {
		return nil, err
	}
	return m.IndexChanges, nil
}

func (m *MockRepository) DiffAgainstHead(ctx context.Context) ([]models.FileChange, error) {
	if err := m.err("DiffAgainstHead"); err != nil {
		return nil, err
	}
	return m.HeadChanges, nil
}

func (m *MockRepository) UntrackedFiles(ctx context.Context) ([]models.UntrackedFile, error) {
	if err := m.err("UntrackedFiles"); err != nil {
		return nil, err
	}
	return m.Untracked, nil
}

// Verify that *MockRepository implements Repository at compile time
var _ Repository = (*MockRepository)(nil)
