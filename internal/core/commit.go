package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/kilupskalvis/gg/internal/models"
)

// untrackedPromptAge is how young the youngest untracked file must be before
// commit asks whether to ignore untracked files.
const untrackedPromptAge = 12 * time.Hour

// CommitOptions configures a commit operation.
type CommitOptions struct {
	NoVerify bool
}

// CommitResult contains the outcome of a commit operation.
type CommitResult struct {
	Branch string
	// CommitID is empty when there was nothing to commit and the user chose
	// to go on to the push step.
	CommitID string
	Message  string

	// Push is nil when pushing was skipped.
	Push *PushOutcome
	// PushRejected is set when a rejected push was not forced.
	PushRejected *PushRejectedError

	// PullRequest is an already-open pull request for the branch.
	PullRequest *models.PullRequest
	// CompareURL links to GitHub's "open a pull request" page.
	CompareURL string

	// Notes are informational messages for the caller to show.
	Notes []string
}

// UntrackedEntry is one line of the untracked-files notice: a file, or a
// top-level directory suggested in place of its single file.
type UntrackedEntry struct {
	Path  string
	IsDir bool
	// Age is the age of the youngest file the entry stands for.
	Age time.Duration
}

// GroupUntracked collapses untracked files by top-level directory. A
// directory holding exactly one file is listed instead of that file.
// Entries are ordered oldest first.
func GroupUntracked(files []models.UntrackedFile, now time.Time, countFiles func(dir string) int) []UntrackedEntry {
	counts := make(map[string]int)
	byPath := make(map[string]*UntrackedEntry)
	var order []string

	for _, f := range files {
		root, _, nested := strings.Cut(filepath.ToSlash(f.Path), "/")
		path := f.Path
		isDir := false
		if nested {
			if _, ok := counts[root]; !ok {
				counts[root] = countFiles(root)
			}
			if counts[root] == 1 {
				path = root
				isDir = true
			}
		}

		age := now.Sub(f.ModTime)
		if e, ok := byPath[path]; ok {
			if age < e.Age {
				e.Age = age
			}
			continue
		}
		byPath[path] = &UntrackedEntry{Path: path, IsDir: isDir, Age: age}
		order = append(order, path)
	}

	entries := make([]UntrackedEntry, 0, len(order))
	for _, p := range order {
		entries = append(entries, *byPath[p])
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Age > entries[j].Age
	})
	return entries
}

// Commit commits every tracked change on the active topic branch with a
// message derived from its branch record, then offers to push it and points
// at the pull request.
func Commit(ctx context.Context, env *Env, opts CommitOptions) (*CommitResult, error) {
	bc, err := env.topicBranch(ctx)
	if err != nil {
		return nil, err
	}
	result := &CommitResult{Branch: bc.active}

	if err := checkUntracked(ctx, env); err != nil {
		return nil, err
	}

	rec, err := env.State.LoadBranch(env.Repo.Name(), bc.active)
	if err != nil {
		return nil, err
	}

	message, err := commitMessage(env, rec, bc.settings)
	if err != nil {
		return nil, err
	}
	result.Message = message

	unstaged, err := env.Repo.DiffAgainstIndex(ctx)
	if err != nil {
		return nil, err
	}
	staged, err := env.Repo.DiffAgainstHead(ctx)
	if err != nil {
		return nil, err
	}

	if len(unstaged) == 0 && len(staged) == 0 {
		env.printf("No files to add or remove.\n")
		if err := env.confirm("Proceed anyway?", true); err != nil {
			return nil, err
		}
		result.Notes = append(result.Notes, "Nothing committed.")
	} else {
		if len(unstaged) > 0 {
			paths := make([]string, len(unstaged))
			for i, c := range unstaged {
				paths[i] = c.Path
			}
			if err := env.Repo.Stage(ctx, paths); err != nil {
				return nil, fmt.Errorf("stage changes: %w", err)
			}
		}

		id, err := env.Repo.Commit(ctx, message, opts.NoVerify)
		if err != nil {
			return nil, err
		}
		result.CommitID = id
		env.logger().Debug("committed", "id", id, "branch", bc.active)
	}

	remoteName := bc.settings.PushRemoteName()
	if remoteName == "" {
		result.Notes = append(result.Notes, "Can't help you push the commit. Please run: gg config --help")
		return result, nil
	}
	if _, err := env.requireRemote(ctx, remoteName); err != nil {
		return nil, err
	}

	ok, err := env.Prompt.Confirm(fmt.Sprintf("Push branch to %s?", remoteName), true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return result, nil
	}

	pushed, err := pushWithRetry(ctx, env, remoteName, bc.active)
	var rejected *PushRejectedError
	if errors.As(err, &rejected) {
		result.PushRejected = rejected
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Push = pushed

	if !env.HasGitHubCredentials {
		result.Notes = append(result.Notes, "Can't help create a GitHub Pull Request.\nConsider running: gg github --help")
		return result, nil
	}

	if err := findPullRequestLink(ctx, env, bc, result); err != nil {
		return nil, err
	}
	return result, nil
}

// checkUntracked lists untracked files and, when one of them is young,
// asks whether to ignore them.
func checkUntracked(ctx context.Context, env *Env) error {
	files, err := env.Repo.UntrackedFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	root := env.Repo.Root()
	now := env.now()
	entries := GroupUntracked(files, now, func(dir string) int {
		return countFiles(filepath.Join(root, dir))
	})

	env.printf("NOTE! There are untracked files:\n")
	young := false
	for _, e := range entries {
		path := e.Path
		if e.IsDir {
			path += "/"
		}
		env.printf("\t%-60s %s\n", path, humanize.RelTime(now.Add(-e.Age), now, "old", "from now"))
		if e.Age < untrackedPromptAge {
			young = true
		}
	}
	if !young {
		return nil
	}

	ok, err := env.Prompt.Confirm("Ignore untracked files?", true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUntrackedFiles
	}
	return nil
}

// countFiles counts regular files below dir.
func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}

func commitMessage(env *Env, rec *models.BranchRecord, settings models.Settings) (string, error) {
	headline, err := CommitHeadline(rec)
	if err != nil {
		return "", err
	}

	env.printf("Commit message: (type a new one if you want to override)\n")
	headline, err = env.Prompt.Input(fmt.Sprintf("%q", headline), headline)
	if err != nil {
		return "", err
	}

	fixes := false
	if rec.HasIssue() && settings.FixesMessageEnabled {
		fixes, err = env.Prompt.Confirm(`Add the "fixes" mention?`, false)
		if err != nil {
			return "", err
		}
	}
	return FormatCommitMessage(rec, headline, fixes)
}

// findPullRequestLink records an open pull request for the branch, or the
// compare URL to open one.
func findPullRequestLink(ctx context.Context, env *Env, bc *branchContext, result *CommitResult) error {
	origin, err := env.requireRemote(ctx, bc.settings.OriginRemoteName)
	if err != nil {
		return err
	}
	org, repo, ok := ParseGitHubRemote(origin.URL)
	if !ok {
		result.Notes = append(result.Notes, fmt.Sprintf("Remote %s is not a GitHub repository.", origin.Name))
		return nil
	}

	owner := prHeadOwner(env, bc.settings, org)
	prs, err := env.GitHub.ListOpenPullRequests(ctx, org, repo, owner+":"+bc.active)
	if err != nil {
		return fmt.Errorf("search pull requests: %w", err)
	}
	if len(prs) > 0 {
		result.PullRequest = &prs[0]
		return nil
	}

	result.CompareURL = fmt.Sprintf("%s/%s/%s/compare/%s:%s...%s:%s?expand=1",
		strings.TrimSuffix(env.webURL(), "/"), org, repo, org, bc.defaultBranch, owner, bc.active)
	return nil
}

// prHeadOwner is the GitHub account a topic branch is pushed under.
func prHeadOwner(env *Env, settings models.Settings, org string) string {
	if settings.PushToOrigin {
		return org
	}
	return env.forkName(settings)
}
