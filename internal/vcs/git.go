package vcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/kilupskalvis/gg/internal/config"
	"github.com/kilupskalvis/gg/internal/models"
)

// GitRepository implements Repository for a working tree on disk. Reads go
// through go-git; anything that mutates the tree or talks to a remote runs the
// git CLI so hooks, credential helpers and the SSH agent behave as usual.
type GitRepository struct {
	root   string
	repo   *git.Repository
	runner *Runner
	logger *slog.Logger
}

// Open finds the working tree containing dir and opens it.
func Open(dir string, logger *slog.Logger) (*GitRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	root, err := config.FindRepoRoot(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &GitRepository{
		root:   root,
		repo:   repo,
		runner: &Runner{Dir: root, Logger: logger},
		logger: logger,
	}, nil
}

func (g *GitRepository) Root() string {
	return g.root
}

func (g *GitRepository) Name() string {
	return filepath.Base(g.root)
}

// ==================== Reads (go-git) ====================

// ListLocalBranches returns every local branch with its tip commit.
func (g *GitRepository) ListLocalBranches(ctx context.Context) ([]models.HeadRef, error) {
	iter, err := g.repo.Branches()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	var heads []models.HeadRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		head := models.HeadRef{
			Name: ref.Name().Short(),
			Hash: ref.Hash().String(),
		}
		if commit, err := g.repo.CommitObject(ref.Hash()); err == nil {
			head.LastUpdated = commit.Committer.When
			head.LastMessage = strings.TrimSpace(commit.Message)
		}
		heads = append(heads, head)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(heads, func(i, j int) bool { return heads[i].Name < heads[j].Name })
	return heads, nil
}

// ListRemotes returns the configured remotes with their first URL.
func (g *GitRepository) ListRemotes(ctx context.Context) ([]models.Remote, error) {
	remotes, err := g.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}

	out := make([]models.Remote, 0, len(remotes))
	for _, r := range remotes {
		cfg := r.Config()
		url := ""
		if len(cfg.URLs) > 0 {
			url = cfg.URLs[0]
		}
		out = append(out, models.Remote{Name: cfg.Name, URL: url})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddRemote adds a remote with the default fetch refspec.
func (g *GitRepository) AddRemote(ctx context.Context, name, url string) error {
	_, err := g.repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("add remote %s: %w", name, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name.
func (g *GitRepository) CurrentBranch(ctx context.Context) (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached at %s", head.Hash().String()[:7])
	}
	return head.Name().Short(), nil
}

// DefaultBranch reads refs/remotes/<origin>/HEAD, then looks for main or
// master on origin, then locally. Falls back to "main".
func (g *GitRepository) DefaultBranch(ctx context.Context, originName string) (string, error) {
	ref, err := g.repo.Reference(plumbing.NewRemoteHEADReferenceName(originName), false)
	if err == nil && ref.Type() == plumbing.SymbolicReference {
		target := ref.Target().Short()
		if name := strings.TrimPrefix(target, originName+"/"); name != target {
			return name, nil
		}
	}

	for _, candidate := range []string{"main", "master"} {
		if g.hasRef(plumbing.NewRemoteReferenceName(originName, candidate)) {
			return candidate, nil
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if g.hasRef(plumbing.NewBranchReferenceName(candidate)) {
			return candidate, nil
		}
	}
	return "main", nil
}

func (g *GitRepository) hasRef(name plumbing.ReferenceName) bool {
	_, err := g.repo.Reference(name, true)
	return err == nil
}

// ==================== Working tree (git CLI) ====================

// IsDirty reports tracked modifications, staged or not. Untracked files do not count.
func (g *GitRepository) IsDirty(ctx context.Context) (bool, error) {
	res, err := g.runner.Run(ctx, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(res.Stdout) != "", nil
}

func (g *GitRepository) Checkout(ctx context.Context, branch string) error {
	_, err := g.runner.Run(ctx, "checkout", branch)
	return err
}

// CheckoutTracking creates a local branch tracking <remote>/<branch> and checks it out.
func (g *GitRepository) CheckoutTracking(ctx context.Context, remoteName, branch string) error {
	_, err := g.runner.Run(ctx, "checkout", "-b", branch, "--track", remoteName+"/"+branch)
	return err
}

// CreateBranch creates a branch at HEAD and checks it out.
func (g *GitRepository) CreateBranch(ctx context.Context, name string) error {
	_, err := g.runner.Run(ctx, "checkout", "-b", name)
	return err
}

func (g *GitRepository) DeleteBranch(ctx context.Context, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := g.runner.Run(ctx, "branch", flag, name)
	return err
}

// ==================== Network (git CLI) ====================

// Fetch fetches a remote and reports every ref under refs/remotes/<remote>/,
// classified by comparing the refs before and after the fetch.
func (g *GitRepository) Fetch(ctx context.Context, remoteName string) ([]models.FetchedRef, error) {
	before, err := g.remoteRefs(remoteName)
	if err != nil {
		return nil, err
	}
	if _, err := g.runner.Run(ctx, "fetch", remoteName); err != nil {
		return nil, err
	}
	// Reopen so go-git sees the packs and refs the CLI just wrote.
	if err := g.reopen(); err != nil {
		return nil, err
	}
	after, err := g.remoteRefs(remoteName)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(after))
	for name := range after {
		names = append(names, name)
	}
	sort.Strings(names)

	refs := make([]models.FetchedRef, 0, len(names))
	for _, name := range names {
		ref := models.FetchedRef{RefName: name}
		old, seen := before[name]
		switch {
		case !seen:
			ref.New = true
		case old == after[name]:
			ref.UpToDate = true
		default:
			ff, err := g.isAncestor(ctx, old, after[name])
			if err != nil {
				return nil, err
			}
			ref.Forced = !ff
		}
		if !ref.UpToDate {
			g.logger.Debug("fetched ref", "ref", ref.RefName, "forced", ref.Forced, "new", ref.New)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// remoteRefs maps each remote-tracking ref of remoteName to its hash.
// The symbolic <remote>/HEAD is skipped.
func (g *GitRepository) remoteRefs(remoteName string) (map[string]plumbing.Hash, error) {
	iter, err := g.repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	prefix := "refs/remotes/" + remoteName + "/"
	refs := make(map[string]plumbing.Hash)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().String()
		if ref.Type() == plumbing.HashReference && strings.HasPrefix(name, prefix) {
			refs[name] = ref.Hash()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	return refs, nil
}

// isAncestor reports whether from is an ancestor of to, i.e. the update
// was a fast-forward.
func (g *GitRepository) isAncestor(ctx context.Context, from, to plumbing.Hash) (bool, error) {
	_, err := g.runner.Run(ctx, "merge-base", "--is-ancestor", from.String(), to.String())
	var gitErr *GitError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &gitErr) && gitErr.ExitCode == 1:
		return false, nil
	default:
		return false, err
	}
}

func (g *GitRepository) reopen() error {
	repo, err := git.PlainOpenWithOptions(g.root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	g.repo = repo
	return nil
}

func (g *GitRepository) Pull(ctx context.Context, remoteName, branch string) error {
	_, err := g.runner.Run(ctx, "pull", remoteName, branch)
	return err
}

// Push pushes branch to remoteName. A rejected push is not an error: the
// result says so and the caller decides whether to retry with force.
func (g *GitRepository) Push(ctx context.Context, remoteName, branch string, force bool) (*models.PushResult, error) {
	args := []string{"push", "--porcelain"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, remoteName, branch)

	res, err := g.runner.Run(ctx, args...)
	result := parsePushPorcelain(res.Stdout)
	if result == nil {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("git push printed no ref status for %s", branch)
	}
	if force && !result.WasRejected() && !result.UpToDate {
		result.Forced = true
	}
	return result, nil
}

func (g *GitRepository) DeleteRemoteBranch(ctx context.Context, remoteName, branch string) error {
	_, err := g.runner.Run(ctx, "push", remoteName, "--delete", branch)
	return err
}

// ==================== Integration ====================

func (g *GitRepository) Merge(ctx context.Context, branch string) error {
	_, err := g.runner.Run(ctx, "merge", branch)
	return err
}

func (g *GitRepository) Rebase(ctx context.Context, branch string) error {
	_, err := g.runner.Run(ctx, "rebase", branch)
	return err
}

// ==================== Committing ====================

// Stage adds, updates or removes exactly the given paths in the index.
func (g *GitRepository) Stage(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add", "-A", "--"}, paths...)
	_, err := g.runner.Run(ctx, args...)
	return err
}

// Commit records the index and returns the new commit id. A failure while a
// pre-commit or commit-msg hook is installed is reported as *HookRejectedError.
func (g *GitRepository) Commit(ctx context.Context, message string, noVerify bool) (string, error) {
	args := []string{"commit", "-m", message}
	if noVerify {
		args = append(args, "--no-verify")
	}

	res, err := g.runner.Run(ctx, args...)
	if err != nil {
		var gitErr *GitError
		if !noVerify && errors.As(err, &gitErr) && g.hasCommitHooks(ctx) {
			return "", &HookRejectedError{Stdout: res.Stdout, Stderr: res.Stderr}
		}
		return "", err
	}

	head, err := g.runner.Run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(head.Stdout), nil
}

func (g *GitRepository) hasCommitHooks(ctx context.Context) bool {
	res, err := g.runner.Run(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return false
	}
	dir := strings.TrimSpace(res.Stdout)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(g.root, dir)
	}
	for _, hook := range []string{"pre-commit", "commit-msg"} {
		info, err := os.Stat(filepath.Join(dir, hook))
		if err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0 {
			return true
		}
	}
	return false
}

// ==================== Status ====================

// ListMergedBranches returns the raw lines of `git branch --merged`.
func (g *GitRepository) ListMergedBranches(ctx context.Context) ([]string, error) {
	res, err := g.runner.Run(ctx, "branch", "--merged")
	if err != nil {
		return nil, err
	}
	return splitLines(res.Stdout), nil
}

// DiffAgainstIndex lists working tree changes not yet staged.
func (g *GitRepository) DiffAgainstIndex(ctx context.Context) ([]models.FileChange, error) {
	res, err := g.runner.Run(ctx, "diff", "--name-status", "-z", "--no-renames")
	if err != nil {
		return nil, err
	}
	return parseNameStatusZ(res.Stdout), nil
}

// DiffAgainstHead lists changes staged relative to HEAD.
func (g *GitRepository) DiffAgainstHead(ctx context.Context) ([]models.FileChange, error) {
	res, err := g.runner.Run(ctx, "diff", "--cached", "--name-status", "-z", "--no-renames")
	if err != nil {
		return nil, err
	}
	return parseNameStatusZ(res.Stdout), nil
}

// UntrackedFiles lists files git does not know about, honoring ignore rules.
func (g *GitRepository) UntrackedFiles(ctx context.Context) ([]models.UntrackedFile, error) {
	res, err := g.runner.Run(ctx, "ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, err
	}

	var files []models.UntrackedFile
	for _, path := range splitZ(res.Stdout) {
		f := models.UntrackedFile{Path: path}
		if info, err := os.Stat(filepath.Join(g.root, path)); err == nil {
			f.ModTime = info.ModTime()
		}
		files = append(files, f)
	}
	return files, nil
}
