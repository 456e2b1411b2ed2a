package vcs

import (
	"fmt"
	"strings"

	"github.com/kilupskalvis/gg/internal/config"
)

// ErrNotARepository is returned by Open outside a git working tree.
var ErrNotARepository = config.ErrNotARepository

// GitError provides context for git command failures
type GitError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *GitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = fmt.Sprintf("exit status %d", e.ExitCode)
	}
	return "git " + strings.Join(e.Args, " ") + ": " + msg
}

// HookRejectedError means a pre-commit or commit-msg hook refused the commit.
// The hook's own output is carried verbatim.
type HookRejectedError struct {
	Stdout string
	Stderr string
}

func (e *HookRejectedError) Error() string {
	return "commit rejected by hook"
}
