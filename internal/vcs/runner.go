package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// Result is the captured output of one git invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes git subcommands in a working tree.
type Runner struct {
	Dir    string
	Logger *slog.Logger
}

// Run executes git with args. A nonzero exit returns a *GitError together with
// the captured Result, since some commands report useful output when failing.
func (r *Runner) Run(ctx context.Context, args ...string) (Result, error) {
	if err := validateArgs(args); err != nil {
		return Result{Stderr: err.Error(), ExitCode: -1}, err
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger := r.logger()
	logger.Debug("git", "args", args, "dir", r.Dir)

	err := cmd.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}
	logger.Debug("git done", "args", args, "exit", result.ExitCode)

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("git %v failed: %w", args, err)
		}
		return result, &GitError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func validateArgs(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("git command is required")
	}
	if _, ok := allowedSubcommands[args[0]]; !ok {
		return fmt.Errorf("git subcommand %q is not allowed", args[0])
	}
	return nil
}

var allowedSubcommands = map[string]struct{}{
	"add":        {},
	"branch":     {},
	"checkout":   {},
	"commit":     {},
	"diff":       {},
	"fetch":      {},
	"ls-files":   {},
	"merge":      {},
	"merge-base": {},
	"pull":       {},
	"push":       {},
	"rebase":     {},
	"rev-parse":  {},
	"status":     {},
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	return exitErr.ExitCode()
}
