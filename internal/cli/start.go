package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start [issue-token]",
	Short: "Create a new topic branch",
	Long: `Create and check out a new branch named after a bug or issue.

The optional argument is a Bugzilla or GitHub issue URL, a bare number (looked
up on the GitHub repositories of your remotes and on Bugzilla) or free text.
You are asked for a description, pre-filled with the issue summary.

Examples:
  gg start https://bugzilla.mozilla.org/show_bug.cgi?id=1234567
  gg start https://github.com/mozilla/gg/issues/7
  gg start 7
  gg start "fix the flaky test"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStart,
}

func runStart(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	var opts core.StartOptions
	if len(args) == 1 {
		opts.IssueToken = args[0]
	}

	result, err := core.Start(cmd.Context(), c.Env, opts)
	if err != nil {
		fail(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Switched to a new branch '%s'\n", result.BranchName)
	if result.Issue.URL != "" {
		fmt.Printf("  %s\n", result.Issue.URL)
	}
}
