package cli

import (
	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var getbackCmd = &cobra.Command{
	Use:   "getback",
	Short: "Delete the topic branch and go back to the default branch",
	Long: `Check out and update the default branch, then delete the branch you were
on, locally and on your fork.

A branch that is not merged into the default branch is only deleted after
you confirm, unless --force is given.`,
	Args: cobra.NoArgs,
	Run:  runGetback,
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <search>",
	Short: "Delete a finished branch",
	Long: `Delete one local branch matching <search>, locally and on your fork.

The search is a case-insensitive substring of the branch name, or
remote:branch to match a branch on that remote. It must match exactly one
branch, which must not be checked out.

Examples:
  gg cleanup 1234567
  gg cleanup --force old-experiment`,
	Args: cobra.ExactArgs(1),
	Run:  runCleanup,
}

var (
	getbackForce bool
	cleanupForce bool
)

func init() {
	getbackCmd.Flags().BoolVarP(&getbackForce, "force", "f", false, "Delete the branch even if it is not merged")
	cleanupCmd.Flags().BoolVarP(&cleanupForce, "force", "f", false, "Delete the branch even if it is not merged")
}

func runGetback(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.Getback(cmd.Context(), c.Env, core.CleanupOptions{Force: getbackForce})
	if err != nil {
		fail(err)
	}

	printCleanupResult(result)
}

func runCleanup(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.Cleanup(cmd.Context(), c.Env, core.CleanupOptions{Search: args[0], Force: cleanupForce})
	if err != nil {
		fail(err)
	}

	printCleanupResult(result)
}

func printCleanupResult(r *core.CleanupResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if r.WasMerged {
		green.Printf("Deleted branch %s (merged into %s)\n", r.Branch, r.DefaultBranch)
	} else {
		yellow.Printf("Deleted branch %s (not merged into %s)\n", r.Branch, r.DefaultBranch)
	}
	if r.RemoteDeleted {
		green.Printf("Deleted %s/%s\n", r.RemoteName, r.Branch)
	}
	if r.Warning != nil {
		yellow.Printf("warning: %v\n", r.Warning)
	}
}
