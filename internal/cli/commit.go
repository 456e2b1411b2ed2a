package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit all changes on the topic branch",
	Long: `Commit every added, modified and deleted file on the active branch.

The commit message is built from the branch's description and linked issue,
and can be overridden at the prompt. Afterwards gg offers to push the branch
to your fork and shows the pull request, or the link to open one.

Examples:
  gg commit
  gg commit --no-verify     Skip pre-commit and commit-msg hooks
  gg commit --yes           Accept every default`,
	Args: cobra.NoArgs,
	Run:  runCommit,
}

var (
	commitNoVerify bool
	commitYes      bool
)

func init() {
	commitCmd.Flags().BoolVarP(&commitNoVerify, "no-verify", "n", false, "Bypass pre-commit and commit-msg hooks")
	commitCmd.Flags().BoolVarP(&commitYes, "yes", "y", false, "Assume yes to all questions")
}

func runCommit(cmd *cobra.Command, args []string) {
	c := initRepoContext(commitYes)
	defer c.Close()

	result, err := core.Commit(cmd.Context(), c.Env, core.CommitOptions{NoVerify: commitNoVerify})
	if err != nil {
		fail(err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if result.CommitID != "" {
		green.Printf("Commit created %s\n", shortID(result.CommitID))
		fmt.Printf("  %s\n", firstLine(result.Message))
	}
	if result.Push != nil {
		printPushOutcome(result.Push)
	}
	if result.PushRejected != nil {
		yellow.Printf("Not pushed: %v\n", result.PushRejected)
	}

	if result.PullRequest != nil {
		fmt.Println("Pull Request:")
		fmt.Println()
		fmt.Printf("\t%s\n", result.PullRequest.URL)
		fmt.Println()
	} else if result.CompareURL != "" {
		fmt.Println("If you want to make a pull request, go to:")
		fmt.Println()
		fmt.Printf("\t%s\n", result.CompareURL)
		fmt.Println()
	}

	for _, note := range result.Notes {
		yellow.Println(note)
	}
}
