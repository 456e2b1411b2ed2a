package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var prCmd = &cobra.Command{
	Use:   "pr",
	Short: "Find the pull request for the topic branch",
	Long: `Look up the open GitHub pull request whose head is the active branch on
your fork, and show its URL, whether it is mergeable and when it was last
updated. Requires stored GitHub credentials (see: gg github token).`,
	Args: cobra.NoArgs,
	Run:  runPR,
}

func runPR(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.FindPullRequest(cmd.Context(), c.Env)
	if err != nil {
		fail(err)
	}

	pr := result.PullRequest
	if pr == nil {
		color.New(color.FgYellow).Printf("Sorry, can't find a PR (%s on %s/%s)\n", result.Head, result.Org, result.Repo)
		return
	}

	status := "(" + strings.ToUpper(pr.State) + ")"
	if pr.Draft {
		status = "(DRAFT)"
	}
	fmt.Println("Pull Request:")
	fmt.Println()
	fmt.Printf("\t%s   %s\n", pr.URL, status)
	fmt.Println()

	mergeable := "*not known*"
	if pr.Mergeable != nil {
		mergeable = fmt.Sprint(*pr.Mergeable)
		if pr.MergeableState != "" {
			mergeable += " (" + pr.MergeableState + ")"
		}
	}
	fmt.Println("Mergeable?", mergeable)
	if !pr.UpdatedAt.IsZero() {
		fmt.Printf("Updated %s (%s)\n", pr.UpdatedAt.Format(time.RFC3339), humanize.Time(pr.UpdatedAt))
	}
	fmt.Println()
}
