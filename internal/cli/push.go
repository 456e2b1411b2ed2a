package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the topic branch to your fork",
	Long: `Push the active branch to the fork remote (or to origin when the
repository's push_to_origin setting is on).

If the push is rejected you are offered one retry with --force.

Examples:
  gg push
  gg push --force`,
	Args: cobra.NoArgs,
	Run:  runPush,
}

var pushForce bool

func init() {
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "Force push straight away")
}

func runPush(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	outcome, err := core.Push(cmd.Context(), c.Env, core.PushOptions{Force: pushForce})
	if err != nil {
		fail(err)
	}

	printPushOutcome(outcome)
}

func printPushOutcome(o *core.PushOutcome) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	line := fmt.Sprintf("%s -> %s/%s (%s)", o.Branch, o.Remote, o.Branch, o.Result.Classification())
	if o.Retried {
		yellow.Println("Force pushed after the first push was rejected")
	}
	if o.Result.UpToDate {
		fmt.Println(line)
	} else {
		green.Println(line)
	}
	if summary := strings.TrimSpace(o.Result.Summary); summary != "" {
		fmt.Printf("  %s\n", summary)
	}
}

// firstLine returns the headline of a commit message.
func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}
