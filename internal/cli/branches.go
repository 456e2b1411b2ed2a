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

var branchesCmd = &cobra.Command{
	Use:   "branches [search]",
	Short: "List branches, and offer to check out a single match",
	Long: `List local branches matching the optional search, oldest first, marking
those already merged into the checked-out branch.

If exactly one branch matches, gg offers to check it out. A remote:branch
search fetches that remote when no local branch matches and checks the
remote branch out as a new tracking branch.

Examples:
  gg branches
  gg branches 1234567
  gg branches peterbe:fix-flaky-test`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeLocalBranches,
	Run:               runBranches,
}

var branchesYes bool

func init() {
	branchesCmd.Flags().BoolVarP(&branchesYes, "yes", "y", false, "Check out a single match without asking")
}

func runBranches(cmd *cobra.Command, args []string) {
	c := initRepoContext(branchesYes)
	defer c.Close()

	search := ""
	if len(args) == 1 {
		search = args[0]
	}

	listings, err := core.ListBranches(cmd.Context(), c.Env, search)
	if err != nil {
		fail(err)
	}
	if len(listings) == 0 {
		if search != "" {
			exitError("Found no branches matching '%s'.", search)
		}
		exitError("Found no branches.")
	}

	fmt.Println("Found existing branches...")
	printBranchListings(listings, time.Now())

	if len(listings) != 1 {
		return
	}
	ok, err := core.OfferCheckout(cmd.Context(), c.Env, listings[0])
	if err != nil {
		fail(err)
	}
	if ok {
		green := color.New(color.FgGreen)
		green.Printf("Switched to branch '%s'\n", listings[0].Ref.Name)
	}
}

func printBranchListings(listings []core.BranchListing, now time.Time) {
	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	for _, l := range listings {
		fmt.Println(strings.Repeat("-", 80))

		name := l.Ref.DisplayName()
		if l.Active {
			name = "* " + name
		}
		if l.Merged {
			name += " (MERGED ALREADY)"
		}
		green.Println(name)

		if l.Record != nil && l.Record.Description != "" {
			fmt.Printf("\t%s\n", l.Record.Description)
			if l.Record.IssueURL != "" {
				faint.Printf("\t%s\n", l.Record.IssueURL)
			}
		}
		if l.Ref.Head != nil && !l.Ref.Head.LastUpdated.IsZero() {
			updated := l.Ref.Head.LastUpdated
			fmt.Printf("\t%s\n", updated.UTC().Format(time.RFC3339))
			fmt.Printf("\t%s\n", humanize.RelTime(updated, now, "ago", "from now"))
		}
		fmt.Printf("\t%s\n", core.CommitSummary(l.Ref))
		fmt.Println()
	}
}
