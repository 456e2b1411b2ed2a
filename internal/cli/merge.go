package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the topic branch into the default branch",
	Long: `Check out the default branch, pull it from origin, merge the active topic
branch into it and delete the topic branch.

The working tree must be clean. Afterwards gg offers to push the updated
default branch to origin.`,
	Args: cobra.NoArgs,
	Run:  runMerge,
}

var masterMergeCmd = &cobra.Command{
	Use:   "mastermerge",
	Short: "Merge the default branch into the topic branch",
	Long: `Pull the default branch from origin and merge it into the active topic
branch, which stays checked out. The working tree must be clean.`,
	Args: cobra.NoArgs,
	Run:  runMasterMerge,
}

var rebaseCmd = &cobra.Command{
	Use:   "rebase",
	Short: "Rebase the topic branch onto the default branch",
	Long: `Pull the default branch from origin and rebase the active topic branch
onto it. The working tree must be clean.`,
	Args: cobra.NoArgs,
	Run:  runRebase,
}

func runMerge(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.Merge(cmd.Context(), c.Env)
	if err != nil {
		fail(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Merged %s into %s\n", result.Branch, result.DefaultBranch)
	if result.Push != nil {
		fmt.Printf("Pushed %s to %s (%s)\n", result.DefaultBranch, result.Origin, result.Push.Classification())
	}
}

func runMasterMerge(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.MasterMerge(cmd.Context(), c.Env)
	if err != nil {
		fail(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Merged against %s/%s\n", result.Origin, result.DefaultBranch)
}

func runRebase(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	result, err := core.Rebase(cmd.Context(), c.Env)
	if err != nil {
		fail(err)
	}

	green := color.New(color.FgGreen)
	green.Printf("Rebased against %s/%s\n", result.Origin, result.DefaultBranch)
}
