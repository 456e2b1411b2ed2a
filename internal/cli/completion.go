package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kilupskalvis/gg/internal/vcs"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Generate shell completion script",
	Long: `Print a completion script for gg. Besides commands and flags it completes
local branch names for "gg branches" and remote names for "gg config".

Load it for the current session:
  source <(gg completion bash)
  source <(gg completion zsh)
  gg completion fish | source
  gg completion powershell | Out-String | Invoke-Expression

To load it in every session, write it where your shell picks it up, e.g.
  gg completion fish > ~/.config/fish/completions/gg.fish`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE:                  runCompletion,
}

var completionNoDesc bool

func init() {
	completionCmd.Flags().BoolVar(&completionNoDesc, "no-descriptions", false, "Leave command and flag descriptions out of completions")
}

func runCompletion(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()
	withDesc := !completionNoDesc

	switch args[0] {
	case "bash":
		return root.GenBashCompletionV2(out, withDesc)
	case "zsh":
		if withDesc {
			return root.GenZshCompletion(out)
		}
		return root.GenZshCompletionNoDesc(out)
	case "fish":
		return root.GenFishCompletion(out, withDesc)
	case "powershell":
		if withDesc {
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return root.GenPowerShellCompletion(out)
	}
	return fmt.Errorf("unsupported shell %q", args[0])
}

// completionRepo opens the repository in the working directory for a
// completion request. Completions run on every keystroke, so nothing is
// logged and the state file is left alone.
func completionRepo() (*vcs.GitRepository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return vcs.Open(cwd, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func completeLocalBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	repo, err := completionRepo()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	heads, err := repo.ListLocalBranches(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, head := range heads {
		if strings.HasPrefix(head.Name, toComplete) {
			names = append(names, head.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completeRemotes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	repo, err := completionRepo()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	remotes, err := repo.ListRemotes(completionContext(cmd))
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, remote := range remotes {
		if strings.HasPrefix(remote.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%s", remote.Name, remote.URL))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func completionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
