package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or set global settings",
	Long: `Show or set the settings shared by every repository.

Without flags, prints the current values.

Examples:
  gg config                  Show settings
  gg config -f peterbe       Push topic branches to the 'peterbe' remote
  gg config -o upstream      The origin remote is called 'upstream'
  gg config -b develop       The default branch is 'develop'`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

var localConfigCmd = &cobra.Command{
	Use:   "local-config",
	Short: "Show or set settings for this repository",
	Long: `Set settings that only apply to the repository in the working directory.

Examples:
  gg local-config --push-to-origin true     Push topic branches to origin
  gg local-config --toggle-fixes-message    Stop or start asking about "fixes"`,
	Aliases: []string{"local_config"},
	Args:    cobra.NoArgs,
	Run:     runLocalConfig,
}

var (
	configForkName      string
	configOriginName    string
	configDefaultBranch string

	localPushToOrigin string
	localToggleFixes  bool
)

func init() {
	configCmd.Flags().StringVarP(&configForkName, "fork-name", "f", "", "Name of the remote which is the fork where you push your branches")
	configCmd.Flags().StringVarP(&configOriginName, "origin-name", "o", "", "Name of the remote which is the origin remote")
	configCmd.Flags().StringVarP(&configDefaultBranch, "default-branch", "b", "", "Name of the default branch")
	for _, flag := range []string{"fork-name", "origin-name"} {
		cobra.CheckErr(configCmd.RegisterFlagCompletionFunc(flag, completeRemotes))
	}

	localConfigCmd.Flags().StringVar(&localPushToOrigin, "push-to-origin", "", "Push to the origin instead of your fork (true or false)")
	localConfigCmd.Flags().BoolVar(&localToggleFixes, "toggle-fixes-message", false, "Enable or disable the 'fixes' question in commits")
}

func runConfig(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	before, err := core.ReadGlobalSettings(c.Store)
	if err != nil {
		exitError("%v", err)
	}

	changes := core.GlobalSettings{
		ForkName:      configForkName,
		OriginName:    configOriginName,
		DefaultBranch: configDefaultBranch,
	}
	if _, err := core.UpdateGlobalSettings(c.Store, changes); err != nil {
		exitError("%v", err)
	}

	printSetting("fork-name", changes.ForkName, before.ForkName)
	printSetting("origin-name", changes.OriginName, before.OriginName)
	printSetting("default-branch", changes.DefaultBranch, before.DefaultBranch)
}

func printSetting(name, changed, current string) {
	if changed != "" {
		color.New(color.FgGreen).Printf("%s set to: %s\n", name, changed)
		return
	}
	if current == "" {
		current = "*not set*"
	}
	fmt.Printf("%s: %s\n", name, current)
}

func runLocalConfig(cmd *cobra.Command, args []string) {
	c := initRepoContext(false)
	defer c.Close()

	repoName := c.Env.Repo.Name()
	if localPushToOrigin == "" && !localToggleFixes {
		settings, err := c.Env.Settings()
		if err != nil {
			exitError("%v", err)
		}
		fmt.Printf("push_to_origin: %t\n", settings.PushToOrigin)
		fmt.Printf("fixes_message: %t\n", settings.FixesMessageEnabled)
		return
	}

	if localPushToOrigin != "" {
		value, err := strconv.ParseBool(localPushToOrigin)
		if err != nil {
			exitError("--push-to-origin must be true or false, not %q", localPushToOrigin)
		}
		change, err := core.SetPushToOrigin(c.Store, repoName, value)
		if err != nil {
			exitError("%v", err)
		}
		printLocalChange(change)
	}

	if localToggleFixes {
		change, err := core.ToggleFixesMessage(c.Store, repoName)
		if err != nil {
			exitError("%v", err)
		}
		printLocalChange(change)
	}
}

func printLocalChange(change core.LocalSettingChange) {
	fmt.Printf("%s before: %t\n", change.Name, change.Before)
	color.New(color.FgGreen).Printf("%s after: %t\n", change.Name, change.After)
}
