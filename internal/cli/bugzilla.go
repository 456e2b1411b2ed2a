package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/gg/internal/core"
	"github.com/kilupskalvis/gg/internal/prompt"
	"github.com/kilupskalvis/gg/internal/tracker"
	"github.com/spf13/cobra"
)

var bugzillaCmd = &cobra.Command{
	Use:   "bugzilla",
	Short: "Manage Bugzilla API credentials",
	Long: `Store, test and forget the Bugzilla API key. Once signed in, bug summaries
are fetched with your key, so private bugs work too. GG_BUGZILLA_API_KEY
overrides the stored key.`,
}

var bugzillaLoginCmd = &cobra.Command{
	Use:   "login [API_KEY]",
	Short: "Verify and store your Bugzilla API key",
	Args:  cobra.MaximumNArgs(1),
	Run:   runBugzillaLogin,
}

var bugzillaLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove and forget your Bugzilla credentials",
	Args:  cobra.NoArgs,
	Run:   runBugzillaLogout,
}

var bugzillaTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test your saved Bugzilla API key",
	Long: `Ask Bugzilla who the saved key belongs to, or fetch one bug.

Examples:
  gg bugzilla test
  gg bugzilla test -b 1234567`,
	Args: cobra.NoArgs,
	Run:  runBugzillaTest,
}

var (
	bugzillaURL       string
	bugzillaBugNumber int
)

func init() {
	bugzillaCmd.PersistentFlags().StringVarP(&bugzillaURL, "bugzilla-url", "u", "", "URL to the Bugzilla instance (default from config)")
	bugzillaTestCmd.Flags().IntVarP(&bugzillaBugNumber, "bugnumber", "b", 0, "Optionally test fetching a specific bug")

	bugzillaCmd.AddCommand(bugzillaLoginCmd)
	bugzillaCmd.AddCommand(bugzillaLogoutCmd)
	bugzillaCmd.AddCommand(bugzillaTestCmd)
}

func runBugzillaLogin(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	baseURL := bugzillaURL
	if baseURL == "" {
		baseURL = c.Config.BugzillaURL
	}

	apiKey := ""
	if len(args) == 1 {
		apiKey = args[0]
	} else {
		fmt.Printf("If you don't have an API Key, go to:\n%s/userprefs.cgi?tab=apikey\n\n", baseURL)
		var err error
		apiKey, err = prompt.NewTerminal().Secret("API Key")
		if err != nil {
			fail(err)
		}
	}
	if apiKey == "" {
		exitError("API key cannot be empty")
	}

	bz := c.bugzilla(baseURL, apiKey)
	if _, err := core.LoginBugzilla(cmd.Context(), c.Store, bz, baseURL, apiKey); err != nil {
		exitError("Failed - %v", err)
	}

	color.New(color.FgGreen).Println("Yay! It worked!")
}

func runBugzillaLogout(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if !c.Store.ForgetBugzillaCredentials() {
		exitError("No stored Bugzilla credentials")
	}
	color.New(color.FgGreen).Println("Forgotten")
}

func runBugzillaTest(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	creds, err := c.Store.BugzillaCredentials()
	if err != nil {
		exitError("%v", err)
	}
	if creds == nil {
		exitError("No API Key saved. Run: gg bugzilla login")
	}
	c.Logger.Debug("testing Bugzilla credentials", "url", creds.BugzillaURL)

	bz := c.bugzilla(bugzillaURL, "")
	green := color.New(color.FgGreen)

	if bugzillaBugNumber > 0 {
		issue, err := bz.FetchSummary(cmd.Context(), bugzillaBugNumber)
		if errors.Is(err, tracker.ErrNotFound) {
			exitError("Unable to fetch")
		}
		if err != nil {
			exitError("Unable to fetch - %v", err)
		}
		fmt.Println("It worked!")
		green.Println(issue.Summary)
		return
	}

	user, err := bz.WhoAmI(cmd.Context())
	if err != nil {
		exitError("Failed to query - %v", err)
	}
	out, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		exitError("%v", err)
	}
	green.Println(string(out))
}
