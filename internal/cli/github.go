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

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Manage GitHub API credentials",
	Long: `Store, test and forget the GitHub API token used to look up issue titles
and pull requests. GG_GITHUB_TOKEN overrides the stored token.`,
}

var githubTokenCmd = &cobra.Command{
	Use:   "token [TOKEN]",
	Short: "Verify and store a GitHub API token",
	Long: `Verify a personal API token against GitHub and store it.
Without an argument the token is read without echo.

Examples:
  gg github token
  gg github token ghp_xxxxxxxxxxxx`,
	Args: cobra.MaximumNArgs(1),
	Run:  runGitHubToken,
}

var githubBurnCmd = &cobra.Command{
	Use:   "burn",
	Short: "Remove and forget your GitHub credentials",
	Args:  cobra.NoArgs,
	Run:   runGitHubBurn,
}

var githubTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test your saved GitHub API token",
	Long: `Query the authenticated user with the saved token, or fetch one issue.

Examples:
  gg github test
  gg github test -i https://github.com/mozilla/gg/issues/7`,
	Args: cobra.NoArgs,
	Run:  runGitHubTest,
}

var (
	githubURL      string
	githubIssueURL string
)

func init() {
	githubCmd.PersistentFlags().StringVarP(&githubURL, "github-url", "u", "", "URL to the GitHub API (default "+tracker.DefaultGitHubAPIURL+")")
	githubTestCmd.Flags().StringVarP(&githubIssueURL, "issue-url", "i", "", "Optionally test fetching a specific issue")

	githubCmd.AddCommand(githubTokenCmd)
	githubCmd.AddCommand(githubBurnCmd)
	githubCmd.AddCommand(githubTestCmd)
}

func runGitHubToken(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	token := ""
	if len(args) == 1 {
		token = args[0]
	} else {
		fmt.Print(`To generate a personal API token, go to:

	https://github.com/settings/tokens

Remember to enable "repo" in the scopes.

`)
		var err error
		token, err = prompt.NewTerminal().Secret("GitHub API Token")
		if err != nil {
			fail(err)
		}
	}
	if token == "" {
		exitError("token cannot be empty")
	}

	apiURL := githubURL
	if apiURL == "" {
		apiURL = c.Config.GitHubAPIURL
	}
	gh, _ := c.gitHub(apiURL, token)
	user, err := core.LoginGitHub(cmd.Context(), c.Store, gh, apiURL, token)
	if err != nil {
		exitError("Failed - %v", err)
	}

	color.New(color.FgGreen).Printf("Hi! %s\n", user.DisplayName())
}

func runGitHubBurn(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if !c.Store.ForgetGitHubCredentials() {
		exitError("No stored GitHub credentials")
	}
	color.New(color.FgGreen).Println("Forgotten")
}

func runGitHubTest(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	creds, err := c.Store.GitHubCredentials()
	if err != nil {
		exitError("%v", err)
	}
	if creds == nil {
		exitError("No credentials saved. Run: gg github token")
	}
	c.Logger.Debug("testing GitHub credentials", "url", creds.GitHubURL)

	gh, _ := c.gitHub(githubURL, "")
	green := color.New(color.FgGreen)

	if githubIssueURL != "" {
		org, repo, number, ok := core.ParseGitHubIssueURL(githubIssueURL)
		if !ok {
			exitError("%q is not a GitHub issue URL", githubIssueURL)
		}
		issue, err := gh.FetchTitle(cmd.Context(), org, repo, number)
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

	user, err := gh.CurrentUser(cmd.Context())
	if err != nil {
		exitError("Failed to query - %v", err)
	}
	out, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		exitError("%v", err)
	}
	green.Println(string(out))
}
