// Command gg is a topic-branch workflow helper for git, GitHub and Bugzilla.
package main

import (
	"os"

	"github.com/kilupskalvis/gg/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
