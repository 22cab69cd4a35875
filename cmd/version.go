package cmd

import (
	"runtime"
	"strings"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcnksm/go-latest"
)

// releaseTag points at the GitHub repository that publishes bundlescope releases.
var releaseTag = &latest.GithubTag{
	Owner:      "huangsam",
	Repository: "bundlescope",
}

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bundlescope.",
	Long: `Display version information including build details.

Shows:
- Release version
- Git commit hash
- Build timestamp
- Go runtime version

Pass --check to compare against the latest GitHub release.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("bundlescope CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())

		if !viper.GetBool("check") {
			return
		}
		res, err := latest.Check(releaseTag, strings.TrimPrefix(version, "v"))
		if err != nil {
			contract.LogWarn("Could not check for a newer release", err)
			return
		}
		if res.Outdated {
			cmd.Printf("\nA new version is available: %s (you have %s)\n", res.Current, version)
		} else {
			cmd.Printf("\nYou are running the latest release.\n")
		}
	},
}
