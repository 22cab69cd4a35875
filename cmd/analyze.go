package cmd

import (
	"github.com/huangsam/bundlescope/core"
	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd prints the full bundle report.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <bundle>",
	Short: "Show the full size report for a Metro bundle.",
	Long: `Split a Metro bundle into modules and attribute every byte to its owner.

The report covers:
- Bundle totals split into first-party, third-party and platform-runtime bytes
- Packages ranked by size with their share of the bundle
- Packages installed at more than one location and the bytes they waste
- Prioritized suggestions for shrinking the bundle

Pass --map when the bundle was built without module paths, and --manifest so
declared dependencies can be compared against what actually shipped.

Examples:
  # Analyze a release bundle
  bundlescope analyze build/index.android.bundle

  # Use the position map and the app manifest
  bundlescope analyze main.jsbundle --map main.jsbundle.map.json --manifest package.json

  # Export the report as JSON
  bundlescope analyze main.jsbundle --output json --output-file report.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot analyze bundle", err)
		}
	},
}

// modulesCmd lists the largest modules.
var modulesCmd = &cobra.Command{
	Use:   "modules <bundle>",
	Short: "List the largest modules in a bundle.",
	Long: `List modules ranked by size with their id, source path and category.

Examples:
  # Top 50 modules
  bundlescope modules main.jsbundle --limit 50

  # Only third-party modules under node_modules/lodash
  bundlescope modules main.jsbundle --category third-party --filter node_modules/lodash`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteModules(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list modules", err)
		}
	},
}

// packagesCmd lists package aggregates.
var packagesCmd = &cobra.Command{
	Use:   "packages <bundle>",
	Short: "List npm packages ranked by their bundled size.",
	Long: `Roll modules up into npm packages and rank them by size.

Each row shows the package size, its share of the bundle, how many modules it
contributes and the installed version when the manifest and node_modules are available.

Examples:
  # Packages holding at least 5% of the bundle
  bundlescope packages main.jsbundle --min-share 5

  # Write a spreadsheet
  bundlescope packages main.jsbundle --output xlsx --output-file packages.xlsx`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePackages(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list packages", err)
		}
	},
}

// duplicatesCmd lists packages bundled from more than one install location.
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <bundle>",
	Short: "Find packages bundled from more than one install location.",
	Long: `Find packages that appear under more than one node_modules directory.

The estimated waste assumes every copy but one could be deduplicated.

Examples:
  bundlescope duplicates main.jsbundle
  bundlescope duplicates main.jsbundle --output csv --output-file duplicates.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDuplicates(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot find duplicates", err)
		}
	},
}

// suggestCmd prints prioritized suggestions.
var suggestCmd = &cobra.Command{
	Use:   "suggest <bundle>",
	Short: "Suggest ways to shrink a bundle.",
	Long: `Run the suggestion rules over a bundle and print the findings by priority.

Rules cover heavy packages with lighter alternatives, duplicated packages,
oversized packages, third-party share, unused dependencies and bundles that
could only be split by size.

Examples:
  bundlescope suggest main.jsbundle --manifest package.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSuggest(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build suggestions", err)
		}
	},
}
