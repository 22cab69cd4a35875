package cmd

import (
	"github.com/huangsam/bundlescope/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Bundlescope MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents analyze bundles via standard tools.

Tools: analyze_bundle, list_modules, list_packages, find_duplicates, suggest.
Logs go to stderr so stdout stays reserved for the protocol.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
