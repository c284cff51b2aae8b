package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/diffscore/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the diffscore MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents score and rank documents
through the diff_score, compare_files and rank_candidates tools.

Flags and the config file set the defaults every tool call starts from.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		// stdout carries the protocol
		fmt.Fprintf(os.Stderr, "🚀 Starting MCP server (%s)\n", cfg)
		return mcp.StartMCPServer(rootCtx, cfg, loader)
	},
}
