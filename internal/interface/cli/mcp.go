package cli

import (
	"fmt"

	"github.com/neilberkman/ccscope/cmd/ccscope/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server exposing the explorer queries",
	Long: `Start an MCP (Model Context Protocol) server on stdio so an assistant
can list projects, sessions, correlated data and activity.

Configure in Claude Desktop's config file (~/.config/claude/config.json):
  {
    "mcpServers": {
      "ccscope": {
        "command": "ccscope",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	version := versionInfo
	if version == "" {
		version = "dev"
	}
	if err := mcp.StartServer(a.explorer, version); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
