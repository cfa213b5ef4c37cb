package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/healthlog-app/healthlog/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Healthlog MCP server (stdio)",
	Long: `Start a Model Context Protocol (MCP) server that exposes the health
logs as MCP tools via STDIO: an assistant can read recent entries as
context, record new diary or pain entries, and manage the tag catalogs.

The --db flag is optional. If not provided, a system-specific default location will be used:
- Windows: %USERPROFILE%\AppData\Roaming\healthlog\healthlog.db
- macOS: ~/Library/Application Support/healthlog/healthlog.db
- Linux: ~/.local/share/healthlog/healthlog.db

Example:
  healthlog mcp
  healthlog mcp --db healthlog.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.NewHealthlogMCPServer(dbPath)
		if err != nil {
			return err
		}
		defer srv.Close()

		srv.RegisterAllTools()

		// Log to stderr so we don't contaminate the JSON-RPC stream on stdout.
		fmt.Fprintf(os.Stderr, "Healthlog MCP server started. DB: %s\n", srv.DbPath)
		fmt.Fprintln(os.Stderr, "Available tools: ping, build_context, log_diary_entry, log_pain_entry, list_tag_options, add_tag_option, delete_tag_option, rename_tag_option, dataset_stats")
		fmt.Fprintln(os.Stderr, "Listening for MCP JSON-RPC on STDIN/STDOUT ... (Ctrl+C to quit)")

		// Run the server (blocks until stdio closes).
		return srv.Start()
	},
}
