package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vademecum/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about the corpus and search its passages.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  vademecum mcp serve

  # HTTP mode
  vademecum mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "vademecum": {
        "command": "/path/to/vademecum",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if assistantService == nil {
		return unavailable("assistant service")
	}

	server, err := mcp.NewServer(mcpPorts())
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}

func mcpPorts() *mcp.Ports {
	ports := &mcp.Ports{
		Assistant: assistantService,
		Search:    searchService,
		Ingest:    ingestService,
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			ports.CorpusName = settings.Assistant.CorpusName
		}
	}
	return ports
}
