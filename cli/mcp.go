// ABOUTME: MCP server subcommand
// ABOUTME: Starts the MCP server on stdio for desktop assistant integration
package cli

import (
	"github.com/harperreed/crmboard/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMCPCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			rt.Logger.Info("starting MCP server", zap.String("driver", rt.Config.StoreDriver), zap.String("path", rt.Config.StorePath))
			server := handlers.NewServer(rt.Service, app.version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		}),
	}
}
