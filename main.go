// ABOUTME: Entry point for the crmboard CLI, web server, TUI, and MCP server
// ABOUTME: Builds the cobra command tree and exits non-zero on error
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/crmboard/cli"
)

const version = "0.2.0"

func main() {
	rootCmd := cli.NewRootCommand(version)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
