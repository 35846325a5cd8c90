// ABOUTME: Visualization CLI commands
// ABOUTME: Renders the pipeline graph as DOT, SVG, or PNG
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/viz"
	"github.com/spf13/cobra"
)

var graphFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
}

func newVizCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Generate visualizations",
	}
	cmd.AddCommand(newVizPipelineCommand(app))
	return cmd
}

func newVizPipelineCommand(app *App) *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Generate a GraphViz graph of the pipeline",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			gvFormat, ok := graphFormats[strings.ToLower(format)]
			if !ok {
				return fmt.Errorf("unknown format %q (want dot, svg, or png)", format)
			}
			ctx := cmd.Context()
			snap, err := rt.Service.Snapshot(ctx)
			if err != nil {
				return err
			}
			board, err := pipeline.Summarize(snap.Deals)
			if err != nil {
				return err
			}
			names := crm.ContactNames(snap.Contacts)

			if output == "" {
				if gvFormat != graphviz.XDOT {
					return fmt.Errorf("--output is required for %s", format)
				}
				return viz.RenderPipeline(ctx, board, names, gvFormat, out(cmd))
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := viz.RenderPipeline(ctx, board, names, gvFormat, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Pipeline graph written to %s\n", output)
			return nil
		}),
	}
	cmd.Flags().StringVar(&output, "output", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "dot", "Output format: dot, svg, png")
	return cmd
}
