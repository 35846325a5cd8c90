// ABOUTME: Board and dashboard subcommands
// ABOUTME: Opens the interactive board on a terminal and prints plain text otherwise
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/pipeline"
	"github.com/harperreed/crmboard/tui"
	"github.com/harperreed/crmboard/viz"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newBoardCommand(app *App) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the pipeline board (interactive on a terminal)",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			if !plain && isTerminal(cmd.OutOrStdout()) {
				return tui.Run(cmd.Context(), rt.Service, rt.Config.Window, rt.Config.RefreshInterval)
			}

			snap, err := rt.Service.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			board, err := pipeline.Summarize(snap.Deals)
			if err != nil {
				return err
			}
			return renderBoardText(out(cmd), board, crm.ContactNames(snap.Contacts))
		}),
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the board as text even on a terminal")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderBoardText(w io.Writer, board []pipeline.Column, names map[int64]string) error {
	value := pipeline.Totals{}
	for _, col := range board {
		fmt.Fprintf(w, "%s (%d, %s)\n", col.Stage, col.Count, viz.FormatMoney(col.TotalValue))
		if len(col.Deals) == 0 {
			fmt.Fprintln(w, "  -")
		}
		for _, d := range col.Deals {
			fmt.Fprintf(w, "  #%d %s  %s  %s\n", d.ID, d.Title, viz.FormatMoney(d.Value), names[d.ContactID])
		}
		value.Count += col.Count
		value.TotalValue = value.TotalValue.Add(col.TotalValue)
	}
	_, err := fmt.Fprintf(w, "\nPipeline: %d deals worth %s\n", value.Count, viz.FormatMoney(value.TotalValue))
	return err
}

func newDashboardCommand(app *App) *cobra.Command {
	var window string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print dashboard figures for a date window",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			w := rt.Config.Window
			if window != "" {
				parsed, err := analytics.ParseWindow(window)
				if err != nil {
					return err
				}
				w = parsed
			}

			d, err := rt.Service.Dashboard(cmd.Context(), w)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(out(cmd))
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}

			board, err := rt.Service.Board(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out(cmd), viz.RenderDashboard(d, board))
			return err
		}),
	}
	cmd.Flags().StringVar(&window, "range", "", "Date window: thisMonth, lastMonth, quarter, year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}
