// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for adding, listing, moving, and deleting deals
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/fixtures"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/viz"
	"github.com/spf13/cobra"
)

func newDealCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Manage deals",
	}
	cmd.AddCommand(newDealAddCommand(app), newDealListCommand(app), newDealMoveCommand(app), newDealDeleteCommand(app))
	return cmd
}

func newDealAddCommand(app *App) *cobra.Command {
	var (
		title, value, contact, stage, closeDate, rep, description string
		probability                                               int
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new deal",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if contact == "" {
				return fmt.Errorf("--contact is required")
			}
			ctx := cmd.Context()

			amount, err := parseMoney(value)
			if err != nil {
				return err
			}
			c, err := rt.Service.FindContact(ctx, contact)
			if err != nil {
				return err
			}

			deal := models.Deal{
				Title:       title,
				Value:       amount,
				Stage:       models.Stage(stage),
				ContactID:   c.ID,
				Probability: probability,
				SalesRep:    rep,
				Description: description,
			}
			if closeDate != "" {
				t, err := fixtures.ParseTime(closeDate, rt.Service.Now())
				if err != nil {
					return err
				}
				deal.ExpectedCloseDate = &t
			}

			created, err := rt.Service.CreateDeal(ctx, deal)
			if err != nil {
				return err
			}

			w := out(cmd)
			fmt.Fprintf(w, "✓ Deal created: %s (ID: %d)\n", created.Title, created.ID)
			fmt.Fprintf(w, "  Contact: %s\n", c.Name)
			fmt.Fprintf(w, "  Value: %s\n", viz.FormatMoney(created.Value))
			fmt.Fprintf(w, "  Stage: %s\n", created.Stage)
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Deal title (required)")
	cmd.Flags().StringVar(&value, "value", "", "Deal value, e.g. 12500.00")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact ID, name, or email (required)")
	cmd.Flags().StringVar(&stage, "stage", "", "Stage (default Prospecting)")
	cmd.Flags().StringVar(&closeDate, "close", "", "Expected close date (YYYY-MM-DD or +30d)")
	cmd.Flags().IntVar(&probability, "probability", 0, "Win probability 0-100")
	cmd.Flags().StringVar(&rep, "rep", "", "Sales rep id, e.g. jane_smith")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	return cmd
}

func newDealListCommand(app *App) *cobra.Command {
	var query, stage string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deals",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			ctx := cmd.Context()
			snap, err := rt.Service.Snapshot(ctx)
			if err != nil {
				return err
			}
			names := crm.ContactNames(snap.Contacts)
			deals := crm.FilterDeals(snap.Deals, names, query)

			var want models.Stage
			if stage != "" {
				if want, err = models.ParseStage(stage); err != nil {
					return err
				}
			}

			w := newTable(out(cmd))
			fmt.Fprintln(w, "ID\tTITLE\tSTAGE\tVALUE\tCONTACT\tCLOSE")
			shown := 0
			for _, d := range deals {
				if want != "" && d.Stage != want {
					continue
				}
				closeDate := "-"
				if d.ExpectedCloseDate != nil {
					closeDate = formatDate(*d.ExpectedCloseDate)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", d.ID, d.Title, d.Stage, viz.FormatMoney(d.Value), names[d.ContactID], closeDate)
				shown++
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				fmt.Fprintln(out(cmd), "No deals found")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search title or contact name")
	cmd.Flags().StringVar(&stage, "stage", "", "Only deals in this stage")
	return cmd
}

func newDealMoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <stage>",
		Short: "Move a deal to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			deal, err := rt.Service.MoveDeal(cmd.Context(), id, models.Stage(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Deal %d is now in %s\n", deal.ID, deal.Stage)
			return nil
		}),
	}
}

func newDealDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deal",
		Args:  cobra.ExactArgs(1),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.Service.DeleteDeal(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Deal %d deleted\n", id)
			return nil
		}),
	}
}
