// ABOUTME: Lead CLI commands
// ABOUTME: Adds, lists, converts, and deletes leads
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/models"
	"github.com/spf13/cobra"
)

func newLeadCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Manage leads",
	}
	cmd.AddCommand(newLeadAddCommand(app), newLeadListCommand(app), newLeadConvertCommand(app), newLeadDeleteCommand(app))
	return cmd
}

func newLeadAddCommand(app *App) *cobra.Command {
	var lead models.Lead
	var source, status, priority string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new lead",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			lead.Source = models.LeadSource(source)
			lead.Status = models.LeadStatus(status)
			lead.Priority = models.Priority(priority)
			created, err := rt.Service.CreateLead(cmd.Context(), lead)
			if err != nil {
				return err
			}
			w := out(cmd)
			fmt.Fprintf(w, "✓ Lead created: %s (ID: %d)\n", created.Name, created.ID)
			fmt.Fprintf(w, "  Company: %s\n", created.Company)
			fmt.Fprintf(w, "  Source: %s, Status: %s, Priority: %s\n", created.Source, created.Status, created.Priority)
			return nil
		}),
	}
	cmd.Flags().StringVar(&lead.Name, "name", "", "Lead name (required)")
	cmd.Flags().StringVar(&lead.Company, "company", "", "Company (required)")
	cmd.Flags().StringVar(&lead.Email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&lead.Phone, "phone", "", "Phone (required)")
	cmd.Flags().StringVar(&source, "source", "", "Source: Website, Referral, Social Media, Cold Call, Trade Show")
	cmd.Flags().StringVar(&status, "status", "", "Status: New, Contacted, Qualified, Unqualified")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: High, Medium, Low")
	cmd.Flags().StringVar(&lead.AssignedTo, "assign", "", "Assigned sales rep id")
	cmd.Flags().StringVar(&lead.Notes, "notes", "", "Notes")
	return cmd
}

func newLeadListCommand(app *App) *cobra.Command {
	var query, status, source string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			leads, err := rt.Service.Leads(cmd.Context(), query, status, source)
			if err != nil {
				return err
			}
			if len(leads) == 0 {
				fmt.Fprintln(out(cmd), "No leads found")
				return nil
			}
			w := newTable(out(cmd))
			fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tEMAIL\tSOURCE\tSTATUS\tPRIORITY")
			for _, l := range leads {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", l.ID, l.Name, l.Company, l.Email, l.Source, l.Status, l.Priority)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search name, company, or email")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&source, "source", "", "Filter by source")
	return cmd
}

func newLeadConvertCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <id>",
		Short: "Convert a lead into a contact",
		Args:  cobra.ExactArgs(1),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			contact, err := rt.Service.ConvertLead(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Lead %d converted to contact %s (ID: %d)\n", id, contact.Name, contact.ID)
			return nil
		}),
	}
}

func newLeadDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a lead",
		Args:  cobra.ExactArgs(1),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := rt.Service.DeleteLead(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Lead %d deleted\n", id)
			return nil
		}),
	}
}
