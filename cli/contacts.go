// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for adding and listing contacts
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/models"
	"github.com/spf13/cobra"
)

func newContactCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}
	cmd.AddCommand(newContactAddCommand(app), newContactListCommand(app))
	return cmd
}

func newContactAddCommand(app *App) *cobra.Command {
	var contact models.Contact
	var contactType string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new contact",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			contact.Type = models.ContactType(contactType)
			created, err := rt.Service.CreateContact(cmd.Context(), contact)
			if err != nil {
				return err
			}
			w := out(cmd)
			fmt.Fprintf(w, "✓ Contact created: %s (ID: %d)\n", created.Name, created.ID)
			fmt.Fprintf(w, "  Email: %s\n", created.Email)
			fmt.Fprintf(w, "  Company: %s\n", created.Company)
			return nil
		}),
	}
	cmd.Flags().StringVar(&contact.Name, "name", "", "Contact name (required)")
	cmd.Flags().StringVar(&contact.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&contact.Company, "company", "", "Company name (required)")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&contact.JobTitle, "job-title", "", "Job title")
	cmd.Flags().StringVar(&contact.Address, "address", "", "Address")
	cmd.Flags().StringVar(&contact.Notes, "notes", "", "Notes about the contact")
	cmd.Flags().StringVar(&contactType, "type", "", "Type: customer or lead")
	return cmd
}

func newContactListCommand(app *App) *cobra.Command {
	var query, contactType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			contacts, err := rt.Service.Contacts(cmd.Context(), query, contactType)
			if err != nil {
				return err
			}
			if len(contacts) == 0 {
				fmt.Fprintln(out(cmd), "No contacts found")
				return nil
			}
			w := newTable(out(cmd))
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tCOMPANY\tTYPE\tLAST ACTIVITY")
			for _, c := range contacts {
				last := "-"
				if c.LastActivity != nil {
					last = formatDate(*c.LastActivity)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Company, c.Type, last)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search name, email, or company")
	cmd.Flags().StringVar(&contactType, "type", "", "Filter by type (customer, lead)")
	return cmd
}
