// ABOUTME: Company CLI commands
// ABOUTME: Human-friendly commands for adding and listing companies
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/models"
	"github.com/spf13/cobra"
)

func newCompanyCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}
	cmd.AddCommand(newCompanyAddCommand(app), newCompanyListCommand(app))
	return cmd
}

func newCompanyAddCommand(app *App) *cobra.Command {
	var company models.Company
	var companyType string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new company",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			company.Type = models.ContactType(companyType)
			created, err := rt.Service.CreateCompany(cmd.Context(), company)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Company created: %s (ID: %d)\n", created.Name, created.ID)
			if created.Website != "" {
				fmt.Fprintf(out(cmd), "  Website: %s\n", created.Website)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&company.Name, "name", "", "Company name (required)")
	cmd.Flags().StringVar(&company.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&company.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&company.Website, "website", "", "Website URL")
	cmd.Flags().StringVar(&company.Address, "address", "", "Address")
	cmd.Flags().StringVar(&companyType, "type", "", "Type: customer or lead")
	return cmd
}

func newCompanyListCommand(app *App) *cobra.Command {
	var query, companyType string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			companies, err := rt.Service.Companies(cmd.Context(), query, companyType)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Fprintln(out(cmd), "No companies found")
				return nil
			}
			w := newTable(out(cmd))
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tWEBSITE\tTYPE")
			for _, c := range companies {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Website, c.Type)
			}
			return w.Flush()
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search name, email, or website")
	cmd.Flags().StringVar(&companyType, "type", "", "Filter by type (customer, lead)")
	return cmd
}
