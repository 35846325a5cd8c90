// ABOUTME: Seed subcommand loading YAML fixtures into the record store
// ABOUTME: Records are created through the service so feed entries are written too
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/fixtures"
	"github.com/spf13/cobra"
)

func newSeedCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load companies, contacts, leads, deals, tasks, and activities from YAML",
		Args:  cobra.ExactArgs(1),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			f, err := fixtures.LoadFile(args[0])
			if err != nil {
				return err
			}
			summary, err := f.Apply(cmd.Context(), rt.Service, rt.Service.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Seeded %s\n", summary)
			return nil
		}),
	}
}
