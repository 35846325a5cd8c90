// ABOUTME: Activity feed CLI commands
// ABOUTME: Lists the feed grouped by day and logs manual interactions
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/viz"
	"github.com/spf13/cobra"
)

func newActivityCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show and record the activity feed",
	}
	cmd.AddCommand(newActivityListCommand(app), newActivityLogCommand(app))
	return cmd
}

func newActivityListCommand(app *App) *cobra.Command {
	var query, activityType string
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the activity feed, newest first",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			activities, err := rt.Service.Activities(cmd.Context(), query, activityType)
			if err != nil {
				return err
			}
			if limit > 0 && len(activities) > limit {
				activities = activities[:limit]
			}
			if len(activities) == 0 {
				fmt.Fprintln(out(cmd), "No activity found")
				return nil
			}

			days, err := analytics.GroupActivitiesByDay(activities, rt.Service.Now())
			if err != nil {
				return err
			}
			w := out(cmd)
			for _, day := range days {
				fmt.Fprintf(w, "%s\n", day.Label)
				for _, a := range day.Activities {
					fmt.Fprintf(w, "  %s %s  %s\n", viz.ActivityHint(a.Type).Glyph, a.Timestamp.Format("15:04"), a.Description)
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search description or contact name")
	cmd.Flags().StringVar(&activityType, "type", "", "Filter by activity type")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries")
	return cmd
}

func newActivityLogCommand(app *App) *cobra.Command {
	var activityType, description, contact string
	var dealID int64
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record an email, call, meeting, or note",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			ctx := cmd.Context()
			a := models.Activity{Type: models.ActivityType(activityType), Description: description}
			if contact != "" {
				c, err := rt.Service.FindContact(ctx, contact)
				if err != nil {
					return err
				}
				a.ContactID = c.ID
			}
			if dealID > 0 {
				a.DealID = &dealID
			}
			created, err := rt.Service.LogActivity(ctx, a)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Logged %s (ID: %d)\n", created.Type, created.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&activityType, "type", string(models.ActivityNoteAdded), "Activity type, e.g. email_sent, call_made, meeting_scheduled, note_added")
	cmd.Flags().StringVar(&description, "description", "", "What happened (required)")
	cmd.Flags().StringVar(&contact, "contact", "", "Related contact ID, name, or email")
	cmd.Flags().Int64Var(&dealID, "deal", 0, "Related deal ID")
	return cmd
}
