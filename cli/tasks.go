// ABOUTME: Task CLI commands
// ABOUTME: Adds, lists, and toggles tasks with due-today and overdue counts
package cli

import (
	"fmt"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/fixtures"
	"github.com/harperreed/crmboard/models"
	"github.com/spf13/cobra"
)

func newTaskCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCommand(app), newTaskListCommand(app), newTaskToggleCommand(app))
	return cmd
}

func newTaskAddCommand(app *App) *cobra.Command {
	var title, due, contact, description, status string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			if due == "" {
				return fmt.Errorf("--due is required")
			}
			ctx := cmd.Context()
			dueDate, err := fixtures.ParseTime(due, rt.Service.Now())
			if err != nil {
				return err
			}

			task := models.Task{
				Title:       title,
				Description: description,
				DueDate:     dueDate,
				Status:      models.TaskStatus(status),
			}
			if contact != "" {
				c, err := rt.Service.FindContact(ctx, contact)
				if err != nil {
					return err
				}
				task.ContactID = &c.ID
			}

			created, err := rt.Service.CreateTask(ctx, task)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Task created: %s (ID: %d)\n", created.Title, created.ID)
			fmt.Fprintf(out(cmd), "  Due: %s\n", formatDate(created.DueDate))
			return nil
		}),
	}
	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD, now, or +2d) (required)")
	cmd.Flags().StringVar(&contact, "contact", "", "Related contact ID, name, or email")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&status, "status", "", "Status: to-do, in-progress, completed, on-hold")
	return cmd
}

func newTaskListCommand(app *App) *cobra.Command {
	var query, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			ctx := cmd.Context()
			snap, err := rt.Service.Snapshot(ctx)
			if err != nil {
				return err
			}
			names := crm.ContactNames(snap.Contacts)
			tasks, err := crm.FilterTasks(snap.Tasks, names, query, status)
			if err != nil {
				return err
			}
			stats, err := analytics.SummarizeTasks(tasks, rt.Service.Now())
			if err != nil {
				return err
			}

			if len(tasks) == 0 {
				fmt.Fprintln(out(cmd), "No tasks found")
				return nil
			}
			w := newTable(out(cmd))
			fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS\tCONTACT")
			for _, t := range tasks {
				contact := ""
				if t.ContactID != nil {
					contact = names[*t.ContactID]
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, formatDate(t.DueDate), t.Status, contact)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "\n%d tasks: %d completed, %d due today, %d overdue\n", stats.Total, stats.Completed, stats.DueToday, stats.Overdue)
			return nil
		}),
	}
	cmd.Flags().StringVar(&query, "query", "", "Search title, description, or contact name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newTaskToggleCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between completed and to-do",
		Args:  cobra.ExactArgs(1),
		RunE: app.withRuntime(func(cmd *cobra.Command, args []string, rt *Runtime) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := rt.Service.ToggleTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "✓ Task %d is now %s\n", task.ID, task.Status)
			return nil
		}),
	}
}
