package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tasktracker/backend/internal/client"
	taskdomain "tasktracker/backend/internal/task/domain"
)

func (a *app) tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List and edit your tasks",
	}
	cmd.AddCommand(
		a.tasksListCmd(),
		a.tasksCreateCmd(),
		a.tasksGetCmd(),
		a.tasksUpdateCmd(),
		a.tasksToggleCmd(),
		a.tasksDeleteCmd(),
	)
	return cmd
}

func (a *app) tasksListCmd() *cobra.Command {
	var p client.ListParams
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.session.ListTasks(cmd.Context(), p)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), page)
			}
			return printTable(cmd.OutOrStdout(), page)
		},
	}
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number (1-based)")
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "tasks per page (max 50)")
	cmd.Flags().StringVar(&p.Status, "status", "", "PENDING, IN_PROGRESS or COMPLETED")
	cmd.Flags().StringVar(&p.Search, "search", "", "case-insensitive title search")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw page as JSON")
	return cmd
}

func printTable(w io.Writer, page *taskdomain.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range page.Tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, due, t.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	pg := page.Pagination
	_, err := fmt.Fprintf(w, "page %d of %d (%d tasks)\n", pg.Page, pg.TotalPages, pg.Total)
	return err
}

// taskFlags collects the editable fields. Only flags the user set end up in the request body.
type taskFlags struct {
	title, description, status, priority, due string
	clearDescription, clearDue                 bool
}

func (f *taskFlags) register(cmd *cobra.Command, withClear bool) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.status, "status", "", "PENDING, IN_PROGRESS or COMPLETED")
	cmd.Flags().StringVar(&f.priority, "priority", "", "LOW, MEDIUM or HIGH")
	cmd.Flags().StringVar(&f.due, "due", "", "due date (RFC 3339, e.g. 2026-01-31T00:00:00Z)")
	if withClear {
		cmd.Flags().BoolVar(&f.clearDescription, "clear-description", false, "remove the description")
		cmd.Flags().BoolVar(&f.clearDue, "clear-due", false, "remove the due date")
	}
}

func (f *taskFlags) body(cmd *cobra.Command) map[string]any {
	out := map[string]any{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			out[key] = value
		}
	}
	set("title", "title", f.title)
	set("description", "description", f.description)
	set("status", "status", f.status)
	set("priority", "priority", f.priority)
	set("due", "dueDate", f.due)
	if f.clearDescription {
		out["description"] = nil
	}
	if f.clearDue {
		out["dueDate"] = nil
	}
	return out
}

func (a *app) tasksCreateCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := a.session.CreateTask(cmd.Context(), f.body(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	f.register(cmd, false)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func (a *app) tasksGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.session.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
}

func (a *app) tasksUpdateCmd() *cobra.Command {
	var f taskFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.session.UpdateTask(cmd.Context(), args[0], f.body(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		},
	}
	f.register(cmd, true)
	return cmd
}

func (a *app) tasksToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Advance status: PENDING, IN_PROGRESS, COMPLETED, then back to PENDING",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.session.ToggleTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", t.ID, t.Status)
			return nil
		},
	}
}

func (a *app) tasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
