package cli

import (
	"context"
	"fmt"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
	"github.com/spf13/cobra"
)

const defaultReminderMinutes = 15

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their reminders",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskEditCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var title, due string
	var remind int

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Create a task",
		Example: `  saati task add --title "Submit timesheet" --due 2024-03-29T16:00 --remind 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueAt, err := parseClock(app.today(), due, app.Location)
			if err != nil {
				return fmt.Errorf("--due: %w", err)
			}
			t, err := app.Session.Tasks.Add(context.Background(), domain.Task{
				Title:           title,
				DueDate:         dueAt,
				ReminderMinutes: remind,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %q due %s, reminder at %s %s\n",
				t.Title,
				t.DueDate.In(app.Location).Format("2006-01-02 15:04"),
				engine.Threshold(t).In(app.Location).Format("15:04"),
				styleDim.Render(truncID(t.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&due, "due", "", "Due time: HH:MM today or YYYY-MM-DDTHH:MM")
	cmd.Flags().IntVar(&remind, "remind", defaultReminderMinutes, "Minutes before due to remind")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			out := cmd.OutOrStdout()

			headers := []string{"ID", "TITLE", "DUE", "REMIND", "STATE"}
			var rows [][]string
			for _, t := range app.Session.Tasks.List() {
				state := engine.ReminderState(t, now)
				if state == engine.ReminderDone && !all {
					continue
				}
				rows = append(rows, []string{
					truncID(t.ID),
					truncate(t.Title, 40),
					t.DueDate.In(app.Location).Format("2006-01-02 15:04"),
					fmt.Sprintf("%dm", t.ReminderMinutes),
					stateLabel(state),
				})
			}
			if len(rows) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			printTable(out, headers, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed tasks")
	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	var title, due string
	var remind int

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveTaskID(args[0])
			if err != nil {
				return err
			}
			t, err := app.Session.Tasks.Get(id)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				t.Title = title
			}
			if flags.Changed("due") {
				dueAt, err := parseClock(t.DueDate.In(app.Location).Format("2006-01-02"), due, app.Location)
				if err != nil {
					return fmt.Errorf("--due: %w", err)
				}
				t.DueDate = dueAt
			}
			if flags.Changed("remind") {
				t.ReminderMinutes = remind
			}
			if _, err := app.Session.Tasks.Save(context.Background(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %q\n", t.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&due, "due", "", "Due time: HH:MM or YYYY-MM-DDTHH:MM")
	cmd.Flags().IntVar(&remind, "remind", 0, "Minutes before due to remind")
	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveTaskID(args[0])
			if err != nil {
				return err
			}
			t, err := app.Session.Tasks.SetCompleted(context.Background(), id, !undo)
			if err != nil {
				return err
			}
			if t.IsCompleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Completed %q\n", t.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Reopened %q\n", t.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Reopen the task instead")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveTaskID(args[0])
			if err != nil {
				return err
			}
			if err := app.Session.Tasks.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", truncID(id))
			return nil
		},
	}
}

func stateLabel(s engine.ReminderStatus) string {
	switch s {
	case engine.ReminderDue:
		return styleYellow.Render("● " + s.String())
	case engine.ReminderDone:
		return styleGreen.Render("✓ " + s.String())
	}
	return styleDim.Render("○ " + s.String())
}
