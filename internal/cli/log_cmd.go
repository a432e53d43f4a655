package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newLogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage work, sick leave and vacation entries",
	}

	cmd.AddCommand(
		newLogAddCmd(app),
		newLogListCmd(app),
		newLogEditCmd(app),
		newLogRemoveCmd(app),
	)

	return cmd
}

type logFlags struct {
	date, typ, start, end, notes string
	breakMinutes                 int
	clearTimes                   bool
}

func (f *logFlags) register(fs *pflag.FlagSet, typeDefault string) {
	fs.StringVar(&f.date, "date", "", "Calendar date YYYY-MM-DD (default today)")
	fs.StringVar(&f.typ, "type", typeDefault, "Entry type: work, sickLeave or vacation")
	fs.StringVar(&f.start, "start", "", "Start time HH:MM or full timestamp")
	fs.StringVar(&f.end, "end", "", "End time HH:MM or full timestamp")
	fs.IntVar(&f.breakMinutes, "break", 0, "Break minutes (default from profile)")
	fs.StringVar(&f.notes, "notes", "", "Free-form notes")
}

func newLogAddCmd(app *App) *cobra.Command {
	var f logFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a log entry",
		Example: `  saati log add --start 08:00 --end 17:00
  saati log add --date 2024-03-05 --type sickLeave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := f.date
			if date == "" {
				date = app.today()
			}
			e := domain.LogEntry{Date: date, Type: domain.LogType(f.typ), Notes: f.notes}
			if err := applyTimes(&e, f.start, f.end, app.Location); err != nil {
				return err
			}
			if cmd.Flags().Changed("break") {
				e.BreakMinutes = f.breakMinutes
			} else {
				e.BreakMinutes = defaultBreak(e, app.Session.Profile.Get())
			}

			stored, err := app.Session.Logs.Add(context.Background(), e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s (%s net) %s\n",
				stored.Type, stored.Date, engine.FormatMinutes(stored.NetMinutes()), styleDim.Render(truncID(stored.ID)))
			return nil
		},
	}

	f.register(cmd.Flags(), string(domain.LogWork))
	return cmd
}

func newLogListCmd(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List log entries in the order they were recorded",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs := app.Session.Logs.List()
			if from != "" || to != "" {
				lo, hi := from, to
				if hi == "" {
					hi = "9999-12-31"
				}
				logs = app.Session.Logs.Between(lo, hi)
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No log entries found.")
				return nil
			}

			headers := []string{"ID", "DATE", "TYPE", "START", "END", "BREAK", "NET", "NOTES"}
			rows := make([][]string, 0, len(logs))
			for _, e := range logs {
				rows = append(rows, []string{
					truncID(e.ID),
					e.Date,
					string(e.Type),
					clock(e.StartTime, app.Location),
					clock(e.EndTime, app.Location),
					fmt.Sprintf("%dm", e.BreakMinutes),
					engine.FormatMinutes(e.NetMinutes()),
					truncate(e.Notes, 40),
				})
			}
			printTable(out, headers, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Earliest date YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "Latest date YYYY-MM-DD")
	return cmd
}

func newLogEditCmd(app *App) *cobra.Command {
	var f logFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveLogID(args[0])
			if err != nil {
				return err
			}
			e, err := app.Session.Logs.Get(id)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("date") && f.date != e.Date {
				if err := checkDate("date", f.date); err != nil {
					return err
				}
				e.StartTime = moveToDate(e.StartTime, f.date, app.Location)
				e.EndTime = moveToDate(e.EndTime, f.date, app.Location)
				e.Date = f.date
			}
			if flags.Changed("type") {
				e.Type = domain.LogType(f.typ)
			}
			if f.clearTimes || e.Type != domain.LogWork {
				e.StartTime, e.EndTime, e.BreakMinutes = nil, nil, 0
			}
			if err := applyTimes(&e, f.start, f.end, app.Location); err != nil {
				return err
			}
			if flags.Changed("break") {
				e.BreakMinutes = f.breakMinutes
			}
			if flags.Changed("notes") {
				e.Notes = f.notes
			}

			updated, err := app.Session.Logs.Update(context.Background(), id, e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s on %s %s\n",
				updated.Type, updated.Date, styleDim.Render(truncID(updated.ID)))
			return nil
		},
	}

	f.register(cmd.Flags(), string(domain.LogWork))
	cmd.Flags().BoolVar(&f.clearTimes, "clear-times", false, "Remove start and end times")
	return cmd
}

func newLogRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a log entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.resolveLogID(args[0])
			if err != nil {
				return err
			}
			if err := app.Session.Logs.Delete(context.Background(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted log entry %s\n", truncID(id))
			return nil
		},
	}
}

func applyTimes(e *domain.LogEntry, start, end string, loc *time.Location) error {
	if start != "" {
		t, err := parseClock(e.Date, start, loc)
		if err != nil {
			return fmt.Errorf("--start: %w", err)
		}
		e.StartTime = &t
	}
	if end != "" {
		t, err := parseClock(e.Date, end, loc)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		e.EndTime = &t
	}
	return nil
}

// defaultBreak is the profile break for a timed work entry, or 0 when the
// entry is too short to hold it.
func defaultBreak(e domain.LogEntry, p domain.ProfileSettings) int {
	if e.Type != domain.LogWork || !e.HasTimes() {
		return 0
	}
	if e.GrossMinutes() < p.DefaultBreakMinutes {
		return 0
	}
	return p.DefaultBreakMinutes
}

// moveToDate keeps the wall clock of t on a different calendar date.
func moveToDate(t *time.Time, date string, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	d, err := domain.ParseDate(date)
	if err != nil {
		return t
	}
	local := t.In(loc)
	moved := time.Date(d.Year(), d.Month(), d.Day(), local.Hour(), local.Minute(), local.Second(), 0, loc)
	return &moved
}
