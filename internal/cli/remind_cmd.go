package cli

import (
	"fmt"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
	"github.com/spf13/cobra"
)

func newRemindCmd(app *App) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "List tasks whose reminder is due",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			if at != "" {
				t, err := domain.ParseTimestamp(at, app.Location)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			out := cmd.OutOrStdout()
			n := 0
			for t := range app.Session.DueReminders(now) {
				n++
				overdue := ""
				if !now.Before(t.DueDate) {
					overdue = styleRed.Render(" overdue")
				}
				fmt.Fprintf(out, "%s %s due %s%s %s\n",
					styleYellow.Render("●"),
					t.Title,
					t.DueDate.In(app.Location).Format("2006-01-02 15:04"),
					overdue,
					styleDim.Render(truncID(t.ID)))
			}
			if n == 0 {
				fmt.Fprintln(out, "No reminders due.")
			}
			if next, ok := engine.NextThreshold(app.Session.Tasks.List(), now); ok {
				fmt.Fprintf(out, "Next reminder at %s\n", next.In(app.Location).Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Evaluate at this time instead of now (YYYY-MM-DDTHH:MM)")
	return cmd
}
