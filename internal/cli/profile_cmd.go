package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the working-time profile",
	}
	cmd.AddCommand(newProfileShowCmd(app), newProfileSetCmd(app))
	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.Session.Profile.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d\n", styleBold.Render("Work days per week:  "), p.WorkDaysPerWeek)
			fmt.Fprintf(out, "%s %g\n", styleBold.Render("Work hours per day:  "), p.WorkHoursPerDay)
			fmt.Fprintf(out, "%s %d min\n", styleBold.Render("Default break:       "), p.DefaultBreakMinutes)
			fmt.Fprintf(out, "%s %d\n", styleBold.Render("Vacation days/year:  "), p.TotalVacationDaysPerYear)
			return nil
		},
	}
}

func newProfileSetCmd(app *App) *cobra.Command {
	var days, breakMin, vacation int
	var hours float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := app.Session.Profile.Get()
			flags := cmd.Flags()
			if flags.Changed("days") {
				p.WorkDaysPerWeek = days
			}
			if flags.Changed("hours") {
				p.WorkHoursPerDay = hours
			}
			if flags.Changed("break") {
				p.DefaultBreakMinutes = breakMin
			}
			if flags.Changed("vacation") {
				p.TotalVacationDaysPerYear = vacation
			}
			if err := app.Session.Profile.Save(context.Background(), p); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Work days per week (1-7, counted from Monday)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Work hours per day")
	cmd.Flags().IntVar(&breakMin, "break", 0, "Default break minutes")
	cmd.Flags().IntVar(&vacation, "vacation", 0, "Vacation days per year")
	return cmd
}
