package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sadopc/saati/internal/engine"
	"github.com/sadopc/saati/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type reportFlags struct {
	from, to, by, format string
}

func (f *reportFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.from, "from", "", "First date YYYY-MM-DD (default first of this month)")
	fs.StringVar(&f.to, "to", "", "Last date YYYY-MM-DD (default today)")
	fs.StringVar(&f.by, "by", "", "Grouping: day, week or month (default from config)")
}

// build resolves the flags against today and the configured granularity.
func (f *reportFlags) build(app *App) (engine.Report, error) {
	to := f.to
	if to == "" {
		to = app.today()
	}
	from := f.from
	if from == "" {
		from = monthStart(to)
	}
	r, err := engine.ParseRange(from, to)
	if err != nil {
		return engine.Report{}, err
	}
	by := f.by
	if by == "" {
		by = app.Config.Report.Granularity
	}
	g, err := engine.ParseGranularity(by)
	if err != nil {
		return engine.Report{}, err
	}
	return app.Session.Report(r, g), nil
}

func newReportCmd(app *App) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Worked, expected and balance hours over a date range",
		Example: `  saati report --by week
  saati report --from 2024-01-01 --to 2024-12-31 --by month --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := f.build(app)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch f.format {
			case "", "table":
				printReport(out, rep)
				return nil
			case "json":
				return export.WriteReportJSON(out, rep, app.now())
			case "csv":
				return export.WriteReportCSV(out, rep)
			}
			return fmt.Errorf("--format: unknown format %q", f.format)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.format, "format", "table", "Output: table, json or csv")
	return cmd
}

func printReport(out io.Writer, rep engine.Report) {
	fmt.Fprintf(out, "%s %s .. %s (by %s)\n\n", styleHeader.Render("REPORT"), rep.From, rep.To, rep.Granularity)

	if len(rep.Groups) == 0 {
		fmt.Fprintln(out, "Empty range.")
		return
	}

	headers := []string{"PERIOD", "DAYS", "WORKED", "EXPECTED", "SICK", "VACATION", "BALANCE"}
	rows := make([][]string, 0, len(rep.Groups))
	for _, g := range rep.Groups {
		key := g.Key
		if g.Partial {
			key += styleDim.Render(" (partial)")
		}
		rows = append(rows, []string{
			key,
			fmt.Sprint(g.Days),
			engine.FormatMinutes(g.WorkedMinutes),
			engine.FormatMinutes(g.ExpectedMinutes),
			engine.FormatMinutes(g.SickMinutes),
			engine.FormatMinutes(g.VacationMinutes),
			balance(g.BalanceMinutes),
		})
	}
	printTable(out, headers, rows)

	t := rep.Totals
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s of %s, balance %s\n",
		styleBold.Render("Worked:"),
		engine.FormatMinutes(t.WorkedMinutes),
		engine.FormatMinutes(t.ExpectedMinutes),
		balance(t.BalanceMinutes))
	fmt.Fprintf(out, "%s %s overtime, %s undertime\n",
		styleBold.Render("Days:  "),
		engine.FormatMinutes(t.OvertimeMinutes),
		engine.FormatMinutes(t.UndertimeMinutes))
	fmt.Fprintf(out, "%s %d sick, %d vacation\n", styleBold.Render("Leave: "), t.SickDays, t.VacationDays)

	for _, v := range rep.Vacation {
		line := fmt.Sprintf("Vacation %d: %d of %d used, %d remaining", v.Year, v.Used, v.Allowance, v.Remaining)
		if v.Exceeded {
			line = styleRed.Render(line + " (allowance exceeded)")
		}
		fmt.Fprintln(out, line)
	}
}

func newExportCmd(app *App) *cobra.Command {
	var f reportFlags
	var outPath string

	cmd := &cobra.Command{
		Use:       "export <report|logs>",
		Short:     "Write a report or the log list as CSV or JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"report", "logs"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(f.format)
			switch args[0] {
			case "logs":
				if format != "csv" {
					return fmt.Errorf("logs can only be exported as csv")
				}
				logs := app.Session.Logs.List()
				if outPath == "" {
					return export.WriteLogsCSV(cmd.OutOrStdout(), logs)
				}
				if err := export.LogsToCSV(logs, outPath); err != nil {
					return err
				}
			case "report":
				rep, err := f.build(app)
				if err != nil {
					return err
				}
				switch {
				case format == "csv" && outPath == "":
					return export.WriteReportCSV(cmd.OutOrStdout(), rep)
				case format == "csv":
					err = export.ReportToCSV(rep, outPath)
				case format == "json" && outPath == "":
					return export.WriteReportJSON(cmd.OutOrStdout(), rep, app.now())
				case format == "json":
					err = export.ReportToJSON(rep, outPath)
				default:
					return fmt.Errorf("--format: unknown format %q", f.format)
				}
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export %q: want report or logs", args[0])
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", args[0], outPath)
			return nil
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().StringVar(&f.format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}
