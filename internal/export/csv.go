package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
)

var reportHeader = []string{
	"Period", "From", "To", "Days", "Partial",
	"Worked (min)", "Expected (min)", "Balance (min)", "Balance",
	"Sick (min)", "Vacation (min)", "Sick Days", "Vacation Days",
}

var logHeader = []string{"ID", "Date", "Type", "Start", "End", "Break (min)", "Net (min)", "Net", "Notes"}

// WriteReportCSV writes one row per report group followed by a TOTAL row.
func WriteReportCSV(out io.Writer, rep engine.Report) error {
	w := csv.NewWriter(out)
	if err := w.Write(reportHeader); err != nil {
		return err
	}
	for _, g := range rep.Groups {
		row := []string{
			g.Key,
			g.From,
			g.To,
			strconv.Itoa(g.Days),
			strconv.FormatBool(g.Partial),
			strconv.Itoa(g.WorkedMinutes),
			strconv.Itoa(g.ExpectedMinutes),
			strconv.Itoa(g.BalanceMinutes),
			engine.FormatBalance(g.BalanceMinutes),
			strconv.Itoa(g.SickMinutes),
			strconv.Itoa(g.VacationMinutes),
			strconv.Itoa(g.SickDays),
			strconv.Itoa(g.VacationDays),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	t := rep.Totals
	total := []string{
		"TOTAL",
		rep.From,
		rep.To,
		"",
		"",
		strconv.Itoa(t.WorkedMinutes),
		strconv.Itoa(t.ExpectedMinutes),
		strconv.Itoa(t.BalanceMinutes),
		engine.FormatBalance(t.BalanceMinutes),
		"",
		"",
		strconv.Itoa(t.SickDays),
		strconv.Itoa(t.VacationDays),
	}
	if err := w.Write(total); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteLogsCSV writes log entries in the order given. Open entries have
// empty time cells.
func WriteLogsCSV(out io.Writer, logs []domain.LogEntry) error {
	w := csv.NewWriter(out)
	if err := w.Write(logHeader); err != nil {
		return err
	}
	for _, e := range logs {
		net := e.NetMinutes()
		row := []string{
			e.ID,
			e.Date,
			string(e.Type),
			formatOptional(e.StartTime),
			formatOptional(e.EndTime),
			strconv.Itoa(e.BreakMinutes),
			strconv.Itoa(net),
			engine.FormatMinutes(net),
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func ReportToCSV(rep engine.Report, path string) error {
	return writeFile(path, "csv", func(w io.Writer) error { return WriteReportCSV(w, rep) })
}

func LogsToCSV(logs []domain.LogEntry, path string) error {
	return writeFile(path, "csv", func(w io.Writer) error { return WriteLogsCSV(w, logs) })
}

func writeFile(path, kind string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", kind, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s file: %w", kind, err)
	}
	return f.Close()
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
