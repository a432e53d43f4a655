package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
	"github.com/sadopc/saati/internal/session"
)

var reportModes = []engine.Granularity{engine.ByDay, engine.ByWeek, engine.ByMonth}

type reportsModel struct {
	session *session.Session
	now     func() time.Time
	width   int
	height  int

	mode   int // index into reportModes
	offset int // windows back from the current one
	report engine.Report

	chart barchart.Model
}

func newReportsModel(s *session.Session, now func() time.Time) reportsModel {
	return reportsModel{
		session: s,
		now:     now,
		chart:   barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) granularity() engine.Granularity {
	return reportModes[r.mode]
}

type reportsDataMsg struct {
	report engine.Report
}

func (r reportsModel) refresh() tea.Cmd {
	rep := r.session.Report(r.dateRange(), r.granularity())
	return func() tea.Msg { return reportsDataMsg{report: rep} }
}

// dateRange is the window shown: seven days, six ISO weeks or six months,
// shifted back by offset windows and never reaching past today.
func (r reportsModel) dateRange() engine.Range {
	today := domain.CivilDate(r.now())
	var from, to time.Time

	switch r.granularity() {
	case engine.ByWeek:
		sunday := today.AddDate(0, 0, 7-domain.WeekdayIndex(today.Weekday()))
		to = sunday.AddDate(0, 0, -42*r.offset)
		from = to.AddDate(0, 0, -41)
	case engine.ByMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		first = first.AddDate(0, -6*r.offset, 0)
		from = first.AddDate(0, -5, 0)
		to = first.AddDate(0, 1, -1)
	default:
		to = today.AddDate(0, 0, -7*r.offset)
		from = to.AddDate(0, 0, -6)
	}
	if to.After(today) {
		to = today
	}
	return engine.NewRange(from, to)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		r.report = msg.report
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Mode):
			r.mode = (r.mode + 1) % len(reportModes)
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	workedStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	creditStyle := lipgloss.NewStyle().Foreground(colorCredit)

	bars := make([]barchart.BarData, 0, len(r.report.Groups))
	for _, g := range r.report.Groups {
		bars = append(bars, barchart.BarData{
			Label: barLabel(g, r.granularity()),
			Values: []barchart.BarValue{
				{Name: "worked", Value: engine.Hours(g.WorkedMinutes), Style: workedStyle},
				{Name: "credited", Value: engine.Hours(g.SickMinutes + g.VacationMinutes), Style: creditStyle},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func barLabel(g engine.PeriodSummary, by engine.Granularity) string {
	switch by {
	case engine.ByDay:
		if t, err := domain.ParseDate(g.From); err == nil {
			return t.Format("Mon 02")
		}
	case engine.ByWeek:
		if i := strings.Index(g.Key, "-"); i >= 0 {
			return g.Key[i+1:]
		}
	case engine.ByMonth:
		if t, err := time.Parse("2006-01", g.Key); err == nil {
			return t.Format("Jan 06")
		}
	}
	return g.Key
}

func (r reportsModel) view() string {
	w := r.width - 4

	var tabs []string
	for i, g := range reportModes {
		name := strings.ToUpper(string(g[:1])) + string(g[1:])
		if i == r.mode {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	dateLabel := mutedStyle.Render(fmt.Sprintf("%s .. %s", r.report.From, r.report.To))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	legend := fmt.Sprintf("  %s worked  %s sick + vacation",
		successStyle.Render("●"), lipgloss.NewStyle().Foreground(colorCredit).Render("●"))
	nav := mutedStyle.Render("  ←/→: earlier/later  m: day/week/month  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", legend, "", r.renderSummaryTable(w), "", r.renderTotals(), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.report.Groups) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-12s %8s %8s %8s %8s", "Period", "Worked", "Expected", "Leave", "Balance")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 50))),
	}
	for _, g := range r.report.Groups {
		key := g.Key
		if g.Partial {
			key += "*"
		}
		bal := balanceStyle(g.BalanceMinutes).Render(fmt.Sprintf("%8s", engine.FormatBalance(g.BalanceMinutes)))
		rows = append(rows, fmt.Sprintf("  %-12s %8s %8s %8s %s",
			key,
			engine.FormatMinutes(g.WorkedMinutes),
			engine.FormatMinutes(g.ExpectedMinutes),
			engine.FormatMinutes(g.SickMinutes+g.VacationMinutes),
			bal,
		))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderTotals() string {
	t := r.report.Totals
	lines := []string{
		fmt.Sprintf("  %s %s of %s  %s",
			titleStyle.Render("Total"),
			highlightStyle.Render(engine.FormatMinutes(t.WorkedMinutes)),
			engine.FormatMinutes(t.ExpectedMinutes),
			balanceStyle(t.BalanceMinutes).Render(engine.FormatBalance(t.BalanceMinutes)),
		),
		mutedStyle.Render(fmt.Sprintf("  %d sick, %d vacation days", t.SickDays, t.VacationDays)),
	}
	for _, v := range r.report.Vacation {
		line := fmt.Sprintf("  Vacation %d: %d of %d used", v.Year, v.Used, v.Allowance)
		if v.Exceeded {
			line = errorStyle.Render(line + ", allowance exceeded")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
