package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
	"github.com/sadopc/saati/internal/session"
)

type dashboardModel struct {
	session *session.Session
	now     func() time.Time
	timer   timerModel
	width   int
	height  int

	today  engine.DailySummary
	week   engine.Totals
	recent []domain.LogEntry

	// Reminders due and not yet dismissed. seen persists for the life of
	// the UI; the engine itself never dedupes.
	reminders []domain.Task
	seen      map[string]bool
	announced map[string]bool
}

func newDashboardModel(s *session.Session, now func() time.Time) dashboardModel {
	return dashboardModel{
		session:   s,
		now:       now,
		timer:     newTimerModel(now),
		seen:      map[string]bool{},
		announced: map[string]bool{},
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool { return d.timer.running() }
func (d dashboardModel) isPaused() bool  { return d.timer.paused() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	today  engine.DailySummary
	week   engine.Totals
	recent []domain.LogEntry
	open   *domain.LogEntry
}

// loadData reads the session on the update goroutine; the returned command
// only delivers the snapshot.
func (d dashboardModel) loadData() tea.Cmd {
	now := d.now()
	today := domain.CivilDate(now)
	monday := today.AddDate(0, 0, 1-domain.WeekdayIndex(today.Weekday()))

	msg := dashboardDataMsg{}
	if days := d.session.Aggregate(engine.NewRange(today, today)); len(days) == 1 {
		msg.today = days[0]
	}
	msg.week = d.session.Report(engine.NewRange(monday, today), engine.ByWeek).Totals

	logs := d.session.Logs.List()
	msg.recent = logs[max(0, len(logs)-5):]
	date := domain.FormatDate(now)
	for i := len(logs) - 1; i >= 0; i-- {
		e := logs[i]
		if e.Date == date && e.Type == domain.LogWork && e.StartTime != nil && e.EndTime == nil {
			msg.open = &e
			break
		}
	}
	return func() tea.Msg { return msg }
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.today = msg.today
		d.week = msg.week
		d.recent = msg.recent
		if msg.open != nil && !d.timer.running() {
			d.timer.start(msg.open.ID, *msg.open.StartTime)
		}
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d.checkReminders()

	case tea.KeyMsg:
		d.timer.recordActivity()

		switch {
		case key.Matches(msg, keys.ClockIn):
			return d.clockIn()
		case key.Matches(msg, keys.ClockOut):
			return d.clockOut()
		case key.Matches(msg, keys.Pause):
			d.timer.toggle()
			return d, nil
		case key.Matches(msg, keys.Ack):
			for _, t := range d.reminders {
				d.seen[t.ID] = true
			}
			d.reminders = nil
			return d, nil
		}
	}
	return d, nil
}

// checkReminders refreshes the due list and announces reminders that
// appeared since the last tick.
func (d dashboardModel) checkReminders() (dashboardModel, tea.Cmd) {
	var due []domain.Task
	var fresh []string
	for t := range d.session.DueReminders(d.now()) {
		if d.seen[t.ID] {
			continue
		}
		due = append(due, t)
		if !d.announced[t.ID] {
			d.announced[t.ID] = true
			fresh = append(fresh, t.Title)
		}
	}
	d.reminders = due
	if len(fresh) == 0 {
		return d, nil
	}
	return d, status("Reminder: " + strings.Join(fresh, ", "))
}

func (d dashboardModel) clockIn() (dashboardModel, tea.Cmd) {
	if d.timer.running() {
		return d, nil
	}
	now := d.now()
	e, err := d.session.Logs.Add(context.Background(), domain.LogEntry{
		Date:      domain.FormatDate(now),
		Type:      domain.LogWork,
		StartTime: &now,
	})
	if err != nil {
		return d, errStatus(err)
	}
	d.timer.start(e.ID, now)
	return d, tea.Batch(d.loadData(), status("Clocked in at "+now.Format("15:04")))
}

func (d dashboardModel) clockOut() (dashboardModel, tea.Cmd) {
	id := d.timer.entryID
	start, end, breakMinutes, ok := d.timer.preview()
	if !ok {
		return d, nil
	}
	e, err := d.session.Logs.Get(id)
	if err != nil {
		e = domain.LogEntry{ID: id, Date: domain.FormatDate(start), Type: domain.LogWork}
	}
	e.StartTime = &start
	e.EndTime = &end
	e.BreakMinutes = breakMinutes

	// The timer keeps running until the entry is closed in the store.
	if _, err := d.session.Logs.Update(context.Background(), id, e); err != nil {
		return d, errStatus(err)
	}
	d.timer.reset()
	text := fmt.Sprintf("Clocked out: %s worked, %dm break", engine.FormatMinutes(e.NetMinutes()), breakMinutes)
	return d, tea.Batch(d.loadData(), status(text))
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4
	panels := []string{d.renderTimerPanel(contentWidth)}
	if len(d.reminders) > 0 {
		panels = append(panels, d.renderReminderPanel(contentWidth))
	}
	panels = append(panels, d.renderSummaryPanel(contentWidth), d.renderRecentPanel(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeStr := formatDuration(d.timer.currentElapsed())
		breakLine := mutedStyle.Render("break " + formatDuration(d.timer.currentBreak()))

		var timeDisplay, indicator string
		if d.timer.paused() {
			timeDisplay = timerPausedStyle.Width(w - 6).Render(timeStr)
			if d.timer.isIdle {
				indicator = warningStyle.Render("⏸  IDLE")
			} else {
				indicator = warningStyle.Render("⏸  ON BREAK")
			}
		} else {
			timeDisplay = timerRunningStyle.Width(w - 6).Render(timeStr)
			indicator = successStyle.Render("●  CLOCKED IN")
		}
		since := highlightStyle.Render("since " + d.timer.startTime.Format("15:04"))

		content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, since, breakLine)
		return activePanelStyle.Width(w).Render(content)
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timerStyle.Width(w-6).Render("00:00:00"),
		mutedStyle.Render("■  CLOCKED OUT"),
		mutedStyle.Render("Press s to clock in"),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderReminderPanel(w int) string {
	rows := []string{warningStyle.Bold(true).Render("Reminders")}
	for _, t := range d.reminders {
		due := t.DueDate.In(d.now().Location())
		label := "due " + due.Format("15:04")
		if !domain.SameDay(due, d.now()) {
			label = "due " + due.Format("Jan 02 15:04")
		}
		if !d.now().Before(t.DueDate) {
			label = errorStyle.Render(label)
		}
		rows = append(rows, fmt.Sprintf("  ● %s  %s", t.Title, label))
	}
	rows = append(rows, mutedStyle.Render("  a: dismiss"))
	return reminderPanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSummaryPanel(w int) string {
	t := d.today
	todayLine := fmt.Sprintf("%s  %s of %s  %s",
		titleStyle.Render("Today"),
		highlightStyle.Render(engine.FormatMinutes(t.WorkedMinutes)),
		engine.FormatMinutes(t.ExpectedMinutes),
		balanceStyle(t.BalanceMinutes).Render(engine.FormatBalance(t.BalanceMinutes)),
	)
	switch {
	case t.IsSickDay:
		todayLine += warningStyle.Render("  sick leave")
	case t.IsVacationDay:
		todayLine += warningStyle.Render("  vacation")
	case !t.IsWorkDay:
		todayLine += mutedStyle.Render("  day off")
	}

	wk := d.week
	weekLine := fmt.Sprintf("%s  %s of %s  %s",
		titleStyle.Render("Week "),
		highlightStyle.Render(engine.FormatMinutes(wk.WorkedMinutes)),
		engine.FormatMinutes(wk.ExpectedMinutes),
		balanceStyle(wk.BalanceMinutes).Render(engine.FormatBalance(wk.BalanceMinutes)),
	)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, todayLine, weekLine))
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Entries")
	if len(d.recent) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No entries yet"),
		))
	}

	rows := []string{title}
	for _, e := range slices.Backward(d.recent) {
		rows = append(rows, "  "+logLine(e))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// logLine is the one-line rendering shared by the dashboard and log list.
func logLine(e domain.LogEntry) string {
	switch e.Type {
	case domain.LogSickLeave:
		return fmt.Sprintf("%s  %s", e.Date, warningStyle.Render("sick leave"))
	case domain.LogVacation:
		return fmt.Sprintf("%s  %s", e.Date, warningStyle.Render("vacation"))
	}
	span := "--:-- - --:--"
	if e.StartTime != nil {
		end := "running"
		if e.EndTime != nil {
			end = e.EndTime.Format("15:04")
		}
		span = e.StartTime.Format("15:04") + " - " + end
	}
	line := fmt.Sprintf("%s  %-15s %6s  %3dm break", e.Date, span, engine.FormatMinutes(e.NetMinutes()), e.BreakMinutes)
	if e.Notes != "" {
		line += mutedStyle.Render("  " + e.Notes)
	}
	return line
}
