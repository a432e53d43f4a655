package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/session"
)

// logForm holds the form values. The model is copied on every update, so
// huh binds to these through a pointer.
type logForm struct {
	date, kind, start, end, brk, notes string
}

type logsModel struct {
	session *session.Session
	now     func() time.Time
	width   int
	height  int

	entries []domain.LogEntry
	cursor  int

	formActive bool
	form       *huh.Form
	fields     *logForm
	editingID  string // empty while adding
}

func newLogsModel(s *session.Session, now func() time.Time) logsModel {
	return logsModel{session: s, now: now, fields: &logForm{}}
}

func (l *logsModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

type logsDataMsg struct {
	entries []domain.LogEntry
}

// refresh lists newest first.
func (l logsModel) refresh() tea.Cmd {
	entries := l.session.Logs.List()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return func() tea.Msg { return logsDataMsg{entries: entries} }
}

func (l logsModel) update(msg tea.Msg) (logsModel, tea.Cmd) {
	if l.formActive && l.form != nil {
		return l.updateForm(msg)
	}

	switch msg := msg.(type) {
	case logsDataMsg:
		l.entries = msg.entries
		if l.cursor >= len(l.entries) {
			l.cursor = max(0, len(l.entries)-1)
		}
		return l, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if l.cursor > 0 {
				l.cursor--
			}
		case key.Matches(msg, keys.Down):
			if l.cursor < len(l.entries)-1 {
				l.cursor++
			}
		case key.Matches(msg, keys.New):
			return l.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(l.entries) > 0 {
				e := l.entries[l.cursor]
				return l.showForm(&e)
			}
		case key.Matches(msg, keys.Delete):
			if len(l.entries) > 0 {
				e := l.entries[l.cursor]
				if err := l.session.Logs.Delete(context.Background(), e.ID); err != nil {
					return l, errStatus(err)
				}
				return l, tea.Batch(l.refresh(), status("Deleted entry for "+e.Date))
			}
		}
	}
	return l, nil
}

func (l logsModel) showForm(e *domain.LogEntry) (logsModel, tea.Cmd) {
	now := l.now()
	*l.fields = logForm{
		date: domain.FormatDate(now),
		kind: string(domain.LogWork),
		brk:  strconv.Itoa(l.session.Profile.Get().DefaultBreakMinutes),
	}
	l.editingID = ""
	if e != nil {
		l.editingID = e.ID
		*l.fields = logForm{
			date:  e.Date,
			kind:  string(e.Type),
			brk:   strconv.Itoa(e.BreakMinutes),
			notes: e.Notes,
		}
		if e.StartTime != nil {
			l.fields.start = e.StartTime.In(now.Location()).Format("15:04")
		}
		if e.EndTime != nil {
			l.fields.end = e.EndTime.In(now.Location()).Format("15:04")
		}
	}

	typeOptions := []huh.Option[string]{
		huh.NewOption("Work", string(domain.LogWork)),
		huh.NewOption("Sick leave", string(domain.LogSickLeave)),
		huh.NewOption("Vacation", string(domain.LogVacation)),
	}

	l.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&l.fields.date).Validate(validDate),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(&l.fields.kind),
			huh.NewInput().Title("Start (HH:MM, work only)").Value(&l.fields.start).Validate(validClock),
			huh.NewInput().Title("End (HH:MM, empty while open)").Value(&l.fields.end).Validate(validClock),
			huh.NewInput().Title("Break minutes").Value(&l.fields.brk).Validate(validMinutes),
			huh.NewInput().Title("Notes").Value(&l.fields.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	l.formActive = true
	return l, l.form.Init()
}

func (l logsModel) updateForm(msg tea.Msg) (logsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		l.formActive = false
		l.form = nil
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}
	if l.form.State != huh.StateCompleted {
		return l, cmd
	}

	l.formActive = false
	e, err := l.fields.entry(l.now().Location())
	if err != nil {
		return l, errStatus(err)
	}
	ctx := context.Background()
	if l.editingID == "" {
		_, err = l.session.Logs.Add(ctx, e)
	} else {
		_, err = l.session.Logs.Update(ctx, l.editingID, e)
	}
	if err != nil {
		return l, errStatus(err)
	}
	return l, tea.Batch(l.refresh(), status("Saved entry for "+e.Date))
}

// entry converts the form values. Times are wall clock on the entry's date
// in loc; anything but a work entry drops them together with the break.
func (f logForm) entry(loc *time.Location) (domain.LogEntry, error) {
	e := domain.LogEntry{
		Date:  strings.TrimSpace(f.date),
		Type:  domain.LogType(f.kind),
		Notes: strings.TrimSpace(f.notes),
	}
	if e.Type != domain.LogWork {
		return e, nil
	}
	day, err := domain.ParseDate(e.Date)
	if err != nil {
		return e, err
	}
	if e.StartTime, err = clockOn(day, f.start, loc); err != nil {
		return e, err
	}
	if e.EndTime, err = clockOn(day, f.end, loc); err != nil {
		return e, err
	}
	if s := strings.TrimSpace(f.brk); s != "" {
		if e.BreakMinutes, err = strconv.Atoi(s); err != nil {
			return e, fmt.Errorf("break: %w", err)
		}
	}
	return e, nil
}

// clockOn anchors an HH:MM wall clock to day. Empty input means unset.
func clockOn(day time.Time, s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	c, err := time.Parse("15:04", s)
	if err != nil {
		return nil, fmt.Errorf("time %q: expected HH:MM", s)
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, loc)
	return &t, nil
}

func validDate(s string) error {
	_, err := domain.ParseDate(strings.TrimSpace(s))
	return err
}

func validClock(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("expected HH:MM")
	}
	return nil
}

func validMinutes(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("expected minutes >= 0")
	}
	return nil
}

func (l logsModel) view() string {
	w := l.width - 4
	if l.formActive && l.form != nil {
		title := titleStyle.Render("New Log Entry")
		if l.editingID != "" {
			title = titleStyle.Render("Edit Log Entry")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", l.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render(fmt.Sprintf("Log Entries (%d)", len(l.entries)))
	if len(l.entries) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No entries yet. Press n to add one, or clock in on the dashboard."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, ""}

	// Keep the cursor on screen.
	visible := max(l.height-10, 5)
	first := 0
	if l.cursor >= visible {
		first = l.cursor - visible + 1
	}
	last := min(first+visible, len(l.entries))

	for i := first; i < last; i++ {
		cursor := "  "
		style := normalItemStyle
		if i == l.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor)+logLine(l.entries[i]))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
