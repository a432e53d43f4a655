package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/session"
)

type profileForm struct {
	days, hours, brk, vacation string
}

type profileModel struct {
	session *session.Session
	width   int
	height  int

	profile    domain.ProfileSettings
	formActive bool
	form       *huh.Form
	fields     *profileForm
}

func newProfileModel(s *session.Session) profileModel {
	return profileModel{session: s, fields: &profileForm{}}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type profileDataMsg struct {
	profile domain.ProfileSettings
}

func (p profileModel) refresh() tea.Cmd {
	profile := p.session.Profile.Get()
	return func() tea.Msg { return profileDataMsg{profile: profile} }
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case profileDataMsg:
		p.profile = msg.profile
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return p.showForm()
		}
	}
	return p, nil
}

func (p profileModel) showForm() (profileModel, tea.Cmd) {
	cur := p.session.Profile.Get()
	*p.fields = profileForm{
		days:     strconv.Itoa(cur.WorkDaysPerWeek),
		hours:    strconv.FormatFloat(cur.WorkHoursPerDay, 'f', -1, 64),
		brk:      strconv.Itoa(cur.DefaultBreakMinutes),
		vacation: strconv.Itoa(cur.TotalVacationDaysPerYear),
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Work days per week (1-7)").Value(&p.fields.days).Validate(validMinutes),
			huh.NewInput().Title("Work hours per day").Value(&p.fields.hours),
			huh.NewInput().Title("Default break (min)").Value(&p.fields.brk).Validate(validMinutes),
			huh.NewInput().Title("Vacation days per year").Value(&p.fields.vacation).Validate(validMinutes),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) updateForm(msg tea.Msg) (profileModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		p.formActive = false
		p.form = nil
		return p, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}
	if p.form.State != huh.StateCompleted {
		return p, cmd
	}

	p.formActive = false
	profile, err := p.fields.settings()
	if err != nil {
		return p, errStatus(err)
	}
	if err := p.session.Profile.Save(context.Background(), profile); err != nil {
		return p, errStatus(err)
	}
	return p, tea.Batch(p.refresh(), status("Profile saved"))
}

// settings parses the form; range checks are left to the profile store.
func (f profileForm) settings() (domain.ProfileSettings, error) {
	var p domain.ProfileSettings
	var err error
	if p.WorkDaysPerWeek, err = strconv.Atoi(strings.TrimSpace(f.days)); err != nil {
		return p, fmt.Errorf("work days: %w", err)
	}
	if p.WorkHoursPerDay, err = strconv.ParseFloat(strings.TrimSpace(f.hours), 64); err != nil {
		return p, fmt.Errorf("work hours: %w", err)
	}
	if p.DefaultBreakMinutes, err = strconv.Atoi(strings.TrimSpace(f.brk)); err != nil {
		return p, fmt.Errorf("default break: %w", err)
	}
	if p.TotalVacationDaysPerYear, err = strconv.Atoi(strings.TrimSpace(f.vacation)); err != nil {
		return p, fmt.Errorf("vacation days: %w", err)
	}
	return p, nil
}

func (p profileModel) view() string {
	w := p.width - 4
	title := titleStyle.Render("Profile")

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	pr := p.profile
	items := []struct{ label, value string }{
		{"Work days per week", strconv.Itoa(pr.WorkDaysPerWeek)},
		{"Work hours per day", fmt.Sprintf("%g hours", pr.WorkHoursPerDay)},
		{"Expected per week", formatHours(pr.DailyMinutes() * pr.WorkDaysPerWeek)},
		{"Default break", fmt.Sprintf("%d min", pr.DefaultBreakMinutes)},
		{"Vacation days per year", strconv.Itoa(pr.TotalVacationDaysPerYear)},
	}

	rows := []string{title, ""}
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit the profile"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
