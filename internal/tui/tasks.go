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
	"github.com/sadopc/saati/internal/engine"
	"github.com/sadopc/saati/internal/session"
)

const dueLayout = "2006-01-02 15:04"

type taskForm struct {
	title, due, remind string
}

type tasksModel struct {
	session *session.Session
	now     func() time.Time
	width   int
	height  int

	tasks  []domain.Task
	cursor int

	formActive bool
	form       *huh.Form
	fields     *taskForm
	editing    *domain.Task
}

func newTasksModel(s *session.Session, now func() time.Time) tasksModel {
	return tasksModel{session: s, now: now, fields: &taskForm{}}
}

func (t *tasksModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type tasksDataMsg struct {
	tasks []domain.Task
}

func (t tasksModel) refresh() tea.Cmd {
	tasks := t.session.Tasks.List()
	return func() tea.Msg { return tasksDataMsg{tasks: tasks} }
}

func (t tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		t.tasks = msg.tasks
		if t.cursor >= len(t.tasks) {
			t.cursor = max(0, len(t.tasks)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.tasks)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showForm(nil)
		case key.Matches(msg, keys.Enter):
			if len(t.tasks) > 0 {
				task := t.tasks[t.cursor]
				return t.showForm(&task)
			}
		case key.Matches(msg, keys.Toggle):
			if len(t.tasks) > 0 {
				task, err := t.session.Tasks.ToggleCompleted(context.Background(), t.tasks[t.cursor].ID)
				if err != nil {
					return t, errStatus(err)
				}
				text := "Reopened " + task.Title
				if task.IsCompleted {
					text = "Completed " + task.Title
				}
				return t, tea.Batch(t.refresh(), status(text))
			}
		case key.Matches(msg, keys.Delete):
			if len(t.tasks) > 0 {
				task := t.tasks[t.cursor]
				if err := t.session.Tasks.Delete(context.Background(), task.ID); err != nil {
					return t, errStatus(err)
				}
				return t, tea.Batch(t.refresh(), status("Deleted "+task.Title))
			}
		}
	}
	return t, nil
}

func (t tasksModel) showForm(task *domain.Task) (tasksModel, tea.Cmd) {
	loc := t.now().Location()
	*t.fields = taskForm{
		due:    t.now().Add(time.Hour).Truncate(time.Hour).In(loc).Format(dueLayout),
		remind: "15",
	}
	t.editing = task
	if task != nil {
		*t.fields = taskForm{
			title:  task.Title,
			due:    task.DueDate.In(loc).Format(dueLayout),
			remind: strconv.Itoa(task.ReminderMinutes),
		}
	}

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&t.fields.title).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
			huh.NewInput().Title("Due (YYYY-MM-DD HH:MM)").Value(&t.fields.due).Validate(func(s string) error {
				_, err := domain.ParseTimestamp(strings.TrimSpace(s), loc)
				return err
			}),
			huh.NewInput().Title("Remind minutes before").Value(&t.fields.remind).Validate(validMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		t.formActive = false
		t.form = nil
		return t, nil
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}
	if t.form.State != huh.StateCompleted {
		return t, cmd
	}

	t.formActive = false
	var task domain.Task
	if t.editing != nil {
		task = *t.editing
	}
	if err := t.fields.apply(&task, t.now().Location()); err != nil {
		return t, errStatus(err)
	}
	if _, err := t.session.Tasks.Save(context.Background(), task); err != nil {
		return t, errStatus(err)
	}
	return t, tea.Batch(t.refresh(), status("Saved task "+task.Title))
}

func (f taskForm) apply(task *domain.Task, loc *time.Location) error {
	due, err := domain.ParseTimestamp(strings.TrimSpace(f.due), loc)
	if err != nil {
		return err
	}
	task.Title = strings.TrimSpace(f.title)
	task.DueDate = due
	task.ReminderMinutes = 0
	if s := strings.TrimSpace(f.remind); s != "" {
		if task.ReminderMinutes, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("reminder: %w", err)
		}
	}
	return nil
}

func (t tasksModel) view() string {
	w := t.width - 4
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Task")
		if t.editing != nil {
			title = titleStyle.Render("Edit Task")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()))
	}

	title := titleStyle.Render("Tasks")
	if len(t.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	now := t.now()
	rows := []string{title, ""}
	for i, task := range t.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "[ ]"
		if task.IsCompleted {
			check = successStyle.Render("[x]")
		}
		due := mutedStyle.Render(task.DueDate.In(now.Location()).Format(dueLayout))
		rows = append(rows, fmt.Sprintf("%s%s %s  %s  %s",
			style.Render(cursor), check, style.Render(task.Title), due, reminderLabel(task, now)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  enter: edit  t: toggle done  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func reminderLabel(task domain.Task, now time.Time) string {
	switch st := engine.ReminderState(task, now); st {
	case engine.ReminderDue:
		if !now.Before(task.DueDate) {
			return errorStyle.Render("overdue")
		}
		return warningStyle.Render(st.String())
	default:
		return mutedStyle.Render(st.String())
	}
}
