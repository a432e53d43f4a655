// Package testutil holds fixtures shared by the package tests.
package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/saati/internal/domain"
)

// At parses a zone-less "2006-01-02T15:04[:05]" timestamp in UTC and
// panics on malformed input.
func At(s string) time.Time {
	t, err := domain.ParseTimestamp(s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// Ptr returns a pointer to a copy of t.
func Ptr(t time.Time) *time.Time { return &t }

// LogOption customizes a fixture log entry.
type LogOption func(*domain.LogEntry)

func WithLogID(id string) LogOption {
	return func(e *domain.LogEntry) { e.ID = id }
}

func WithNotes(notes string) LogOption {
	return func(e *domain.LogEntry) { e.Notes = notes }
}

// WithoutEnd leaves the entry open, as a running clock-in would.
func WithoutEnd() LogOption {
	return func(e *domain.LogEntry) { e.EndTime = nil }
}

// WorkLog builds a work entry on date from start to end ("15:04").
func WorkLog(date, start, end string, breakMinutes int, opts ...LogOption) domain.LogEntry {
	e := domain.LogEntry{
		ID:           uuid.NewString(),
		Date:         date,
		Type:         domain.LogWork,
		StartTime:    Ptr(At(date + "T" + start)),
		EndTime:      Ptr(At(date + "T" + end)),
		BreakMinutes: breakMinutes,
	}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func SickLog(date string, opts ...LogOption) domain.LogEntry {
	return dayLog(date, domain.LogSickLeave, opts)
}

func VacationLog(date string, opts ...LogOption) domain.LogEntry {
	return dayLog(date, domain.LogVacation, opts)
}

func dayLog(date string, typ domain.LogType, opts []LogOption) domain.LogEntry {
	e := domain.LogEntry{ID: uuid.NewString(), Date: date, Type: typ}
	for _, o := range opts {
		o(&e)
	}
	return e
}

// TaskOption customizes a fixture task.
type TaskOption func(*domain.Task)

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

func Completed() TaskOption {
	return func(t *domain.Task) { t.IsCompleted = true }
}

// NewTask builds an open task due at due ("2006-01-02T15:04").
func NewTask(title, due string, reminderMinutes int, opts ...TaskOption) domain.Task {
	t := domain.Task{
		ID:              uuid.NewString(),
		Title:           title,
		DueDate:         At(due),
		ReminderMinutes: reminderMinutes,
	}
	for _, o := range opts {
		o(&t)
	}
	return t
}

// Profile is the default profile with the week shape overridden.
func Profile(workDays int, hoursPerDay float64) domain.ProfileSettings {
	p := domain.DefaultProfile()
	p.WorkDaysPerWeek = workDays
	p.WorkHoursPerDay = hoursPerDay
	return p
}
