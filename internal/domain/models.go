package domain

import (
	"math"
	"time"
)

// LogType classifies a day's activity.
type LogType string

const (
	LogWork      LogType = "work"
	LogSickLeave LogType = "sickLeave"
	LogVacation  LogType = "vacation"
)

// LogTypes lists every valid LogType in display order.
var LogTypes = []LogType{LogWork, LogSickLeave, LogVacation}

func (t LogType) Valid() bool {
	switch t {
	case LogWork, LogSickLeave, LogVacation:
		return true
	}
	return false
}

// LogEntry is one record of a single day's activity.
type LogEntry struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Type         LogType    `json:"type"`
	StartTime    *time.Time `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
	BreakMinutes int        `json:"breakMinutes"`
	Notes        string     `json:"notes"`
}

// HasTimes reports whether both start and end are recorded.
func (e LogEntry) HasTimes() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// GrossMinutes is end minus start in whole minutes, or 0 while either side is missing.
func (e LogEntry) GrossMinutes() int {
	if !e.HasTimes() {
		return 0
	}
	return int(e.EndTime.Sub(*e.StartTime) / time.Minute)
}

// NetMinutes is the worked time after breaks, never negative.
func (e LogEntry) NetMinutes() int {
	if e.Type != LogWork {
		return 0
	}
	return max(0, e.GrossMinutes()-e.BreakMinutes)
}

// Clone returns a copy that shares no pointers with e.
func (e LogEntry) Clone() LogEntry {
	c := e
	if e.StartTime != nil {
		t := *e.StartTime
		c.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		c.EndTime = &t
	}
	return c
}

// Task is a reminder-bearing to-do item.
type Task struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	DueDate         time.Time `json:"dueDate"`
	ReminderMinutes int       `json:"reminderMinutes"` // minutes before DueDate
	IsCompleted     bool      `json:"isCompleted"`
}

// maxReminderMinutes is the largest lead time a time.Duration can hold.
const maxReminderMinutes = math.MaxInt64 / int64(time.Minute)

// ReminderAt is the instant after which the task's reminder is due. Lead
// times too large for a time.Duration saturate to the zero time, so such a
// reminder is always due.
func (t Task) ReminderAt() time.Time {
	if int64(t.ReminderMinutes) > maxReminderMinutes {
		return time.Time{}
	}
	return t.DueDate.Add(-time.Duration(t.ReminderMinutes) * time.Minute)
}

// ProfileSettings is the per-user baseline for expected working time.
type ProfileSettings struct {
	WorkDaysPerWeek          int     `json:"workDaysPerWeek"`
	WorkHoursPerDay          float64 `json:"workHoursPerDay"`
	DefaultBreakMinutes      int     `json:"defaultBreakMinutes"`
	TotalVacationDaysPerYear int     `json:"totalVacationDaysPerYear"`
}

// DefaultProfile is used until the user saves their own settings.
func DefaultProfile() ProfileSettings {
	return ProfileSettings{
		WorkDaysPerWeek:          5,
		WorkHoursPerDay:          8,
		DefaultBreakMinutes:      30,
		TotalVacationDaysPerYear: 25,
	}
}

// DailyMinutes is the expected work on a nominal work day.
func (p ProfileSettings) DailyMinutes() int {
	return int(math.Round(p.WorkHoursPerDay * 60))
}

// IsWorkDay reports whether wd falls within the first WorkDaysPerWeek days
// of a Monday-first week.
func (p ProfileSettings) IsWorkDay(wd time.Weekday) bool {
	return WeekdayIndex(wd) <= p.WorkDaysPerWeek
}

// ExpectedMinutes returns the expected work for a calendar day.
func (p ProfileSettings) ExpectedMinutes(wd time.Weekday) int {
	if !p.IsWorkDay(wd) {
		return 0
	}
	return p.DailyMinutes()
}
