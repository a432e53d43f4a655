package domain

import (
	"fmt"
	"strings"
)

// ValidateLogEntry checks the invariants of a single log entry. It never
// modifies e.
func ValidateLogEntry(e LogEntry) error {
	const rec = "log entry"
	if strings.TrimSpace(e.ID) == "" {
		return invalid(rec, "id", "is required")
	}
	if _, err := ParseDate(e.Date); err != nil {
		return invalid(rec, "date", "must be YYYY-MM-DD")
	}
	if !e.Type.Valid() {
		return invalid(rec, "type", fmt.Sprintf("must be one of %v", LogTypes))
	}
	if e.Type != LogWork {
		if e.StartTime != nil {
			return invalid(rec, "startTime", "only allowed on work entries")
		}
		if e.EndTime != nil {
			return invalid(rec, "endTime", "only allowed on work entries")
		}
	}
	if e.BreakMinutes < 0 {
		return invalid(rec, "breakMinutes", "must not be negative")
	}
	// Calendar day in the timestamp's own offset.
	if e.StartTime != nil && FormatDate(*e.StartTime) != e.Date {
		return invalid(rec, "startTime", "must fall on date")
	}
	if e.HasTimes() {
		if !e.EndTime.After(*e.StartTime) {
			return invalid(rec, "endTime", "must be after startTime")
		}
		if !SameDay(*e.StartTime, *e.EndTime) {
			return invalid(rec, "endTime", "must be on the same day as startTime")
		}
		if e.BreakMinutes > e.GrossMinutes() {
			return invalid(rec, "breakMinutes", "exceeds the time between startTime and endTime")
		}
	}
	return nil
}

func ValidateTask(t Task) error {
	const rec = "task"
	if strings.TrimSpace(t.ID) == "" {
		return invalid(rec, "id", "is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return invalid(rec, "title", "is required")
	}
	if t.DueDate.IsZero() {
		return invalid(rec, "dueDate", "is required")
	}
	if t.ReminderMinutes < 0 {
		return invalid(rec, "reminderMinutes", "must not be negative")
	}
	return nil
}

func ValidateProfile(p ProfileSettings) error {
	const rec = "profile"
	if p.WorkDaysPerWeek < 1 || p.WorkDaysPerWeek > 7 {
		return invalid(rec, "workDaysPerWeek", "must be between 1 and 7")
	}
	// NaN fails both comparisons.
	if !(p.WorkHoursPerDay > 0 && p.WorkHoursPerDay <= 24) {
		return invalid(rec, "workHoursPerDay", "must be greater than 0 and at most 24")
	}
	if p.DefaultBreakMinutes < 0 {
		return invalid(rec, "defaultBreakMinutes", "must not be negative")
	}
	if p.TotalVacationDaysPerYear < 0 {
		return invalid(rec, "totalVacationDaysPerYear", "must not be negative")
	}
	return nil
}
