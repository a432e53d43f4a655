package engine

import (
	"iter"
	"slices"
	"time"

	"github.com/sadopc/saati/internal/domain"
)

// ReminderStatus is where a task sits in the reminder lifecycle.
type ReminderStatus int

const (
	ReminderPending ReminderStatus = iota // threshold not reached
	ReminderDue                           // threshold crossed, task still open
	ReminderDone                          // completed; no longer tracked
)

func (s ReminderStatus) String() string {
	switch s {
	case ReminderPending:
		return "pending"
	case ReminderDue:
		return "due"
	case ReminderDone:
		return "done"
	}
	return "unknown"
}

// Threshold is the instant dueDate - reminderMinutes.
func Threshold(t domain.Task) time.Time {
	return t.ReminderAt()
}

func ReminderState(t domain.Task, now time.Time) ReminderStatus {
	if t.IsCompleted {
		return ReminderDone
	}
	if now.Before(Threshold(t)) {
		return ReminderPending
	}
	return ReminderDue
}

// DueReminders yields the open tasks whose threshold is at or before now,
// earliest due date first. The set is recomputed each time the sequence is
// ranged over; suppressing reminders already shown is up to the caller.
func DueReminders(tasks []domain.Task, now time.Time) iter.Seq[domain.Task] {
	return func(yield func(domain.Task) bool) {
		var due []domain.Task
		for _, t := range tasks {
			if ReminderState(t, now) == ReminderDue {
				due = append(due, t)
			}
		}
		slices.SortStableFunc(due, func(a, b domain.Task) int {
			return a.DueDate.Compare(b.DueDate)
		})
		for _, t := range due {
			if !yield(t) {
				return
			}
		}
	}
}

// NextThreshold returns the earliest threshold still ahead of now among
// open tasks.
func NextThreshold(tasks []domain.Task, now time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	for _, t := range tasks {
		if ReminderState(t, now) != ReminderPending {
			continue
		}
		th := Threshold(t)
		if !found || th.Before(next) {
			next, found = th, true
		}
	}
	return next, found
}
