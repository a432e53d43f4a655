// Package engine derives worked, expected and balance minutes from log
// entries, builds reports over date ranges, and decides which task
// reminders are due. Every function here is pure.
package engine

import (
	"fmt"
	"time"

	"github.com/sadopc/saati/internal/domain"
)

// Range is an inclusive span of calendar dates.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange keeps only the calendar dates of from and to.
func NewRange(from, to time.Time) Range {
	return Range{From: domain.CivilDate(from), To: domain.CivilDate(to)}
}

// ParseRange builds a Range from two YYYY-MM-DD dates.
func ParseRange(from, to string) (Range, error) {
	f, err := domain.ParseDate(from)
	if err != nil {
		return Range{}, fmt.Errorf("range start: %w", err)
	}
	t, err := domain.ParseDate(to)
	if err != nil {
		return Range{}, fmt.Errorf("range end: %w", err)
	}
	return Range{From: f, To: t}, nil
}

// Days is the number of calendar days in r; 0 when From is after To.
func (r Range) Days() int {
	from, to := domain.CivilDate(r.From), domain.CivilDate(r.To)
	if from.After(to) {
		return 0
	}
	return int(to.Sub(from)/(24*time.Hour)) + 1
}

func (r Range) String() string {
	return domain.FormatDate(r.From) + ".." + domain.FormatDate(r.To)
}

// DailySummary is the accounting for one calendar day.
type DailySummary struct {
	Date                 string `json:"date"`
	IsWorkDay            bool   `json:"isWorkDay"`
	WorkedMinutes        int    `json:"workedMinutes"`
	ExpectedMinutes      int    `json:"expectedMinutes"`
	SickMinutes          int    `json:"sickMinutes"`
	VacationMinutes      int    `json:"vacationMinutes"`
	BalanceMinutes       int    `json:"balanceMinutes"`
	IsSickDay            bool   `json:"isSickDay"`
	IsVacationDay        bool   `json:"isVacationDay"`
	VacationDaysConsumed int    `json:"vacationDaysConsumed"` // running total within the call
	EntryCount           int    `json:"entryCount"`
	OpenEntries          int    `json:"openEntries"` // work entries missing a start or end
}

// Aggregate returns one summary per day of r in date order. Days without
// entries are included with zero actuals. Multiple entries on the same day
// are additive, even when their time ranges overlap.
func Aggregate(logs []domain.LogEntry, profile domain.ProfileSettings, r Range) []DailySummary {
	n := r.Days()
	if n == 0 {
		return []DailySummary{}
	}

	byDate := make(map[string][]int, len(logs))
	for i, e := range logs {
		byDate[e.Date] = append(byDate[e.Date], i)
	}

	out := make([]DailySummary, 0, n)
	consumed := 0
	day := domain.CivilDate(r.From)
	for i := 0; i < n; i++ {
		ds := summarizeDay(day, logs, byDate[domain.FormatDate(day)], profile)
		if ds.IsVacationDay {
			consumed++
		}
		ds.VacationDaysConsumed = consumed
		out = append(out, ds)
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func summarizeDay(day time.Time, logs []domain.LogEntry, idx []int, profile domain.ProfileSettings) DailySummary {
	ds := DailySummary{
		Date:            domain.FormatDate(day),
		IsWorkDay:       profile.IsWorkDay(day.Weekday()),
		ExpectedMinutes: profile.ExpectedMinutes(day.Weekday()),
		EntryCount:      len(idx),
	}
	for _, i := range idx {
		e := logs[i]
		switch e.Type {
		case domain.LogWork:
			if !e.HasTimes() {
				ds.OpenEntries++
				continue
			}
			ds.WorkedMinutes += e.NetMinutes()
		case domain.LogSickLeave:
			ds.IsSickDay = true
		case domain.LogVacation:
			ds.IsVacationDay = true
		}
	}

	// A day is excused at most once. Sick leave takes precedence when both
	// kinds are recorded.
	switch {
	case ds.IsSickDay:
		ds.SickMinutes = ds.ExpectedMinutes
	case ds.IsVacationDay:
		ds.VacationMinutes = ds.ExpectedMinutes
	}
	ds.BalanceMinutes = ds.WorkedMinutes + ds.SickMinutes + ds.VacationMinutes - ds.ExpectedMinutes
	return ds
}
