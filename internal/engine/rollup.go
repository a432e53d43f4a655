package engine

import (
	"fmt"
	"time"

	"github.com/sadopc/saati/internal/domain"
)

// Granularity selects how daily summaries are grouped.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	switch g {
	case ByDay, ByWeek, ByMonth:
		return true
	}
	return false
}

// ParseGranularity maps user input to a Granularity. Empty means ByDay.
func ParseGranularity(s string) (Granularity, error) {
	if s == "" {
		return ByDay, nil
	}
	g := Granularity(s)
	if !g.Valid() {
		return "", &domain.InvalidRecordError{Record: "report", Field: "granularity", Reason: "must be day, week or month"}
	}
	return g, nil
}

// PeriodSummary sums the daily summaries of one day, ISO week or month.
type PeriodSummary struct {
	Key             string `json:"key"` // 2024-03-04, 2024-W10 or 2024-03
	From            string `json:"from"`
	To              string `json:"to"`
	Days            int    `json:"days"`
	Partial         bool   `json:"partial"` // the range cuts the period short
	WorkedMinutes   int    `json:"workedMinutes"`
	ExpectedMinutes int    `json:"expectedMinutes"`
	SickMinutes     int    `json:"sickMinutes"`
	VacationMinutes int    `json:"vacationMinutes"`
	BalanceMinutes  int    `json:"balanceMinutes"`
	VacationDays    int    `json:"vacationDays"`
	SickDays        int    `json:"sickDays"`
}

// Rollup groups consecutive days sharing a period key. Days must be in
// date order, as Aggregate returns them.
func Rollup(days []DailySummary, g Granularity) []PeriodSummary {
	if !g.Valid() {
		g = ByDay
	}
	var out []PeriodSummary
	for _, d := range days {
		day, err := domain.ParseDate(d.Date)
		if err != nil {
			continue
		}
		key := periodKey(day, g)
		if len(out) == 0 || out[len(out)-1].Key != key {
			out = append(out, PeriodSummary{Key: key, From: d.Date})
		}
		p := &out[len(out)-1]
		p.To = d.Date
		p.Days++
		p.WorkedMinutes += d.WorkedMinutes
		p.ExpectedMinutes += d.ExpectedMinutes
		p.SickMinutes += d.SickMinutes
		p.VacationMinutes += d.VacationMinutes
		p.BalanceMinutes += d.BalanceMinutes
		if d.IsVacationDay {
			p.VacationDays++
		}
		if d.IsSickDay {
			p.SickDays++
		}
	}
	for i := range out {
		from, _ := domain.ParseDate(out[i].From)
		out[i].Partial = out[i].Days < periodLength(from, g)
	}
	return out
}

func periodKey(day time.Time, g Granularity) string {
	switch g {
	case ByWeek:
		y, w := day.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case ByMonth:
		return day.Format("2006-01")
	default:
		return domain.FormatDate(day)
	}
}

func periodLength(day time.Time, g Granularity) int {
	switch g {
	case ByWeek:
		return 7
	case ByMonth:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, 1, -1).Day()
	default:
		return 1
	}
}
