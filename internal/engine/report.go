package engine

import (
	"github.com/sadopc/saati/internal/domain"
)

// Totals are the report-wide sums.
type Totals struct {
	WorkedMinutes    int `json:"totalWorkedMinutes"`
	ExpectedMinutes  int `json:"totalExpectedMinutes"`
	BalanceMinutes   int `json:"totalBalanceMinutes"`
	VacationDays     int `json:"totalVacationDays"`
	SickDays         int `json:"totalSickDays"`
	OvertimeMinutes  int `json:"overtimeMinutes"`
	UndertimeMinutes int `json:"undertimeMinutes"`
}

// VacationUsage compares vacation taken inside the report range against
// the yearly allowance. Exceeding it is flagged, never clamped.
type VacationUsage struct {
	Year      int  `json:"year"`
	Used      int  `json:"used"`
	Allowance int  `json:"allowance"`
	Remaining int  `json:"remaining"`
	Exceeded  bool `json:"exceeded"`
}

type Report struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Granularity Granularity     `json:"granularity"`
	Totals      Totals          `json:"totals"`
	Groups      []PeriodSummary `json:"groups"`
	Days        []DailySummary  `json:"days"`
	Vacation    []VacationUsage `json:"vacation"`
}

// GenerateReport aggregates logs over r and groups the result by g. An
// invalid granularity falls back to ByDay. The inputs are not modified.
func GenerateReport(logs []domain.LogEntry, profile domain.ProfileSettings, r Range, g Granularity) Report {
	if !g.Valid() {
		g = ByDay
	}
	days := Aggregate(logs, profile, r)
	rep := Report{
		From:        domain.FormatDate(r.From),
		To:          domain.FormatDate(r.To),
		Granularity: g,
		Groups:      Rollup(days, g),
		Days:        days,
		Vacation:    []VacationUsage{},
	}
	if rep.Groups == nil {
		rep.Groups = []PeriodSummary{}
	}

	usage := map[int]*VacationUsage{}
	var years []int
	for _, d := range days {
		t := &rep.Totals
		t.WorkedMinutes += d.WorkedMinutes
		t.ExpectedMinutes += d.ExpectedMinutes
		t.BalanceMinutes += d.BalanceMinutes
		if d.BalanceMinutes > 0 {
			t.OvertimeMinutes += d.BalanceMinutes
		} else {
			t.UndertimeMinutes -= d.BalanceMinutes
		}
		if d.IsSickDay {
			t.SickDays++
		}

		day, _ := domain.ParseDate(d.Date)
		u, ok := usage[day.Year()]
		if !ok {
			u = &VacationUsage{Year: day.Year(), Allowance: profile.TotalVacationDaysPerYear}
			usage[day.Year()] = u
			years = append(years, day.Year())
		}
		if d.IsVacationDay {
			t.VacationDays++
			u.Used++
		}
	}

	for _, y := range years {
		u := usage[y]
		u.Remaining = u.Allowance - u.Used
		u.Exceeded = u.Used > u.Allowance
		rep.Vacation = append(rep.Vacation, *u)
	}
	return rep
}
