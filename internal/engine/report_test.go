package engine

import (
	"testing"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLogs() []domain.LogEntry {
	return []domain.LogEntry{
		testutil.WorkLog("2024-02-28", "08:00", "18:00", 30),
		testutil.WorkLog("2024-02-29", "09:00", "15:00", 0),
		testutil.SickLog("2024-03-01"),
		testutil.WorkLog("2024-03-02", "10:00", "12:00", 0),
		testutil.VacationLog("2024-03-04"),
		testutil.VacationLog("2024-03-05"),
		testutil.WorkLog("2024-03-06", "08:00", "17:00", 30),
		testutil.WorkLog("2024-03-06", "19:00", "20:00", 0),
	}
}

func TestGenerateReport_TotalsMatchBreakdown(t *testing.T) {
	r := mustRange(t, "2024-02-26", "2024-03-10")
	for _, g := range []Granularity{ByDay, ByWeek, ByMonth} {
		t.Run(string(g), func(t *testing.T) {
			rep := GenerateReport(sampleLogs(), domain.DefaultProfile(), r, g)

			var worked, expected, balance, vac, sick int
			for _, p := range rep.Groups {
				worked += p.WorkedMinutes
				expected += p.ExpectedMinutes
				balance += p.BalanceMinutes
				vac += p.VacationDays
				sick += p.SickDays
			}
			assert.Equal(t, rep.Totals.WorkedMinutes, worked)
			assert.Equal(t, rep.Totals.ExpectedMinutes, expected)
			assert.Equal(t, rep.Totals.BalanceMinutes, balance)
			assert.Equal(t, rep.Totals.VacationDays, vac)
			assert.Equal(t, rep.Totals.SickDays, sick)
			assert.Equal(t, rep.Totals.BalanceMinutes, rep.Totals.OvertimeMinutes-rep.Totals.UndertimeMinutes)
		})
	}
}

func TestGenerateReport_Values(t *testing.T) {
	rep := GenerateReport(sampleLogs(), domain.DefaultProfile(), mustRange(t, "2024-02-26", "2024-03-10"), ByWeek)

	// 570 + 360 + 120 + 510 + 60
	assert.Equal(t, 1620, rep.Totals.WorkedMinutes)
	// 10 weekdays
	assert.Equal(t, 4800, rep.Totals.ExpectedMinutes)
	assert.Equal(t, 2, rep.Totals.VacationDays)
	assert.Equal(t, 1, rep.Totals.SickDays)
	assert.Equal(t, 1620+480+960-4800, rep.Totals.BalanceMinutes)
	assert.Equal(t, "2024-02-26", rep.From)
	assert.Equal(t, "2024-03-10", rep.To)
	assert.Len(t, rep.Days, 14)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "2024-W09", rep.Groups[0].Key)
	assert.Equal(t, "2024-W10", rep.Groups[1].Key)
	assert.False(t, rep.Groups[0].Partial)
	assert.False(t, rep.Groups[1].Partial)
}

func TestGenerateReport_PartialPeriods(t *testing.T) {
	rep := GenerateReport(nil, domain.DefaultProfile(), mustRange(t, "2024-02-28", "2024-03-05"), ByWeek)
	require.Len(t, rep.Groups, 2)
	assert.True(t, rep.Groups[0].Partial)
	assert.Equal(t, 5, rep.Groups[0].Days)
	assert.Equal(t, "2024-02-28", rep.Groups[0].From)
	assert.Equal(t, "2024-03-03", rep.Groups[0].To)
	assert.True(t, rep.Groups[1].Partial)

	rep = GenerateReport(nil, domain.DefaultProfile(), mustRange(t, "2024-02-01", "2024-03-15"), ByMonth)
	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "2024-02", rep.Groups[0].Key)
	assert.Equal(t, 29, rep.Groups[0].Days)
	assert.False(t, rep.Groups[0].Partial)
	assert.True(t, rep.Groups[1].Partial)
}

func TestGenerateReport_EmptyLogs(t *testing.T) {
	rep := GenerateReport(nil, domain.DefaultProfile(), mustRange(t, "2024-03-04", "2024-03-10"), ByDay)
	assert.Zero(t, rep.Totals.WorkedMinutes)
	assert.Equal(t, 2400, rep.Totals.ExpectedMinutes)
	assert.Equal(t, -2400, rep.Totals.BalanceMinutes)
	assert.Equal(t, 2400, rep.Totals.UndertimeMinutes)
	assert.Len(t, rep.Groups, 7)
}

func TestGenerateReport_EmptyRange(t *testing.T) {
	rep := GenerateReport(sampleLogs(), domain.DefaultProfile(), mustRange(t, "2024-03-10", "2024-03-01"), ByWeek)
	assert.Empty(t, rep.Days)
	assert.NotNil(t, rep.Groups)
	assert.Empty(t, rep.Groups)
	assert.Empty(t, rep.Vacation)
}

func TestGenerateReport_Deterministic(t *testing.T) {
	logs := sampleLogs()
	r := mustRange(t, "2024-02-01", "2024-03-31")
	a := GenerateReport(logs, domain.DefaultProfile(), r, ByMonth)
	b := GenerateReport(logs, domain.DefaultProfile(), r, ByMonth)
	assert.Equal(t, a, b)
}

func TestGenerateReport_VacationOverUsageIsFlagged(t *testing.T) {
	profile := domain.DefaultProfile()
	profile.TotalVacationDaysPerYear = 1
	logs := []domain.LogEntry{
		testutil.VacationLog("2023-12-29"),
		testutil.VacationLog("2024-01-02"),
		testutil.VacationLog("2024-01-03"),
	}
	rep := GenerateReport(logs, profile, mustRange(t, "2023-12-25", "2024-01-07"), ByWeek)

	require.Len(t, rep.Vacation, 2)
	assert.Equal(t, VacationUsage{Year: 2023, Used: 1, Allowance: 1, Remaining: 0}, rep.Vacation[0])
	assert.Equal(t, VacationUsage{Year: 2024, Used: 2, Allowance: 1, Remaining: -1, Exceeded: true}, rep.Vacation[1])
	assert.Equal(t, 3, rep.Totals.VacationDays)
}

func TestGenerateReport_UnknownGranularityFallsBackToDay(t *testing.T) {
	rep := GenerateReport(nil, domain.DefaultProfile(), mustRange(t, "2024-03-04", "2024-03-06"), "fortnight")
	assert.Equal(t, ByDay, rep.Granularity)
	assert.Len(t, rep.Groups, 3)
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, ByDay, g)

	g, err = ParseGranularity("month")
	require.NoError(t, err)
	assert.Equal(t, ByMonth, g)

	_, err = ParseGranularity("year")
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Equal(t, "granularity", domain.FieldOf(err))
}

func TestRollup_ISOWeekAcrossYear(t *testing.T) {
	days := Aggregate(nil, domain.DefaultProfile(), mustRange(t, "2024-12-30", "2025-01-05"))
	groups := Rollup(days, ByWeek)
	require.Len(t, groups, 1)
	assert.Equal(t, "2025-W01", groups[0].Key)
	assert.False(t, groups[0].Partial)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0:00", FormatMinutes(0))
	assert.Equal(t, "8:00", FormatMinutes(480))
	assert.Equal(t, "-1:05", FormatMinutes(-65))
	assert.Equal(t, "+3:00", FormatBalance(180))
	assert.Equal(t, "-0:30", FormatBalance(-30))
	assert.Equal(t, "0:00", FormatBalance(0))
}
