package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/session"
	"github.com/sadopc/saati/internal/store"
	"github.com/sadopc/saati/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

// testApp wires an App over a guest session with a fixed clock.
func testApp(t *testing.T) *App {
	t.Helper()
	n := 0
	s, err := session.Open(context.Background(), store.NewGuest(), session.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}))
	require.NoError(t, err)
	app := &App{
		Session:  s,
		Now:      func() time.Time { return testNow },
		Location: time.UTC,
	}
	t.Cleanup(func() { app.Close() })
	return app
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// --- log ---

func TestLogAdd_DefaultBreakFromProfile(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "log", "add", "--date", "2024-03-04", "--start", "08:00", "--end", "17:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged work on 2024-03-04 (8:30 net)")

	logs := app.Session.Logs.List()
	require.Len(t, logs, 1)
	assert.Equal(t, 30, logs[0].BreakMinutes)
	assert.Equal(t, testutil.At("2024-03-04T08:00"), *logs[0].StartTime)
}

func TestLogAdd_ExplicitBreakAndToday(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "log", "add", "--start", "9:00", "--end", "10:00", "--break", "0")
	require.NoError(t, err)

	e := app.Session.Logs.List()[0]
	assert.Equal(t, "2024-03-11", e.Date)
	assert.Equal(t, 0, e.BreakMinutes)
	assert.Equal(t, 60, e.NetMinutes())
}

func TestLogAdd_ShortEntrySkipsDefaultBreak(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "log", "add", "--start", "09:00", "--end", "09:20")
	require.NoError(t, err)
	assert.Equal(t, 0, app.Session.Logs.List()[0].BreakMinutes)
}

func TestLogAdd_Invalid(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "log", "add", "--type", "sickLeave", "--start", "08:00")
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Equal(t, "startTime", domain.FieldOf(err))

	_, err = executeCmd(t, app, "log", "add", "--type", "holiday")
	assert.Equal(t, "type", domain.FieldOf(err))

	_, err = executeCmd(t, app, "log", "add", "--start", "8am")
	assert.ErrorContains(t, err, "--start")

	_, err = executeCmd(t, app, "log", "add", "--date", "2024-03-05",
		"--start", "2024-03-06T08:00", "--end", "2024-03-06T10:00")
	require.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Equal(t, "startTime", domain.FieldOf(err))

	assert.Zero(t, app.Session.Logs.Len())
}

func TestLogList(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "log", "add", "--date", "2024-03-04", "--start", "08:00", "--end", "12:00", "--notes", "standup")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "log", "add", "--date", "2024-03-05", "--type", "vacation")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "log", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "id-001")
	assert.Contains(t, out, "standup")
	assert.Contains(t, out, "vacation")
	assert.Less(t, strings.Index(out, "2024-03-04"), strings.Index(out, "2024-03-05"))

	out, err = executeCmd(t, app, "log", "list", "--from", "2024-03-05")
	require.NoError(t, err)
	assert.NotContains(t, out, "2024-03-04")
	assert.Contains(t, out, "2024-03-05")
}

func TestLogList_Empty(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "log", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entries found.")
}

func TestLogEdit(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "log", "add", "--date", "2024-03-04", "--start", "08:00", "--end", "16:00")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "log", "edit", "id-001", "--date", "2024-03-06", "--notes", "moved")
	require.NoError(t, err)
	e, err := app.Session.Logs.Get("id-001")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", e.Date)
	assert.Equal(t, testutil.At("2024-03-06T08:00"), *e.StartTime)
	assert.Equal(t, "moved", e.Notes)

	_, err = executeCmd(t, app, "log", "edit", "id-001", "--type", "vacation")
	require.NoError(t, err)
	e, _ = app.Session.Logs.Get("id-001")
	assert.Equal(t, domain.LogVacation, e.Type)
	assert.Nil(t, e.StartTime)
	assert.Zero(t, e.BreakMinutes)
}

func TestLogEdit_InvalidKeepsEntry(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "log", "add", "--date", "2024-03-04", "--start", "08:00", "--end", "16:00")
	require.NoError(t, err)
	before := app.Session.Logs.List()

	_, err = executeCmd(t, app, "log", "edit", "id-001", "--end", "07:00")
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
	assert.Equal(t, before, app.Session.Logs.List())
}

func TestLogRemove_PrefixResolution(t *testing.T) {
	app := testApp(t)
	for _, d := range []string{"2024-03-04", "2024-03-05"} {
		_, err := executeCmd(t, app, "log", "add", "--date", d, "--type", "sickLeave")
		require.NoError(t, err)
	}

	_, err := executeCmd(t, app, "log", "rm", "id-")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = executeCmd(t, app, "log", "rm", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err := executeCmd(t, app, "log", "rm", "id-002")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted log entry id-002")
	assert.Equal(t, 1, app.Session.Logs.Len())
}

// --- task / remind ---

func TestTaskLifecycle(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "add", "--title", "Timesheet", "--due", "2024-03-11T16:00", "--remind", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "reminder at 15:30")

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Timesheet")
	assert.Contains(t, out, "pending")

	_, err = executeCmd(t, app, "task", "edit", "id-001", "--due", "11:00")
	require.NoError(t, err)
	task, _ := app.Session.Tasks.Get("id-001")
	assert.Equal(t, testutil.At("2024-03-11T11:00"), task.DueDate)

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "due")

	out, err = executeCmd(t, app, "task", "done", "id-001")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed")

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	out, err = executeCmd(t, app, "task", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "done")

	_, err = executeCmd(t, app, "task", "done", "id-001", "--undo")
	require.NoError(t, err)
	task, _ = app.Session.Tasks.Get("id-001")
	assert.False(t, task.IsCompleted)

	_, err = executeCmd(t, app, "task", "rm", "id-001")
	require.NoError(t, err)
	assert.Zero(t, app.Session.Tasks.Len())
}

func TestTaskAdd_RequiresTitleAndDue(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "task", "add", "--title", "x")
	assert.Error(t, err)

	_, err = executeCmd(t, testApp(t), "task", "add", "--title", "x", "--due", "10:00", "--remind", "-5")
	assert.Equal(t, "reminderMinutes", domain.FieldOf(err))
}

func TestRemind(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, err := app.Session.Tasks.Add(ctx, testutil.NewTask("Standup", "2024-03-04T10:00", 15))
	require.NoError(t, err)
	_, err = app.Session.Tasks.Add(ctx, testutil.NewTask("Review", "2024-03-04T09:50", 0))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "remind", "--at", "2024-03-04T09:44")
	require.NoError(t, err)
	assert.Contains(t, out, "No reminders due.")
	assert.Contains(t, out, "Next reminder at 2024-03-04 09:45")

	out, err = executeCmd(t, app, "remind", "--at", "2024-03-04T09:50")
	require.NoError(t, err)
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Review")
	assert.Less(t, strings.Index(out, "Review"), strings.Index(out, "Standup"), "earliest due first")
	assert.NotContains(t, out, "Next reminder")
}

// --- profile ---

func TestProfileSetAndShow(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "profile", "set", "--days", "4", "--hours", "9.5")
	require.NoError(t, err)
	p := app.Session.Profile.Get()
	assert.Equal(t, 4, p.WorkDaysPerWeek)
	assert.Equal(t, 9.5, p.WorkHoursPerDay)
	assert.Equal(t, 30, p.DefaultBreakMinutes, "untouched fields keep their value")

	out, err := executeCmd(t, app, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "9.5")

	_, err = executeCmd(t, app, "profile", "set", "--days", "8")
	assert.Equal(t, "workDaysPerWeek", domain.FieldOf(err))
	assert.Equal(t, 4, app.Session.Profile.Get().WorkDaysPerWeek)
}

// --- report / export ---

func seedWeek(t *testing.T, app *App) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []domain.LogEntry{
		testutil.WorkLog("2024-03-04", "08:00", "17:00", 30),
		testutil.SickLog("2024-03-05"),
		testutil.VacationLog("2024-03-06"),
		testutil.WorkLog("2024-03-09", "09:00", "12:00", 0),
	} {
		_, err := app.Session.Logs.Add(ctx, e)
		require.NoError(t, err)
	}
}

func TestReport_Table(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)

	out, err := executeCmd(t, app, "report", "--from", "2024-03-04", "--to", "2024-03-10", "--by", "week")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-W10")
	assert.Contains(t, out, "11:00 of 40:00")
	assert.Contains(t, out, "-13:00")
	assert.Contains(t, out, "1 sick, 1 vacation")
	assert.Contains(t, out, "Vacation 2024: 1 of 25 used, 24 remaining")
}

func TestReport_DefaultsToCurrentMonth(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)

	out, err := executeCmd(t, app, "report", "--by", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01 .. 2024-03-11")
	assert.Contains(t, out, "(partial)")
}

func TestReport_JSON(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)

	out, err := executeCmd(t, app, "report", "--from", "2024-03-04", "--to", "2024-03-10", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Report struct {
			Totals struct {
				Worked  int `json:"totalWorkedMinutes"`
				Balance int `json:"totalBalanceMinutes"`
			} `json:"totals"`
			Groups []json.RawMessage `json:"groups"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 660, doc.Report.Totals.Worked)
	assert.Equal(t, -780, doc.Report.Totals.Balance)
	assert.Len(t, doc.Report.Groups, 7, "granularity defaults to day")
}

func TestReport_InvalidInput(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "report", "--by", "year")
	assert.Equal(t, "granularity", domain.FieldOf(err))

	_, err = executeCmd(t, app, "report", "--from", "March")
	assert.ErrorContains(t, err, "range start")

	_, err = executeCmd(t, app, "report", "--format", "xml")
	assert.ErrorContains(t, err, "--format")
}

func TestExport_LogsToStdout(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)

	out, err := executeCmd(t, app, "export", "logs")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Date,Type"))

	_, err = executeCmd(t, app, "export", "logs", "--format", "json")
	assert.Error(t, err)
}

func TestExport_ReportToFile(t *testing.T) {
	app := testApp(t)
	seedWeek(t, app)
	path := filepath.Join(t.TempDir(), "march.json")

	out, err := executeCmd(t, app, "export", "report", "--from", "2024-03-01", "--to", "2024-03-31", "--by", "month", "--format", "json", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported report to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"key": "2024-03"`)
}

// --- root ---

func TestRoot_NonInteractivePrintsHelp(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }
	app.RunTUI = func(*App) error {
		t.Fatal("TUI should not start without a terminal")
		return nil
	}
	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestRoot_InteractiveStartsTUI(t *testing.T) {
	app := testApp(t)
	started := false
	app.IsInteractive = func() bool { return true }
	app.RunTUI = func(*App) error { started = true; return nil }
	_, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.True(t, started)
}

func TestRoot_GuestFlagOpensSession(t *testing.T) {
	app := &App{Now: func() time.Time { return testNow }, Location: time.UTC}
	t.Cleanup(func() { app.Close() })

	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")
	out, err := executeCmd(t, app, "--config", cfgPath, "--guest", "log", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No log entries found.")
	require.NotNil(t, app.Session)
	assert.True(t, app.Config.Guest())
}

func TestRoot_DBFlagPersists(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "missing.yaml")
	dbPath := filepath.Join(dir, "saati.db")

	app := &App{Now: func() time.Time { return testNow }, Location: time.UTC}
	_, err := executeCmd(t, app, "--config", cfgPath, "--db", dbPath, "log", "add", "--type", "vacation")
	require.NoError(t, err)
	require.NoError(t, app.Close())

	app = &App{Now: func() time.Time { return testNow }, Location: time.UTC}
	t.Cleanup(func() { app.Close() })
	out, err := executeCmd(t, app, "--config", cfgPath, "--db", dbPath, "log", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "vacation")
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}

	id, err := resolveID("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc", id, "exact match wins over prefix")

	id, err = resolveID("task", "abd", ids)
	require.NoError(t, err)
	assert.Equal(t, "abd456", id)

	_, err = resolveID("task", "ab", ids)
	assert.ErrorContains(t, err, "ambiguous")
}
