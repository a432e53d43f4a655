package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sadopc/saati/internal/domain"
)

// collaborator is the contract shared by Store and Guest.
type collaborator interface {
	LoadLogs(ctx context.Context) ([]domain.LogEntry, error)
	CreateLog(ctx context.Context, e domain.LogEntry) error
	ReplaceLog(ctx context.Context, id string, e domain.LogEntry) error
	RemoveLog(ctx context.Context, id string) error
	LoadTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, t domain.Task) error
	ReplaceTask(ctx context.Context, id string, t domain.Task) error
	RemoveTask(ctx context.Context, id string) error
	LoadProfile(ctx context.Context) (domain.ProfileSettings, error)
	ReplaceProfile(ctx context.Context, p domain.ProfileSettings) error
	Close() error
}

var (
	_ collaborator = (*Store)(nil)
	_ collaborator = (*Guest)(nil)
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachBackend runs fn against a fresh SQLite store and a fresh guest.
func forEachBackend(t *testing.T, fn func(t *testing.T, c collaborator)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newTestStore(t)) })
	t.Run("guest", func(t *testing.T) { fn(t, NewGuest()) })
}

func at(t *testing.T, s string) *time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return &v
}

func workEntry(t *testing.T, id, date string) domain.LogEntry {
	return domain.LogEntry{
		ID:           id,
		Date:         date,
		Type:         domain.LogWork,
		StartTime:    at(t, date+"T08:00:00+01:00"),
		EndTime:      at(t, date+"T16:30:00+01:00"),
		BreakMinutes: 30,
		Notes:        "standup, reviews",
	}
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/saati.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := s.CreateLog(ctx, workEntry(t, "a", "2024-03-04")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen: should succeed, not re-migrate, and keep the data.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	logs, err := s2.LoadLogs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].ID != "a" {
		t.Fatalf("expected persisted entry, got %+v", logs)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	// Running migrate again should be a no-op
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

func TestTypeCheckConstraint(t *testing.T) {
	s := newTestStore(t)
	e := workEntry(t, "x", "2024-03-04")
	e.Type = "holiday"
	if err := s.CreateLog(context.Background(), e); err == nil {
		t.Fatal("expected CHECK constraint failure for unknown type")
	}
}

// ============================================================
// Log entries
// ============================================================

func TestLogRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		want := workEntry(t, "log-1", "2024-03-04")
		if err := c.CreateLog(ctx, want); err != nil {
			t.Fatal(err)
		}
		if err := c.CreateLog(ctx, domain.LogEntry{ID: "log-2", Date: "2024-03-05", Type: domain.LogVacation}); err != nil {
			t.Fatal(err)
		}

		logs, err := c.LoadLogs(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(logs) != 2 {
			t.Fatalf("expected 2 logs, got %d", len(logs))
		}
		got := logs[0]
		if got.ID != want.ID || got.Date != want.Date || got.Type != want.Type || got.BreakMinutes != 30 || got.Notes != want.Notes {
			t.Fatalf("unexpected entry: %+v", got)
		}
		if !got.StartTime.Equal(*want.StartTime) || !got.EndTime.Equal(*want.EndTime) {
			t.Fatalf("times changed: %v..%v", got.StartTime, got.EndTime)
		}
		// The stored offset keeps the calendar day.
		if !domain.SameDay(*got.StartTime, *got.EndTime) {
			t.Fatal("start and end should share a day")
		}
		if logs[1].StartTime != nil || logs[1].EndTime != nil {
			t.Fatal("vacation entry should have no times")
		}
		if err := domain.ValidateLogEntry(got); err != nil {
			t.Fatalf("loaded entry should validate: %v", err)
		}
	})
}

func TestLogInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		for _, id := range []string{"c", "a", "b"} {
			if err := c.CreateLog(ctx, workEntry(t, id, "2024-03-04")); err != nil {
				t.Fatal(err)
			}
		}
		// Replacing keeps position.
		if err := c.ReplaceLog(ctx, "c", workEntry(t, "c", "2024-03-09")); err != nil {
			t.Fatal(err)
		}
		logs, _ := c.LoadLogs(ctx)
		for i, id := range []string{"c", "a", "b"} {
			if logs[i].ID != id {
				t.Fatalf("position %d: got %s, want %s", i, logs[i].ID, id)
			}
		}
		if logs[0].Date != "2024-03-09" {
			t.Fatalf("replace did not apply: %+v", logs[0])
		}
	})
}

func TestLogDuplicateID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		c.CreateLog(ctx, workEntry(t, "dup", "2024-03-04"))
		if err := c.CreateLog(ctx, workEntry(t, "dup", "2024-03-05")); err == nil {
			t.Fatal("expected error for duplicate id")
		}
	})
}

func TestLogReplaceClearsTimes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		c.CreateLog(ctx, workEntry(t, "x", "2024-03-04"))
		if err := c.ReplaceLog(ctx, "x", domain.LogEntry{ID: "x", Date: "2024-03-04", Type: domain.LogSickLeave}); err != nil {
			t.Fatal(err)
		}
		logs, _ := c.LoadLogs(ctx)
		if logs[0].Type != domain.LogSickLeave || logs[0].StartTime != nil || logs[0].Notes != "" {
			t.Fatalf("full replace expected, got %+v", logs[0])
		}
	})
}

func TestLogMissingID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		if err := c.ReplaceLog(ctx, "nope", workEntry(t, "nope", "2024-03-04")); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("replace: expected ErrNotFound, got %v", err)
		}
		if err := c.RemoveLog(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("remove: expected ErrNotFound, got %v", err)
		}
	})
}

func TestLogRemove(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		c.CreateLog(ctx, workEntry(t, "a", "2024-03-04"))
		c.CreateLog(ctx, workEntry(t, "b", "2024-03-05"))
		if err := c.RemoveLog(ctx, "a"); err != nil {
			t.Fatal(err)
		}
		logs, _ := c.LoadLogs(ctx)
		if len(logs) != 1 || logs[0].ID != "b" {
			t.Fatalf("unexpected logs after remove: %+v", logs)
		}
	})
}

func TestLoadLogsEmpty(t *testing.T) {
	s := newTestStore(t)
	logs, err := s.LoadLogs(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if logs != nil {
		t.Fatalf("expected nil slice, got %d items", len(logs))
	}
}

func TestLoadLogsCorruptTimestamp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateLog(ctx, workEntry(t, "a", "2024-03-04")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE log_entries SET start_time = ? WHERE id = ?`, "08:00", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadLogs(ctx); err == nil {
		t.Fatal("expected parse error for corrupt start_time")
	}
}

func TestGuestLoadReturnsCopies(t *testing.T) {
	g := NewGuest()
	ctx := context.Background()
	g.CreateLog(ctx, workEntry(t, "a", "2024-03-04"))

	logs, _ := g.LoadLogs(ctx)
	*logs[0].StartTime = logs[0].StartTime.Add(time.Hour)
	logs[0].Notes = "changed"

	again, _ := g.LoadLogs(ctx)
	if again[0].Notes != "standup, reviews" || again[0].StartTime.Hour() != 8 {
		t.Fatalf("guest state leaked through a loaded copy: %+v", again[0])
	}
}

// ============================================================
// Tasks
// ============================================================

func TestTaskRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		due := *at(t, "2024-03-04T10:00:00+01:00")
		want := domain.Task{ID: "t1", Title: "Submit timesheet", DueDate: due, ReminderMinutes: 15}
		if err := c.CreateTask(ctx, want); err != nil {
			t.Fatal(err)
		}
		tasks, err := c.LoadTasks(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 task, got %d", len(tasks))
		}
		got := tasks[0]
		if got.ID != "t1" || got.Title != want.Title || got.ReminderMinutes != 15 || got.IsCompleted {
			t.Fatalf("unexpected task: %+v", got)
		}
		if !got.DueDate.Equal(due) {
			t.Fatalf("due date changed: %v", got.DueDate)
		}

		got.IsCompleted = true
		got.Title = "Submit timesheet (March)"
		if err := c.ReplaceTask(ctx, "t1", got); err != nil {
			t.Fatal(err)
		}
		tasks, _ = c.LoadTasks(ctx)
		if !tasks[0].IsCompleted || tasks[0].Title != "Submit timesheet (March)" {
			t.Fatalf("replace did not apply: %+v", tasks[0])
		}

		if err := c.RemoveTask(ctx, "t1"); err != nil {
			t.Fatal(err)
		}
		tasks, _ = c.LoadTasks(ctx)
		if len(tasks) != 0 {
			t.Fatal("task should be removed")
		}
	})
}

func TestTaskMissingID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		if err := c.ReplaceTask(ctx, "nope", domain.Task{ID: "nope", Title: "x"}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("replace: expected ErrNotFound, got %v", err)
		}
		if err := c.RemoveTask(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("remove: expected ErrNotFound, got %v", err)
		}
	})
}

func TestLoadTasksCorruptDueDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.CreateTask(ctx, domain.Task{ID: "t1", Title: "x", DueDate: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(`UPDATE tasks SET due_date = ? WHERE id = ?`, "tomorrow", "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadTasks(ctx); err == nil {
		t.Fatal("expected parse error for corrupt due_date")
	}
}

// ============================================================
// Profile
// ============================================================

func TestProfileDefaultsWhenUnsaved(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		p, err := c.LoadProfile(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if p != domain.DefaultProfile() {
			t.Fatalf("expected default profile, got %+v", p)
		}
	})
}

func TestProfileReplace(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c collaborator) {
		ctx := context.Background()
		want := domain.ProfileSettings{WorkDaysPerWeek: 4, WorkHoursPerDay: 7.5, DefaultBreakMinutes: 45, TotalVacationDaysPerYear: 30}
		if err := c.ReplaceProfile(ctx, want); err != nil {
			t.Fatal(err)
		}
		got, err := c.LoadProfile(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})
}

func TestProfileCorruptSetting(t *testing.T) {
	s := newTestStore(t)
	s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, keyWorkDays, "five")
	if _, err := s.LoadProfile(context.Background()); err == nil {
		t.Fatal("expected parse error for corrupt setting")
	}
}
