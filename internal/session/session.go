// Package session owns the log, task and profile stores of one user
// session. The persistence collaborator is chosen once, in Open; nothing
// below branches on which one it is.
//
// The stores hold no locks. Callers serialize access to a Session.
package session

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/engine"
)

type Session struct {
	Logs    *LogStore
	Tasks   *TaskStore
	Profile *ProfileStore

	backend Persistence
	logger  *slog.Logger
}

type options struct {
	logger *slog.Logger
	newID  func() string
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithIDGenerator overrides uuid ids, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// Open loads all records from backend. The returned session owns backend
// and closes it in Close.
func Open(ctx context.Context, backend Persistence, opts ...Option) (*Session, error) {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Session{
		Logs:    newLogStore(backend, o.logger, o.newID),
		Tasks:   newTaskStore(backend, o.logger, o.newID),
		Profile: &ProfileStore{backend: backend, logger: o.logger},
		backend: backend,
		logger:  o.logger,
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload discards local state and reads everything from the collaborator
// again. On error the previous state is kept.
func (s *Session) Reload(ctx context.Context) error {
	logs, err := s.backend.LoadLogs(ctx)
	if err != nil {
		return persistErr("load logs", err)
	}
	tasks, err := s.backend.LoadTasks(ctx)
	if err != nil {
		return persistErr("load tasks", err)
	}
	profile, err := s.backend.LoadProfile(ctx)
	if err != nil {
		return persistErr("load profile", err)
	}
	if err := domain.ValidateProfile(profile); err != nil {
		s.logger.WarnContext(ctx, "stored profile invalid, using defaults", "error", err)
		profile = domain.DefaultProfile()
	}

	if n := s.Logs.entries.load(logs); n > 0 {
		s.logger.WarnContext(ctx, "dropped duplicate log ids", "count", n)
	}
	if n := s.Tasks.tasks.load(tasks); n > 0 {
		s.logger.WarnContext(ctx, "dropped duplicate task ids", "count", n)
	}
	s.Profile.current = profile
	s.logger.InfoContext(ctx, "session loaded",
		"logs", s.Logs.Len(),
		"tasks", s.Tasks.Len(),
	)
	return nil
}

func (s *Session) Close() error {
	return s.backend.Close()
}

// Aggregate summarizes the current logs day by day over r.
func (s *Session) Aggregate(r engine.Range) []engine.DailySummary {
	return engine.Aggregate(s.Logs.entries.items, s.Profile.current, r)
}

// Report builds a report over r from the current logs and profile.
func (s *Session) Report(r engine.Range, g engine.Granularity) engine.Report {
	return engine.GenerateReport(s.Logs.entries.items, s.Profile.current, r, g)
}

// DueReminders yields the tasks whose reminder is due at now.
func (s *Session) DueReminders(now time.Time) iter.Seq[domain.Task] {
	return engine.DueReminders(s.Tasks.List(), now)
}
