package session

import (
	"context"
	"log/slog"

	"github.com/sadopc/saati/internal/domain"
)

// LogStore holds the session's log entries. A mutation reaches the
// in-memory list only after the collaborator accepted it.
type LogStore struct {
	backend Persistence
	logger  *slog.Logger
	newID   func() string
	entries *collection[domain.LogEntry]
}

func newLogStore(backend Persistence, logger *slog.Logger, newID func() string) *LogStore {
	return &LogStore{
		backend: backend,
		logger:  logger,
		newID:   newID,
		entries: newCollection(
			func(e domain.LogEntry) string { return e.ID },
			domain.LogEntry.Clone,
		),
	}
}

// List returns the entries in insertion order.
func (s *LogStore) List() []domain.LogEntry {
	return s.entries.list()
}

// Between returns entries dated within [from, to] (YYYY-MM-DD, inclusive).
func (s *LogStore) Between(from, to string) []domain.LogEntry {
	var out []domain.LogEntry
	for _, e := range s.entries.list() {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out
}

func (s *LogStore) Len() int { return s.entries.len() }

func (s *LogStore) Get(id string) (domain.LogEntry, error) {
	e, ok := s.entries.get(id)
	if !ok {
		return domain.LogEntry{}, domain.NotFound("log entry", id)
	}
	return e, nil
}

// Add stores a new entry, assigning an id when e has none.
func (s *LogStore) Add(ctx context.Context, e domain.LogEntry) (domain.LogEntry, error) {
	e = e.Clone()
	if e.ID == "" {
		e.ID = s.newID()
	}
	if err := domain.ValidateLogEntry(e); err != nil {
		return domain.LogEntry{}, err
	}
	if s.entries.has(e.ID) {
		return domain.LogEntry{}, &domain.InvalidRecordError{Record: "log entry", Field: "id", Reason: "already exists"}
	}
	if err := s.backend.CreateLog(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "create log failed", "id", e.ID, "error", err)
		return domain.LogEntry{}, persistErr("create log entry", err)
	}
	s.entries.add(e)
	s.logger.DebugContext(ctx, "log added", "id", e.ID, "date", e.Date, "type", e.Type)
	return e.Clone(), nil
}

// Update replaces the whole entry stored under id. The id itself cannot change.
func (s *LogStore) Update(ctx context.Context, id string, e domain.LogEntry) (domain.LogEntry, error) {
	if !s.entries.has(id) {
		return domain.LogEntry{}, domain.NotFound("log entry", id)
	}
	e = e.Clone()
	if e.ID == "" {
		e.ID = id
	}
	if e.ID != id {
		return domain.LogEntry{}, &domain.InvalidRecordError{Record: "log entry", Field: "id", Reason: "cannot be changed"}
	}
	if err := domain.ValidateLogEntry(e); err != nil {
		return domain.LogEntry{}, err
	}
	if err := s.backend.ReplaceLog(ctx, id, e); err != nil {
		s.logger.WarnContext(ctx, "replace log failed", "id", id, "error", err)
		return domain.LogEntry{}, persistErr("replace log entry", err)
	}
	s.entries.replace(id, e)
	s.logger.DebugContext(ctx, "log updated", "id", id)
	return e.Clone(), nil
}

func (s *LogStore) Delete(ctx context.Context, id string) error {
	if !s.entries.has(id) {
		return domain.NotFound("log entry", id)
	}
	if err := s.backend.RemoveLog(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "remove log failed", "id", id, "error", err)
		return persistErr("remove log entry", err)
	}
	s.entries.remove(id)
	s.logger.DebugContext(ctx, "log deleted", "id", id)
	return nil
}
