package session

import (
	"context"
	"log/slog"

	"github.com/sadopc/saati/internal/domain"
)

// TaskStore holds the session's tasks.
type TaskStore struct {
	backend Persistence
	logger  *slog.Logger
	newID   func() string
	tasks   *collection[domain.Task]
}

func newTaskStore(backend Persistence, logger *slog.Logger, newID func() string) *TaskStore {
	return &TaskStore{
		backend: backend,
		logger:  logger,
		newID:   newID,
		tasks: newCollection(
			func(t domain.Task) string { return t.ID },
			func(t domain.Task) domain.Task { return t },
		),
	}
}

func (s *TaskStore) List() []domain.Task { return s.tasks.list() }

func (s *TaskStore) Len() int { return s.tasks.len() }

func (s *TaskStore) Get(id string) (domain.Task, error) {
	t, ok := s.tasks.get(id)
	if !ok {
		return domain.Task{}, domain.NotFound("task", id)
	}
	return t, nil
}

func (s *TaskStore) Add(ctx context.Context, t domain.Task) (domain.Task, error) {
	if t.ID == "" {
		t.ID = s.newID()
	}
	if err := domain.ValidateTask(t); err != nil {
		return domain.Task{}, err
	}
	if s.tasks.has(t.ID) {
		return domain.Task{}, &domain.InvalidRecordError{Record: "task", Field: "id", Reason: "already exists"}
	}
	if err := s.backend.CreateTask(ctx, t); err != nil {
		s.logger.WarnContext(ctx, "create task failed", "id", t.ID, "error", err)
		return domain.Task{}, persistErr("create task", err)
	}
	s.tasks.add(t)
	s.logger.DebugContext(ctx, "task added", "id", t.ID, "due", t.DueDate)
	return t, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, t domain.Task) (domain.Task, error) {
	if !s.tasks.has(id) {
		return domain.Task{}, domain.NotFound("task", id)
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.ID != id {
		return domain.Task{}, &domain.InvalidRecordError{Record: "task", Field: "id", Reason: "cannot be changed"}
	}
	if err := domain.ValidateTask(t); err != nil {
		return domain.Task{}, err
	}
	if err := s.backend.ReplaceTask(ctx, id, t); err != nil {
		s.logger.WarnContext(ctx, "replace task failed", "id", id, "error", err)
		return domain.Task{}, persistErr("replace task", err)
	}
	s.tasks.replace(id, t)
	s.logger.DebugContext(ctx, "task updated", "id", id)
	return t, nil
}

// Save adds t when its id is empty or unknown, and replaces it otherwise.
func (s *TaskStore) Save(ctx context.Context, t domain.Task) (domain.Task, error) {
	if t.ID != "" && s.tasks.has(t.ID) {
		return s.Update(ctx, t.ID, t)
	}
	return s.Add(ctx, t)
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if !s.tasks.has(id) {
		return domain.NotFound("task", id)
	}
	if err := s.backend.RemoveTask(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "remove task failed", "id", id, "error", err)
		return persistErr("remove task", err)
	}
	s.tasks.remove(id)
	s.logger.DebugContext(ctx, "task deleted", "id", id)
	return nil
}

// SetCompleted marks the task done or open without touching other fields.
func (s *TaskStore) SetCompleted(ctx context.Context, id string, done bool) (domain.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	t.IsCompleted = done
	return s.Update(ctx, id, t)
}

func (s *TaskStore) ToggleCompleted(ctx context.Context, id string) (domain.Task, error) {
	t, err := s.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.SetCompleted(ctx, id, !t.IsCompleted)
}
