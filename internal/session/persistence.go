package session

import (
	"context"

	"github.com/sadopc/saati/internal/domain"
)

// Persistence is the storage collaborator behind a session. store.Store
// (SQLite) and store.Guest (in-process, never persisted) implement it.
type Persistence interface {
	LoadLogs(ctx context.Context) ([]domain.LogEntry, error)
	CreateLog(ctx context.Context, e domain.LogEntry) error
	ReplaceLog(ctx context.Context, id string, e domain.LogEntry) error
	RemoveLog(ctx context.Context, id string) error

	LoadTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, t domain.Task) error
	ReplaceTask(ctx context.Context, id string, t domain.Task) error
	RemoveTask(ctx context.Context, id string) error

	// LoadProfile returns the default profile when none was saved.
	LoadProfile(ctx context.Context) (domain.ProfileSettings, error)
	ReplaceProfile(ctx context.Context, p domain.ProfileSettings) error

	Close() error
}

func persistErr(op string, err error) error {
	return &domain.PersistenceError{Op: op, Err: err}
}
