package testutil

import (
	"context"
	"errors"

	"github.com/sadopc/saati/internal/domain"
	"github.com/sadopc/saati/internal/store"
)

// ErrInjected is returned by FailingBackend for every failing operation.
var ErrInjected = errors.New("injected failure")

// FailingBackend is a guest backend whose operations can be made to fail
// by name ("CreateLog", "ReplaceTask", "LoadProfile", ...).
type FailingBackend struct {
	*store.Guest
	Fail  map[string]bool
	Calls []string
}

func NewFailingBackend(failing ...string) *FailingBackend {
	f := &FailingBackend{Guest: store.NewGuest(), Fail: map[string]bool{}}
	for _, op := range failing {
		f.Fail[op] = true
	}
	return f
}

func (f *FailingBackend) check(op string) error {
	f.Calls = append(f.Calls, op)
	if f.Fail[op] {
		return ErrInjected
	}
	return nil
}

func (f *FailingBackend) LoadLogs(ctx context.Context) ([]domain.LogEntry, error) {
	if err := f.check("LoadLogs"); err != nil {
		return nil, err
	}
	return f.Guest.LoadLogs(ctx)
}

func (f *FailingBackend) CreateLog(ctx context.Context, e domain.LogEntry) error {
	if err := f.check("CreateLog"); err != nil {
		return err
	}
	return f.Guest.CreateLog(ctx, e)
}

func (f *FailingBackend) ReplaceLog(ctx context.Context, id string, e domain.LogEntry) error {
	if err := f.check("ReplaceLog"); err != nil {
		return err
	}
	return f.Guest.ReplaceLog(ctx, id, e)
}

func (f *FailingBackend) RemoveLog(ctx context.Context, id string) error {
	if err := f.check("RemoveLog"); err != nil {
		return err
	}
	return f.Guest.RemoveLog(ctx, id)
}

func (f *FailingBackend) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	if err := f.check("LoadTasks"); err != nil {
		return nil, err
	}
	return f.Guest.LoadTasks(ctx)
}

func (f *FailingBackend) CreateTask(ctx context.Context, t domain.Task) error {
	if err := f.check("CreateTask"); err != nil {
		return err
	}
	return f.Guest.CreateTask(ctx, t)
}

func (f *FailingBackend) ReplaceTask(ctx context.Context, id string, t domain.Task) error {
	if err := f.check("ReplaceTask"); err != nil {
		return err
	}
	return f.Guest.ReplaceTask(ctx, id, t)
}

func (f *FailingBackend) RemoveTask(ctx context.Context, id string) error {
	if err := f.check("RemoveTask"); err != nil {
		return err
	}
	return f.Guest.RemoveTask(ctx, id)
}

func (f *FailingBackend) LoadProfile(ctx context.Context) (domain.ProfileSettings, error) {
	if err := f.check("LoadProfile"); err != nil {
		return domain.ProfileSettings{}, err
	}
	return f.Guest.LoadProfile(ctx)
}

func (f *FailingBackend) ReplaceProfile(ctx context.Context, p domain.ProfileSettings) error {
	if err := f.check("ReplaceProfile"); err != nil {
		return err
	}
	return f.Guest.ReplaceProfile(ctx, p)
}
