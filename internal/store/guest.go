package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sadopc/saati/internal/domain"
)

// Guest is the ephemeral collaborator used when nobody is signed in.
// Nothing survives the process.
type Guest struct {
	mu      sync.Mutex
	logs    []domain.LogEntry
	tasks   []domain.Task
	profile domain.ProfileSettings
}

func NewGuest() *Guest {
	return &Guest{profile: domain.DefaultProfile()}
}

func (g *Guest) LoadLogs(context.Context) ([]domain.LogEntry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.LogEntry, len(g.logs))
	for i, e := range g.logs {
		out[i] = e.Clone()
	}
	return out, nil
}

func (g *Guest) CreateLog(_ context.Context, e domain.LogEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slices.ContainsFunc(g.logs, func(x domain.LogEntry) bool { return x.ID == e.ID }) {
		return fmt.Errorf("insert log entry: duplicate id %q", e.ID)
	}
	g.logs = append(g.logs, e.Clone())
	return nil
}

func (g *Guest) ReplaceLog(_ context.Context, id string, e domain.LogEntry) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.logs, func(x domain.LogEntry) bool { return x.ID == id })
	if i < 0 {
		return domain.NotFound("log entry", id)
	}
	e = e.Clone()
	e.ID = id
	g.logs[i] = e
	return nil
}

func (g *Guest) RemoveLog(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.logs, func(x domain.LogEntry) bool { return x.ID == id })
	if i < 0 {
		return domain.NotFound("log entry", id)
	}
	g.logs = slices.Delete(g.logs, i, i+1)
	return nil
}

func (g *Guest) LoadTasks(context.Context) ([]domain.Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.tasks), nil
}

func (g *Guest) CreateTask(_ context.Context, t domain.Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slices.ContainsFunc(g.tasks, func(x domain.Task) bool { return x.ID == t.ID }) {
		return fmt.Errorf("insert task: duplicate id %q", t.ID)
	}
	g.tasks = append(g.tasks, t)
	return nil
}

func (g *Guest) ReplaceTask(_ context.Context, id string, t domain.Task) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.tasks, func(x domain.Task) bool { return x.ID == id })
	if i < 0 {
		return domain.NotFound("task", id)
	}
	t.ID = id
	g.tasks[i] = t
	return nil
}

func (g *Guest) RemoveTask(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.tasks, func(x domain.Task) bool { return x.ID == id })
	if i < 0 {
		return domain.NotFound("task", id)
	}
	g.tasks = slices.Delete(g.tasks, i, i+1)
	return nil
}

func (g *Guest) LoadProfile(context.Context) (domain.ProfileSettings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.profile, nil
}

func (g *Guest) ReplaceProfile(_ context.Context, p domain.ProfileSettings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.profile = p
	return nil
}

func (g *Guest) Close() error { return nil }
