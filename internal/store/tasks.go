package store

import (
	"context"
	"fmt"

	"github.com/sadopc/saati/internal/domain"
)

const taskColumns = `id, title, due_date, reminder_minutes, is_completed`

func (s *Store) LoadTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) CreateTask(ctx context.Context, t domain.Task) error {
	now := nowUTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, due_date, reminder_minutes, is_completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, formatTime(t.DueDate), t.ReminderMinutes, boolToInt(t.IsCompleted), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) ReplaceTask(ctx context.Context, id string, t domain.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, due_date = ?, reminder_minutes = ?, is_completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, formatTime(t.DueDate), t.ReminderMinutes, boolToInt(t.IsCompleted), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(res, "task", id)
}

func (s *Store) RemoveTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(res, "task", id)
}

func scanTask(row scanner) (domain.Task, error) {
	var t domain.Task
	var due string
	var completed int
	if err := row.Scan(&t.ID, &t.Title, &due, &t.ReminderMinutes, &completed); err != nil {
		return domain.Task{}, err
	}
	var err error
	if t.DueDate, err = parseTime(due); err != nil {
		return domain.Task{}, fmt.Errorf("task %q due_date: %w", t.ID, err)
	}
	t.IsCompleted = completed == 1
	return t, nil
}
