package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sadopc/saati/internal/domain"
)

const logColumns = `id, date, type, start_time, end_time, break_minutes, notes`

// LoadLogs returns every log entry in insertion order.
func (s *Store) LoadLogs(ctx context.Context) ([]domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+logColumns+` FROM log_entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list log entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		e, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CreateLog(ctx context.Context, e domain.LogEntry) error {
	now := nowUTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO log_entries (id, date, type, start_time, end_time, break_minutes, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Date, string(e.Type), nullableTime(e.StartTime), nullableTime(e.EndTime),
		e.BreakMinutes, e.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

// ReplaceLog overwrites every field of the entry with the given id.
func (s *Store) ReplaceLog(ctx context.Context, id string, e domain.LogEntry) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE log_entries
		 SET date = ?, type = ?, start_time = ?, end_time = ?, break_minutes = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		e.Date, string(e.Type), nullableTime(e.StartTime), nullableTime(e.EndTime),
		e.BreakMinutes, e.Notes, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}
	return requireRow(res, "log entry", id)
}

func (s *Store) RemoveLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM log_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}
	return requireRow(res, "log entry", id)
}

func scanLog(row scanner) (domain.LogEntry, error) {
	var e domain.LogEntry
	var typ string
	var start, end sql.NullString
	if err := row.Scan(&e.ID, &e.Date, &typ, &start, &end, &e.BreakMinutes, &e.Notes); err != nil {
		return domain.LogEntry{}, err
	}
	e.Type = domain.LogType(typ)
	var err error
	if e.StartTime, err = parseNullableTime(start); err != nil {
		return domain.LogEntry{}, fmt.Errorf("log entry %q start_time: %w", e.ID, err)
	}
	if e.EndTime, err = parseNullableTime(end); err != nil {
		return domain.LogEntry{}, fmt.Errorf("log entry %q end_time: %w", e.ID, err)
	}
	return e, nil
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFound(kind, id)
	}
	return nil
}
