package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sadopc/saati/internal/domain"
)

// Profile fields are kept as rows of the settings table.
const (
	keyWorkDays     = "work_days_per_week"
	keyWorkHours    = "work_hours_per_day"
	keyDefaultBreak = "default_break_minutes"
	keyVacationDays = "total_vacation_days_per_year"
)

// LoadProfile returns the saved profile, falling back to the default for
// any field that was never saved.
func (s *Store) LoadProfile(ctx context.Context) (domain.ProfileSettings, error) {
	settings, err := s.allSettings(ctx)
	if err != nil {
		return domain.ProfileSettings{}, err
	}

	p := domain.DefaultProfile()
	if v, ok := settings[keyWorkDays]; ok {
		if p.WorkDaysPerWeek, err = strconv.Atoi(v); err != nil {
			return domain.ProfileSettings{}, fmt.Errorf("setting %q: %w", keyWorkDays, err)
		}
	}
	if v, ok := settings[keyWorkHours]; ok {
		if p.WorkHoursPerDay, err = strconv.ParseFloat(v, 64); err != nil {
			return domain.ProfileSettings{}, fmt.Errorf("setting %q: %w", keyWorkHours, err)
		}
	}
	if v, ok := settings[keyDefaultBreak]; ok {
		if p.DefaultBreakMinutes, err = strconv.Atoi(v); err != nil {
			return domain.ProfileSettings{}, fmt.Errorf("setting %q: %w", keyDefaultBreak, err)
		}
	}
	if v, ok := settings[keyVacationDays]; ok {
		if p.TotalVacationDaysPerYear, err = strconv.Atoi(v); err != nil {
			return domain.ProfileSettings{}, fmt.Errorf("setting %q: %w", keyVacationDays, err)
		}
	}
	return p, nil
}

// ReplaceProfile writes every profile field in one transaction.
func (s *Store) ReplaceProfile(ctx context.Context, p domain.ProfileSettings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin profile tx: %w", err)
	}
	defer tx.Rollback()

	values := [][2]string{
		{keyWorkDays, strconv.Itoa(p.WorkDaysPerWeek)},
		{keyWorkHours, strconv.FormatFloat(p.WorkHoursPerDay, 'f', -1, 64)},
		{keyDefaultBreak, strconv.Itoa(p.DefaultBreakMinutes)},
		{keyVacationDays, strconv.Itoa(p.TotalVacationDaysPerYear)},
	}
	for _, kv := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			kv[0], kv[1],
		); err != nil {
			return fmt.Errorf("set %q: %w", kv[0], err)
		}
	}
	return tx.Commit()
}

func (s *Store) allSettings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		settings[k] = v
	}
	return settings, rows.Err()
}
