package session

import (
	"context"
	"log/slog"

	"github.com/sadopc/saati/internal/domain"
)

// ProfileStore holds the single profile record of a session.
type ProfileStore struct {
	backend Persistence
	logger  *slog.Logger
	current domain.ProfileSettings
}

func (s *ProfileStore) Get() domain.ProfileSettings { return s.current }

// Save replaces the whole profile.
func (s *ProfileStore) Save(ctx context.Context, p domain.ProfileSettings) error {
	if err := domain.ValidateProfile(p); err != nil {
		return err
	}
	if err := s.backend.ReplaceProfile(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "replace profile failed", "error", err)
		return persistErr("replace profile", err)
	}
	s.current = p
	s.logger.DebugContext(ctx, "profile saved",
		"work_days", p.WorkDaysPerWeek,
		"work_hours", p.WorkHoursPerDay,
	)
	return nil
}
