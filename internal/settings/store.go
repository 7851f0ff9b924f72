// Package settings holds the chama's contribution settings for the life of
// the process.
package settings

import (
	"context"
	"log/slog"
	"sync"

	"chama/internal/core"
)

type Store struct {
	mu      sync.RWMutex
	current core.Settings
}

// New returns a store holding initial, which must be valid.
func New(initial core.Settings) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	return &Store{current: initial}, nil
}

func (s *Store) Get() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update replaces the settings when next is valid. On a validation error the
// stored settings are left as they were and the error is a core.FieldErrors.
func (s *Store) Update(ctx context.Context, next core.Settings) (core.Settings, error) {
	if err := next.Validate(); err != nil {
		return s.Get(), err
	}

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	slog.InfoContext(ctx, "Settings updated",
		"monthly_goal", next.MonthlyGoal.Shillings,
		"reminder_day", next.ReminderDay,
		"auto_reminders", next.AutoReminders,
		"reminder_frequency", next.ReminderFrequency,
		"previous_goal", prev.MonthlyGoal.Shillings)
	return next, nil
}
