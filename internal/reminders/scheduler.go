package reminders

import (
	"context"
	"sync"
	"time"

	"chama/internal/core"
	applog "chama/internal/log"
)

type settingsSource interface {
	Get() core.Settings
}

// Scheduler checks on every tick whether automatic reminders are due.
type Scheduler struct {
	members    func() []core.Member
	settings   settingsSource
	dispatcher *Dispatcher
	interval   time.Duration
	now        func() time.Time
	logger     *applog.Logger

	mu      sync.Mutex
	lastRun time.Time
}

// NewScheduler builds a scheduler. members is called on each due tick to get
// the current collection.
func NewScheduler(members func() []core.Member, settings settingsSource, d *Dispatcher, interval time.Duration, logger *applog.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		members:    members,
		settings:   settings,
		dispatcher: d,
		interval:   interval,
		now:        time.Now,
		logger:     logger.WithComponent(applog.ComponentReminders),
	}
}

// LastRun is the time reminders last went out automatically.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Run ticks until ctx is done. The start time counts as the first run so a
// restart does not immediately message everyone.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.lastRun.IsZero() {
		s.lastRun = s.now()
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Reminder scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "Reminder scheduler stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one check and reports whether reminders were sent.
func (s *Scheduler) Tick(ctx context.Context) bool {
	cfg := s.settings.Get()
	if !cfg.AutoReminders {
		return false
	}
	checker, err := CheckerFor(cfg.ReminderFrequency)
	if err != nil {
		s.logger.ErrorContext(ctx, "Reminder schedule misconfigured", applog.FieldError, err)
		return false
	}

	now := s.now()
	s.mu.Lock()
	due := checker.IsDue(s.lastRun, now, cfg.ReminderDay)
	if due {
		s.lastRun = now
	}
	s.mu.Unlock()
	if !due {
		return false
	}

	res := s.dispatcher.SendAll(ctx, s.members())
	s.logger.InfoContext(ctx, "Automatic reminders dispatched",
		"frequency", string(cfg.ReminderFrequency),
		applog.FieldRecipients, len(res.Recipients))
	return true
}
