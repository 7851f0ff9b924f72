package reminders

import (
	"fmt"
	"time"

	"chama/internal/core"
)

// ScheduleChecker decides whether automatic reminders are due.
type ScheduleChecker interface {
	// IsDue reports whether reminders should go out at now, given when they
	// last went out and the configured reminder day of the month.
	IsDue(lastRun, now time.Time, reminderDay int) bool
}

// DailyChecker is due once per calendar day.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastRun, now time.Time, _ int) bool {
	if lastRun.IsZero() {
		return true
	}
	return core.DateOf(lastRun) != core.DateOf(now)
}

// WeeklyChecker is due when 7 or more days have passed since the last run.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastRun, now time.Time, _ int) bool {
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= 7*24*time.Hour
}

// MonthlyChecker is due once a month, on or after the reminder day.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastRun, now time.Time, reminderDay int) bool {
	if !lastRun.IsZero() && lastRun.Year() == now.Year() && lastRun.Month() == now.Month() {
		return false
	}

	target := reminderDay
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if target > lastDayOfMonth {
		target = lastDayOfMonth
	}
	return now.Day() >= target
}

var checkers = map[core.Frequency]ScheduleChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
}

// CheckerFor returns the checker for a reminder frequency.
func CheckerFor(f core.Frequency) (ScheduleChecker, error) {
	c, ok := checkers[f]
	if !ok {
		return nil, fmt.Errorf("unknown reminder frequency: %s", f)
	}
	return c, nil
}
