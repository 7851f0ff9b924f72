// Package reminders sends simulated WhatsApp payment reminders to members who
// have not paid, on demand or on the configured schedule.
package reminders

import (
	"context"
	"fmt"

	"chama/internal/core"
	applog "chama/internal/log"
	"chama/internal/notify"
)

type notifier interface {
	Send(ctx context.Context, kind notify.Kind, title, description string, memberID int64) notify.Notification
}

type counter interface {
	RemindersSent(n int)
}

type Dispatcher struct {
	notifier notifier
	counter  counter
	logger   *applog.Logger
}

// Result describes one reminder run.
type Result struct {
	Recipients []core.Member
	Summary    notify.Notification
}

func NewDispatcher(n notifier, c counter, logger *applog.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: n,
		counter:  c,
		logger:   logger.WithComponent(applog.ComponentReminders),
	}
}

// SendAll reminds every member whose status is not paid, then emits one
// summary notification. The summary is sent even when nobody owes.
func (d *Dispatcher) SendAll(ctx context.Context, members []core.Member) Result {
	unpaid := core.Unpaid(members)
	for _, m := range unpaid {
		d.remind(ctx, m)
	}

	summary := d.notifier.Send(ctx, notify.KindRemindersSent,
		"Reminders Sent",
		fmt.Sprintf("WhatsApp reminders sent to %d members.", len(unpaid)),
		0)
	if d.counter != nil {
		d.counter.RemindersSent(len(unpaid))
	}

	d.logger.InfoContext(ctx, "Reminders sent",
		applog.FieldOperation, applog.OpRemind,
		applog.FieldRecipients, len(unpaid))
	return Result{Recipients: unpaid, Summary: summary}
}

// SendOne sends a reminder to a single member regardless of status.
func (d *Dispatcher) SendOne(ctx context.Context, m core.Member) notify.Notification {
	n := d.remind(ctx, m)
	if d.counter != nil {
		d.counter.RemindersSent(1)
	}
	return n
}

func (d *Dispatcher) remind(ctx context.Context, m core.Member) notify.Notification {
	return d.notifier.Send(ctx, notify.KindMemberReminded,
		"Message Sent",
		"WhatsApp reminder sent to "+m.Name,
		m.ID)
}
