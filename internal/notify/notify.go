// Package notify delivers dashboard notifications ("Member Added",
// "Reminders Sent", ...) to one or more sinks. Delivery is fire and forget:
// a failing sink is logged and counted but never reported to the caller.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	applog "chama/internal/log"
)

type Kind string

const (
	KindMemberAdded    Kind = "member_added"
	KindStatusChanged  Kind = "status_changed"
	KindMemberReminded Kind = "member_reminded"
	KindRemindersSent  Kind = "reminders_sent"
	KindSettingsSaved  Kind = "settings_saved"
	KindReportExported Kind = "report_exported"
)

type Notification struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MemberID    int64     `json:"member_id,omitempty"`
	At          time.Time `json:"at"`
}

// Sink receives notifications.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Named pairs a sink with the label used in logs and metrics.
type Named struct {
	Name string
	Sink Sink
}

// FailureFunc is called once per failed sink delivery.
type FailureFunc func(sink string, err error)

type Notifier struct {
	sinks     []Named
	onFailure FailureFunc
	now       func() time.Time
	logger    *applog.Logger
}

type Option func(*Notifier)

func WithFailureFunc(f FailureFunc) Option {
	return func(n *Notifier) { n.onFailure = f }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(n *Notifier) {
		if l != nil {
			n.logger = l.WithComponent(applog.ComponentNotify)
		}
	}
}

func New(sinks []Named, opts ...Option) *Notifier {
	n := &Notifier{
		sinks:  sinks,
		now:    time.Now,
		logger: applog.FromContext(context.Background()).WithComponent(applog.ComponentNotify),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Send stamps an ID and time on a notification and hands it to every sink.
func (n *Notifier) Send(ctx context.Context, kind Kind, title, description string, memberID int64) Notification {
	note := Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Description: description,
		MemberID:    memberID,
		At:          n.now(),
	}
	for _, s := range n.sinks {
		if err := s.Sink.Notify(ctx, note); err != nil {
			n.logger.WarnContext(ctx, "Notification delivery failed",
				applog.FieldSink, s.Name,
				applog.FieldNotification, note.ID,
				applog.FieldKind, string(note.Kind),
				applog.FieldError, err)
			if n.onFailure != nil {
				n.onFailure(s.Name, err)
			}
		}
	}
	return note
}
