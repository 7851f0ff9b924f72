package notify

import (
	"context"
	"sync"

	applog "chama/internal/log"
)

// LogSink writes every notification to the structured log.
type LogSink struct {
	logger *applog.Logger
}

func NewLogSink(l *applog.Logger) *LogSink {
	return &LogSink{logger: l.WithComponent(applog.ComponentNotify)}
}

func (s *LogSink) Notify(ctx context.Context, n Notification) error {
	s.logger.InfoContext(ctx, n.Title,
		applog.FieldNotification, n.ID,
		applog.FieldKind, string(n.Kind),
		"description", n.Description)
	return nil
}

// Recorder keeps the most recent notifications in a fixed-size ring.
type Recorder struct {
	mu    sync.Mutex
	buf   []Notification
	next  int
	count int
}

func NewRecorder(capacity int) *Recorder {
	if capacity < 1 {
		capacity = 1
	}
	return &Recorder{buf: make([]Notification, capacity)}
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = n
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	return nil
}

// Recent returns the retained notifications, newest first.
func (r *Recorder) Recent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, 0, r.count)
	for i := 1; i <= r.count; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}
