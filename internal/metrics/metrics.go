// Package metrics exposes the dashboard's Prometheus collectors. Every method
// is safe on a nil *Metrics so components can run without instrumentation.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chama/internal/core"
)

const namespace = "chama"

type Metrics struct {
	gatherer prometheus.Gatherer

	membersAdded   prometheus.Counter
	statusChanges  *prometheus.CounterVec
	remindersSent  prometheus.Counter
	notifyFailures *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec

	membersByStatus *prometheus.GaugeVec
	contributions   prometheus.Gauge
	goalProgress    prometheus.Gauge
}

// New registers the collectors on reg. gatherer backs Handler and is usually
// the same registry.
func New(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		gatherer: gatherer,
		membersAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_added_total",
			Help:      "Members added through the dashboard.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Member status changes by new status.",
		}, []string{"status"}),
		remindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Individual payment reminders sent.",
		}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notification deliveries that failed, by sink.",
		}, []string{"sink"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		membersByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "Current members by payment status.",
		}, []string{"status"}),
		contributions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "contributions_kes",
			Help:      "Total contributions collected this period in KES.",
		}),
		goalProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "goal_progress_percent",
			Help:      "Progress towards the monthly goal, clamped to 0-100.",
		}),
	}
	reg.MustRegister(
		m.membersAdded, m.statusChanges, m.remindersSent, m.notifyFailures,
		m.httpRequests, m.httpDuration, m.membersByStatus, m.contributions, m.goalProgress,
	)
	return m
}

// Handler serves the exposition format for the registered collectors.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) MemberAdded() {
	if m == nil || m.membersAdded == nil {
		return
	}
	m.membersAdded.Inc()
}

func (m *Metrics) StatusChanged(s core.Status) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(s.String()).Inc()
}

func (m *Metrics) RemindersSent(n int) {
	if m == nil || m.remindersSent == nil || n <= 0 {
		return
	}
	m.remindersSent.Add(float64(n))
}

// NotificationFailed matches notify.FailureFunc.
func (m *Metrics) NotificationFailed(sink string, _ error) {
	if m == nil || m.notifyFailures == nil {
		return
	}
	m.notifyFailures.WithLabelValues(normalizeLabel(sink)).Inc()
}

func (m *Metrics) ObserveHTTP(route string, code int, seconds float64) {
	if m == nil || m.httpRequests == nil {
		return
	}
	route = normalizeLabel(route)
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(seconds)
}

// ObserveSummary sets the gauges from a freshly computed summary.
func (m *Metrics) ObserveSummary(s core.Summary) {
	if m == nil || m.membersByStatus == nil {
		return
	}
	m.membersByStatus.WithLabelValues(core.StatusPaid.String()).Set(float64(s.PaidCount))
	m.membersByStatus.WithLabelValues(core.StatusPending.String()).Set(float64(s.PendingCount))
	m.membersByStatus.WithLabelValues(core.StatusOverdue.String()).Set(float64(s.OverdueCount))
	m.contributions.Set(float64(s.TotalContributions.Shillings))
	m.goalProgress.Set(s.ClampedProgress())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
