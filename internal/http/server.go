package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"chama/internal/core"
	applog "chama/internal/log"
	"chama/internal/members"
	"chama/internal/metrics"
	"chama/internal/middleware/ratelimit"
	"chama/internal/middleware/security"
	"chama/internal/middleware/trace"
	"chama/internal/notify"
	"chama/internal/reminders"
	"chama/internal/sheets"
	appweb "chama/web"
)

type memberStore interface {
	Snapshot() members.Snapshot
	Add(ctx context.Context, name, phone string) members.AddOutcome
	UpdateStatus(ctx context.Context, change core.StatusChange) (members.Snapshot, bool, error)
}

type settingsStore interface {
	Get() core.Settings
	Update(ctx context.Context, next core.Settings) (core.Settings, error)
}

type notifier interface {
	Send(ctx context.Context, kind notify.Kind, title, description string, memberID int64) notify.Notification
}

type activityFeed interface {
	Recent() []notify.Notification
}

type reminderDispatcher interface {
	SendAll(ctx context.Context, ms []core.Member) reminders.Result
	SendOne(ctx context.Context, m core.Member) notify.Notification
}

// Deps are the collaborators the dashboard needs. Members, Settings,
// Notifier and Reminders are required.
type Deps struct {
	Members   memberStore
	Settings  settingsStore
	Notifier  notifier
	Activity  activityFeed
	Reminders reminderDispatcher
	Exporter  sheets.ReportExporter
	// SheetsEnabled labels the export action; Exporter may still be an
	// in-memory fallback when it is false.
	SheetsEnabled      bool
	Metrics            *metrics.Metrics
	Logger             *applog.Logger
	Theme              string
	RateLimitPerMinute int
	Now                func() time.Time
}

type Server struct {
	http.Server
	mux       *http.ServeMux
	templates *template.Template

	members       memberStore
	settings      settingsStore
	notifier      notifier
	activity      activityFeed
	reminders     reminderDispatcher
	exporter      sheets.ReportExporter
	sheetsEnabled bool
	metrics       *metrics.Metrics
	theme         string
	now           func() time.Time

	logger      *applog.Logger
	events      *applog.StructuredLogger
	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	if d.Logger == nil {
		d.Logger = applog.New(applog.DefaultConfig())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Theme == "" {
		d.Theme = "ocean"
	}
	rl := ratelimit.DefaultConfig()
	if d.RateLimitPerMinute > 0 {
		rl.RequestsPerMinute = d.RateLimitPerMinute
	}

	mux := http.NewServeMux()
	logger := d.Logger.WithComponent(applog.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		mux:           mux,
		members:       d.Members,
		settings:      d.Settings,
		notifier:      d.Notifier,
		activity:      d.Activity,
		reminders:     d.Reminders,
		exporter:      d.Exporter,
		sheetsEnabled: d.SheetsEnabled,
		metrics:       d.Metrics,
		theme:         d.Theme,
		now:           d.Now,
		logger:        logger,
		events:        applog.NewStructuredLogger(logger),
		rateLimiter:   ratelimit.NewLimiter(rl),
		detector:      security.NewDetector(),
		startedAt:     d.Now(),
	}
	s.tracer = trace.NewMiddleware(trace.Options{
		ExtractIP: s.detector.ExtractClientIP,
		RouteOf:   s.routeOf,
		Logger:    logger,
		Observer:  d.Metrics,
	})

	t, err := template.New("dashboard").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	// Pages and partials
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/stats", s.handleStats)
	mux.HandleFunc("GET /ui/members", s.handleMembers)
	mux.HandleFunc("GET /ui/settings", s.handleSettingsPanel)
	mux.HandleFunc("GET /ui/activity", s.handleActivity)

	// Member actions
	mux.HandleFunc("POST /members", s.handleAddMember)
	mux.HandleFunc("POST /members/{id}/status", s.handleUpdateStatus)
	mux.HandleFunc("POST /members/{id}/remind", s.handleRemindMember)
	mux.HandleFunc("GET /members/{id}/call", s.handleCall)
	mux.HandleFunc("GET /members/{id}/message", s.handleMessage)
	mux.HandleFunc("POST /reminders", s.handleSendReminders)

	mux.HandleFunc("POST /settings", s.handleSaveSettings)

	mux.HandleFunc("GET /report.csv", s.handleReportCSV)
	mux.HandleFunc("POST /report/export", s.handleReportExport)

	mux.HandleFunc("GET /api/dashboard", s.handleAPIDashboard)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.Handler = s.middleware(mux)
	return s
}

// middleware wraps next with the request pipeline, outermost last:
// trace, security headers, probe detection, request logger, rate limit.
func (s *Server) middleware(next http.Handler) http.Handler {
	h := s.rateLimiter.Middleware(s.detector.ExtractClientIP, s.onRateLimit)(next)
	h = applog.Middleware(s.logger, trace.RequestIDFromRequest)(h)
	h = s.detector.Middleware(s.logger)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return s.tracer.Middleware(h)
}

// routeOf returns the mux pattern r would be served by, keeping metric
// labels bounded.
func (s *Server) routeOf(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	return pattern
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many requests. Please try again in a minute.").Write(w)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// executeTemplate renders name into a string so a failed render never
// leaves a half-written response.
func (s *Server) executeTemplate(name string, data any) (string, error) {
	if s.templates == nil {
		return "", errTemplatesNotLoaded
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	html, err := s.executeTemplate(name, data)
	if err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(),
			"Template execution failed",
			applog.FieldError, err,
			"template", name)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// summarize computes the dashboard metrics for snap and refreshes the gauges.
func (s *Server) summarize(snap members.Snapshot) core.Summary {
	sum := snap.Summary(s.settings.Get().MonthlyGoal)
	s.metrics.ObserveSummary(sum)
	return sum
}
