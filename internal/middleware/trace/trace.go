package trace

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	applog "chama/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader carries the request ID in and out.
	RequestIDHeader = "X-Request-ID"

	maxIncomingIDLen = 64
)

// Observer receives one observation per completed request.
type Observer interface {
	ObserveHTTP(route string, code int, seconds float64)
}

// Options configures the trace middleware. Every field is optional.
type Options struct {
	ExtractIP func(*http.Request) string
	// RouteOf maps a request to a bounded route label, usually the mux
	// pattern. Requests it maps to "" are reported as "unmatched".
	RouteOf  func(*http.Request) string
	Logger   *applog.Logger
	Observer Observer
}

// Middleware assigns request IDs, logs completed requests and reports them
// to an Observer.
type Middleware struct {
	opts          Options
	log           *applog.StructuredLogger
	totalRequests int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(opts Options) *Middleware {
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig())
	}
	return &Middleware{
		opts: opts,
		log:  applog.NewStructuredLogger(opts.Logger),
	}
}

// Middleware returns HTTP middleware for request tracing
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := ""
		if m.opts.ExtractIP != nil {
			clientIP = m.opts.ExtractIP(r)
		}
		route := ""
		if m.opts.RouteOf != nil {
			route = m.opts.RouteOf(r)
		}
		if route == "" {
			route = "unmatched"
		}

		requestID := incomingRequestID(r)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		r = r.WithContext(ctx)

		atomic.AddInt64(&m.totalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.log.LogHTTPEnd(ctx, r, rw.statusCode, duration, clientIP)
		if m.opts.Observer != nil {
			m.opts.Observer.ObserveHTTP(route, rw.statusCode, duration.Seconds())
		}
	})
}

// TotalRequests returns the number of requests seen since start.
func (m *Middleware) TotalRequests() int64 {
	return atomic.LoadInt64(&m.totalRequests)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// incomingRequestID accepts a caller supplied ID if it is short and printable.
func incomingRequestID(r *http.Request) string {
	id := r.Header.Get(RequestIDHeader)
	if id == "" || len(id) > maxIncomingIDLen {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return ""
		}
	}
	return id
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDFromRequest is GetRequestID for an *http.Request.
func RequestIDFromRequest(r *http.Request) string {
	return GetRequestID(r.Context())
}
