package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "chama/internal/log"
)

type observation struct {
	route string
	code  int
}

type fakeObserver struct {
	seen []observation
}

func (f *fakeObserver) ObserveHTTP(route string, code int, _ float64) {
	f.seen = append(f.seen, observation{route, code})
}

func newTestMiddleware(buf *bytes.Buffer, obs Observer, routeOf func(*http.Request) string) *Middleware {
	logger := applog.New(applog.Config{
		Level:     slog.LevelDebug,
		Format:    "json",
		Component: applog.ComponentHTTP,
		Output:    buf,
	})
	return NewMiddleware(Options{
		ExtractIP: func(*http.Request) string { return "192.0.2.1" },
		RouteOf:   routeOf,
		Logger:    logger,
		Observer:  obs,
	})
}

func TestMiddlewareAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil, nil)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rr.Header().Get(RequestIDHeader))
	assert.Equal(t, int64(1), m.TotalRequests())
}

func TestMiddlewareKeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	m := newTestMiddleware(&buf, nil, nil)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "has space")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.NotEqual(t, "has space", rr.Header().Get(RequestIDHeader))
}

func TestMiddlewareReportsRouteAndStatus(t *testing.T) {
	var buf bytes.Buffer
	obs := &fakeObserver{}
	routeOf := func(r *http.Request) string {
		if strings.HasPrefix(r.URL.Path, "/members/") {
			return "POST /members/{id}/status"
		}
		return ""
	}
	m := newTestMiddleware(&buf, obs, routeOf)
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/nope" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/members/7/status", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observation{"POST /members/{id}/status", 200}, obs.seen[0])
	assert.Equal(t, observation{"unmatched", 404}, obs.seen[1])

	out := buf.String()
	assert.Contains(t, out, `"msg":"HTTP request completed"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"client_ip":"192.0.2.1"`)
}
