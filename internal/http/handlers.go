package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

var errTemplatesNotLoaded = errors.New("templates not loaded")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.startedAt).Round(time.Second).String(),
	})
}

// handleReady reports whether the dashboard can serve pages.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	snap := s.members.Snapshot()
	checks["members"] = map[string]interface{}{
		"count":   snap.Len(),
		"version": snap.Version,
	}

	switch {
	case s.exporter == nil:
		checks["report_export"] = "not_configured"
	case s.sheetsEnabled:
		checks["report_export"] = "google_sheets"
	default:
		checks["report_export"] = "memory"
	}

	checks["rate_limiter"] = map[string]interface{}{
		"active_clients": s.rateLimiter.ActiveClients(),
		"rejected":       s.rateLimiter.Rejected(),
	}
	checks["security"] = map[string]interface{}{
		"suspicious_requests": s.detector.GetMetrics().SuspiciousRequests,
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}
