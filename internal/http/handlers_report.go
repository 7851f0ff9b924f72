package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	applog "chama/internal/log"
	"chama/internal/notify"
	"chama/internal/report"
)

const exportTimeout = 15 * time.Second

func (s *Server) buildReport() report.Report {
	return report.Build(s.members.Snapshot().Members(), s.settings.Get(), s.now())
}

// handleReportCSV downloads the contribution report.
func (s *Server) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	rep := s.buildReport()

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rep); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentReport).ErrorContext(r.Context(),
			"Report rendering failed", applog.FieldError, err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rep.Filename()))
	_, _ = buf.WriteTo(w)
}

// handleReportExport pushes the report to the configured exporter.
func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		ServiceUnavailableError("Report export is not configured").Write(w)
		return
	}
	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentReport)

	ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
	defer cancel()

	rep := s.buildReport()
	ref, err := s.exporter.Export(ctx, rep)
	if err != nil {
		logger.ErrorContext(ctx, "Report export failed",
			applog.FieldOperation, applog.OpExport,
			applog.FieldError, err)
		ErrorResponse(http.StatusBadGateway, "Report export failed").Write(w)
		return
	}
	logger.InfoContext(ctx, "Report exported",
		applog.FieldOperation, applog.OpExport,
		"ref", ref,
		"rows", len(rep.Members))

	desc := fmt.Sprintf("Contribution report exported (%s).", ref)
	if s.sheetsEnabled {
		desc = fmt.Sprintf("Contribution report exported to Google Sheets (%s).", ref)
	}
	note := s.notifier.Send(r.Context(), notify.KindReportExported, "Report Exported", desc, 0)
	SuccessResponse(note.Title, note.Description).
		TriggerActivityChanged().
		Write(w)
}
