package http

import (
	"errors"
	"net/http"

	"chama/internal/core"
	applog "chama/internal/log"
	"chama/internal/notify"
)

// handleSaveSettings validates and stores the contribution settings, then
// re-renders the settings panel. Invalid input re-renders the panel with
// per-field messages and a 422.
func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	next, err := ParseSettings(p)
	if err == nil {
		next, err = s.settings.Update(ctx, next)
	}
	if err != nil {
		var fe core.FieldErrors
		if !errors.As(err, &fe) {
			applog.FromContext(ctx).ErrorContext(ctx, "Settings update failed", applog.FieldError, err)
			InternalServerError("Could not save settings").Write(w)
			return
		}
		s.writeSettingsPanel(w, r, NewHTMXResponse().
			Status(http.StatusUnprocessableEntity).
			TriggerErrorNotification("Please correct the highlighted settings"),
			newSettingsView(next, fe))
		return
	}

	s.summarize(s.members.Snapshot())
	note := s.notifier.Send(ctx, notify.KindSettingsSaved,
		"Settings Saved",
		"Your contribution settings have been updated.",
		0)

	s.writeSettingsPanel(w, r, NewHTMXResponse().
		TriggerSuccessNotification(note.Title, note.Description).
		TriggerSettingsChanged().
		TriggerActivityChanged(),
		newSettingsView(next, nil))
}

func (s *Server) writeSettingsPanel(w http.ResponseWriter, r *http.Request, b *HTMXResponseBuilder, view settingsView) {
	html, err := s.executeTemplate("settings.html", view)
	if err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(),
			"Template execution failed", applog.FieldError, err, "template", "settings.html")
		InternalServerError("Could not render settings").Write(w)
		return
	}
	b.BodyHTML(html).Write(w)
}
