package http

import (
	"errors"
	"fmt"
	"net/http"

	"chama/internal/contact"
	"chama/internal/core"
	applog "chama/internal/log"
	"chama/internal/notify"
)

// userMessage turns a domain error into text safe to show in the dashboard.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "Name is required"
	case errors.Is(err, core.ErrEmptyPhone):
		return "Phone is required"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a whole number of shillings, at most KES 1,000,000,000"
	case errors.Is(err, core.ErrInvalidStatus):
		return "Status must be paid, pending or overdue"
	case errors.Is(err, core.ErrInvalidID):
		return "Invalid member"
	case errors.Is(err, contact.ErrNoDigits):
		return "This member has no dialable phone number"
	default:
		return "Invalid request"
	}
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	out := s.members.Add(ctx, p.Get("name"), p.Get("phone"))
	if !out.OK() {
		applog.FromContext(ctx).WarnContext(ctx, "Member rejected",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, out.Err)
		UnprocessableEntityError(userMessage(out.Err)).Write(w)
		return
	}

	s.metrics.MemberAdded()
	s.events.LogMemberAdded(ctx, out.Member.ID, out.Snapshot.Version)
	s.summarize(out.Snapshot)

	note := s.notifier.Send(ctx, notify.KindMemberAdded,
		"Member Added",
		fmt.Sprintf("%s has been added to the chama.", out.Member.Name),
		out.Member.ID)

	SuccessResponse(note.Title, note.Description).
		Status(http.StatusCreated).
		TriggerMembersChanged(out.Snapshot.Version).
		TriggerActivityChanged().
		TriggerFormReset().
		Write(w)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := ParseMemberID(r)
	if err != nil {
		BadRequestError(userMessage(err)).Write(w)
		return
	}
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}
	change, err := ParseStatusChange(p, id)
	if err != nil {
		UnprocessableEntityError(userMessage(err)).Write(w)
		return
	}

	snap, found, err := s.members.UpdateStatus(ctx, change)
	if err != nil {
		UnprocessableEntityError(userMessage(err)).Write(w)
		return
	}
	if !found {
		NotFoundError("Member not found").Write(w)
		return
	}

	m, _ := snap.Get(id)
	var amount *int64
	if change.Amount != nil {
		amount = &change.Amount.Shillings
	}
	s.metrics.StatusChanged(change.Status)
	s.events.LogStatusChanged(ctx, id, change.Status.String(), amount, snap.Version)
	s.summarize(snap)

	note := s.notifier.Send(ctx, notify.KindStatusChanged,
		"Payment Updated",
		fmt.Sprintf("%s marked as %s.", m.Name, change.Status.Label()),
		id)

	SuccessResponse(note.Title, note.Description).
		TriggerMembersChanged(snap.Version).
		TriggerActivityChanged().
		Write(w)
}

// handleRemindMember sends a simulated WhatsApp reminder to one member.
func (s *Server) handleRemindMember(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupMember(w, r)
	if !ok {
		return
	}
	note := s.reminders.SendOne(r.Context(), m)
	SuccessResponse(note.Title, note.Description).
		TriggerActivityChanged().
		Write(w)
}

// handleSendReminders reminds every member who has not paid.
func (s *Server) handleSendReminders(w http.ResponseWriter, r *http.Request) {
	res := s.reminders.SendAll(r.Context(), s.members.Snapshot().Members())
	SuccessResponse(res.Summary.Title, res.Summary.Description).
		TriggerActivityChanged().
		Write(w)
}

// handleCall redirects to the member's tel: URI.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupMember(w, r)
	if !ok {
		return
	}
	uri, err := contact.CallURI(m.Phone)
	if err != nil {
		UnprocessableEntityError(userMessage(err)).Write(w)
		return
	}
	http.Redirect(w, r, uri, http.StatusFound)
}

// handleMessage redirects to an SMS or WhatsApp compose URI, chosen by
// ?via=sms|whatsapp.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	m, ok := s.lookupMember(w, r)
	if !ok {
		return
	}
	ch := contact.ParseChannel(r.URL.Query().Get("via"))
	body := fmt.Sprintf("Hello %s, this is a friendly reminder that your chama contribution for this month is still due.", m.Name)
	if m.IsPaid() {
		body = fmt.Sprintf("Hello %s, thank you for your chama contribution this month.", m.Name)
	}

	uri, err := contact.MessageURI(ch, m.Phone, body)
	if err != nil {
		UnprocessableEntityError(userMessage(err)).Write(w)
		return
	}
	http.Redirect(w, r, uri, http.StatusFound)
}

// lookupMember resolves {id} against the current snapshot, writing the
// error response itself when it fails.
func (s *Server) lookupMember(w http.ResponseWriter, r *http.Request) (core.Member, bool) {
	id, err := ParseMemberID(r)
	if err != nil {
		BadRequestError(userMessage(err)).Write(w)
		return core.Member{}, false
	}
	m, ok := s.members.Snapshot().Get(id)
	if !ok {
		NotFoundError("Member not found").Write(w)
		return core.Member{}, false
	}
	return m, true
}
