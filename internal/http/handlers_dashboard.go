package http

import (
	"math"
	"net/http"

	"chama/internal/core"
	"chama/internal/members"
)

type pageView struct {
	Theme         string
	Today         string
	SheetsEnabled bool
	Stats         statsView
	Members       membersView
	Settings      settingsView
	Activity      []activityItem
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.members.Snapshot()
	sum := s.summarize(snap)

	data := pageView{
		Theme:         s.theme,
		Today:         s.now().Format("Monday, 2 January 2006"),
		SheetsEnabled: s.sheetsEnabled,
		Stats:         newStatsView(sum, snap.Version),
		Members:       newMembersView(snap.Len(), snap.Members(), ""),
		Settings:      newSettingsView(s.settings.Get(), nil),
		Activity:      s.recentActivity(),
	}
	s.render(w, r, "index.html", data)
}

// handleStats renders the metrics cards and progress bar.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.members.Snapshot()
	s.render(w, r, "stats.html", newStatsView(s.summarize(snap), snap.Version))
}

// handleMembers renders the member list, filtered by ?q=.
func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	q := sanitizeInput(r.URL.Query().Get("q"))
	snap := s.members.Snapshot()
	s.render(w, r, "members.html", newMembersView(snap.Len(), snap.Filter(q), q))
}

func (s *Server) handleSettingsPanel(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "settings.html", newSettingsView(s.settings.Get(), nil))
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "activity.html", s.recentActivity())
}

func (s *Server) recentActivity() []activityItem {
	if s.activity == nil {
		return nil
	}
	return newActivityView(s.activity.Recent())
}

type apiMember struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Contribution int64  `json:"contribution"`
	Status       string `json:"status"`
	LastPayment  string `json:"last_payment"`
}

type apiSummary struct {
	MemberCount        int     `json:"member_count"`
	TotalContributions int64   `json:"total_contributions"`
	MonthlyGoal        int64   `json:"monthly_goal"`
	ProgressPercentage float64 `json:"progress_percentage"`
	PaidCount          int     `json:"paid_count"`
	PendingCount       int     `json:"pending_count"`
	OverdueCount       int     `json:"overdue_count"`
	Remaining          int64   `json:"remaining"`
}

type apiSettings struct {
	MonthlyGoal       int64  `json:"monthly_goal"`
	ReminderDay       int    `json:"reminder_day"`
	AutoReminders     bool   `json:"auto_reminders"`
	ReminderFrequency string `json:"reminder_frequency"`
}

func newAPISettings(s core.Settings) apiSettings {
	return apiSettings{
		MonthlyGoal:       s.MonthlyGoal.Shillings,
		ReminderDay:       s.ReminderDay,
		AutoReminders:     s.AutoReminders,
		ReminderFrequency: string(s.ReminderFrequency),
	}
}

type apiDashboard struct {
	Version  int64       `json:"version"`
	Query    string      `json:"query,omitempty"`
	Summary  apiSummary  `json:"summary"`
	Settings apiSettings `json:"settings"`
	Members  []apiMember `json:"members"`
}

// handleAPIDashboard returns the summary of the whole chama plus the members
// matching ?q=.
func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	q := sanitizeInput(r.URL.Query().Get("q"))
	snap := s.members.Snapshot()
	writeJSON(w, http.StatusOK, s.dashboardPayload(snap, q))
}

func (s *Server) dashboardPayload(snap members.Snapshot, q string) apiDashboard {
	sum := s.summarize(snap)

	progress := sum.ProgressPercentage
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		// JSON has no encoding for these; they only occur with a zero goal.
		progress = sum.ClampedProgress()
	}

	out := apiDashboard{
		Version: snap.Version,
		Query:   q,
		Summary: apiSummary{
			MemberCount:        sum.MemberCount,
			TotalContributions: sum.TotalContributions.Shillings,
			MonthlyGoal:        sum.MonthlyGoal.Shillings,
			ProgressPercentage: progress,
			PaidCount:          sum.PaidCount,
			PendingCount:       sum.PendingCount,
			OverdueCount:       sum.OverdueCount,
			Remaining:          sum.Remaining.Shillings,
		},
		Settings: newAPISettings(s.settings.Get()),
	}
	filtered := snap.Filter(q)
	out.Members = make([]apiMember, 0, len(filtered))
	for _, m := range filtered {
		out.Members = append(out.Members, apiMember{
			ID:           m.ID,
			Name:         m.Name,
			Phone:        m.Phone,
			Contribution: m.Contribution.Shillings,
			Status:       m.Status.String(),
			LastPayment:  m.LastPayment.String(),
		})
	}
	return out
}
