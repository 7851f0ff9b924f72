package http

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"chama/internal/core"
	"chama/internal/notify"
)

// sanitizeInput removes control characters other than tab, newline and
// carriage return, then trims whitespace.
func sanitizeInput(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// formatPercent renders a progress value with one decimal, e.g. "65.0%".
func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// templateFuncs are available to every dashboard template.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"kes":     core.FormatKES,
		"percent": formatPercent,
		"lower":   strings.ToLower,
	}
}

type statsView struct {
	MemberCount   int
	Total         string
	Goal          string
	Remaining     string
	Progress      float64
	ProgressLabel string
	GoalReached   bool
	Paid          int
	Pending       int
	Overdue       int
	Version       int64
}

func newStatsView(s core.Summary, version int64) statsView {
	remaining := s.Remaining
	if remaining.Shillings < 0 {
		remaining = core.Money{}
	}
	// The label shows collections beyond the goal ("120.0%"); the bar cannot.
	label := s.ProgressPercentage
	if math.IsNaN(label) || math.IsInf(label, 0) {
		label = s.ClampedProgress()
	}
	return statsView{
		MemberCount:   s.MemberCount,
		Total:         core.FormatKES(s.TotalContributions),
		Goal:          core.FormatKES(s.MonthlyGoal),
		Remaining:     core.FormatKES(remaining),
		Progress:      s.ClampedProgress(),
		ProgressLabel: formatPercent(label),
		GoalReached:   s.GoalReached(),
		Paid:          s.PaidCount,
		Pending:       s.PendingCount,
		Overdue:       s.OverdueCount,
		Version:       version,
	}
}

type memberView struct {
	ID           int64
	Name         string
	Phone        string
	Initials     string
	Contribution string
	Status       string
	StatusLabel  string
	LastPayment  string
	IsPaid       bool
}

func newMemberView(m core.Member) memberView {
	return memberView{
		ID:           m.ID,
		Name:         m.Name,
		Phone:        m.Phone,
		Initials:     m.Initials(),
		Contribution: core.FormatKES(m.Contribution),
		Status:       m.Status.String(),
		StatusLabel:  m.Status.Label(),
		LastPayment:  m.LastPayment.String(),
		IsPaid:       m.IsPaid(),
	}
}

type membersView struct {
	Query   string
	Total   int
	Members []memberView
}

func newMembersView(all int, filtered []core.Member, query string) membersView {
	v := membersView{Query: query, Total: all, Members: make([]memberView, 0, len(filtered))}
	for _, m := range filtered {
		v.Members = append(v.Members, newMemberView(m))
	}
	return v
}

type settingsView struct {
	MonthlyGoal       int64
	ReminderDay       int
	AutoReminders     bool
	ReminderFrequency string
	Frequencies       []core.Frequency
	Days              []int
	Errors            core.FieldErrors
}

func newSettingsView(s core.Settings, errs core.FieldErrors) settingsView {
	days := make([]int, 28)
	for i := range days {
		days[i] = i + 1
	}
	return settingsView{
		MonthlyGoal:       s.MonthlyGoal.Shillings,
		ReminderDay:       s.ReminderDay,
		AutoReminders:     s.AutoReminders,
		ReminderFrequency: string(s.ReminderFrequency),
		Frequencies:       core.Frequencies(),
		Days:              days,
		Errors:            errs,
	}
}

type activityItem struct {
	Title       string
	Description string
	At          string
}

func newActivityView(recent []notify.Notification) []activityItem {
	items := make([]activityItem, 0, len(recent))
	for _, n := range recent {
		items = append(items, activityItem{
			Title:       n.Title,
			Description: n.Description,
			At:          n.At.Format("02 Jan 15:04"),
		})
	}
	return items
}
