package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chama/internal/core"
)

func newParser(t *testing.T, body, contentType string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser_Form(t *testing.T) {
	p := newParser(t, "name=+Jane+Doe+&phone=%2B254700000000", "application/x-www-form-urlencoded")

	if p.IsJSON() {
		t.Error("form body detected as JSON")
	}
	if got := p.Get("name"); got != "Jane Doe" {
		t.Errorf("name = %q", got)
	}
	if got := p.Get("phone"); got != "+254700000000" {
		t.Errorf("phone = %q", got)
	}
	if !p.Has("name") || p.Has("missing") {
		t.Error("Has() mismatch")
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	p := newParser(t, `{"monthly_goal": 25000, "auto_reminders": true, "reminder_frequency": "daily"}`, "application/json")

	if !p.IsJSON() {
		t.Fatal("expected JSON")
	}
	if got := p.Get("monthly_goal"); got != "25000" {
		t.Errorf("monthly_goal = %q", got)
	}
	if got := p.Get("auto_reminders"); got != "true" {
		t.Errorf("auto_reminders = %q", got)
	}
	if p.Get("missing") != "" {
		t.Error("missing key should be empty")
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestRequestBodyParser_StripsControlCharacters(t *testing.T) {
	p := newParser(t, "name=Mary%00Wanjiku", "")
	if got := p.Get("name"); got != "MaryWanjiku" {
		t.Errorf("name = %q", got)
	}
}

func TestParseMemberID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"2", 2, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/members/x/status", nil)
		req.SetPathValue("id", tt.value)
		got, err := ParseMemberID(req)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMemberID(%q) error = %v", tt.value, err)
			continue
		}
		if err != nil && !errors.Is(err, core.ErrInvalidID) {
			t.Errorf("error %v is not ErrInvalidID", err)
		}
		if got != tt.want {
			t.Errorf("ParseMemberID(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestParseStatusChange(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus core.Status
		wantAmount *int64
		wantErr    error
	}{
		{"paid with amount", "status=paid&amount=3,000", core.StatusPaid, ptr(int64(3000)), nil},
		{"paid with blank amount records zero", "status=paid&amount=", core.StatusPaid, ptr(int64(0)), nil},
		{"paid without amount field records zero", "status=paid", core.StatusPaid, ptr(int64(0)), nil},
		{"pending ignores amount", "status=pending&amount=500", core.StatusPending, nil, nil},
		{"overdue accepted", "status=Overdue", core.StatusOverdue, nil, nil},
		{"unknown status", "status=late", "", nil, core.ErrInvalidStatus},
		{"bad amount", "status=paid&amount=-5", "", nil, core.ErrInvalidAmount},
		{"amount above max", "status=paid&amount=9223372036854775807", "", nil, core.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change, err := ParseStatusChange(newParser(t, tt.body, ""), 2)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if change.MemberID != 2 || change.Status != tt.wantStatus {
				t.Errorf("change = %+v", change)
			}
			switch {
			case tt.wantAmount == nil && change.Amount != nil:
				t.Errorf("amount = %v, want nil", *change.Amount)
			case tt.wantAmount != nil && (change.Amount == nil || change.Amount.Shillings != *tt.wantAmount):
				t.Errorf("amount = %v, want %d", change.Amount, *tt.wantAmount)
			}
		})
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings(newParser(t, "monthly_goal=25000&reminder_day=5&reminder_frequency=Monthly&auto_reminders=on", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := core.Settings{
		MonthlyGoal:       core.Money{Shillings: 25000},
		ReminderDay:       5,
		AutoReminders:     true,
		ReminderFrequency: core.Monthly,
	}
	if s != want {
		t.Errorf("settings = %+v, want %+v", s, want)
	}

	s, err = ParseSettings(newParser(t, "monthly_goal=25000&reminder_day=5&reminder_frequency=weekly", ""))
	if err != nil || s.AutoReminders {
		t.Errorf("unchecked box should disable reminders: %+v, %v", s, err)
	}
}

func TestParseSettingsReportsFieldErrors(t *testing.T) {
	_, err := ParseSettings(newParser(t, "monthly_goal=lots&reminder_day=&reminder_frequency=weekly", ""))

	var fe core.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if _, ok := fe["monthly_goal"]; !ok {
		t.Error("missing monthly_goal error")
	}
	if _, ok := fe["reminder_day"]; !ok {
		t.Error("missing reminder_day error")
	}
	if !errors.Is(err, core.ErrInvalidSettings) {
		t.Error("FieldErrors should unwrap to ErrInvalidSettings")
	}
}

func ptr[T any](v T) *T { return &v }
