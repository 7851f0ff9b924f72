package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateOfAndString(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	// 22:30 UTC on the 1st is already the 2nd in Nairobi.
	ts := time.Date(2024, 7, 1, 22, 30, 0, 0, time.UTC).In(nairobi)
	if got := DateOf(ts).String(); got != "2024-07-02" {
		t.Fatalf("DateOf = %q, want 2024-07-02", got)
	}
	if got := (Date{}).String(); got != "" {
		t.Fatalf("zero date should render empty, got %q", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2024, 6, 15) {
		t.Fatalf("got %v", d)
	}
	if _, err := ParseDate("15/06/2024"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"paid", StatusPaid, true},
		{" Pending ", StatusPending, true},
		{"OVERDUE", StatusOverdue, true},
		{"late", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %q err=%v", tc.in, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("%q: expected ErrInvalidStatus, got %v", tc.in, err)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusOverdue.Label(); got != "Overdue" {
		t.Fatalf("Label = %q", got)
	}
	if got := Status("").Label(); got != "" {
		t.Fatalf("empty Label = %q", got)
	}
}

func TestMemberValidate(t *testing.T) {
	good := Member{
		ID:           1,
		Name:         "Mary Wanjiku",
		Phone:        "+254712345678",
		Contribution: Money{Shillings: 5000},
		Status:       StatusPaid,
		LastPayment:  NewDate(2024, 7, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*Member)
		want   error
	}{
		{func(m *Member) { m.ID = 0 }, ErrInvalidID},
		{func(m *Member) { m.Name = "   " }, ErrEmptyName},
		{func(m *Member) { m.Phone = "" }, ErrEmptyPhone},
		{func(m *Member) { m.Contribution = Money{Shillings: -1} }, ErrInvalidAmount},
		{func(m *Member) { m.Status = "late" }, ErrInvalidStatus},
		{func(m *Member) { m.LastPayment = Date{} }, ErrInvalidDate},
	}
	for i, tc := range bads {
		m := good
		tc.mutate(&m)
		if err := m.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestMemberInitials(t *testing.T) {
	cases := map[string]string{
		"Mary Wanjiku":     "MW",
		"  Peter  Mwangi ": "PM",
		"Njeri":            "N",
		"":                 "",
	}
	for name, want := range cases {
		if got := (Member{Name: name}).Initials(); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}
