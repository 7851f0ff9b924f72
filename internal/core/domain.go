package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	StatusPaid    Status = "paid"
	StatusPending Status = "pending"
	StatusOverdue Status = "overdue"
)

const dateLayout = "2006-01-02"

type (
	// Status is a member's payment state for the current period.
	Status string

	Date struct {
		time.Time
	}

	// Money is an amount in whole Kenyan shillings.
	Money struct {
		Shillings int64
	}

	Member struct {
		ID           int64
		Name         string
		Phone        string
		Contribution Money
		Status       Status
		LastPayment  Date
	}
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPhone    = errors.New("phone is required")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidID     = errors.New("invalid member id")
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusPaid, StatusPending, StatusOverdue}
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusOverdue:
		return true
	default:
		return false
	}
}

// Label returns the status with its first letter upper-cased ("Paid").
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(string(s))
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

func (s Status) String() string {
	return string(s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t, as seen in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MaxAmount is the largest single contribution or goal accepted. Summing
// any realistic number of members at this bound stays well inside int64.
var MaxAmount = Money{Shillings: 1_000_000_000}

func (m Money) Validate() error {
	if m.Shillings < 0 || m.Shillings > MaxAmount.Shillings {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m+o.
func (m Money) Add(o Money) Money {
	return Money{Shillings: m.Shillings + o.Shillings}
}

// Sub returns m-o.
func (m Money) Sub(o Money) Money {
	return Money{Shillings: m.Shillings - o.Shillings}
}

func (m Member) Validate() error {
	if m.ID <= 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Phone) == "" {
		return ErrEmptyPhone
	}
	if err := m.Contribution.Validate(); err != nil {
		return err
	}
	if !m.Status.IsValid() {
		return ErrInvalidStatus
	}
	return m.LastPayment.Validate()
}

// Initials returns the first letter of every word in the member's name.
func (m Member) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(m.Name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
	}
	return b.String()
}

// IsPaid reports whether the member has paid for the current period.
func (m Member) IsPaid() bool {
	return m.Status == StatusPaid
}
