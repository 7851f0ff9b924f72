// Package core provides money parsing and formatting utilities.
//
// Amounts are whole Kenyan shillings; the dashboard never deals in cents.
package core

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseAmount converts user input such as "3000", "3,000" or "KES 3,000"
// into Money. Zero is accepted; negative, fractional, malformed and values
// above MaxAmount return ErrInvalidAmount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.EqualFold(s[:3], "kes") {
		s = strings.TrimSpace(s[3:])
	}
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	// Grouping separators only; a leading sign is never valid.
	s = strings.NewReplacer(",", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Shillings: v}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// FormatKES renders an amount with thousands separators, e.g. "KES 13,000".
func FormatKES(m Money) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("KES %d", m.Shillings)
}

func (m Money) String() string {
	return FormatKES(m)
}
