// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Mutating endpoints accept either form-encoded bodies (HTMX) or JSON.

package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"chama/internal/core"
)

// maxBodyBytes bounds every request body the dashboard reads.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Has reports whether key was present in the body at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		_, ok := p.jsonData[key]
		return ok
	}
	return p.formData != nil && p.formData.Has(key)
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseMemberID reads the {id} path value.
func ParseMemberID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidID, raw)
	}
	return id, nil
}

// ParseStatusChange reads "status" and the optional "amount". Amounts only
// apply to paid, where a blank amount records a contribution of zero.
func ParseStatusChange(p *RequestBodyParser, memberID int64) (core.StatusChange, error) {
	status, err := core.ParseStatus(p.Get("status"))
	if err != nil {
		return core.StatusChange{}, err
	}
	change := core.StatusChange{MemberID: memberID, Status: status}

	if status == core.StatusPaid {
		var amount core.Money
		if raw := p.Get("amount"); raw != "" {
			if amount, err = core.ParseAmount(raw); err != nil {
				return core.StatusChange{}, err
			}
		}
		change.Amount = &amount
	}
	return change, nil
}

// ParseSettings builds the submitted settings. Fields that cannot be parsed
// are reported as core.FieldErrors; range checks are left to the settings
// store. An absent auto_reminders means off, matching an unchecked checkbox.
func ParseSettings(p *RequestBodyParser) (core.Settings, error) {
	var s core.Settings
	errs := core.FieldErrors{}

	if goal, err := core.ParseAmount(p.Get("monthly_goal")); err != nil {
		errs["monthly_goal"] = "must be a whole number of shillings"
	} else {
		s.MonthlyGoal = goal
	}

	if day, err := strconv.Atoi(p.Get("reminder_day")); err != nil {
		errs["reminder_day"] = "must be a number"
	} else {
		s.ReminderDay = day
	}

	s.ReminderFrequency = core.Frequency(strings.ToLower(p.Get("reminder_frequency")))
	s.AutoReminders = parseCheckbox(p.Get("auto_reminders"))

	if len(errs) > 0 {
		return s, errs
	}
	return s, nil
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}
