package core

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// Frequency is how often automatic reminders go out.
type Frequency string

// Settings is the session-scoped contribution configuration.
type Settings struct {
	MonthlyGoal       Money     `json:"monthly_goal" validate:"gt=0,max=1000000000"`
	ReminderDay       int       `json:"reminder_day" validate:"min=1,max=28"`
	AutoReminders     bool      `json:"auto_reminders"`
	ReminderFrequency Frequency `json:"reminder_frequency" validate:"oneof=daily weekly monthly"`
}

var ErrInvalidSettings = errors.New("invalid settings")

// FieldErrors maps a field name to what is wrong with it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e[k])
	}
	return "invalid settings: " + strings.Join(parts, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalidSettings
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(Money); ok {
			return m.Shillings
		}
		return nil
	}, Money{})
	return v
}

// DefaultSettings mirrors the values a new chama starts with.
func DefaultSettings() Settings {
	return Settings{
		MonthlyGoal:       Money{Shillings: 20000},
		ReminderDay:       25,
		AutoReminders:     true,
		ReminderFrequency: Weekly,
	}
}

// Frequencies lists the supported reminder frequencies.
func Frequencies() []Frequency {
	return []Frequency{Daily, Weekly, Monthly}
}

func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

// Validate returns FieldErrors describing every invalid field.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		out[fe.Field()] = validationMessage(fe)
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}
